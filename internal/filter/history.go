package filter

import "slices"

// DefaultHistoryLimit is the number of patterns kept.
const DefaultHistoryLimit = 20

// History holds distinct recent patterns, most recent first.
type History struct {
	limit int
	items []string
}

// NewHistory returns a History seeded with items (most recent first).
// Duplicates and empty entries in seed are dropped.
func NewHistory(limit int, seed []string) *History {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	h := &History{limit: limit}
	for i := len(seed) - 1; i >= 0; i-- {
		h.Push(seed[i])
	}
	return h
}

// Push moves pattern to the front, evicting the oldest beyond the limit.
func (h *History) Push(pattern string) {
	if pattern == "" {
		return
	}
	if i := slices.Index(h.items, pattern); i >= 0 {
		h.items = slices.Delete(h.items, i, i+1)
	}
	h.items = slices.Insert(h.items, 0, pattern)
	if len(h.items) > h.limit {
		h.items = h.items[:h.limit]
	}
}

// Items returns a copy, most recent first.
func (h *History) Items() []string { return slices.Clone(h.items) }

// Len returns the number of patterns.
func (h *History) Len() int { return len(h.items) }
