package ui

import "strings"

// truncateMiddle shortens a string by removing characters from the middle,
// keeping the start and the end, which for paths is the file name.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}

	keep := limit - 1 // room for the ellipsis
	tail := keep / 2
	if base := strings.LastIndexAny(value, `/\`); base >= 0 {
		// Prefer the whole file name when it fits in two thirds.
		if name := []rune(value[base:]); len(name) <= keep*2/3 {
			tail = len(name)
		}
	}
	head := keep - tail
	return string(runes[:head]) + "…" + string(runes[len(runes)-tail:])
}
