package linebuf

import "strings"

// Line is one complete line of decoded text without its terminator. Seq is
// assigned when the line completes and is never reused.
type Line struct {
	Seq  uint64
	Text string
}

// Buffer retains the most recent complete lines up to its capacity, plus the
// trailing fragment that has not been terminated yet. It is not safe for
// concurrent use.
type Buffer struct {
	ring     []Line
	start    int
	capacity int

	pending   string
	pendingCR bool
	seq       uint64
}

// New returns an empty Buffer. A capacity below 1 is raised to 1.
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{capacity: capacity}
}

// Append splits text on LF, CRLF or a bare CR and pushes every completed
// line. The unterminated tail becomes the pending fragment and is prepended
// to the next Append. It returns the newly completed lines that are still
// retained after eviction.
func (b *Buffer) Append(text string) []Line {
	if text == "" {
		return nil
	}
	if b.pendingCR {
		b.pendingCR = false
		text = strings.TrimPrefix(text, "\n")
	}

	var added []Line
	for text != "" {
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			b.pending += text
			break
		}
		added = append(added, b.push(b.pending+text[:i]))
		b.pending = ""

		if text[i] == '\r' {
			if i+1 == len(text) {
				// The LF of a CRLF may arrive with the next read.
				b.pendingCR = true
				break
			}
			if text[i+1] == '\n' {
				i++
			}
		}
		text = text[i+1:]
	}

	if n := len(b.ring); len(added) > n {
		added = added[len(added)-n:]
	}
	return added
}

func (b *Buffer) push(text string) Line {
	b.seq++
	line := Line{Seq: b.seq, Text: text}
	if len(b.ring) < b.capacity {
		b.ring = append(b.ring, line)
		return line
	}
	b.ring[b.start] = line
	b.start = (b.start + 1) % len(b.ring)
	return line
}

// SetCapacity changes the capacity, keeping only the newest n lines when it
// shrinks. Growing never brings back evicted lines.
func (b *Buffer) SetCapacity(n int) {
	if n < 1 {
		n = 1
	}
	lines := b.Lines()
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	b.ring = lines
	b.start = 0
	b.capacity = n
}

// Clear drops every line and the pending fragment. Sequence numbers continue.
func (b *Buffer) Clear() {
	b.ring = nil
	b.start = 0
	b.pending = ""
	b.pendingCR = false
}

// DiscardPending drops the unterminated fragment, used when the file it came
// from has been replaced.
func (b *Buffer) DiscardPending() {
	b.pending = ""
	b.pendingCR = false
}

// Lines returns a copy of the retained lines, oldest first.
func (b *Buffer) Lines() []Line {
	lines := make([]Line, len(b.ring))
	n := copy(lines, b.ring[b.start:])
	copy(lines[n:], b.ring[:b.start])
	return lines
}

// Oldest returns the sequence number of the oldest retained line.
func (b *Buffer) Oldest() (uint64, bool) {
	if len(b.ring) == 0 {
		return 0, false
	}
	return b.ring[b.start].Seq, true
}

// Len returns the number of retained lines.
func (b *Buffer) Len() int { return len(b.ring) }

// Cap returns the capacity.
func (b *Buffer) Cap() int { return b.capacity }

// Pending returns the unterminated trailing fragment.
func (b *Buffer) Pending() string { return b.pending }

// Total returns the number of lines ever completed, including evicted ones.
func (b *Buffer) Total() uint64 { return b.seq }
