// Package linebuf holds the most recent lines of a tailed file.
//
// A Buffer is a ring: its slice grows up to the capacity, then each new line
// overwrites the oldest slot, so the newest Cap() lines are always available
// in order without shifting. Lines are split on LF, CRLF and bare CR; a CR at
// the end of one Append and a LF at the start of the next count as a single
// CRLF.
//
// Text after the last terminator is kept as the pending fragment and joined
// to the next Append, which lets callers feed arbitrary read chunks:
//
//	buf := linebuf.New(10000)
//	buf.Append("first li")
//	added := buf.Append("ne\nsecond")  // [{1 "first line"}]
//	buf.Pending()                      // "second"
//
// Every line gets a monotonic sequence number. Filter results refer to lines
// by Seq so they can drop matches once the buffer evicts the line.
package linebuf
