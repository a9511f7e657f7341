package tail

import (
	"errors"
	"fmt"
)

// ErrNotOpen is returned by ReadNewText when no path has been opened.
var ErrNotOpen = errors.New("tail: no file opened")

// FileAccessError reports a file that could not be opened, stat'ed or read.
// It is never fatal to the Reader; the next call retries.
type FileAccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// EncodingError reports malformed byte sequences that were replaced with
// U+FFFD while decoding a chunk. It describes a recovered condition and is
// carried in Chunk.Malformed rather than returned.
type EncodingError struct {
	Encoding     string
	Replacements int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("decode %s: replaced %d malformed sequence(s)", e.Encoding, e.Replacements)
}

// RotationReason says why a file was reopened.
type RotationReason string

const (
	ReasonRotated   RotationReason = "rotated"
	ReasonTruncated RotationReason = "truncated"
)

// RotationEvent is informational: the file at the tailed path was replaced
// or shrank below the read offset, and reading restarted from the beginning.
type RotationEvent struct {
	Reason         RotationReason
	PreviousOffset int64
	Size           int64
}

func (e RotationEvent) String() string {
	return fmt.Sprintf("%s (offset %d, size %d)", e.Reason, e.PreviousOffset, e.Size)
}
