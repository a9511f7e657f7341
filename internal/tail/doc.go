// Package tail incrementally reads a growing text file and decodes it to
// UTF-8.
//
// # Overview
//
// A Reader follows one path. Each ReadNewText call returns exactly the text
// appended since the previous call, so a caller that concatenates every
// Chunk.Text sees the file's contents with no byte lost or repeated, however
// the writes and reads interleave.
//
//	r, err := tail.NewReader(tail.Options{})
//	if err != nil {
//		return err
//	}
//	if err := r.Open("/var/log/app.log", true); err != nil {
//		log.Printf("open failed, will retry: %v", err)
//	}
//	chunk, err := r.ReadNewText()
//
// # Encoding Detection
//
// Detection runs once per opened file:
//
//  1. A byte-order mark selects UTF-8 (EF BB BF), UTF-16LE (FF FE) or
//     UTF-16BE (FE FF). The mark is skipped.
//  2. Without a mark, up to Options.SampleSize leading bytes are sampled. A
//     NUL fraction above Options.NULThreshold means UTF-16; NULs mostly at
//     odd indices mean little-endian.
//  3. Anything else is UTF-8.
//
// Detection needs at least one UTF-16 code unit and never decides on part of
// a byte-order mark. Until a file holds that much, its bytes stay unread and
// detection is retried on the next read. Options.Encoding names a WHATWG encoding that bypasses
// detection entirely.
//
// # Decoding
//
// Decoding goes through golang.org/x/text transformers with atEOF=false.
// Bytes that stop in the middle of a character stay in a remainder and are
// completed by the next read. Malformed input becomes U+FFFD and is reported
// in Chunk.Malformed; decoding never fails.
//
// # Rotation and Truncation
//
// Every read first stats the path. A different file (os.SameFile is false)
// is a rotation; a size below the read offset is a truncation. Both reopen the
// path from the beginning with fresh detection, and the new contents are read
// in the same call. Chunk.Rotation reports which one happened.
//
// # Errors
//
// A path that cannot be opened or read yields a *FileAccessError. The Reader
// keeps the path and retries on the next call, so callers treat these as
// transient.
package tail
