package tail

import (
	"errors"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Default option values.
const (
	DefaultLargeFileThreshold int64   = 2 * 1024 * 1024
	DefaultSampleSize                 = 4096
	DefaultNULThreshold       float64 = 0.30
)

var errIsDirectory = errors.New("is a directory")

// Options configure a Reader. Zero fields take the documented defaults.
type Options struct {
	// Encoding is "" or "auto" for detection, otherwise a WHATWG label that
	// bypasses detection entirely.
	Encoding string
	// LargeFileThreshold is the size above which Open(path, true) starts at
	// end-of-file.
	LargeFileThreshold int64
	// SampleSize is the number of leading bytes inspected by the NUL heuristic.
	SampleSize int
	// NULThreshold is the NUL fraction above which UTF-16 is inferred.
	NULThreshold float64
}

func (o Options) withDefaults() Options {
	if o.LargeFileThreshold <= 0 {
		o.LargeFileThreshold = DefaultLargeFileThreshold
	}
	if o.SampleSize <= 0 {
		o.SampleSize = DefaultSampleSize
	}
	if o.NULThreshold <= 0 || o.NULThreshold > 1 {
		o.NULThreshold = DefaultNULThreshold
	}
	return o
}

// Chunk is the result of one ReadNewText call.
type Chunk struct {
	// Text is newly decoded text; it may end in the middle of a line.
	Text string
	// Rotation is set when the file was reopened before reading.
	Rotation *RotationEvent
	// Malformed is set when replacement characters appeared in Text.
	Malformed *EncodingError
}

// Info describes the Reader's current position for display.
type Info struct {
	Path             string
	Open             bool
	Offset           int64
	Size             int64
	Encoding         string
	Source           string
	DetectionPending bool
}

// Reader incrementally reads and decodes a single growing file. It is not
// safe for concurrent use; the scheduler owns it.
type Reader struct {
	opts      Options
	override  *textEncoding
	path      string
	preferEnd bool
	st        *state
}

// state is everything tied to one opened file. It is replaced wholesale on
// rotation or truncation.
type state struct {
	file     *os.File
	identity os.FileInfo
	size     int64
	offset   int64
	enc      textEncoding
	pending  bool
	dec      *decoder
}

func (s *state) setEncoding(enc textEncoding) {
	s.enc = enc
	s.pending = false
	s.dec = newDecoder(enc.enc)
}

func (s *state) close() {
	if s != nil && s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}
}

// NewReader validates opts and returns a Reader with no file open.
func NewReader(opts Options) (*Reader, error) {
	opts = opts.withDefaults()
	override, err := resolveOverride(opts.Encoding)
	if err != nil {
		return nil, err
	}
	return &Reader{opts: opts, override: override}, nil
}

// Open starts tailing path. Any previously open file is closed first. The
// path is remembered even when opening fails so ReadNewText can retry.
func (r *Reader) Open(path string, preferEndIfLarge bool) error {
	r.st.close()
	r.st = nil
	r.path = path
	r.preferEnd = preferEndIfLarge

	st, err := r.open(preferEndIfLarge)
	if err != nil {
		return err
	}
	r.st = st
	return nil
}

func (r *Reader) open(preferEnd bool) (*state, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, &FileAccessError{Op: "open", Path: r.path, Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &FileAccessError{Op: "stat", Path: r.path, Err: err}
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, &FileAccessError{Op: "open", Path: r.path, Err: errIsDirectory}
	}

	st := &state{file: f, identity: info, size: info.Size()}
	switch {
	case r.override != nil:
		st.setEncoding(*r.override)
	case info.Size() == 0:
		st.pending = true
	default:
		sample := make([]byte, min(int64(r.opts.SampleSize), info.Size()))
		n, err := f.ReadAt(sample, 0)
		if err != nil && !errors.Is(err, io.EOF) {
			_ = f.Close()
			return nil, &FileAccessError{Op: "read", Path: r.path, Err: err}
		}
		if tooShortToDetect(sample[:n]) {
			st.pending = true
			break
		}
		enc := detect(sample[:n], r.opts.NULThreshold)
		st.setEncoding(enc)
		st.offset = int64(enc.bom)
	}

	if !st.pending && preferEnd && info.Size() > r.opts.LargeFileThreshold {
		st.offset = alignedEnd(info.Size(), st.enc)
	}
	return st, nil
}

// alignedEnd returns the end-of-file offset rounded down to a code unit
// boundary so decoding starts on a character.
func alignedEnd(size int64, enc textEncoding) int64 {
	if enc.unit <= 1 {
		return size
	}
	body := size - int64(enc.bom)
	body -= body % int64(enc.unit)
	return int64(enc.bom) + body
}

// ReadNewText returns text appended since the previous call. A rotation or
// truncation is handled first and reported in Chunk.Rotation; the new file
// is read in the same call. On error the Chunk may still carry a Rotation.
func (r *Reader) ReadNewText() (Chunk, error) {
	var chunk Chunk
	if r.st == nil {
		if r.path == "" {
			return chunk, ErrNotOpen
		}
		st, err := r.open(r.preferEnd)
		if err != nil {
			return chunk, err
		}
		r.st = st
	}

	rotation, err := r.checkRotation()
	if err != nil {
		return chunk, err
	}
	chunk.Rotation = rotation

	data, err := r.drain()
	if err != nil {
		return chunk, err
	}

	st := r.st
	if st.pending {
		if len(data) == 0 {
			return chunk, nil
		}
		if tooShortToDetect(data) {
			st.offset -= int64(len(data))
			return chunk, nil
		}
		enc := detect(data[:min(len(data), r.opts.SampleSize)], r.opts.NULThreshold)
		st.setEncoding(enc)
		data = data[min(enc.bom, len(data)):]
	}

	chunk.Text = st.dec.decode(data)
	if n := strings.Count(chunk.Text, string(utf8.RuneError)); n > 0 {
		chunk.Malformed = &EncodingError{Encoding: st.enc.name, Replacements: n}
	}
	return chunk, nil
}

// checkRotation compares the path's current file against the open one and
// reopens from the start when it was replaced or shrank below the offset.
func (r *Reader) checkRotation() (*RotationEvent, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return nil, &FileAccessError{Op: "stat", Path: r.path, Err: err}
	}

	var reason RotationReason
	switch {
	case !os.SameFile(info, r.st.identity):
		reason = ReasonRotated
	case info.Size() < r.st.offset:
		reason = ReasonTruncated
	default:
		r.st.size = info.Size()
		return nil, nil
	}

	previous := r.st.offset
	st, err := r.open(false)
	if err != nil {
		return nil, err
	}
	r.st.close()
	r.st = st
	return &RotationEvent{Reason: reason, PreviousOffset: previous, Size: info.Size()}, nil
}

// drain reads every byte between the stored offset and end-of-file.
func (r *Reader) drain() ([]byte, error) {
	st := r.st
	if _, err := st.file.Seek(st.offset, io.SeekStart); err != nil {
		return nil, &FileAccessError{Op: "seek", Path: r.path, Err: err}
	}
	data, err := io.ReadAll(st.file)
	if err != nil {
		return nil, &FileAccessError{Op: "read", Path: r.path, Err: err}
	}
	st.offset += int64(len(data))
	if st.offset > st.size {
		st.size = st.offset
	}
	return data, nil
}

// Close releases the file handle and forgets the path.
func (r *Reader) Close() error {
	var err error
	if r.st != nil && r.st.file != nil {
		err = r.st.file.Close()
		r.st.file = nil
	}
	r.st = nil
	r.path = ""
	return err
}

// Path returns the remembered path, which may not be open.
func (r *Reader) Path() string { return r.path }

// Info reports the current position and encoding.
func (r *Reader) Info() Info {
	info := Info{Path: r.path}
	if r.st == nil {
		return info
	}
	info.Open = true
	info.Offset = r.st.offset
	info.Size = r.st.size
	info.DetectionPending = r.st.pending
	if !r.st.pending {
		info.Encoding = r.st.enc.name
		info.Source = r.st.enc.source
	}
	return info
}
