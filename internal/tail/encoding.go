package tail

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Detection sources reported in Info.Source.
const (
	SourceBOM       = "bom"
	SourceHeuristic = "heuristic"
	SourceDefault   = "default"
	SourceOverride  = "override"
)

const autoEncoding = "auto"

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// textEncoding is a resolved encoding plus how it was chosen and how many
// leading BOM bytes to skip.
type textEncoding struct {
	name   string
	source string
	bom    int
	unit   int
	enc    encoding.Encoding
}

func utf8Encoding(source string, bom int) textEncoding {
	return textEncoding{name: "utf-8", source: source, bom: bom, unit: 1, enc: unicode.UTF8}
}

func utf16Encoding(order unicode.Endianness, source string, bom int) textEncoding {
	name := "utf-16le"
	if order == unicode.BigEndian {
		name = "utf-16be"
	}
	return textEncoding{
		name:   name,
		source: source,
		bom:    bom,
		unit:   2,
		enc:    unicode.UTF16(order, unicode.IgnoreBOM),
	}
}

// LookupEncoding validates an encoding label and returns its canonical name.
// An empty label or "auto" selects detection and returns "auto".
func LookupEncoding(label string) (string, error) {
	enc, err := resolveOverride(label)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return autoEncoding, nil
	}
	return enc.name, nil
}

func resolveOverride(label string) (*textEncoding, error) {
	trimmed := strings.ToLower(strings.TrimSpace(label))
	if trimmed == "" || trimmed == autoEncoding {
		return nil, nil
	}
	enc, err := htmlindex.Get(trimmed)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = trimmed
	}
	unit := 1
	if strings.HasPrefix(name, "utf-16") {
		unit = 2
	}
	return &textEncoding{name: name, source: SourceOverride, unit: unit, enc: enc}, nil
}

// minDetectSample is the fewest bytes detection runs on: one UTF-16 code
// unit, so the NUL position can tell the byte order.
const minDetectSample = 2

// tooShortToDetect reports whether detection must wait for more bytes.
func tooShortToDetect(p []byte) bool {
	return len(p) < minDetectSample || isPartialBOM(p)
}

// isPartialBOM reports whether p is a strict prefix of a byte-order mark, in
// which case detection waits for more bytes.
func isPartialBOM(p []byte) bool {
	for _, bom := range [][]byte{bomUTF8, bomUTF16LE, bomUTF16BE} {
		if len(p) < len(bom) && bytes.HasPrefix(bom, p) {
			return true
		}
	}
	return false
}

// detect picks an encoding from the leading bytes of a file: BOM first, then
// the NUL-frequency heuristic for BOM-less UTF-16, then UTF-8.
func detect(sample []byte, nulThreshold float64) textEncoding {
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		return utf8Encoding(SourceBOM, len(bomUTF8))
	case bytes.HasPrefix(sample, bomUTF16LE):
		return utf16Encoding(unicode.LittleEndian, SourceBOM, len(bomUTF16LE))
	case bytes.HasPrefix(sample, bomUTF16BE):
		return utf16Encoding(unicode.BigEndian, SourceBOM, len(bomUTF16BE))
	}

	if len(sample) >= 2 {
		var even, odd int
		for i, b := range sample {
			if b != 0 {
				continue
			}
			if i%2 == 0 {
				even++
			} else {
				odd++
			}
		}
		if float64(even+odd)/float64(len(sample)) > nulThreshold {
			// ASCII text in UTF-16LE puts the zero high byte second.
			if odd > even {
				return utf16Encoding(unicode.LittleEndian, SourceHeuristic, 0)
			}
			return utf16Encoding(unicode.BigEndian, SourceHeuristic, 0)
		}
	}
	return utf8Encoding(SourceDefault, 0)
}

// decoder turns raw bytes into UTF-8 text across read boundaries. Bytes that
// end in the middle of a multi-byte sequence are held back until the next
// call; malformed sequences become U+FFFD.
type decoder struct {
	t         transform.Transformer
	remainder []byte
}

func newDecoder(enc encoding.Encoding) *decoder {
	return &decoder{t: enc.NewDecoder()}
}

func (d *decoder) decode(p []byte) string {
	src := p
	if len(d.remainder) > 0 {
		src = append(d.remainder, p...)
		d.remainder = nil
	}
	if len(src) == 0 {
		return ""
	}

	dst := make([]byte, 3*len(src)+utf8.UTFMax)
	out := make([]byte, 0, len(src))
	for len(src) > 0 {
		nDst, nSrc, err := d.t.Transform(dst, src, false)
		out = append(out, dst[:nDst]...)
		src = src[nSrc:]
		switch err {
		case nil:
			if len(src) > 0 {
				// An odd trailing byte of UTF-16 can be left unconsumed without
				// ErrShortSrc.
				d.remainder = append([]byte(nil), src...)
				return string(out)
			}
		case transform.ErrShortDst:
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, 2*len(dst))
			}
		case transform.ErrShortSrc:
			d.remainder = append([]byte(nil), src...)
			return string(out)
		default:
			// Replacement decoders do not fail; skip a byte to guarantee progress.
			out = append(out, string(utf8.RuneError)...)
			src = src[1:]
		}
	}
	return string(out)
}

// pending reports the number of undecoded trailing bytes.
func (d *decoder) pending() int { return len(d.remainder) }
