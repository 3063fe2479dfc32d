package seri

import (
	"math"
	"strconv"

	"github.com/serikit/seri/errors"
)

const hexDigits = "0123456789abcdef"

// Writer is an append-only JSON text sink. A Writer is owned by the single
// serialization call that created it; concurrent calls must each use their
// own.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{}
}

// NewWriterBuffer returns a Writer appending to buf. Callers may pass a
// recycled buffer to avoid allocation; the engine imposes no pooling
// contract of its own.
func NewWriterBuffer(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Byte appends a single raw byte.
func (w *Writer) Byte(c byte) {
	w.buf = append(w.buf, c)
}

// Literal appends s verbatim, with no quoting or escaping.
func (w *Writer) Literal(s string) {
	w.buf = append(w.buf, s...)
}

// Escaped appends s as a double-quoted JSON string literal. Backslash,
// double quote, newline, carriage return and tab use their two-character
// escapes; any other control byte below 0x20 is written as \u00XX so the
// output is always valid JSON. No other normalization is applied.
func (w *Writer) Escaped(s string) {
	w.buf = append(w.buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			w.buf = append(w.buf, '\\', '\\')
		case '"':
			w.buf = append(w.buf, '\\', '"')
		case '\n':
			w.buf = append(w.buf, '\\', 'n')
		case '\r':
			w.buf = append(w.buf, '\\', 'r')
		case '\t':
			w.buf = append(w.buf, '\\', 't')
		default:
			if c < 0x20 {
				w.buf = append(w.buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			} else {
				w.buf = append(w.buf, c)
			}
		}
	}
	w.buf = append(w.buf, '"')
}

// Int appends v as plain decimal text.
func (w *Writer) Int(v int64) {
	w.buf = strconv.AppendInt(w.buf, v, 10)
}

// Uint appends v as plain decimal text.
func (w *Writer) Uint(v uint64) {
	w.buf = strconv.AppendUint(w.buf, v, 10)
}

// Float appends the shortest decimal text that round-trips to the same
// binary value. bits selects float32 or float64 rounding. NaN and the
// infinities have no JSON representation and fail the call.
func (w *Writer) Float(v float64, bits int) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.NonFinite(v)
	}
	w.buf = strconv.AppendFloat(w.buf, v, 'g', -1, bits)
	return nil
}

func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the accumulated buffer. The slice aliases the Writer's
// storage.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) String() string {
	return string(w.buf)
}

// Reset truncates the buffer for reuse, keeping its capacity.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}
