package seri

import "github.com/serikit/seri/errors"

// Codec binds a serialization rule to a Go type. Codecs are immutable after
// construction and safe for concurrent use; build them once at package
// initialization with the combinators in this package.
type Codec[T any] struct {
	enc  func(w *Writer, v T) error
	kind Kind
}

// NewCodec binds a kind and an encode function directly. It is the seam for
// alternative descriptor producers (such as the harvest package); ordinary
// code uses the typed combinators.
func NewCodec[T any](kind Kind, enc func(*Writer, T) error) Codec[T] {
	return Codec[T]{enc: enc, kind: kind}
}

// Kind returns the codec's serialization category.
func (c Codec[T]) Kind() Kind {
	return c.kind
}

// Encode writes v to w under the codec's rule. A failure leaves w with the
// partial output written so far; callers that reuse buffers should discard
// it.
func (c Codec[T]) Encode(w *Writer, v T) error {
	if c.enc == nil {
		return errors.New(errors.PhaseEncode, errors.KindUnsupported).
			Detail("zero codec; construct codecs with the package combinators").
			Build()
	}
	return c.enc(w, v)
}

// Marshal serializes v to JSON text: no inserted whitespace, no trailing
// newline.
func Marshal[T any](c Codec[T], v T) ([]byte, error) {
	buf := getBuf()
	w := NewWriterBuffer(buf)
	if err := c.Encode(w, v); err != nil {
		putBuf(w.buf)
		return nil, err
	}
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	putBuf(w.buf)
	return out, nil
}

// MarshalString is Marshal returning a string.
func MarshalString[T any](c Codec[T], v T) (string, error) {
	buf := getBuf()
	w := NewWriterBuffer(buf)
	if err := c.Encode(w, v); err != nil {
		putBuf(w.buf)
		return "", err
	}
	s := w.String()
	putBuf(w.buf)
	return s, nil
}

// Append serializes v and appends the JSON text to dst, returning the
// extended slice. It lets callers reuse buffers across calls.
func Append[T any](dst []byte, c Codec[T], v T) ([]byte, error) {
	w := NewWriterBuffer(dst)
	if err := c.Encode(w, v); err != nil {
		return dst, err
	}
	return w.Bytes(), nil
}
