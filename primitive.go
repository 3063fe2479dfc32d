package seri

import "unsafe"

// Constraint sets for the primitive combinators, defined locally so that
// descriptor files need no imports beyond this package.

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer covers every integral type an enumeration may be declared over.
type Integer interface {
	Signed | Unsigned
}

// Bool serializes a boolean type as the true/false literals.
func Bool[T ~bool]() Codec[T] {
	return Codec[T]{
		kind: KindBool,
		enc: func(w *Writer, v T) error {
			if v {
				w.Literal("true")
			} else {
				w.Literal("false")
			}
			return nil
		},
	}
}

// Int serializes a signed integral type as plain decimal text.
func Int[T Signed]() Codec[T] {
	return Codec[T]{
		kind: KindInt,
		enc: func(w *Writer, v T) error {
			w.Int(int64(v))
			return nil
		},
	}
}

// Uint serializes an unsigned integral type as plain decimal text.
func Uint[T Unsigned]() Codec[T] {
	return Codec[T]{
		kind: KindInt,
		enc: func(w *Writer, v T) error {
			w.Uint(uint64(v))
			return nil
		},
	}
}

// Float serializes a floating-point type with the shortest decimal text that
// round-trips to the same binary value. Non-finite values are encode
// failures.
func Float[T ~float32 | ~float64]() Codec[T] {
	bits := int(unsafe.Sizeof(T(0))) * 8
	return Codec[T]{
		kind: KindFloat,
		enc: func(w *Writer, v T) error {
			return w.Float(float64(v), bits)
		},
	}
}

// String serializes a string type as an escaped, double-quoted JSON string.
func String[T ~string]() Codec[T] {
	return Codec[T]{
		kind: KindString,
		enc: func(w *Writer, v T) error {
			w.Escaped(string(v))
			return nil
		},
	}
}
