package seri

import (
	"sort"
	"strconv"

	"github.com/serikit/seri/errors"
)

// List serializes a slice as a JSON array: elements in order, comma
// separated, length preserved.
func List[S ~[]E, E any](elem Codec[E]) Codec[S] {
	return Codec[S]{
		kind: KindList,
		enc: func(w *Writer, v S) error {
			w.Byte('[')
			for i := range v {
				if i > 0 {
					w.Byte(',')
				}
				if err := elem.Encode(w, v[i]); err != nil {
					return errors.Prefix(err, "["+strconv.Itoa(i)+"]")
				}
			}
			w.Byte(']')
			return nil
		},
	}
}

// Map serializes a string-keyed map as a JSON object. The key constraint
// makes a non-string key a compile error. Keys are emitted in ascending
// order so equal maps always produce identical bytes.
func Map[M ~map[K]V, K ~string, V any](elem Codec[V]) Codec[M] {
	return Codec[M]{
		kind: KindMap,
		enc: func(w *Writer, v M) error {
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, string(k))
			}
			sort.Strings(keys)
			w.Byte('{')
			for i, k := range keys {
				if i > 0 {
					w.Byte(',')
				}
				w.Escaped(k)
				w.Byte(':')
				if err := elem.Encode(w, v[K(k)]); err != nil {
					return errors.Prefix(err, k)
				}
			}
			w.Byte('}')
			return nil
		},
	}
}

// Option serializes a zero-or-one slot held as a pointer: nil emits null, a
// present value is serialized directly with no wrapping.
func Option[T any](elem Codec[T]) Codec[*T] {
	return Codec[*T]{
		kind: KindOption,
		enc: func(w *Writer, v *T) error {
			if v == nil {
				w.Literal("null")
				return nil
			}
			return elem.Encode(w, *v)
		},
	}
}
