package seri

import "github.com/serikit/seri/errors"

// Result holds either a success payload or an error payload, never both.
// The zero Result is a successful zero value.
type Result[V, E any] struct {
	value  V
	err    E
	failed bool
}

// OK returns a successful Result.
func OK[V, E any](v V) Result[V, E] {
	return Result[V, E]{value: v}
}

// Err returns a failed Result.
func Err[V, E any](e E) Result[V, E] {
	return Result[V, E]{err: e, failed: true}
}

// Ok reports whether the Result holds a success payload.
func (r Result[V, E]) Ok() bool {
	return !r.failed
}

// Value returns the success payload, zero when failed.
func (r Result[V, E]) Value() V {
	return r.value
}

// Failure returns the error payload, zero when successful.
func (r Result[V, E]) Failure() E {
	return r.err
}

// ResultOf serializes a Result under a fixed discriminant shape:
// {"state":"value","value":…} on success, {"state":"error","error":…} on
// failure. Field order is part of the contract.
func ResultOf[V, E any](ok Codec[V], fail Codec[E]) Codec[Result[V, E]] {
	return Codec[Result[V, E]]{
		kind: KindResult,
		enc: func(w *Writer, v Result[V, E]) error {
			w.Byte('{')
			w.Escaped("state")
			w.Byte(':')
			if v.failed {
				w.Escaped("error")
				w.Byte(',')
				w.Escaped("error")
				w.Byte(':')
				if err := fail.Encode(w, v.err); err != nil {
					return errors.Prefix(err, "error")
				}
			} else {
				w.Escaped("value")
				w.Byte(',')
				w.Escaped("value")
				w.Byte(':')
				if err := ok.Encode(w, v.value); err != nil {
					return errors.Prefix(err, "value")
				}
			}
			w.Byte('}')
			return nil
		},
	}
}

// Alternative is one case of a tagged union: a probe into the owner plus the
// codec for the case payload.
type Alternative[T any] struct {
	probe func(v *T) (func(w *Writer) error, bool)
}

// Alt declares a union alternative. get returns the case payload when the
// alternative is active and nil otherwise.
func Alt[T, C any](get func(*T) *C, c Codec[C]) Alternative[T] {
	return Alternative[T]{
		probe: func(v *T) (func(w *Writer) error, bool) {
			p := get(v)
			if p == nil {
				return nil, false
			}
			return func(w *Writer) error { return c.Encode(w, *p) }, true
		},
	}
}

// Variant serializes a tagged union as {"index":<ordinal>,"value":…}. The
// first alternative whose probe reports a payload wins, in declaration
// order. A union with no active alternative is an encode failure.
func Variant[T any](alts ...Alternative[T]) Codec[T] {
	cases := make([]Alternative[T], len(alts))
	copy(cases, alts)
	return Codec[T]{
		kind: KindVariant,
		enc: func(w *Writer, v T) error {
			for i := range cases {
				emit, active := cases[i].probe(&v)
				if !active {
					continue
				}
				w.Byte('{')
				w.Escaped("index")
				w.Byte(':')
				w.Int(int64(i))
				w.Byte(',')
				w.Escaped("value")
				w.Byte(':')
				if err := emit(w); err != nil {
					return errors.Prefix(err, "value")
				}
				w.Byte('}')
				return nil
			}
			return errors.InvalidVariant(len(cases))
		},
	}
}
