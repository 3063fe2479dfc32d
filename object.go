package seri

import "github.com/serikit/seri/errors"

// FieldDescriptor pairs a field name with the accessor and codec bound at
// registration time.
type FieldDescriptor[T any] struct {
	name string
	emit func(w *Writer, v *T) error
}

// Field declares one field of an aggregate. get receives the owner and
// returns the field value. Names must be unique within one type; the engine
// does not check this.
func Field[T, F any](name string, c Codec[F], get func(*T) F) FieldDescriptor[T] {
	return FieldDescriptor[T]{
		name: name,
		emit: func(w *Writer, v *T) error {
			if err := c.Encode(w, get(v)); err != nil {
				return errors.Prefix(err, name)
			}
			return nil
		},
	}
}

// BaseDescriptor references an embedded base component whose fields flatten
// into the owner's object body.
type BaseDescriptor[T any] struct {
	visit func(w *Writer, v *T, first *bool) error
}

// Base declares an embedded base of T. The base's descriptor must already be
// fully constructed, which keeps composition trees acyclic by construction.
func Base[T, B any](d *TypeDescriptor[B], get func(*T) *B) BaseDescriptor[T] {
	return BaseDescriptor[T]{
		visit: func(w *Writer, v *T, first *bool) error {
			return d.visitFields(w, get(v), first)
		},
	}
}

// TypeDescriptor is the ordered bases+fields registration of one aggregate
// type. Order is semantically significant: it fixes output field order.
// Immutable after Describe.
type TypeDescriptor[T any] struct {
	bases  []BaseDescriptor[T]
	fields []FieldDescriptor[T]
}

// Bases collects base descriptors in declaration order.
func Bases[T any](bases ...BaseDescriptor[T]) []BaseDescriptor[T] {
	return bases
}

// Fields collects field descriptors in declaration order.
func Fields[T any](fields ...FieldDescriptor[T]) []FieldDescriptor[T] {
	return fields
}

// Describe registers the shape of aggregate type T. Construct descriptors
// once, at package initialization; they are read-only facts about types.
func Describe[T any](bases []BaseDescriptor[T], fields []FieldDescriptor[T]) *TypeDescriptor[T] {
	d := &TypeDescriptor[T]{
		bases:  make([]BaseDescriptor[T], len(bases)),
		fields: make([]FieldDescriptor[T], len(fields)),
	}
	copy(d.bases, bases)
	copy(d.fields, fields)
	return d
}

// visitFields emits the flattened object body: every base's body first, each
// pre-order in declaration order, then T's own fields. Braces belong to the
// Object rule so nested aggregates keep one brace pair per level.
func (d *TypeDescriptor[T]) visitFields(w *Writer, v *T, first *bool) error {
	for i := range d.bases {
		if err := d.bases[i].visit(w, v, first); err != nil {
			return err
		}
	}
	for i := range d.fields {
		if *first {
			*first = false
		} else {
			w.Byte(',')
		}
		w.Escaped(d.fields[i].name)
		w.Byte(':')
		if err := d.fields[i].emit(w, v); err != nil {
			return err
		}
	}
	return nil
}

// Object serializes an aggregate with a registered descriptor as a JSON
// object of its flattened base-then-own fields.
func Object[T any](d *TypeDescriptor[T]) Codec[T] {
	return Codec[T]{
		kind: KindObject,
		enc: func(w *Writer, v T) error {
			w.Byte('{')
			first := true
			if err := d.visitFields(w, &v, &first); err != nil {
				return err
			}
			w.Byte('}')
			return nil
		},
	}
}
