package seri

// EnumCase associates one enumeration value with its JSON label.
type EnumCase[E Integer] struct {
	Label string
	Value E
}

// Case constructs an EnumCase.
func Case[E Integer](value E, label string) EnumCase[E] {
	return EnumCase[E]{Label: label, Value: value}
}

// EnumDescriptor is the ordered case list of one enumeration type. An empty
// (or nil) descriptor is a valid state meaning "no labels registered: fall
// back to the numeric representation".
type EnumDescriptor[E Integer] struct {
	cases []EnumCase[E]
}

// DescribeEnum builds an immutable enum descriptor. Duplicate values or
// labels are not rejected; lookups resolve to the first match in declaration
// order.
func DescribeEnum[E Integer](cases ...EnumCase[E]) *EnumDescriptor[E] {
	d := &EnumDescriptor[E]{cases: make([]EnumCase[E], len(cases))}
	copy(d.cases, cases)
	return d
}

// Len returns the number of registered cases.
func (d *EnumDescriptor[E]) Len() int {
	if d == nil {
		return 0
	}
	return len(d.cases)
}

// NameOf returns the label of the first case whose value matches, in
// declaration order.
func (d *EnumDescriptor[E]) NameOf(value E) (string, bool) {
	if d == nil {
		return "", false
	}
	for _, c := range d.cases {
		if c.Value == value {
			return c.Label, true
		}
	}
	return "", false
}

// ValueOf is the symmetric lookup by first matching label. The serialization
// path never calls it; it is kept for symmetry with a future decoder.
func (d *EnumDescriptor[E]) ValueOf(label string) (E, bool) {
	var zero E
	if d == nil {
		return zero, false
	}
	for _, c := range d.cases {
		if c.Label == label {
			return c.Value, true
		}
	}
	return zero, false
}

// Enum serializes an enumeration: the label of the first matching case as a
// JSON string, or the underlying integer when no case matches. A nil
// descriptor always takes the integer path.
func Enum[E Integer](d *EnumDescriptor[E]) Codec[E] {
	return Codec[E]{
		kind: KindEnum,
		enc: func(w *Writer, v E) error {
			if label, ok := d.NameOf(v); ok {
				w.Escaped(label)
				return nil
			}
			writeInteger(w, v)
			return nil
		},
	}
}

// writeInteger routes through the signed or unsigned formatter depending on
// the underlying representation of E.
func writeInteger[E Integer](w *Writer, v E) {
	var zero E
	if zero-1 < zero {
		w.Int(int64(v))
	} else {
		w.Uint(uint64(v))
	}
}
