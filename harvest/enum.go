package harvest

import (
	"reflect"
	"sync"

	"github.com/serikit/seri"
)

// enumTable holds the registered labels of one enumeration type. Values are
// stored as raw 64-bit patterns; the encode path reads them back through the
// signedness of the reflected value.
type enumTable struct {
	labels []enumLabel
}

type enumLabel struct {
	label string
	bits  uint64
}

var enumRegistry sync.Map // reflect.Type -> *enumTable

// RegisterEnum records the labels of enumeration type E so that harvested
// codecs emit labels instead of raw integers. Registration is global and
// must happen before the first compilation that reaches E; compiled encoders
// are cached and would keep emitting raw integers, so registering a type
// that is already in the compile cache panics. The first matching case wins,
// as with explicit enum descriptors.
func RegisterEnum[E seri.Integer](cases ...seri.EnumCase[E]) {
	t := reflect.TypeOf((*E)(nil)).Elem()
	if _, compiled := cache.Load(t); compiled {
		panic("harvest: RegisterEnum(" + t.String() + ") after the type was compiled; register enums before the first For")
	}
	table := &enumTable{labels: make([]enumLabel, len(cases))}
	for i, c := range cases {
		table.labels[i] = enumLabel{label: c.Label, bits: toBits(c.Value)}
	}
	enumRegistry.Store(t, table)
}

func toBits[E seri.Integer](v E) uint64 {
	var zero E
	if zero-1 < zero {
		return uint64(int64(v))
	}
	return uint64(v)
}

func lookupEnum(t reflect.Type) (*enumTable, bool) {
	table, ok := enumRegistry.Load(t)
	if !ok {
		return nil, false
	}
	return table.(*enumTable), true
}

func (e *enumTable) encodeSigned(w *seri.Writer, v reflect.Value) error {
	n := v.Int()
	for _, l := range e.labels {
		if l.bits == uint64(n) {
			w.Escaped(l.label)
			return nil
		}
	}
	w.Int(n)
	return nil
}

func (e *enumTable) encodeUnsigned(w *seri.Writer, v reflect.Value) error {
	n := v.Uint()
	for _, l := range e.labels {
		if l.bits == n {
			w.Escaped(l.label)
			return nil
		}
	}
	w.Uint(n)
	return nil
}
