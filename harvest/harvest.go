package harvest

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/serikit/seri"
	"github.com/serikit/seri/errors"
)

// encoderFunc writes one reflected value.
type encoderFunc func(w *seri.Writer, v reflect.Value) error

type compiled struct {
	enc  encoderFunc
	kind seri.Kind
}

var cache sync.Map // reflect.Type -> compiled

// For compiles a codec for T from its Go type structure. The compilation
// runs once per type; later calls hit a cache.
func For[T any]() (seri.Codec[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	ct, err := compile(t, nil)
	if err != nil {
		return seri.Codec[T]{}, err
	}
	return seri.NewCodec(ct.kind, func(w *seri.Writer, v T) error {
		return ct.enc(w, reflect.ValueOf(&v).Elem())
	}), nil
}

// MustFor is For, panicking on compile failure. Intended for package-level
// codec variables where a failure is a programming error.
func MustFor[T any]() seri.Codec[T] {
	c, err := For[T]()
	if err != nil {
		panic(err)
	}
	return c
}

func compile(t reflect.Type, path []string) (compiled, error) {
	if cached, ok := cache.Load(t); ok {
		return cached.(compiled), nil
	}
	ct, err := classify(t, path)
	if err != nil {
		return compiled{}, err
	}
	cache.Store(t, ct)
	return ct, nil
}

// classify resolves the serialization category of t, most specific first.
func classify(t reflect.Type, path []string) (compiled, error) {
	switch t.Kind() {
	case reflect.Bool:
		return compiled{kind: seri.KindBool, enc: encodeBool}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if table, ok := lookupEnum(t); ok {
			return compiled{kind: seri.KindEnum, enc: table.encodeSigned}, nil
		}
		return compiled{kind: seri.KindInt, enc: encodeInt}, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if table, ok := lookupEnum(t); ok {
			return compiled{kind: seri.KindEnum, enc: table.encodeUnsigned}, nil
		}
		return compiled{kind: seri.KindInt, enc: encodeUint}, nil

	case reflect.Float32:
		return compiled{kind: seri.KindFloat, enc: encodeFloat32}, nil

	case reflect.Float64:
		return compiled{kind: seri.KindFloat, enc: encodeFloat64}, nil

	case reflect.String:
		return compiled{kind: seri.KindString, enc: encodeString}, nil

	case reflect.Map:
		return compileMap(t, path)

	case reflect.Slice, reflect.Array:
		return compileList(t, path)

	case reflect.Pointer:
		return compileOption(t, path)

	case reflect.Struct:
		return compileStruct(t, path)

	default:
		return compiled{}, errors.Unsupported(path, t.String())
	}
}

func encodeBool(w *seri.Writer, v reflect.Value) error {
	if v.Bool() {
		w.Literal("true")
	} else {
		w.Literal("false")
	}
	return nil
}

func encodeInt(w *seri.Writer, v reflect.Value) error {
	w.Int(v.Int())
	return nil
}

func encodeUint(w *seri.Writer, v reflect.Value) error {
	w.Uint(v.Uint())
	return nil
}

func encodeFloat32(w *seri.Writer, v reflect.Value) error {
	return w.Float(v.Float(), 32)
}

func encodeFloat64(w *seri.Writer, v reflect.Value) error {
	return w.Float(v.Float(), 64)
}

func encodeString(w *seri.Writer, v reflect.Value) error {
	w.Escaped(v.String())
	return nil
}

func compileMap(t reflect.Type, path []string) (compiled, error) {
	if t.Key().Kind() != reflect.String {
		return compiled{}, errors.InvalidKey(path, t.String())
	}
	elem, err := compile(t.Elem(), append(path, "[value]"))
	if err != nil {
		return compiled{}, err
	}
	return compiled{
		kind: seri.KindMap,
		enc: func(w *seri.Writer, v reflect.Value) error {
			keys := make([]string, 0, v.Len())
			iter := v.MapRange()
			for iter.Next() {
				keys = append(keys, iter.Key().String())
			}
			sort.Strings(keys)
			kv := reflect.New(t.Key()).Elem()
			w.Byte('{')
			for i, k := range keys {
				if i > 0 {
					w.Byte(',')
				}
				w.Escaped(k)
				w.Byte(':')
				kv.SetString(k)
				if err := elem.enc(w, v.MapIndex(kv)); err != nil {
					return errors.Prefix(err, k)
				}
			}
			w.Byte('}')
			return nil
		},
	}, nil
}

func compileList(t reflect.Type, path []string) (compiled, error) {
	elem, err := compile(t.Elem(), append(path, "[elem]"))
	if err != nil {
		return compiled{}, err
	}
	return compiled{
		kind: seri.KindList,
		enc: func(w *seri.Writer, v reflect.Value) error {
			w.Byte('[')
			for i := 0; i < v.Len(); i++ {
				if i > 0 {
					w.Byte(',')
				}
				if err := elem.enc(w, v.Index(i)); err != nil {
					return errors.Prefix(err, "["+strconv.Itoa(i)+"]")
				}
			}
			w.Byte(']')
			return nil
		},
	}, nil
}

func compileOption(t reflect.Type, path []string) (compiled, error) {
	elem, err := compile(t.Elem(), append(path, "[some]"))
	if err != nil {
		return compiled{}, err
	}
	return compiled{
		kind: seri.KindOption,
		enc: func(w *seri.Writer, v reflect.Value) error {
			if v.IsNil() {
				w.Literal("null")
				return nil
			}
			return elem.enc(w, v.Elem())
		},
	}, nil
}

// structField is one resolved field: either an own field with a name, or an
// embedded base whose body flattens into the owner's object.
type structField struct {
	enc   encoderFunc
	base  func(w *seri.Writer, v reflect.Value, first *bool) error
	name  string
	index int
}

func compileStruct(t reflect.Type, path []string) (compiled, error) {
	fields, err := structFields(t, path)
	if err != nil {
		return compiled{}, err
	}
	body := bodyEncoder(fields)
	return compiled{
		kind: seri.KindObject,
		enc: func(w *seri.Writer, v reflect.Value) error {
			w.Byte('{')
			first := true
			if err := body(w, v, &first); err != nil {
				return err
			}
			w.Byte('}')
			return nil
		},
	}, nil
}

// bodyEncoder emits the flattened field list without braces, so embedded
// bases nest into the owner's single brace pair.
func bodyEncoder(fields []structField) func(w *seri.Writer, v reflect.Value, first *bool) error {
	return func(w *seri.Writer, v reflect.Value, first *bool) error {
		for _, f := range fields {
			if f.base != nil {
				if err := f.base(w, v.Field(f.index), first); err != nil {
					return err
				}
				continue
			}
			if *first {
				*first = false
			} else {
				w.Byte(',')
			}
			w.Escaped(f.name)
			w.Byte(':')
			if err := f.enc(w, v.Field(f.index)); err != nil {
				return errors.Prefix(err, f.name)
			}
		}
		return nil
	}
}

func structFields(t reflect.Type, path []string) ([]structField, error) {
	var fields []structField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() && !f.Anonymous {
			continue
		}

		tag := f.Tag.Get("seri")
		if tag == "-" {
			continue
		}

		// Anonymous embedded structs flatten as base components.
		if f.Anonymous && f.Type.Kind() == reflect.Struct && tag == "" {
			baseFields, err := structFields(f.Type, append(path, f.Name))
			if err != nil {
				return nil, err
			}
			fields = append(fields, structField{
				index: i,
				base:  bodyEncoder(baseFields),
			})
			continue
		}

		if !f.IsExported() {
			continue
		}

		name := tag
		if name == "" {
			name = snakeCase(f.Name)
		}
		ct, err := compile(f.Type, append(path, name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, structField{
			enc:   ct.enc,
			name:  name,
			index: i,
		})
	}
	return fields, nil
}

// snakeCase lowercases a Go field name, keeping runs of capitals together:
// ID -> id, UserID -> user_id, HTTPServer -> http_server. An underscore goes
// before an uppercase rune when the previous rune is lowercase or a digit,
// or when the rune starts the trailing word of a capital run.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
