package seri

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/serikit/seri/errors"
)

func mustMarshal[T any](t *testing.T, c Codec[T], v T) string {
	t.Helper()
	out, err := Marshal(c, v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	return string(out)
}

func TestPrimitives(t *testing.T) {
	if got := mustMarshal(t, Int[int](), 42); got != "42" {
		t.Errorf("int 42 = %s", got)
	}
	if got := mustMarshal(t, Int[int64](), -7); got != "-7" {
		t.Errorf("int64 -7 = %s", got)
	}
	if got := mustMarshal(t, Uint[uint16](), 65535); got != "65535" {
		t.Errorf("uint16 max = %s", got)
	}
	if got := mustMarshal(t, Float[float64](), 3.5); got != "3.5" {
		t.Errorf("float 3.5 = %s", got)
	}
	if got := mustMarshal(t, Bool[bool](), true); got != "true" {
		t.Errorf("bool true = %s", got)
	}
	if got := mustMarshal(t, Bool[bool](), false); got != "false" {
		t.Errorf("bool false = %s", got)
	}
	if got := mustMarshal(t, String[string](), "hello"); got != `"hello"` {
		t.Errorf("string hello = %s", got)
	}
}

func TestNamedTypes(t *testing.T) {
	type userID uint64
	type title string

	if got := mustMarshal(t, Uint[userID](), userID(9)); got != "9" {
		t.Errorf("named uint = %s", got)
	}
	if got := mustMarshal(t, String[title](), title("dr")); got != `"dr"` {
		t.Errorf("named string = %s", got)
	}
}

func TestList(t *testing.T) {
	if got := mustMarshal(t, List[[]int](Int[int]()), []int{1, 2, 3}); got != "[1,2,3]" {
		t.Errorf("[1 2 3] = %s", got)
	}
	if got := mustMarshal(t, List[[]int](Int[int]()), nil); got != "[]" {
		t.Errorf("nil slice = %s", got)
	}
	nested := List[[][]string](List[[]string](String[string]()))
	if got := mustMarshal(t, nested, [][]string{{"a"}, {}}); got != `[["a"],[]]` {
		t.Errorf("nested = %s", got)
	}
}

func TestMap(t *testing.T) {
	c := Map[map[string]int](Int[int]())
	if got := mustMarshal(t, c, map[string]int{"b": 2, "a": 1}); got != `{"a":1,"b":2}` {
		t.Errorf("map = %s", got)
	}
	if got := mustMarshal(t, c, nil); got != "{}" {
		t.Errorf("nil map = %s", got)
	}
}

func TestOption(t *testing.T) {
	c := Option(Int[int]())
	five := 5
	if got := mustMarshal(t, c, &five); got != "5" {
		t.Errorf("present optional = %s", got)
	}
	if got := mustMarshal(t, c, nil); got != "null" {
		t.Errorf("empty optional = %s", got)
	}

	// A present optional serializes identically to the held value.
	direct := mustMarshal(t, Int[int](), five)
	held := mustMarshal(t, c, &five)
	if direct != held {
		t.Errorf("optional wrapping changed output: %s vs %s", held, direct)
	}
}

func TestResult(t *testing.T) {
	c := ResultOf(Int[int](), String[string]())

	if got := mustMarshal(t, c, OK[int, string](12)); got != `{"state":"value","value":12}` {
		t.Errorf("ok result = %s", got)
	}
	if got := mustMarshal(t, c, Err[int, string]("boom")); got != `{"state":"error","error":"boom"}` {
		t.Errorf("err result = %s", got)
	}

	r := OK[int, string](12)
	if !r.Ok() || r.Value() != 12 {
		t.Errorf("OK accessors: ok=%v value=%v", r.Ok(), r.Value())
	}
	e := Err[int, string]("boom")
	if e.Ok() || e.Failure() != "boom" {
		t.Errorf("Err accessors: ok=%v failure=%v", e.Ok(), e.Failure())
	}
}

type intOrString struct {
	Int *int
	Str *string
}

var intOrStringCodec = Variant[intOrString](
	Alt(func(v *intOrString) *int { return v.Int }, Int[int]()),
	Alt(func(v *intOrString) *string { return v.Str }, String[string]()),
)

func TestVariant(t *testing.T) {
	three := 3
	hi := "hi"

	if got := mustMarshal(t, intOrStringCodec, intOrString{Int: &three}); got != `{"index":0,"value":3}` {
		t.Errorf("first alternative = %s", got)
	}
	if got := mustMarshal(t, intOrStringCodec, intOrString{Str: &hi}); got != `{"index":1,"value":"hi"}` {
		t.Errorf("second alternative = %s", got)
	}

	// Declaration order breaks ties when several cases are populated.
	if got := mustMarshal(t, intOrStringCodec, intOrString{Int: &three, Str: &hi}); got != `{"index":0,"value":3}` {
		t.Errorf("tie-break = %s", got)
	}

	_, err := Marshal(intOrStringCodec, intOrString{})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindInvalidVariant}) {
		t.Errorf("empty union error = %v, want invalid_variant", err)
	}
}

func TestNonFinitePropagates(t *testing.T) {
	c := List[[]float64](Float[float64]())
	_, err := Marshal(c, []float64{1, math.Inf(1)})
	if err == nil {
		t.Fatal("expected failure")
	}
	e, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("error type %T", err)
	}
	if len(e.Path) == 0 || e.Path[0] != "[1]" {
		t.Errorf("error path = %v, want element index", e.Path)
	}
}

func TestZeroCodec(t *testing.T) {
	var c Codec[int]
	if _, err := Marshal(c, 1); err == nil {
		t.Fatal("zero codec should fail to encode")
	}
}

func TestAppendReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 128)
	var err error
	buf, err = Append(buf, Int[int](), 1)
	if err != nil {
		t.Fatal(err)
	}
	buf = append(buf, '\n')
	buf, err = Append(buf, String[string](), "two")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(buf), "1\n\"two\""; got != want {
		t.Errorf("Append chain = %q, want %q", got, want)
	}
}

func TestMarshalString(t *testing.T) {
	got, err := MarshalString(Bool[bool](), true)
	if err != nil || got != "true" {
		t.Errorf("MarshalString = %q, %v", got, err)
	}
}

func TestIdempotence(t *testing.T) {
	value := employee{
		named:           named{Name: "Alice"},
		ID:              7,
		Address:         address{Street: "Fifth", Number: 9},
		FavoriteNumbers: []int{3, 5, 7},
	}

	first := mustMarshal(t, employeeCodec, value)
	second := mustMarshal(t, employeeCodec, value)
	if first != second {
		t.Errorf("independent serializations differ:\n%s\n%s", first, second)
	}
}
