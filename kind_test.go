package seri

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindBool, "bool"},
		{KindInt, "int"},
		{KindFloat, "float"},
		{KindString, "string"},
		{KindEnum, "enum"},
		{KindMap, "map"},
		{KindList, "list"},
		{KindOption, "option"},
		{KindResult, "result"},
		{KindVariant, "variant"},
		{KindObject, "object"},
		{Kind(200), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindIsScalar(t *testing.T) {
	scalar := []Kind{KindBool, KindInt, KindFloat, KindString}
	for _, k := range scalar {
		if !k.IsScalar() {
			t.Errorf("%v should be scalar", k)
		}
	}
	nested := []Kind{KindEnum, KindMap, KindList, KindOption, KindResult, KindVariant, KindObject}
	for _, k := range nested {
		if k.IsScalar() {
			t.Errorf("%v should not be scalar", k)
		}
	}
}
