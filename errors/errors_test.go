package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
		name string
	}{
		{
			name: "phase_and_kind_only",
			err:  &Error{Phase: PhaseEncode, Kind: KindNonFinite},
			want: "[encode] non_finite",
		},
		{
			name: "with_path",
			err:  &Error{Phase: PhaseEncode, Kind: KindNonFinite, Path: []string{"address", "latitude"}},
			want: "[encode] non_finite at address.latitude",
		},
		{
			name: "with_detail",
			err:  &Error{Phase: PhaseEncode, Kind: KindInvalidVariant, Detail: "no active alternative among 2 cases"},
			want: "[encode] invalid_variant: no active alternative among 2 cases",
		},
		{
			name: "with_go_type",
			err:  &Error{Phase: PhaseCompile, Kind: KindUnsupported, GoType: "chan int", Detail: "type is not serializable"},
			want: "[compile] unsupported: Go type chan int - type is not serializable",
		},
		{
			name: "with_cause",
			err:  &Error{Phase: PhaseStore, Kind: KindCorrupt, Detail: "bad snapshot", Cause: fmt.Errorf("short read")},
			want: "[store] corrupt: bad snapshot (caused by: short read)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := New(PhaseEncode, KindTypeMismatch).
		Path("user", "id").
		GoType("string").
		Value("abc").
		Detail("expected %s", "int").
		Cause(cause).
		Build()

	if err.Phase != PhaseEncode || err.Kind != KindTypeMismatch {
		t.Errorf("unexpected phase/kind: %v/%v", err.Phase, err.Kind)
	}
	if err.Detail != "expected int" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if !stderrors.Is(err, cause) {
		t.Error("built error should unwrap to its cause")
	}
}

func TestIsMatchesPhaseAndKind(t *testing.T) {
	err := NonFinite(1)
	if !stderrors.Is(err, &Error{Phase: PhaseEncode, Kind: KindNonFinite}) {
		t.Error("expected match on phase+kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseCompile, Kind: KindNonFinite}) {
		t.Error("different phase should not match")
	}
}

func TestPrefix(t *testing.T) {
	inner := NonFinite(1)
	err := Prefix(Prefix(inner, "latitude"), "address")

	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("Prefix returned %T, want *Error", err)
	}
	if got, want := fmt.Sprint(e.Path), "[address latitude]"; got != want {
		t.Errorf("Path = %v, want %v", got, want)
	}

	// The original error must stay untouched.
	if len(inner.Path) != 0 {
		t.Errorf("Prefix mutated the original error: %v", inner.Path)
	}
}

func TestPrefixWrapsPlainErrors(t *testing.T) {
	plain := fmt.Errorf("plain")
	err := Prefix(plain, "field")

	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("Prefix returned %T, want *Error", err)
	}
	if !stderrors.Is(e, plain) {
		t.Error("wrapped error should unwrap to the plain cause")
	}

	if Prefix(nil, "field") != nil {
		t.Error("Prefix(nil) should be nil")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		err  *Error
		kind Kind
		name string
	}{
		{NonFinite(0), KindNonFinite, "non_finite"},
		{InvalidVariant(3), KindInvalidVariant, "invalid_variant"},
		{TypeMismatch(PhaseCompile, nil, "int", "string"), KindTypeMismatch, "type_mismatch"},
		{InvalidKey(nil, "map[int]int"), KindInvalidKey, "invalid_key"},
		{Unsupported(nil, "func()"), KindUnsupported, "unsupported"},
		{NilPointer(PhaseEncode, nil, "*int"), KindNilPointer, "nil_pointer"},
		{InvalidData(PhaseConfig, "bad"), KindInvalidData, "invalid_data"},
		{NotFound(PhaseConfig, "file", "config.json"), KindNotFound, "not_found"},
		{Corrupt("checksum mismatch"), KindCorrupt, "corrupt"},
		{Wrap(PhaseStore, KindInvalidData, fmt.Errorf("x"), "y"), KindInvalidData, "wrap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
		})
	}
}
