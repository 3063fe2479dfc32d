package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile   Phase = "compile"   // descriptor construction
	PhaseEncode    Phase = "encode"    // value serialization
	PhaseConfig    Phase = "config"    // configuration handling
	PhaseStore     Phase = "store"     // snapshot persistence
	PhaseTransport Phase = "transport" // HTTP API calls
)

// Kind categorizes the error
type Kind string

const (
	KindNonFinite      Kind = "non_finite"
	KindInvalidVariant Kind = "invalid_variant"
	KindTypeMismatch   Kind = "type_mismatch"
	KindInvalidKey     Kind = "invalid_key"
	KindUnsupported    Kind = "unsupported"
	KindNilPointer     Kind = "nil_pointer"
	KindInvalidData    Kind = "invalid_data"
	KindNotFound       Kind = "not_found"
	KindOverflow       Kind = "overflow"
	KindCorrupt        Kind = "corrupt"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the value path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Prefix prepends a path element to a structured error as it propagates out
// of a nested value. Other errors are wrapped into a structured one so the
// path survives.
func Prefix(err error, elem string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		ne := *e
		ne.Path = append([]string{elem}, e.Path...)
		return &ne
	}
	return &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Path:  []string{elem},
		Cause: err,
	}
}

// Convenience constructors for common error patterns

// NonFinite reports a float with no JSON representation
func NonFinite(value float64) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindNonFinite,
		Detail: fmt.Sprintf("%v has no JSON representation", value),
		Value:  value,
	}
}

// InvalidVariant reports a tagged union with no active alternative
func InvalidVariant(cases int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindInvalidVariant,
		Detail: fmt.Sprintf("no active alternative among %d cases", cases),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, expected string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Detail: "expected " + expected,
	}
}

// InvalidKey reports a map whose key type cannot become a JSON object key
func InvalidKey(path []string, goType string) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindInvalidKey,
		Path:   path,
		GoType: goType,
		Detail: "JSON object keys must be string-like",
	}
}

// Unsupported reports a type that matches no serialization category
func Unsupported(path []string, goType string) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindUnsupported,
		Path:   path,
		GoType: goType,
		Detail: "type is not serializable",
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Corrupt reports persisted data that failed an integrity check
func Corrupt(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseStore,
		Kind:   KindCorrupt,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
