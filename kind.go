package seri

// Kind identifies the serialization category a codec applies. The set is
// closed: every serializable type belongs to exactly one category.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindEnum
	KindMap
	KindList
	KindOption
	KindResult
	KindVariant
	KindObject
)

var kindNames = [...]string{
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindString:  "string",
	KindEnum:    "enum",
	KindMap:     "map",
	KindList:    "list",
	KindOption:  "option",
	KindResult:  "result",
	KindVariant: "variant",
	KindObject:  "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsScalar reports whether the kind emits a single token with no nested
// values.
func (k Kind) IsScalar() bool {
	return k <= KindString
}
