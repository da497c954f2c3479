package schema

// Kind identifies which declaration keyword produced a Definition.
type Kind int

const (
	// KindTable is a create_table block terminated by a matching end.
	KindTable Kind = iota + 1
	// KindView is a create_view declaration whose body is an embedded SQL literal.
	KindView
)

// String returns the lowercase name of the kind ("table" or "view").
func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindView:
		return "view"
	default:
		return "unknown"
	}
}

// ParseKind maps "table" or "view" back to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "table":
		return KindTable, true
	case "view":
		return KindView, true
	}
	return 0, false
}

// Definition is one declaration recognized in a schema file.
type Definition struct {
	Kind Kind

	// Name is the declared identifier with quotes or symbol markers removed.
	Name string

	// Source is the exact input text from the declaration keyword through its terminator.
	Source string

	// Index is the position of this definition among all definitions in the input.
	Index int

	// Offset is the byte offset of the keyword in the input.
	Offset int

	// Line is the 1-based line number of the keyword.
	Line int
}
