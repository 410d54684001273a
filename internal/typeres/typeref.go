package typeres

import "strings"

// Kind classifies a resolved type. Nullability is not part of the kind; it
// travels as TypeRef.Nullable.
type Kind int

const (
	KindPrimitive Kind = iota
	KindCustom
	KindEnum
	KindObject
	KindInterface
	KindUnion
	KindInputObject
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindCustom:
		return "Custom"
	case KindEnum:
		return "Enum"
	case KindObject:
		return "Object"
	case KindInterface:
		return "Interface"
	case KindUnion:
		return "Union"
	case KindInputObject:
		return "InputObject"
	case KindList:
		return "List"
	}
	return "Unknown"
}

// Primitive is one of the specified scalars.
type Primitive int

const (
	String Primitive = iota
	Int
	Float
	Boolean
	ID
)

var primitives = map[string]Primitive{
	"String":  String,
	"Int":     Int,
	"Float":   Float,
	"Boolean": Boolean,
	"ID":      ID,
}

// TypeRef is a resolved schema type. Values are immutable and shared.
type TypeRef struct {
	Kind      Kind
	Name      string // schema type name; empty for lists
	Primitive Primitive
	Mapped    string // target type for custom scalars
	Adapter   string // optional serialization adapter for custom scalars
	Of        *TypeRef
	Nullable  bool
}

// MakeNullable returns t with Nullable set, copying only the outer node.
func (t *TypeRef) MakeNullable() *TypeRef {
	if t.Nullable {
		return t
	}
	c := *t
	c.Nullable = true
	return &c
}

func (t *TypeRef) MakeNonNull() *TypeRef {
	if !t.Nullable {
		return t
	}
	c := *t
	c.Nullable = false
	return &c
}

// Named returns the innermost non-list type.
func (t *TypeRef) Named() *TypeRef {
	for t.Kind == KindList {
		t = t.Of
	}
	return t
}

// IsComposite reports whether the named type carries a selection set.
func (t *TypeRef) IsComposite() bool {
	switch t.Named().Kind {
	case KindObject, KindInterface, KindUnion:
		return true
	}
	return false
}

// IsAbstract reports whether the named type is an interface or union.
func (t *TypeRef) IsAbstract() bool {
	k := t.Named().Kind
	return k == KindInterface || k == KindUnion
}

// String renders t in GraphQL notation.
func (t *TypeRef) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *TypeRef) write(b *strings.Builder) {
	if t.Kind == KindList {
		b.WriteString("[")
		t.Of.write(b)
		b.WriteString("]")
	} else {
		b.WriteString(t.Name)
	}
	if !t.Nullable {
		b.WriteString("!")
	}
}
