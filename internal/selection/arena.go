package selection

import (
	language "github.com/hanpama/gqlmodel/internal/language"
	typeres "github.com/hanpama/gqlmodel/internal/typeres"
)

// FieldID and FragmentID index nodes in an Arena.
type (
	FieldID    int32
	FragmentID int32
)

// Arena is the append-only node table of one document compilation. Nodes
// never change after insertion; every transformation inserts new nodes and
// points at existing children, so unchanged subtrees are shared by id.
// An Arena belongs to a single goroutine.
type Arena struct {
	fields    []*Field
	fragments []*Fragment
}

func NewArena() *Arena { return &Arena{} }

func (a *Arena) Field(id FieldID) *Field          { return a.fields[id] }
func (a *Arena) Fragment(id FragmentID) *Fragment { return a.fragments[id] }

// NewField inserts f. The arena takes ownership; callers must not modify f
// afterwards.
func (a *Arena) NewField(f *Field) FieldID {
	a.fields = append(a.fields, f)
	return FieldID(len(a.fields) - 1)
}

func (a *Arena) NewFragment(f *Fragment) FragmentID {
	a.fragments = append(a.fragments, f)
	return FragmentID(len(a.fragments) - 1)
}

// Len reports the number of field and fragment nodes.
func (a *Arena) Len() (fields, fragments int) { return len(a.fields), len(a.fragments) }

// Argument is one field argument in source order.
type Argument struct {
	Name string `json:"name"`
	// Value is the argument in GraphQL source form.
	Value string `json:"value"`
	// Variables lists the operation variables Value references.
	Variables []string `json:"variables,omitempty"`
}

// Field is one selected field.
type Field struct {
	Name         string
	ResponseName string
	Type         *typeres.TypeRef
	// PossibleTypes are the concrete types that can occur at this field.
	// Empty for leaf fields.
	PossibleTypes []string
	Arguments     []Argument
	Conditions    []Condition
	Fields        []FieldID
	Fragments     []FragmentID
	// Spreads names the fragments folded directly into this selection.
	Spreads           []string
	Description       string
	DeprecationReason string
	Deprecated        bool
	Keys              KeySet
	Position          *language.Position
}

// FragmentKind distinguishes the stages a fragment node passes through.
type FragmentKind int

const (
	// Branch is an expanded inline fragment or spread, before flattening.
	Branch FragmentKind = iota
	// Interface is an abstract shape shared by every type matching a
	// type condition.
	Interface
	// Implementation is a concrete shape for one partition of the
	// possible types.
	Implementation
)

func (k FragmentKind) String() string {
	switch k {
	case Branch:
		return "Branch"
	case Interface:
		return "Interface"
	case Implementation:
		return "Implementation"
	}
	return "Unknown"
}

// Fragment is a type-scoped sub-selection.
type Fragment struct {
	Kind FragmentKind
	// Name is the type condition for branches and interfaces, and the
	// generated local name for implementations.
	Name          string
	TypeCondition string
	// TypeConditions lists, for implementations, the squashed type
	// conditions that apply, in first-seen order.
	TypeConditions []string
	PossibleTypes  []string
	Conditions     []Condition
	Fields         []FieldID
	Fragments      []FragmentID
	Spreads        []string
	Keys           KeySet
	Position       *language.Position
}
