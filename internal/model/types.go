package model

import (
	diag "github.com/hanpama/gqlmodel/internal/diag"
	selection "github.com/hanpama/gqlmodel/internal/selection"
)

// Ref points at a model type by selection key. Name is the qualified name
// of the target and is filled in by Link.
type Ref struct {
	Key  selection.Key `json:"key"`
	Name string        `json:"name,omitempty"`
}

// Kind tells what sort of model type a Type is: ObjectKind, InterfaceKind
// or PolymorphicKind.
type Kind interface {
	isKind()
}

// ObjectKind is a concrete shape.
type ObjectKind struct{}

// InterfaceKind is an abstract shape shared by several concrete ones.
type InterfaceKind struct{}

// PolymorphicKind is an abstract field whose concrete shape depends on the
// runtime type. Every possible type maps to exactly one implementation;
// types unknown at compile time use Default.
type PolymorphicKind struct {
	Default  Ref                      `json:"default"`
	Possible []PossibleImplementation `json:"possible"`
}

type PossibleImplementation struct {
	TypeName string `json:"typeName"`
	Ref      Ref    `json:"ref"`
}

func (ObjectKind) isKind()      {}
func (InterfaceKind) isKind()   {}
func (PolymorphicKind) isKind() {}

func (ObjectKind) MarshalJSON() ([]byte, error)    { return tagged("Object", struct{}{}) }
func (InterfaceKind) MarshalJSON() ([]byte, error) { return tagged("Interface", struct{}{}) }

func (k PolymorphicKind) MarshalJSON() ([]byte, error) {
	type plain PolymorphicKind
	return tagged("Polymorphic", plain(k))
}

// KindName names k for logs and tests.
func KindName(k Kind) string {
	switch k.(type) {
	case ObjectKind:
		return "Object"
	case InterfaceKind:
		return "Interface"
	case PolymorphicKind:
		return "Polymorphic"
	}
	return "Unknown"
}

// Type is one generated model type.
type Type struct {
	Name          string          `json:"name"`
	QualifiedName string          `json:"qualifiedName,omitempty"`
	Key           selection.Key   `json:"key"`
	AlternateKeys []selection.Key `json:"alternateKeys,omitempty"`
	Kind          Kind            `json:"kind"`
	// TypeConditions are the fragment type conditions that produced an
	// implementation or interface shape.
	TypeConditions    []string   `json:"typeConditions,omitempty"`
	PossibleTypes     []string   `json:"possibleTypes,omitempty"`
	Fields            []*Field   `json:"fields"`
	NestedTypes       []*Type    `json:"nestedTypes,omitempty"`
	Implements        []Ref      `json:"implements,omitempty"`
	FragmentAccessors []Accessor `json:"fragmentAccessors,omitempty"`
}

// Field is one field of a model type.
type Field struct {
	Name              string                `json:"name"`
	ResponseName      string                `json:"responseName"`
	Type              FieldType             `json:"type"`
	Arguments         []selection.Argument  `json:"arguments,omitempty"`
	Conditions        []selection.Condition `json:"conditions,omitempty"`
	Description       string                `json:"description,omitempty"`
	Deprecated        bool                  `json:"deprecated,omitempty"`
	DeprecationReason string                `json:"deprecationReason,omitempty"`
}

// Accessor gives typed access to a fragment shape of the enclosing type.
type Accessor struct {
	Name string `json:"name"`
	Ref  Ref    `json:"ref"`
}

type Variable struct {
	Name         string    `json:"name"`
	Type         FieldType `json:"type"`
	DefaultValue string    `json:"defaultValue,omitempty"`
}

type Operation struct {
	Name          string     `json:"name"`
	OperationType string     `json:"operationType"`
	OperationID   string     `json:"operationId"`
	SourceText    string     `json:"sourceText"`
	File          string     `json:"file,omitempty"`
	Variables     []Variable `json:"variables,omitempty"`
	// Fragments are the named fragments the operation reaches.
	Fragments []string `json:"fragments,omitempty"`
	Data      *Type    `json:"data"`
}

// FragmentModel holds both shapes of a named fragment.
type FragmentModel struct {
	Name          string   `json:"name"`
	TypeCondition string   `json:"typeCondition"`
	SourceText    string   `json:"sourceText"`
	File          string   `json:"file,omitempty"`
	Fragments     []string `json:"fragments,omitempty"`
	// Interface is implemented by every selection that spreads the fragment.
	Interface *Type `json:"interface"`
	// Implementation is the standalone concrete shape.
	Implementation *Type `json:"implementation"`
}

type Enum struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Values      []EnumValue `json:"values"`
}

type EnumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	Deprecated        bool   `json:"deprecated,omitempty"`
	DeprecationReason string `json:"deprecationReason,omitempty"`
}

type InputObject struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Fields      []InputField `json:"fields"`
}

type InputField struct {
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Type         FieldType `json:"type"`
	DefaultValue string    `json:"defaultValue,omitempty"`
}

type CustomScalar struct {
	Name    string `json:"name"`
	Mapped  string `json:"mapped"`
	Adapter string `json:"adapter,omitempty"`
}

type DocumentKind string

const (
	OperationDocument DocumentKind = "operation"
	FragmentDocument  DocumentKind = "fragment"
)

// Document is the compiled form of one operation or named fragment, before
// linking. Documents are immutable once built and may be cached.
type Document struct {
	Kind      DocumentKind
	Name      string
	Operation *Operation
	Fragment  *FragmentModel

	Enums         []*Enum
	InputObjects  []*InputObject
	CustomScalars []*CustomScalar

	Warnings []diag.Warning
	Errors   diag.List
}

// Err returns the document's errors, or nil.
func (d *Document) Err() error { return d.Errors.Err() }

// Root returns the top-level types the document contributes.
func (d *Document) Root() []*Type {
	switch {
	case d.Operation != nil:
		return []*Type{d.Operation.Data}
	case d.Fragment != nil:
		return []*Type{d.Fragment.Interface, d.Fragment.Implementation}
	}
	return nil
}

// Tree is the linked model of a compilation unit.
type Tree struct {
	Operations    []*Operation     `json:"operations"`
	Fragments     []*FragmentModel `json:"fragments"`
	Enums         []*Enum          `json:"enums,omitempty"`
	InputObjects  []*InputObject   `json:"inputObjects,omitempty"`
	CustomScalars []*CustomScalar  `json:"customScalars,omitempty"`
	Warnings      []diag.Warning   `json:"warnings,omitempty"`
}
