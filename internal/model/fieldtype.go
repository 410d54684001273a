package model

import (
	"encoding/json"
	"strconv"
)

// FieldType is the resolved type of a model field or variable. The set of
// variants is closed; switch over them exhaustively.
type FieldType interface {
	IsNullable() bool
	// WithNullable returns a copy with nullability set to nullable.
	WithNullable(nullable bool) FieldType
	isFieldType()
}

type StringType struct {
	Nullable bool `json:"nullable"`
}

type IntType struct {
	Nullable bool `json:"nullable"`
}

type FloatType struct {
	Nullable bool `json:"nullable"`
}

type BooleanType struct {
	Nullable bool `json:"nullable"`
}

type EnumType struct {
	Name     string `json:"name"`
	Nullable bool   `json:"nullable"`
}

// CustomType is a custom scalar bound to a target type.
type CustomType struct {
	Name     string `json:"name"`
	Mapped   string `json:"mapped"`
	Adapter  string `json:"adapter,omitempty"`
	Nullable bool   `json:"nullable"`
}

// ObjectType points at a generated model type.
type ObjectType struct {
	Ref      Ref  `json:"ref"`
	Nullable bool `json:"nullable"`
}

type ArrayType struct {
	Of       FieldType `json:"of"`
	Nullable bool      `json:"nullable"`
}

// InputObjectType only occurs in variable types and input object fields.
type InputObjectType struct {
	Name     string `json:"name"`
	Nullable bool   `json:"nullable"`
}

func (StringType) isFieldType()      {}
func (IntType) isFieldType()         {}
func (FloatType) isFieldType()       {}
func (BooleanType) isFieldType()     {}
func (EnumType) isFieldType()        {}
func (CustomType) isFieldType()      {}
func (ObjectType) isFieldType()      {}
func (ArrayType) isFieldType()       {}
func (InputObjectType) isFieldType() {}

func (t StringType) IsNullable() bool      { return t.Nullable }
func (t IntType) IsNullable() bool         { return t.Nullable }
func (t FloatType) IsNullable() bool       { return t.Nullable }
func (t BooleanType) IsNullable() bool     { return t.Nullable }
func (t EnumType) IsNullable() bool        { return t.Nullable }
func (t CustomType) IsNullable() bool      { return t.Nullable }
func (t ObjectType) IsNullable() bool      { return t.Nullable }
func (t ArrayType) IsNullable() bool       { return t.Nullable }
func (t InputObjectType) IsNullable() bool { return t.Nullable }

func (t StringType) WithNullable(n bool) FieldType      { t.Nullable = n; return t }
func (t IntType) WithNullable(n bool) FieldType         { t.Nullable = n; return t }
func (t FloatType) WithNullable(n bool) FieldType       { t.Nullable = n; return t }
func (t BooleanType) WithNullable(n bool) FieldType     { t.Nullable = n; return t }
func (t EnumType) WithNullable(n bool) FieldType        { t.Nullable = n; return t }
func (t CustomType) WithNullable(n bool) FieldType      { t.Nullable = n; return t }
func (t ObjectType) WithNullable(n bool) FieldType      { t.Nullable = n; return t }
func (t ArrayType) WithNullable(n bool) FieldType       { t.Nullable = n; return t }
func (t InputObjectType) WithNullable(n bool) FieldType { t.Nullable = n; return t }

// Every variant marshals with a "kind" tag so consumers can decode the
// union without guessing.

func (t StringType) MarshalJSON() ([]byte, error) {
	type plain StringType
	return tagged("String", plain(t))
}

func (t IntType) MarshalJSON() ([]byte, error) {
	type plain IntType
	return tagged("Int", plain(t))
}

func (t FloatType) MarshalJSON() ([]byte, error) {
	type plain FloatType
	return tagged("Float", plain(t))
}

func (t BooleanType) MarshalJSON() ([]byte, error) {
	type plain BooleanType
	return tagged("Boolean", plain(t))
}

func (t EnumType) MarshalJSON() ([]byte, error) {
	type plain EnumType
	return tagged("Enum", plain(t))
}

func (t CustomType) MarshalJSON() ([]byte, error) {
	type plain CustomType
	return tagged("Custom", plain(t))
}

func (t ObjectType) MarshalJSON() ([]byte, error) {
	type plain ObjectType
	return tagged("Object", plain(t))
}

func (t ArrayType) MarshalJSON() ([]byte, error) {
	type plain ArrayType
	return tagged("Array", plain(t))
}

func (t InputObjectType) MarshalJSON() ([]byte, error) {
	type plain InputObjectType
	return tagged("InputObject", plain(t))
}

// tagged marshals v, a struct, with a leading "kind" member.
func tagged(kind string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+len(kind)+12)
	out = append(out, `{"kind":`...)
	out = strconv.AppendQuote(out, kind)
	if len(body) > 2 {
		out = append(out, ',')
	}
	return append(out, body[1:]...), nil
}
