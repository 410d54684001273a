package typeres

import (
	"github.com/vektah/gqlparser/v2/ast"

	diag "github.com/hanpama/gqlmodel/internal/diag"
	schema "github.com/hanpama/gqlmodel/internal/schema"
)

// ScalarBinding maps a GraphQL scalar to a target type.
type ScalarBinding struct {
	Type    string
	Adapter string
}

// ScalarMap is keyed by GraphQL scalar name.
type ScalarMap map[string]ScalarBinding

// Resolver classifies type references against one schema snapshot. It holds
// no mutable state and may be shared between goroutines.
type Resolver struct {
	schema  *schema.Schema
	scalars ScalarMap
}

func New(s *schema.Schema, scalars ScalarMap) *Resolver {
	copied := make(ScalarMap, len(scalars))
	for name, b := range scalars {
		copied[name] = b
	}
	return &Resolver{schema: s, scalars: copied}
}

func (r *Resolver) Schema() *schema.Schema { return r.schema }

// Scalar returns the binding for name, if any.
func (r *Resolver) Scalar(name string) (ScalarBinding, bool) {
	b, ok := r.scalars[name]
	return b, ok
}

// Resolve resolves a schema field or argument type.
func (r *Resolver) Resolve(ref *schema.TypeRef, site diag.Site) (*TypeRef, error) {
	switch ref.Kind {
	case schema.TypeRefKindNonNull:
		inner, err := r.Resolve(ref.OfType, site)
		if err != nil {
			return nil, err
		}
		return inner.MakeNonNull(), nil
	case schema.TypeRefKindList:
		inner, err := r.Resolve(ref.OfType, site)
		if err != nil {
			return nil, err
		}
		return &TypeRef{Kind: KindList, Of: inner, Nullable: true}, nil
	}
	return r.ResolveNamed(ref.Named, site)
}

// ResolveAST resolves a type written in a document, e.g. a variable type.
func (r *Resolver) ResolveAST(t *ast.Type, site diag.Site) (*TypeRef, error) {
	var out *TypeRef
	if t.Elem != nil {
		inner, err := r.ResolveAST(t.Elem, site)
		if err != nil {
			return nil, err
		}
		out = &TypeRef{Kind: KindList, Of: inner, Nullable: true}
	} else {
		named, err := r.ResolveNamed(t.NamedType, site)
		if err != nil {
			return nil, err
		}
		out = named
	}
	if t.NonNull {
		return out.MakeNonNull(), nil
	}
	return out, nil
}

// ResolveNamed classifies a bare type name. The result is nullable.
func (r *Resolver) ResolveNamed(name string, site diag.Site) (*TypeRef, error) {
	if b, ok := r.scalars[name]; ok {
		return &TypeRef{Kind: KindCustom, Name: name, Mapped: b.Type, Adapter: b.Adapter, Nullable: true}, nil
	}
	if p, ok := primitives[name]; ok {
		return &TypeRef{Kind: KindPrimitive, Name: name, Primitive: p, Nullable: true}, nil
	}
	t := r.schema.Lookup(name)
	if t == nil {
		return nil, diag.UnknownType(site, name)
	}
	switch t.Kind {
	case schema.TypeKindScalar:
		return nil, diag.UnresolvedScalar(site, name)
	case schema.TypeKindEnum:
		return &TypeRef{Kind: KindEnum, Name: name, Nullable: true}, nil
	case schema.TypeKindObject:
		return &TypeRef{Kind: KindObject, Name: name, Nullable: true}, nil
	case schema.TypeKindInterface:
		return &TypeRef{Kind: KindInterface, Name: name, Nullable: true}, nil
	case schema.TypeKindUnion:
		return &TypeRef{Kind: KindUnion, Name: name, Nullable: true}, nil
	case schema.TypeKindInputObject:
		return &TypeRef{Kind: KindInputObject, Name: name, Nullable: true}, nil
	}
	return nil, diag.UnknownType(site, name)
}

// Typename is the type of the `__typename` meta field.
var Typename = &TypeRef{Kind: KindPrimitive, Name: "String", Primitive: String}

// InputField is one resolved field of an input object.
type InputField struct {
	Name         string
	Description  string
	Type         *TypeRef
	DefaultValue string
}

// InputFields resolves the fields of input object name in declaration
// order.
func (r *Resolver) InputFields(name string, site diag.Site) ([]InputField, error) {
	t := r.schema.Lookup(name)
	if t == nil || t.Kind != schema.TypeKindInputObject {
		return nil, diag.UnknownType(site, name)
	}
	out := make([]InputField, 0, len(t.InputFields))
	for _, f := range t.InputFields {
		typ, err := r.Resolve(f.Type, site)
		if err != nil {
			return nil, err
		}
		field := InputField{Name: f.Name, Description: f.Description, Type: typ}
		if f.DefaultValue != nil {
			field.DefaultValue = schema.FormatValue(f.DefaultValue)
		}
		out = append(out, field)
	}
	return out, nil
}
