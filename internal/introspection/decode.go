package introspection

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	schema "github.com/hanpama/gqlmodel/internal/schema"
)

var ErrNoSchema = errors.New("introspection: response has no __schema")

// Decode reads an introspection response and builds the schema type table.
func Decode(data []byte) (*schema.Schema, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("introspection: %w", err)
	}
	root := resp.Schema
	if root == nil && resp.Data != nil {
		root = resp.Data.Schema
	}
	if root == nil {
		return nil, ErrNoSchema
	}
	return FromRoot(root)
}

// FromRoot converts an already decoded `__schema` value.
func FromRoot(root *Root) (*schema.Schema, error) {
	s := schema.NewSchema(deref(root.Description))
	if root.QueryType != nil {
		s.SetQueryType(root.QueryType.Name)
	}
	if root.MutationType != nil {
		s.SetMutationType(root.MutationType.Name)
	}
	if root.SubscriptionType != nil {
		s.SetSubscriptionType(root.SubscriptionType.Name)
	}

	for _, ft := range root.Types {
		if strings.HasPrefix(ft.Name, "__") || schema.IsBuiltinScalar(ft.Name) {
			continue
		}
		t, err := decodeType(ft)
		if err != nil {
			return nil, err
		}
		s.AddType(t)
	}
	for _, d := range root.Directives {
		if d.Name == "skip" || d.Name == "include" {
			continue
		}
		dir := schema.NewDirective(d.Name, deref(d.Description)).SetRepeatable(d.IsRepeatable)
		dir.Locations = append(dir.Locations, d.Locations...)
		for _, arg := range d.Args {
			v, err := decodeInputValue(arg)
			if err != nil {
				return nil, fmt.Errorf("introspection: directive @%s: %w", d.Name, err)
			}
			dir.AddArgument(v)
		}
		s.AddDirective(dir)
	}
	return s.Seal(), nil
}

func decodeType(ft *FullType) (*schema.Type, error) {
	kind := schema.TypeKind(ft.Kind)
	t := schema.NewType(ft.Name, kind, deref(ft.Description))
	switch kind {
	case schema.TypeKindScalar:
		t.SetSpecifiedByURL(deref(ft.SpecifiedByURL))
	case schema.TypeKindObject, schema.TypeKindInterface:
		for _, iface := range ft.Interfaces {
			t.AddInterface(deref(iface.Name))
		}
		for _, fd := range ft.Fields {
			typ, err := decodeTypeRef(fd.Type)
			if err != nil {
				return nil, fmt.Errorf("introspection: %s.%s: %w", ft.Name, fd.Name, err)
			}
			f := schema.NewField(fd.Name, deref(fd.Description), typ)
			if fd.IsDeprecated {
				f.Deprecate(deref(fd.DeprecationReason))
			}
			for _, arg := range fd.Args {
				v, err := decodeInputValue(arg)
				if err != nil {
					return nil, fmt.Errorf("introspection: %s.%s(%s): %w", ft.Name, fd.Name, arg.Name, err)
				}
				f.AddArgument(v)
			}
			t.AddField(f)
		}
		if kind == schema.TypeKindInterface {
			for _, pt := range ft.PossibleTypes {
				t.AddPossibleType(deref(pt.Name))
			}
		}
	case schema.TypeKindUnion:
		for _, pt := range ft.PossibleTypes {
			t.AddPossibleType(deref(pt.Name))
		}
	case schema.TypeKindEnum:
		for _, ev := range ft.EnumValues {
			v := schema.NewEnumValue(ev.Name, deref(ev.Description))
			if ev.IsDeprecated {
				v.Deprecate(deref(ev.DeprecationReason))
			}
			t.AddEnumValue(v)
		}
	case schema.TypeKindInputObject:
		t.SetOneOf(ft.IsOneOf != nil && *ft.IsOneOf)
		for _, in := range ft.InputFields {
			v, err := decodeInputValue(in)
			if err != nil {
				return nil, fmt.Errorf("introspection: %s.%s: %w", ft.Name, in.Name, err)
			}
			t.AddInputField(v)
		}
	default:
		return nil, fmt.Errorf("introspection: type %q has unknown kind %q", ft.Name, ft.Kind)
	}
	return t, nil
}

func decodeInputValue(in *InputValue) (*schema.InputValue, error) {
	typ, err := decodeTypeRef(in.Type)
	if err != nil {
		return nil, err
	}
	v := schema.NewInputValue(in.Name, deref(in.Description), typ)
	if in.DefaultValue != nil {
		v.SetDefault(schema.Literal(*in.DefaultValue))
	}
	if in.IsDeprecated {
		v.Deprecate(deref(in.DeprecationReason))
	}
	return v, nil
}

func decodeTypeRef(ref *TypeRef) (*schema.TypeRef, error) {
	if ref == nil {
		return nil, errors.New("missing type reference")
	}
	switch ref.Kind {
	case "NON_NULL":
		inner, err := decodeTypeRef(ref.OfType)
		if err != nil {
			return nil, err
		}
		return schema.NonNullType(inner), nil
	case "LIST":
		inner, err := decodeTypeRef(ref.OfType)
		if err != nil {
			return nil, err
		}
		return schema.ListType(inner), nil
	default:
		if ref.Name == nil || *ref.Name == "" {
			return nil, fmt.Errorf("named type reference of kind %q has no name", ref.Kind)
		}
		return schema.NamedType(*ref.Name), nil
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
