package introspection

import (
	"encoding/json"
	"sort"

	schema "github.com/hanpama/gqlmodel/internal/schema"
)

// Encode renders s as an introspection response wrapped in the `data`
// envelope. Types and directives are sorted by name.
func Encode(s *schema.Schema) ([]byte, error) {
	return json.MarshalIndent(&Response{Data: &Data{Schema: ToRoot(s)}}, "", "  ")
}

func ToRoot(s *schema.Schema) *Root {
	root := &Root{Description: optional(s.Description)}
	if s.QueryType != "" {
		root.QueryType = &NamedRef{Name: s.QueryType}
	}
	if s.MutationType != "" {
		root.MutationType = &NamedRef{Name: s.MutationType}
	}
	if s.SubscriptionType != "" {
		root.SubscriptionType = &NamedRef{Name: s.SubscriptionType}
	}

	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		root.Types = append(root.Types, encodeType(s, s.Types[name]))
	}

	dirNames := make([]string, 0, len(s.Directives))
	for name := range s.Directives {
		dirNames = append(dirNames, name)
	}
	sort.Strings(dirNames)
	for _, name := range dirNames {
		d := s.Directives[name]
		root.Directives = append(root.Directives, &Directive{
			Name:         d.Name,
			Description:  optional(d.Description),
			Locations:    append([]string{}, d.Locations...),
			Args:         encodeInputValues(s, d.Arguments),
			IsRepeatable: d.IsRepeatable,
		})
	}
	return root
}

func encodeType(s *schema.Schema, t *schema.Type) *FullType {
	ft := &FullType{
		Kind:        string(t.Kind),
		Name:        t.Name,
		Description: optional(t.Description),
	}
	switch t.Kind {
	case schema.TypeKindScalar:
		ft.SpecifiedByURL = t.SpecifiedByURL
	case schema.TypeKindObject, schema.TypeKindInterface:
		ft.Interfaces = []*TypeRef{}
		for _, iface := range t.Interfaces {
			ft.Interfaces = append(ft.Interfaces, namedRef("INTERFACE", iface))
		}
		ft.Fields = []*Field{}
		for _, f := range t.Fields {
			ft.Fields = append(ft.Fields, &Field{
				Name:              f.Name,
				Description:       optional(f.Description),
				Args:              encodeInputValues(s, f.Arguments),
				Type:              encodeTypeRef(s, f.Type),
				IsDeprecated:      f.IsDeprecated,
				DeprecationReason: deprecationReason(f.IsDeprecated, f.DeprecationReason),
			})
		}
		if t.Kind == schema.TypeKindInterface {
			for _, name := range s.PossibleTypes(t.Name) {
				ft.PossibleTypes = append(ft.PossibleTypes, namedRef("OBJECT", name))
			}
		}
	case schema.TypeKindUnion:
		for _, name := range t.PossibleTypes {
			ft.PossibleTypes = append(ft.PossibleTypes, namedRef("OBJECT", name))
		}
	case schema.TypeKindEnum:
		for _, v := range t.EnumValues {
			ft.EnumValues = append(ft.EnumValues, &EnumValue{
				Name:              v.Name,
				Description:       optional(v.Description),
				IsDeprecated:      v.IsDeprecated,
				DeprecationReason: deprecationReason(v.IsDeprecated, v.DeprecationReason),
			})
		}
	case schema.TypeKindInputObject:
		ft.InputFields = encodeInputValues(s, t.InputFields)
		if t.OneOf {
			oneOf := true
			ft.IsOneOf = &oneOf
		}
	}
	return ft
}

func encodeInputValues(s *schema.Schema, values []*schema.InputValue) []*InputValue {
	out := []*InputValue{}
	for _, v := range values {
		in := &InputValue{
			Name:              v.Name,
			Description:       optional(v.Description),
			Type:              encodeTypeRef(s, v.Type),
			IsDeprecated:      v.IsDeprecated,
			DeprecationReason: deprecationReason(v.IsDeprecated, v.DeprecationReason),
		}
		if v.DefaultValue != nil {
			lit := schema.FormatValue(v.DefaultValue)
			in.DefaultValue = &lit
		}
		out = append(out, in)
	}
	return out
}

func encodeTypeRef(s *schema.Schema, ref *schema.TypeRef) *TypeRef {
	switch ref.Kind {
	case schema.TypeRefKindNonNull:
		return &TypeRef{Kind: "NON_NULL", OfType: encodeTypeRef(s, ref.OfType)}
	case schema.TypeRefKindList:
		return &TypeRef{Kind: "LIST", OfType: encodeTypeRef(s, ref.OfType)}
	}
	kind := "SCALAR"
	if t := s.Lookup(ref.Named); t != nil {
		kind = string(t.Kind)
	}
	return namedRef(kind, ref.Named)
}

func namedRef(kind, name string) *TypeRef {
	return &TypeRef{Kind: kind, Name: &name}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deprecationReason(deprecated bool, reason string) *string {
	if !deprecated {
		return nil
	}
	return &reason
}
