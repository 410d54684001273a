package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Render produces SDL from the Schema. Types are grouped by kind and sorted
// by name inside each group so the output only changes when the schema does.
func Render(s *Schema) string {
	if s == nil {
		return ""
	}
	w := &sdlWriter{}
	w.schemaDefinition(s)

	for _, kind := range renderOrder {
		for _, typ := range typesOfKind(s, kind) {
			switch kind {
			case TypeKindScalar:
				w.scalar(typ)
			case TypeKindEnum:
				w.enum(typ)
			case TypeKindInputObject:
				w.inputObject(typ)
			case TypeKindInterface:
				w.composite("interface", typ)
			case TypeKindObject:
				w.composite("type", typ)
			case TypeKindUnion:
				w.union(typ)
			}
		}
	}

	directiveNames := make([]string, 0, len(s.Directives))
	for name, directive := range s.Directives {
		if !isBuiltinDirective(directive) {
			directiveNames = append(directiveNames, name)
		}
	}
	sort.Strings(directiveNames)
	for _, name := range directiveNames {
		w.directive(s.Directives[name])
	}
	return strings.TrimRight(w.String(), "\n") + "\n"
}

var renderOrder = []TypeKind{
	TypeKindScalar,
	TypeKindEnum,
	TypeKindInputObject,
	TypeKindInterface,
	TypeKindObject,
	TypeKindUnion,
}

func typesOfKind(s *Schema, kind TypeKind) []*Type {
	var out []*Type
	for _, typ := range s.Types {
		if typ.Kind == kind && !isBuiltinType(typ) {
			out = append(out, typ)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type sdlWriter struct {
	strings.Builder
}

// schemaDefinition writes a schema block only when the root types differ
// from the conventional names.
func (w *sdlWriter) schemaDefinition(s *Schema) {
	conventional := (s.QueryType == "" || s.QueryType == "Query") &&
		(s.MutationType == "" || s.MutationType == "Mutation") &&
		(s.SubscriptionType == "" || s.SubscriptionType == "Subscription")
	if conventional && s.Description == "" {
		return
	}
	w.description("", s.Description)
	w.WriteString("schema {\n")
	for _, root := range [][2]string{
		{"query", s.QueryType},
		{"mutation", s.MutationType},
		{"subscription", s.SubscriptionType},
	} {
		if root[1] != "" {
			fmt.Fprintf(w, "  %s: %s\n", root[0], root[1])
		}
	}
	w.WriteString("}\n\n")
}

func (w *sdlWriter) description(indent, desc string) {
	if desc == "" {
		return
	}
	w.WriteString(indent)
	w.WriteString("\"\"\"\n")
	for _, line := range strings.Split(strings.ReplaceAll(desc, "\"\"\"", "\\\"\"\""), "\n") {
		w.WriteString(indent)
		w.WriteString(line)
		w.WriteString("\n")
	}
	w.WriteString(indent)
	w.WriteString("\"\"\"\n")
}

func (w *sdlWriter) deprecated(isDeprecated bool, reason string) {
	if !isDeprecated {
		return
	}
	w.WriteString(" @deprecated")
	if reason != "" {
		w.WriteString("(reason: ")
		w.WriteString(strconv.Quote(reason))
		w.WriteString(")")
	}
}

func (w *sdlWriter) scalar(typ *Type) {
	w.description("", typ.Description)
	w.WriteString("scalar ")
	w.WriteString(typ.Name)
	if typ.SpecifiedByURL != nil {
		fmt.Fprintf(w, " @specifiedBy(url: %s)", strconv.Quote(*typ.SpecifiedByURL))
	}
	w.WriteString("\n\n")
}

func (w *sdlWriter) enum(typ *Type) {
	w.description("", typ.Description)
	fmt.Fprintf(w, "enum %s {\n", typ.Name)
	for _, val := range typ.EnumValues {
		w.description("  ", val.Description)
		w.WriteString("  ")
		w.WriteString(val.Name)
		w.deprecated(val.IsDeprecated, val.DeprecationReason)
		w.WriteString("\n")
	}
	w.WriteString("}\n\n")
}

func (w *sdlWriter) inputObject(typ *Type) {
	w.description("", typ.Description)
	w.WriteString("input ")
	w.WriteString(typ.Name)
	if typ.OneOf {
		w.WriteString(" @oneOf")
	}
	w.WriteString(" {\n")
	for _, field := range typ.InputFields {
		w.description("  ", field.Description)
		w.WriteString("  ")
		w.inputValue(field)
		w.deprecated(field.IsDeprecated, field.DeprecationReason)
		w.WriteString("\n")
	}
	w.WriteString("}\n\n")
}

func (w *sdlWriter) composite(keyword string, typ *Type) {
	w.description("", typ.Description)
	fmt.Fprintf(w, "%s %s", keyword, typ.Name)
	if len(typ.Interfaces) > 0 {
		w.WriteString(" implements ")
		w.WriteString(strings.Join(typ.Interfaces, " & "))
	}
	w.WriteString(" {\n")
	for _, field := range typ.Fields {
		w.field(field)
	}
	w.WriteString("}\n\n")
}

func (w *sdlWriter) union(typ *Type) {
	w.description("", typ.Description)
	fmt.Fprintf(w, "union %s = %s\n\n", typ.Name, strings.Join(typ.PossibleTypes, " | "))
}

func (w *sdlWriter) field(field *Field) {
	w.description("  ", field.Description)
	w.WriteString("  ")
	w.WriteString(field.Name)
	w.arguments(field.Arguments)
	w.WriteString(": ")
	w.WriteString(renderTypeRef(field.Type))
	w.deprecated(field.IsDeprecated, field.DeprecationReason)
	w.WriteString("\n")
}

func (w *sdlWriter) arguments(args []*InputValue) {
	if len(args) == 0 {
		return
	}
	w.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			w.WriteString(", ")
		}
		w.inputValue(arg)
	}
	w.WriteString(")")
}

func (w *sdlWriter) inputValue(v *InputValue) {
	w.WriteString(v.Name)
	w.WriteString(": ")
	w.WriteString(renderTypeRef(v.Type))
	if v.DefaultValue != nil {
		w.WriteString(" = ")
		w.WriteString(FormatValue(v.DefaultValue))
	}
}

func (w *sdlWriter) directive(directive *Directive) {
	w.description("", directive.Description)
	w.WriteString("directive @")
	w.WriteString(directive.Name)
	w.arguments(directive.Arguments)
	if directive.IsRepeatable {
		w.WriteString(" repeatable")
	}
	w.WriteString(" on ")
	w.WriteString(strings.Join(directive.Locations, " | "))
	w.WriteString("\n\n")
}

func renderTypeRef(typeRef *TypeRef) string {
	if typeRef == nil {
		return ""
	}
	switch typeRef.Kind {
	case TypeRefKindNamed:
		return typeRef.Named
	case TypeRefKindList:
		return "[" + renderTypeRef(typeRef.OfType) + "]"
	case TypeRefKindNonNull:
		return renderTypeRef(typeRef.OfType) + "!"
	default:
		return ""
	}
}

// FormatValue renders a default value in GraphQL source form.
func FormatValue(value any) string {
	if value == nil {
		return "null"
	}
	switch v := value.(type) {
	case Literal:
		return string(v)
	case string:
		return strconv.Quote(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, FormatValue(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(v))
		for _, k := range keys {
			parts = append(parts, k+": "+FormatValue(v[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}
