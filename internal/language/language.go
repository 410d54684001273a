package language

import (
	"bytes"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParseQuery parses an executable document. name is recorded on every
// position so diagnostics can point back to the file.
func ParseQuery(name, source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// PrintQuery renders doc back to GraphQL source in gqlparser's canonical
// layout. Output is stable for equal documents.
func PrintQuery(doc *QueryDocument) string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)
	return buf.String()
}

// VariableName returns the variable referenced by v, or "" when v is not a
// variable reference.
func VariableName(v *Value) string {
	if v == nil || v.Kind != ast.Variable {
		return ""
	}
	return v.Raw
}

// Variables collects every variable referenced anywhere inside v in
// first-seen order.
func Variables(v *Value) []string {
	var out []string
	var walk func(*Value)
	walk = func(v *Value) {
		if v == nil {
			return
		}
		if v.Kind == ast.Variable {
			for _, seen := range out {
				if seen == v.Raw {
					return
				}
			}
			out = append(out, v.Raw)
			return
		}
		for _, child := range v.Children {
			walk(child.Value)
		}
	}
	walk(v)
	return out
}
