package model

import (
	"strings"

	"github.com/iancoleman/strcase"

	selection "github.com/hanpama/gqlmodel/internal/selection"
)

// typeName is the local name of the type generated for a response name or
// fragment shape.
func typeName(name string) string { return strcase.ToCamel(name) }

// accessorName names the accessor of implementation or interface shape.
func accessorName(shape string) string { return "as" + strcase.ToCamel(shape) }

// fragmentAccessorName names the accessor of a folded named fragment.
func fragmentAccessorName(fragment string) string { return strcase.ToLowerCamel(fragment) }

// catchAllName names the default implementation of a polymorphic field.
func catchAllName(responseName string) string { return "Other" + strcase.ToCamel(responseName) }

// qualifiedName derives a dotted name from a key path, e.g.
// HeroQuery.Hero.Friends. Shape markers are dropped; the linker suffixes
// names that collide as a result.
func qualifiedName(k selection.Key) string {
	parts := make([]string, len(k.Path))
	for i, p := range k.Path {
		parts[i] = strcase.ToCamel(selection.SegmentName(p))
	}
	return strings.Join(parts, ".")
}
