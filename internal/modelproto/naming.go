package modelproto

import (
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// nameFile derives a file path from the package and a document name:
// gqlmodel.starwars + HeroQuery -> gqlmodel/starwars/hero_query.proto.
func nameFile(pkg, document string) string {
	return strings.ReplaceAll(pkg, ".", "/") + "/" + strcase.ToSnake(document) + ".proto"
}

// nameRootMessage names a top-level message after the full qualified name
// so that roots of different documents do not clash in the package scope.
func nameRootMessage(qualifiedName string) string {
	return strings.ReplaceAll(qualifiedName, ".", "")
}

// nameNestedMessage names a nested message after the last segment of its
// qualified name, which is unique among its siblings.
func nameNestedMessage(qualifiedName string) protoreflect.Name {
	if i := strings.LastIndexByte(qualifiedName, '.'); i >= 0 {
		return protoreflect.Name(qualifiedName[i+1:])
	}
	return protoreflect.Name(qualifiedName)
}

func nameProtoField(responseName string) string {
	return strcase.ToSnake(responseName)
}

func nameProtoEnumValue(enumName, valueName string) protoreflect.Name {
	return protoreflect.Name(strcase.ToScreamingSnake(enumName) + "_" + strings.ToUpper(valueName))
}

func nameVariables(operation string) string { return strcase.ToCamel(operation) + "Variables" }

func nameListWrapper(field string) protoreflect.Name {
	return protoreflect.Name(strcase.ToCamel(field) + "List")
}

// names hands out identifiers unique within one proto scope.
type names map[string]bool

func (n names) take(name string) string {
	unique := name
	for i := 2; n[unique]; i++ {
		unique = name + strconv.Itoa(i)
	}
	n[unique] = true
	return unique
}
