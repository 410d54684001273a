package modelproto

import (
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"

	model "github.com/hanpama/gqlmodel/internal/model"
)

type resolvedType struct {
	isRepeated bool
	isOptional bool
	isMessage  bool
	fieldType  *protobuilder.FieldType
}

// resolveFieldType maps a model field type onto a proto field type. Lists
// of lists become a wrapper message nested in owner, since proto has no
// repeated repeated fields. Custom scalars travel as strings.
func (b *builder) resolveFieldType(t model.FieldType, owner *protobuilder.MessageBuilder, field string) resolvedType {
	switch t := t.(type) {
	case model.StringType:
		return scalar(protoreflect.StringKind, t.Nullable)
	case model.IntType:
		return scalar(protoreflect.Int32Kind, t.Nullable)
	case model.FloatType:
		return scalar(protoreflect.DoubleKind, t.Nullable)
	case model.BooleanType:
		return scalar(protoreflect.BoolKind, t.Nullable)
	case model.CustomType:
		return scalar(protoreflect.StringKind, t.Nullable)
	case model.EnumType:
		return resolvedType{isOptional: t.Nullable, fieldType: protobuilder.FieldTypeEnum(b.enums[t.Name])}
	case model.InputObjectType:
		return resolvedType{isOptional: t.Nullable, isMessage: true, fieldType: protobuilder.FieldTypeMessage(b.inputs[t.Name])}
	case model.ObjectType:
		return resolvedType{isOptional: t.Nullable, isMessage: true, fieldType: protobuilder.FieldTypeMessage(b.messages[t.Ref.Name])}
	case model.ArrayType:
		elem := b.resolveFieldType(t.Of, owner, field)
		if !elem.isRepeated {
			return resolvedType{isRepeated: true, fieldType: elem.fieldType}
		}
		wrapper := protobuilder.NewMessage(b.unique(owner, nameListWrapper(field)))
		values := protobuilder.NewField("values", elem.fieldType)
		values.SetRepeated()
		values.SetNumber(1)
		wrapper.AddField(values)
		owner.AddNestedMessage(wrapper)
		return resolvedType{isRepeated: true, fieldType: protobuilder.FieldTypeMessage(wrapper)}
	}
	panic("unreachable")
}

func scalar(kind protoreflect.Kind, nullable bool) resolvedType {
	return resolvedType{isOptional: nullable, fieldType: protobuilder.FieldTypeScalar(kind)}
}
