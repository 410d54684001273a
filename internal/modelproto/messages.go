package modelproto

import (
	"fmt"
	"strings"

	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	model "github.com/hanpama/gqlmodel/internal/model"
)

func (b *builder) addEnum(e *model.Enum) {
	enumName := protoreflect.Name(b.topLevel.take(e.Name))
	eb := protobuilder.NewEnum(enumName)
	eb.SetComments(comment(e.Description))
	b.enums[e.Name] = eb

	// Add default ZERO value: <ENUM>_UNSPECIFIED = 0
	zero := protobuilder.NewEnumValue(nameProtoEnumValue(e.Name, "UNSPECIFIED"))
	zero.SetNumber(0)
	eb.AddValue(zero)

	evbs := make([]*protobuilder.EnumValueBuilder, 0, len(e.Values))
	for _, v := range e.Values {
		if strings.ToUpper(v.Name) == "UNSPECIFIED" {
			continue
		}
		evb := protobuilder.NewEnumValue(nameProtoEnumValue(e.Name, v.Name))
		evb.SetComments(comment(joinLines(v.Description, deprecation(v.Deprecated, v.DeprecationReason))))
		if v.Deprecated {
			evb.SetOptions(&descriptorpb.EnumValueOptions{Deprecated: proto.Bool(true)})
		}
		eb.AddValue(evb)
		evbs = append(evbs, evb)
	}
	allocateEnumValueNumbers(evbs)

	b.common.AddEnum(eb)
}

func (b *builder) addInputObjectMessage(in *model.InputObject) {
	mb := protobuilder.NewMessage(protoreflect.Name(b.topLevel.take(in.Name)))
	mb.SetComments(comment(in.Description))
	b.inputs[in.Name] = mb
	b.fileOf[mb] = b.common
	b.common.AddMessage(mb)
}

func (b *builder) addInputObjectMessageFields(in *model.InputObject) {
	mb := b.inputs[in.Name]
	fieldBuilders := make([]*protobuilder.FieldBuilder, 0, len(in.Fields))
	for _, field := range in.Fields {
		fb := b.newField(mb, field.Name, field.Type)
		fb.SetComments(comment(joinLines(field.Description, defaultValue(field.DefaultValue))))
		mb.AddField(fb)
		fieldBuilders = append(fieldBuilders, fb)
	}
	allocateFieldNumbers(fieldBuilders)
}

// addTypeMessages creates the message of t and, nested inside it, the
// messages of its nested types. Fields are added later by addTypeFields.
func (b *builder) addTypeMessages(fb *protobuilder.FileBuilder, parent *protobuilder.MessageBuilder, t *model.Type, header string) *protobuilder.MessageBuilder {
	var mb *protobuilder.MessageBuilder
	if parent == nil {
		mb = protobuilder.NewMessage(protoreflect.Name(b.topLevel.take(nameRootMessage(t.QualifiedName))))
		fb.AddMessage(mb)
	} else {
		mb = protobuilder.NewMessage(b.unique(parent, nameNestedMessage(t.QualifiedName)))
		parent.AddNestedMessage(mb)
	}
	mb.SetComments(comment(joinLines(header, typeComment(t))))
	b.messages[t.QualifiedName] = mb
	b.fileOf[mb] = fb
	for _, n := range t.NestedTypes {
		b.addTypeMessages(fb, mb, n, "")
	}
	return mb
}

// addTypeFields adds the fields of t and its nested types. A polymorphic
// type additionally gets a oneof with one choice per implementation.
func (b *builder) addTypeFields(t *model.Type) {
	mb := b.messages[t.QualifiedName]
	byResponseName := make(map[string]*protobuilder.FieldBuilder, len(t.Fields))
	fieldBuilders := make([]*protobuilder.FieldBuilder, 0, len(t.Fields))
	for _, field := range t.Fields {
		fb := b.newField(mb, field.ResponseName, field.Type)
		fb.SetComments(comment(fieldComment(field)))
		if field.Deprecated {
			fb.SetOptions(&descriptorpb.FieldOptions{Deprecated: proto.Bool(true)})
		}
		mb.AddField(fb)
		fieldBuilders = append(fieldBuilders, fb)
		byResponseName[field.ResponseName] = fb
	}

	if kind, ok := t.Kind.(model.PolymorphicKind); ok {
		oneOfBuilder := protobuilder.NewOneof(b.unique(mb, "implementation"))
		for _, ref := range implementations(kind) {
			target := b.messages[ref.Name]
			b.depend(b.fileOf[mb], b.fileOf[target])
			choice := protobuilder.NewField(b.unique(mb, protoreflect.Name(nameProtoField(string(nameNestedMessage(ref.Name))))), protobuilder.FieldTypeMessage(target))
			choice.SetComments(comment(strings.Join(possibleTypesOf(kind, ref), ", ")))
			oneOfBuilder.AddChoice(choice)
			fieldBuilders = append(fieldBuilders, choice)
		}
		mb.AddOneOf(oneOfBuilder)
	}
	allocateFieldNumbers(fieldBuilders)
	b.fieldMap[mb] = byResponseName

	for _, n := range t.NestedTypes {
		b.addTypeFields(n)
	}
}

func (b *builder) addVariableFields(mb *protobuilder.MessageBuilder, vars []model.Variable) {
	fieldBuilders := make([]*protobuilder.FieldBuilder, 0, len(vars))
	for _, v := range vars {
		fb := b.newField(mb, v.Name, v.Type)
		fb.SetComments(comment(defaultValue(v.DefaultValue)))
		mb.AddField(fb)
		fieldBuilders = append(fieldBuilders, fb)
	}
	allocateFieldNumbers(fieldBuilders)
}

func (b *builder) newField(owner *protobuilder.MessageBuilder, name string, t model.FieldType) *protobuilder.FieldBuilder {
	rt := b.resolveFieldType(t, owner, name)
	b.dependOnType(owner, t)
	fb := protobuilder.NewField(b.unique(owner, protoreflect.Name(nameProtoField(name))), rt.fieldType)
	// Message fields always track presence; scalars and enums need an
	// explicit proto3 optional.
	if rt.isOptional && !rt.isRepeated {
		fb.SetOptional()
		if !rt.isMessage {
			fb.SetProto3Optional(true)
		}
	}
	if rt.isRepeated {
		fb.SetRepeated()
	}
	return fb
}

func (b *builder) dependOnType(owner *protobuilder.MessageBuilder, t model.FieldType) {
	switch t := t.(type) {
	case model.ArrayType:
		b.dependOnType(owner, t.Of)
	case model.ObjectType:
		b.depend(b.fileOf[owner], b.fileOf[b.messages[t.Ref.Name]])
	case model.EnumType, model.InputObjectType:
		b.depend(b.fileOf[owner], b.common)
	}
}

// implementations lists the distinct implementation refs of kind, the
// default last.
func implementations(kind model.PolymorphicKind) []model.Ref {
	var out []model.Ref
	seen := make(map[string]bool)
	for _, p := range kind.Possible {
		if p.Ref.Name == kind.Default.Name || seen[p.Ref.Name] {
			continue
		}
		seen[p.Ref.Name] = true
		out = append(out, p.Ref)
	}
	return append(out, kind.Default)
}

func possibleTypesOf(kind model.PolymorphicKind, ref model.Ref) []string {
	var out []string
	for _, p := range kind.Possible {
		if p.Ref.Name == ref.Name {
			out = append(out, p.TypeName)
		}
	}
	return out
}

func typeComment(t *model.Type) string {
	var lines []string
	if len(t.Implements) > 0 {
		names := make([]string, len(t.Implements))
		for i, r := range t.Implements {
			names[i] = r.Name
		}
		lines = append(lines, "Implements: "+strings.Join(names, ", "))
	}
	if len(t.TypeConditions) > 0 {
		lines = append(lines, "Type conditions: "+strings.Join(t.TypeConditions, ", "))
	}
	return joinLines(lines...)
}

func fieldComment(f *model.Field) string {
	var lines []string
	lines = append(lines, f.Description)
	if f.Name != f.ResponseName || len(f.Arguments) > 0 {
		args := make([]string, len(f.Arguments))
		for i, a := range f.Arguments {
			args[i] = a.Name + ": " + a.Value
		}
		sel := f.Name
		if len(args) > 0 {
			sel += "(" + strings.Join(args, ", ") + ")"
		}
		lines = append(lines, "Selects "+sel)
	}
	for _, c := range f.Conditions {
		lines = append(lines, c.String())
	}
	if c, ok := customScalar(f.Type); ok {
		lines = append(lines, "Scalar "+c.Name+" maps to "+c.Mapped)
	}
	lines = append(lines, deprecation(f.Deprecated, f.DeprecationReason))
	return joinLines(lines...)
}

func customScalar(t model.FieldType) (model.CustomType, bool) {
	for {
		switch v := t.(type) {
		case model.CustomType:
			return v, true
		case model.ArrayType:
			t = v.Of
		default:
			return model.CustomType{}, false
		}
	}
}

func deprecation(deprecated bool, reason string) string {
	if !deprecated {
		return ""
	}
	if reason == "" {
		return "Deprecated."
	}
	return "Deprecated: " + reason
}

func defaultValue(v string) string {
	if v == "" {
		return ""
	}
	return fmt.Sprintf("Default: %s", v)
}
