// Package modelproto projects a model tree onto protobuf descriptors: one
// file per operation or fragment plus a shared file for enums and input
// objects. The descriptors describe the generated models in a
// language-neutral form for emitters written in other languages.
package modelproto

import (
	"fmt"
	"strings"

	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"

	model "github.com/hanpama/gqlmodel/internal/model"
)

// CommonFile is the name, relative to the package directory, of the file
// holding enums and input objects.
const CommonFile = "types"

// Build converts a linked tree into a Registry of file descriptors under
// package pkg.
func Build(tree *model.Tree, pkg string) (*Registry, error) {
	if pkg == "" {
		return nil, fmt.Errorf("modelproto: package name is required")
	}
	b := &builder{
		pkg:       pkg,
		messages:  make(map[string]*protobuilder.MessageBuilder),
		fileOf:    make(map[*protobuilder.MessageBuilder]*protobuilder.FileBuilder),
		enums:     make(map[string]*protobuilder.EnumBuilder),
		inputs:    make(map[string]*protobuilder.MessageBuilder),
		fieldMap:  make(map[*protobuilder.MessageBuilder]map[string]*protobuilder.FieldBuilder),
		scopes:    make(map[*protobuilder.MessageBuilder]names),
		topLevel:  make(names),
		dependsOn: make(map[[2]*protobuilder.FileBuilder]bool),
	}

	// Pass 1: the common file with enums and input object messages
	b.common = b.newFile(CommonFile)
	for _, e := range tree.Enums {
		b.addEnum(e)
	}
	for _, in := range tree.InputObjects {
		b.addInputObjectMessage(in)
	}

	// Pass 2: one file per document, with a message per model type
	var ops []*opEntry
	for _, op := range tree.Operations {
		fb := b.newFile(op.Name)
		mb := b.addTypeMessages(fb, nil, op.Data, fmt.Sprintf("%s %s\nOperation ID: %s", op.OperationType, op.Name, op.OperationID))
		vars := protobuilder.NewMessage(protoreflect.Name(b.topLevel.take(nameVariables(op.Name))))
		fb.AddMessage(vars)
		b.fileOf[vars] = fb
		ops = append(ops, &opEntry{op: op, path: nameFile(b.pkg, op.Name), file: fb, data: mb, variables: vars})
	}
	var frags []*fragEntry
	for _, f := range tree.Fragments {
		fb := b.newFile(f.Name)
		iface := b.addTypeMessages(fb, nil, f.Interface, fmt.Sprintf("fragment %s on %s", f.Name, f.TypeCondition))
		impl := b.addTypeMessages(fb, nil, f.Implementation, "")
		frags = append(frags, &fragEntry{fragment: f, path: nameFile(b.pkg, f.Name), file: fb, iface: iface, impl: impl})
	}

	// Pass 3: fields, once every message exists
	for _, in := range tree.InputObjects {
		b.addInputObjectMessageFields(in)
	}
	for _, e := range ops {
		b.addTypeFields(e.op.Data)
		b.addVariableFields(e.variables, e.op.Variables)
	}
	for _, e := range frags {
		b.addTypeFields(e.fragment.Interface)
		b.addTypeFields(e.fragment.Implementation)
	}

	reg := &Registry{
		messages:   make(map[string]protoreflect.MessageDescriptor),
		fields:     make(map[[2]string]protoreflect.FieldDescriptor),
		enums:      make(map[string]protoreflect.EnumDescriptor),
		inputs:     make(map[string]protoreflect.MessageDescriptor),
		operations: make(map[string]protoreflect.FileDescriptor),
		fragments:  make(map[string]protoreflect.FileDescriptor),
		variables:  make(map[string]protoreflect.MessageDescriptor),
	}

	// Build file descriptors and populate registry
	common, err := b.common.Build()
	if err != nil {
		return nil, fmt.Errorf("modelproto: %s: %w", nameFile(b.pkg, CommonFile), err)
	}
	reg.files = append(reg.files, common)
	for _, e := range tree.Enums {
		reg.enums[e.Name] = common.Enums().ByName(b.enums[e.Name].Name())
	}
	for _, in := range tree.InputObjects {
		reg.inputs[in.Name] = common.Messages().ByName(b.inputs[in.Name].Name())
	}
	for _, e := range ops {
		fd, err := e.file.Build()
		if err != nil {
			return nil, fmt.Errorf("modelproto: %s: %w", e.path, err)
		}
		reg.files = append(reg.files, fd)
		reg.operations[e.op.Name] = fd
		reg.variables[e.op.Name] = fd.Messages().ByName(e.variables.Name())
		b.register(reg, fd.Messages().ByName(e.data.Name()), e.op.Data)
	}
	for _, e := range frags {
		fd, err := e.file.Build()
		if err != nil {
			return nil, fmt.Errorf("modelproto: %s: %w", e.path, err)
		}
		reg.files = append(reg.files, fd)
		reg.fragments[e.fragment.Name] = fd
		b.register(reg, fd.Messages().ByName(e.iface.Name()), e.fragment.Interface)
		b.register(reg, fd.Messages().ByName(e.impl.Name()), e.fragment.Implementation)
	}
	return reg, nil
}

type opEntry struct {
	op        *model.Operation
	path      string
	file      *protobuilder.FileBuilder
	data      *protobuilder.MessageBuilder
	variables *protobuilder.MessageBuilder
}

type fragEntry struct {
	fragment *model.FragmentModel
	path     string
	file     *protobuilder.FileBuilder
	iface    *protobuilder.MessageBuilder
	impl     *protobuilder.MessageBuilder
}

type builder struct {
	pkg    string
	common *protobuilder.FileBuilder

	// messages maps qualified model type names to their message.
	messages map[string]*protobuilder.MessageBuilder
	fileOf   map[*protobuilder.MessageBuilder]*protobuilder.FileBuilder
	enums    map[string]*protobuilder.EnumBuilder
	inputs   map[string]*protobuilder.MessageBuilder
	// fieldMap maps response names to proto fields per message.
	fieldMap map[*protobuilder.MessageBuilder]map[string]*protobuilder.FieldBuilder

	scopes    map[*protobuilder.MessageBuilder]names
	topLevel  names
	dependsOn map[[2]*protobuilder.FileBuilder]bool
}

func (b *builder) newFile(document string) *protobuilder.FileBuilder {
	fb := protobuilder.NewFile(nameFile(b.pkg, document))
	fb.SetPackageName(protoreflect.FullName(b.pkg))
	fb.SetSyntax(protoreflect.Proto3)
	return fb
}

// unique reserves name in the scope of owner.
func (b *builder) unique(owner *protobuilder.MessageBuilder, name protoreflect.Name) protoreflect.Name {
	scope, ok := b.scopes[owner]
	if !ok {
		scope = make(names)
		b.scopes[owner] = scope
	}
	return protoreflect.Name(scope.take(string(name)))
}

// depend records that from references an element of to.
func (b *builder) depend(from, to *protobuilder.FileBuilder) {
	if from == to || b.dependsOn[[2]*protobuilder.FileBuilder{from, to}] {
		return
	}
	b.dependsOn[[2]*protobuilder.FileBuilder{from, to}] = true
	from.AddDependency(to)
}

// register walks the built descriptor alongside its model type.
func (b *builder) register(reg *Registry, md protoreflect.MessageDescriptor, t *model.Type) {
	if md == nil {
		return
	}
	reg.messages[t.QualifiedName] = md
	if mb := b.messages[t.QualifiedName]; mb != nil {
		for responseName, fb := range b.fieldMap[mb] {
			reg.fields[[2]string{t.QualifiedName, responseName}] = md.Fields().ByName(fb.Name())
		}
	}
	for _, n := range t.NestedTypes {
		b.register(reg, md.Messages().ByName(nameOf(b.messages[n.QualifiedName])), n)
	}
}

func nameOf(mb *protobuilder.MessageBuilder) protoreflect.Name {
	if mb == nil {
		return ""
	}
	return mb.Name()
}

func joinLines(lines ...string) string {
	var out []string
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
