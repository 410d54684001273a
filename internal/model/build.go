package model

import (
	"sort"

	diag "github.com/hanpama/gqlmodel/internal/diag"
	document "github.com/hanpama/gqlmodel/internal/document"
	language "github.com/hanpama/gqlmodel/internal/language"
	schema "github.com/hanpama/gqlmodel/internal/schema"
	selection "github.com/hanpama/gqlmodel/internal/selection"
	typeres "github.com/hanpama/gqlmodel/internal/typeres"
)

// mode selects how object shapes are generated. Interface mode produces
// abstract shapes only; concrete mode partitions polymorphic fields into
// implementations.
type mode int

const (
	concrete mode = iota
	abstract
)

// builder compiles one document. It is not safe for concurrent use; the
// compiler gives every document its own builder.
type builder struct {
	arena    *selection.Arena
	resolver *typeres.Resolver
	schema   *schema.Schema
	document string
	errs     diag.List

	enums   map[string]bool
	inputs  map[string]*InputObject
	scalars map[string]bool
	doc     *Document
}

func newBuilder(resolver *typeres.Resolver, name string, kind DocumentKind) *builder {
	return &builder{
		arena:    selection.NewArena(),
		resolver: resolver,
		schema:   resolver.Schema(),
		document: name,
		enums:    make(map[string]bool),
		inputs:   make(map[string]*InputObject),
		scalars:  make(map[string]bool),
		doc:      &Document{Kind: kind, Name: name},
	}
}

// BuildOperation compiles one operation. Errors are reported on the
// returned document; when there are any, the document carries no model.
func BuildOperation(op *document.Operation, fragments selection.FragmentTable, resolver *typeres.Resolver) *Document {
	b := newBuilder(resolver, op.Name, OperationDocument)
	key := selection.OperationKey(op.Name)
	site := diag.Site{Document: op.Name, Path: key.Path, Location: diag.At(op.Definition.Position)}

	root := b.schema.RootType(string(op.Type))
	if root == nil {
		b.errs = append(b.errs, diag.UnresolvableOperationRoot(site, string(op.Type)))
		return b.finish()
	}
	variables := b.variables(op.Definition.VariableDefinitions, key)

	exp := selection.NewExpander(b.arena, resolver, fragments, op.Name)
	id, ok := exp.Root("data", root.Name, op.Definition.SelectionSet, selection.NewKeySet(key))
	b.doc.Warnings = exp.Warnings()
	b.errs = append(exp.Errors(), b.errs...)
	if !ok || len(b.errs) > 0 {
		return b.finish()
	}
	data := b.objectType(id, "Data", concrete)
	if len(b.errs) > 0 {
		return b.finish()
	}
	b.doc.Operation = &Operation{
		Name:          op.Name,
		OperationType: string(op.Type),
		OperationID:   op.ID,
		SourceText:    op.Source,
		File:          op.File,
		Variables:     variables,
		Fragments:     op.Fragments,
		Data:          data,
	}
	return b.finish()
}

// BuildFragment compiles both shapes of a named fragment.
func BuildFragment(f *document.Fragment, fragments selection.FragmentTable, resolver *typeres.Resolver) *Document {
	b := newBuilder(resolver, f.Name, FragmentDocument)
	key := selection.FragmentKey(f.Name)

	exp := selection.NewExpander(b.arena, resolver, fragments, f.Name)
	id, ok := exp.Root(f.Name, f.TypeCondition, f.Definition.SelectionSet, selection.NewKeySet(key))
	b.doc.Warnings = exp.Warnings()
	b.errs = append(b.errs, exp.Errors()...)
	if !ok || len(b.errs) > 0 {
		return b.finish()
	}
	iface := b.objectType(id, f.Name, abstract)
	impl := b.objectType(b.arena.Reroot(id, selection.FragmentImplementationKey(f.Name)), selection.ImplementationSegment, concrete)
	if len(b.errs) > 0 {
		return b.finish()
	}
	b.doc.Fragment = &FragmentModel{
		Name:           f.Name,
		TypeCondition:  f.TypeCondition,
		SourceText:     f.Source,
		File:           f.File,
		Fragments:      f.Fragments,
		Interface:      iface,
		Implementation: impl,
	}
	return b.finish()
}

func (b *builder) finish() *Document {
	d := b.doc
	d.Errors = b.errs
	if len(b.errs) > 0 {
		d.Operation, d.Fragment = nil, nil
		return d
	}
	for name := range b.enums {
		d.Enums = append(d.Enums, b.enum(name))
	}
	for _, in := range b.inputs {
		d.InputObjects = append(d.InputObjects, in)
	}
	for name := range b.scalars {
		binding, _ := b.resolver.Scalar(name)
		d.CustomScalars = append(d.CustomScalars, &CustomScalar{Name: name, Mapped: binding.Type, Adapter: binding.Adapter})
	}
	sort.Slice(d.Enums, func(i, j int) bool { return d.Enums[i].Name < d.Enums[j].Name })
	sort.Slice(d.InputObjects, func(i, j int) bool { return d.InputObjects[i].Name < d.InputObjects[j].Name })
	sort.Slice(d.CustomScalars, func(i, j int) bool { return d.CustomScalars[i].Name < d.CustomScalars[j].Name })
	return d
}

func (b *builder) site(keys selection.KeySet, pos *language.Position) diag.Site {
	return diag.Site{Document: b.document, Path: keys.Primary().Path, Location: diag.At(pos)}
}

func (b *builder) variables(defs language.VariableDefinitionList, key selection.Key) []Variable {
	var out []Variable
	for _, def := range defs {
		site := diag.Site{Document: b.document, Path: key.Child("$" + def.Variable).Path, Location: diag.At(def.Position)}
		typ, err := b.resolver.ResolveAST(def.Type, site)
		if err != nil {
			b.fail(err)
			continue
		}
		v := Variable{Name: def.Variable, Type: b.fieldType(typ, Ref{}, site)}
		if def.DefaultValue != nil {
			v.DefaultValue = def.DefaultValue.String()
		}
		out = append(out, v)
	}
	return out
}

// objectType builds the model type of composite field id.
func (b *builder) objectType(id selection.FieldID, name string, m mode) *Type {
	f := b.arena.Field(id)
	t := &Type{
		Name:          name,
		Key:           f.Keys.Primary(),
		AlternateKeys: f.Keys.Alternates(),
		PossibleTypes: f.PossibleTypes,
	}
	t.FragmentAccessors = spreadAccessors(f.Spreads)

	if !f.Type.IsAbstract() || len(f.Fragments) == 0 {
		t.Kind = ObjectKind{}
		if m == abstract {
			t.Kind = InterfaceKind{}
		}
		t.Fields, t.NestedTypes = b.fields(f.Fields, m)
		return t
	}

	site := b.site(f.Keys, f.Position)
	p, err := b.arena.Partition(id, catchAllName(f.ResponseName), site)
	if err != nil {
		b.fail(err)
		return t
	}

	// The shared fields of a polymorphic type are abstract in both modes:
	// implementations carry their own concrete copies.
	t.Fields, t.NestedTypes = b.fields(f.Fields, abstract)

	if m == abstract {
		t.Kind = InterfaceKind{}
		for _, fid := range p.Interfaces {
			fr := b.arena.Fragment(fid)
			nested := b.fragmentType(fr, abstract)
			t.NestedTypes = append(t.NestedTypes, nested)
			t.FragmentAccessors = append(t.FragmentAccessors, Accessor{Name: accessorName(fr.Name), Ref: Ref{Key: nested.Key}})
		}
		return t
	}

	kind := PolymorphicKind{}
	byType := make(map[string]Ref)
	for _, fid := range p.All() {
		fr := b.arena.Fragment(fid)
		impl := b.fragmentType(fr, concrete)
		impl.Implements = append([]Ref{{Key: t.Key}}, impl.Implements...)
		t.NestedTypes = append(t.NestedTypes, impl)
		ref := Ref{Key: impl.Key}
		for _, typ := range fr.PossibleTypes {
			byType[typ] = ref
		}
		if fid == p.Default {
			kind.Default = ref
			continue
		}
		t.FragmentAccessors = append(t.FragmentAccessors, Accessor{Name: accessorName(fr.Name), Ref: ref})
	}
	for _, typ := range f.PossibleTypes {
		kind.Possible = append(kind.Possible, PossibleImplementation{TypeName: typ, Ref: byType[typ]})
	}
	t.Kind = kind
	return t
}

// fragmentType builds an interface or implementation shape.
func (b *builder) fragmentType(fr *selection.Fragment, m mode) *Type {
	t := &Type{
		Name:           typeName(fr.Name),
		Key:            fr.Keys.Primary(),
		AlternateKeys:  fr.Keys.Alternates(),
		TypeConditions: fr.TypeConditions,
		PossibleTypes:  fr.PossibleTypes,
		Kind:           ObjectKind{},
	}
	if m == abstract {
		t.Kind = InterfaceKind{}
	}
	t.FragmentAccessors = spreadAccessors(fr.Spreads)
	t.Fields, t.NestedTypes = b.fields(fr.Fields, m)
	return t
}

func (b *builder) fields(ids []selection.FieldID, m mode) ([]*Field, []*Type) {
	fields := make([]*Field, 0, len(ids))
	var nested []*Type
	for _, id := range ids {
		f := b.arena.Field(id)
		site := b.site(f.Keys, f.Position)
		var ref Ref
		if f.Type.IsComposite() {
			t := b.objectType(id, typeName(f.ResponseName), m)
			nested = append(nested, t)
			ref = Ref{Key: t.Key}
		}
		typ := b.fieldType(f.Type, ref, site)
		if len(f.Conditions) > 0 {
			typ = typ.WithNullable(true)
		}
		fields = append(fields, &Field{
			Name:              f.Name,
			ResponseName:      f.ResponseName,
			Type:              typ,
			Arguments:         f.Arguments,
			Conditions:        f.Conditions,
			Description:       f.Description,
			Deprecated:        f.Deprecated,
			DeprecationReason: f.DeprecationReason,
		})
	}
	return fields, nested
}

// fieldType converts a resolved schema type, recording every enum, input
// object and custom scalar it reaches.
func (b *builder) fieldType(t *typeres.TypeRef, ref Ref, site diag.Site) FieldType {
	switch t.Kind {
	case typeres.KindList:
		return ArrayType{Of: b.fieldType(t.Of, ref, site), Nullable: t.Nullable}
	case typeres.KindPrimitive:
		switch t.Primitive {
		case typeres.Int:
			return IntType{Nullable: t.Nullable}
		case typeres.Float:
			return FloatType{Nullable: t.Nullable}
		case typeres.Boolean:
			return BooleanType{Nullable: t.Nullable}
		}
		return StringType{Nullable: t.Nullable}
	case typeres.KindCustom:
		b.scalars[t.Name] = true
		return CustomType{Name: t.Name, Mapped: t.Mapped, Adapter: t.Adapter, Nullable: t.Nullable}
	case typeres.KindEnum:
		b.enums[t.Name] = true
		return EnumType{Name: t.Name, Nullable: t.Nullable}
	case typeres.KindInputObject:
		b.inputObject(t.Name, site)
		return InputObjectType{Name: t.Name, Nullable: t.Nullable}
	}
	return ObjectType{Ref: ref, Nullable: t.Nullable}
}

func (b *builder) inputObject(name string, site diag.Site) {
	if _, ok := b.inputs[name]; ok {
		return
	}
	def := b.schema.Lookup(name)
	in := &InputObject{Name: name}
	if def != nil {
		in.Description = def.Description
	}
	b.inputs[name] = in
	fields, err := b.resolver.InputFields(name, site)
	if err != nil {
		b.fail(err)
		return
	}
	for _, f := range fields {
		in.Fields = append(in.Fields, InputField{
			Name:         f.Name,
			Description:  f.Description,
			Type:         b.fieldType(f.Type, Ref{}, site),
			DefaultValue: f.DefaultValue,
		})
	}
}

func (b *builder) enum(name string) *Enum {
	e := &Enum{Name: name}
	def := b.schema.Lookup(name)
	if def == nil {
		return e
	}
	e.Description = def.Description
	for _, v := range def.EnumValues {
		e.Values = append(e.Values, EnumValue{
			Name:              v.Name,
			Description:       v.Description,
			Deprecated:        v.IsDeprecated,
			DeprecationReason: v.DeprecationReason,
		})
	}
	return e
}

func (b *builder) fail(err error) {
	b.errs = append(b.errs, diag.Errors(err)...)
}

func spreadAccessors(spreads []string) []Accessor {
	var out []Accessor
	for _, name := range spreads {
		out = append(out, Accessor{
			Name: fragmentAccessorName(name),
			Ref:  Ref{Key: selection.FragmentKey(name)},
		})
	}
	return out
}
