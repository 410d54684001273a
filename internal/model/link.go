package model

import (
	"reflect"
	"sort"
	"strconv"

	diag "github.com/hanpama/gqlmodel/internal/diag"
)

// Link assembles compiled documents into one tree: it registers every type
// by selection key, assigns unique qualified names, resolves references
// and derives implements relations from alternate keys.
//
// Documents that carry errors are left out. A document that fails to link
// is left out too and its errors are returned; the rest of the tree is
// still returned. Link never modifies docs.
func Link(docs []*Document) (*Tree, error) {
	l := &linker{registry: make(map[string]*Type), names: make(map[string]bool)}
	tree := &Tree{}

	type entry struct {
		doc   *Document
		op    *Operation
		frag  *FragmentModel
		roots []*Type
	}
	var entries []*entry
	for _, d := range docs {
		tree.Warnings = append(tree.Warnings, d.Warnings...)
		if d.Err() != nil {
			continue
		}
		e := &entry{doc: d}
		switch {
		case d.Operation != nil:
			op := *d.Operation
			op.Data = copyType(op.Data)
			e.op, e.roots = &op, []*Type{op.Data}
		case d.Fragment != nil:
			fm := *d.Fragment
			fm.Interface = copyType(fm.Interface)
			fm.Implementation = copyType(fm.Implementation)
			e.frag, e.roots = &fm, []*Type{fm.Interface, fm.Implementation}
		default:
			continue
		}
		if err := l.admit(d.Name, e.roots); err != nil {
			l.errs = append(l.errs, err)
			continue
		}
		entries = append(entries, e)
	}

	l.assignNames()

	enums := make(map[string]*Enum)
	inputs := make(map[string]*InputObject)
	scalars := make(map[string]*CustomScalar)
	for _, e := range entries {
		before := len(l.errs)
		for _, t := range e.roots {
			l.resolve(e.doc.Name, t)
		}
		if len(l.errs) > before {
			continue
		}
		if e.op != nil {
			tree.Operations = append(tree.Operations, e.op)
		} else {
			tree.Fragments = append(tree.Fragments, e.frag)
		}
		for _, en := range e.doc.Enums {
			enums[en.Name] = en
		}
		for _, in := range e.doc.InputObjects {
			inputs[in.Name] = in
		}
		for _, s := range e.doc.CustomScalars {
			scalars[s.Name] = s
		}
	}
	tree.Enums = sortedValues(enums)
	tree.InputObjects = sortedValues(inputs)
	tree.CustomScalars = sortedValues(scalars)
	return tree, l.errs.Err()
}

type linker struct {
	registry map[string]*Type
	// order lists registered types in document order; names are assigned
	// in this order.
	order []*Type
	names map[string]bool
	errs  diag.List
}

// admit registers every type below roots. A key already taken by an equal
// shape is reused and the duplicate dropped; a key taken by a different
// shape rejects the whole document.
func (l *linker) admit(doc string, roots []*Type) *diag.Error {
	pending := make(map[string]*Type)
	var order []*Type
	var check func(t *Type) *diag.Error
	check = func(t *Type) *diag.Error {
		k := t.Key.String()
		seen := pending[k]
		if seen == nil {
			seen = l.registry[k]
		}
		if seen != nil {
			if !reflect.DeepEqual(seen, t) {
				return diag.AmbiguousSelectionKey(diag.Site{Document: doc, Path: t.Key.Path}, k)
			}
			return nil
		}
		pending[k] = t
		order = append(order, t)
		for _, n := range t.NestedTypes {
			if err := check(n); err != nil {
				return err
			}
		}
		return nil
	}
	for _, t := range roots {
		if err := check(t); err != nil {
			return err
		}
	}
	for _, t := range order {
		kept := t.NestedTypes[:0]
		for _, n := range t.NestedTypes {
			if pending[n.Key.String()] == n {
				kept = append(kept, n)
			}
		}
		t.NestedTypes = kept
		l.registry[t.Key.String()] = t
	}
	l.order = append(l.order, order...)
	return nil
}

func (l *linker) assignNames() {
	for _, t := range l.order {
		base := qualifiedName(t.Key)
		name := base
		for i := 2; l.names[name]; i++ {
			name = base + strconv.Itoa(i)
		}
		l.names[name] = true
		t.QualifiedName = name
	}
}

func (l *linker) resolve(doc string, t *Type) {
	site := diag.Site{Document: doc, Path: t.Key.Path}
	for _, f := range t.Fields {
		f.Type = l.fieldType(f.Type, site)
	}
	for i := range t.FragmentAccessors {
		t.FragmentAccessors[i].Ref = l.ref(t.FragmentAccessors[i].Ref, site)
	}
	if k, ok := t.Kind.(PolymorphicKind); ok {
		resolved := PolymorphicKind{Default: l.ref(k.Default, site)}
		for _, p := range k.Possible {
			resolved.Possible = append(resolved.Possible, PossibleImplementation{TypeName: p.TypeName, Ref: l.ref(p.Ref, site)})
		}
		t.Kind = resolved
	}

	implements := t.Implements
	for _, alt := range t.AlternateKeys {
		target := l.registry[alt.String()]
		if target == nil || target == t || !isAbstract(target) {
			continue
		}
		implements = append(implements, Ref{Key: alt})
	}
	t.Implements = nil
	seen := make(map[string]bool)
	for _, r := range implements {
		if seen[r.Key.String()] {
			continue
		}
		seen[r.Key.String()] = true
		t.Implements = append(t.Implements, l.ref(r, site))
	}

	for _, n := range t.NestedTypes {
		l.resolve(doc, n)
	}
}

func (l *linker) fieldType(t FieldType, site diag.Site) FieldType {
	switch t := t.(type) {
	case ObjectType:
		t.Ref = l.ref(t.Ref, site)
		return t
	case ArrayType:
		t.Of = l.fieldType(t.Of, site)
		return t
	}
	return t
}

func (l *linker) ref(r Ref, site diag.Site) Ref {
	target := l.registry[r.Key.String()]
	if target == nil {
		l.errs = append(l.errs, diag.UnresolvedReference(site, r.Key.String()))
		return r
	}
	r.Name = target.QualifiedName
	return r
}

func isAbstract(t *Type) bool {
	switch t.Kind.(type) {
	case InterfaceKind, PolymorphicKind:
		return true
	}
	return false
}

// copyType copies t deeply enough that linking can fill in names and
// references without touching the original.
func copyType(t *Type) *Type {
	c := *t
	c.Fields = make([]*Field, len(t.Fields))
	for i, f := range t.Fields {
		fc := *f
		c.Fields[i] = &fc
	}
	c.NestedTypes = make([]*Type, len(t.NestedTypes))
	for i, n := range t.NestedTypes {
		c.NestedTypes[i] = copyType(n)
	}
	c.Implements = append([]Ref(nil), t.Implements...)
	c.FragmentAccessors = append([]Accessor(nil), t.FragmentAccessors...)
	return &c
}

type sideTable interface {
	*Enum | *InputObject | *CustomScalar
}

func sortedValues[T sideTable](m map[string]T) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
