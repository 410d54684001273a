package selection

import (
	"errors"

	diag "github.com/hanpama/gqlmodel/internal/diag"
	language "github.com/hanpama/gqlmodel/internal/language"
	schema "github.com/hanpama/gqlmodel/internal/schema"
	typeres "github.com/hanpama/gqlmodel/internal/typeres"
)

// FragmentTable resolves named fragments. It is read-only and complete
// before expansion starts.
type FragmentTable interface {
	Fragment(name string) (*language.FragmentDefinition, bool)
}

// Scope is the context a selection set is expanded in.
type Scope struct {
	// TypeName is the schema type fields are looked up on.
	TypeName string
	// PossibleTypes are the concrete types reachable in this scope.
	PossibleTypes []string
	Keys          KeySet
	// Conditions are inherited from enclosing fragments and pushed onto
	// every field of the scope.
	Conditions []Condition
}

// Selection is the expanded content of a selection set.
type Selection struct {
	Fields    []FieldID
	Fragments []FragmentID
	// Keys are fragment roots folded into the scope.
	Keys    KeySet
	Spreads []string
}

// Expander turns parsed selection sets into arena nodes for one document.
// Errors are collected rather than returned so one pass reports every
// problem in the document.
type Expander struct {
	arena     *Arena
	resolver  *typeres.Resolver
	schema    *schema.Schema
	fragments FragmentTable
	document  string

	errs     diag.List
	warnings []diag.Warning
	active   []string
}

func NewExpander(arena *Arena, resolver *typeres.Resolver, fragments FragmentTable, document string) *Expander {
	return &Expander{
		arena:     arena,
		resolver:  resolver,
		schema:    resolver.Schema(),
		fragments: fragments,
		document:  document,
	}
}

func (e *Expander) Errors() diag.List        { return e.errs }
func (e *Expander) Warnings() []diag.Warning { return e.warnings }

// Root expands the top-level selection of a document into a synthetic
// non-null field called name of type typeName.
func (e *Expander) Root(name, typeName string, set language.SelectionSet, keys KeySet) (FieldID, bool) {
	site := diag.Site{Document: e.document, Path: keys.Primary().Path}
	typ, err := e.resolver.ResolveNamed(typeName, site)
	if err != nil {
		e.fail(err)
		return 0, false
	}
	node := &Field{
		Name:         name,
		ResponseName: name,
		Type:         typ.MakeNonNull(),
		Keys:         keys,
	}
	e.expandChildren(node, set)
	return e.arena.NewField(node), true
}

// Expand expands set within scope.
func (e *Expander) Expand(set language.SelectionSet, scope Scope) Selection {
	var out Selection
	for _, sel := range set {
		switch sel := sel.(type) {
		case *language.Field:
			if id, ok := e.expandField(sel, scope); ok {
				out.Fields = e.arena.Merge(out.Fields, []FieldID{id})
			}
		case *language.InlineFragment:
			e.expandFragment(&out, sel.TypeCondition, sel.Directives, sel.SelectionSet, "", sel.Position, scope)
		case *language.FragmentSpread:
			site := e.site(scope.Keys, sel.Position)
			def, ok := e.fragments.Fragment(sel.Name)
			if !ok {
				e.errs = append(e.errs, diag.DanglingFragmentSpread(site, sel.Name))
				continue
			}
			if containsString(e.active, sel.Name) {
				e.errs = append(e.errs, diag.FragmentCycle(site, append(append([]string(nil), e.active...), sel.Name)))
				continue
			}
			e.active = append(e.active, sel.Name)
			e.expandFragment(&out, def.TypeCondition, sel.Directives, def.SelectionSet, sel.Name, sel.Position, scope)
			e.active = e.active[:len(e.active)-1]
		}
	}
	return out
}

func (e *Expander) expandField(f *language.Field, scope Scope) (FieldID, bool) {
	conds, excluded := conditionsOf(f.Directives)
	if excluded {
		return 0, false
	}
	responseName := f.Alias
	if responseName == "" {
		responseName = f.Name
	}
	keys := scope.Keys.Child(responseName)
	conds = unionConditions(scope.Conditions, conds)

	if f.Name == language.TypenameField {
		return e.arena.NewField(&Field{
			Name:         f.Name,
			ResponseName: responseName,
			Type:         typeres.Typename,
			Conditions:   conds,
			Keys:         keys,
			Position:     f.Position,
		}), true
	}

	site := e.site(keys, f.Position)
	parent := e.schema.Lookup(scope.TypeName)
	if parent == nil {
		e.errs = append(e.errs, diag.UnknownType(site, scope.TypeName))
		return 0, false
	}
	def := parent.Field(f.Name)
	if def == nil {
		e.errs = append(e.errs, diag.UnknownField(site, scope.TypeName, f.Name))
		return 0, false
	}
	typ, err := e.resolver.Resolve(def.Type, site)
	if err != nil {
		e.fail(err)
		return 0, false
	}

	node := &Field{
		Name:              f.Name,
		ResponseName:      responseName,
		Type:              typ,
		Arguments:         arguments(f.Arguments),
		Conditions:        conds,
		Description:       def.Description,
		Deprecated:        def.IsDeprecated,
		DeprecationReason: def.DeprecationReason,
		Keys:              keys,
		Position:          f.Position,
	}
	if typ.IsComposite() {
		e.expandChildren(node, f.SelectionSet)
	}
	return e.arena.NewField(node), true
}

// expandChildren fills the selection of a composite field. Abstract fields
// always select __typename so implementations can be told apart.
func (e *Expander) expandChildren(node *Field, set language.SelectionSet) {
	named := node.Type.Named()
	node.PossibleTypes = e.schema.PossibleTypes(named.Name)
	sel := e.Expand(set, Scope{
		TypeName:      named.Name,
		PossibleTypes: node.PossibleTypes,
		Keys:          node.Keys,
	})
	fields := sel.Fields
	if named.Kind == typeres.KindInterface || named.Kind == typeres.KindUnion {
		fields = e.withTypename(fields, node.Keys)
	}
	node.Fields = fields
	node.Fragments = sel.Fragments
	node.Spreads = sel.Spreads
	node.Keys = node.Keys.Union(sel.Keys)
}

func (e *Expander) withTypename(fields []FieldID, keys KeySet) []FieldID {
	for _, id := range fields {
		if e.arena.Field(id).ResponseName == language.TypenameField {
			return fields
		}
	}
	id := e.arena.NewField(&Field{
		Name:         language.TypenameField,
		ResponseName: language.TypenameField,
		Type:         typeres.Typename,
		Keys:         keys.Child(language.TypenameField),
	})
	return append([]FieldID{id}, fields...)
}

// expandFragment expands an inline fragment or a named spread (spread is
// the fragment name, empty for inline fragments).
//
// A fragment that covers the whole scope is folded: its fields join the
// scope directly and a spread's root key is added to the scope's keys. Any
// other fragment becomes a Branch whose possible types are the
// intersection of its type condition with the scope.
func (e *Expander) expandFragment(out *Selection, typeCondition string, directives language.DirectiveList, set language.SelectionSet, spread string, pos *language.Position, scope Scope) {
	conds, excluded := conditionsOf(directives)
	if excluded {
		return
	}
	if typeCondition == "" {
		typeCondition = scope.TypeName
	}
	site := e.site(scope.Keys, pos)
	t := e.schema.Lookup(typeCondition)
	if t == nil || !t.IsComposite() {
		e.errs = append(e.errs, diag.UnknownType(site, typeCondition))
		return
	}
	possible := intersect(scope.PossibleTypes, e.schema.PossibleTypes(typeCondition))
	if len(possible) == 0 {
		e.warnings = append(e.warnings, diag.DeadFragment(site, typeCondition, scope.PossibleTypes))
		return
	}
	conds = unionConditions(scope.Conditions, conds)

	// A guarded spread makes its fields nullable here, so the selection no
	// longer has the fragment's shape and gets neither key nor accessor.
	var spreads []string
	var rootKeys KeySet
	if spread != "" && len(conds) == 0 {
		spreads = []string{spread}
		rootKeys = KeySet{FragmentKey(spread)}
	}

	scopeType := e.schema.Lookup(scope.TypeName)
	if typeCondition == scope.TypeName || (scopeType != nil && scopeType.Kind == schema.TypeKindObject) {
		inner := e.Expand(set, Scope{
			TypeName:      typeCondition,
			PossibleTypes: scope.PossibleTypes,
			Keys:          scope.Keys.Union(rootKeys),
			Conditions:    conds,
		})
		out.Fields = e.arena.Merge(out.Fields, inner.Fields)
		out.Fragments = e.arena.MergeFragments(out.Fragments, inner.Fragments)
		out.Keys = out.Keys.Union(rootKeys).Union(inner.Keys)
		out.Spreads = unionStrings(unionStrings(out.Spreads, spreads), inner.Spreads)
		return
	}

	keys := scope.Keys.Shape(typeCondition).Union(rootKeys)
	inner := e.Expand(set, Scope{
		TypeName:      typeCondition,
		PossibleTypes: possible,
		Keys:          keys,
		Conditions:    conds,
	})
	id := e.arena.NewFragment(&Fragment{
		Kind:           Branch,
		Name:           typeCondition,
		TypeCondition:  typeCondition,
		TypeConditions: []string{typeCondition},
		PossibleTypes:  possible,
		Conditions:     conds,
		Fields:         inner.Fields,
		Fragments:      inner.Fragments,
		Spreads:        unionStrings(spreads, inner.Spreads),
		Keys:           keys.Union(inner.Keys),
		Position:       pos,
	})
	out.Fragments = e.arena.MergeFragments(out.Fragments, []FragmentID{id})
}

func (e *Expander) site(keys KeySet, pos *language.Position) diag.Site {
	return diag.Site{Document: e.document, Path: keys.Primary().Path, Location: diag.At(pos)}
}

func (e *Expander) fail(err error) {
	var de *diag.Error
	if errors.As(err, &de) {
		e.errs = append(e.errs, de)
		return
	}
	e.errs = append(e.errs, &diag.Error{Document: e.document, Message: err.Error()})
}

func arguments(list language.ArgumentList) []Argument {
	if len(list) == 0 {
		return nil
	}
	out := make([]Argument, 0, len(list))
	for _, arg := range list {
		out = append(out, Argument{
			Name:      arg.Name,
			Value:     arg.Value.String(),
			Variables: language.Variables(arg.Value),
		})
	}
	return out
}

// intersect keeps the elements of scope that are also in types, in scope
// order.
func intersect(scope, types []string) []string {
	var out []string
	for _, t := range scope {
		if containsString(types, t) {
			out = append(out, t)
		}
	}
	return out
}
