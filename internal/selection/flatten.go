package selection

import (
	"strconv"
	"strings"

	diag "github.com/hanpama/gqlmodel/internal/diag"
)

// Flattened is one entry of the pre-order fragment walk.
type Flattened struct {
	Fragment FragmentID
	Depth    int
	// Fields are the fragment's own fields merged over those of every
	// enclosing fragment.
	Fields []FieldID
}

// Flatten walks a fragment tree in pre-order.
func (a *Arena) Flatten(ids []FragmentID) []Flattened {
	var out []Flattened
	var walk func(ids []FragmentID, depth int, inherited []FieldID)
	walk = func(ids []FragmentID, depth int, inherited []FieldID) {
		for _, id := range ids {
			fr := a.fragments[id]
			effective := a.Merge(inherited, fr.Fields)
			out = append(out, Flattened{Fragment: id, Depth: depth, Fields: effective})
			walk(fr.Fragments, depth+1, effective)
		}
	}
	walk(ids, 0, nil)
	return out
}

// Partition is the polymorphic layout of one field.
type Partition struct {
	// Plain are the fields selected outside any fragment.
	Plain []FieldID
	// Interfaces holds one shape per distinct type condition.
	Interfaces []FragmentID
	// Implementations are the explicit concrete shapes in first-seen order.
	Implementations []FragmentID
	// Default is the catch-all implementation. It carries only the plain
	// fields and may cover no possible type at all.
	Default FragmentID
}

// All returns the explicit implementations followed by the default.
func (p *Partition) All() []FragmentID {
	return append(append([]FragmentID(nil), p.Implementations...), p.Default)
}

type squashed struct {
	typeCondition string
	fields        []FieldID
	possible      []string
	keys          KeySet
	spreads       []string
}

// Partition flattens the fragments of field id, squashes them by type
// condition and partitions the field's possible types by the exact set of
// fragments applying to each. catchAll names the default implementation.
func (a *Arena) Partition(id FieldID, catchAll string, site diag.Site) (*Partition, error) {
	f := a.fields[id]
	parent := f.Keys.Primary()

	var groups []*squashed
	index := make(map[string]*squashed)
	for _, fl := range a.Flatten(f.Fragments) {
		fr := a.fragments[fl.Fragment]
		g := index[fr.TypeCondition]
		if g == nil {
			g = &squashed{typeCondition: fr.TypeCondition}
			index[fr.TypeCondition] = g
			groups = append(groups, g)
		}
		g.fields = a.Merge(g.fields, fl.Fields)
		g.possible = unionStrings(g.possible, fr.PossibleTypes)
		g.keys = g.keys.Union(fr.Keys)
		g.spreads = unionStrings(g.spreads, fr.Spreads)
	}

	p := &Partition{Plain: f.Fields}
	for _, g := range groups {
		key := g.keys.Primary()
		p.Interfaces = append(p.Interfaces, a.NewFragment(&Fragment{
			Kind:           Interface,
			Name:           g.typeCondition,
			TypeCondition:  g.typeCondition,
			TypeConditions: []string{g.typeCondition},
			PossibleTypes:  intersect(f.PossibleTypes, g.possible),
			Fields:         a.Rekey(a.Merge(f.Fields, g.fields), key),
			Spreads:        g.spreads,
			Keys:           g.keys,
		}))
	}

	// Group possible types by their applicable fragment set.
	type implementation struct {
		members []int
		types   []string
	}
	var impls []*implementation
	bySignature := make(map[string]*implementation)
	var uncovered []string
	for _, t := range f.PossibleTypes {
		var members []int
		var sig strings.Builder
		for i, g := range groups {
			if containsString(g.possible, t) {
				members = append(members, i)
				sig.WriteString(strconv.Itoa(i))
				sig.WriteByte(',')
			}
		}
		if len(members) == 0 {
			uncovered = append(uncovered, t)
			continue
		}
		impl := bySignature[sig.String()]
		if impl == nil {
			impl = &implementation{members: members}
			bySignature[sig.String()] = impl
			impls = append(impls, impl)
		}
		impl.types = append(impl.types, t)
	}

	taken := map[string]bool{catchAll: true}
	for _, impl := range impls {
		var conditions []string
		var spreads []string
		var keys KeySet
		fields := f.Fields
		for _, m := range impl.members {
			g := groups[m]
			conditions = append(conditions, g.typeCondition)
			fields = a.Merge(fields, g.fields)
			keys = keys.Union(g.keys)
			spreads = unionStrings(spreads, g.spreads)
		}
		name := uniqueName(strings.Join(conditions, ""), taken)
		key := parent.Shape(name)
		p.Implementations = append(p.Implementations, a.NewFragment(&Fragment{
			Kind:           Implementation,
			Name:           name,
			TypeCondition:  conditions[len(conditions)-1],
			TypeConditions: conditions,
			PossibleTypes:  impl.types,
			Fields:         a.Rekey(fields, key),
			Spreads:        spreads,
			Keys:           KeySet{key}.Union(keys),
		}))
	}

	defaultKey := parent.Shape(catchAll)
	p.Default = a.NewFragment(&Fragment{
		Kind:          Implementation,
		Name:          catchAll,
		PossibleTypes: uncovered,
		Fields:        a.Rekey(f.Fields, defaultKey),
		Keys:          KeySet{defaultKey},
	})

	if err := a.checkPartition(f, p, site); err != nil {
		return nil, err
	}
	return p, nil
}

// checkPartition verifies every possible type lands in exactly one
// implementation.
func (a *Arena) checkPartition(f *Field, p *Partition, site diag.Site) error {
	counts := make(map[string]int, len(f.PossibleTypes))
	for _, id := range p.All() {
		for _, t := range a.fragments[id].PossibleTypes {
			counts[t]++
		}
	}
	for _, t := range f.PossibleTypes {
		if counts[t] != 1 {
			return diag.AmbiguousPossibleTypePartition(site, t, counts[t])
		}
	}
	return nil
}

// Rekey makes parent.Child(responseName) the canonical key of every field
// in ids, recursively. Previous keys stay as alternates, which is how a
// shape that is rebuilt under a new parent keeps implementing the shapes it
// was derived from.
func (a *Arena) Rekey(ids []FieldID, parent Key) []FieldID {
	out := make([]FieldID, len(ids))
	for i, id := range ids {
		out[i] = a.rekeyField(id, parent)
	}
	return out
}

func (a *Arena) rekeyField(id FieldID, parent Key) FieldID {
	return a.Reroot(id, parent.Child(a.fields[id].ResponseName))
}

// Reroot makes key the canonical key of field id and rekeys its subtree
// below key.
func (a *Arena) Reroot(id FieldID, key Key) FieldID {
	f := a.fields[id]
	if f.Keys.Primary().Equal(key) {
		return id
	}
	c := *f
	c.Keys = f.Keys.Prepend(key)
	c.Fields = a.Rekey(f.Fields, key)
	c.Fragments = a.rekeyFragments(f.Fragments, key)
	return a.NewField(&c)
}

func (a *Arena) rekeyFragments(ids []FragmentID, parent Key) []FragmentID {
	out := make([]FragmentID, len(ids))
	for i, id := range ids {
		fr := a.fragments[id]
		key := parent.Shape(fr.Name)
		if fr.Keys.Primary().Equal(key) {
			out[i] = id
			continue
		}
		c := *fr
		c.Keys = fr.Keys.Prepend(key)
		c.Fields = a.Rekey(fr.Fields, key)
		c.Fragments = a.rekeyFragments(fr.Fragments, key)
		out[i] = a.NewFragment(&c)
	}
	return out
}

func uniqueName(name string, taken map[string]bool) string {
	candidate := name
	for i := 2; taken[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	taken[candidate] = true
	return candidate
}
