package document

import (
	"crypto/sha256"
	"encoding/hex"

	language "github.com/hanpama/gqlmodel/internal/language"
)

// Operation is one named operation together with everything needed to
// compile it in isolation.
type Operation struct {
	Name       string
	Type       language.Operation
	Definition *language.OperationDefinition
	File       string
	// Fragments lists every named fragment the operation reaches, in
	// first-seen order.
	Fragments []string
	// Source is the operation followed by its fragments in canonical form.
	Source string
	// ID is the SHA-256 of Source, the persisted-query identifier.
	ID string
}

// Fragment is one named fragment definition.
type Fragment struct {
	Name          string
	TypeCondition string
	Definition    *language.FragmentDefinition
	File          string
	Fragments     []string
	Source        string
}

// Unit is a compilation unit: all operations plus the read-only table of
// named fragments. A Unit is complete before any document compiles, and
// is never modified afterwards.
type Unit struct {
	Operations []*Operation
	Fragments  []*Fragment

	byName map[string]*Fragment
}

// Fragment looks up a fragment definition by name. It satisfies the
// fragment table interface used during selection expansion.
func (u *Unit) Fragment(name string) (*language.FragmentDefinition, bool) {
	f, ok := u.byName[name]
	if !ok {
		return nil, false
	}
	return f.Definition, true
}

// NamedFragment returns the loaded fragment record.
func (u *Unit) NamedFragment(name string) *Fragment { return u.byName[name] }

func (u *Unit) finish() {
	for _, op := range u.Operations {
		doc := &language.QueryDocument{Operations: language.OperationList{op.Definition}}
		for _, name := range op.Fragments {
			doc.Fragments = append(doc.Fragments, u.byName[name].Definition)
		}
		op.Source = language.PrintQuery(doc)
		sum := sha256.Sum256([]byte(op.Source))
		op.ID = hex.EncodeToString(sum[:])
	}
	for _, f := range u.Fragments {
		doc := &language.QueryDocument{Fragments: language.FragmentDefinitionList{f.Definition}}
		for _, name := range f.Fragments {
			doc.Fragments = append(doc.Fragments, u.byName[name].Definition)
		}
		f.Source = language.PrintQuery(doc)
	}
}
