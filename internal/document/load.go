package document

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/vektah/gqlparser/v2/gqlerror"

	diag "github.com/hanpama/gqlmodel/internal/diag"
	language "github.com/hanpama/gqlmodel/internal/language"
)

// Load reads every discovered document and assembles a Unit. Broken input
// does not stop loading: files that fail to parse, duplicate definitions,
// and documents that reach a fragment cycle are left out of the unit and
// reported in the returned error, which is a diag.List.
func Load(ctx context.Context, disc Discovery) (*Unit, error) {
	metas, err := disc.ListMetadata(ctx)
	if err != nil {
		return nil, err
	}
	l := &loader{unit: &Unit{byName: make(map[string]*Fragment)}, ops: make(map[string]bool)}
	for _, meta := range metas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := disc.ReadSource(ctx, meta.Name)
		if err != nil {
			return nil, err
		}
		l.add(meta.Name, content)
	}
	l.dropCycles()
	l.unit.finish()
	return l.unit, l.errs.Err()
}

// Parse is Load over in-memory sources.
func Parse(sources ...InMemorySource) (*Unit, error) {
	return Load(context.Background(), NewInMemoryDiscovery(sources...))
}

type loader struct {
	unit *Unit
	ops  map[string]bool
	errs diag.List
}

func (l *loader) add(name, content string) {
	doc, err := language.ParseQuery(name, content)
	if err != nil {
		l.errs = append(l.errs, syntaxError(name, err))
		return
	}
	for _, def := range doc.Operations {
		opName := def.Name
		if opName == "" {
			if len(doc.Operations) > 1 {
				l.errs = append(l.errs, diag.Syntax(diag.At(def.Position),
					"anonymous operation in a document with several operations"))
				continue
			}
			opName = strcase.ToCamel(strings.TrimSuffix(path.Base(name), path.Ext(name)))
		}
		if l.ops[opName] {
			l.errs = append(l.errs, diag.DuplicateDocument(diag.Site{Document: opName, Location: diag.At(def.Position)}, "operation", opName))
			continue
		}
		l.ops[opName] = true
		l.unit.Operations = append(l.unit.Operations, &Operation{
			Name:       opName,
			Type:       def.Operation,
			Definition: def,
			File:       name,
		})
	}
	for _, def := range doc.Fragments {
		if _, dup := l.unit.byName[def.Name]; dup {
			l.errs = append(l.errs, diag.DuplicateDocument(diag.Site{Document: def.Name, Location: diag.At(def.Position)}, "fragment", def.Name))
			continue
		}
		f := &Fragment{
			Name:          def.Name,
			TypeCondition: def.TypeCondition,
			Definition:    def,
			File:          name,
		}
		l.unit.byName[def.Name] = f
		l.unit.Fragments = append(l.unit.Fragments, f)
	}
}

// dropCycles detects fragment spread cycles, reports each once, and removes
// every document that can reach a cyclic fragment. It also fills the
// transitive fragment lists of the surviving documents.
func (l *loader) dropCycles() {
	direct := make(map[string][]string, len(l.unit.Fragments))
	for _, f := range l.unit.Fragments {
		direct[f.Name] = Spreads(f.Definition.SelectionSet)
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	cyclic := make(map[string]bool)
	var stack []string
	var visit func(name string)
	visit = func(name string) {
		state[name] = visiting
		stack = append(stack, name)
		for _, next := range direct[name] {
			if _, ok := l.unit.byName[next]; !ok {
				continue
			}
			switch state[next] {
			case unvisited:
				visit(next)
			case visiting:
				start := 0
				for i, s := range stack {
					if s == next {
						start = i
						break
					}
				}
				cycle := append(append([]string(nil), stack[start:]...), next)
				for _, member := range cycle {
					cyclic[member] = true
				}
				f := l.unit.byName[next]
				l.errs = append(l.errs, diag.FragmentCycle(diag.Site{Document: next, Location: diag.At(f.Definition.Position)}, cycle))
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
	}
	for _, f := range l.unit.Fragments {
		if state[f.Name] == unvisited {
			visit(f.Name)
		}
	}

	// closure returns the reachable fragments in first-seen order and
	// whether a cyclic fragment is among them.
	closure := func(roots []string) ([]string, bool) {
		var out []string
		tainted := false
		seen := make(map[string]bool)
		var walk func(string)
		walk = func(name string) {
			if seen[name] {
				return
			}
			seen[name] = true
			if _, ok := l.unit.byName[name]; !ok {
				return
			}
			if cyclic[name] {
				tainted = true
			}
			out = append(out, name)
			for _, next := range direct[name] {
				walk(next)
			}
		}
		for _, r := range roots {
			walk(r)
		}
		return out, tainted
	}

	ops := l.unit.Operations[:0]
	for _, op := range l.unit.Operations {
		refs, tainted := closure(Spreads(op.Definition.SelectionSet))
		if tainted {
			continue
		}
		op.Fragments = refs
		ops = append(ops, op)
	}
	l.unit.Operations = ops

	frags := l.unit.Fragments[:0]
	for _, f := range l.unit.Fragments {
		refs, tainted := closure(direct[f.Name])
		if tainted || cyclic[f.Name] {
			continue
		}
		f.Fragments = refs
		frags = append(frags, f)
	}
	l.unit.Fragments = frags
	l.unit.byName = make(map[string]*Fragment, len(frags))
	for _, f := range frags {
		l.unit.byName[f.Name] = f
	}
}

// Spreads lists the fragment names spread anywhere in set, in first-seen
// order.
func Spreads(set language.SelectionSet) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(language.SelectionSet)
	walk = func(set language.SelectionSet) {
		for _, sel := range set {
			switch sel := sel.(type) {
			case *language.Field:
				walk(sel.SelectionSet)
			case *language.InlineFragment:
				walk(sel.SelectionSet)
			case *language.FragmentSpread:
				if !seen[sel.Name] {
					seen[sel.Name] = true
					out = append(out, sel.Name)
				}
			}
		}
	}
	walk(set)
	return out
}

func syntaxError(file string, err error) *diag.Error {
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		loc := diag.Location{File: file}
		if len(gqlErr.Locations) > 0 {
			loc.Line = gqlErr.Locations[0].Line
			loc.Column = gqlErr.Locations[0].Column
		}
		return diag.Syntax(loc, gqlErr.Message)
	}
	return diag.Syntax(diag.Location{File: file}, fmt.Sprint(err))
}
