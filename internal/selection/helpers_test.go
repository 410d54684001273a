package selection_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	diag "github.com/hanpama/gqlmodel/internal/diag"
	selection "github.com/hanpama/gqlmodel/internal/selection"
	testutil "github.com/hanpama/gqlmodel/internal/testutil"
)

type expanded struct {
	arena *selection.Arena
	exp   *selection.Expander
	root  selection.FieldID
}

// expandQuery expands the first operation of query below a synthetic
// "data" field on Query.
func expandQuery(t *testing.T, query string) *expanded {
	t.Helper()
	unit := testutil.Unit(t, testutil.Source("query.graphql", query))
	require.NotEmpty(t, unit.Operations)
	op := unit.Operations[0]
	arena := selection.NewArena()
	exp := selection.NewExpander(arena, testutil.Resolver(t, testutil.Scalars()), unit, op.Name)
	root, ok := exp.Root("data", "Query", op.Definition.SelectionSet, selection.NewKeySet(selection.OperationKey(op.Name)))
	require.True(t, ok)
	return &expanded{arena: arena, exp: exp, root: root}
}

// field walks response names from the root.
func (e *expanded) field(t *testing.T, path ...string) *selection.Field {
	t.Helper()
	id := e.fieldID(t, path...)
	return e.arena.Field(id)
}

func (e *expanded) fieldID(t *testing.T, path ...string) selection.FieldID {
	t.Helper()
	id := e.root
	for _, name := range path {
		id = findField(t, e.arena, e.arena.Field(id).Fields, name)
	}
	return id
}

func findField(t *testing.T, arena *selection.Arena, ids []selection.FieldID, responseName string) selection.FieldID {
	t.Helper()
	for _, id := range ids {
		if arena.Field(id).ResponseName == responseName {
			return id
		}
	}
	t.Fatalf("no field %q", responseName)
	return 0
}

func responseNames(arena *selection.Arena, ids []selection.FieldID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, arena.Field(id).ResponseName)
	}
	return out
}

func (e *expanded) partition(t *testing.T, catchAll string, path ...string) *selection.Partition {
	t.Helper()
	id := e.fieldID(t, path...)
	f := e.arena.Field(id)
	p, err := e.arena.Partition(id, catchAll, diag.Site{Document: "test", Path: f.Keys.Primary().Path})
	require.NoError(t, err)
	return p
}

// implementations returns implementation name -> possible types.
func implementations(arena *selection.Arena, p *selection.Partition) map[string][]string {
	out := make(map[string][]string)
	for _, id := range p.All() {
		fr := arena.Fragment(id)
		out[fr.Name] = fr.PossibleTypes
	}
	return out
}
