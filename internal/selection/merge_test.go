package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	selection "github.com/hanpama/gqlmodel/internal/selection"
	testutil "github.com/hanpama/gqlmodel/internal/testutil"
)

// twoSelections expands both operations of query into one arena and returns
// their root field lists.
func twoSelections(t *testing.T, query string) (*selection.Arena, []selection.FieldID, []selection.FieldID) {
	t.Helper()
	unit := testutil.Unit(t, testutil.Source("merge.graphql", query))
	require.Len(t, unit.Operations, 2)
	arena := selection.NewArena()
	resolver := testutil.Resolver(t, testutil.Scalars())
	var roots [][]selection.FieldID
	for _, op := range unit.Operations {
		exp := selection.NewExpander(arena, resolver, unit, op.Name)
		id, ok := exp.Root("data", "Query", op.Definition.SelectionSet, selection.NewKeySet(selection.OperationKey(op.Name)))
		require.True(t, ok)
		require.Empty(t, exp.Errors())
		roots = append(roots, arena.Field(id).Fields)
	}
	return arena, roots[0], roots[1]
}

const mergeQueries = `
query A($withFriends: Boolean!) {
  hero {
    name
    friends @include(if: $withFriends) { name }
    ... on Droid { primaryFunction }
  }
  random { ... on Human { height } }
}

query B {
  hero {
    id
    friends { id appearsIn }
    ... on Droid { id }
    ... on Human { homePlanet }
  }
  human(id: "1000") { name }
}
`

func TestMergeIdempotence(t *testing.T) {
	arena, a, b := twoSelections(t, mergeQueries)

	merged := arena.Merge(a, b)
	before, _ := arena.Len()
	again := arena.Merge(merged, merged)
	after, _ := arena.Len()

	assert.Equal(t, merged, again, "re-merging must return the same ids")
	assert.Equal(t, before, after, "re-merging must not allocate nodes")

	assert.Equal(t, a, arena.Merge(a, nil))
	assert.Equal(t, a, arena.Merge(a, a))
}

func TestMergeCommutativity(t *testing.T) {
	arena, a, b := twoSelections(t, mergeQueries)

	ab := arena.Merge(a, b)
	ba := arena.Merge(b, a)

	assert.ElementsMatch(t, responseNames(arena, ab), responseNames(arena, ba))
	assert.True(t, arena.Equivalent(ab, ba))
	assert.False(t, arena.Equivalent(a, ab))
}

func TestMergeUnionsSubSelections(t *testing.T) {
	arena, a, b := twoSelections(t, mergeQueries)
	merged := arena.Merge(a, b)

	assert.Equal(t, []string{"hero", "random", "human"}, responseNames(arena, merged))

	hero := arena.Field(findField(t, arena, merged, "hero"))
	assert.Equal(t, []string{"__typename", "name", "friends", "id"}, responseNames(arena, hero.Fields))
	assert.Equal(t, []string{"operation:A/hero", "operation:B/hero"}, hero.Keys.Strings())

	friends := arena.Field(findField(t, arena, hero.Fields, "friends"))
	assert.Equal(t, []string{"__typename", "name", "id", "appearsIn"}, responseNames(arena, friends.Fields))
	assert.Empty(t, friends.Conditions, "an unconditional occurrence wins")

	require.Len(t, hero.Fragments, 2)
	droid := arena.Fragment(hero.Fragments[0])
	assert.Equal(t, "Droid", droid.Name)
	assert.Equal(t, []string{"primaryFunction", "id"}, responseNames(arena, droid.Fields))
	assert.Equal(t, "Human", arena.Fragment(hero.Fragments[1]).Name)
}
