package document_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diag "github.com/hanpama/gqlmodel/internal/diag"
	document "github.com/hanpama/gqlmodel/internal/document"
)

func src(name, content string) document.InMemorySource {
	return document.InMemorySource{Name: name, Content: content}
}

func operationNames(u *document.Unit) []string {
	var out []string
	for _, op := range u.Operations {
		out = append(out, op.Name)
	}
	return out
}

func fragmentNames(u *document.Unit) []string {
	var out []string
	for _, f := range u.Fragments {
		out = append(out, f.Name)
	}
	return out
}

func kinds(err error) []diag.Kind {
	var out []diag.Kind
	for _, e := range diag.Errors(err) {
		out = append(out, e.Kind)
	}
	return out
}

func TestParse(t *testing.T) {
	unit, err := document.Parse(
		src("a.graphql", `
query A { hero { ...Outer } }
fragment Outer on Character { name ...Inner }
fragment Inner on Character { id }
`),
		src("b.graphql", `mutation B { createReview(review: {stars: 5}) { stars } }`),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, operationNames(unit))
	assert.Equal(t, []string{"Outer", "Inner"}, fragmentNames(unit))

	a := unit.Operations[0]
	assert.Equal(t, "query", string(a.Type))
	assert.Equal(t, "a.graphql", a.File)
	assert.Equal(t, []string{"Outer", "Inner"}, a.Fragments)
	assert.Equal(t, []string{"Inner"}, unit.NamedFragment("Outer").Fragments)

	def, ok := unit.Fragment("Inner")
	require.True(t, ok)
	assert.Equal(t, "Character", def.TypeCondition)
	_, ok = unit.Fragment("Missing")
	assert.False(t, ok)
}

func TestSourceAndID(t *testing.T) {
	unit, err := document.Parse(src("a.graphql", `
fragment Unused on Character { id }
query A { hero { ...Name } }
fragment Name on Character { name }
`))
	require.NoError(t, err)

	op := unit.Operations[0]
	assert.Contains(t, op.Source, "query A")
	assert.Contains(t, op.Source, "fragment Name on Character")
	assert.NotContains(t, op.Source, "Unused")
	assert.Len(t, op.ID, 64)

	again, err := document.Parse(src("other.graphql", "query A{hero{...Name}} fragment Name on Character{name}"))
	require.NoError(t, err)
	assert.Equal(t, op.Source, again.Operations[0].Source, "canonical source ignores layout")
	assert.Equal(t, op.ID, again.Operations[0].ID)
}

func TestAnonymousOperation(t *testing.T) {
	unit, err := document.Parse(src("dir/hero_names.graphql", `{ hero { name } }`))
	require.NoError(t, err)
	assert.Equal(t, []string{"HeroNames"}, operationNames(unit))

	_, err = document.Parse(src("two.graphql", `{ hero { name } } query Named { hero { id } }`))
	require.Error(t, err)
	assert.Equal(t, []diag.Kind{diag.KindSyntax}, kinds(err))
}

func TestDuplicates(t *testing.T) {
	unit, err := document.Parse(
		src("a.graphql", `query A { hero { id } } fragment F on Character { id }`),
		src("b.graphql", `query A { hero { name } } fragment F on Character { name }`),
	)
	require.Error(t, err)
	assert.Equal(t, []diag.Kind{diag.KindDuplicateDocument, diag.KindDuplicateDocument}, kinds(err))

	// First definition wins.
	require.Len(t, unit.Operations, 1)
	assert.Equal(t, "a.graphql", unit.Operations[0].File)
	assert.Equal(t, "a.graphql", unit.NamedFragment("F").File)
}

func TestFragmentCycle(t *testing.T) {
	unit, err := document.Parse(src("cycle.graphql", `
query Uses { hero { ...A } }
query Clean { hero { ...C } }
fragment A on Character { ...B }
fragment B on Character { ...A }
fragment C on Character { name }
fragment D on Character { ...A }
`))
	require.Error(t, err)

	errs := diag.Errors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, diag.KindFragmentCycle, errs[0].Kind)
	assert.Contains(t, errs[0].Message, "[A B A]")

	assert.Equal(t, []string{"Clean"}, operationNames(unit))
	assert.Equal(t, []string{"C"}, fragmentNames(unit))
}

func TestSyntaxErrorKeepsOtherFiles(t *testing.T) {
	unit, err := document.Parse(
		src("broken.graphql", `query { hero { `),
		src("ok.graphql", `query Ok { hero { id } }`),
	)
	require.Error(t, err)

	errs := diag.Errors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, diag.KindSyntax, errs[0].Kind)
	assert.Equal(t, "broken.graphql", errs[0].Location.File)
	assert.Positive(t, errs[0].Location.Line)
	assert.Equal(t, []string{"Ok"}, operationNames(unit))
}

func TestDanglingSpreadIsLoaded(t *testing.T) {
	unit, err := document.Parse(src("a.graphql", `query A { hero { ...Missing } }`))
	require.NoError(t, err)
	require.Len(t, unit.Operations, 1)
	assert.Empty(t, unit.Operations[0].Fragments)
}

func TestSpreads(t *testing.T) {
	unit, err := document.Parse(src("a.graphql", `
query A {
  hero { ...X ... on Droid { ...Y ...X } }
  search(text: "") { ...Z }
}
fragment X on Character { id }
fragment Y on Droid { id }
fragment Z on Human { id }
`))
	require.NoError(t, err)
	got := document.Spreads(unit.Operations[0].Definition.SelectionSet)
	if diff := cmp.Diff([]string{"X", "Y", "Z"}, got); diff != "" {
		t.Errorf("spreads mismatch (-want +got):\n%s", diff)
	}
}

func TestFileSystemDiscovery(t *testing.T) {
	ctx := context.Background()
	disc, err := document.NewFileSystemDiscovery(ctx, "testdata")
	require.NoError(t, err)

	metas, err := disc.ListMetadata(ctx)
	require.NoError(t, err)
	var names []string
	for _, m := range metas {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"hero.graphql", "nested/droids.graphql"}, names)

	unit, err := document.Load(ctx, disc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hero", "Droids"}, operationNames(unit))
	assert.Equal(t, []string{"CharacterName"}, fragmentNames(unit))

	_, err = disc.ReadSource(ctx, "missing.graphql")
	assert.Error(t, err)
}

func TestFileSystemDiscoveryErrors(t *testing.T) {
	_, err := document.NewFileSystemDiscovery(context.Background())
	assert.Error(t, err)

	_, err = document.NewFileSystemDiscovery(context.Background(), "testdata/does-not-exist")
	assert.Error(t, err)
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := document.Load(ctx, document.NewInMemoryDiscovery(src("a.graphql", `query A { hero { id } }`)))
	assert.ErrorIs(t, err, context.Canceled)
}
