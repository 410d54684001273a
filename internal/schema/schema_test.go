package schema_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schema "github.com/hanpama/gqlmodel/internal/schema"
	"github.com/hanpama/gqlmodel/internal/testutil"
)

func TestSchemaSnapshot(t *testing.T) {
	s := testutil.StarWars(t)
	testutil.MatchJSONSnapshot(t, filepath.Join("testdata", "schema_snapshot.json"), s)
}

func TestSchemaRenderSnapshot(t *testing.T) {
	s := testutil.StarWars(t)
	testutil.MatchSnapshot(t, filepath.Join("testdata", "schema_rendered.graphql"), schema.Render(s))
}

func TestRenderIsStable(t *testing.T) {
	s := testutil.StarWars(t)
	rendered := schema.Render(s)

	reloaded, err := schema.BuildFromSDL("rendered.graphql", rendered)
	require.NoError(t, err, "rendered SDL must load again")
	assert.Equal(t, rendered, schema.Render(reloaded))
}

func TestRootTypes(t *testing.T) {
	s := testutil.StarWars(t)

	require.NotNil(t, s.RootType("query"))
	assert.Equal(t, "Query", s.RootType("query").Name)
	require.NotNil(t, s.RootType("mutation"))
	assert.Equal(t, "Mutation", s.RootType("mutation").Name)
	assert.Nil(t, s.RootType("subscription"))
	assert.Nil(t, s.RootType("bogus"))
}

func TestPossibleTypes(t *testing.T) {
	s := testutil.StarWars(t)

	tests := []struct {
		name string
		want []string
	}{
		{"Human", []string{"Human"}},
		{"SearchResult", []string{"Human", "Droid", "Starship"}},
		{"Character", []string{"Droid", "Human"}},
		{"Being", []string{"Human", "Wookie"}},
		{"Episode", nil},
		{"Missing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.PossibleTypes(tt.name))
		})
	}
}

func TestBuiltins(t *testing.T) {
	s := testutil.StarWars(t)

	for _, name := range []string{"String", "Int", "Float", "Boolean", "ID"} {
		typ := s.Lookup(name)
		require.NotNil(t, typ, name)
		assert.Equal(t, schema.TypeKindScalar, typ.Kind)
		assert.True(t, schema.IsBuiltinScalar(name))
	}
	assert.False(t, schema.IsBuiltinScalar("Date"))
	assert.Contains(t, s.Directives, "skip")
	assert.Contains(t, s.Directives, "include")
	assert.NotContains(t, s.Types, "__Schema")
}

func TestDeprecationAndDefaults(t *testing.T) {
	s := testutil.StarWars(t)

	unit := s.Lookup("LengthUnit")
	require.NotNil(t, unit)
	require.Len(t, unit.EnumValues, 2)
	assert.False(t, unit.EnumValues[0].IsDeprecated)
	assert.True(t, unit.EnumValues[1].IsDeprecated)
	assert.Equal(t, "Use METER.", unit.EnumValues[1].DeprecationReason)

	height := s.Lookup("Human").Field("height")
	require.NotNil(t, height)
	require.Len(t, height.Arguments, 1)
	assert.Equal(t, schema.Literal("METER"), height.Arguments[0].DefaultValue)

	review := s.Lookup("ReviewInput")
	require.NotNil(t, review)
	require.Len(t, review.InputFields, 4)
	assert.Equal(t, "[Episode!]", review.InputFields[3].Type.String())
	assert.Equal(t, schema.Literal("[NEWHOPE]"), review.InputFields[3].DefaultValue)
}

func TestTypeRef(t *testing.T) {
	ref := schema.NonNullType(schema.ListType(schema.NonNullType(schema.NamedType("Episode"))))

	assert.True(t, ref.IsNonNull())
	assert.True(t, ref.IsList())
	assert.Equal(t, "Episode", ref.GetNamedType())
	assert.Equal(t, "[Episode!]!", ref.String())
	assert.Equal(t, "[Episode!]", ref.Unwrap().String())
}

func TestBuildFromSDLExtensions(t *testing.T) {
	s, err := schema.BuildFromSDL("extended.graphql", `
type Query { a: String }
extend type Query { b: Int }
`)
	require.NoError(t, err)

	query := s.GetQueryType()
	require.NotNil(t, query)
	require.Len(t, query.Fields, 2)
	assert.Equal(t, "a", query.Fields[0].Name)
	assert.Equal(t, "b", query.Fields[1].Name)
}

func TestBuildFromSDLInvalid(t *testing.T) {
	_, err := schema.BuildFromSDL("broken.graphql", `type Query { a: Missing }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.graphql")
}
