package typeres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	diag "github.com/hanpama/gqlmodel/internal/diag"
	schema "github.com/hanpama/gqlmodel/internal/schema"
	"github.com/hanpama/gqlmodel/internal/testutil"
	typeres "github.com/hanpama/gqlmodel/internal/typeres"
)

var site = diag.Site{Document: "Test", Path: []string{"hero"}}

func TestResolveNamed(t *testing.T) {
	r := testutil.Resolver(t, testutil.Scalars())

	tests := []struct {
		name string
		kind typeres.Kind
	}{
		{"String", typeres.KindPrimitive},
		{"ID", typeres.KindPrimitive},
		{"URL", typeres.KindCustom},
		{"Episode", typeres.KindEnum},
		{"Human", typeres.KindObject},
		{"Character", typeres.KindInterface},
		{"SearchResult", typeres.KindUnion},
		{"ReviewInput", typeres.KindInputObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := r.ResolveNamed(tt.name, site)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, ref.Kind)
			assert.Equal(t, tt.name, ref.Name)
			assert.True(t, ref.Nullable)
		})
	}
}

func TestResolveCustomScalar(t *testing.T) {
	r := testutil.Resolver(t, testutil.Scalars())

	ref, err := r.ResolveNamed("URL", site)
	require.NoError(t, err)
	assert.Equal(t, "java.net.URI", ref.Mapped)
	assert.Equal(t, "UriAdapter", ref.Adapter)
}

func TestResolveUnmappedScalar(t *testing.T) {
	r := testutil.Resolver(t, testutil.Scalars())

	_, err := r.ResolveNamed("Date", site)
	require.Error(t, err)
	var derr *diag.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, diag.KindUnresolvedScalar, derr.Kind)
	assert.Equal(t, "Date", derr.Name)
	assert.Equal(t, "Test", derr.Document)
	assert.Equal(t, []string{"hero"}, derr.Path)
}

func TestResolveUnknownType(t *testing.T) {
	r := testutil.Resolver(t, nil)

	_, err := r.ResolveNamed("Nope", site)
	var derr *diag.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, diag.KindUnknownType, derr.Kind)
}

func TestBuiltinScalarRemap(t *testing.T) {
	r := testutil.Resolver(t, typeres.ScalarMap{
		"ID": {Type: "java.util.UUID"},
	})

	ref, err := r.ResolveNamed("ID", site)
	require.NoError(t, err)
	assert.Equal(t, typeres.KindCustom, ref.Kind)
	assert.Equal(t, "java.util.UUID", ref.Mapped)
}

func TestScalarMapIsCopied(t *testing.T) {
	scalars := typeres.ScalarMap{"Date": {Type: "LocalDate"}}
	r := testutil.Resolver(t, scalars)
	delete(scalars, "Date")

	b, ok := r.Scalar("Date")
	require.True(t, ok)
	assert.Equal(t, "LocalDate", b.Type)
}

func TestResolveWrapped(t *testing.T) {
	r := testutil.Resolver(t, nil)

	ref, err := r.Resolve(schema.NonNullType(schema.ListType(schema.NamedType("Character"))), site)
	require.NoError(t, err)
	assert.Equal(t, "[Character]!", ref.String())
	assert.Equal(t, typeres.KindList, ref.Kind)
	assert.False(t, ref.Nullable)
	assert.True(t, ref.Of.Nullable)
	assert.True(t, ref.IsComposite())
	assert.True(t, ref.IsAbstract())
	assert.Equal(t, "Character", ref.Named().Name)

	fromAST, err := r.ResolveAST(ast.NonNullListType(ast.NamedType("Character", nil), nil), site)
	require.NoError(t, err)
	assert.Equal(t, ref, fromAST)
}

func TestNullability(t *testing.T) {
	r := testutil.Resolver(t, nil)

	ref, err := r.ResolveNamed("Int", site)
	require.NoError(t, err)
	nonNull := ref.MakeNonNull()
	assert.Equal(t, "Int!", nonNull.String())
	assert.Equal(t, "Int", ref.String(), "original is not modified")
	assert.Same(t, nonNull, nonNull.MakeNonNull())
	assert.Equal(t, ref, nonNull.MakeNullable())

	assert.Equal(t, "String!", typeres.Typename.String())
}

func TestInputFields(t *testing.T) {
	r := testutil.Resolver(t, nil)

	fields, err := r.InputFields("ReviewInput", site)
	require.NoError(t, err)
	require.Len(t, fields, 4)
	assert.Equal(t, "stars", fields[0].Name)
	assert.Equal(t, "Int!", fields[0].Type.String())
	assert.Equal(t, "ColorInput", fields[2].Type.String())
	assert.Equal(t, typeres.KindInputObject, fields[2].Type.Kind)
	assert.Equal(t, "[NEWHOPE]", fields[3].DefaultValue)

	_, err = r.InputFields("Human", site)
	var derr *diag.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, diag.KindUnknownType, derr.Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "InputObject", typeres.KindInputObject.String())
	assert.Equal(t, "Unknown", typeres.Kind(99).String())
}
