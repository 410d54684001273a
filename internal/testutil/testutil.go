// Package testutil holds fixtures shared by package tests.
package testutil

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	document "github.com/hanpama/gqlmodel/internal/document"
	schema "github.com/hanpama/gqlmodel/internal/schema"
	typeres "github.com/hanpama/gqlmodel/internal/typeres"
)

//go:embed starwars.graphql
var StarWarsSDL string

// StarWars builds the Star Wars fixture schema.
func StarWars(t testing.TB) *schema.Schema {
	t.Helper()
	s, err := schema.BuildFromSDL("starwars.graphql", StarWarsSDL)
	require.NoError(t, err, "failed to build fixture schema")
	return s
}

// Scalars maps the fixture's custom scalars except Date, which tests use to
// exercise unmapped scalars.
func Scalars() typeres.ScalarMap {
	return typeres.ScalarMap{
		"URL": {Type: "java.net.URI", Adapter: "UriAdapter"},
	}
}

// Resolver returns a resolver over the fixture schema.
func Resolver(t testing.TB, scalars typeres.ScalarMap) *typeres.Resolver {
	t.Helper()
	return typeres.New(StarWars(t), scalars)
}

// Unit parses sources into a compilation unit and fails on load errors.
func Unit(t testing.TB, sources ...document.InMemorySource) *document.Unit {
	t.Helper()
	unit, err := document.Parse(sources...)
	require.NoError(t, err, "failed to load documents")
	return unit
}

// Source is shorthand for a single in-memory document.
func Source(name, content string) document.InMemorySource {
	return document.InMemorySource{Name: name, Content: content}
}

func MustReadFile(t testing.TB, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)
	return string(content)
}

// MatchJSONSnapshot compares v, marshalled as indented JSON, with the
// snapshot at path. A missing snapshot is created from v.
func MatchJSONSnapshot(t testing.TB, path string, v any) {
	t.Helper()
	actual, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err, "failed to marshal snapshot value")
	MatchSnapshot(t, path, string(actual)+"\n")
}

// MatchSnapshot compares actual with the snapshot at path, creating it when
// it does not exist.
func MatchSnapshot(t testing.TB, path string, actual string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(actual), 0o644), "failed to write snapshot file")
		t.Logf("Created snapshot file: %s", path)
		return
	}
	expected, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read snapshot file")
	if diff := cmp.Diff(string(expected), actual); diff != "" {
		t.Errorf("snapshot %s mismatch (-want +got):\n%s", path, diff)
	}
}
