package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	typeres "github.com/hanpama/gqlmodel/internal/typeres"
)

const sample = `
schema: schema.graphql
documents:
  - queries
  - fragments
proto:
  out: gen/proto
  package: acme.models
scalars:
  - name: DateTime
    type: java.time.OffsetDateTime
    adapter: DateTimeAdapter
  - name: ID
    type: Long
workers: 4
log:
  level: debug
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, "gqlmodel.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadFile(t *testing.T) {
	p := writeConfig(t, t.TempDir(), sample)

	c, err := Load(New(), p)
	require.NoError(t, err)

	assert.Equal(t, "schema.graphql", c.Schema)
	assert.Equal(t, []string{"queries", "fragments"}, c.Documents)
	assert.Equal(t, Proto{Out: "gen/proto", Package: "acme.models"}, c.Proto)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, 512, c.CacheSize, "default")
	assert.Equal(t, "gqlmodel", c.Otel.Service, "default")
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, typeres.ScalarMap{
		"DateTime": {Type: "java.time.OffsetDateTime", Adapter: "DateTimeAdapter"},
		"ID":       {Type: "Long"},
	}, c.ScalarMap())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	p := writeConfig(t, t.TempDir(), sample)
	t.Setenv("GQLMODEL_WORKERS", "2")
	t.Setenv("GQLMODEL_PROTO_PACKAGE", "other.models")
	t.Setenv("GQLMODEL_OTEL_ENDPOINT", "localhost:4317")

	c, err := Load(New(), p)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Workers)
	assert.Equal(t, "other.models", c.Proto.Package)
	assert.Equal(t, "localhost:4317", c.Otel.Endpoint)
}

func TestDefaultFileIsOptional(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GQLMODEL_SCHEMA", "schema.json")

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "schema.json", c.Schema)
	assert.Equal(t, []string{"."}, c.Documents)
}

func TestDefaultFileIsRead(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, sample)
	t.Chdir(dir)

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "schema.graphql", c.Schema)
}

func TestExplicitFileMustExist(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Schema: "s.graphql", Documents: []string{"."}, Log: Log{Level: "info"}}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing schema", func(c *Config) { c.Schema = "" }, "schema is required"},
		{"no documents", func(c *Config) { c.Documents = nil }, "documents"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"negative cache", func(c *Config) { c.CacheSize = -1 }, "cache_size"},
		{"proto without package", func(c *Config) { c.Proto = Proto{Out: "out"} }, "proto.package"},
		{"scalar without name", func(c *Config) { c.Scalars = []Scalar{{Type: "T"}} }, "scalars[0]: name"},
		{"scalar without type", func(c *Config) { c.Scalars = []Scalar{{Name: "Date"}} }, "type is required for Date"},
		{"duplicate scalar", func(c *Config) {
			c.Scalars = []Scalar{{Name: "Date", Type: "A"}, {Name: "Date", Type: "B"}}
		}, "scalars[1]: Date is mapped more than once"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			require.NoError(t, c.Validate())
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLogger(t *testing.T) {
	c := Config{Log: Log{Level: "warn", Development: true}}
	l, err := c.Logger()
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
}
