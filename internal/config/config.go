// Package config loads gqlmodel settings from a YAML file, GQLMODEL_*
// environment variables and command line flags, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	typeres "github.com/hanpama/gqlmodel/internal/typeres"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// GQLMODEL_PROTO_PACKAGE for proto.package.
const EnvPrefix = "GQLMODEL"

type Config struct {
	// Schema is an SDL file, or an introspection result when it ends in
	// .json.
	Schema string `mapstructure:"schema"`
	// Documents are directories searched for *.graphql files.
	Documents []string `mapstructure:"documents"`
	// Output is where the model tree is written as JSON. Empty means
	// standard output.
	Output    string   `mapstructure:"output"`
	Proto     Proto    `mapstructure:"proto"`
	Scalars   []Scalar `mapstructure:"scalars"`
	Workers   int      `mapstructure:"workers"`
	CacheSize int      `mapstructure:"cache_size"`
	Otel      Otel     `mapstructure:"otel"`
	Log       Log      `mapstructure:"log"`
}

// Proto configures descriptor export. Export is off when Out is empty.
type Proto struct {
	Out     string `mapstructure:"out"`
	Package string `mapstructure:"package"`
}

// Scalar maps one custom scalar. Scalars are a list rather than a map
// because map keys lose their case.
type Scalar struct {
	Name    string `mapstructure:"name"`
	Type    string `mapstructure:"type"`
	Adapter string `mapstructure:"adapter"`
}

type Otel struct {
	Endpoint string `mapstructure:"endpoint"`
	Service  string `mapstructure:"service"`
}

type Log struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// New returns a viper instance with defaults and environment binding set
// up. Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()
	// Every key needs a default so that Unmarshal sees its environment
	// variable.
	v.SetDefault("schema", "")
	v.SetDefault("documents", []string{"."})
	v.SetDefault("output", "")
	v.SetDefault("proto.out", "")
	v.SetDefault("proto.package", "gqlmodel")
	v.SetDefault("workers", 0)
	v.SetDefault("cache_size", 512)
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.service", "gqlmodel")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file, or gqlmodel.yaml in the working directory when file is
// empty, and unmarshals the merged settings. A missing gqlmodel.yaml is not
// an error; a missing explicit file is.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("gqlmodel")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks c for settings that cannot work.
func (c *Config) Validate() error {
	var errs []string
	if c.Schema == "" {
		errs = append(errs, "schema is required")
	}
	if len(c.Documents) == 0 {
		errs = append(errs, "at least one documents directory is required")
	}
	if c.Workers < 0 {
		errs = append(errs, "workers must not be negative")
	}
	if c.CacheSize < 0 {
		errs = append(errs, "cache_size must not be negative")
	}
	if c.Proto.Out != "" && c.Proto.Package == "" {
		errs = append(errs, "proto.package is required when proto.out is set")
	}
	seen := make(map[string]bool, len(c.Scalars))
	for i, s := range c.Scalars {
		switch {
		case s.Name == "":
			errs = append(errs, fmt.Sprintf("scalars[%d]: name is required", i))
		case s.Type == "":
			errs = append(errs, fmt.Sprintf("scalars[%d]: type is required for %s", i, s.Name))
		case seen[s.Name]:
			errs = append(errs, fmt.Sprintf("scalars[%d]: %s is mapped more than once", i, s.Name))
		}
		seen[s.Name] = true
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level: %v", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ScalarMap converts the scalar list for the type resolver.
func (c *Config) ScalarMap() typeres.ScalarMap {
	m := make(typeres.ScalarMap, len(c.Scalars))
	for _, s := range c.Scalars {
		m[s.Name] = typeres.ScalarBinding{Type: s.Type, Adapter: s.Adapter}
	}
	return m
}

// Logger builds the logger described by c.Log.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
