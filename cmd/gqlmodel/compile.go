package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	compiler "github.com/hanpama/gqlmodel/internal/compiler"
	config "github.com/hanpama/gqlmodel/internal/config"
	diag "github.com/hanpama/gqlmodel/internal/diag"
	document "github.com/hanpama/gqlmodel/internal/document"
	eventbus "github.com/hanpama/gqlmodel/internal/eventbus"
	model "github.com/hanpama/gqlmodel/internal/model"
	modelproto "github.com/hanpama/gqlmodel/internal/modelproto"
	otel "github.com/hanpama/gqlmodel/internal/otel"
)

func (c *cli) compileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile every operation and fragment into a model tree",
		Example: `  gqlmodel compile --schema schema.graphql --documents src/graphql
  gqlmodel compile --config gqlmodel.yaml --proto-out gen/proto`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.v, c.configFile)
			if err != nil {
				return err
			}
			return runCompile(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.String("schema", "", "schema SDL file, or introspection JSON (*.json)")
	f.StringSlice("documents", nil, "directories searched for *.graphql documents")
	f.StringP("output", "o", "", "write the model tree JSON to this file (default: stdout)")
	f.String("proto-out", "", "also write .proto descriptors below this directory")
	f.String("proto-package", "", "protobuf package of the descriptors")
	f.Int("workers", 0, "documents compiled in parallel (default: GOMAXPROCS)")
	f.String("otel-endpoint", "", "OTLP gRPC endpoint for compile traces")
	for key, flag := range map[string]string{
		"schema":        "schema",
		"documents":     "documents",
		"output":        "output",
		"proto.out":     "proto-out",
		"proto.package": "proto-package",
		"workers":       "workers",
		"otel.endpoint": "otel-endpoint",
	} {
		_ = c.v.BindPFlag(key, f.Lookup(flag))
	}
	return cmd
}

func runCompile(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)
	shutdown, err := otel.Setup(cfg.Otel.Endpoint, cfg.Otel.Service)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(ctx) }()

	sch, err := loadSchema(cfg.Schema)
	if err != nil {
		return err
	}
	disc, err := document.NewFileSystemDiscovery(ctx, cfg.Documents...)
	if err != nil {
		return err
	}
	unit, loadErr := document.Load(ctx, disc)
	if unit == nil {
		return fmt.Errorf("load documents: %w", loadErr)
	}

	comp, err := compiler.New(sch,
		compiler.WithLogger(logger),
		compiler.WithScalars(cfg.ScalarMap()),
		compiler.WithWorkers(cfg.Workers),
		compiler.WithCacheSize(cfg.CacheSize),
	)
	if err != nil {
		return err
	}
	tree, compileErr := comp.Compile(ctx, unit)
	if tree == nil {
		return compileErr
	}

	if err := writeTree(cmd.OutOrStdout(), cfg.Output, tree); err != nil {
		return err
	}
	if cfg.Proto.Out != "" {
		reg, err := modelproto.Build(tree, cfg.Proto.Package)
		if err != nil {
			return fmt.Errorf("modelproto build: %w", err)
		}
		if err := modelproto.Render(reg, cfg.Proto.Out); err != nil {
			return fmt.Errorf("render proto: %w", err)
		}
		logger.Info("wrote proto descriptors", zap.String("dir", cfg.Proto.Out), zap.Int("files", len(reg.Files())))
	}

	for _, w := range tree.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w.String())
	}
	errs := diag.Errors(diag.Combine(loadErr, compileErr))
	for _, e := range errs {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", e.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d compile errors", len(errs))
	}
	return nil
}

func writeTree(stdout io.Writer, output string, tree *model.Tree) error {
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model tree: %w", err)
	}
	data = append(data, '\n')
	if output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	return os.WriteFile(output, data, 0o644)
}
