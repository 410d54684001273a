package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	introspection "github.com/hanpama/gqlmodel/internal/introspection"
	schema "github.com/hanpama/gqlmodel/internal/schema"
)

// loadSchema reads an introspection result (*.json) or an SDL file.
func loadSchema(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		s, err := introspection.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode introspection %s: %w", path, err)
		}
		return s, nil
	}
	s, err := schema.BuildFromSDL(path, string(data))
	if err != nil {
		return nil, fmt.Errorf("build schema %s: %w", path, err)
	}
	return s, nil
}

func printSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "print-schema <schema>",
		Short:   "Print a schema as SDL",
		Example: "  gqlmodel print-schema introspection.json > schema.graphql",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), schema.Render(s))
			return err
		},
	}
}

func introspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "introspect <schema>",
		Short:   "Print a schema as an introspection result",
		Example: "  gqlmodel introspect schema.graphql > introspection.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(args[0])
			if err != nil {
				return err
			}
			data, err := introspection.Encode(s)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}
}
