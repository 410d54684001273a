package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	config "github.com/hanpama/gqlmodel/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries state shared by the subcommands.
type cli struct {
	v          *viper.Viper
	configFile string
}

func newRootCommand() *cobra.Command {
	c := &cli{v: config.New()}

	root := &cobra.Command{
		Use:   "gqlmodel",
		Short: "Compile GraphQL operations into typed data models",
		Long: `gqlmodel resolves GraphQL operations and fragments against a schema and
produces a type-complete model tree, optionally exported as protobuf
descriptors.

Settings are read from gqlmodel.yaml (or --config), GQLMODEL_* environment
variables and flags.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default: ./gqlmodel.yaml if present)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.Bool("dev", false, "human readable development logging")
	_ = c.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = c.v.BindPFlag("log.development", pf.Lookup("dev"))

	root.AddCommand(
		c.compileCommand(),
		printSchemaCommand(),
		introspectCommand(),
		versionCommand(),
	)
	return root
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gqlmodel version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write([]byte("gqlmodel " + version + "\n"))
			return err
		},
	}
}
