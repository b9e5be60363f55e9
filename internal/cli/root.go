// Package cli provides the command-line interface for consist.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leafbio/consist/internal/cli/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

var cfgFile string

// configKey stores the loaded config in the command context.
type configKey struct{}

// loggerKey stores the structured logger in the command context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "consist",
		Short: "consist - XML vocabulary to consistent-record converter",
		Long: `consist converts a DrugBank-style XML export into a type-consistent
record set suitable for bulk import into a tabular store.

It normalizes the source's ambiguous child cardinality (plural unification
and explicit cardinality rules), applies field fixups, analyzes the whole
record set for type consistency, and emits JSON, line-delimited JSON, or a
delimited-text table.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to config file (default consist.yaml)")
	flags.Bool("verbose", false, "Enable debug logging")
	flags.StringP("input", "i", "", "Path to the input file")
	flags.StringP("output-dir", "o", ".", "Directory for output artifacts")
	flags.StringP("format", "f", "json", "Output format: json, jsonl, or tsv")
	flags.Bool("heal", false, "Heal nullable-consistent paths after analysis")
	flags.String("type-report", "", "Write the type-consistency report to this path")
	flags.String("rules", "", "Path to a YAML cardinality rule table (replaces the built-in rules)")
	flags.String("record-tag", "drug", "Element name of one record under the root")

	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newCheckTypesCmd())
	rootCmd.AddCommand(newLoadCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// configFromContext returns the config stored by PersistentPreRunE.
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{}
}

// loggerFromContext returns the logger stored by PersistentPreRunE.
func loggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
