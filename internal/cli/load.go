package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leafbio/consist/internal/store"
)

// newLoadCmd builds the load command: bulk-import a converted JSON or
// JSONL file into a DuckDB table.
func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Bulk-load a converted JSON/JSONL file into DuckDB",
		RunE:  runLoad,
	}

	cmd.Flags().String("db", "", "Path to the DuckDB database (empty for in-memory)")
	cmd.Flags().String("table", "drugs", "Target table name")

	return cmd
}

func runLoad(cmd *cobra.Command, _ []string) error {
	cfg := configFromContext(cmd.Context())
	logger := loggerFromContext(cmd.Context())
	dbPath, _ := cmd.Flags().GetString("db")
	table, _ := cmd.Flags().GetString("table")

	if cfg.Input == "" {
		return fmt.Errorf("no input file given (use --input)")
	}

	loader, err := store.Open(dbPath, logger)
	if err != nil {
		return err
	}
	defer loader.Close()

	rows, err := loader.LoadJSON(cmd.Context(), table, cfg.Input)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d rows into %s\n", rows, table)
	return nil
}
