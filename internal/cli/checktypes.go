package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leafbio/consist/pkg/serialize"
	"github.com/leafbio/consist/pkg/typecheck"
	"github.com/leafbio/consist/pkg/value"
)

// newCheckTypesCmd builds the checktypes command: analyze an existing JSON
// array document and, when an output path is given, heal the recognized
// conflict shapes and write the repaired document.
func newCheckTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checktypes",
		Short: "Check field-type consistency of a JSON record document",
		RunE:  runCheckTypes,
	}

	cmd.Flags().String("output", "", "Write the healed document to this path")

	return cmd
}

func runCheckTypes(cmd *cobra.Command, _ []string) error {
	cfg := configFromContext(cmd.Context())
	logger := loggerFromContext(cmd.Context())
	output, _ := cmd.Flags().GetString("output")

	input := cfg.Input
	if input == "" {
		return fmt.Errorf("no input file given (use --input)")
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	doc, err := value.DecodeJSON(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", input, err)
	}
	records, ok := doc.(value.List)
	if !ok {
		return fmt.Errorf("%s: document is not a record list", input)
	}

	obs := typecheck.Collect(records)
	report := obs.Classify()
	report.Render(cmd.OutOrStdout())

	if output == "" {
		return nil
	}

	healed := typecheck.Heal(records, obs)
	logger.Info("healed records", "replacements", healed)

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()
	if err := serialize.WriteJSON(out, records); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return out.Close()
}
