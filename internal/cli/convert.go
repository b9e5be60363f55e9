package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leafbio/consist/internal/engine"
	"github.com/leafbio/consist/pkg/fixup"
	"github.com/leafbio/consist/pkg/serialize"
	"github.com/leafbio/consist/pkg/xmltree"
)

// newConvertCmd builds the convert command: parse the XML export, run the
// normalization pipeline, and write the selected output artifact.
func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an XML export to JSON, JSONL, or TSV",
		Long: `Convert parses the XML export, normalizes every record through the
pipeline (plural unification, cardinality correction, field fixups, type
analysis, optional healing), and writes one output file named after the
root element's version and exported-on attributes.`,
		RunE: runConvert,
	}
	return cmd
}

func runConvert(cmd *cobra.Command, _ []string) error {
	cfg := configFromContext(cmd.Context())
	logger := loggerFromContext(cmd.Context())

	if cfg.Input == "" {
		return fmt.Errorf("no input file given (use --input)")
	}
	format, err := serialize.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	in, err := os.Open(cfg.Input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	logger.Info("parsing export", "input", cfg.Input, "record_tag", cfg.RecordTag)
	doc, err := xmltree.ParseDocument(in, cfg.RecordTag)
	if err != nil {
		return err
	}
	logger.Info("parsed export", "version", doc.Version, "exported_on", doc.ExportedOn, "records", len(doc.Records))

	pipeline := engine.New(engine.Config{
		Rules:  cfg.Rules,
		Fixups: fixup.Catalogue(),
		Heal:   cfg.Heal,
		Logger: logger,
	})
	result, err := pipeline.Run(cmd.Context(), doc.Records)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	if cfg.TypeReport != "" {
		if err := writeTypeReport(cfg.TypeReport, result); err != nil {
			return err
		}
		logger.Info("wrote type report", "path", cfg.TypeReport)
	}
	for _, pk := range result.Report.Inconsistent {
		logger.Warn("inconsistent field types", "path", pk.Path.String(), "kinds", pk.Kinds)
	}

	outPath := filepath.Join(cfg.OutputDir,
		fmt.Sprintf("drugbank_%s_%s%s", doc.Version, doc.ExportedOn, format.Ext()))
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	if err := serialize.Write(out, result.Records, format); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", len(result.Records), outPath)
	return nil
}

func writeTypeReport(path string, result *engine.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating type report: %w", err)
	}
	defer f.Close()
	result.Report.Render(f)
	return f.Close()
}
