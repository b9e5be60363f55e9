// Package engine orchestrates the normalization pipeline: plural
// unification, cardinality correction, field fixups, then type-consistency
// analysis and optional healing. Stages run strictly in that order because
// each stage's correctness assumption depends on invariants the prior
// stage established.
package engine

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leafbio/consist/pkg/cardinality"
	"github.com/leafbio/consist/pkg/fixup"
	"github.com/leafbio/consist/pkg/typecheck"
	"github.com/leafbio/consist/pkg/unify"
	"github.com/leafbio/consist/pkg/value"
)

// Config holds pipeline configuration.
type Config struct {
	// Rules is the ordered cardinality rule table. Cardinality expectations
	// are domain knowledge; they are supplied, never inferred.
	Rules []cardinality.Rule
	// Fixups is the field post-processing catalogue.
	Fixups []fixup.Fixup
	// Heal enables conservative null-healing after analysis.
	Heal bool
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Pipeline runs the full normalization over one in-memory record set.
// The whole set must be resident at once: healing decisions are made from
// a complete, dataset-wide view, which a streaming design cannot provide.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// Result is the outcome of one pipeline run.
type Result struct {
	// ID uniquely identifies this run in logs and reports.
	ID string
	// Records is the normalized record set.
	Records []value.Value
	// Report classifies every observed field path.
	Report *typecheck.Report
	// Healed is the number of null replacements made (0 unless healing
	// was enabled).
	Healed int
}

// New creates a pipeline from cfg.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Run normalizes records in the fixed stage order and returns the result.
// Pipeline state never outlives the call; repeated runs are independent.
func (p *Pipeline) Run(ctx context.Context, records []value.Value) (*Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	logger.Info("pipeline starting", "records", len(records), "rules", len(p.cfg.Rules), "heal", p.cfg.Heal)

	records = unify.Records(records)
	logger.Debug("plural unification complete")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cardinality.Records(records, p.cfg.Rules)
	logger.Debug("cardinality correction complete")

	fixup.Records(records, p.cfg.Fixups)
	logger.Debug("field fixups complete")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obs := typecheck.Collect(records)
	report := obs.Classify()
	logger.Info("type analysis complete",
		"consistent_paths", len(report.Consistent),
		"inconsistent_paths", len(report.Inconsistent))

	healed := 0
	if p.cfg.Heal {
		healed = typecheck.Heal(records, obs)
		logger.Info("healing complete", "replacements", healed)
	}

	return &Result{ID: runID, Records: records, Report: report, Healed: healed}, nil
}

// Check runs analysis only, without mutating records.
func (p *Pipeline) Check(records []value.Value) *typecheck.Report {
	return typecheck.Collect(records).Classify()
}

// CheckAndHeal analyzes records and then heals the recognized conflict
// shapes, returning the report and the replacement count.
func (p *Pipeline) CheckAndHeal(records []value.Value) (*typecheck.Report, int) {
	obs := typecheck.Collect(records)
	report := obs.Classify()
	healed := typecheck.Heal(records, obs)
	return report, healed
}
