package config

import (
	"github.com/leafbio/consist/pkg/cardinality"
)

// Config is the resolved tool configuration after merging defaults, the
// config file, environment variables, and CLI flags.
type Config struct {
	// Input is the path to the source XML export.
	Input string `koanf:"input"`
	// OutputDir is where output artifacts are written.
	OutputDir string `koanf:"output_dir"`
	// Format selects the output encoding: json, jsonl, or tsv.
	Format string `koanf:"format"`
	// RecordTag is the element name of one record under the document root.
	RecordTag string `koanf:"record_tag"`
	// Heal enables conservative null-healing after type analysis.
	Heal bool `koanf:"heal"`
	// TypeReport is an optional path for the textual type-consistency
	// report; empty disables it.
	TypeReport string `koanf:"type_report"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
	// RulesFile is an optional path to a standalone YAML rule table; when
	// set, its rules replace both the config file's and the built-in ones.
	RulesFile string `koanf:"rules_file"`
	// Rules is the cardinality rule table. When the config file supplies
	// none, the built-in DrugBank table applies.
	Rules []cardinality.Rule `koanf:"rules"`
}
