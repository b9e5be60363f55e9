package config

import (
	"github.com/leafbio/consist/pkg/cardinality"
	"github.com/leafbio/consist/pkg/value"
)

// defaults feeds the confmap provider, the lowest-priority config layer.
func defaults() map[string]any {
	return map[string]any{
		"output_dir": ".",
		"format":     "json",
		"record_tag": "drug",
		"heal":       false,
		"verbose":    false,
	}
}

// DefaultRules is the built-in cardinality rule table for the DrugBank
// vocabulary. Each entry names a field that is sometimes-scalar-
// sometimes-list (or sometimes absent) in the source and the shape it must
// take in every record. Order matters: rules apply top to bottom.
func DefaultRules() []cardinality.Rule {
	listPaths := []string{
		"drugbank_id",
		"targets.polypeptide",
		"pathways.enzymes.uniprot_id",
		"experimental_properties.property",
		"snp_effects.effect",
		"calculated_properties.property",
		"snp_adverse_drug_reactions.reaction",
		"classification.alternative_parent",
		"classification.substituent",
		"pdb_entries.pdb_entry",
		"enzymes.polypeptide",
		"carriers.polypeptide",
		"transporters.polypeptide",
	}
	scalarPaths := []string{
		"products.ndc_id",
	}
	tailListPaths := []string{
		"ahfs_codes",
		"pdb_entries",
		"snp_effects",
		"snp_adverse_drug_reactions",
	}

	var rules []cardinality.Rule
	for _, p := range listPaths {
		rules = append(rules, cardinality.ListRule(mustPath(p)))
	}
	for _, p := range scalarPaths {
		rules = append(rules, cardinality.ScalarRule(mustPath(p)))
	}
	for _, p := range tailListPaths {
		rules = append(rules, cardinality.ListRule(mustPath(p)))
	}
	return rules
}

func mustPath(s string) value.FieldPath {
	p, err := value.ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}
