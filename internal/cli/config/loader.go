// Package config loads tool configuration by layering, lowest priority
// first: built-in defaults, a consist.yaml file, CONSIST_* environment
// variables, and CLI flags.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leafbio/consist/pkg/cardinality"
	"github.com/leafbio/consist/pkg/value"
)

const envPrefix = "CONSIST_"

// findConfigFile finds the config file to use.
// Priority: explicit path > consist.yaml > consist.yml.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"consist.yaml", "consist.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load resolves the configuration. cfgFile may be empty; flags may be nil.
// When the merged configuration carries no cardinality rules, the built-in
// DrugBank rule table is substituted.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only flags the user set override the file and environment.
			if !f.Changed {
				return "", nil
			}
			// The rules flag carries a file path, not the rule list itself.
			if f.Name == "rules" {
				return "rules_file", posflag.FlagVal(flags, f)
			}
			// Flag names use dashes; config keys use underscores.
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				decodeFieldPath,
				decodeDefaultValue,
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	}); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	if cfg.RulesFile != "" {
		rules, err := loadRulesFile(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		cfg.Rules = rules
	}
	if len(cfg.Rules) == 0 {
		cfg.Rules = DefaultRules()
	}
	return &cfg, nil
}

// loadRulesFile reads a standalone YAML rule table: the same rules list a
// consist.yaml would carry, under a top-level "rules" key.
func loadRulesFile(path string) ([]cardinality.Rule, error) {
	rk := koanf.New(".")
	if err := rk.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading rules file %s: %w", path, err)
	}
	var rules []cardinality.Rule
	if err := rk.UnmarshalWithConf("rules", &rules, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				decodeFieldPath,
				decodeDefaultValue,
			),
			Result:           &rules,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	}); err != nil {
		return nil, fmt.Errorf("decoding rules file %s: %w", path, err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}
	return rules, nil
}

var (
	fieldPathType = reflect.TypeOf(value.FieldPath(nil))
	valueType     = reflect.TypeOf((*value.Value)(nil)).Elem()
)

// decodeFieldPath turns a rule's "a.b[].c" path string into a FieldPath.
func decodeFieldPath(from, to reflect.Type, data any) (any, error) {
	if to != fieldPathType || from.Kind() != reflect.String {
		return data, nil
	}
	return value.ParsePath(data.(string))
}

// decodeDefaultValue turns a rule's YAML default into a Value. Only the
// two shapes the corrector understands are accepted: a string (scalar
// default) or an empty sequence (list default).
func decodeDefaultValue(from, to reflect.Type, data any) (any, error) {
	if to != valueType {
		return data, nil
	}
	switch d := data.(type) {
	case string:
		return value.Str(d), nil
	case []any:
		if len(d) != 0 {
			return nil, fmt.Errorf("rule default must be a string or an empty list")
		}
		return value.List{}, nil
	case nil:
		return value.Str(""), nil
	}
	return nil, fmt.Errorf("rule default must be a string or an empty list, got %T", data)
}
