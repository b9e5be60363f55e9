// Package unify collapses singular-wrapper objects into lists. The source
// format wraps repeated children in a plural-named parent holding a
// singular-named child, and the child is a list only when more than one
// occurrence happened to exist; this pass makes it a list always.
package unify

import (
	"github.com/leafbio/consist/pkg/value"
)

// SingularPlural reports whether singular is the singular form of plural.
// The rule is deliberately narrow: appending "s", plus the one irregular
// pair the source vocabulary uses. It must not grow into general English
// pluralization.
func SingularPlural(singular, plural string) bool {
	if singular == "category" && plural == "categories" {
		return true
	}
	return singular+"s" == plural
}

// Records applies Apply to every record and returns the rewritten set.
func Records(records []value.Value) []value.Value {
	out := make([]value.Value, len(records))
	for i, rec := range records {
		out[i] = Apply(rec)
	}
	return out
}

// Apply rewrites v bottom-up so that {plural: {singular: X}} becomes
// {plural: [X...]}. The pass is idempotent: a plural key already holding a
// list no longer matches the wrapper shape and is left untouched.
func Apply(v value.Value) value.Value {
	switch t := v.(type) {
	case *value.Map:
		return applyMap(t)
	case value.List:
		out := make(value.List, len(t))
		for i, elem := range t {
			out[i] = Apply(elem)
		}
		return out
	default:
		return v
	}
}

func applyMap(m *value.Map) value.Value {
	out := value.NewMap()
	for _, key := range m.Keys() {
		entry, _ := m.Get(key)
		if inner, ok := singularWrapper(key, entry); ok {
			out.Set(key, toList(Apply(inner)))
			continue
		}
		out.Set(key, Apply(entry))
	}
	return out
}

// singularWrapper returns the wrapped value when entry is a single-key map
// whose only key is the singular form of parentKey.
func singularWrapper(parentKey string, entry value.Value) (value.Value, bool) {
	m, ok := entry.(*value.Map)
	if !ok || m.Len() != 1 {
		return nil, false
	}
	only := m.Keys()[0]
	if !SingularPlural(only, parentKey) {
		return nil, false
	}
	inner, _ := m.Get(only)
	return inner, true
}

// toList wraps v into a list unless it already is one. Null becomes the
// empty list: a wrapper that existed but held nothing means zero items.
func toList(v value.Value) value.List {
	switch t := v.(type) {
	case value.List:
		return t
	case value.Null:
		return value.List{}
	default:
		return value.List{v}
	}
}
