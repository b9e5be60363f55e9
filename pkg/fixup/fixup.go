// Package fixup holds the small catalogue of named, field-specific rewrites
// applied after the generic normalization passes. Every rewrite is keyed on
// field presence; a record without the field is silently skipped.
package fixup

import (
	"strings"

	"github.com/leafbio/consist/pkg/value"
)

// Fixup is one named rewrite over a single record.
type Fixup struct {
	Name  string
	Apply func(rec *value.Map)
}

// Catalogue returns the rewrites for the DrugBank vocabulary in application
// order: text-wrapper unwrapping, reserved-word renames, then the alias
// derivation (which depends on the unwrapped identifier list).
func Catalogue() []Fixup {
	return []Fixup{
		{Name: "unwrap_drugbank_id", Apply: UnwrapText("drugbank_id")},
		{Name: "unwrap_synonyms", Apply: UnwrapText("synonyms")},
		{Name: "unwrap_salts_drugbank_id", Apply: UnwrapNestedText("salts", "drugbank_id")},
		{Name: "rename_type", Apply: Rename("type", "compound_type")},
		{Name: "rename_state", Apply: Rename("state", "compound_state")},
		{Name: "derive_drugbank_id", Apply: DeriveID("drugbank_id", "xrefs", "DrugBank:")},
	}
}

// Records applies every fixup to every record in order.
func Records(records []value.Value, fixups []Fixup) {
	for _, rec := range records {
		m, ok := rec.(*value.Map)
		if !ok {
			continue
		}
		for _, f := range fixups {
			f.Apply(m)
		}
	}
}

// unwrap reduces a {text: V} wrapper map to the bare V; any other value is
// returned unchanged.
func unwrap(v value.Value) value.Value {
	m, ok := v.(*value.Map)
	if !ok {
		return v
	}
	if text, ok := m.Get("text"); ok {
		return text
	}
	return v
}

// UnwrapText collapses {text: V} wrappers for an identifier-like field,
// whether the field holds a single wrapper or a list of them.
func UnwrapText(key string) func(*value.Map) {
	return func(rec *value.Map) {
		cur, ok := rec.Get(key)
		if !ok {
			return
		}
		switch t := cur.(type) {
		case value.List:
			out := make(value.List, len(t))
			for i, elem := range t {
				out[i] = unwrap(elem)
			}
			rec.Set(key, out)
		case *value.Map:
			rec.Set(key, unwrap(t))
		}
	}
}

// UnwrapNestedText collapses {text: V} wrappers for key inside every
// element of the list field listKey.
func UnwrapNestedText(listKey, key string) func(*value.Map) {
	return func(rec *value.Map) {
		cur, ok := rec.Get(listKey)
		if !ok {
			return
		}
		list, ok := cur.(value.List)
		if !ok {
			return
		}
		for _, elem := range list {
			m, ok := elem.(*value.Map)
			if !ok {
				continue
			}
			if nested, ok := m.Get(key); ok {
				m.Set(key, unwrap(nested))
			}
		}
	}
}

// Rename moves the value under from to under to. Downstream table schemas
// reserve words like "type" and "state", so they get domain-qualified names.
func Rename(from, to string) func(*value.Map) {
	return func(rec *value.Map) {
		cur, ok := rec.Get(from)
		if !ok {
			return
		}
		rec.Set(to, cur)
		rec.Delete(from)
	}
}

// DeriveID keeps the full identifier list under aliasKey and replaces key
// with the first identifier, prefixed when it does not already carry the
// prefix. Records whose identifier list is missing or empty are skipped.
func DeriveID(key, aliasKey, prefix string) func(*value.Map) {
	return func(rec *value.Map) {
		cur, ok := rec.Get(key)
		if !ok {
			return
		}
		list, ok := cur.(value.List)
		if !ok || len(list) == 0 {
			return
		}
		first, ok := list[0].(value.Scalar)
		if !ok {
			return
		}
		rec.Set(aliasKey, list)
		id := first.Raw
		if !strings.HasPrefix(id, prefix) {
			id = prefix + id
		}
		rec.Set(key, value.Str(id))
	}
}
