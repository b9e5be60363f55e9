// Package cardinality forces explicitly named fields into a uniform shape.
// The plural unifier only fixes singular-wrapper objects; fields without a
// wrapper are sometimes-scalar-sometimes-list purely by child count, and
// only domain knowledge in the form of path rules can say which shape is
// intended. Rules are supplied by the caller, never inferred.
package cardinality

import (
	"github.com/leafbio/consist/pkg/value"
)

// Rule forces the value at Path to conform to Default's kind: a string
// default means the field is a scalar, a list default means it is a list.
type Rule struct {
	Path    value.FieldPath
	Default value.Value
}

// ScalarRule builds a rule defaulting the path to the empty string.
func ScalarRule(path value.FieldPath) Rule {
	return Rule{Path: path, Default: value.Str("")}
}

// ListRule builds a rule defaulting the path to the empty list.
func ListRule(path value.FieldPath) Rule {
	return Rule{Path: path, Default: value.List{}}
}

// Records applies every rule, in order, to every record in place. Each rule
// is independent; a rule that cannot be applied to a record leaves that
// record unmodified rather than failing the batch.
func Records(records []value.Value, rules []Rule) {
	for _, rule := range rules {
		for _, rec := range records {
			Apply(rec, rule)
		}
	}
}

// Apply rewrites rec in place so the value at rule.Path conforms to the
// rule's default shape. Traversal aborts per branch when an intermediate
// key is absent, null, or the empty string: an absent ancestor means the
// field is not applicable to that record, not that it is empty.
func Apply(rec value.Value, rule Rule) {
	walk(rec, rule.Path, rule.Default)
}

func walk(v value.Value, path value.FieldPath, def value.Value) {
	if len(path) == 0 {
		return
	}
	switch t := v.(type) {
	case value.List:
		// An explicit wildcard is consumed here; a key segment meeting a
		// list still fans out, since the list shape itself may be exactly
		// the inconsistency the rule set is trying to fix.
		rest := path
		if path[0].Each {
			rest = path[1:]
		}
		for _, elem := range t {
			walk(elem, rest, def)
		}
	case *value.Map:
		seg := path[0]
		if seg.Each {
			// Wildcard where no list exists: fail closed for this branch.
			return
		}
		if len(path) == 1 {
			finalize(t, seg.Key, def)
			return
		}
		cur, ok := t.Get(seg.Key)
		if !ok || value.IsEmpty(cur) {
			return
		}
		walk(cur, path[1:], def)
	}
}

// finalize conforms the leaf value under key. Present scalars and single
// maps are wrapped when a list is expected; absent, null, and empty-string
// values take the default.
func finalize(m *value.Map, key string, def value.Value) {
	cur, ok := m.Get(key)
	if !ok {
		m.Set(key, def.Clone())
		return
	}
	if _, isNull := cur.(value.Null); !isNull {
		if def.Kind() == value.KindList {
			switch cur.(type) {
			case value.Scalar, *value.Map:
				cur = value.List{cur}
				m.Set(key, cur)
			}
		}
	}
	if value.IsEmpty(cur) {
		m.Set(key, def.Clone())
	}
}
