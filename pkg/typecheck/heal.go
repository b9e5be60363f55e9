package typecheck

import (
	"github.com/leafbio/consist/pkg/value"
)

// Heal rewrites records in place for the two recognized conflict shapes:
// a path observed as {String, Null} has its nulls replaced by the empty
// string, and a path observed as {List, Null} has its nulls replaced by
// the empty list. Nothing else is repaired; a {Int, String} path, for
// example, stays as-is for the caller to resolve. Returns the number of
// replacements made.
func Heal(records []value.Value, obs *Observations) int {
	healed := 0
	for _, rendered := range obs.order {
		e := obs.entries[rendered]
		def, ok := healDefault(e.kinds)
		if !ok {
			continue
		}
		for _, rec := range records {
			healed += healWalk(rec, e.path, def)
		}
	}
	return healed
}

// healDefault returns the replacement value for a healable tag set.
func healDefault(kinds map[string]struct{}) (value.Value, bool) {
	if len(kinds) != 2 {
		return nil, false
	}
	if _, ok := kinds[TagNull]; !ok {
		return nil, false
	}
	if _, ok := kinds[TagString]; ok {
		return value.Str(""), true
	}
	if _, ok := kinds[TagList]; ok {
		return value.List{}, true
	}
	return nil, false
}

// healWalk descends strictly along path, replacing nulls at the leaf. The
// path came from walking the same record set, so a shape mismatch along the
// way simply means this record never contributed to the observation; it is
// skipped, not an error.
func healWalk(v value.Value, path value.FieldPath, def value.Value) int {
	if len(path) == 0 {
		return 0
	}
	seg, rest := path[0], path[1:]
	switch t := v.(type) {
	case *value.Map:
		if seg.Each {
			return 0
		}
		cur, ok := t.Get(seg.Key)
		if !ok {
			return 0
		}
		if len(rest) == 0 {
			if _, isNull := cur.(value.Null); isNull {
				t.Set(seg.Key, def.Clone())
				return 1
			}
			return 0
		}
		return healWalk(cur, rest, def)
	case value.List:
		if !seg.Each {
			return 0
		}
		healed := 0
		if len(rest) == 0 {
			for i, elem := range t {
				if _, isNull := elem.(value.Null); isNull {
					t[i] = def.Clone()
					healed++
				}
			}
			return healed
		}
		for _, elem := range t {
			healed += healWalk(elem, rest, def)
		}
		return healed
	}
	return 0
}
