// Package typecheck analyzes a normalized record set for type consistency
// and conservatively heals the two conflict shapes that are safe to repair.
// Analysis and healing are separate phases: healing decisions need the
// complete, dataset-wide view of a path before any record is rewritten.
package typecheck

import (
	"sort"
	"strings"

	"github.com/leafbio/consist/pkg/value"
)

// Kind tags recorded per path. Scalars contribute their concrete subtype.
const (
	TagMap    = "Map"
	TagList   = "List"
	TagNull   = "Null"
	TagString = "String"
)

// Observations maps every field path reachable in the record set to the
// set of kind tags observed there. It is built fresh per analysis call and
// never persisted.
type Observations struct {
	order   []string
	entries map[string]*observation
}

type observation struct {
	path  value.FieldPath
	kinds map[string]struct{}
}

// Collect walks the entire record set and accumulates kind tags per path.
// List elements all share one path (extended by the wildcard marker, never
// by index); map entries extend the path by their key.
func Collect(records []value.Value) *Observations {
	obs := &Observations{entries: make(map[string]*observation)}
	for _, rec := range records {
		obs.visit(rec, nil)
	}
	return obs
}

func (o *Observations) visit(v value.Value, path value.FieldPath) {
	switch t := v.(type) {
	case value.Null:
		o.add(path, TagNull)
	case value.Scalar:
		o.add(path, t.Type.String())
	case value.List:
		o.add(path, TagList)
		elemPath := path.Element()
		for _, elem := range t {
			o.visit(elem, elemPath)
		}
	case *value.Map:
		o.add(path, TagMap)
		for _, key := range t.Keys() {
			entry, _ := t.Get(key)
			o.visit(entry, path.Child(key))
		}
	}
}

func (o *Observations) add(path value.FieldPath, tag string) {
	rendered := path.String()
	e, ok := o.entries[rendered]
	if !ok {
		e = &observation{path: path, kinds: make(map[string]struct{})}
		o.entries[rendered] = e
		o.order = append(o.order, rendered)
	}
	e.kinds[tag] = struct{}{}
}

// PathKinds is one report line: a path and the sorted kind tags seen there.
type PathKinds struct {
	Path  value.FieldPath
	Kinds []string
}

// Report classifies every observed path. Consistent holds single-kind and
// nullable-consistent paths; Inconsistent holds every path with more than
// one non-null kind. Inconsistent paths are diagnostics for the caller,
// never silently dropped and never silently coerced.
type Report struct {
	Consistent   []PathKinds
	Inconsistent []PathKinds
}

// Classify splits the observations into consistent and inconsistent paths,
// in the order the paths were first seen.
func (o *Observations) Classify() *Report {
	rep := &Report{}
	for _, rendered := range o.order {
		e := o.entries[rendered]
		pk := PathKinds{Path: e.path, Kinds: sortedKinds(e.kinds)}
		if consistentKinds(e.kinds) {
			rep.Consistent = append(rep.Consistent, pk)
		} else {
			rep.Inconsistent = append(rep.Inconsistent, pk)
		}
	}
	return rep
}

// consistentKinds reports whether the tag set needs no action: exactly one
// kind, or exactly one non-null kind alongside Null where the non-null kind
// is a scalar or List. {Map, Null} and every other combination is a
// genuine inconsistency.
func consistentKinds(kinds map[string]struct{}) bool {
	if len(kinds) == 1 {
		return true
	}
	if len(kinds) != 2 {
		return false
	}
	if _, hasNull := kinds[TagNull]; !hasNull {
		return false
	}
	_, hasMap := kinds[TagMap]
	return !hasMap
}

func sortedKinds(kinds map[string]struct{}) []string {
	out := make([]string, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// String renders one report line the way the textual report prints it.
func (p PathKinds) String() string {
	return p.Path.String() + ": " + strings.Join(p.Kinds, ", ")
}
