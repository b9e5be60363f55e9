package value

import (
	"fmt"
	"strings"
)

// Segment is one step of a FieldPath: either a plain key (descend into a
// Map) or a list-wildcard (descend into every element of a List).
type Segment struct {
	Key  string
	Each bool
}

// Key returns a plain-key segment.
func Key(name string) Segment { return Segment{Key: name} }

// Each is the list-wildcard segment. All elements of a list share one path;
// paths never address individual indices.
var Each = Segment{Each: true}

// FieldPath identifies one position across every record in a collection.
type FieldPath []Segment

// Path builds a FieldPath from segments, mostly for tests and rule tables.
func Path(segments ...Segment) FieldPath { return FieldPath(segments) }

// String renders the canonical form: keys joined by dots, with "[]"
// appended for each wildcard, e.g. "snp_effects.effect[].rs_id".
func (p FieldPath) String() string {
	var b strings.Builder
	for _, seg := range p {
		if seg.Each {
			b.WriteString("[]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Key)
	}
	return b.String()
}

// ParsePath parses the canonical rendering produced by FieldPath.String.
func ParsePath(s string) (FieldPath, error) {
	if s == "" {
		return nil, fmt.Errorf("empty field path")
	}
	var p FieldPath
	for _, token := range strings.Split(s, ".") {
		key := token
		wildcards := 0
		for strings.HasSuffix(key, "[]") {
			key = key[:len(key)-2]
			wildcards++
		}
		if key == "" && wildcards == 0 {
			return nil, fmt.Errorf("field path %q: empty segment", s)
		}
		if strings.ContainsAny(key, "[]") {
			return nil, fmt.Errorf("field path %q: malformed segment %q", s, token)
		}
		if key != "" {
			p = append(p, Key(key))
		}
		for i := 0; i < wildcards; i++ {
			p = append(p, Each)
		}
	}
	return p, nil
}

// Child returns a copy of p extended by a plain-key segment. The copy never
// aliases p's backing array, so sibling extensions cannot clobber each other.
func (p FieldPath) Child(key string) FieldPath {
	out := make(FieldPath, len(p)+1)
	copy(out, p)
	out[len(p)] = Key(key)
	return out
}

// Element returns a copy of p extended by the list-wildcard segment.
func (p FieldPath) Element() FieldPath {
	out := make(FieldPath, len(p)+1)
	copy(out, p)
	out[len(p)] = Each
	return out
}
