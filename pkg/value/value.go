// Package value defines the recursive value tree that every pipeline stage
// operates on. A Value is one of four variants: Null, Scalar, List, or Map.
// Maps preserve insertion order so serialized output is stable across runs.
package value

// Kind identifies a Value variant.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindList
	KindMap
)

// String returns the kind tag used in type-consistency reports.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindScalar:
		return "Scalar"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	}
	return "Unknown"
}

// Value is the closed variant set flowing through the pipeline.
// Implementations are Null, Scalar, List, and *Map; no stage introduces
// another representation.
type Value interface {
	Kind() Kind
	// Equal reports deep structural equality, including Map key order.
	Equal(Value) bool
	// Clone returns a deep copy sharing no containers with the receiver.
	Clone() Value
}

// ScalarType is the concrete subtype of a Scalar. Trees built from markup
// carry only TypeString; the other subtypes arise when a JSON document is
// decoded back into a Value.
type ScalarType int

const (
	TypeString ScalarType = iota
	TypeInt
	TypeFloat
	TypeBool
)

// String returns the subtype tag used in type-consistency reports.
func (t ScalarType) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	}
	return "Unknown"
}

// Null is the absent-value variant.
type Null struct{}

func (Null) Kind() Kind { return KindNull }

func (Null) Equal(other Value) bool {
	_, ok := other.(Null)
	return ok
}

func (Null) Clone() Value { return Null{} }

// Scalar is a leaf value. Raw holds the canonical literal text: the trimmed
// element text for TypeString, or the JSON literal for numbers and booleans.
type Scalar struct {
	Raw  string
	Type ScalarType
}

// Str returns a string scalar, the only subtype the tree builder produces.
func Str(s string) Scalar { return Scalar{Raw: s, Type: TypeString} }

func (Scalar) Kind() Kind { return KindScalar }

func (s Scalar) Equal(other Value) bool {
	o, ok := other.(Scalar)
	return ok && o.Raw == s.Raw && o.Type == s.Type
}

func (s Scalar) Clone() Value { return s }

// List is an ordered sequence of values.
type List []Value

func (List) Kind() Kind { return KindList }

func (l List) Equal(other Value) bool {
	o, ok := other.(List)
	if !ok || len(o) != len(l) {
		return false
	}
	for i, v := range l {
		if !v.Equal(o[i]) {
			return false
		}
	}
	return true
}

func (l List) Clone() Value {
	out := make(List, len(l))
	for i, v := range l {
		out[i] = v.Clone()
	}
	return out
}

// Map is an insertion-ordered mapping from string keys to values.
// Keys are unique; Set on an existing key replaces in place.
type Map struct {
	keys    []string
	entries map[string]Value
}

// NewMap returns an empty ordered map.
func NewMap() *Map {
	return &Map{entries: make(map[string]Value)}
}

// MapOf builds a map from alternating key, value pairs, mostly for tests.
// It panics on an odd pair count or a non-string key.
func MapOf(pairs ...any) *Map {
	if len(pairs)%2 != 0 {
		panic("value.MapOf: odd number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(Value))
	}
	return m
}

func (*Map) Kind() Kind { return KindMap }

// Set adds or replaces the value under key, preserving first-insertion order.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = v
}

// Get returns the value under key and whether it is present.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.entries[key]
	return ok
}

// Delete removes key if present.
func (m *Map) Delete(key string) {
	if _, ok := m.entries[key]; !ok {
		return
	}
	delete(m.entries, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The slice is shared; callers
// must not mutate it.
func (m *Map) Keys() []string { return m.keys }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

func (m *Map) Equal(other Value) bool {
	o, ok := other.(*Map)
	if !ok || o.Len() != m.Len() {
		return false
	}
	for i, k := range m.keys {
		if o.keys[i] != k {
			return false
		}
		if !m.entries[k].Equal(o.entries[k]) {
			return false
		}
	}
	return true
}

func (m *Map) Clone() Value {
	out := NewMap()
	for _, k := range m.keys {
		out.Set(k, m.entries[k].Clone())
	}
	return out
}

// IsEmpty reports whether v is the kind of value the pipeline treats as
// "not set": Null or an empty string scalar.
func IsEmpty(v Value) bool {
	switch t := v.(type) {
	case Null:
		return true
	case Scalar:
		return t.Type == TypeString && t.Raw == ""
	}
	return false
}
