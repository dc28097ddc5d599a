// Package document defines the structured value model shared by the merge
// engine and the codecs. A Value is a closed tagged union over the shapes a
// configuration document can contain: null, booleans, integers, floats,
// strings, sequences, and order-preserving mappings.
package document

import "math"

// Kind identifies the shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

// String returns the lowercase name of the kind, used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is one node of a parsed configuration document. The zero Value is
// null. Values are treated as immutable once constructed: the merge engine
// never modifies its inputs and allocates fresh Values for its output.
type Value struct {
	kind     Kind
	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string
	seqVal   []Value
	mapVal   *Mapping
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolVal: b}
}

// Int returns an integer value. Integers and floats are distinct kinds so
// that numeric fidelity from the source document survives a merge.
func Int(i int64) Value {
	return Value{kind: KindInt, intVal: i}
}

// Float returns a floating-point value.
func Float(f float64) Value {
	return Value{kind: KindFloat, floatVal: f}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, strVal: s}
}

// Seq returns a sequence value wrapping the given elements. The slice is
// owned by the returned Value and must not be modified afterwards.
func Seq(elems ...Value) Value {
	return Value{kind: KindSequence, seqVal: elems}
}

// Map returns a mapping value wrapping m. A nil mapping is an empty mapping.
func Map(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{kind: KindMapping, mapVal: m}
}

// Kind reports the shape of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean payload. Valid only for KindBool.
func (v Value) AsBool() bool {
	return v.boolVal
}

// AsInt returns the integer payload. Valid only for KindInt.
func (v Value) AsInt() int64 {
	return v.intVal
}

// AsFloat returns the float payload. Valid only for KindFloat.
func (v Value) AsFloat() float64 {
	return v.floatVal
}

// AsString returns the string payload. Valid only for KindString.
func (v Value) AsString() string {
	return v.strVal
}

// Sequence returns the element slice of a sequence value. Callers must not
// modify the returned slice. Valid only for KindSequence.
func (v Value) Sequence() []Value {
	return v.seqVal
}

// AsMapping returns the mapping payload. Callers must not modify the returned
// mapping. Valid only for KindMapping.
func (v Value) AsMapping() *Mapping {
	return v.mapVal
}

// IsScalar reports whether the value is a leaf (null, bool, int, float, or
// string).
func (v Value) IsScalar() bool {
	return v.kind != KindSequence && v.kind != KindMapping
}

// Equal reports deep structural equality. Mapping key order is significant,
// and an int never equals a float even when numerically identical, so that
// equality agrees with what the codecs would emit.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == o.boolVal
	case KindInt:
		return v.intVal == o.intVal
	case KindFloat:
		// NaN equals NaN here: equality tracks what the codecs emit, and
		// both sides serialize to the same bytes.
		if math.IsNaN(v.floatVal) && math.IsNaN(o.floatVal) {
			return true
		}
		return v.floatVal == o.floatVal
	case KindString:
		return v.strVal == o.strVal
	case KindSequence:
		if len(v.seqVal) != len(o.seqVal) {
			return false
		}
		for i := range v.seqVal {
			if !v.seqVal[i].Equal(o.seqVal[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return v.mapVal.Equal(o.mapVal)
	default:
		return false
	}
}

// Mapping is an ordered string-keyed map. Keys are unique; iteration follows
// insertion order so that merged output is deterministic and stable.
type Mapping struct {
	entries []MapEntry
	index   map[string]int
}

// MapEntry is one key/value pair of a Mapping.
type MapEntry struct {
	Key   string
	Value Value
}

// NewMapping creates an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.entries[i].Value, true
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[key]
	return ok
}

// Set stores value under key. Setting an existing key updates the value in
// place without changing the key's position.
func (m *Mapping) Set(key string, value Value) {
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns the key/value pairs in insertion order. Callers must not
// modify the returned slice.
func (m *Mapping) Entries() []MapEntry {
	if m == nil {
		return nil
	}
	return m.entries
}

// Equal reports deep equality including key order.
func (m *Mapping) Equal(o *Mapping) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i := range m.entries {
		a, b := m.entries[i], o.entries[i]
		if a.Key != b.Key || !a.Value.Equal(b.Value) {
			return false
		}
	}
	return true
}
