package ast

// ValueKind identifies the variant of a Value.
type ValueKind string

const (
	KindScalar   ValueKind = "scalar"
	KindSequence ValueKind = "sequence"
	KindMapping  ValueKind = "mapping"
)

// Value is a node of the document tree. It is implemented by *Scalar,
// *Sequence and *Mapping only.
type Value interface {
	// Kind reports which variant the value is.
	Kind() ValueKind

	// Pos returns the source location of the value's first token.
	Pos() Location

	isValue()
}

// Scalar is an atomic text value.
type Scalar struct {
	Text     string   // Scalar text with quotes stripped
	Quoted   bool     // True if the scalar was written in quotes
	Location Location // Source location
}

// Sequence is an ordered list of values.
type Sequence struct {
	Items    []Value  // Items in document order
	Location Location // Location of the first dash or '['
}

// Entry is a single key/value pair of a Mapping.
type Entry struct {
	Key   *Scalar
	Value Value
}

// Mapping is an ordered collection of unique keys and their values.
type Mapping struct {
	Entries  []Entry  // Entries in document order
	Location Location // Location of the first key or '{'
}

// NewScalar creates an unquoted scalar with no location.
func NewScalar(text string) *Scalar {
	return &Scalar{Text: text}
}

// NewSequence creates a sequence holding the given items.
func NewSequence(items ...Value) *Sequence {
	return &Sequence{Items: items}
}

func (s *Scalar) Kind() ValueKind   { return KindScalar }
func (s *Sequence) Kind() ValueKind { return KindSequence }
func (m *Mapping) Kind() ValueKind  { return KindMapping }

func (s *Scalar) Pos() Location   { return s.Location }
func (s *Sequence) Pos() Location { return s.Location }
func (m *Mapping) Pos() Location  { return m.Location }

func (*Scalar) isValue()   {}
func (*Sequence) isValue() {}
func (*Mapping) isValue()  {}

// Len returns the number of items in the sequence.
func (s *Sequence) Len() int {
	return len(s.Items)
}

// At returns the item at index i, or nil if i is out of range.
func (s *Sequence) At(i int) Value {
	if i < 0 || i >= len(s.Items) {
		return nil
	}
	return s.Items[i]
}

// Len returns the number of entries in the mapping.
func (m *Mapping) Len() int {
	return len(m.Entries)
}

// Get returns the value stored under key, or nil if the key is absent.
func (m *Mapping) Get(key string) Value {
	for _, e := range m.Entries {
		if e.Key.Text == key {
			return e.Value
		}
	}
	return nil
}

// Keys returns the mapping keys in document order.
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		keys = append(keys, e.Key.Text)
	}
	return keys
}
