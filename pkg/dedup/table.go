// Package dedup stores attribute values once each, in first-seen order,
// while remembering which stored slot every original occurrence resolved to.
package dedup

// Keyer is implemented by values that can be used as deduplication keys.
// Equal values must return equal keys.
type Keyer[K comparable] interface {
	Key() K
}

// Stats is the occurrence/unique count pair of a table
type Stats struct {
	Occurrences int
	Unique      int
}

// Removed returns the number of occurrences that were folded into an existing value
func (s Stats) Removed() int {
	return s.Occurrences - s.Unique
}

// Table is an insertion-ordered set of values with an occurrence redirection list
type Table[K comparable, V Keyer[K]] struct {
	values   []V
	index    map[K]int
	redirect []int
}

// NewTable creates an empty table
func NewTable[K comparable, V Keyer[K]]() *Table[K, V] {
	return &Table[K, V]{
		values:   make([]V, 0),
		index:    make(map[K]int),
		redirect: make([]int, 0),
	}
}

// Intern records one occurrence of value and returns its storage index.
// The first occurrence of a value appends it to the table.
func (t *Table[K, V]) Intern(value V) int {
	key := value.Key()
	idx, ok := t.index[key]
	if !ok {
		idx = len(t.values)
		t.values = append(t.values, value)
		t.index[key] = idx
	}
	t.redirect = append(t.redirect, idx)
	return idx
}

// Resolve returns the storage index the given zero-based occurrence resolved to
func (t *Table[K, V]) Resolve(occurrence int) (int, bool) {
	if occurrence < 0 || occurrence >= len(t.redirect) {
		return 0, false
	}
	return t.redirect[occurrence], true
}

// Values returns the unique values in storage order. The slice must not be modified.
func (t *Table[K, V]) Values() []V {
	return t.values
}

// Len returns the number of unique values
func (t *Table[K, V]) Len() int {
	return len(t.values)
}

// Occurrences returns the number of Intern calls
func (t *Table[K, V]) Occurrences() int {
	return len(t.redirect)
}

// Stats returns the occurrence and unique counts
func (t *Table[K, V]) Stats() Stats {
	return Stats{Occurrences: len(t.redirect), Unique: len(t.values)}
}
