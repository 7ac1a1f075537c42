// Package reconcile merges freshly derived work records into an existing
// workfile or invoice with minimal disruption to hand-written content.
//
// The engine computes a multiset difference between the new and the current
// entries of the target, then runs a cascade of progressively looser matching
// passes that decide which differences are real changes and which are
// artifacts of imprecise source data. Each pass consumes what it resolves and
// reports a structured diagnostic event; the caller decides presentation.
package reconcile

// Multiset is a mutable bag of values identified by a key function. Counts
// are never negative; iteration follows first-insertion order of the keys,
// which keeps the cascade passes deterministic. The first value inserted for
// a key is kept as the representative for all its instances.
type Multiset[T any] struct {
	keyOf  func(T) string
	keys   []string
	counts map[string]int
	reps   map[string]T
}

// NewMultiset creates an empty multiset over the given key function.
func NewMultiset[T any](keyOf func(T) string) *Multiset[T] {
	return &Multiset[T]{
		keyOf:  keyOf,
		counts: make(map[string]int),
		reps:   make(map[string]T),
	}
}

// Collect builds a multiset from a slice.
func Collect[T any](keyOf func(T) string, values []T) *Multiset[T] {
	m := NewMultiset(keyOf)
	for _, v := range values {
		m.Add(v)
	}
	return m
}

// Add inserts one instance of v.
func (m *Multiset[T]) Add(v T) {
	k := m.keyOf(v)
	if _, ok := m.reps[k]; !ok {
		m.keys = append(m.keys, k)
		m.reps[k] = v
	}
	m.counts[k]++
}

// Remove consumes one instance of v. Removing below zero is a no-op; the key
// and its representative stay known so later passes can still look it up.
func (m *Multiset[T]) Remove(v T) {
	k := m.keyOf(v)
	if m.counts[k] > 0 {
		m.counts[k]--
	}
}

// Count returns the number of instances of v.
func (m *Multiset[T]) Count(v T) int {
	return m.counts[m.keyOf(v)]
}

// Len returns the total number of instances.
func (m *Multiset[T]) Len() int {
	n := 0
	for _, c := range m.counts {
		n += c
	}
	return n
}

// IsEmpty reports whether no instance remains.
func (m *Multiset[T]) IsEmpty() bool {
	return m.Len() == 0
}

// Elements returns every instance, each key's representative repeated count
// times, in first-insertion order.
func (m *Multiset[T]) Elements() []T {
	var out []T
	for _, k := range m.keys {
		for i := 0; i < m.counts[k]; i++ {
			out = append(out, m.reps[k])
		}
	}
	return out
}

// Sub returns the truncated difference m − other: for each key of m, the
// excess of m's count over other's, never below zero. Representatives come
// from m.
func (m *Multiset[T]) Sub(other *Multiset[T]) *Multiset[T] {
	out := NewMultiset(m.keyOf)
	for _, k := range m.keys {
		n := m.counts[k] - other.counts[k]
		for i := 0; i < n; i++ {
			out.Add(m.reps[k])
		}
	}
	return out
}

// Inter returns the multiset intersection: for each key, the minimum of the
// two counts. Representatives come from m.
func (m *Multiset[T]) Inter(other *Multiset[T]) *Multiset[T] {
	out := NewMultiset(m.keyOf)
	for _, k := range m.keys {
		n := m.counts[k]
		if o := other.counts[k]; o < n {
			n = o
		}
		for i := 0; i < n; i++ {
			out.Add(m.reps[k])
		}
	}
	return out
}

// AddAll inserts every instance of other into m.
func (m *Multiset[T]) AddAll(other *Multiset[T]) {
	for _, v := range other.Elements() {
		m.Add(v)
	}
}

// SubAll consumes every instance of other from m, truncating at zero.
func (m *Multiset[T]) SubAll(other *Multiset[T]) {
	for _, v := range other.Elements() {
		m.Remove(v)
	}
}
