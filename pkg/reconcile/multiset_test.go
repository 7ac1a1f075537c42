package reconcile

import (
	"reflect"
	"testing"
)

func ident(s string) string { return s }

func TestMultisetCounts(t *testing.T) {
	m := Collect(ident, []string{"a", "b", "a"})

	if got := m.Count("a"); got != 2 {
		t.Errorf("Count(a) = %d, expected 2", got)
	}
	if got := m.Count("b"); got != 1 {
		t.Errorf("Count(b) = %d, expected 1", got)
	}
	if got := m.Count("c"); got != 0 {
		t.Errorf("Count(c) = %d, expected 0", got)
	}
	if got := m.Len(); got != 3 {
		t.Errorf("Len() = %d, expected 3", got)
	}
}

func TestMultisetRemoveTruncatesAtZero(t *testing.T) {
	m := Collect(ident, []string{"a"})
	m.Remove("a")
	m.Remove("a")

	if got := m.Count("a"); got != 0 {
		t.Errorf("Count(a) = %d, expected 0", got)
	}
	if !m.IsEmpty() {
		t.Error("IsEmpty() = false after removing everything")
	}
}

func TestMultisetElementsInsertionOrder(t *testing.T) {
	m := Collect(ident, []string{"b", "a", "b", "c"})

	expected := []string{"b", "b", "a", "c"}
	if got := m.Elements(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Elements() = %v, expected %v", got, expected)
	}
}

func TestMultisetSub(t *testing.T) {
	a := Collect(ident, []string{"x", "x", "y"})
	b := Collect(ident, []string{"x", "y", "z"})

	diff := a.Sub(b)
	if got := diff.Elements(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Sub Elements() = %v, expected [x]", got)
	}
	// Truncated difference never goes negative.
	if got := diff.Count("z"); got != 0 {
		t.Errorf("Count(z) = %d, expected 0", got)
	}
}

func TestMultisetInter(t *testing.T) {
	a := Collect(ident, []string{"x", "x", "y"})
	b := Collect(ident, []string{"x", "z"})

	inter := a.Inter(b)
	if got := inter.Elements(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Inter Elements() = %v, expected [x]", got)
	}
}

func TestMultisetAddAllSubAll(t *testing.T) {
	a := Collect(ident, []string{"x"})
	b := Collect(ident, []string{"x", "y"})

	a.AddAll(b)
	if got := a.Count("x"); got != 2 {
		t.Errorf("Count(x) after AddAll = %d, expected 2", got)
	}

	a.SubAll(b)
	if got := a.Elements(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Elements() after SubAll = %v, expected [x]", got)
	}
}

func TestMultisetRepresentativeIsFirstInserted(t *testing.T) {
	type box struct{ id, tag string }
	keyOf := func(b box) string { return b.id }

	m := NewMultiset(keyOf)
	m.Add(box{"k", "first"})
	m.Add(box{"k", "second"})

	for _, b := range m.Elements() {
		if b.tag != "first" {
			t.Errorf("representative tag = %q, expected the first inserted value", b.tag)
		}
	}
}
