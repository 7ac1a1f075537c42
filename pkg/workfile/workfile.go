package workfile

import (
	"strings"
	"time"
)

// Workfile is an ordered list of sections.
type Workfile struct {
	Sections []*Section
}

// FirstDate returns the earliest dated entry across all sections, or the
// zero time for an empty workfile.
func (w *Workfile) FirstDate() time.Time {
	var first time.Time
	for _, s := range w.Sections {
		d := s.FirstDate()
		if d.IsZero() {
			continue
		}
		if first.IsZero() || d.Before(first) {
			first = d
		}
	}
	return first
}

// LastDate returns the latest dated entry across all sections, or the zero
// time for an empty workfile.
func (w *Workfile) LastDate() time.Time {
	var last time.Time
	for _, s := range w.Sections {
		d := s.LastDate()
		if d.IsZero() {
			continue
		}
		if last.IsZero() || d.After(last) {
			last = d
		}
	}
	return last
}

// Filter returns a read-only view of the workfile restricted to the half-open
// date interval [start, end) and optionally to sections with the given title.
func (w *Workfile) Filter(start, end time.Time, title ...string) *FilteredWorkfile {
	fw := &FilteredWorkfile{workfile: w, start: start, end: end}
	if len(title) > 0 {
		fw.title = title[0]
		fw.hasTitle = true
	}
	return fw
}

// Append adds a section at the end of the workfile.
func (w *Workfile) Append(s *Section) {
	w.Sections = append(w.Sections, s)
}

func (w *Workfile) String() string {
	parts := make([]string, 0, len(w.Sections))
	for _, s := range w.Sections {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "\n\n")
}
