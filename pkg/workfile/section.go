package workfile

import (
	"sort"
	"strings"
	"time"
)

// Section is a group of entries between two blank lines. Comment entries at
// the head of the section are its title; the title identifies the recurring
// activity the dated entries belong to.
type Section struct {
	Entries []Entry
}

// NewSection creates a section with the given title comment and no entries.
func NewSection(title string) *Section {
	return &Section{Entries: []Entry{&CommentEntry{Text: title}}}
}

// titleCommentCount returns the number of leading comment entries.
func (s *Section) titleCommentCount() int {
	for i, e := range s.Entries {
		if _, ok := e.(*CommentEntry); !ok {
			return i
		}
	}
	return len(s.Entries)
}

// TitleComment returns a comment entry representing the section title, or nil
// if the section does not start with a comment. Several leading comments are
// joined with newlines.
func (s *Section) TitleComment() *CommentEntry {
	n := s.titleCommentCount()
	switch n {
	case 0:
		return nil
	case 1:
		return s.Entries[0].(*CommentEntry)
	}

	texts := make([]string, 0, n)
	for _, e := range s.Entries[:n] {
		texts = append(texts, e.(*CommentEntry).Text)
	}
	return &CommentEntry{Text: strings.Join(texts, "\n")}
}

// Title returns the section title as a string with the conventional single
// leading space stripped, or "" if the section has no title.
func (s *Section) Title() string {
	c := s.TitleComment()
	if c == nil {
		return ""
	}
	return strings.TrimPrefix(c.Text, " ")
}

// DatedEntries returns a view of the entries keeping only the dated ones.
func (s *Section) DatedEntries() []*DatedEntry {
	var ret []*DatedEntry
	for _, e := range s.Entries {
		if de, ok := e.(*DatedEntry); ok {
			ret = append(ret, de)
		}
	}
	return ret
}

// FirstDate returns the earliest entry date, or the zero time for a section
// without dated entries.
func (s *Section) FirstDate() time.Time {
	var first time.Time
	for _, e := range s.DatedEntries() {
		if first.IsZero() || e.Date.Before(first) {
			first = e.Date
		}
	}
	return first
}

// LastDate returns the latest entry date, or the zero time for a section
// without dated entries.
func (s *Section) LastDate() time.Time {
	var last time.Time
	for _, e := range s.DatedEntries() {
		if last.IsZero() || e.Date.After(last) {
			last = e.Date
		}
	}
	return last
}

// Sort orders the dated entries by (date, hours, rate), keeping the title
// block in place. It returns ErrUnsortable if comment entries appear after
// the title block; the section is left untouched in that case.
func (s *Section) Sort() error {
	n := s.titleCommentCount()
	for _, e := range s.Entries[n:] {
		if _, ok := e.(*DatedEntry); !ok {
			return ErrUnsortable
		}
	}

	body := s.Entries[n:]
	sort.SliceStable(body, func(i, j int) bool {
		return body[i].(*DatedEntry).Compare(body[j].(*DatedEntry)) < 0
	})
	return nil
}

// IndexOfKey returns the index of the first dated entry key-equal to the
// given entry, or -1.
func (s *Section) IndexOfKey(entry *DatedEntry) int {
	for i, e := range s.Entries {
		if de, ok := e.(*DatedEntry); ok && de.EqualKey(entry) {
			return i
		}
	}
	return -1
}

// RemoveFirstKey deletes the first dated entry key-equal to the given entry.
// It reports whether an entry was removed.
func (s *Section) RemoveFirstKey(entry *DatedEntry) bool {
	i := s.IndexOfKey(entry)
	if i < 0 {
		return false
	}
	s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
	return true
}

// Append adds an entry at the end of the section.
func (s *Section) Append(e Entry) {
	s.Entries = append(s.Entries, e)
}

func (s *Section) String() string {
	lines := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		lines = append(lines, e.String())
	}
	return strings.Join(lines, "\n")
}
