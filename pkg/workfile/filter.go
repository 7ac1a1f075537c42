package workfile

import (
	"strings"
	"time"
)

// FilteredSection is a read-only date-restricted view of a section. It never
// mutates the underlying section and is recomputed on access.
type FilteredSection struct {
	Section *Section
	Start   time.Time
	End     time.Time
}

// Title returns the title of the underlying section.
func (fs *FilteredSection) Title() string {
	return fs.Section.Title()
}

// TitleComment returns the title comment of the underlying section.
func (fs *FilteredSection) TitleComment() *CommentEntry {
	return fs.Section.TitleComment()
}

// DatedEntries returns the dated entries of the underlying section whose
// date falls within [Start, End).
func (fs *FilteredSection) DatedEntries() []*DatedEntry {
	var ret []*DatedEntry
	for _, e := range fs.Section.DatedEntries() {
		if e.Date.Before(fs.End) && !e.Date.Before(fs.Start) {
			ret = append(ret, e)
		}
	}
	return ret
}

// Filter narrows the view further; the resulting interval is the
// intersection of the two.
func (fs *FilteredSection) Filter(start, end time.Time) *FilteredSection {
	if start.Before(fs.Start) {
		start = fs.Start
	}
	if end.After(fs.End) {
		end = fs.End
	}
	return &FilteredSection{Section: fs.Section, Start: start, End: end}
}

func (fs *FilteredSection) String() string {
	var lines []string
	if c := fs.TitleComment(); c != nil {
		lines = append(lines, c.String())
	}
	for _, e := range fs.DatedEntries() {
		lines = append(lines, e.String())
	}
	return strings.Join(lines, "\n")
}

// FilteredWorkfile is a read-only view of a workfile restricted by date and
// optionally by section title. Sections without dated entries are never
// visible through the view.
type FilteredWorkfile struct {
	workfile *Workfile
	start    time.Time
	end      time.Time
	title    string
	hasTitle bool
}

// Sections returns the visible sections as date-restricted views. A section
// is visible when its date range overlaps [start, end) and, if a title
// filter is set, its title matches exactly.
func (fw *FilteredWorkfile) Sections() []*FilteredSection {
	var ret []*FilteredSection
	for _, s := range fw.workfile.Sections {
		first := s.FirstDate()
		last := s.LastDate()
		if first.IsZero() || last.IsZero() {
			continue
		}
		if fw.hasTitle && s.Title() != fw.title {
			continue
		}
		if first.Before(fw.end) && !last.Before(fw.start) {
			ret = append(ret, &FilteredSection{Section: s, Start: fw.start, End: fw.end})
		}
	}
	return ret
}

func (fw *FilteredWorkfile) String() string {
	var parts []string
	for _, fs := range fw.Sections() {
		parts = append(parts, fs.String())
	}
	return strings.Join(parts, "\n\n")
}
