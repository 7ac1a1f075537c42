package reconcile

import (
	"errors"
	"fmt"
	"time"

	"github.com/shunichi-ikebuchi/worklog-sync/pkg/approx"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/workfile"
)

var (
	// ErrSectionNotFound is returned when neither an exact nor an
	// acceptable approximate title match exists in the search window.
	ErrSectionNotFound = errors.New("reconcile: section not found")

	// ErrAmbiguousSection is returned when several sections carry the
	// exact title inside the search window. The engine never guesses
	// which duplicate is authoritative.
	ErrAmbiguousSection = errors.New("reconcile: several sections match")
)

// LocateSection finds the section with the given title among the sections
// whose entries overlap [start, end).
//
// An exact title match wins. With no exact match, the desired title is
// matched approximately against every title in the window and accepted only
// under the acceptance threshold; otherwise ErrSectionNotFound is returned.
// More than one exact match is ErrAmbiguousSection.
func LocateSection(wf *workfile.Workfile, start, end time.Time, title string) (*workfile.FilteredSection, error) {
	exact := wf.Filter(start, end, title).Sections()
	switch {
	case len(exact) == 1:
		return exact[0], nil
	case len(exact) > 1:
		return nil, fmt.Errorf("%w: %d sections titled %q between %s and %s",
			ErrAmbiguousSection, len(exact), title,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	if title == "" {
		return nil, fmt.Errorf("%w: untitled section", ErrSectionNotFound)
	}

	all := wf.Filter(start, end).Sections()
	titles := make([]string, 0, len(all))
	for _, fs := range all {
		titles = append(titles, fs.Title())
	}

	best, err := approx.BestMatch(title, titles)
	if err != nil || !approx.Acceptable(title, best) {
		return nil, fmt.Errorf("%w: no good match for title %q", ErrSectionNotFound, title)
	}

	matched := wf.Filter(start, end, best).Sections()
	// The approximate title came from the window, so at least one section
	// carries it; with duplicates the most recent one wins.
	return matched[len(matched)-1], nil
}
