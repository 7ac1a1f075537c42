package reconcile

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/worklog-sync/pkg/workfile"
)

// SearchWindowSlack widens the section search window on each side. Plannings
// are sent by full weeks and sometimes land in an adjacent billing period, so
// the section holding the activity may start or end up to a quarter away from
// the window the new data covers.
const SearchWindowSlack = 92 * 24 * time.Hour

// MergeSection merges a freshly derived section into the matching window of
// the workfile, so that [start, end) ends up holding exactly the new
// section's entries while touching the existing annotations and ordering as
// little as possible.
//
// The target section is located in a window widened by SearchWindowSlack on
// each side; its entries are then diffed against the new ones inside
// [start, end) only. When no section matches, the new section is appended
// as-is. When several sections match exactly, nothing is done and
// ErrAmbiguousSection is returned with the report.
func MergeSection(wf *workfile.Workfile, newSec *workfile.Section, start, end time.Time) (*Report, error) {
	title := newSec.Title()
	report := &Report{SectionTitle: title}

	searchStart := start.Add(-SearchWindowSlack)
	searchEnd := end.Add(SearchWindowSlack)

	located, err := LocateSection(wf, searchStart, searchEnd, title)
	if errors.Is(err, ErrSectionNotFound) {
		wf.Append(newSec)
		report.event(EventSectionAdded, title)
		report.Added = len(newSec.DatedEntries())
		report.Changed = true
		return report, nil
	}
	if err != nil {
		return report, err
	}

	window := located.Filter(start, end)
	sec := window.Section

	entryKey := (*workfile.DatedEntry).Key
	newEntries := Collect(entryKey, newSec.DatedEntries())
	currentEntries := Collect(entryKey, window.DatedEntries())

	added := newEntries.Sub(currentEntries)
	removed := currentEntries.Sub(newEntries)

	for _, e := range newEntries.Inter(currentEntries).Elements() {
		report.event(EventExactMatch, e.String())
	}

	mergeEntries(sec, added, removed, report)

	// A cascade that resolved everything means the section's content
	// already agrees with the new data; its order is left alone.
	if added.IsEmpty() && removed.IsEmpty() {
		return report, nil
	}

	for _, a := range added.Elements() {
		sec.Append(a)
		report.event(EventEntryAdded, a.String())
		report.Added++
	}
	for _, r := range removed.Elements() {
		sec.RemoveFirstKey(r)
		report.event(EventEntryRemoved, r.String())
		report.Removed++
	}
	report.Changed = true

	if err := sec.Sort(); err != nil {
		report.event(EventSectionUnsorted, title)
	}

	return report, nil
}

// mergeEntries runs the heuristic cascade over the added/removed multisets,
// consuming what each pass resolves and mutating the section for in-place
// fixes and shortfall insertions.
func mergeEntries(sec *workfile.Section, added, removed *Multiset[*workfile.DatedEntry], report *Report) {
	// Sum-match: several removed entries with the same date and rate
	// exactly covering one added entry is a pure re-partitioning.
	for _, a := range added.Elements() {
		matches := rateMatches(a, removed)
		if len(matches) > 1 && sumHours(matches).Equal(a.Hours) {
			for _, m := range matches {
				removed.Remove(m)
			}
			added.Remove(a)
			report.event(EventSumMatch, a.String(), renderEntries(matches)...)
		}
	}

	// Partial-fix: a single entry with the right date and rate gets its
	// hours corrected in place, keeping its comment and position. Several
	// entries falling short are consumed and the shortfall is inserted.
	for _, a := range added.Elements() {
		matches := rateMatches(a, removed)
		total := sumHours(matches)

		switch {
		case len(matches) == 1:
			removed.Remove(matches[0])
			added.Remove(a)
			if i := sec.IndexOfKey(matches[0]); i >= 0 {
				sec.Entries[i].(*workfile.DatedEntry).Hours = a.Hours
				report.Adjusted++
				report.Changed = true
			}
			report.event(EventPartialFix, a.String(), matches[0].String())

		case len(matches) > 1 && total.LessThan(a.Hours):
			for _, m := range matches {
				removed.Remove(m)
			}
			added.Remove(a)
			shortfall := workfile.NewDatedEntry(a.Date, a.Hours.Sub(total), a.Rate)
			sec.Append(shortfall)
			report.Added++
			report.Changed = true
			report.event(EventShortfall, shortfall.String(), renderEntries(matches)...)

		case len(matches) > 1 && total.GreaterThan(a.Hours):
			report.event(EventOvertime, a.String(), renderEntries(matches)...)
		}
	}

	// Rate-mismatch: the calendar feed carries no hourly rate, so a
	// (date, hours) match with a different rate is ignored, not fixed.
	for _, a := range added.Elements() {
		matches := hoursMatches(a, removed)
		if len(matches) == 0 {
			continue
		}
		for _, m := range matches {
			removed.Remove(m)
		}
		added.Remove(a)
		report.event(EventRateMismatch, a.String(), renderEntries(matches)...)
	}

	// Date-only matches are surfaced for the record; the remove+add that
	// follows applies them.
	for _, a := range added.Elements() {
		matches := dateOnlyMatches(a, removed)
		if len(matches) > 0 {
			report.event(EventDateOnlyMatch, a.String(), renderEntries(matches)...)
		}
	}
}

// rateMatches returns the remaining removed instances sharing the entry's
// date and rate.
func rateMatches(e *workfile.DatedEntry, removed *Multiset[*workfile.DatedEntry]) []*workfile.DatedEntry {
	var out []*workfile.DatedEntry
	for _, r := range removed.Elements() {
		if r.Date.Equal(e.Date) && r.Rate.Equal(e.Rate) {
			out = append(out, r)
		}
	}
	return out
}

// hoursMatches returns the remaining removed instances sharing the entry's
// date and hours but not its rate.
func hoursMatches(e *workfile.DatedEntry, removed *Multiset[*workfile.DatedEntry]) []*workfile.DatedEntry {
	var out []*workfile.DatedEntry
	for _, r := range removed.Elements() {
		if r.Date.Equal(e.Date) && r.Hours.Equal(e.Hours) && !r.Rate.Equal(e.Rate) {
			out = append(out, r)
		}
	}
	return out
}

// dateOnlyMatches returns the remaining removed instances sharing only the
// entry's date.
func dateOnlyMatches(e *workfile.DatedEntry, removed *Multiset[*workfile.DatedEntry]) []*workfile.DatedEntry {
	var out []*workfile.DatedEntry
	for _, r := range removed.Elements() {
		if r.Date.Equal(e.Date) && !r.Hours.Equal(e.Hours) && !r.Rate.Equal(e.Rate) {
			out = append(out, r)
		}
	}
	return out
}

func sumHours(entries []*workfile.DatedEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Hours)
	}
	return total
}

func renderEntries(entries []*workfile.DatedEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.String())
	}
	return out
}
