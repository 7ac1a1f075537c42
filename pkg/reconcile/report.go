package reconcile

// EventKind classifies a diagnostic event emitted by a cascade pass.
type EventKind string

// Diagnostic event kinds. Rate and date-only mismatches are diagnostics the
// engine proceeds past, not errors: the newly derived dates and quantities
// are trusted, the stale target entries are not.
const (
	// EventExactMatch reports an entry present on both sides that
	// cancelled in the multiset diff.
	EventExactMatch EventKind = "exact-match"

	// EventSumMatch reports a new entry whose quantity was exactly covered
	// by several existing entries with the same date and rate.
	EventSumMatch EventKind = "sum-match"

	// EventPartialFix reports an existing entry whose quantity was
	// adjusted in place, keeping its comment and position.
	EventPartialFix EventKind = "partial-fix"

	// EventShortfall reports a new entry inserted for the quantity not
	// covered by the consumed partial matches.
	EventShortfall EventKind = "shortfall-added"

	// EventOvertime reports partial matches exceeding the new entry's
	// quantity; nothing is consumed and the plain remove+add applies.
	EventOvertime EventKind = "overtime"

	// EventRateMismatch reports entries matching on date and quantity but
	// not rate. The source data carries no authoritative rate, so the
	// mismatch is ignored rather than corrected.
	EventRateMismatch EventKind = "rate-mismatch"

	// EventDateOnlyMatch reports entries matching only on date; the
	// normal remove+add applies.
	EventDateOnlyMatch EventKind = "date-only-match"

	// EventEntryAdded and EventEntryRemoved report the remainder applied
	// after the cascade.
	EventEntryAdded   EventKind = "entry-added"
	EventEntryRemoved EventKind = "entry-removed"

	// EventSectionAdded reports a new section appended because no
	// existing section matched.
	EventSectionAdded EventKind = "section-added"

	// EventSectionUnsorted reports a section left in its current order
	// because it mixes comments into its body.
	EventSectionUnsorted EventKind = "section-unsorted"
)

// Event is one structured diagnostic from a cascade pass. Entry is the
// rendered entry or item the pass was processing; Related holds the rendered
// counterparts it was matched against.
type Event struct {
	Kind    EventKind
	Entry   string
	Related []string
}

// Report is the outcome of one merge: what changed and the diagnostics
// produced along the way.
type Report struct {
	SectionTitle string
	Events       []Event

	// Added, Removed and Adjusted count the entries appended, deleted and
	// fixed in place.
	Added    int
	Removed  int
	Adjusted int

	// Changed reports whether the target was mutated at all.
	Changed bool
}

func (r *Report) event(kind EventKind, entry string, related ...string) {
	r.Events = append(r.Events, Event{Kind: kind, Entry: entry, Related: related})
}

// ByKind returns the events of the given kind.
func (r *Report) ByKind(kind EventKind) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
