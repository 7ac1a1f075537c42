// Package calendar turns a planning calendar into workfile sections. Events
// are grouped by course and the per-day durations are summed, so one taught
// day becomes one dated entry.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/worklog-sync/pkg/workfile"
)

// studentGroupPrefix is what the planning system prepends to the student list
// in event descriptions.
const studentGroupPrefix = "Groupe d'étudiants : "

// RateResolver maps a section title to its hourly rate.
type RateResolver func(title string) decimal.Decimal

type course struct {
	summary  string
	students string
	events   []*ics.VEvent
}

// Convert builds a workfile from the calendar, one section per
// (course, student group) pair. Sections appear in order of each course's
// last event; entries carry the total taught hours of their date.
func Convert(cal *ics.Calendar, rateFor RateResolver) (*workfile.Workfile, error) {
	courses, err := structureEvents(cal)
	if err != nil {
		return nil, err
	}

	wf := &workfile.Workfile{}
	for _, c := range courses {
		title := sectionTitle(c.summary, c.students)
		sec := workfile.NewSection(title)

		byDate, err := sumByDate(c.events)
		if err != nil {
			return nil, fmt.Errorf("course %q: %w", c.summary, err)
		}

		dates := make([]time.Time, 0, len(byDate))
		for d := range byDate {
			dates = append(dates, d)
		}
		sort.Slice(dates, func(a, b int) bool { return dates[a].Before(dates[b]) })

		for _, d := range dates {
			sec.Append(workfile.NewDatedEntry(d, byDate[d], rateFor(title)))
		}
		wf.Append(sec)
	}

	return wf, nil
}

// structureEvents deduplicates the calendar's events, sorts them by start
// time and groups them by (summary, description). Groups come out ordered by
// their last event's start, so the most recently planned course ends up last.
func structureEvents(cal *ics.Calendar) ([]course, error) {
	seen := make(map[string]bool)
	var events []*ics.VEvent
	for _, ev := range cal.Events() {
		raw := ev.Serialize()
		if seen[raw] {
			continue
		}
		seen[raw] = true
		events = append(events, ev)
	}

	starts := make(map[*ics.VEvent]time.Time, len(events))
	for _, ev := range events {
		start, err := ev.GetStartAt()
		if err != nil {
			return nil, fmt.Errorf("event without start time: %w", err)
		}
		starts[ev] = start
	}
	sort.SliceStable(events, func(a, b int) bool {
		return starts[events[a]].Before(starts[events[b]])
	})

	index := make(map[[2]string]int)
	var courses []course
	for _, ev := range events {
		key := [2]string{propValue(ev, ics.ComponentPropertySummary), propValue(ev, ics.ComponentPropertyDescription)}
		i, ok := index[key]
		if !ok {
			i = len(courses)
			index[key] = i
			courses = append(courses, course{summary: key[0], students: key[1]})
		}
		courses[i].events = append(courses[i].events, ev)
	}

	// Events are sorted, so each course's last event is its latest.
	sort.SliceStable(courses, func(a, b int) bool {
		lastA := starts[courses[a].events[len(courses[a].events)-1]]
		lastB := starts[courses[b].events[len(courses[b].events)-1]]
		return lastA.Before(lastB)
	})

	return courses, nil
}

// sumByDate totals event durations as decimal hours per start date.
func sumByDate(events []*ics.VEvent) (map[time.Time]decimal.Decimal, error) {
	byDate := make(map[time.Time]decimal.Decimal)
	for _, ev := range events {
		start, err := ev.GetStartAt()
		if err != nil {
			return nil, fmt.Errorf("event without start time: %w", err)
		}
		end, err := ev.GetEndAt()
		if err != nil {
			return nil, fmt.Errorf("event without end time: %w", err)
		}

		date := workfile.Date(start.Year(), start.Month(), start.Day())
		seconds := int64(end.Sub(start) / time.Second)
		hours := decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600))
		byDate[date] = byDate[date].Add(hours)
	}
	return byDate, nil
}

// sectionTitle renders the title comment for a course. Titles keep a leading
// space so the rendered comment reads "# Course avec Students".
func sectionTitle(summary, students string) string {
	if students == "" {
		return fmt.Sprintf(" %s", summary)
	}
	students = strings.TrimPrefix(students, studentGroupPrefix)
	return fmt.Sprintf(" %s avec %s", summary, students)
}

func propValue(ev *ics.VEvent, prop ics.ComponentProperty) string {
	p := ev.GetProperty(prop)
	if p == nil {
		return ""
	}
	return p.Value
}

// Window returns the reconciliation window covering the workfile's dates,
// widened to full weeks: the first date rounded back to Monday and the day
// after the last date rounded forward to Monday. Plannings are sent by whole
// weeks, so partial weeks mean missing data, not short weeks.
func Window(wf *workfile.Workfile) (start, end time.Time) {
	first := wf.FirstDate()
	last := wf.LastDate()
	if first.IsZero() {
		return first, last
	}

	start = first.AddDate(0, 0, -daysSinceMonday(first))
	end = last.AddDate(0, 0, 7-daysSinceMonday(last))
	return start, end
}

func daysSinceMonday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}
