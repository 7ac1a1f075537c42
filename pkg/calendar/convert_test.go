package calendar

import (
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/worklog-sync/pkg/workfile"
)

func flatRate(rate string) RateResolver {
	r := decimal.RequireFromString(rate)
	return func(string) decimal.Decimal { return r }
}

func addEvent(cal *ics.Calendar, uid, summary, description string, start, end time.Time) {
	ev := cal.AddEvent(uid)
	ev.SetSummary(summary)
	if description != "" {
		ev.SetDescription(description)
	}
	ev.SetStartAt(start)
	ev.SetEndAt(end)
}

func at(day, hour, min int) time.Time {
	return time.Date(2024, time.January, day, hour, min, 0, 0, time.UTC)
}

func TestConvertGroupsAndSums(t *testing.T) {
	cal := ics.NewCalendar()
	addEvent(cal, "ev1", "Algorithmique", "Groupe d'étudiants : L3 info", at(10, 9, 0), at(10, 11, 0))
	addEvent(cal, "ev2", "Algorithmique", "Groupe d'étudiants : L3 info", at(10, 14, 0), at(10, 15, 30))
	addEvent(cal, "ev3", "Algorithmique", "Groupe d'étudiants : L3 info", at(12, 9, 0), at(12, 10, 0))

	wf, err := Convert(cal, flatRate("80"))
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	if len(wf.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(wf.Sections))
	}

	sec := wf.Sections[0]
	if sec.Title() != "Algorithmique avec L3 info" {
		t.Errorf("section title = %q", sec.Title())
	}

	entries := sec.DatedEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].Date.Equal(workfile.Date(2024, time.January, 10)) {
		t.Errorf("first entry date = %v", entries[0].Date)
	}
	if !entries[0].Hours.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("first entry hours = %v, expected 3.5", entries[0].Hours)
	}
	if !entries[1].Hours.Equal(decimal.RequireFromString("1")) {
		t.Errorf("second entry hours = %v, expected 1", entries[1].Hours)
	}
	if !entries[0].Rate.Equal(decimal.RequireFromString("80")) {
		t.Errorf("entry rate = %v, expected 80", entries[0].Rate)
	}
}

func TestConvertTitleWithoutStudents(t *testing.T) {
	cal := ics.NewCalendar()
	addEvent(cal, "ev1", "Réunion pédagogique", "", at(10, 9, 0), at(10, 10, 0))

	wf, err := Convert(cal, flatRate("80"))
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if got := wf.Sections[0].Title(); got != "Réunion pédagogique" {
		t.Errorf("section title = %q", got)
	}
}

func TestConvertDeduplicatesEvents(t *testing.T) {
	cal := ics.NewCalendar()
	addEvent(cal, "ev1", "Algorithmique", "L3", at(10, 9, 0), at(10, 11, 0))
	addEvent(cal, "ev1", "Algorithmique", "L3", at(10, 9, 0), at(10, 11, 0))

	wf, err := Convert(cal, flatRate("80"))
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	entries := wf.Sections[0].DatedEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].Hours.Equal(decimal.RequireFromString("2")) {
		t.Errorf("hours = %v, duplicated events should count once", entries[0].Hours)
	}
}

func TestConvertOrdersCoursesByLastEvent(t *testing.T) {
	cal := ics.NewCalendar()
	addEvent(cal, "ev1", "Cours tardif", "M1", at(8, 9, 0), at(8, 10, 0))
	addEvent(cal, "ev2", "Cours tardif", "M1", at(12, 9, 0), at(12, 10, 0))
	addEvent(cal, "ev3", "Cours fini", "M2", at(9, 9, 0), at(9, 10, 0))

	wf, err := Convert(cal, flatRate("80"))
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	if len(wf.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(wf.Sections))
	}
	if wf.Sections[0].Title() != "Cours fini avec M2" {
		t.Errorf("first section = %q, courses should be ordered by their last event", wf.Sections[0].Title())
	}
	if wf.Sections[1].Title() != "Cours tardif avec M1" {
		t.Errorf("second section = %q", wf.Sections[1].Title())
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name          string
		entries       string
		expectedStart time.Time
		expectedEnd   time.Time
	}{
		{
			"midweek range",
			"# Cours\n2024-01-10 2 80\n2024-01-12 1 80",
			workfile.Date(2024, time.January, 8),
			workfile.Date(2024, time.January, 15),
		},
		{
			"single monday",
			"# Cours\n2024-01-08 2 80",
			workfile.Date(2024, time.January, 8),
			workfile.Date(2024, time.January, 15),
		},
		{
			"sunday rounds back six days",
			"# Cours\n2024-01-14 2 80",
			workfile.Date(2024, time.January, 8),
			workfile.Date(2024, time.January, 15),
		},
		{
			"two weeks",
			"# Cours\n2024-01-10 2 80\n2024-01-17 1 80",
			workfile.Date(2024, time.January, 8),
			workfile.Date(2024, time.January, 22),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, err := workfile.ParseString(tt.entries)
			if err != nil {
				t.Fatalf("ParseString returned error: %v", err)
			}

			start, end := Window(wf)
			if !start.Equal(tt.expectedStart) {
				t.Errorf("start = %v, expected %v", start, tt.expectedStart)
			}
			if !end.Equal(tt.expectedEnd) {
				t.Errorf("end = %v, expected %v", end, tt.expectedEnd)
			}
		})
	}
}

func TestWindowEmptyWorkfile(t *testing.T) {
	start, end := Window(&workfile.Workfile{})
	if !start.IsZero() || !end.IsZero() {
		t.Errorf("Window of empty workfile = %v, %v, expected zero times", start, end)
	}
}
