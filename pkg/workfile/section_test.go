package workfile

import (
	"errors"
	"testing"
	"time"
)

func TestSectionTitle(t *testing.T) {
	tests := []struct {
		name     string
		section  *Section
		expected string
	}{
		{"leading space stripped", NewSection(" Cours A"), "Cours A"},
		{"only one space stripped", NewSection("  indenté"), " indenté"},
		{"no leading space", NewSection("Cours B"), "Cours B"},
		{"untitled", &Section{}, ""},
		{
			"dated entry first",
			&Section{Entries: []Entry{
				NewDatedEntry(Date(2024, time.January, 10), dec("2"), dec("80")),
				&CommentEntry{Text: " pas un titre"},
			}},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.section.Title(); got != tt.expected {
				t.Errorf("Title() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestSectionTitleCommentJoinsLeadingComments(t *testing.T) {
	sec := &Section{Entries: []Entry{
		&CommentEntry{Text: " Cours A"},
		&CommentEntry{Text: " semestre 2"},
		NewDatedEntry(Date(2024, time.January, 10), dec("2"), dec("80")),
	}}

	c := sec.TitleComment()
	if c == nil {
		t.Fatal("TitleComment() = nil")
	}
	if c.Text != " Cours A\n semestre 2" {
		t.Errorf("TitleComment().Text = %q", c.Text)
	}
}

func TestSectionDates(t *testing.T) {
	sec := NewSection(" Cours A")
	sec.Append(NewDatedEntry(Date(2024, time.January, 12), dec("2"), dec("80")))
	sec.Append(NewDatedEntry(Date(2024, time.January, 10), dec("1"), dec("80")))

	if got := sec.FirstDate(); !got.Equal(Date(2024, time.January, 10)) {
		t.Errorf("FirstDate() = %v", got)
	}
	if got := sec.LastDate(); !got.Equal(Date(2024, time.January, 12)) {
		t.Errorf("LastDate() = %v", got)
	}

	empty := NewSection(" vide")
	if !empty.FirstDate().IsZero() || !empty.LastDate().IsZero() {
		t.Error("expected zero dates for a section without entries")
	}
}

func TestSectionSort(t *testing.T) {
	sec := NewSection(" Cours A")
	sec.Append(NewDatedEntry(Date(2024, time.January, 12), dec("2"), dec("80")))
	sec.Append(NewDatedEntry(Date(2024, time.January, 10), dec("1"), dec("80")))
	sec.Append(NewDatedEntry(Date(2024, time.January, 10), dec("0.5"), dec("80")))

	if err := sec.Sort(); err != nil {
		t.Fatalf("Sort() returned error: %v", err)
	}

	expected := "# Cours A\n2024-01-10 0.5 80\n2024-01-10 1 80\n2024-01-12 2 80"
	if got := sec.String(); got != expected {
		t.Errorf("after Sort():\n%s\nexpected:\n%s", got, expected)
	}
}

func TestSectionSortWithBodyComment(t *testing.T) {
	sec := NewSection(" Cours A")
	sec.Append(NewDatedEntry(Date(2024, time.January, 12), dec("2"), dec("80")))
	sec.Append(&CommentEntry{Text: " pause"})
	sec.Append(NewDatedEntry(Date(2024, time.January, 10), dec("1"), dec("80")))

	before := sec.String()
	if err := sec.Sort(); !errors.Is(err, ErrUnsortable) {
		t.Fatalf("Sort() error = %v, expected ErrUnsortable", err)
	}
	if sec.String() != before {
		t.Error("Sort() modified the section despite failing")
	}
}

func TestSectionRemoveFirstKey(t *testing.T) {
	sec := NewSection(" Cours A")
	sec.Append(NewDatedEntry(Date(2024, time.January, 10), dec("2"), dec("80")))
	sec.Append(NewDatedEntry(Date(2024, time.January, 10), dec("2"), dec("80")))

	probe := NewDatedEntry(Date(2024, time.January, 10), dec("2.0"), dec("80"))
	if !sec.RemoveFirstKey(probe) {
		t.Fatal("RemoveFirstKey did not find a value-equal entry")
	}
	if len(sec.DatedEntries()) != 1 {
		t.Errorf("expected one entry left, got %d", len(sec.DatedEntries()))
	}

	missing := NewDatedEntry(Date(2024, time.February, 1), dec("2"), dec("80"))
	if sec.RemoveFirstKey(missing) {
		t.Error("RemoveFirstKey removed a non-existent entry")
	}
}
