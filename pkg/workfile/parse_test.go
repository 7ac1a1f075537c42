package workfile

import (
	"strings"
	"testing"
	"time"
)

const sampleWorkfile = `# Cours A
2024-01-10 2 80
2024-01-11 1.50 80  #demi-groupe

# Cours B avec M2
2024-01-12 3 85`

func TestParseRoundTrip(t *testing.T) {
	wf, err := ParseString(sampleWorkfile)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}

	if got := wf.String(); got != sampleWorkfile {
		t.Errorf("round trip mismatch:\n%s\nexpected:\n%s", got, sampleWorkfile)
	}
}

func TestParseStructure(t *testing.T) {
	wf, err := ParseString(sampleWorkfile)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}

	if len(wf.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(wf.Sections))
	}

	first := wf.Sections[0]
	if first.Title() != "Cours A" {
		t.Errorf("first section title = %q", first.Title())
	}

	entries := first.DatedEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].Date.Equal(Date(2024, time.January, 10)) {
		t.Errorf("first entry date = %v", entries[0].Date)
	}
	if !entries[1].Hours.Equal(dec("1.5")) {
		t.Errorf("second entry hours = %v", entries[1].Hours)
	}
	if !entries[1].HasComment || entries[1].Comment != "demi-groupe" {
		t.Errorf("second entry comment = %q", entries[1].Comment)
	}
	if entries[1].Prespaces != 2 {
		t.Errorf("second entry prespaces = %d, expected 2", entries[1].Prespaces)
	}

	if wf.Sections[1].Title() != "Cours B avec M2" {
		t.Errorf("second section title = %q", wf.Sections[1].Title())
	}
}

func TestParseBlankLinesCollapse(t *testing.T) {
	wf, err := ParseString("# A\n2024-01-10 2 80\n\n\n\n# B\n2024-01-11 1 80\n")
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	if len(wf.Sections) != 2 {
		t.Errorf("expected 2 sections, got %d", len(wf.Sections))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few fields", "2024-01-10 2"},
		{"bad date", "2024-13-40 2 80"},
		{"bad hours", "2024-01-10 two 80"},
		{"bad rate", "2024-01-10 2 eighty"},
		{"trailing text without marker", "2024-01-10 2 80 note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.line)
			if err == nil {
				t.Errorf("ParseString(%q) succeeded, expected error", tt.line)
			}
			if err != nil && !strings.Contains(err.Error(), "line 1") {
				t.Errorf("error %q does not carry the line number", err)
			}
		})
	}
}
