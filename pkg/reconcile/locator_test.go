package reconcile

import (
	"errors"
	"testing"

	"github.com/shunichi-ikebuchi/worklog-sync/pkg/workfile"
)

func locatorWorkfile(t *testing.T) *workfile.Workfile {
	t.Helper()
	wf, err := workfile.ParseString(`# Algorithmique avancée avec L3 info
2024-01-08 2 80
2024-01-10 2 80

# Bases de données avec M1 MIAGE
2024-01-09 3 85`)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	return wf
}

func TestLocateSectionExact(t *testing.T) {
	wf := locatorWorkfile(t)

	fs, err := LocateSection(wf, day(1), day(31), "Bases de données avec M1 MIAGE")
	if err != nil {
		t.Fatalf("LocateSection returned error: %v", err)
	}
	if fs.Title() != "Bases de données avec M1 MIAGE" {
		t.Errorf("located title = %q", fs.Title())
	}
}

func TestLocateSectionApproximate(t *testing.T) {
	wf := locatorWorkfile(t)

	// One word slightly off; the rest matches exactly.
	fs, err := LocateSection(wf, day(1), day(31), "Algorithmiques avancée avec L3 info")
	if err != nil {
		t.Fatalf("LocateSection returned error: %v", err)
	}
	if fs.Title() != "Algorithmique avancée avec L3 info" {
		t.Errorf("located title = %q", fs.Title())
	}
}

func TestLocateSectionNotFound(t *testing.T) {
	wf := locatorWorkfile(t)

	_, err := LocateSection(wf, day(1), day(31), "Compilation avec M2")
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("error = %v, expected ErrSectionNotFound", err)
	}
}

func TestLocateSectionEmptyTitle(t *testing.T) {
	wf := locatorWorkfile(t)

	_, err := LocateSection(wf, day(1), day(31), "")
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("error = %v, expected ErrSectionNotFound", err)
	}
}

func TestLocateSectionOutsideWindow(t *testing.T) {
	wf := locatorWorkfile(t)

	_, err := LocateSection(wf, workfile.Date(2025, 6, 1), workfile.Date(2025, 7, 1), "Algorithmique avancée avec L3 info")
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("error = %v, expected ErrSectionNotFound", err)
	}
}
