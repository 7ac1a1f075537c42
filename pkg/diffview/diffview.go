// Package diffview renders colored unified diffs for previewing file
// rewrites before they are confirmed.
package diffview

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// Unified returns the unified diff between two file contents.
func Unified(fromFile, toFile, old, new string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(old),
		B:        difflib.SplitLines(new),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to compute diff: %w", err)
	}

	return text, nil
}

// Fprint writes the diff with additions in green, deletions in red and hunk
// headers in cyan.
func Fprint(w io.Writer, diff string) {
	added := color.New(color.FgGreen).SprintFunc()
	removed := color.New(color.FgRed).SprintFunc()
	hunk := color.New(color.FgCyan).SprintFunc()

	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "@@"):
			fmt.Fprint(w, hunk(line))
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(w, added(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(w, removed(line))
		default:
			fmt.Fprint(w, line)
		}
	}
}
