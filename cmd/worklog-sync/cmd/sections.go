package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/worklog-sync/pkg/approx"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/config"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/workfile"
)

var sectionsTitle string

// sectionsCmd represents the sections command.
var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List recent workfile sections",
	Long: `List the workfile sections with entries in roughly the last quarter,
with the date range of their entries.

With --title, each section also shows its matching score against the given
title, lowest (best) first. This helps picking the exact title for the
invoice command.

Example:
  worklog-sync sections
  worklog-sync sections --title "Algorithmique"`,
	Run: runSections,
}

func init() {
	sectionsCmd.Flags().StringVarP(&sectionsTitle, "title", "s", "", "Title to score the sections against")
}

func runSections(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	// Validate required fields
	if err := cfg.Validate([]string{"workfile", "path"}); err != nil {
		exitOnError(err, "invalid configuration")
	}

	repo := workfile.NewFileSystemRepository()
	wf, err := repo.Load(cfg.Workfile.Path)
	exitOnError(err, "failed to read workfile")

	start, end := recentWindow()
	sections := wf.Filter(start, end).Sections()

	if sectionsTitle == "" {
		for _, sec := range sections {
			fmt.Printf("%s - %s: %s\n", formatDate(sec.Section.FirstDate()), formatDate(sec.Section.LastDate()), sec.Title())
		}
		return
	}

	scores := make(map[string]int, len(sections))
	for _, sec := range sections {
		scores[sec.Title()] = approx.Score(sectionsTitle, sec.Title())
	}
	sort.SliceStable(sections, func(a, b int) bool {
		return scores[sections[a].Title()] < scores[sections[b].Title()]
	})

	for _, sec := range sections {
		fmt.Printf("%s - %s: score %2d: %s\n",
			formatDate(sec.Section.FirstDate()), formatDate(sec.Section.LastDate()),
			scores[sec.Title()], sec.Title())
	}
}

func formatDate(d time.Time) string {
	if d.IsZero() {
		return "          "
	}
	return d.Format("2006-01-02")
}
