package cmd

import (
	"fmt"
	"log/slog"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/worklog-sync/pkg/calendar"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/config"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/db"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/pathutil"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/reconcile"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/workfile"
)

var (
	icsFile       string
	printPlanning bool
	syncShowDiff  bool
	syncWrite     bool
	syncForce     bool
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge a planning calendar into the workfile",
	Long: `Merge the entries of a planning calendar into the workfile.

This command:
1. Reads an ICS file or fetches the configured planning feed
2. Converts the events to workfile sections, one per course
3. Merges each section into the workfile over the planned weeks
4. Writes the result next to the workfile as {workfile}.new
5. On --write, backs up the workfile and moves the new version in place

Example:
  worklog-sync sync --ics planning.ics --show-diff
  worklog-sync sync --write`,
	Run: runSync,
}

func init() {
	// Flags
	syncCmd.Flags().StringVar(&icsFile, "ics", "", "ICS file to merge (default is the configured feed)")
	syncCmd.Flags().BoolVarP(&printPlanning, "print", "p", false, "Print the planning as a workfile")
	syncCmd.Flags().BoolVarP(&syncShowDiff, "show-diff", "d", false, "Show the changes ready to be applied")
	syncCmd.Flags().BoolVar(&syncWrite, "write", false, "Overwrite the workfile with the new version")
	syncCmd.Flags().BoolVarP(&syncForce, "force", "f", false, "With --write, write without asking for confirmation")
}

func runSync(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	// Validate required fields
	if err := cfg.Validate([]string{"workfile", "path"}); err != nil {
		exitOnError(err, "invalid configuration")
	}
	if icsFile == "" {
		if err := cfg.Validate([]string{"feed", "url"}); err != nil {
			exitOnError(err, "invalid configuration")
		}
	}

	rates := loadRates(cfg)

	// Read the planning
	var cal *ics.Calendar
	if icsFile != "" {
		slog.Info("Reading ics file", "path", icsFile)
		cal, err = calendar.Load(icsFile)
		exitOnError(err, "failed to read calendar")
	} else {
		slog.Info("Fetching planning feed", "url", cfg.Feed.URL)
		feed := calendar.NewFeed(calendar.FeedConfig{URL: cfg.Feed.URL, Timeout: cfg.Feed.Timeout})
		cal, err = feed.Fetch()
		exitOnError(err, "failed to fetch planning feed")
	}

	planning, err := calendar.Convert(cal, rates.RateFor)
	exitOnError(err, "failed to convert calendar")

	if printPlanning {
		fmt.Println(planning)
	}

	if len(planning.Sections) == 0 {
		slog.Warn("Planning contains no events, nothing to do")
		return
	}

	// Plannings are sent by full weeks, sometimes more than one at a time.
	start, end := calendar.Window(planning)
	slog.Debug("Reconciliation window", "start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"))

	if syncForce && !syncWrite {
		slog.Info("--force used without --write is ignored")
	}
	if syncWrite && !syncForce && !syncShowDiff {
		slog.Debug("--write will ask for confirmation, enabling --show-diff")
		syncShowDiff = true
	}

	workfilePath := cfg.Workfile.Path
	slog.Info("Reading workfile", "path", workfilePath)
	repo := workfile.NewFileSystemRepository()
	wf, err := repo.Load(workfilePath)
	exitOnError(err, "failed to read workfile")

	var reports []*reconcile.Report
	for _, sec := range planning.Sections {
		report, err := reconcile.MergeSection(wf, sec, start, end)
		if err != nil {
			slog.Error("Skipping section", "title", report.SectionTitle, "error", err)
			continue
		}
		logReport(report)
		reports = append(reports, report)
	}

	newPath, err := repo.WriteNew(workfilePath, wf)
	exitOnError(err, "failed to write new workfile")

	if syncShowDiff {
		exitOnError(showFileDiff(workfilePath, newPath), "failed to show diff")
	}

	if syncWrite && !syncForce {
		if !confirm("Write these changes?") {
			slog.Info("Not writing the changes. New version still accessible", "path", newPath)
			syncWrite = false
		}
	}

	if !syncWrite {
		return
	}

	slog.Info("Writing changes", "path", workfilePath, "backup", workfilePath+".bak")
	exitOnError(repo.Promote(workfilePath), "failed to write workfile")

	recordMerges(cfg, db.SourceCalendar, workfilePath, start.Format("2006-01-02"), end.Format("2006-01-02"), reports)
}

// loadRates builds the rate resolver from the configured rates file, falling
// back to a flat default rate.
func loadRates(cfg *config.Config) *config.Rates {
	if cfg.Workfile.RatesFile == "" {
		return config.DefaultRates(cfg.Workfile.DefaultRate)
	}

	rates, err := config.LoadRates(cfg.Workfile.RatesFile, cfg.Workfile.DefaultRate)
	exitOnError(err, "failed to load rates file")
	return rates
}

// logReport surfaces the diagnostics of one merged section.
func logReport(report *reconcile.Report) {
	for _, ev := range report.Events {
		switch ev.Kind {
		case reconcile.EventSumMatch, reconcile.EventPartialFix, reconcile.EventShortfall,
			reconcile.EventOvertime, reconcile.EventRateMismatch, reconcile.EventDateOnlyMatch:
			slog.Warn(string(ev.Kind), "section", report.SectionTitle, "entry", ev.Entry, "matches", ev.Related)
		default:
			slog.Debug(string(ev.Kind), "section", report.SectionTitle, "entry", ev.Entry)
		}
	}

	if report.Changed {
		slog.Info("Section updated", "title", report.SectionTitle,
			"added", report.Added, "removed", report.Removed, "adjusted", report.Adjusted)
	}
}

// recordMerges stores the changed sections of a run in the merge history.
func recordMerges(cfg *config.Config, kind db.SourceKind, targetFile, windowStart, windowEnd string, reports []*reconcile.Report) {
	pathResolver := pathutil.New(pathutil.Config{
		WorkfilePath: cfg.Workfile.Path,
		DatabasePath: cfg.Workfile.DBPath,
		InvoiceDir:   cfg.Invoice.Dir,
	})

	dbPath := pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)
	conn, err := db.Open(dbPath)
	if err != nil {
		slog.Error("Failed to open merge history database", "error", err)
		return
	}
	defer conn.Close()

	var records []db.MergeRecord
	for _, report := range reports {
		if !report.Changed {
			continue
		}
		records = append(records, db.MergeRecord{
			SourceKind:   kind,
			TargetFile:   targetFile,
			SectionTitle: report.SectionTitle,
			Added:        report.Added,
			Removed:      report.Removed,
			Adjusted:     report.Adjusted,
			WindowStart:  windowStart,
			WindowEnd:    windowEnd,
		})
	}
	if len(records) == 0 {
		return
	}

	history := db.NewMergeHistory(conn)
	if err := history.RecordRun(uuid.New().String(), records); err != nil {
		slog.Error("Failed to record run", "error", err)
	}
}
