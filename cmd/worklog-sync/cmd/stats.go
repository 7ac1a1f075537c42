package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/worklog-sync/pkg/config"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/db"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/pathutil"
)

var statsLimit int

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display merge statistics",
	Long: `Display statistics about past reconciliation runs.

Shows:
- Total number of runs and merged sections
- Total entries added, removed and adjusted
- The most recent merges

Example:
  worklog-sync stats`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsLimit, "recent", 10, "Number of recent merges to list")
}

func runStats(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	// Validate required fields
	if err := cfg.Validate([]string{"workfile", "path"}); err != nil {
		exitOnError(err, "invalid configuration")
	}

	// Initialize PathResolver
	pathResolver := pathutil.New(pathutil.Config{
		WorkfilePath: cfg.Workfile.Path,
		DatabasePath: cfg.Workfile.DBPath,
		InvoiceDir:   cfg.Invoice.Dir,
	})

	// Open database connection
	dbPath := pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)

	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	history := db.NewMergeHistory(conn)

	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	fmt.Println("\n=== Merge Statistics ===")
	fmt.Printf("Total runs:            %d\n", stats.TotalRuns)
	fmt.Printf("Total merged sections: %d\n", stats.TotalSections)
	fmt.Printf("Entries added:         %d\n", stats.TotalAdded)
	fmt.Printf("Entries removed:       %d\n", stats.TotalRemoved)
	fmt.Printf("Entries adjusted:      %d\n", stats.TotalAdjusted)

	if stats.LastMerge.Valid {
		fmt.Printf("Last merge:            %s\n", stats.LastMerge.String)
	} else {
		fmt.Printf("Last merge:            (never)\n")
	}

	lastRun, err := history.GetMetadata(db.LastRunKey)
	exitOnError(err, "failed to get last run")
	if lastRun != "" {
		fmt.Printf("Last run:              %s\n", lastRun)
	}

	fmt.Println()

	recent, err := history.GetRecentMerges(statsLimit)
	exitOnError(err, "failed to get recent merges")

	if len(recent) > 0 {
		fmt.Println("=== Recent Merges ===")
		for _, record := range recent {
			fmt.Printf("%s  %-8s  %s (+%d -%d ~%d)\n",
				record.MergedAt.Format("2006-01-02 15:04"),
				record.SourceKind,
				record.SectionTitle,
				record.Added, record.Removed, record.Adjusted)
		}
		fmt.Println()
	}
}
