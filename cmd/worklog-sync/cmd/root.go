// Package cmd provides CLI commands for worklog-sync.
package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/worklog-sync/pkg/diffview"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "worklog-sync",
	Short: "Reconcile planning and invoice data with a workfile",
	Long: `worklog-sync is a CLI tool that keeps a hand-edited workfile in sync
with a planning calendar and generates LaTeX invoices from it.

It supports:
- Merging an ICS planning feed into the workfile
- Updating invoice files from workfile sections
- Previewing every change as a diff before writing
- Recording merge history in SQLite

Example:
  worklog-sync sync --ics planning.ics --show-diff
  worklog-sync invoice -s "Algorithmique avec L3 info" -f 12_facture.tex --write`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(invoiceCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(statsCmd)
}

// Helper function to get config file path.
func getConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "" // Will use default .env loading
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}

// confirm asks the user a yes/no question on stdin. Anything but y is no.
func confirm(prompt string) bool {
	fmt.Printf("%s [yN] ", prompt)

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

// showFileDiff prints the colored unified diff between a file and its
// rewritten version. A missing original is treated as empty.
func showFileDiff(path, newPath string) error {
	old, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated, err := os.ReadFile(newPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", newPath, err)
	}

	diff, err := diffview.Unified(path, newPath, string(old), string(updated))
	if err != nil {
		return err
	}

	diffview.Fprint(os.Stdout, diff)
	return nil
}
