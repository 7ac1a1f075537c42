package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/worklog-sync/pkg/config"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/db"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/invoice"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/pathutil"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/reconcile"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/workfile"
)

var (
	sectionTitle    string
	invoiceFile     string
	invoiceTemplate string
	invShowDiff     bool
	invWrite        bool
	invForce        bool
)

// invoiceCmd represents the invoice command.
var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Update an invoice from a workfile section",
	Long: `Update a LaTeX invoice file so its items represent exactly the entries
of a workfile section.

This command:
1. Finds the section with the given title, approximately if needed
2. Rewrites the invoice items to represent the section's entries
3. Writes the result next to the invoice as {invoice}.new
4. On --write, backs up the invoice and moves the new version in place

A new invoice can be created from a template with --template.

Example:
  worklog-sync invoice -s "Algorithmique avec L3 info" -f 12_facture.tex --show-diff
  worklog-sync invoice -s "Algorithmique avec L3 info" -f 13_facture.tex -t modele.tex --write`,
	Run: runInvoice,
}

func init() {
	// Flags
	invoiceCmd.Flags().StringVarP(&sectionTitle, "section-title", "s", "", "Title of the workfile section to bill (required)")
	invoiceCmd.Flags().StringVarP(&invoiceFile, "invoice-file", "f", "", "Invoice file to update (required)")
	invoiceCmd.Flags().StringVarP(&invoiceTemplate, "template", "t", "", "Template for creating a new invoice")
	invoiceCmd.Flags().BoolVarP(&invShowDiff, "show-diff", "d", false, "Show the changes ready to be applied")
	invoiceCmd.Flags().BoolVar(&invWrite, "write", false, "Overwrite the invoice with the new version")
	invoiceCmd.Flags().BoolVar(&invForce, "force", false, "With --write, write without asking for confirmation")

	invoiceCmd.MarkFlagRequired("section-title")
	invoiceCmd.MarkFlagRequired("invoice-file")
}

// recentWindow returns the window used to look up billable sections: roughly
// the last quarter plus the upcoming month.
func recentWindow() (start, end time.Time) {
	now := time.Now()
	today := workfile.Date(now.Year(), now.Month(), now.Day())
	return today.AddDate(0, 0, -91), today.AddDate(0, 0, 30)
}

func runInvoice(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	// Validate required fields
	if err := cfg.Validate([]string{"workfile", "path"}); err != nil {
		exitOnError(err, "invalid configuration")
	}

	rates := loadRates(cfg)

	if invForce && !invWrite {
		slog.Info("--force used without --write is ignored")
	}
	if invWrite && !invForce && !invShowDiff {
		slog.Debug("--write will ask for confirmation, enabling --show-diff")
		invShowDiff = true
	}

	slog.Info("Reading workfile", "path", cfg.Workfile.Path)
	wfRepo := workfile.NewFileSystemRepository()
	wf, err := wfRepo.Load(cfg.Workfile.Path)
	exitOnError(err, "failed to read workfile")

	start, end := recentWindow()
	located, err := reconcile.LocateSection(wf, start, end, sectionTitle)
	exitOnError(err, "failed to find section")
	if located.Title() != sectionTitle {
		slog.Info("Matched section approximately", "title", located.Title())
	}

	pathResolver := pathutil.New(pathutil.Config{
		WorkfilePath: cfg.Workfile.Path,
		DatabasePath: cfg.Workfile.DBPath,
		InvoiceDir:   cfg.Invoice.Dir,
	})
	invoicePath := pathResolver.GetInvoicePath(invoiceFile)

	// A template means we are creating the invoice file, not updating it.
	sourcePath := invoicePath
	if invoiceTemplate != "" {
		sourcePath = pathResolver.GetInvoicePath(invoiceTemplate)
	}

	slog.Info("Reading invoice", "path", sourcePath)
	invRepo := invoice.NewFileSystemRepository()
	inv, err := invRepo.Load(sourcePath)
	exitOnError(err, "failed to read invoice")

	report, err := reconcile.MergeInvoice(inv, located, reconcile.ItemDefaults{
		Unit: rates.InvoiceUnit(),
		VAT:  rates.InvoiceVAT(),
	})
	exitOnError(err, "failed to update invoice")
	logReport(report)

	newPath, err := invRepo.WriteNew(invoicePath, inv)
	exitOnError(err, "failed to write new invoice")

	if invShowDiff {
		exitOnError(showFileDiff(invoicePath, newPath), "failed to show diff")
	}

	if !invWrite {
		exitOnError(invRepo.DiscardNew(invoicePath), "failed to remove new invoice")
		return
	}

	if !invForce {
		if !confirm("Write these changes?") {
			slog.Info("Not writing the changes. New version still accessible", "path", newPath)
			return
		}
	}

	slog.Info("Writing changes", "path", invoicePath, "backup", invoicePath+".bak")
	exitOnError(invRepo.Promote(invoicePath), "failed to write invoice")

	recordMerges(cfg, db.SourceInvoice, invoicePath,
		start.Format("2006-01-02"), end.Format("2006-01-02"),
		[]*reconcile.Report{report})
}
