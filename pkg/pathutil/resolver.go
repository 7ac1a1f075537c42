// Package pathutil provides centralized path management for workfile, invoice
// and database files.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathResolver manages paths for the workfile, database, and invoices.
type PathResolver struct {
	workfilePath string
	databasePath string
	invoiceDir   string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// WorkfilePath is the path to the hand-edited workfile (required)
	WorkfilePath string
	// DatabasePath is the path to the SQLite database file for merge history
	DatabasePath string
	// InvoiceDir is the directory holding the LaTeX invoices
	InvoiceDir string
}

// New creates a new PathResolver with the given configuration.
// If DatabasePath is empty, it defaults to {workfile dir}/.worklog/sync.db
// If InvoiceDir is empty, it defaults to the workfile's directory.
func New(config Config) *PathResolver {
	workDir := filepath.Dir(config.WorkfilePath)

	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(workDir, ".worklog", "sync.db")
	}

	invoiceDir := config.InvoiceDir
	if invoiceDir == "" {
		invoiceDir = workDir
	}

	return &PathResolver{
		workfilePath: config.WorkfilePath,
		databasePath: dbPath,
		invoiceDir:   invoiceDir,
	}
}

// GetWorkfilePath returns the workfile path.
func (p *PathResolver) GetWorkfilePath() string {
	return p.workfilePath
}

// GetDatabasePath returns the database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetInvoiceDir returns the invoice directory.
func (p *PathResolver) GetInvoiceDir() string {
	return p.invoiceDir
}

// GetInvoicePath returns the path of an invoice file inside the invoice
// directory. Absolute names are kept as-is.
func (p *PathResolver) GetInvoicePath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.invoiceDir, filename)
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	return p.EnsureDir(dir)
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// IsDir checks if a path is a directory.
func (p *PathResolver) IsDir(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}
