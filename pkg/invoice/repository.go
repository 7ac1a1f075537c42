package invoice

import (
	"fmt"
	"os"
)

// Repository defines filesystem operations on invoice files, following the
// same write-back protocol as the workfile repository. Promote tolerates a
// missing original: a new invoice may be created from a template file, in
// which case there is nothing to back up.
type Repository interface {
	Load(path string) (*Invoice, error)
	WriteNew(path string, inv *Invoice) (string, error)
	Promote(path string) error
	DiscardNew(path string) error
}

// FileSystemRepository is the filesystem implementation of Repository.
type FileSystemRepository struct{}

// NewFileSystemRepository creates a new FileSystemRepository.
func NewFileSystemRepository() *FileSystemRepository {
	return &FileSystemRepository{}
}

// Load reads and parses the invoice at path.
func (r *FileSystemRepository) Load(path string) (*Invoice, error) {
	return Load(path)
}

// WriteNew writes the rendered invoice to path+".new" and returns the path
// written.
func (r *FileSystemRepository) WriteNew(path string, inv *Invoice) (string, error) {
	newPath := path + ".new"
	if err := os.WriteFile(newPath, []byte(inv.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", newPath, err)
	}
	return newPath, nil
}

// Promote replaces the original file with the ".new" version, keeping the
// original as ".bak" when it exists.
func (r *FileSystemRepository) Promote(path string) error {
	if err := os.Rename(path, path+".bak"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to back up %s: %w", path, err)
	}
	if err := os.Rename(path+".new", path); err != nil {
		return fmt.Errorf("failed to move new version into place: %w", err)
	}
	return nil
}

// DiscardNew removes the ".new" file if present.
func (r *FileSystemRepository) DiscardNew(path string) error {
	err := os.Remove(path + ".new")
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s.new: %w", path, err)
	}
	return nil
}
