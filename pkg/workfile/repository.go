package workfile

import (
	"fmt"
	"os"
)

// Repository defines filesystem operations on workfiles.
//
// Updates follow a write-back protocol: the new version is written next to
// the original with a ".new" suffix, the caller may preview a diff and ask
// for confirmation, and Promote then moves the original to ".bak" and the
// new version into place. The original is never modified directly.
type Repository interface {
	// Load reads and parses the workfile at path
	Load(path string) (*Workfile, error)

	// WriteNew writes the workfile to path+".new" and returns that path
	WriteNew(path string, wf *Workfile) (string, error)

	// Promote moves path to path+".bak" and path+".new" to path
	Promote(path string) error

	// DiscardNew removes a leftover path+".new" file
	DiscardNew(path string) error
}

// FileSystemRepository is the filesystem implementation of Repository.
type FileSystemRepository struct{}

// NewFileSystemRepository creates a new FileSystemRepository.
func NewFileSystemRepository() *FileSystemRepository {
	return &FileSystemRepository{}
}

// Load reads and parses the workfile at path.
func (r *FileSystemRepository) Load(path string) (*Workfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workfile: %w", err)
	}
	defer f.Close()

	wf, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse workfile %s: %w", path, err)
	}
	return wf, nil
}

// WriteNew writes the serialized workfile to path+".new" and returns the
// path written. The trailing blank line keeps the last section terminated.
func (r *FileSystemRepository) WriteNew(path string, wf *Workfile) (string, error) {
	newPath := path + ".new"
	content := wf.String() + "\n\n"
	if err := os.WriteFile(newPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", newPath, err)
	}
	return newPath, nil
}

// Promote replaces the original file with the ".new" version, keeping the
// original as ".bak".
func (r *FileSystemRepository) Promote(path string) error {
	if err := os.Rename(path, path+".bak"); err != nil {
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
