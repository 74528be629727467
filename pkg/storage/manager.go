package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Manager handles writes into the image download directory.
type Manager struct {
	dir string
}

// NewManager creates a Manager, creating the directory if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the managed directory.
func (m *Manager) Dir() string { return m.dir }

// Filename builds the name an attachment is saved under:
// the message's local timestamp, the attachment index within the message,
// the sender's nickname and the media extension.
func (m *Manager) Filename(sentAt time.Time, index int, nickname, ext string) string {
	return fmt.Sprintf("%s.%d.%s.%s", sentAt.Format("2006-01-02T15_04_05"), index, nickname, ext)
}

// Exists reports whether a file of that name is already present.
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(m.dir, name))
	return err == nil
}

// Save writes the reader's content under name, via a temporary file so a
// failed download never leaves a truncated image behind.
func (m *Manager) Save(name string, r io.Reader) error {
	path := filepath.Join(m.dir, name)
	tempPath := path + ".tmp"

	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write image data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temporary file: %w", closeErr)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to finalize image file: %w", err)
	}
	return nil
}
