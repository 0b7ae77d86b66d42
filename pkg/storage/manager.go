package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"xscraper/pkg/errors"
	"xscraper/pkg/models"
)

const downloadStage = "download"

// Manager handles output directory setup, filename generation, and atomic
// file writes
type Manager struct {
	outputDir string
	// used tracks filenames claimed during this run so two entries
	// resolving within the same second get distinct names
	used map[string]bool
	mu   sync.Mutex
	// now is swappable for tests
	now func() time.Time
}

// NewManager creates a new storage manager, creating the output directory
// (including intermediate directories) if needed.
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.New(errors.ErrorTypeWrite, downloadStage,
			fmt.Sprintf("failed to create output directory: %v", err))
	}

	return &Manager{
		outputDir: outputDir,
		used:      make(map[string]bool),
		now:       time.Now,
	}, nil
}

// ClaimFilename reserves a filename for a media entry, following the
// twitter_<kind>_<unix-seconds>.<ext> scheme. When the base name is already
// claimed in this run or present on disk, a numeric suffix is appended
// before the extension.
func (m *Manager) ClaimFilename(kind models.MediaKind, ext string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ext == "" {
		ext = kind.Ext()
	}
	base := fmt.Sprintf("twitter_%s_%d", kind, m.now().Unix())

	name := fmt.Sprintf("%s.%s", base, ext)
	for n := 1; m.taken(name); n++ {
		name = fmt.Sprintf("%s_%d.%s", base, n, ext)
	}

	m.used[name] = true
	return name
}

// taken reports whether a filename is claimed in this run or exists on
// disk. Caller must hold the mutex.
func (m *Manager) taken(name string) bool {
	if m.used[name] {
		return true
	}
	_, err := os.Stat(filepath.Join(m.outputDir, name))
	return err == nil
}

// Save streams the reader's content to the named file. The data goes to a
// temporary file first and is renamed into place on success; a failed copy
// leaves no partial file behind.
func (m *Manager) Save(r io.Reader, filename string) (int64, error) {
	path := filepath.Join(m.outputDir, filename)
	tempFile := path + ".tmp"

	out, err := os.Create(tempFile)
	if err != nil {
		return 0, errors.New(errors.ErrorTypeWrite, downloadStage,
			fmt.Sprintf("failed to create temporary file: %v", err))
	}

	written, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return 0, errors.New(errors.ErrorTypeTransfer, downloadStage,
			fmt.Sprintf("transfer failed after %d bytes: %v", written, err))
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return 0, errors.New(errors.ErrorTypeWrite, downloadStage,
			fmt.Sprintf("failed to close file: %v", closeErr))
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return 0, errors.New(errors.ErrorTypeWrite, downloadStage,
			fmt.Sprintf("failed to rename temporary file: %v", err))
	}

	return written, nil
}

// Path returns the absolute location of a saved filename
func (m *Manager) Path(filename string) string {
	return filepath.Join(m.outputDir, filename)
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// SetClock overrides the timestamp source. Intended for tests that need
// same-second collisions.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}
