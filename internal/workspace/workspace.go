// Package workspace manages the ephemeral work area for one pipeline run:
// the staging directory the compiler writes artifacts into and the local
// clone of the destination repository. Both live only for the duration of a
// successful run; a failed run deliberately leaves them behind for
// inspection.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Panquesito7/julec-ir/internal/logfields"
)

// Manager handles the work-area directories of one run.
type Manager struct {
	root       string
	stagingDir string
	destDir    string
}

// NewManager creates a manager rooted at root (the process working directory
// when empty), with the given staging and destination-clone directory names.
func NewManager(root, stagingDir, destDir string) *Manager {
	if root == "" {
		root = "."
	}
	return &Manager{root: root, stagingDir: stagingDir, destDir: destDir}
}

// CreateStaging creates an empty staging directory, replacing any leftover
// from an earlier failed run.
func (m *Manager) CreateStaging() error {
	p := m.StagingPath()
	if err := os.RemoveAll(p); err != nil {
		return fmt.Errorf("remove stale staging directory: %w", err)
	}
	if err := os.MkdirAll(p, 0o750); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	slog.Debug("Created staging directory", logfields.Path(p))
	return nil
}

// StagingPath returns the staging directory path.
func (m *Manager) StagingPath() string {
	return filepath.Join(m.root, m.stagingDir)
}

// DestPath returns the destination clone path.
func (m *Manager) DestPath() string {
	return filepath.Join(m.root, m.destDir)
}

// RemoveDest removes any leftover destination clone so a fresh shallow clone
// can land there.
func (m *Manager) RemoveDest() error {
	if err := os.RemoveAll(m.DestPath()); err != nil {
		return fmt.Errorf("remove stale destination clone: %w", err)
	}
	return nil
}

// Cleanup removes the staging directory and the destination clone. Only the
// success path calls this; failures keep both trees on disk.
func (m *Manager) Cleanup() error {
	for _, p := range []string{m.StagingPath(), m.DestPath()} {
		if err := os.RemoveAll(p); err != nil {
			return fmt.Errorf("cleanup %s: %w", p, err)
		}
		slog.Debug("Removed work directory", logfields.Path(p))
	}
	return nil
}
