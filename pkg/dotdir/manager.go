// Package dotdir manages the .inkstone/ and ~/.inkstone directories.
//
// The resolved directory is the corpus root: it holds config.toml, the
// catalog.json sidecar, and any on-disk state owned by a vector store.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the inkstone directory.
	dirName = ".inkstone"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to an .inkstone/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.inkstone/ dir
//  3. Home ~/.inkstone/ dir
//  4. If none found, attempt to create ~/.inkstone/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating inkstone directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// localDirExists checks whether an .inkstone/ directory exists in the current
// working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
