// Package dotdir manages the .parley/ and ~/.parley directories where
// persistent configuration and the chat history database live.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the parley directory.
	dirName = ".parley"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .parley/ directory.
// Order of precedence is as follows:
//  1. Provided override (created if missing)
//  2. Local ./.parley/ dir
//  3. Home ~/.parley/ dir
//
// Returns an empty string when no override is given and neither directory
// exists; callers fall back to defaults in that case.
func (m *Manager) Target(overrideDir string) (string, error) {
	if overrideDir != "" {
		if err := os.MkdirAll(overrideDir, 0o755); err != nil {
			return "", fmt.Errorf("creating parley directory %s: %w", overrideDir, err)
		}
		return filepath.Abs(overrideDir)
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, dirName)
		if dirExists(local) {
			return filepath.Abs(local)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	inHome := filepath.Join(home, dirName)
	if dirExists(inHome) {
		return filepath.Abs(inHome)
	}

	return "", nil
}

// Ensure resolves the target directory like Target, but creates ~/.parley
// when nothing exists yet. Used by commands that need somewhere to write.
func (m *Manager) Ensure(overrideDir string) (string, error) {
	target, err := m.Target(overrideDir)
	if err != nil || target != "" {
		return target, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating parley directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
