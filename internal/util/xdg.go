package util

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "despertar"

// GetXDGDataDir returns the XDG data directory for despertar.
// It respects XDG_DATA_HOME if set, otherwise falls back to ~/.local/share/despertar
func GetXDGDataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share", appName), nil
}

// DefaultDatabaseURL returns a SQLite file URL inside the data directory,
// creating the directory when missing.
func DefaultDatabaseURL() (string, error) {
	dir, err := GetXDGDataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return "file:" + filepath.Join(dir, appName+".db"), nil
}
