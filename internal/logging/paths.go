package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.filetree/logs/).
// Falls back to the temp directory if home is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".filetree", "logs")
	}
	return filepath.Join(home, ".filetree", "logs")
}

// DefaultLogPath returns the default server log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "server.log")
}
