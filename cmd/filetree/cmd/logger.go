package cmd

import (
	"log/slog"

	"github.com/Aman-CERP/filetree/internal/logging"
)

// cliLogger returns the debug file logger under --debug, and a warn-level
// stderr logger otherwise so stdout stays clean for command output.
func cliLogger() *slog.Logger {
	if debugMode {
		return slog.Default()
	}
	return logging.Stderr("warn")
}
