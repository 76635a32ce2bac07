// Package logging builds the slog loggers used by filetree.
//
// With --debug, structured JSON logs are written to ~/.filetree/logs/ with
// size-based rotation. Without it, only warnings reach stderr. In MCP stdio
// mode logs never touch stdout or stderr, since stdout carries the protocol.
//
// Loggers are returned to the caller and passed into components explicitly;
// this package never installs a process-wide default.
package logging
