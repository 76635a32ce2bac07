package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
)

// FormatForCLI formats an error for terminal display.
// Plain errors are wrapped as internal errors so every message carries a code.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	var fe *FileTreeError
	if !stderrors.As(err, &fe) {
		fe = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", fe.Message))

	if fe.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", fe.Suggestion))
	}

	sb.WriteString(fmt.Sprintf("  Code: %s\n", fe.Code))

	return sb.String()
}

// LogAttrs returns slog attributes describing err.
// Suitable as variadic args: logger.Error("scan failed", errors.LogAttrs(err)...).
func LogAttrs(err error) []any {
	if err == nil {
		return nil
	}

	var fe *FileTreeError
	if !stderrors.As(err, &fe) {
		return []any{slog.String("error", err.Error())}
	}

	attrs := []any{
		slog.String("error_code", fe.Code),
		slog.String("error", fe.Message),
		slog.String("category", string(fe.Category)),
		slog.String("severity", string(fe.Severity)),
	}
	if fe.Cause != nil {
		attrs = append(attrs, slog.String("cause", fe.Cause.Error()))
	}
	for k, v := range fe.Details {
		attrs = append(attrs, slog.String("detail_"+k, v))
	}
	return attrs
}
