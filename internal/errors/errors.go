package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
)

// FileTreeError is the structured error type for filetree.
// It carries enough context for logging, CLI output and HTTP status mapping.
type FileTreeError struct {
	// Code is the unique error code (e.g., "ERR_201_ROOT_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Sentinel targets for errors.Is. A FileTreeError matches these by condition
// rather than by exact code.
var (
	// ErrRootNotAccessible matches scan failures on the requested root path.
	ErrRootNotAccessible = stderrors.New("root not accessible")

	// ErrWatchFailed matches failures establishing a watch subscription.
	ErrWatchFailed = stderrors.New("watch subscription failed")

	// ErrNotFound matches any not-found condition (root or file).
	ErrNotFound = stderrors.New("not found")
)

// Error implements the error interface.
func (e *FileTreeError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *FileTreeError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code or condition.
func (e *FileTreeError) Is(target error) bool {
	if t, ok := target.(*FileTreeError); ok {
		return e.Code == t.Code
	}
	switch target {
	case ErrRootNotAccessible:
		return e.Code == ErrCodeRootNotFound || e.Code == ErrCodeRootPermission
	case ErrWatchFailed:
		return e.Code == ErrCodeWatchFailed
	case ErrNotFound:
		return e.Code == ErrCodeRootNotFound || e.Code == ErrCodeFileNotFound
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *FileTreeError) WithDetail(key, value string) *FileTreeError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *FileTreeError) WithSuggestion(suggestion string) *FileTreeError {
	e.Suggestion = suggestion
	return e
}

// New creates a new FileTreeError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *FileTreeError {
	return &FileTreeError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a FileTreeError from an existing error.
// The error's message becomes the FileTreeError message.
func Wrap(code string, err error) *FileTreeError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// RootError classifies a failure to open or stat a scan root.
// Missing paths map to ERR_201, permission failures to ERR_202 and anything
// else to ERR_201 as well, since the root is unusable either way.
func RootError(path string, err error) *FileTreeError {
	code := ErrCodeRootNotFound
	msg := fmt.Sprintf("root path not found: %s", path)
	if stderrors.Is(err, fs.ErrPermission) {
		code = ErrCodeRootPermission
		msg = fmt.Sprintf("permission denied reading root path: %s", path)
	}
	return New(code, msg, err).WithDetail("path", path)
}

// FileError classifies a failure to read or write a single file.
func FileError(path string, err error) *FileTreeError {
	if stderrors.Is(err, fs.ErrNotExist) {
		return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), err).
			WithDetail("path", path)
	}
	return New(ErrCodeFileWrite, fmt.Sprintf("file operation failed: %s", path), err).
		WithDetail("path", path)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *FileTreeError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *FileTreeError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *FileTreeError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var fe *FileTreeError
	if stderrors.As(err, &fe) {
		return fe.Retryable
	}
	return false
}

// GetCode extracts the error code from a FileTreeError anywhere in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var fe *FileTreeError
	if stderrors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// GetCategory extracts the category from a FileTreeError.
func GetCategory(err error) Category {
	var fe *FileTreeError
	if stderrors.As(err, &fe) {
		return fe.Category
	}
	return ""
}
