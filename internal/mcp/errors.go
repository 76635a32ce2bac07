// Package mcp exposes directory structures, stored files and generated
// projects as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"

	fterrors "github.com/Aman-CERP/filetree/internal/errors"
)

// Custom MCP error codes for filetree.
const (
	// ErrCodeRootNotAccessible indicates the scan root is missing or unreadable.
	ErrCodeRootNotAccessible = -32001

	// ErrCodeGeneratorUnavailable indicates the text generator could not be reached.
	ErrCodeGeneratorUnavailable = -32002

	// ErrCodeTimeout indicates the request timed out or was canceled.
	ErrCodeTimeout = -32003

	// ErrCodeFileNotFound indicates a stored file does not exist.
	ErrCodeFileNotFound = -32004

	// ErrCodeFileTooLarge indicates a file exceeds MaxFileSize.
	ErrCodeFileTooLarge = -32005

	// Standard JSON-RPC error codes.
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// MCPError represents an MCP protocol error with code and message.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// MapError converts internal errors to MCP errors.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr
	}

	var fe *fterrors.FileTreeError
	if errors.As(err, &fe) {
		return mapFileTreeError(fe)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request timed out."}
	case errors.Is(err, context.Canceled):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request was canceled."}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: "Internal server error."}
	}
}

// NewInvalidParamsError creates an error for invalid parameters with a custom message.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

func mapFileTreeError(fe *fterrors.FileTreeError) *MCPError {
	message := fe.Message
	if fe.Suggestion != "" {
		message = fmt.Sprintf("%s %s", fe.Message, fe.Suggestion)
	}

	switch fe.Category {
	case fterrors.CategoryIO:
		switch {
		case errors.Is(fe, fterrors.ErrRootNotAccessible):
			return &MCPError{Code: ErrCodeRootNotAccessible, Message: message}
		case fe.Code == fterrors.ErrCodeFileNotFound:
			return &MCPError{Code: ErrCodeFileNotFound, Message: message}
		}
		return &MCPError{Code: ErrCodeInternalError, Message: message}
	case fterrors.CategoryNetwork:
		if fe.Code == fterrors.ErrCodeGeneratorUnavailable {
			return &MCPError{Code: ErrCodeGeneratorUnavailable, Message: message}
		}
		return &MCPError{Code: ErrCodeTimeout, Message: message}
	case fterrors.CategoryValidation:
		return &MCPError{Code: ErrCodeInvalidParams, Message: message}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: message}
	}
}
