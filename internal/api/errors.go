package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	fterrors "github.com/Aman-CERP/filetree/internal/errors"
)

type apiError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Code    string `json:"code"`
}

type apiHandler func(http.ResponseWriter, *http.Request) *apiError

// statusForCode maps error codes onto HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case fterrors.ErrCodeRootNotFound, fterrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case fterrors.ErrCodeRootPermission:
		return http.StatusForbidden
	case fterrors.ErrCodeInvalidInput, fterrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case fterrors.ErrCodeGeneratorUnavailable, fterrors.ErrCodeNetworkTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// toAPIError converts any error into the JSON error body.
func toAPIError(err error) *apiError {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return &apiError{Status: http.StatusServiceUnavailable, Message: err.Error(), Code: "cancelled"}
	}
	var fe *fterrors.FileTreeError
	if stderrors.As(err, &fe) {
		return &apiError{Status: statusForCode(fe.Code), Message: fe.Message, Code: fe.Code}
	}
	return &apiError{Status: http.StatusInternalServerError, Message: err.Error(), Code: fterrors.ErrCodeInternal}
}

func badRequest(msg string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Message: msg, Code: fterrors.ErrCodeInvalidInput}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, err *apiError) {
	if err == nil {
		return
	}
	writeJSON(w, err.Status, err)
}
