package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a VOC error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"   // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"         // 404
	ErrBatchTooLarge   ErrorCode = "BATCH_TOO_LARGE"   // 413
	ErrCommentTooLarge ErrorCode = "COMMENT_TOO_LARGE" // 413
	ErrInvalidTaxonomy ErrorCode = "INVALID_TAXONOMY"  // 422
	ErrInternal        ErrorCode = "INTERNAL"          // 500
)

// VOCError represents a structured error with code, status, and details.
type VOCError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *VOCError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *VOCError {
	return &VOCError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for an unknown resource.
func NewNotFound(what string) *VOCError {
	return &VOCError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", what),
		Details: map[string]any{"identifier": what},
	}
}

// NewBatchTooLarge creates a 413 error when a batch has too many comments.
func NewBatchTooLarge(max, actual int) *VOCError {
	return &VOCError{
		Code:    ErrBatchTooLarge,
		Status:  413,
		Message: fmt.Sprintf("batch exceeds maximum size: %d comments (max %d)", actual, max),
		Details: map[string]any{"max_comments": max, "actual_comments": actual},
	}
}

// NewCommentTooLarge creates a 413 error when a single comment is too long.
func NewCommentTooLarge(line, max, actual int) *VOCError {
	return &VOCError{
		Code:    ErrCommentTooLarge,
		Status:  413,
		Message: fmt.Sprintf("comment %d exceeds maximum length: %d chars (max %d)", line, actual, max),
		Details: map[string]any{"comment": line, "max_chars": max, "actual_chars": actual},
	}
}

// NewInvalidTaxonomy creates a 422 error for a taxonomy that fails to load or validate.
func NewInvalidTaxonomy(err error) *VOCError {
	return &VOCError{
		Code:    ErrInvalidTaxonomy,
		Status:  422,
		Message: fmt.Sprintf("invalid taxonomy: %v", err),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *VOCError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &VOCError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error (or any error it wraps) is a VOCError with the given code.
func Is(err error, code ErrorCode) bool {
	var vErr *VOCError
	if stderrors.As(err, &vErr) {
		return vErr.Code == code
	}
	return false
}
