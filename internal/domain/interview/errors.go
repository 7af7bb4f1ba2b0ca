package interview

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes interview failure semantics across the domain.
type ErrorCode string

const (
	CodeValidation     ErrorCode = "validation"
	CodeStateConflict  ErrorCode = "state_conflict"
	CodeUnauthorized   ErrorCode = "unauthorized"
	CodeNotFound       ErrorCode = "not_found"
	CodeGraphIntegrity ErrorCode = "graph_integrity"
	CodeInternal       ErrorCode = "internal"
)

// Error is the canonical interview domain error wrapper.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return msg
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a domain error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// ValidationError tags malformed or out-of-range caller input.
func ValidationError(message string) error {
	return NewError(CodeValidation, "", message, nil)
}

// StateConflictError tags an operation attempted in a state that forbids it.
func StateConflictError(message string) error {
	return NewError(CodeStateConflict, "", message, nil)
}

// UnauthorizedError deliberately carries the same wording for "not found"
// and "not yours" so callers cannot probe for session existence.
func UnauthorizedError(message string) error {
	return NewError(CodeUnauthorized, "", message, nil)
}

// NotFoundError tags a missing entity on a path where existence may leak.
func NotFoundError(message string) error {
	return NewError(CodeNotFound, "", message, nil)
}

// GraphIntegrityError tags dangling or cyclic step dependencies.
func GraphIntegrityError(message string) error {
	return NewError(CodeGraphIntegrity, "", message, nil)
}

// InternalError tags a failure the caller cannot act on.
func InternalError(message string) error {
	return NewError(CodeInternal, "", message, nil)
}

// Wrap annotates an existing error with the operation that observed it. A
// classified domain error keeps its code and message; anything else becomes
// an internal error.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var domErr *Error
	if errors.As(err, &domErr) {
		return &Error{Code: domErr.Code, Op: strings.TrimSpace(op), Message: domErr.Message, Cause: err}
	}
	return &Error{Code: CodeInternal, Op: strings.TrimSpace(op), Message: err.Error(), Cause: err}
}

// IsCode checks whether err (or a wrapped err) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var domErr *Error
	if !errors.As(err, &domErr) {
		return false
	}
	return domErr.Code == code
}

// CodeOf extracts the domain error code when available.
func CodeOf(err error) ErrorCode {
	var domErr *Error
	if !errors.As(err, &domErr) {
		return ""
	}
	return domErr.Code
}

// MessageOf extracts the stable user-facing message when available.
func MessageOf(err error) string {
	var domErr *Error
	if !errors.As(err, &domErr) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	if domErr.Message != "" {
		return domErr.Message
	}
	return domErr.Error()
}
