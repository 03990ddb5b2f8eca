package dashboard

import (
	"errors"
	"fmt"
)

// Domain-level error values returned by the dashboard engine and its sources.
var (
	ErrSourceUnavailable    = errors.New("source unavailable")
	ErrSnapshotNotReady     = errors.New("snapshot not ready")
	ErrInvalidBranchID      = errors.New("invalid branch id")
	ErrInvalidBalanceRange  = errors.New("invalid balance range")
	ErrInvalidAccountStatus = errors.New("invalid account status")
	ErrInvalidYear          = errors.New("invalid year")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidSortField     = errors.New("invalid sort field")
	ErrInvalidSortDirection = errors.New("invalid sort direction")
	ErrInvalidPage          = errors.New("invalid page")
	ErrInvalidPageSize      = errors.New("invalid page size")
	ErrInvalidServiceConfig = errors.New("invalid service config")
)

// OperationError wraps a failure with a stable operation code.
type OperationError struct {
	operation string
	subject   string
	code      string
	err       error
}

// Error returns the formatted error message.
func (operationError OperationError) Error() string {
	return fmt.Sprintf("%s.%s.%s: %v", operationError.operation, operationError.subject, operationError.code, operationError.err)
}

// Unwrap returns the underlying error.
func (operationError OperationError) Unwrap() error {
	return operationError.err
}

// Operation returns the operation segment.
func (operationError OperationError) Operation() string {
	return operationError.operation
}

// Subject returns the subject segment.
func (operationError OperationError) Subject() string {
	return operationError.subject
}

// Code returns the stable error code segment.
func (operationError OperationError) Code() string {
	return operationError.code
}

// WrapError wraps an error with operation, subject, and code metadata.
func WrapError(operation string, subject string, code string, err error) error {
	if err == nil {
		return nil
	}
	return OperationError{
		operation: operation,
		subject:   subject,
		code:      code,
		err:       err,
	}
}
