package txn

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes session stack errors.
type ErrorCode string

const (
	// ErrCodeNoTransaction indicates ROLLBACK with no open session.
	ErrCodeNoTransaction ErrorCode = "NO_TRANSACTION"

	// ErrCodeInvalidLookback indicates a dedup window that is not > 1.
	ErrCodeInvalidLookback ErrorCode = "INVALID_LOOKBACK"
)

// Error is returned by Stack operations.
type Error struct {
	Code    ErrorCode
	Message string
}

// ErrNoTransaction is returned by Rollback when the stack is empty.
var ErrNoTransaction = &Error{Code: ErrCodeNoTransaction, Message: "no transaction"}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// IsNoTransaction reports whether err is (or wraps) ErrNoTransaction.
func IsNoTransaction(err error) bool {
	return errors.Is(err, ErrNoTransaction)
}

// IsInvalidLookback reports whether err is a lookback validation error.
func IsInvalidLookback(err error) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == ErrCodeInvalidLookback
	}
	return false
}

func newInvalidLookback(n int) *Error {
	return &Error{
		Code:    ErrCodeInvalidLookback,
		Message: fmt.Sprintf("lookback must be greater than 1, got %d", n),
	}
}
