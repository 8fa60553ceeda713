package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is in a state that forbids the operation.
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInvalidAmount indicates a non-positive or otherwise malformed monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrCurrencyMismatch indicates two entities expected to share a currency do not.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrAllocationExceedsPayment indicates allocations would exceed the payment amount.
var ErrAllocationExceedsPayment = errors.New("allocation exceeds payment amount")

// ErrAllocationExceedsSchedule indicates an allocation would push a schedule past its target.
var ErrAllocationExceedsSchedule = errors.New("allocation exceeds schedule amount")

// ErrInactiveAccount indicates the target money account is deactivated.
var ErrInactiveAccount = errors.New("account is inactive")

// ErrScheduleTotalMismatch indicates an installment plan does not sum to the quote total.
var ErrScheduleTotalMismatch = errors.New("installment amounts do not sum to quote total")

// ErrValidationBlocked indicates an ERROR-level business-rule alert blocked the operation.
var ErrValidationBlocked = errors.New("payment blocked by validation alerts")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
// Repositories use it to report storage failures without leaking driver errors.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
