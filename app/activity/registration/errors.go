package registration

import (
	"context"
	"errors"
	"fmt"
)

// ==================== Business outcomes ====================
//
// These are expected results, returned as plain errors so callers can branch
// with errors.Is. The API layer turns them into user-facing messages.

var (
	ErrActivityNotFound  = errors.New("activity not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrAlreadyRegistered = errors.New("user is already registered for this activity")
	ErrCapacityExceeded  = errors.New("activity has no remaining capacity")
	ErrNotRegistered     = errors.New("no active registration for this activity")
	ErrCancelDisabled    = errors.New("cancelling registrations is disabled")
	ErrInvalidActivity   = errors.New("invalid activity")

	// ErrDuplicate is returned by a Ledger when an Active record for the pair
	// already exists. The service maps it to ErrAlreadyRegistered.
	ErrDuplicate = errors.New("duplicate registration")
)

// ==================== Store failures ====================

// StoreError wraps a persistence failure and records whether retrying the
// same request may succeed.
type StoreError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *StoreError) Error() string {
	kind := "permanent"
	if e.Retryable {
		kind = "transient"
	}
	return fmt.Sprintf("%s store failure during %s: %v", kind, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Transient marks err as a retryable store failure.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Retryable: true, Err: err}
}

// Permanent marks err as a non-retryable store failure.
func Permanent(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Retryable: false, Err: err}
}

// IsTransient reports whether err is a retryable store failure.
func IsTransient(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Retryable
}

// IsPermanent reports whether err is a non-retryable store failure.
func IsPermanent(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && !se.Retryable
}

// IsBusiness reports whether err is one of the expected business outcomes.
// Circuit breakers use it to avoid counting them as failures.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrActivityNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrNotRegistered) ||
		errors.Is(err, ErrCancelDisabled) ||
		errors.Is(err, ErrInvalidActivity)
}

// asStoreError keeps already-classified errors and business outcomes as they
// are. Unclassified errors are transient when caused by the request context,
// permanent otherwise.
func asStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) || IsBusiness(err) || errors.Is(err, ErrDuplicate) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Transient(op, err)
	}
	return Permanent(op, err)
}
