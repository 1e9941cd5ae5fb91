package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across collections and the session manager.
var (
	// ErrNotAuthenticated is returned when a mutating operation runs with no
	// session while not in offline mode.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionActive is returned by sign-in when the account already has an
	// active session server-side. RegisterThenSignIn recovers from it.
	ErrSessionActive = errors.New("session already active")
)

// AuthError reports a failed sign-in or session operation.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s", e.Msg)
}

// RegistrationError reports a rejected account creation.
type RegistrationError struct {
	Msg string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration: %s", e.Msg)
}

// ValidationError reports a malformed entity reference or field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// StorageError wraps any adapter failure, local or remote. The taxonomy is
// deliberately flat; callers only distinguish storage failures from the rest.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// WrapStorage wraps err as a StorageError unless it is nil or already one.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
