package services

import (
	"errors"
	"fmt"

	"hotel-backoffice/repository"
)

// ValidationError: the request is malformed or missing required fields.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError: a referenced entity does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// ConflictError: the request is well formed but violates a business rule.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// TransientError wraps a storage failure after the unit of work was rolled
// back; the caller may retry.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("failed to %s: %v", e.Op, e.Err) }

func (e *TransientError) Unwrap() error { return e.Err }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// storeErr converts a repository error into the service taxonomy. Errors
// that are already typed pass through unchanged.
func storeErr(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	var (
		vErr *ValidationError
		nErr *NotFoundError
		cErr *ConflictError
		tErr *TransientError
	)
	switch {
	case errors.As(err, &vErr), errors.As(err, &nErr), errors.As(err, &cErr), errors.As(err, &tErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return &NotFoundError{Entity: entity}
	}
	return &TransientError{Op: op, Err: err}
}
