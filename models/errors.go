package models

import (
	"context"
	"errors"
	"fmt"
)

// Persistence errors shared by the relational store, the document store and
// the coordinator. Callers match them with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrValidation       = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports malformed input. It is returned before any store
// is touched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) true for every ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for a field
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StoreError wraps a connectivity or engine failure of one store.
type StoreError struct {
	Store string // "relational" or "aggregate"
	Op    string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s store %s: %v", e.Store, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStoreUnavailable) true for every StoreError
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// Store names used in StoreError and in partial-failure logs
const (
	StoreRelational = "relational"
	StoreAggregate  = "aggregate"
)

// WrapStoreError classifies err for the named store. Domain errors
// (not found, duplicate key, validation) and caller cancellation pass
// through untouched; anything else, timeouts included, becomes a StoreError.
func WrapStoreError(store, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateKey) ||
		errors.Is(err, ErrValidation) || errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, context.Canceled) {
		return err
	}
	return &StoreError{Store: store, Op: op, Err: err}
}
