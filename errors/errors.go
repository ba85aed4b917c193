/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when a key is already taken by another record
	ErrAlreadyExists = errors.New("record already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConditionFailed is returned when an update is rejected by an index
	ErrConditionFailed = errors.New("condition check failed")

	// ErrNoIndexMap is returned when no key template is registered for a record type
	ErrNoIndexMap = errors.New("no index map found for entity type")

	// ErrInconsistentState is raised when the indices of a registry no longer agree
	ErrInconsistentState = errors.New("inconsistent index state")
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// InconsistentStateError reports a registry whose indices disagree about a record.
// It is raised as a panic value: the registry cannot continue safely.
type InconsistentStateError struct {
	Operation string
	Record    string
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("inconsistent index state during %s: could not restore %s", e.Operation, e.Record)
}

func (e *InconsistentStateError) Is(target error) bool {
	return target == ErrInconsistentState
}

// BatchError aggregates the errors of a batch operation where each element
// succeeds or fails on its own.
type BatchError struct {
	Errors []error
}

func (e *BatchError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "batch error with no errors"
	case 1:
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v (and %d more)", len(e.Errors), e.Errors[0], len(e.Errors)-1)
}

// Unwrap returns the individual errors for errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	return e.Errors
}

// AsBatch returns the BatchError in err's chain.
func AsBatch(err error) (*BatchError, bool) {
	var batch *BatchError
	if errors.As(err, &batch) {
		return batch, true
	}
	return nil, false
}

// ErrorList returns every error message, one per line.
func (e *BatchError) ErrorList() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(entityType, key string) error {
	return &AlreadyExistsError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// NewInconsistentStateError creates a new InconsistentStateError
func NewInconsistentStateError(operation, record string) error {
	return &InconsistentStateError{Operation: operation, Record: record}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// IsInconsistentState checks if an error is an inconsistent state error
func IsInconsistentState(err error) bool {
	return errors.Is(err, ErrInconsistentState)
}
