// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidOptions     = errors.New("invalid simulation options")
	ErrInvalidToken       = errors.New("invalid token parameters")
	ErrInsufficientSupply = errors.New("insufficient circulating supply")
	ErrAlreadyRun         = errors.New("simulation has already run")
	ErrSupplyMismatch     = errors.New("supply accounting mismatch")
	ErrReportOrder        = errors.New("interval report out of order")
	ErrRunNotFound        = errors.New("run not found")
	ErrDatabaseError      = errors.New("database error")
)

// ValidationError reports a configuration field outside its domain.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewOptionsError creates a ValidationError wrapping ErrInvalidOptions.
func NewOptionsError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Err: ErrInvalidOptions}
}

// NewTokenError creates a ValidationError wrapping ErrInvalidToken.
func NewTokenError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Err: ErrInvalidToken}
}

// SupplyError reports a burn demand that cannot be met from circulating supply.
type SupplyError struct {
	Interval  int
	Requested string
	Err       error
}

func (e *SupplyError) Error() string {
	return fmt.Sprintf("%v: interval %d requested burn of %s against exhausted supply", e.Err, e.Interval, e.Requested)
}

func (e *SupplyError) Unwrap() error {
	return e.Err
}

// NewSupplyError creates a SupplyError wrapping ErrInsufficientSupply.
func NewSupplyError(interval int, requested string) *SupplyError {
	return &SupplyError{Interval: interval, Requested: requested, Err: ErrInsufficientSupply}
}
