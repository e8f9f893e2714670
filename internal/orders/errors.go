package orders

import (
	"errors"
	"fmt"
)

// Error taxonomy. Handler layer maps each kind to a distinct HTTP response so
// the UI can tell "out of stock" apart from "bad promo" from "try again".

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Entity, e.Key)
}

type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stok tidak cukup untuk %s: requested=%d available=%d",
		e.ProductName, e.Requested, e.Available)
}

type PromoReason string

const (
	PromoNotFound      PromoReason = "NOT_FOUND"
	PromoNotYetValid   PromoReason = "NOT_YET_VALID"
	PromoExpired       PromoReason = "EXPIRED"
	PromoMinimumNotMet PromoReason = "MINIMUM_NOT_MET"
)

type PromoError struct {
	Code   string
	Reason PromoReason
}

func (e *PromoError) Error() string {
	return fmt.Sprintf("promo %s rejected: %s", e.Code, e.Reason)
}

// ConflictError: lock/serialization failure; the whole operation is safe to retry.
type ConflictError struct {
	Op  string
	Err error
}

func (e *ConflictError) Error() string { return fmt.Sprintf("conflict during %s: %v", e.Op, e.Err) }
func (e *ConflictError) Unwrap() error { return e.Err }

// PersistenceError: store-level failure, fatal to the request.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

var ErrInvalidTransition = errors.New("invalid status transition")

type StatusTransitionError struct {
	From Status
	To   Status
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *StatusTransitionError) Unwrap() error { return ErrInvalidTransition }
