package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found (or is soft-deleted).
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict with current state")

// ErrInternal is returned when an unexpected internal condition occurs.
var ErrInternal = errors.New("internal error")

// Business-rule sentinels. The typed errors below unwrap to these.
var (
	ErrImbalancedEntry   = errors.New("journal entry is not balanced")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOverpayment       = errors.New("payment exceeds document balance")
	ErrOverAllocation    = errors.New("allocations exceed payment amount")
	ErrStorage           = errors.New("storage failure")
)

// ValidationError describes malformed or logically inconsistent input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError returns a NotFoundError for the given entity and id.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ImbalancedEntryError is returned when debits and credits of a journal entry differ.
type ImbalancedEntryError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e *ImbalancedEntryError) Error() string {
	return fmt.Sprintf("%s: debits sum is %s and credits sum is %s", ErrImbalancedEntry, e.Debits, e.Credits)
}

func (e *ImbalancedEntryError) Unwrap() error { return ErrImbalancedEntry }

// InsufficientStockError is returned when a movement would drive on-hand quantity below zero.
type InsufficientStockError struct {
	ProductID  string
	LocationID string
	Requested  decimal.Decimal
	OnHand     decimal.Decimal
	Reserved   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	msg := fmt.Sprintf("%s for product %s at %s: requested %s, on hand %s",
		ErrInsufficientStock, e.ProductID, e.LocationID, e.Requested, e.OnHand)
	if e.Reserved.IsPositive() {
		msg += fmt.Sprintf(", reserved %s", e.Reserved)
	}
	return msg
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// OverpaymentError is returned when a payment would push paidAmount above totalAmount.
type OverpaymentError struct {
	DocumentID  string
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	Attempted   decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("%s: document %s total %s, already paid %s, attempted %s",
		ErrOverpayment, e.DocumentID, e.TotalAmount, e.PaidAmount, e.Attempted)
}

func (e *OverpaymentError) Unwrap() error { return ErrOverpayment }

// OverAllocationError is returned when allocations of a payment exceed what it can cover.
type OverAllocationError struct {
	PaymentID string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf("%s: payment %s has %s available, requested %s",
		ErrOverAllocation, e.PaymentID, e.Available, e.Requested)
}

func (e *OverAllocationError) Unwrap() error { return ErrOverAllocation }

// StorageError wraps a persistence failure. It matches ErrStorage and unwraps to the cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NewStorageError wraps err as a StorageError; nil stays nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
