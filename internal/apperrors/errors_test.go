package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", NewValidationError("code", "already used"), ErrValidation},
		{"not found", NewNotFoundError("document", "d-1"), ErrNotFound},
		{"imbalanced", &ImbalancedEntryError{Debits: decimal.NewFromInt(10), Credits: decimal.NewFromInt(9)}, ErrImbalancedEntry},
		{"stock", &InsufficientStockError{ProductID: "P1", Requested: decimal.NewFromInt(5), OnHand: decimal.NewFromInt(3)}, ErrInsufficientStock},
		{"overpayment", &OverpaymentError{DocumentID: "d-1"}, ErrOverpayment},
		{"over allocation", &OverAllocationError{PaymentID: "p-1"}, ErrOverAllocation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service layer: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.sentinel)
		})
	}
}

func TestStorageErrorMatchesSentinelAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("save document: %w", NewStorageError("insert documents", cause))

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)

	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "insert documents", storageErr.Op)
	assert.Nil(t, NewStorageError("noop", nil))
}

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{ProductID: "P1", LocationID: "main", Requested: decimal.NewFromInt(5), OnHand: decimal.NewFromInt(3)}
	assert.Contains(t, err.Error(), "requested 5, on hand 3")
	assert.NotContains(t, err.Error(), "reserved")

	err.Reserved = decimal.NewFromInt(2)
	assert.Contains(t, err.Error(), "on hand 3, reserved 2")

	var target *InsufficientStockError
	assert.True(t, errors.As(fmt.Errorf("wrap: %w", err), &target))
	assert.Equal(t, "P1", target.ProductID)
}
