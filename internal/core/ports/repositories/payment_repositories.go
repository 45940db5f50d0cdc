package repositories

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// PaymentReader defines read operations for payments.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment with its allocations in creation order.
	FindPaymentByID(ctx context.Context, businessID, paymentID string) (*domain.Payment, error)

	// FindPaymentByIDForUpdate is FindPaymentByID with the payment row locked.
	FindPaymentByIDForUpdate(ctx context.Context, businessID, paymentID string) (*domain.Payment, error)

	// FindPaymentByReference looks a payment up by its external reference.
	FindPaymentByReference(ctx context.Context, businessID, reference string) (*domain.Payment, error)
}

// PaymentWriter defines write operations for payments.
type PaymentWriter interface {
	SavePayment(ctx context.Context, payment domain.Payment) error
	SaveAllocations(ctx context.Context, allocations []domain.PaymentAllocation) error

	// UpdatePaymentState writes status and refunded amount.
	UpdatePaymentState(ctx context.Context, payment domain.Payment) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
