package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// PaymentReaderSvc defines read operations for payments.
type PaymentReaderSvc interface {
	GetPayment(ctx context.Context, businessID string, paymentID string) (*domain.Payment, error)
}

// PaymentWriterSvc defines standalone payment operations.
type PaymentWriterSvc interface {
	// CreatePayment records a payment. A known external reference returns the earlier payment.
	CreatePayment(ctx context.Context, businessID string, payment domain.Payment, userID string) (*domain.Payment, error)

	// Allocate applies a payment to documents or advances and books the cash entry.
	Allocate(ctx context.Context, businessID string, paymentID string, allocations []domain.AllocationInput, userID string) (*domain.Payment, error)

	// Refund returns money from a completed payment, unwinding allocations newest first.
	Refund(ctx context.Context, businessID string, paymentID string, amount decimal.Decimal, reason string, userID string) (*domain.Payment, error)
}

// PaymentTxSvc exposes payment operations inside a caller's unit of work.
type PaymentTxSvc interface {
	CreatePaymentTx(ctx context.Context, repos portsrepo.Repositories, businessID string, payment domain.Payment, userID string) (*domain.Payment, error)

	// AllocateTx applies allocations and books the cash entry for the allocated amount.
	AllocateTx(ctx context.Context, repos portsrepo.Repositories, businessID string, paymentID string, allocations []domain.AllocationInput, userID string) (*domain.Payment, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
	PaymentTxSvc
}
