package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/dto"
)

// TransactionSvcFacade records business documents together with all of their ledger,
// stock and payment effects in one unit of work.
type TransactionSvcFacade interface {
	RecordSale(ctx context.Context, businessID string, req dto.DocumentRequest, userID string) (*domain.DocumentOutcome, error)
	RecordPurchase(ctx context.Context, businessID string, req dto.DocumentRequest, userID string) (*domain.DocumentOutcome, error)
	RecordExpense(ctx context.Context, businessID string, req dto.DocumentRequest, userID string) (*domain.DocumentOutcome, error)
	RecordInvoice(ctx context.Context, businessID string, req dto.DocumentRequest, userID string) (*domain.DocumentOutcome, error)

	// SettleDocument moves a draft to pending and books its stock and ledger effects.
	SettleDocument(ctx context.Context, businessID string, documentID string, userID string) (*domain.DocumentOutcome, error)

	// ApplyPayment records a payment against a document with its allocation and cash entry.
	ApplyPayment(ctx context.Context, businessID string, documentID string, req dto.PaymentInfoRequest, userID string) (*domain.DocumentOutcome, error)

	// CancelDocument cancels a document and undoes its ledger and stock effects.
	CancelDocument(ctx context.Context, businessID string, documentID string, reason string, userID string) (*domain.DocumentOutcome, error)
}
