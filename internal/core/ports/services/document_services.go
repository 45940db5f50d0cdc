package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/shopspring/decimal"
)

// DocumentReaderSvc defines read operations for documents.
type DocumentReaderSvc interface {
	GetDocument(ctx context.Context, businessID string, documentID string) (*domain.Document, error)
}

// DocumentWriterSvc defines standalone document operations.
type DocumentWriterSvc interface {
	// CreateDocument stores a header and its lines without any ledger or stock effect.
	CreateDocument(ctx context.Context, businessID string, req dto.DocumentRequest, userID string) (*domain.Document, error)
}

// DocumentTxSvc exposes document operations inside a caller's unit of work.
type DocumentTxSvc interface {
	// CreateWithLinesTx validates totals, computes line totals and the payload hash, and saves the document.
	CreateWithLinesTx(ctx context.Context, repos portsrepo.Repositories, businessID string, doc domain.Document, userID string) (*domain.Document, error)

	// FindByNumberTx returns the document holding an idempotency key, or apperrors.ErrNotFound.
	FindByNumberTx(ctx context.Context, repos portsrepo.Repositories, businessID string, kind domain.DocumentKind, number string) (*domain.Document, error)

	// LockTx loads a document and locks it for the rest of the unit of work.
	LockTx(ctx context.Context, repos portsrepo.Repositories, businessID string, documentID string) (*domain.Document, error)

	ApplyPaymentTx(ctx context.Context, repos portsrepo.Repositories, businessID string, documentID string, amount decimal.Decimal, userID string) (*domain.Document, error)
	RevertPaymentTx(ctx context.Context, repos portsrepo.Repositories, businessID string, documentID string, amount decimal.Decimal, userID string) (*domain.Document, error)
	SettleTx(ctx context.Context, repos portsrepo.Repositories, businessID string, documentID string, userID string) (*domain.Document, error)
	CancelTx(ctx context.Context, repos portsrepo.Repositories, businessID string, documentID string, reason string, userID string) (*domain.Document, error)
}

// DocumentSvcFacade combines all document-related service interfaces
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
	DocumentTxSvc
}
