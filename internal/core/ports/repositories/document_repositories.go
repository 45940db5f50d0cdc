package repositories

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// DocumentReader defines read operations for documents.
type DocumentReader interface {
	// FindDocumentByID retrieves a live document with its lines.
	FindDocumentByID(ctx context.Context, businessID, documentID string) (*domain.Document, error)

	// FindDocumentByIDForUpdate is FindDocumentByID with the header row locked.
	FindDocumentByIDForUpdate(ctx context.Context, businessID, documentID string) (*domain.Document, error)

	// FindDocumentByNumber looks a document up by its idempotency key.
	FindDocumentByNumber(ctx context.Context, businessID string, kind domain.DocumentKind, number string) (*domain.Document, error)
}

// DocumentWriter defines write operations for documents.
type DocumentWriter interface {
	// SaveDocument persists a header and its lines. A reused number yields apperrors.ErrDuplicate.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// UpdateDocumentState writes paid amount, balance, status and cancel reason.
	UpdateDocumentState(ctx context.Context, doc domain.Document) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
