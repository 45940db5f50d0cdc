package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/utils/accounting"
)

// documentService owns document headers, lines and their payment state.
type documentService struct {
	BaseService
}

// NewDocumentService creates a new document service.
func NewDocumentService(provider portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.DocumentSvcFacade {
	return &documentService{BaseService: newBaseService(provider, options...)}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// prepare validates doc and fills ids, line totals, subtotal, total and balance.
func (s *documentService) prepare(businessID string, doc *domain.Document, userID string) error {
	if !doc.Kind.Valid() {
		return apperrors.NewValidationError("kind", "unknown document kind %q", doc.Kind)
	}
	doc.Number = strings.TrimSpace(doc.Number)
	if doc.Number == "" {
		return apperrors.NewValidationError("number", "is required")
	}
	if doc.Status != domain.StatusDraft && doc.Status != domain.StatusPending {
		return apperrors.NewValidationError("status", "new documents start as draft or pending, got %q", doc.Status)
	}
	if doc.Counterparty != nil && !domain.IsParty(doc.Counterparty) {
		return apperrors.NewValidationError("counterparty", "must be a customer or vendor")
	}
	if len(doc.Lines) == 0 {
		return apperrors.NewValidationError("lines", "at least one line is required")
	}
	if doc.TaxAmount.IsNegative() || doc.DiscountAmount.IsNegative() || doc.TotalAmount.IsNegative() {
		return apperrors.NewValidationError("totalAmount", "amounts must not be negative")
	}

	now := s.now()
	if doc.DocumentID == "" {
		doc.DocumentID = uuid.NewString()
	}
	if doc.Date.IsZero() {
		doc.Date = now
	}
	for i := range doc.Lines {
		l := &doc.Lines[i]
		if !l.Quantity.IsPositive() {
			return apperrors.NewValidationError("lines", "line %d quantity must be positive", i+1)
		}
		if l.UnitPrice.IsNegative() || l.UnitCost.IsNegative() {
			return apperrors.NewValidationError("lines", "line %d prices must not be negative", i+1)
		}
		if l.IsStocked() && strings.TrimSpace(l.LocationID) == "" {
			l.LocationID = s.defaultLocation
		}
		l.LineID = uuid.NewString()
		l.DocumentID = doc.DocumentID
		l.LineNo = i + 1
		l.LineTotal = accounting.LineTotal(l.Quantity, l.UnitPrice)
	}

	doc.Subtotal = domain.LinesSubtotal(doc.Lines)
	if doc.DiscountAmount.GreaterThan(doc.Subtotal) {
		return apperrors.NewValidationError("discountAmount", "discount %s exceeds subtotal %s", doc.DiscountAmount, doc.Subtotal)
	}
	expected := accounting.ExpectedTotal(doc.Subtotal, doc.TaxAmount, doc.DiscountAmount)
	switch {
	case doc.TotalAmount.IsZero():
		doc.TotalAmount = expected
	case !accounting.WithinTolerance(doc.TotalAmount, expected, s.tolerance):
		return apperrors.NewValidationError("totalAmount", "total %s does not match subtotal %s + tax %s - discount %s = %s",
			doc.TotalAmount, doc.Subtotal, doc.TaxAmount, doc.DiscountAmount, expected)
	}

	doc.BusinessID = businessID
	doc.PaidAmount = decimal.Zero
	doc.RecomputeBalance()
	doc.AuditFields = domain.NewAuditFields(userID, now)
	return nil
}

func (s *documentService) CreateWithLinesTx(ctx context.Context, repos portsrepo.Repositories, businessID string, doc domain.Document, userID string) (*domain.Document, error) {
	if doc.PayloadHash == "" {
		doc.PayloadHash = accounting.PayloadHash(doc, nil)
	}
	if err := s.prepare(businessID, &doc, userID); err != nil {
		return nil, err
	}
	if err := repos.Documents.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// CreateDocument stores a document on its own. Payments and ledger effects go through the
// transaction endpoints.
func (s *documentService) CreateDocument(ctx context.Context, businessID string, req dto.DocumentRequest, userID string) (*domain.Document, error) {
	if req.Payment != nil {
		return nil, apperrors.NewValidationError("payment", "record payments through the transaction endpoints")
	}
	doc, err := req.ToDocument(req.Kind, s.defaultLocation)
	if err != nil {
		return nil, apperrors.NewValidationError("counterparty", "%v", err)
	}

	var created *domain.Document
	err = s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		created, err = s.CreateWithLinesTx(ctx, repos, businessID, doc, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			err = apperrors.NewValidationError("number", "%s %s already exists", doc.Kind, doc.Number)
		}
		s.LogError(ctx, err, "Failed to create document",
			slog.String("kind", string(doc.Kind)),
			slog.String("number", doc.Number))
		return nil, err
	}
	s.LogInfo(ctx, "Document created",
		slog.String("document_id", created.DocumentID),
		slog.String("kind", string(created.Kind)))
	return created, nil
}

func (s *documentService) GetDocument(ctx context.Context, businessID string, documentID string) (*domain.Document, error) {
	doc, err := s.repos().Documents.FindDocumentByID(ctx, businessID, documentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find document", slog.String("document_id", documentID))
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) FindByNumberTx(ctx context.Context, repos portsrepo.Repositories, businessID string, kind domain.DocumentKind, number string) (*domain.Document, error) {
	return repos.Documents.FindDocumentByNumber(ctx, businessID, kind, strings.TrimSpace(number))
}

func (s *documentService) LockTx(ctx context.Context, repos portsrepo.Repositories, businessID string, documentID string) (*domain.Document, error) {
	return repos.Documents.FindDocumentByIDForUpdate(ctx, businessID, documentID)
}

// ApplyPaymentTx adds amount to the paid total of a settled document.
func (s *documentService) ApplyPaymentTx(ctx context.Context, repos portsrepo.Repositories, businessID string, documentID string, amount decimal.Decimal, userID string) (*domain.Document, error) {
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount", "must be positive")
	}
	doc, err := s.LockTx(ctx, repos, businessID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.StatusDraft || doc.Status == domain.StatusCancelled {
		return nil, apperrors.NewValidationError("documentID", "cannot pay a %s document", doc.Status)
	}
	if doc.PaidAmount.Add(amount).GreaterThan(doc.TotalAmount) {
		return nil, &apperrors.OverpaymentError{
			DocumentID:  doc.DocumentID,
			TotalAmount: doc.TotalAmount,
			PaidAmount:  doc.PaidAmount,
			Attempted:   amount,
		}
	}
	doc.PaidAmount = doc.PaidAmount.Add(amount)
	return s.saveState(ctx, repos, doc, userID)
}

// RevertPaymentTx takes amount back off the paid total, as a refund does.
func (s *documentService) RevertPaymentTx(ctx context.Context, repos portsrepo.Repositories, businessID string, documentID string, amount decimal.Decimal, userID string) (*domain.Document, error) {
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount", "must be positive")
	}
	doc, err := s.LockTx(ctx, repos, businessID, documentID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(doc.PaidAmount) {
		return nil, apperrors.NewValidationError("amount", "cannot revert %s, document %s has %s paid", amount, documentID, doc.PaidAmount)
	}
	doc.PaidAmount = doc.PaidAmount.Sub(amount)
	return s.saveState(ctx, repos, doc, userID)
}

func (s *documentService) saveState(ctx context.Context, repos portsrepo.Repositories, doc *domain.Document, userID string) (*domain.Document, error) {
	doc.RecomputeBalance()
	if doc.Status != domain.StatusCancelled && doc.Status != domain.StatusDraft {
		doc.Status = doc.StatusForPaid()
	}
	doc.Touch(userID, s.now())
	if err := repos.Documents.UpdateDocumentState(ctx, *doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SettleTx moves a draft to pending.
func (s *documentService) SettleTx(ctx context.Context, repos portsrepo.Repositories, businessID string, documentID string, userID string) (*domain.Document, error) {
	doc, err := s.LockTx(ctx, repos, businessID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.StatusDraft {
		return nil, apperrors.NewValidationError("documentID", "only draft documents can be settled, %s is %s", documentID, doc.Status)
	}
	doc.Status = domain.StatusPending
	doc.Touch(userID, s.now())
	if err := repos.Documents.UpdateDocumentState(ctx, *doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// CancelTx cancels an unpaid document.
func (s *documentService) CancelTx(ctx context.Context, repos portsrepo.Repositories, businessID string, documentID string, reason string, userID string) (*domain.Document, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewValidationError("reason", "is required")
	}
	doc, err := s.LockTx(ctx, repos, businessID, documentID)
	if err != nil {
		return nil, err
	}
	switch doc.Status {
	case domain.StatusDraft, domain.StatusPending, domain.StatusPartPayment:
	default:
		return nil, apperrors.NewValidationError("documentID", "a %s document cannot be cancelled", doc.Status)
	}
	if doc.PaidAmount.IsPositive() {
		return nil, apperrors.NewValidationError("documentID", "document %s has %s paid; refund the payments first", documentID, doc.PaidAmount)
	}
	doc.Status = domain.StatusCancelled
	doc.CancelReason = reason
	doc.Touch(userID, s.now())
	if err := repos.Documents.UpdateDocumentState(ctx, *doc); err != nil {
		return nil, err
	}
	return doc, nil
}
