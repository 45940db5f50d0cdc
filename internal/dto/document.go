package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentLineRequest is one item of a sale, purchase, invoice or expense.
type DocumentLineRequest struct {
	ProductID   string          `json:"productID"`
	LocationID  string          `json:"locationID"`
	AccountID   string          `json:"accountID"` // Expense lines only
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"dgt0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"dgte0"`
	UnitCost    decimal.Decimal `json:"unitCost" binding:"dgte0"`
}

// PaymentInfoRequest is money paid together with a document or against it later.
type PaymentInfoRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"dgt0"`
	BankAccountID string          `json:"bankAccountID" binding:"required"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference"`
	PaymentDate   *time.Time      `json:"paymentDate"`
}

// DocumentRequest defines a document to record. Kind is only read by POST /documents;
// the typed routes set it themselves.
type DocumentRequest struct {
	Kind           domain.DocumentKind   `json:"kind" binding:"omitempty,oneof=sale purchase invoice expense"`
	Number         string                `json:"number" binding:"required,max=64"`
	Counterparty   *ReferenceDTO         `json:"counterparty"`
	Date           time.Time             `json:"date" binding:"required"`
	DueDate        *time.Time            `json:"dueDate"`
	TaxAmount      decimal.Decimal       `json:"taxAmount" binding:"dgte0"`
	DiscountAmount decimal.Decimal       `json:"discountAmount" binding:"dgte0"`
	TotalAmount    decimal.Decimal       `json:"totalAmount" binding:"dgte0"`
	Draft          bool                  `json:"draft"`
	Notes          string                `json:"notes"`
	Lines          []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
	Payment        *PaymentInfoRequest   `json:"payment"`
}

// ToDocument converts the request into an unsaved document of the given kind.
func (r DocumentRequest) ToDocument(kind domain.DocumentKind, defaultLocation string) (domain.Document, error) {
	party, err := r.Counterparty.ToDomain()
	if err != nil {
		return domain.Document{}, err
	}
	status := domain.StatusPending
	if r.Draft {
		status = domain.StatusDraft
	}
	doc := domain.Document{
		Kind:           kind,
		Number:         r.Number,
		Counterparty:   party,
		Date:           r.Date,
		DueDate:        r.DueDate,
		TaxAmount:      r.TaxAmount,
		DiscountAmount: r.DiscountAmount,
		TotalAmount:    r.TotalAmount,
		Status:         status,
		Notes:          r.Notes,
		Lines:          make([]domain.DocumentLine, 0, len(r.Lines)),
	}
	for i, l := range r.Lines {
		loc := l.LocationID
		if loc == "" && l.ProductID != "" {
			loc = defaultLocation
		}
		doc.Lines = append(doc.Lines, domain.DocumentLine{
			LineNo:      i + 1,
			ProductID:   l.ProductID,
			LocationID:  loc,
			AccountID:   l.AccountID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			UnitCost:    l.UnitCost,
		})
	}
	return doc, nil
}

// CancelDocumentRequest carries the reason for a cancellation.
type CancelDocumentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// DocumentLineResponse defines the data returned for a document line.
type DocumentLineResponse struct {
	LineID      string          `json:"lineID"`
	LineNo      int             `json:"lineNo"`
	ProductID   string          `json:"productID,omitempty"`
	LocationID  string          `json:"locationID,omitempty"`
	AccountID   string          `json:"accountID,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// DocumentResponse defines the data returned for a document.
type DocumentResponse struct {
	DocumentID     string                 `json:"documentID"`
	Kind           domain.DocumentKind    `json:"kind"`
	Number         string                 `json:"number"`
	Counterparty   *ReferenceDTO          `json:"counterparty,omitempty"`
	Date           time.Time              `json:"date"`
	DueDate        *time.Time             `json:"dueDate,omitempty"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	TaxAmount      decimal.Decimal        `json:"taxAmount"`
	DiscountAmount decimal.Decimal        `json:"discountAmount"`
	TotalAmount    decimal.Decimal        `json:"totalAmount"`
	PaidAmount     decimal.Decimal        `json:"paidAmount"`
	BalanceDue     decimal.Decimal        `json:"balanceDue"`
	Status         domain.DocumentStatus  `json:"status"`
	CancelReason   string                 `json:"cancelReason,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	Lines          []DocumentLineResponse `json:"lines"`
	CreatedAt      time.Time              `json:"createdAt"`
	CreatedBy      string                 `json:"createdBy"`
}

// ToDocumentResponse converts a document, projecting overdue at now.
func ToDocumentResponse(d *domain.Document, now time.Time) DocumentResponse {
	lines := make([]DocumentLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = DocumentLineResponse{
			LineID:      l.LineID,
			LineNo:      l.LineNo,
			ProductID:   l.ProductID,
			LocationID:  l.LocationID,
			AccountID:   l.AccountID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		}
	}
	return DocumentResponse{
		DocumentID:     d.DocumentID,
		Kind:           d.Kind,
		Number:         d.Number,
		Counterparty:   FromReference(d.Counterparty),
		Date:           d.Date,
		DueDate:        d.DueDate,
		Subtotal:       d.Subtotal,
		TaxAmount:      d.TaxAmount,
		DiscountAmount: d.DiscountAmount,
		TotalAmount:    d.TotalAmount,
		PaidAmount:     d.PaidAmount,
		BalanceDue:     d.BalanceDue,
		Status:         d.EffectiveStatus(now),
		CancelReason:   d.CancelReason,
		Notes:          d.Notes,
		Lines:          lines,
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
	}
}

// DocumentOutcomeResponse reports every effect of an orchestrated operation.
type DocumentOutcomeResponse struct {
	Document  DocumentResponse   `json:"document"`
	Journal   *JournalResponse   `json:"journal,omitempty"`
	Reversals []JournalResponse  `json:"reversals,omitempty"`
	Movements []MovementResponse `json:"movements,omitempty"`
	Payment   *PaymentResponse   `json:"payment,omitempty"`
	Replayed  bool               `json:"replayed"`
}

// ToDocumentOutcomeResponse converts a domain.DocumentOutcome.
func ToDocumentOutcomeResponse(o *domain.DocumentOutcome, now time.Time) DocumentOutcomeResponse {
	res := DocumentOutcomeResponse{
		Document:  ToDocumentResponse(o.Document, now),
		Movements: ToMovementResponses(o.Movements),
		Replayed:  o.Replayed,
	}
	if o.Journal != nil {
		j := ToJournalResponse(o.Journal)
		res.Journal = &j
	}
	if len(o.Reversals) > 0 {
		res.Reversals = ToJournalResponses(o.Reversals)
	}
	if o.Payment != nil {
		p := ToPaymentResponse(o.Payment)
		res.Payment = &p
	}
	return res
}
