package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind is the type of source document.
type DocumentKind string

const (
	KindSale     DocumentKind = "sale"
	KindPurchase DocumentKind = "purchase"
	KindInvoice  DocumentKind = "invoice"
	KindExpense  DocumentKind = "expense"
)

// Valid reports whether k is a known document kind.
func (k DocumentKind) Valid() bool {
	switch k {
	case KindSale, KindPurchase, KindInvoice, KindExpense:
		return true
	}
	return false
}

// Inbound reports whether payments against documents of this kind are money received.
func (k DocumentKind) Inbound() bool {
	return k == KindSale || k == KindInvoice
}

// DocumentStatus is the stored lifecycle state of a document.
type DocumentStatus string

const (
	StatusDraft       DocumentStatus = "draft"
	StatusPending     DocumentStatus = "pending"
	StatusPartPayment DocumentStatus = "part_payment"
	StatusPaid        DocumentStatus = "paid"
	StatusOverdue     DocumentStatus = "overdue" // Derived on read, never stored
	StatusCancelled   DocumentStatus = "cancelled"
)

// Document is a sale, purchase, invoice or expense with running payment balances.
type Document struct {
	DocumentID     string          `json:"documentID"`
	BusinessID     string          `json:"businessID"`
	Kind           DocumentKind    `json:"kind"`
	Number         string          `json:"number"` // External idempotency key, unique per business and kind
	Counterparty   Reference       `json:"-"`
	Date           time.Time       `json:"date"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	BalanceDue     decimal.Decimal `json:"balanceDue"`
	Status         DocumentStatus  `json:"status"`
	CancelReason   string          `json:"cancelReason,omitempty"`
	PayloadHash    string          `json:"-"`
	Notes          string          `json:"notes"`
	Lines          []DocumentLine  `json:"lines"`
	AuditFields
	SoftDelete
}

// DocumentLine is one item of a document.
type DocumentLine struct {
	LineID      string          `json:"lineID"`
	DocumentID  string          `json:"documentID"`
	LineNo      int             `json:"lineNo"`
	ProductID   string          `json:"productID,omitempty"`
	LocationID  string          `json:"locationID,omitempty"`
	AccountID   string          `json:"accountID,omitempty"` // Expense account for expense lines
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	UnitCost    decimal.Decimal `json:"unitCost"` // Cost basis used for COGS, filled at settlement
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// IsStocked reports whether the line moves inventory.
func (l DocumentLine) IsStocked() bool {
	return l.ProductID != ""
}

// Reference returns the tagged reference pointing at this document.
func (d Document) Reference() Reference {
	switch d.Kind {
	case KindSale:
		return SaleRef{ID: d.DocumentID}
	case KindPurchase:
		return PurchaseRef{ID: d.DocumentID}
	case KindInvoice:
		return InvoiceRef{ID: d.DocumentID}
	case KindExpense:
		return ExpenseRef{ID: d.DocumentID}
	}
	return nil
}

// IsSettled reports whether the document has left draft and not been cancelled.
func (d Document) IsSettled() bool {
	return d.Status == StatusPending || d.Status == StatusPartPayment || d.Status == StatusPaid
}

// IsTerminal reports whether no further transitions are allowed.
func (d Document) IsTerminal() bool {
	return d.Status == StatusPaid || d.Status == StatusCancelled
}

// RecomputeBalance sets balanceDue from total and paid.
func (d *Document) RecomputeBalance() {
	d.BalanceDue = d.TotalAmount.Sub(d.PaidAmount)
}

// StatusForPaid returns the status implied by the paid amount for a settled document.
// A zero paid amount leaves the current status unchanged unless it was a payment state.
func (d Document) StatusForPaid() DocumentStatus {
	switch {
	case d.PaidAmount.GreaterThanOrEqual(d.TotalAmount) && d.TotalAmount.IsPositive():
		return StatusPaid
	case d.PaidAmount.IsPositive():
		return StatusPartPayment
	case d.Status == StatusPartPayment || d.Status == StatusPaid:
		return StatusPending
	default:
		return d.Status
	}
}

// EffectiveStatus projects overdue onto open documents whose due date has passed.
func (d Document) EffectiveStatus(now time.Time) DocumentStatus {
	if (d.Status == StatusPending || d.Status == StatusPartPayment) &&
		d.DueDate != nil && d.DueDate.Before(now) {
		return StatusOverdue
	}
	return d.Status
}

// LinesSubtotal sums the line totals.
func LinesSubtotal(lines []DocumentLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return total
}

// DocumentOutcome collects every effect of one orchestrated document operation.
type DocumentOutcome struct {
	Document  *Document       `json:"document"`
	Journal   *JournalEntry   `json:"journal,omitempty"`
	Reversals []JournalEntry  `json:"reversals,omitempty"`
	Movements []StockMovement `json:"movements,omitempty"`
	Payment   *Payment        `json:"payment,omitempty"`
	Replayed  bool            `json:"replayed"` // True when an identical earlier request was answered
}
