package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentSourceType tells which kind of document a payment settles.
type PaymentSourceType string

const (
	SourceSales    PaymentSourceType = "sales"
	SourcePurchase PaymentSourceType = "purchase"
	SourceExpense  PaymentSourceType = "expense"
	SourceOthers   PaymentSourceType = "others"
)

// Valid reports whether s is a known source type.
func (s PaymentSourceType) Valid() bool {
	switch s {
	case SourceSales, SourcePurchase, SourceExpense, SourceOthers:
		return true
	}
	return false
}

// Inbound reports whether the payment is money received.
func (s PaymentSourceType) Inbound() bool {
	return s == SourceSales
}

// Accepts reports whether documents of kind k may be settled by payments of this source type.
func (s PaymentSourceType) Accepts(k DocumentKind) bool {
	switch s {
	case SourceSales:
		return k == KindSale || k == KindInvoice
	case SourcePurchase:
		return k == KindPurchase
	case SourceExpense:
		return k == KindExpense
	}
	return false
}

// SourceTypeFor returns the payment source type matching a document kind.
func SourceTypeFor(k DocumentKind) PaymentSourceType {
	switch k {
	case KindSale, KindInvoice:
		return SourceSales
	case KindPurchase:
		return SourcePurchase
	case KindExpense:
		return SourceExpense
	}
	return SourceOthers
}

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// AllocationType classifies a payment allocation.
type AllocationType string

const (
	AllocationInvoice    AllocationType = "invoice"
	AllocationAdvance    AllocationType = "advance"
	AllocationRefund     AllocationType = "refund"
	AllocationAdjustment AllocationType = "adjustment"
)

// TargetsDocument reports whether allocations of this type apply to a document balance.
func (t AllocationType) TargetsDocument() bool {
	return t == AllocationInvoice || t == AllocationAdjustment
}

// Payment is money received or paid, allocated against documents.
type Payment struct {
	PaymentID      string              `json:"paymentID"`
	BusinessID     string              `json:"businessID"`
	Amount         decimal.Decimal     `json:"amount"`
	SourceType     PaymentSourceType   `json:"sourceType"`
	Source         Reference           `json:"-"`
	Payer          Reference           `json:"-"`
	BankAccountID  string              `json:"bankAccountID"`
	Method         string              `json:"method"`
	Reference      string              `json:"reference"` // Optional external idempotency key
	Status         PaymentStatus       `json:"paymentStatus"`
	RefundedAmount decimal.Decimal     `json:"refundedAmount"`
	Reconciled     bool                `json:"reconciled"`
	ReconciledAt   *time.Time          `json:"reconciledAt,omitempty"`
	PaymentDate    time.Time           `json:"paymentDate"`
	Allocations    []PaymentAllocation `json:"allocations"`
	AuditFields
	SoftDelete
}

// PaymentAllocation applies part of a payment to a target. Refund allocations are negative.
type PaymentAllocation struct {
	AllocationID        string          `json:"allocationID"`
	PaymentID           string          `json:"paymentID"`
	AllocationType      AllocationType  `json:"allocationType"`
	SourceTransactionID string          `json:"sourceTransactionID,omitempty"` // Target document, empty for advances
	AllocatedAmount     decimal.Decimal `json:"allocatedAmount"`
	Reason              string          `json:"reason,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	CreatedBy           string          `json:"createdBy"`
}

// AllocatedTotal sums all allocations, refunds included.
func (p Payment) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		total = total.Add(a.AllocatedAmount)
	}
	return total
}

// Unallocated is the part of the payment that may still be allocated.
func (p Payment) Unallocated() decimal.Decimal {
	return p.Amount.Sub(p.RefundedAmount).Sub(p.AllocatedTotal())
}

// Refundable is the part of the payment not yet refunded.
func (p Payment) Refundable() decimal.Decimal {
	return p.Amount.Sub(p.RefundedAmount)
}

// NetAllocatedTo returns the net amount currently applied to a document.
func (p Payment) NetAllocatedTo(documentID string) decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		if a.SourceTransactionID == documentID {
			total = total.Add(a.AllocatedAmount)
		}
	}
	return total
}

// AllocationInput describes one requested allocation of a payment.
type AllocationInput struct {
	Type       AllocationType
	DocumentID string
	Amount     decimal.Decimal
	Reason     string
}
