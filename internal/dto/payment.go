package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records money received or paid.
type CreatePaymentRequest struct {
	Amount        decimal.Decimal          `json:"amount" binding:"dgt0"`
	SourceType    domain.PaymentSourceType `json:"sourceType" binding:"required,oneof=sales purchase expense others"`
	Source        *ReferenceDTO            `json:"source"`
	Payer         *ReferenceDTO            `json:"payer"`
	BankAccountID string                   `json:"bankAccountID" binding:"required"`
	Method        string                   `json:"method"`
	Reference     string                   `json:"reference"`
	Status        domain.PaymentStatus     `json:"paymentStatus" binding:"omitempty,oneof=pending completed failed"`
	PaymentDate   *time.Time               `json:"paymentDate"`
}

// ToPayment converts the request into an unsaved payment.
func (r CreatePaymentRequest) ToPayment(now time.Time) (domain.Payment, error) {
	source, err := r.Source.ToDomain()
	if err != nil {
		return domain.Payment{}, err
	}
	payer, err := r.Payer.ToDomain()
	if err != nil {
		return domain.Payment{}, err
	}
	date := now
	if r.PaymentDate != nil {
		date = *r.PaymentDate
	}
	return domain.Payment{
		Amount:        r.Amount,
		SourceType:    r.SourceType,
		Source:        source,
		Payer:         payer,
		BankAccountID: r.BankAccountID,
		Method:        r.Method,
		Reference:     r.Reference,
		Status:        r.Status,
		PaymentDate:   date,
	}, nil
}

// AllocationRequest applies part of a payment.
type AllocationRequest struct {
	AllocationType domain.AllocationType `json:"allocationType" binding:"required,oneof=invoice advance adjustment"`
	DocumentID     string                `json:"documentID"`
	Amount         decimal.Decimal       `json:"amount" binding:"dgt0"`
	Reason         string                `json:"reason"`
}

// AllocatePaymentRequest applies a payment to one or more targets.
type AllocatePaymentRequest struct {
	Allocations []AllocationRequest `json:"allocations" binding:"required,min=1,dive"`
}

// ToAllocationInputs converts the requested allocations.
func (r AllocatePaymentRequest) ToAllocationInputs() []domain.AllocationInput {
	out := make([]domain.AllocationInput, len(r.Allocations))
	for i, a := range r.Allocations {
		out[i] = domain.AllocationInput{
			Type:       a.AllocationType,
			DocumentID: a.DocumentID,
			Amount:     a.Amount,
			Reason:     a.Reason,
		}
	}
	return out
}

// RefundPaymentRequest returns part or all of a payment.
type RefundPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"dgt0"`
	Reason string          `json:"reason" binding:"required"`
}

// AllocationResponse defines the data returned for an allocation.
type AllocationResponse struct {
	AllocationID   string                `json:"allocationID"`
	AllocationType domain.AllocationType `json:"allocationType"`
	DocumentID     string                `json:"documentID,omitempty"`
	Amount         decimal.Decimal       `json:"amount"`
	Reason         string                `json:"reason,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID      string                   `json:"paymentID"`
	Amount         decimal.Decimal          `json:"amount"`
	SourceType     domain.PaymentSourceType `json:"sourceType"`
	Source         *ReferenceDTO            `json:"source,omitempty"`
	Payer          *ReferenceDTO            `json:"payer,omitempty"`
	BankAccountID  string                   `json:"bankAccountID"`
	Method         string                   `json:"method,omitempty"`
	Reference      string                   `json:"reference,omitempty"`
	Status         domain.PaymentStatus     `json:"paymentStatus"`
	RefundedAmount decimal.Decimal          `json:"refundedAmount"`
	Unallocated    decimal.Decimal          `json:"unallocated"`
	Reconciled     bool                     `json:"reconciled"`
	ReconciledAt   *time.Time               `json:"reconciledAt,omitempty"`
	PaymentDate    time.Time                `json:"paymentDate"`
	Allocations    []AllocationResponse     `json:"allocations"`
}

// ToPaymentResponse converts a domain.Payment.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	allocs := make([]AllocationResponse, len(p.Allocations))
	for i, a := range p.Allocations {
		allocs[i] = AllocationResponse{
			AllocationID:   a.AllocationID,
			AllocationType: a.AllocationType,
			DocumentID:     a.SourceTransactionID,
			Amount:         a.AllocatedAmount,
			Reason:         a.Reason,
			CreatedAt:      a.CreatedAt,
		}
	}
	return PaymentResponse{
		PaymentID:      p.PaymentID,
		Amount:         p.Amount,
		SourceType:     p.SourceType,
		Source:         FromReference(p.Source),
		Payer:          FromReference(p.Payer),
		BankAccountID:  p.BankAccountID,
		Method:         p.Method,
		Reference:      p.Reference,
		Status:         p.Status,
		RefundedAmount: p.RefundedAmount,
		Unallocated:    p.Unallocated(),
		Reconciled:     p.Reconciled,
		ReconciledAt:   p.ReconciledAt,
		PaymentDate:    p.PaymentDate,
		Allocations:    allocs,
	}
}
