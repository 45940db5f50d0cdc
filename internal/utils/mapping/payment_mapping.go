package mapping

import (
	"fmt"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:      d.PaymentID,
		BusinessID:     d.BusinessID,
		Amount:         d.Amount,
		SourceType:     string(d.SourceType),
		Source:         ToRefColumns(d.Source),
		Payer:          ToRefColumns(d.Payer),
		BankAccountID:  d.BankAccountID,
		Method:         d.Method,
		Reference:      d.Reference,
		Status:         string(d.Status),
		RefundedAmount: d.RefundedAmount,
		Reconciled:     d.Reconciled,
		ReconciledAt:   d.ReconciledAt,
		PaymentDate:    d.PaymentDate,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		DeletedAt:      d.DeletedAt,
	}
}

// ToModelAllocation converts a domain PaymentAllocation to a model PaymentAllocation
func ToModelAllocation(d domain.PaymentAllocation) models.PaymentAllocation {
	return models.PaymentAllocation{
		AllocationID:        d.AllocationID,
		PaymentID:           d.PaymentID,
		AllocationType:      string(d.AllocationType),
		SourceTransactionID: d.SourceTransactionID,
		AllocatedAmount:     d.AllocatedAmount,
		Reason:              d.Reason,
		CreatedAt:           d.CreatedAt,
		CreatedBy:           d.CreatedBy,
	}
}

// ToDomainPayment converts a model Payment and its allocations to a domain Payment
func ToDomainPayment(m models.Payment, allocations []models.PaymentAllocation) (domain.Payment, error) {
	source, err := ToDomainReference(m.Source)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("payment %s source: %w", m.PaymentID, err)
	}
	payer, err := ToDomainReference(m.Payer)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("payment %s payer: %w", m.PaymentID, err)
	}
	p := domain.Payment{
		PaymentID:      m.PaymentID,
		BusinessID:     m.BusinessID,
		Amount:         m.Amount,
		SourceType:     domain.PaymentSourceType(m.SourceType),
		Source:         source,
		Payer:          payer,
		BankAccountID:  m.BankAccountID,
		Method:         m.Method,
		Reference:      m.Reference,
		Status:         domain.PaymentStatus(m.Status),
		RefundedAmount: m.RefundedAmount,
		Reconciled:     m.Reconciled,
		ReconciledAt:   m.ReconciledAt,
		PaymentDate:    m.PaymentDate,
		Allocations:    make([]domain.PaymentAllocation, 0, len(allocations)),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		SoftDelete:     domain.SoftDelete{DeletedAt: m.DeletedAt},
	}
	for _, a := range allocations {
		p.Allocations = append(p.Allocations, domain.PaymentAllocation{
			AllocationID:        a.AllocationID,
			PaymentID:           a.PaymentID,
			AllocationType:      domain.AllocationType(a.AllocationType),
			SourceTransactionID: a.SourceTransactionID,
			AllocatedAmount:     a.AllocatedAmount,
			Reason:              a.Reason,
			CreatedAt:           a.CreatedAt,
			CreatedBy:           a.CreatedBy,
		})
	}
	return p, nil
}
