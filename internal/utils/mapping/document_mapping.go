package mapping

import (
	"fmt"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/models"
)

// ToModelDocument converts a domain Document header to a model Document
func ToModelDocument(d domain.Document) models.Document {
	return models.Document{
		DocumentID:     d.DocumentID,
		BusinessID:     d.BusinessID,
		Kind:           string(d.Kind),
		Number:         d.Number,
		Counterparty:   ToRefColumns(d.Counterparty),
		DocumentDate:   d.Date,
		DueDate:        d.DueDate,
		Subtotal:       d.Subtotal,
		TaxAmount:      d.TaxAmount,
		DiscountAmount: d.DiscountAmount,
		TotalAmount:    d.TotalAmount,
		PaidAmount:     d.PaidAmount,
		BalanceDue:     d.BalanceDue,
		Status:         string(d.Status),
		CancelReason:   d.CancelReason,
		PayloadHash:    d.PayloadHash,
		Notes:          d.Notes,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		DeletedAt:      d.DeletedAt,
	}
}

// ToModelDocumentLine converts a domain DocumentLine to a model DocumentLine
func ToModelDocumentLine(d domain.DocumentLine) models.DocumentLine {
	return models.DocumentLine{
		LineID:      d.LineID,
		DocumentID:  d.DocumentID,
		LineNo:      d.LineNo,
		ProductID:   d.ProductID,
		LocationID:  d.LocationID,
		AccountID:   d.AccountID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		UnitCost:    d.UnitCost,
		LineTotal:   d.LineTotal,
	}
}

// ToDomainDocument converts a model Document and its lines to a domain Document
func ToDomainDocument(m models.Document, lines []models.DocumentLine) (domain.Document, error) {
	party, err := ToDomainReference(m.Counterparty)
	if err != nil {
		return domain.Document{}, fmt.Errorf("document %s counterparty: %w", m.DocumentID, err)
	}
	doc := domain.Document{
		DocumentID:     m.DocumentID,
		BusinessID:     m.BusinessID,
		Kind:           domain.DocumentKind(m.Kind),
		Number:         m.Number,
		Counterparty:   party,
		Date:           m.DocumentDate,
		DueDate:        m.DueDate,
		Subtotal:       m.Subtotal,
		TaxAmount:      m.TaxAmount,
		DiscountAmount: m.DiscountAmount,
		TotalAmount:    m.TotalAmount,
		PaidAmount:     m.PaidAmount,
		BalanceDue:     m.BalanceDue,
		Status:         domain.DocumentStatus(m.Status),
		CancelReason:   m.CancelReason,
		PayloadHash:    m.PayloadHash,
		Notes:          m.Notes,
		Lines:          make([]domain.DocumentLine, 0, len(lines)),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		SoftDelete:     domain.SoftDelete{DeletedAt: m.DeletedAt},
	}
	for _, l := range lines {
		doc.Lines = append(doc.Lines, domain.DocumentLine{
			LineID:      l.LineID,
			DocumentID:  l.DocumentID,
			LineNo:      l.LineNo,
			ProductID:   l.ProductID,
			LocationID:  l.LocationID,
			AccountID:   l.AccountID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			UnitCost:    l.UnitCost,
			LineTotal:   l.LineTotal,
		})
	}
	return doc, nil
}
