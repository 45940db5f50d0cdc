package mapping

import (
	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/models"
)

// ToModelAuditFields converts a domain AuditFields to a model AuditFields
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts a model AuditFields to a domain AuditFields
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy,
	}
}

// ToRefColumns flattens a reference into its nullable column pair.
func ToRefColumns(ref domain.Reference) models.RefColumns {
	if ref == nil {
		return models.RefColumns{}
	}
	kind, id := domain.EncodeReference(ref)
	return models.RefColumns{Type: &kind, ID: &id}
}

// ToDomainReference rebuilds a reference from its column pair. NULL columns decode to nil.
func ToDomainReference(c models.RefColumns) (domain.Reference, error) {
	return domain.DecodeReference(deref(c.Type), deref(c.ID))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
