package mapping

import (
	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		BusinessID:      d.BusinessID,
		ParentAccountID: nullable(d.ParentAccountID),
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		Description:     d.Description,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
		DeletedAt:       d.DeletedAt,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		BusinessID:      m.BusinessID,
		ParentAccountID: deref(m.ParentAccountID),
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		Description:     m.Description,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
		SoftDelete:      domain.SoftDelete{DeletedAt: m.DeletedAt},
	}
}

// ToModelPostingRule converts a posting rule binding.
func ToModelPostingRule(d domain.PostingRuleBinding) models.PostingRule {
	return models.PostingRule{
		BusinessID:  d.BusinessID,
		Rule:        string(d.Rule),
		AccountID:   d.AccountID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}
