package models

import "time"

// Account is a row of the accounts table.
type Account struct {
	AccountID       string  `db:"account_id"`
	BusinessID      string  `db:"business_id"`
	ParentAccountID *string `db:"parent_account_id"` // Nullable
	Code            string  `db:"code"`
	Name            string  `db:"name"`
	AccountType     string  `db:"account_type"`
	Description     string  `db:"description"`
	IsActive        bool    `db:"is_active"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}

// PostingRule is a row of the posting_rules table.
type PostingRule struct {
	BusinessID string `db:"business_id"`
	Rule       string `db:"rule"`
	AccountID  string `db:"account_id"`
	AuditFields
}
