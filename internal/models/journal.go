package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	JournalEntryID   string    `db:"journal_entry_id"`
	BusinessID       string    `db:"business_id"`
	EntryDate        time.Time `db:"entry_date"`
	Memo             string    `db:"memo"`
	Reference        string    `db:"reference"`
	Source           RefColumns
	Status           string  `db:"status"`
	OriginalEntryID  *string `db:"original_entry_id"`
	ReversingEntryID *string `db:"reversing_entry_id"`
	AuditFields
}

// LedgerEntry is a row of the ledger_entries table.
type LedgerEntry struct {
	LedgerEntryID  string          `db:"ledger_entry_id"`
	JournalEntryID string          `db:"journal_entry_id"`
	BusinessID     string          `db:"business_id"`
	AccountID      string          `db:"account_id"`
	LineNo         int             `db:"line_no"`
	DebitAmount    decimal.Decimal `db:"debit_amount"`
	CreditAmount   decimal.Decimal `db:"credit_amount"`
	Party          RefColumns
	Memo           string `db:"memo"`
}
