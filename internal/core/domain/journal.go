package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// JournalEntry is a dated, balanced group of ledger postings.
type JournalEntry struct {
	JournalEntryID   string        `json:"journalEntryID"`
	BusinessID       string        `json:"businessID"`
	Date             time.Time     `json:"date"`
	Memo             string        `json:"memo"`
	Reference        string        `json:"reference"`
	Source           Reference     `json:"-"` // Document or payment that caused the entry, if any
	Status           JournalStatus `json:"status"`
	OriginalEntryID  *string       `json:"originalEntryID,omitempty"`  // Set on a reversal
	ReversingEntryID *string       `json:"reversingEntryID,omitempty"` // Set on a reversed entry
	Lines            []LedgerEntry `json:"lines"`
	AuditFields
}

// LedgerEntry is one debit or credit posting against an account.
type LedgerEntry struct {
	LedgerEntryID  string          `json:"ledgerEntryID"`
	JournalEntryID string          `json:"journalEntryID"`
	AccountID      string          `json:"accountID"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	Party          Reference       `json:"-"`
	Memo           string          `json:"memo"`
}

// Totals returns the debit and credit sums of the entry's lines.
func (j JournalEntry) Totals() (debits, credits decimal.Decimal) {
	for _, l := range j.Lines {
		debits = debits.Add(l.DebitAmount)
		credits = credits.Add(l.CreditAmount)
	}
	return debits, credits
}

// JournalLine is the input form of a ledger posting.
type JournalLine struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Party     Reference
	Memo      string
}

// Debit builds a debit line.
func Debit(accountID string, amount decimal.Decimal, party Reference) JournalLine {
	return JournalLine{AccountID: accountID, Debit: amount, Party: party}
}

// Credit builds a credit line.
func Credit(accountID string, amount decimal.Decimal, party Reference) JournalLine {
	return JournalLine{AccountID: accountID, Credit: amount, Party: party}
}

// JournalDraft carries everything needed to post a journal entry.
type JournalDraft struct {
	Date      time.Time
	Memo      string
	Reference string
	Source    Reference
	Lines     []JournalLine
}

// AccountActivity is the posted debit and credit volume of one account.
type AccountActivity struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountType AccountType     `json:"accountType"`
	Debits      decimal.Decimal `json:"debits"`
	Credits     decimal.Decimal `json:"credits"`
}

// Balance returns the activity signed by the account's normal balance.
func (a AccountActivity) Balance() decimal.Decimal {
	if a.AccountType.DebitNormal() {
		return a.Debits.Sub(a.Credits)
	}
	return a.Credits.Sub(a.Debits)
}

// TrialBalance lists account activity for a business.
type TrialBalance struct {
	BusinessID   string            `json:"businessID"`
	Accounts     []AccountActivity `json:"accounts"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
}
