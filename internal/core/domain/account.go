package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset              AccountType = "asset"
	Liability          AccountType = "liability"
	Equity             AccountType = "equity"
	Income             AccountType = "income"
	Expense            AccountType = "expense"
	AccountsReceivable AccountType = "accounts_receivable"
	AccountsPayable    AccountType = "accounts_payable"
	Bank               AccountType = "bank"
	Cash               AccountType = "cash"
	Other              AccountType = "other"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense, AccountsReceivable, AccountsPayable, Bank, Cash, Other:
		return true
	}
	return false
}

// DebitNormal reports whether balances of this type grow with debits.
func (t AccountType) DebitNormal() bool {
	switch t {
	case Liability, Equity, Income, AccountsPayable:
		return false
	default:
		return true
	}
}

// IsMoneyAccount reports whether payments may be drawn from or paid into accounts of this type.
func (t AccountType) IsMoneyAccount() bool {
	return t == Bank || t == Cash
}

// Account represents a node in a business's chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID"`
	BusinessID      string      `json:"businessID"`
	ParentAccountID string      `json:"parentAccountID"` // Empty for root accounts
	Code            string      `json:"code"`            // Unique within the business
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	AuditFields
	SoftDelete
}

// AccountNode is an account together with its sub-accounts.
type AccountNode struct {
	Account
	Children []*AccountNode `json:"children"`
}
