package domain

// PostingRule names the role an account plays in automatically generated journal entries.
type PostingRule string

const (
	RuleCash               PostingRule = "CASH"
	RuleAccountsReceivable PostingRule = "ACCOUNTS_RECEIVABLE"
	RuleAccountsPayable    PostingRule = "ACCOUNTS_PAYABLE"
	RuleSalesRevenue       PostingRule = "SALES_REVENUE"
	RuleCOGS               PostingRule = "COGS"
	RuleInventory          PostingRule = "INVENTORY"
	RuleExpense            PostingRule = "EXPENSE"
	RuleTax                PostingRule = "TAX"
)

// AllPostingRules lists every rule in a stable order.
var AllPostingRules = []PostingRule{
	RuleCash, RuleAccountsReceivable, RuleAccountsPayable, RuleSalesRevenue,
	RuleCOGS, RuleInventory, RuleExpense, RuleTax,
}

// Valid reports whether r is a known posting rule.
func (r PostingRule) Valid() bool {
	for _, known := range AllPostingRules {
		if r == known {
			return true
		}
	}
	return false
}

// PostingRuleBinding maps a rule to a ledger account for one business.
type PostingRuleBinding struct {
	BusinessID string      `json:"businessID"`
	Rule       PostingRule `json:"rule"`
	AccountID  string      `json:"accountID"`
	AuditFields
}

// PostingAccounts is the resolved rule table of a business.
type PostingAccounts map[PostingRule]string

// Resolve returns the account bound to rule, if any.
func (p PostingAccounts) Resolve(rule PostingRule) (string, bool) {
	id, ok := p[rule]
	return id, ok && id != ""
}
