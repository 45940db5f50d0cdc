package services

import (
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
)

// requireRules looks up every rule or fails with the first one that has no account.
func requireRules(accounts domain.PostingAccounts, rules ...domain.PostingRule) (map[domain.PostingRule]string, error) {
	out := make(map[domain.PostingRule]string, len(rules))
	for _, rule := range rules {
		id, ok := accounts.Resolve(rule)
		if !ok {
			return nil, apperrors.NewValidationError("postingRule", "posting rule %s is not configured", rule)
		}
		out[rule] = id
	}
	return out, nil
}

// entryBuilder collects journal lines and drops zero amounts.
type entryBuilder struct {
	lines []domain.JournalLine
}

func (b *entryBuilder) debit(accountID string, amount decimal.Decimal, party domain.Reference) {
	if amount.IsPositive() {
		b.lines = append(b.lines, domain.Debit(accountID, amount, party))
	}
}

func (b *entryBuilder) credit(accountID string, amount decimal.Decimal, party domain.Reference) {
	if amount.IsPositive() {
		b.lines = append(b.lines, domain.Credit(accountID, amount, party))
	}
}

func (b *entryBuilder) empty() bool {
	return len(b.lines) == 0
}

// cashLines books money moving through bankAccountID against the receivable or payable
// control account. Inbound money is DR bank / CR receivable; outbound is DR payable / CR bank.
// reverse swaps both sides, as a refund does.
func cashLines(inbound, reverse bool, bankAccountID, controlAccountID string, amount decimal.Decimal, party domain.Reference) []domain.JournalLine {
	var b entryBuilder
	debitBank := inbound != reverse
	if debitBank {
		b.debit(bankAccountID, amount, party)
		b.credit(controlAccountID, amount, party)
	} else {
		b.debit(controlAccountID, amount, party)
		b.credit(bankAccountID, amount, party)
	}
	return b.lines
}

func minDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
