package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
)

type accountRepo struct{ sc scope }

var _ portsrepo.AccountRepositoryFacade = (*accountRepo)(nil)

func (r *accountRepo) FindAccountByID(_ context.Context, businessID, accountID string) (*domain.Account, error) {
	var out *domain.Account
	err := r.sc.read(func(st *state) error {
		acc, ok := st.accounts[accountID]
		if !ok || acc.BusinessID != businessID || !activeRecord(acc.SoftDelete) {
			return apperrors.NewNotFoundError("account", accountID)
		}
		out = &acc
		return nil
	})
	return out, err
}

func (r *accountRepo) FindAccountByCode(_ context.Context, businessID, code string) (*domain.Account, error) {
	var out *domain.Account
	err := r.sc.read(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.BusinessID == businessID && acc.Code == code && activeRecord(acc.SoftDelete) {
				a := acc
				out = &a
				return nil
			}
		}
		return apperrors.NewNotFoundError("account", code)
	})
	return out, err
}

func (r *accountRepo) FindAccountsByIDs(_ context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	err := r.sc.read(func(st *state) error {
		for _, id := range accountIDs {
			if acc, ok := st.accounts[id]; ok && acc.BusinessID == businessID && activeRecord(acc.SoftDelete) {
				out[id] = acc
			}
		}
		return nil
	})
	return out, err
}

func (r *accountRepo) ListAccountsByBusiness(_ context.Context, businessID string) ([]domain.Account, error) {
	var out []domain.Account
	err := r.sc.read(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.BusinessID == businessID && activeRecord(acc.SoftDelete) {
				out = append(out, acc)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *accountRepo) CountActiveChildren(_ context.Context, businessID, accountID string) (int, error) {
	n := 0
	err := r.sc.read(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.BusinessID == businessID && acc.ParentAccountID == accountID && acc.IsActive && activeRecord(acc.SoftDelete) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *accountRepo) SaveAccount(_ context.Context, account domain.Account) error {
	return r.sc.write(func(st *state) error {
		if _, exists := st.accounts[account.AccountID]; exists {
			return apperrors.ErrDuplicate
		}
		for _, acc := range st.accounts {
			if acc.BusinessID == account.BusinessID && acc.Code == account.Code && activeRecord(acc.SoftDelete) {
				return apperrors.ErrDuplicate
			}
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (r *accountRepo) DeactivateAccount(_ context.Context, businessID, accountID, userID string, now time.Time) error {
	return r.sc.write(func(st *state) error {
		acc, ok := st.accounts[accountID]
		if !ok || acc.BusinessID != businessID || !activeRecord(acc.SoftDelete) {
			return apperrors.NewNotFoundError("account", accountID)
		}
		acc.IsActive = false
		deletedAt := now
		acc.DeletedAt = &deletedAt
		acc.Touch(userID, now)
		st.accounts[accountID] = acc
		return nil
	})
}

type postingRuleRepo struct{ sc scope }

var _ portsrepo.PostingRuleRepository = (*postingRuleRepo)(nil)

func (r *postingRuleRepo) FindPostingAccounts(_ context.Context, businessID string) (domain.PostingAccounts, error) {
	out := make(domain.PostingAccounts)
	err := r.sc.read(func(st *state) error {
		for rule, b := range st.postingRules[businessID] {
			out[rule] = b.AccountID
		}
		return nil
	})
	return out, err
}

func (r *postingRuleRepo) UpsertPostingRule(_ context.Context, binding domain.PostingRuleBinding) error {
	return r.sc.write(func(st *state) error {
		rules, ok := st.postingRules[binding.BusinessID]
		if !ok {
			rules = make(map[domain.PostingRule]domain.PostingRuleBinding)
			st.postingRules[binding.BusinessID] = rules
		}
		if prev, exists := rules[binding.Rule]; exists {
			binding.CreatedAt = prev.CreatedAt
			binding.CreatedBy = prev.CreatedBy
		}
		rules[binding.Rule] = binding
		return nil
	})
}
