package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(provider portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{BaseService: newBaseService(provider, options...)}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// postingRuleTypes lists the account types each posting rule may point at.
var postingRuleTypes = map[domain.PostingRule][]domain.AccountType{
	domain.RuleCash:               {domain.Cash, domain.Bank},
	domain.RuleAccountsReceivable: {domain.AccountsReceivable, domain.Asset},
	domain.RuleAccountsPayable:    {domain.AccountsPayable, domain.Liability},
	domain.RuleSalesRevenue:       {domain.Income},
	domain.RuleCOGS:               {domain.Expense},
	domain.RuleInventory:          {domain.Asset},
	domain.RuleExpense:            {domain.Expense},
	domain.RuleTax:                {domain.Liability, domain.Asset, domain.Other},
}

func (s *accountService) CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, apperrors.NewValidationError("code", "is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("name", "is required")
	}
	if !req.AccountType.Valid() {
		return nil, apperrors.NewValidationError("accountType", "unknown account type %q", req.AccountType)
	}

	now := s.now()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		BusinessID:  businessID,
		Code:        code,
		Name:        req.Name,
		AccountType: req.AccountType,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(userID, now),
	}
	if req.ParentAccountID != nil {
		account.ParentAccountID = *req.ParentAccountID
	}

	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		_, err := repos.Accounts.FindAccountByCode(ctx, businessID, code)
		switch {
		case err == nil:
			return apperrors.NewValidationError("code", "account code %q already exists", code)
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}

		if account.ParentAccountID != "" {
			parent, err := repos.Accounts.FindAccountByID(ctx, businessID, account.ParentAccountID)
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewValidationError("parentAccountID", "parent account %s does not exist in this business", account.ParentAccountID)
			}
			if err != nil {
				return err
			}
			if !parent.IsActive {
				return apperrors.NewValidationError("parentAccountID", "parent account %s is inactive", parent.AccountID)
			}
		}

		if err := repos.Accounts.SaveAccount(ctx, account); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return apperrors.NewValidationError("code", "account code %q already exists", code)
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account",
			slog.String("business_id", businessID),
			slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("business_id", businessID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, businessID string, accountID string) (*domain.Account, error) {
	account, err := s.repos().Accounts.FindAccountByID(ctx, businessID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.repos().Accounts.FindAccountsByIDs(ctx, businessID, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs",
			slog.String("account_ids", fmt.Sprintf("%v", accountIDs)))
		return nil, err
	}
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, apperrors.NewNotFoundError("account", id)
		}
	}
	return accounts, nil
}

// GetAccountTree links accounts breadth-first from the roots. Accounts that are never reached
// sit on a parent cycle; a parent id that resolves to nothing is dangling. Both fail the call.
func (s *accountService) GetAccountTree(ctx context.Context, businessID string) ([]*domain.AccountNode, error) {
	accounts, err := s.repos().Accounts.ListAccountsByBusiness(ctx, businessID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("business_id", businessID))
		return nil, err
	}

	nodes := make(map[string]*domain.AccountNode, len(accounts))
	for _, acc := range accounts {
		nodes[acc.AccountID] = &domain.AccountNode{Account: acc}
	}

	children := make(map[string][]*domain.AccountNode)
	var roots []*domain.AccountNode
	for _, acc := range accounts {
		node := nodes[acc.AccountID]
		if acc.ParentAccountID == "" {
			roots = append(roots, node)
			continue
		}
		if acc.ParentAccountID == acc.AccountID {
			return nil, apperrors.NewValidationError("parentAccountID", "account %s is its own parent", acc.AccountID)
		}
		if _, ok := nodes[acc.ParentAccountID]; !ok {
			return nil, apperrors.NewValidationError("parentAccountID", "account %s has dangling parent %s", acc.AccountID, acc.ParentAccountID)
		}
		children[acc.ParentAccountID] = append(children[acc.ParentAccountID], node)
	}

	byCode := func(list []*domain.AccountNode) {
		sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	}
	byCode(roots)

	visited := make(map[string]bool, len(nodes))
	queue := append([]*domain.AccountNode(nil), roots...)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if visited[node.AccountID] {
			return nil, apperrors.NewValidationError("parentAccountID", "account %s is reachable twice", node.AccountID)
		}
		visited[node.AccountID] = true
		kids := children[node.AccountID]
		byCode(kids)
		node.Children = kids
		queue = append(queue, kids...)
	}

	if len(visited) != len(nodes) {
		for _, acc := range accounts {
			if !visited[acc.AccountID] {
				return nil, apperrors.NewValidationError("parentAccountID", "account %s is part of a parent cycle", acc.AccountID)
			}
		}
	}
	return roots, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, businessID string, accountID string, userID string) error {
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		if _, err := repos.Accounts.FindAccountByID(ctx, businessID, accountID); err != nil {
			return err
		}
		entries, err := repos.Journals.CountLedgerEntries(ctx, businessID, accountID)
		if err != nil {
			return err
		}
		if entries > 0 {
			return apperrors.NewValidationError("accountID", "account %s has %d ledger entries and cannot be deactivated", accountID, entries)
		}
		kids, err := repos.Accounts.CountActiveChildren(ctx, businessID, accountID)
		if err != nil {
			return err
		}
		if kids > 0 {
			return apperrors.NewValidationError("accountID", "account %s has %d active sub-accounts", accountID, kids)
		}
		return repos.Accounts.DeactivateAccount(ctx, businessID, accountID, userID, s.now())
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) SetPostingRule(ctx context.Context, businessID string, rule domain.PostingRule, accountID string, userID string) (*domain.PostingRuleBinding, error) {
	if !rule.Valid() {
		return nil, apperrors.NewValidationError("rule", "unknown posting rule %q", rule)
	}
	binding := domain.PostingRuleBinding{
		BusinessID:  businessID,
		Rule:        rule,
		AccountID:   accountID,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		accounts, err := s.ResolveActiveAccountsTx(ctx, repos, businessID, []string{accountID})
		if err != nil {
			return err
		}
		accType := accounts[accountID].AccountType
		allowed := postingRuleTypes[rule]
		ok := false
		for _, t := range allowed {
			if t == accType {
				ok = true
				break
			}
		}
		if !ok {
			return apperrors.NewValidationError("accountID", "rule %s cannot use a %s account", rule, accType)
		}
		return repos.PostingRules.UpsertPostingRule(ctx, binding)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to set posting rule", slog.String("rule", string(rule)))
		return nil, err
	}
	s.LogInfo(ctx, "Posting rule set", slog.String("rule", string(rule)), slog.String("account_id", accountID))
	return &binding, nil
}

func (s *accountService) ResolveActiveAccountsTx(ctx context.Context, repos portsrepo.Repositories, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	unique := make([]string, 0, len(accountIDs))
	seen := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	accounts, err := repos.Accounts.FindAccountsByIDs(ctx, businessID, unique)
	if err != nil {
		return nil, err
	}
	for _, id := range unique {
		acc, ok := accounts[id]
		if !ok {
			return nil, apperrors.NewValidationError("accountID", "account %s is unknown or belongs to another business", id)
		}
		if !acc.IsActive {
			return nil, apperrors.NewValidationError("accountID", "account %s is inactive", id)
		}
	}
	return accounts, nil
}

func (s *accountService) PostingAccountsTx(ctx context.Context, repos portsrepo.Repositories, businessID string) (domain.PostingAccounts, error) {
	return repos.PostingRules.FindPostingAccounts(ctx, businessID)
}
