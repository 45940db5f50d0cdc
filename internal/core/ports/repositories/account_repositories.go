package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an active account of a business.
	FindAccountByID(ctx context.Context, businessID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an active account by its business-unique code.
	FindAccountByCode(ctx context.Context, businessID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves the active accounts among accountIDs, keyed by ID.
	FindAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountsByBusiness returns every active account of a business.
	ListAccountsByBusiness(ctx context.Context, businessID string) ([]domain.Account, error)

	// CountActiveChildren counts active accounts whose parent is accountID.
	CountActiveChildren(ctx context.Context, businessID, accountID string) (int, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account inactive and deleted.
	DeactivateAccount(ctx context.Context, businessID, accountID, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// PostingRuleRepository stores the rule-to-account bindings of each business.
type PostingRuleRepository interface {
	FindPostingAccounts(ctx context.Context, businessID string) (domain.PostingAccounts, error)
	UpsertPostingRule(ctx context.Context, binding domain.PostingRuleBinding) error
}
