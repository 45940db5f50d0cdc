package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, businessID string, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts by their IDs.
	GetAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error)

	// GetAccountTree returns the chart of accounts as a forest, children sorted by code.
	GetAccountTree(ctx context.Context, businessID string) ([]*domain.AccountNode, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount soft-deletes an account that was never posted to and has no active children.
	DeactivateAccount(ctx context.Context, businessID string, accountID string, userID string) error

	// SetPostingRule binds a posting rule of the business to an account.
	SetPostingRule(ctx context.Context, businessID string, rule domain.PostingRule, accountID string, userID string) (*domain.PostingRuleBinding, error)
}

// AccountTxSvc exposes account lookups inside a caller's unit of work.
type AccountTxSvc interface {
	// ResolveActiveAccountsTx returns every requested account or a ValidationError naming the first
	// one that is unknown, inactive or owned by another business.
	ResolveActiveAccountsTx(ctx context.Context, repos portsrepo.Repositories, businessID string, accountIDs []string) (map[string]domain.Account, error)

	// PostingAccountsTx loads the posting rule table of a business.
	PostingAccountsTx(ctx context.Context, repos portsrepo.Repositories, businessID string) (domain.PostingAccounts, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountTxSvc
}
