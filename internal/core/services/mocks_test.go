package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// passthroughUoW runs units of work directly against fixed repositories.
type passthroughUoW struct {
	repos portsrepo.Repositories
}

func (u passthroughUoW) Execute(ctx context.Context, fn portsrepo.TxFunc) error {
	return fn(ctx, u.repos)
}

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, businessID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, businessID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, businessID, code string) (*domain.Account, error) {
	args := m.Called(ctx, businessID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, businessID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByBusiness(ctx context.Context, businessID string) ([]domain.Account, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CountActiveChildren(ctx context.Context, businessID, accountID string) (int, error) {
	args := m.Called(ctx, businessID, accountID)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, businessID, accountID, userID string, now time.Time) error {
	args := m.Called(ctx, businessID, accountID, userID, now)
	return args.Error(0)
}

// MockPostingRuleRepository is a mock type for the PostingRuleRepository interface
type MockPostingRuleRepository struct {
	mock.Mock
}

func (m *MockPostingRuleRepository) FindPostingAccounts(ctx context.Context, businessID string) (domain.PostingAccounts, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.PostingAccounts), args.Error(1)
}

func (m *MockPostingRuleRepository) UpsertPostingRule(ctx context.Context, binding domain.PostingRuleBinding) error {
	args := m.Called(ctx, binding)
	return args.Error(0)
}

// MockJournalRepository is a mock type for the JournalRepositoryFacade interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, businessID, journalID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, businessID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindJournalByIDForUpdate(ctx context.Context, businessID, journalID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, businessID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindPostedJournalsBySource(ctx context.Context, businessID string, source domain.Reference) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, businessID, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SaveJournal(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, originalJournalID *string, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, journalID, status, reversingJournalID, originalJournalID, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) SumAccountActivity(ctx context.Context, businessID string, account domain.Account) (domain.AccountActivity, error) {
	args := m.Called(ctx, businessID, account)
	return args.Get(0).(domain.AccountActivity), args.Error(1)
}

func (m *MockJournalRepository) SumActivityByAccount(ctx context.Context, businessID string) ([]domain.AccountActivity, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountActivity), args.Error(1)
}

func (m *MockJournalRepository) CountLedgerEntries(ctx context.Context, businessID, accountID string) (int, error) {
	args := m.Called(ctx, businessID, accountID)
	return args.Int(0), args.Error(1)
}

var (
	_ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)
	_ portsrepo.PostingRuleRepository   = (*MockPostingRuleRepository)(nil)
	_ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)
)
