package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/core/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testBusiness = "biz-1"

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockAccountRepository
	mockRules   *MockPostingRuleRepository
	mockJournal *MockJournalRepository
	service     portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockRules = new(MockPostingRuleRepository)
	suite.mockJournal = new(MockJournalRepository)
	repos := portsrepo.Repositories{
		Accounts:     suite.mockRepo,
		PostingRules: suite.mockRules,
		Journals:     suite.mockJournal,
	}
	provider := portsrepo.RepositoryProvider{Repos: repos, UnitOfWork: passthroughUoW{repos: repos}}
	suite.service = services.NewAccountService(provider, services.WithClock(func() time.Time { return fixedNow }))
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash on hand", AccountType: domain.Cash}

	suite.mockRepo.On("FindAccountByCode", mock.Anything, testBusiness, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", mock.Anything, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, testBusiness, req, "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal(testBusiness, created.BusinessID)
	suite.Equal("1000", created.Code)
	suite.True(created.IsActive)
	suite.Equal("user-1", created.CreatedBy)
	suite.Equal(fixedNow, created.CreatedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Cash}
	suite.mockRepo.On("FindAccountByCode", mock.Anything, testBusiness, "1000").
		Return(&domain.Account{AccountID: "acc-existing", Code: "1000"}, nil).Once()

	created, err := suite.service.CreateAccount(ctx, testBusiness, req, "user-1")

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentInOtherBusiness() {
	ctx := context.Background()
	parent := "acc-foreign"
	req := dto.CreateAccountRequest{Code: "1100", Name: "Petty cash", AccountType: domain.Cash, ParentAccountID: &parent}

	suite.mockRepo.On("FindAccountByCode", mock.Anything, testBusiness, "1100").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", mock.Anything, testBusiness, parent).Return(nil, apperrors.NewNotFoundError("account", parent)).Once()

	_, err := suite.service.CreateAccount(ctx, testBusiness, req, "user-1")

	var vErr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &vErr)
	suite.Equal("parentAccountID", vErr.Field)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownType() {
	_, err := suite.service.CreateAccount(context.Background(), testBusiness,
		dto.CreateAccountRequest{Code: "9", Name: "X", AccountType: domain.AccountType("revenue")}, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "2000", Name: "Payables", AccountType: domain.AccountsPayable}
	suite.mockRepo.On("FindAccountByCode", mock.Anything, testBusiness, "2000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", mock.Anything, mock.AnythingOfType("domain.Account")).Return(assert.AnError).Once()

	created, err := suite.service.CreateAccount(ctx, testBusiness, req, "user-1")

	suite.Nil(created)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	suite.mockRepo.On("FindAccountByID", mock.Anything, testBusiness, "missing").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByID(context.Background(), testBusiness, "missing")

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountTree_SortsChildrenByCode() {
	accounts := []domain.Account{
		{AccountID: "a", Code: "1000", Name: "Assets"},
		{AccountID: "c", Code: "1200", ParentAccountID: "a"},
		{AccountID: "b", Code: "1100", ParentAccountID: "a"},
		{AccountID: "d", Code: "2000", Name: "Liabilities"},
	}
	suite.mockRepo.On("ListAccountsByBusiness", mock.Anything, testBusiness).Return(accounts, nil).Once()

	tree, err := suite.service.GetAccountTree(context.Background(), testBusiness)

	suite.Require().NoError(err)
	suite.Require().Len(tree, 2)
	suite.Equal("1000", tree[0].Code)
	suite.Require().Len(tree[0].Children, 2)
	suite.Equal("1100", tree[0].Children[0].Code)
	suite.Equal("1200", tree[0].Children[1].Code)
	suite.Empty(tree[1].Children)
}

func (suite *AccountServiceTestSuite) TestGetAccountTree_Cycle() {
	accounts := []domain.Account{
		{AccountID: "root", Code: "1"},
		{AccountID: "x", Code: "2", ParentAccountID: "y"},
		{AccountID: "y", Code: "3", ParentAccountID: "x"},
	}
	suite.mockRepo.On("ListAccountsByBusiness", mock.Anything, testBusiness).Return(accounts, nil).Once()

	tree, err := suite.service.GetAccountTree(context.Background(), testBusiness)

	suite.Nil(tree)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestGetAccountTree_DanglingParent() {
	accounts := []domain.Account{{AccountID: "x", Code: "2", ParentAccountID: "gone"}}
	suite.mockRepo.On("ListAccountsByBusiness", mock.Anything, testBusiness).Return(accounts, nil).Once()

	_, err := suite.service.GetAccountTree(context.Background(), testBusiness)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_WithLedgerEntries() {
	suite.mockRepo.On("FindAccountByID", mock.Anything, testBusiness, "acc-1").Return(&domain.Account{AccountID: "acc-1"}, nil).Once()
	suite.mockJournal.On("CountLedgerEntries", mock.Anything, testBusiness, "acc-1").Return(3, nil).Once()

	err := suite.service.DeactivateAccount(context.Background(), testBusiness, "acc-1", "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	suite.mockRepo.On("FindAccountByID", mock.Anything, testBusiness, "acc-1").Return(&domain.Account{AccountID: "acc-1"}, nil).Once()
	suite.mockJournal.On("CountLedgerEntries", mock.Anything, testBusiness, "acc-1").Return(0, nil).Once()
	suite.mockRepo.On("CountActiveChildren", mock.Anything, testBusiness, "acc-1").Return(0, nil).Once()
	suite.mockRepo.On("DeactivateAccount", mock.Anything, testBusiness, "acc-1", "user-1", fixedNow).Return(nil).Once()

	err := suite.service.DeactivateAccount(context.Background(), testBusiness, "acc-1", "user-1")

	suite.NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestSetPostingRule_TypeMismatch() {
	suite.mockRepo.On("FindAccountsByIDs", mock.Anything, testBusiness, []string{"acc-income"}).
		Return(map[string]domain.Account{"acc-income": {AccountID: "acc-income", AccountType: domain.Income, IsActive: true}}, nil).Once()

	binding, err := suite.service.SetPostingRule(context.Background(), testBusiness, domain.RuleCash, "acc-income", "user-1")

	suite.Nil(binding)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRules.AssertNotCalled(suite.T(), "UpsertPostingRule", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestSetPostingRule_Success() {
	suite.mockRepo.On("FindAccountsByIDs", mock.Anything, testBusiness, []string{"acc-bank"}).
		Return(map[string]domain.Account{"acc-bank": {AccountID: "acc-bank", AccountType: domain.Bank, IsActive: true}}, nil).Once()
	suite.mockRules.On("UpsertPostingRule", mock.Anything, mock.MatchedBy(func(b domain.PostingRuleBinding) bool {
		return b.Rule == domain.RuleCash && b.AccountID == "acc-bank" && b.BusinessID == testBusiness
	})).Return(nil).Once()

	binding, err := suite.service.SetPostingRule(context.Background(), testBusiness, domain.RuleCash, "acc-bank", "user-1")

	suite.Require().NoError(err)
	suite.Equal("acc-bank", binding.AccountID)
	suite.mockRules.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestResolveActiveAccountsTx_Inactive() {
	repos := portsrepo.Repositories{Accounts: suite.mockRepo}
	suite.mockRepo.On("FindAccountsByIDs", mock.Anything, testBusiness, []string{"a", "b"}).
		Return(map[string]domain.Account{
			"a": {AccountID: "a", IsActive: true},
			"b": {AccountID: "b", IsActive: false},
		}, nil).Once()

	_, err := suite.service.ResolveActiveAccountsTx(context.Background(), repos, testBusiness, []string{"a", "b", "a"})

	suite.ErrorIs(err, apperrors.ErrValidation)
}
