package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/handlers"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/SscSPs/bizledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, businessID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, businessID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, businessID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountTree(ctx context.Context, businessID string) ([]*domain.AccountNode, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccountNode), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, businessID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, businessID string, accountID string, userID string) error {
	args := m.Called(ctx, businessID, accountID, userID)
	return args.Error(0)
}
func (m *MockAccountService) SetPostingRule(ctx context.Context, businessID string, rule domain.PostingRule, accountID string, userID string) (*domain.PostingRuleBinding, error) {
	args := m.Called(ctx, businessID, rule, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingRuleBinding), args.Error(1)
}
func (m *MockAccountService) ResolveActiveAccountsTx(ctx context.Context, repos portsrepo.Repositories, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, repos, businessID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}
func (m *MockAccountService) PostingAccountsTx(ctx context.Context, repos portsrepo.Repositories, businessID string) (domain.PostingAccounts, error) {
	args := m.Called(ctx, repos, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.PostingAccounts), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetJournalEntry(ctx context.Context, businessID string, journalID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, businessID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) GetAccountBalance(ctx context.Context, businessID string, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, businessID, accountID)
	if args.Get(0) == nil {
		return decimal.Decimal{}, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockJournalService) GetTrialBalance(ctx context.Context, businessID string) (*domain.TrialBalance, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}
func (m *MockJournalService) PostJournal(ctx context.Context, businessID string, req dto.PostJournalRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, businessID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ReverseJournal(ctx context.Context, businessID string, journalID string, reason string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, businessID, journalID, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) PostTx(ctx context.Context, repos portsrepo.Repositories, businessID string, draft domain.JournalDraft, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, repos, businessID, draft, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ReverseTx(ctx context.Context, repos portsrepo.Repositories, businessID string, journalID string, reason string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, repos, businessID, journalID, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ReverseBySourceTx(ctx context.Context, repos portsrepo.Repositories, businessID string, source domain.Reference, reason string, userID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, repos, businessID, source, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// generateTestToken creates a signed JWT carrying the user and business claims.
func generateTestToken(userID, businessID string) (string, error) {
	claims := middleware.Claims{
		BusinessID: businessID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "bizledger-test",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
}

func testConfig() *config.Config {
	return &config.Config{
		IsProduction:      true,
		JWTSecret:         testJWTSecret,
		JWTIssuer:         "bizledger-test",
		RateLimit:         "1000-M",
		DefaultLocationID: "main",
	}
}

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	mockJournalService *MockJournalService
	businessID         string
	userID             string
	token              string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(middleware.RegisterValidators())

	suite.mockAccountService = new(MockAccountService)
	suite.mockJournalService = new(MockJournalService)
	suite.businessID = uuid.NewString()
	suite.userID = uuid.NewString()

	var err error
	suite.token, err = generateTestToken(suite.userID, suite.businessID)
	suite.Require().NoError(err)

	suite.router = gin.New()
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, testConfig(), &portssvc.ServiceContainer{
		Account: suite.mockAccountService,
		Journal: suite.mockJournalService,
	}))
}

func (suite *AccountHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1010", Name: "Bank", AccountType: domain.Bank}
	created := &domain.Account{
		AccountID:   uuid.NewString(),
		BusinessID:  suite.businessID,
		Code:        "1010",
		Name:        "Bank",
		AccountType: domain.Bank,
		IsActive:    true,
	}
	suite.mockAccountService.On("CreateAccount", mock.Anything, suite.businessID, req, suite.userID).
		Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(created.AccountID, res.AccountID)
	suite.Equal(domain.Bank, res.AccountType)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidType() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", map[string]any{
		"code": "9999", "name": "Bad", "accountType": "crypto",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1010", Name: "Bank", AccountType: domain.Bank}
	suite.mockAccountService.On("CreateAccount", mock.Anything, suite.businessID, req, suite.userID).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccountByID", mock.Anything, suite.businessID, accountID).
		Return(nil, apperrors.NewNotFoundError("account", accountID)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	var res dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Contains(res.Error, accountID)
}

func (suite *AccountHandlerTestSuite) TestGetAccountBalance_Success() {
	accountID := uuid.NewString()
	suite.mockJournalService.On("GetAccountBalance", mock.Anything, suite.businessID, accountID).
		Return(decimal.RequireFromString("125.50"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/"+accountID+"/balance", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(accountID, res.AccountID)
	suite.True(res.Balance.Equal(decimal.RequireFromString("125.5")))
}

func (suite *AccountHandlerTestSuite) TestGetAccountTree_Success() {
	tree := []*domain.AccountNode{
		{
			Account: domain.Account{AccountID: "a1", Code: "1000", Name: "Assets", AccountType: domain.Asset, IsActive: true},
			Children: []*domain.AccountNode{
				{Account: domain.Account{AccountID: "a2", ParentAccountID: "a1", Code: "1010", Name: "Bank", AccountType: domain.Bank, IsActive: true}},
			},
		},
	}
	suite.mockAccountService.On("GetAccountTree", mock.Anything, suite.businessID).Return(tree, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/tree", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.AccountTreeNode
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Require().Len(res, 1)
	suite.Require().Len(res[0].Children, 1)
	suite.Equal("1010", res[0].Children[0].Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "GetAccountByID")
}

func (suite *AccountHandlerTestSuite) TestDeactivateAccount_HasChildren() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, suite.businessID, accountID, suite.userID).
		Return(apperrors.NewValidationError("account", "has active children")).Once()

	w := suite.do(http.MethodDelete, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AccountHandlerTestSuite) TestSetPostingRule_Success() {
	accountID := uuid.NewString()
	binding := &domain.PostingRuleBinding{BusinessID: suite.businessID, Rule: domain.RuleCash, AccountID: accountID}
	suite.mockAccountService.On("SetPostingRule", mock.Anything, suite.businessID, domain.RuleCash, accountID, suite.userID).
		Return(binding, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/posting-rules/CASH", dto.SetPostingRuleRequest{AccountID: accountID})

	suite.Equal(http.StatusOK, w.Code)
	var res domain.PostingRuleBinding
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(domain.RuleCash, res.Rule)
}

func (suite *AccountHandlerTestSuite) TestStorageFailureHidesCause() {
	suite.mockAccountService.On("GetAccountTree", mock.Anything, suite.businessID).
		Return(nil, apperrors.NewStorageError("find accounts", context.DeadlineExceeded)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/tree", nil)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.NotContains(w.Body.String(), "deadline")
}

func (suite *AccountHandlerTestSuite) TestMissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts/tree", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "GetAccountTree")
}

func (suite *AccountHandlerTestSuite) TestTokenWithoutBusinessRejected() {
	claims := jwt.RegisteredClaims{
		Issuer:    "bizledger-test",
		Subject:   suite.userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	suite.Require().NoError(err)
	suite.token = token

	w := suite.do(http.MethodGet, "/api/v1/accounts/tree", nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
