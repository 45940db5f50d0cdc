package pgsql_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/core/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/repositories/database/pgsql"
)

// PgsqlTestSuite runs the engine against a real PostgreSQL. It is skipped unless
// TEST_DATABASE_URL points at a disposable database.
type PgsqlTestSuite struct {
	suite.Suite
	ctx      context.Context
	pool     *pgxpool.Pool
	svc      *portssvc.ServiceContainer
	business string
	accounts map[string]string
}

func TestPgsqlTestSuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	suite.Run(t, new(PgsqlTestSuite))
}

func (suite *PgsqlTestSuite) SetupSuite() {
	suite.ctx = context.Background()
	url := os.Getenv("TEST_DATABASE_URL")

	db, err := sql.Open("pgx", url)
	suite.Require().NoError(err)
	defer db.Close()
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	suite.Require().NoError(err)
	m, err := migrate.NewWithDatabaseInstance("file://../../../../migrations", "postgres", driver)
	suite.Require().NoError(err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		suite.Require().NoError(err)
	}

	suite.pool, err = pgxpool.New(suite.ctx, url)
	suite.Require().NoError(err)
	suite.svc = services.NewServiceContainerWithOptions(pgsql.NewRepositoryProvider(suite.pool),
		services.WithDefaultLocation("main"),
	)
}

func (suite *PgsqlTestSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

// SetupTest gives every test a fresh business so rows never collide between tests.
func (suite *PgsqlTestSuite) SetupTest() {
	suite.business = "biz-" + uuid.NewString()
	chart := []struct {
		code string
		typ  domain.AccountType
		rule domain.PostingRule
	}{
		{"1010", domain.Bank, ""},
		{"1100", domain.AccountsReceivable, domain.RuleAccountsReceivable},
		{"1200", domain.Asset, domain.RuleInventory},
		{"2100", domain.Liability, domain.RuleTax},
		{"4000", domain.Income, domain.RuleSalesRevenue},
		{"5000", domain.Expense, domain.RuleCOGS},
	}
	suite.accounts = make(map[string]string, len(chart))
	for _, c := range chart {
		acc, err := suite.svc.Account.CreateAccount(suite.ctx, suite.business,
			dto.CreateAccountRequest{Code: c.code, Name: "Account " + c.code, AccountType: c.typ}, "user-1")
		suite.Require().NoError(err)
		suite.accounts[c.code] = acc.AccountID
		if c.rule != "" {
			_, err = suite.svc.Account.SetPostingRule(suite.ctx, suite.business, c.rule, acc.AccountID, "user-1")
			suite.Require().NoError(err)
		}
	}
	_, err := suite.svc.Inventory.RecordMovement(suite.ctx, suite.business, domain.MovementInput{
		ProductID: "P1",
		Type:      domain.MovementIn,
		Quantity:  decimal.RequireFromString("10"),
		UnitCost:  decimal.RequireFromString("6"),
	}, "user-1")
	suite.Require().NoError(err)
}

func (suite *PgsqlTestSuite) sale(number string) dto.DocumentRequest {
	return dto.DocumentRequest{
		Number:       number,
		Counterparty: &dto.ReferenceDTO{Type: "customer", ID: "cust-1"},
		Date:         time.Now().UTC(),
		TaxAmount:    decimal.RequireFromString("10"),
		Lines: []dto.DocumentLineRequest{
			{ProductID: "P1", Quantity: decimal.RequireFromString("2"), UnitPrice: decimal.RequireFromString("50")},
		},
		Payment: &dto.PaymentInfoRequest{Amount: decimal.RequireFromString("40"), BankAccountID: suite.accounts["1010"]},
	}
}

func (suite *PgsqlTestSuite) TestSaleRoundTrip() {
	out, err := suite.svc.Transaction.RecordSale(suite.ctx, suite.business, suite.sale("S-1"), "user-1")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPartPayment, out.Document.Status)

	doc, err := suite.svc.Document.GetDocument(suite.ctx, suite.business, out.Document.DocumentID)
	suite.Require().NoError(err)
	suite.Len(doc.Lines, 1)
	suite.True(doc.BalanceDue.Equal(decimal.RequireFromString("70")))
	suite.Equal(domain.CustomerRef{ID: "cust-1"}, doc.Counterparty)

	replay, err := suite.svc.Transaction.RecordSale(suite.ctx, suite.business, suite.sale("S-1"), "user-1")
	suite.Require().NoError(err)
	suite.True(replay.Replayed)

	tb, err := suite.svc.Journal.GetTrialBalance(suite.ctx, suite.business)
	suite.Require().NoError(err)
	suite.True(tb.TotalDebits.Equal(tb.TotalCredits))

	inv, err := suite.svc.Inventory.GetInventory(suite.ctx, suite.business, domain.StockKey{ProductID: "P1"})
	suite.Require().NoError(err)
	suite.Equal("8", inv.OnHandQuantity.String())

	report, err := suite.svc.Inventory.Reconcile(suite.ctx, suite.business, false, "user-1")
	suite.Require().NoError(err)
	suite.Empty(report.Drifts)
}

func (suite *PgsqlTestSuite) TestCancelReversesEverything() {
	req := suite.sale("S-2")
	req.Payment = nil
	out, err := suite.svc.Transaction.RecordSale(suite.ctx, suite.business, req, "user-1")
	suite.Require().NoError(err)

	cancelled, err := suite.svc.Transaction.CancelDocument(suite.ctx, suite.business, out.Document.DocumentID, "mistake", "user-1")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, cancelled.Document.Status)

	original, err := suite.svc.Journal.GetJournalEntry(suite.ctx, suite.business, out.Journal.JournalEntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, original.Status)
	suite.Require().NotNil(original.ReversingEntryID)

	inv, err := suite.svc.Inventory.GetInventory(suite.ctx, suite.business, domain.StockKey{ProductID: "P1"})
	suite.Require().NoError(err)
	suite.Equal("10", inv.OnHandQuantity.String())
}

func (suite *PgsqlTestSuite) TestConcurrentSalesNeverOversell() {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := suite.sale("C-" + uuid.NewString())
			req.Payment = nil
			_, err := suite.svc.Transaction.RecordSale(suite.ctx, suite.business, req, "user-1")
			if err != nil {
				mu.Lock()
				defer mu.Unlock()
				suite.ErrorIs(err, apperrors.ErrInsufficientStock)
				failures++
			}
		}()
	}
	wg.Wait()

	suite.Equal(1, failures)
	inv, err := suite.svc.Inventory.GetInventory(suite.ctx, suite.business, domain.StockKey{ProductID: "P1"})
	suite.Require().NoError(err)
	suite.True(inv.OnHandQuantity.IsZero())
}
