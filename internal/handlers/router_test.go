package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/core/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/handlers"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/SscSPs/bizledger/internal/repositories/memory"
)

// RouterTestSuite drives the HTTP API end to end against the in-memory store.
type RouterTestSuite struct {
	suite.Suite
	router   *gin.Engine
	token    string
	accounts map[string]string
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (suite *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(middleware.RegisterValidators())

	cfg := testConfig()
	container := services.NewServiceContainerWithOptions(memory.New().Provider(),
		services.WithDefaultLocation(cfg.DefaultLocationID),
	)
	suite.router = gin.New()
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, container))

	var err error
	suite.token, err = generateTestToken("user-1", "biz-"+uuid.NewString())
	suite.Require().NoError(err)

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
		var acc dto.AccountResponse
		suite.call(http.MethodPost, "/api/v1/accounts",
			dto.CreateAccountRequest{Code: c.code, Name: "Account " + c.code, AccountType: c.typ},
			http.StatusCreated, &acc)
		suite.accounts[c.code] = acc.AccountID
		if c.rule != "" {
			suite.call(http.MethodPut, "/api/v1/posting-rules/"+string(c.rule),
				dto.SetPostingRuleRequest{AccountID: acc.AccountID}, http.StatusOK, nil)
		}
	}

	suite.call(http.MethodPost, "/api/v1/inventory/movements", map[string]any{
		"productID": "P1", "movementType": "in", "quantity": "10", "unitCost": "6",
	}, http.StatusCreated, nil)
}

// call sends body as JSON, asserts the status and decodes the response into out when given.
func (suite *RouterTestSuite) call(method, url string, body any, wantStatus int, out any) *httptest.ResponseRecorder {
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
	suite.Require().Equal(wantStatus, w.Code, "%s %s: %s", method, url, w.Body.String())
	if out != nil {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func (suite *RouterTestSuite) sale(number, qty string, paid string) map[string]any {
	body := map[string]any{
		"number":       number,
		"counterparty": map[string]string{"type": "customer", "id": "cust-1"},
		"date":         "2026-03-01T10:00:00Z",
		"taxAmount":    "10",
		"lines": []map[string]any{
			{"productID": "P1", "quantity": qty, "unitPrice": "50"},
		},
	}
	if paid != "" {
		body["payment"] = map[string]any{"amount": paid, "bankAccountID": suite.accounts["1010"]}
	}
	return body
}

func (suite *RouterTestSuite) TestHealth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *RouterTestSuite) TestSaleLifecycle() {
	var out dto.DocumentOutcomeResponse
	suite.call(http.MethodPost, "/api/v1/sales", suite.sale("S-1", "2", "40"), http.StatusCreated, &out)

	suite.Equal(domain.StatusPartPayment, out.Document.Status)
	suite.True(out.Document.TotalAmount.Equal(decimal.RequireFromString("110")))
	suite.True(out.Document.BalanceDue.Equal(decimal.RequireFromString("70")))
	suite.Require().NotNil(out.Journal)
	suite.Len(out.Movements, 1)
	suite.False(out.Replayed)

	var replay dto.DocumentOutcomeResponse
	suite.call(http.MethodPost, "/api/v1/sales", suite.sale("S-1", "2", "40"), http.StatusOK, &replay)
	suite.True(replay.Replayed)
	suite.Equal(out.Document.DocumentID, replay.Document.DocumentID)

	var paid dto.DocumentOutcomeResponse
	suite.call(http.MethodPost, "/api/v1/documents/"+out.Document.DocumentID+"/payments",
		map[string]any{"amount": "70", "bankAccountID": suite.accounts["1010"]}, http.StatusCreated, &paid)
	suite.Equal(domain.StatusPaid, paid.Document.Status)
	suite.Require().NotNil(paid.Payment)

	var refunded dto.PaymentResponse
	suite.call(http.MethodPost, "/api/v1/payments/"+paid.Payment.PaymentID+"/refunds",
		map[string]any{"amount": "20", "reason": "damaged"}, http.StatusOK, &refunded)
	suite.True(refunded.RefundedAmount.Equal(decimal.RequireFromString("20")))

	var doc dto.DocumentResponse
	suite.call(http.MethodGet, "/api/v1/documents/"+out.Document.DocumentID, nil, http.StatusOK, &doc)
	suite.Equal(domain.StatusPartPayment, doc.Status)
	suite.True(doc.BalanceDue.Equal(decimal.RequireFromString("20")))

	var tb domain.TrialBalance
	suite.call(http.MethodGet, "/api/v1/trial-balance", nil, http.StatusOK, &tb)
	suite.True(tb.TotalDebits.Equal(tb.TotalCredits))

	var stock []dto.InventoryResponse
	suite.call(http.MethodGet, "/api/v1/inventory/P1", nil, http.StatusOK, &stock)
	suite.Require().Len(stock, 1)
	suite.Equal("8", stock[0].OnHandQuantity.String())
}

func (suite *RouterTestSuite) TestOversellIsRejected() {
	w := suite.call(http.MethodPost, "/api/v1/sales", suite.sale("S-2", "11", ""), http.StatusUnprocessableEntity, nil)
	suite.Contains(w.Body.String(), "P1")

	var stock []dto.InventoryResponse
	suite.call(http.MethodGet, "/api/v1/inventory/P1", nil, http.StatusOK, &stock)
	suite.Require().Len(stock, 1)
	suite.Equal("10", stock[0].OnHandQuantity.String())
}

func (suite *RouterTestSuite) TestNumberReuseWithDifferentPayloadRejected() {
	suite.call(http.MethodPost, "/api/v1/sales", suite.sale("S-3", "1", ""), http.StatusCreated, nil)
	suite.call(http.MethodPost, "/api/v1/sales", suite.sale("S-3", "2", ""), http.StatusBadRequest, nil)
}

func (suite *RouterTestSuite) TestCancelRestoresStock() {
	var out dto.DocumentOutcomeResponse
	suite.call(http.MethodPost, "/api/v1/sales", suite.sale("S-4", "3", ""), http.StatusCreated, &out)

	var cancelled dto.DocumentOutcomeResponse
	suite.call(http.MethodPost, "/api/v1/documents/"+out.Document.DocumentID+"/cancel",
		dto.CancelDocumentRequest{Reason: "entered twice"}, http.StatusOK, &cancelled)
	suite.Equal(domain.StatusCancelled, cancelled.Document.Status)
	suite.NotEmpty(cancelled.Reversals)

	var journal dto.JournalResponse
	suite.call(http.MethodGet, "/api/v1/journals/"+out.Journal.JournalEntryID, nil, http.StatusOK, &journal)
	suite.Equal(domain.Reversed, journal.Status)

	var stock []dto.InventoryResponse
	suite.call(http.MethodGet, "/api/v1/inventory/P1", nil, http.StatusOK, &stock)
	suite.Equal("10", stock[0].OnHandQuantity.String())
}

func (suite *RouterTestSuite) TestManualJournalMustBalance() {
	lines := []map[string]any{
		{"accountID": suite.accounts["1010"], "debit": "100"},
		{"accountID": suite.accounts["4000"], "credit": "90"},
	}
	suite.call(http.MethodPost, "/api/v1/journals",
		map[string]any{"date": "2026-03-01T00:00:00Z", "lines": lines}, http.StatusBadRequest, nil)

	lines[1]["credit"] = "100"
	var entry dto.JournalResponse
	suite.call(http.MethodPost, "/api/v1/journals",
		map[string]any{"date": "2026-03-01T00:00:00Z", "lines": lines}, http.StatusCreated, &entry)

	var balance dto.AccountBalanceResponse
	suite.call(http.MethodGet, "/api/v1/accounts/"+suite.accounts["4000"]+"/balance", nil, http.StatusOK, &balance)
	suite.Equal("100", balance.Balance.String())

	suite.call(http.MethodPost, "/api/v1/journals/"+entry.JournalEntryID+"/reverse",
		dto.ReverseJournalRequest{Reason: "typo"}, http.StatusCreated, nil)
	suite.call(http.MethodPost, "/api/v1/journals/"+entry.JournalEntryID+"/reverse",
		dto.ReverseJournalRequest{Reason: "again"}, http.StatusBadRequest, nil)
}

func (suite *RouterTestSuite) TestReservationsAndReconcile() {
	var inv dto.InventoryResponse
	suite.call(http.MethodPost, "/api/v1/inventory/reservations",
		map[string]any{"productID": "P1", "quantity": "4"}, http.StatusOK, &inv)
	suite.Equal("6", inv.AvailableQuantity.String())

	suite.call(http.MethodPost, "/api/v1/inventory/reservations",
		map[string]any{"productID": "P1", "quantity": "7"}, http.StatusBadRequest, nil)

	suite.call(http.MethodPost, "/api/v1/inventory/releases",
		map[string]any{"productID": "P1", "quantity": "4"}, http.StatusOK, &inv)
	suite.Equal("10", inv.AvailableQuantity.String())

	var moved []dto.MovementResponse
	suite.call(http.MethodPost, "/api/v1/inventory/bulk-adjustments", map[string]any{
		"adjustments": []map[string]any{{"productID": "P1", "delta": "-3"}},
	}, http.StatusCreated, &moved)
	suite.Len(moved, 1)

	var report domain.ReconcileReport
	suite.call(http.MethodPost, "/api/v1/inventory/reconcile", nil, http.StatusOK, &report)
	suite.Empty(report.Drifts)
}

func (suite *RouterTestSuite) TestValidationRejectsNonPositiveQuantity() {
	suite.call(http.MethodPost, "/api/v1/sales", suite.sale("S-5", "0", ""), http.StatusBadRequest, nil)
}
