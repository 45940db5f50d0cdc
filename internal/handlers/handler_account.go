package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	journalService portssvc.JournalSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, js portssvc.JournalSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
		journalService: js,
	}
}

// registerAccountRoutes registers routes related to accounts and posting rules.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, journalService portssvc.JournalSvcFacade) {
	h := newAccountHandler(accountService, journalService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("/tree", h.getAccountTree)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/balance", h.getAccountBalance)
		accounts.DELETE("/:id", h.deactivateAccount)
	}
	rg.PUT("/posting-rules/:rule", h.setPostingRule)
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the caller's chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 400 {object} dto.ErrorResponse "Account code already in use"
// @Failure 500 {object} dto.ErrorResponse "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}

	logger.Info("Received request to create account", slog.String("code", req.Code), slog.String("account_type", string(req.AccountType)))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), businessID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	businessID, _, ok := identity(c)
	if !ok {
		return
	}
	account, err := h.accountService.GetAccountByID(c.Request.Context(), businessID, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountTree godoc
// @Summary Get the chart of accounts
// @Description Returns the active accounts of the caller's business as a forest ordered by code
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.AccountTreeNode
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to build account tree"
// @Security BearerAuth
// @Router /accounts/tree [get]
func (h *accountHandler) getAccountTree(c *gin.Context) {
	businessID, _, ok := identity(c)
	if !ok {
		return
	}
	tree, err := h.accountService.GetAccountTree(c.Request.Context(), businessID)
	if err != nil {
		respondWithError(c, err, "Failed to build account tree")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountTree(tree))
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Sums the posted ledger lines of the account, signed by its normal balance
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to calculate balance"
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	businessID, _, ok := identity(c)
	if !ok {
		return
	}
	accountID := c.Param("id")
	balance, err := h.journalService.GetAccountBalance(c.Request.Context(), businessID, accountID)
	if err != nil {
		respondWithError(c, err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalanceResponse{AccountID: accountID, Balance: balance})
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Soft-deletes an account that has no active children
// @Tags accounts
// @Param   id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Account still has active children"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to deactivate account"
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	accountID := c.Param("id")
	if err := h.accountService.DeactivateAccount(c.Request.Context(), businessID, accountID, userID); err != nil {
		respondWithError(c, err, "Failed to deactivate account")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account deactivated", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// setPostingRule godoc
// @Summary Bind a posting rule
// @Description Points a posting rule (CASH, AR, SALES_REVENUE, ...) at an account of the business
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   rule path string true "Posting rule"
// @Param   binding body dto.SetPostingRuleRequest true "Target account"
// @Success 200 {object} domain.PostingRuleBinding
// @Failure 400 {object} dto.ErrorResponse "Unknown rule or incompatible account"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /posting-rules/{rule} [put]
func (h *accountHandler) setPostingRule(c *gin.Context) {
	var req dto.SetPostingRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	binding, err := h.accountService.SetPostingRule(c.Request.Context(), businessID, domain.PostingRule(c.Param("rule")), req.AccountID, userID)
	if err != nil {
		respondWithError(c, err, "Failed to set posting rule")
		return
	}
	c.JSON(http.StatusOK, binding)
}
