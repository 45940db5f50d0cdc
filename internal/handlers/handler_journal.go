package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.postJournal)
		journals.GET("/:id", h.getJournal)
		journals.POST("/:id/reverse", h.reverseJournal)
	}
	rg.GET("/trial-balance", h.getTrialBalance)
}

// postJournal godoc
// @Summary Post a manual journal entry
// @Description Validates that debits equal credits and records the entry with its ledger lines
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.PostJournalRequest true "Journal entry"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request or imbalanced entry"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to post journal"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PostJournalRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}

	entry, err := h.journalService.PostJournal(c.Request.Context(), businessID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to post journal")
		return
	}

	logger.Info("Journal posted successfully", slog.String("journal_id", entry.JournalEntryID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(entry))
}

// getJournal godoc
// @Summary Get a journal entry and its ledger lines
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal entry ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} dto.ErrorResponse "Journal not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve journal"
// @Security BearerAuth
// @Router /journals/{id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	businessID, _, ok := identity(c)
	if !ok {
		return
	}
	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), businessID, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(entry))
}

// reverseJournal godoc
// @Summary Reverse a posted journal entry
// @Description Posts a mirror entry and marks the original REVERSED
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   id path string true "Journal entry ID"
// @Param   reversal body dto.ReverseJournalRequest true "Reversal reason"
// @Success 201 {object} dto.JournalResponse
// @Failure 404 {object} dto.ErrorResponse "Journal not found"
// @Failure 400 {object} dto.ErrorResponse "Journal already reversed"
// @Security BearerAuth
// @Router /journals/{id}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReverseJournalRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}

	journalID := c.Param("id")
	reversal, err := h.journalService.ReverseJournal(c.Request.Context(), businessID, journalID, req.Reason, userID)
	if err != nil {
		respondWithError(c, err, "Failed to reverse journal")
		return
	}

	logger.Info("Journal reversed", slog.String("journal_id", journalID), slog.String("reversal_id", reversal.JournalEntryID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Lists posted debit and credit totals per account; the grand totals are always equal
// @Tags journals
// @Produce  json
// @Success 200 {object} domain.TrialBalance
// @Failure 500 {object} dto.ErrorResponse "Failed to build trial balance"
// @Security BearerAuth
// @Router /trial-balance [get]
func (h *journalHandler) getTrialBalance(c *gin.Context) {
	businessID, _, ok := identity(c)
	if !ok {
		return
	}
	tb, err := h.journalService.GetTrialBalance(c.Request.Context(), businessID)
	if err != nil {
		respondWithError(c, err, "Failed to build trial balance")
		return
	}
	c.JSON(http.StatusOK, tb)
}
