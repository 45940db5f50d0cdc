package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// documentHandler serves business documents and the transaction endpoints that record them.
type documentHandler struct {
	documentService    portssvc.DocumentSvcFacade
	transactionService portssvc.TransactionSvcFacade
	now                func() time.Time
}

func newDocumentHandler(ds portssvc.DocumentSvcFacade, ts portssvc.TransactionSvcFacade) *documentHandler {
	return &documentHandler{
		documentService:    ds,
		transactionService: ts,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade, transactionService portssvc.TransactionSvcFacade) {
	h := newDocumentHandler(documentService, transactionService)

	rg.POST("/sales", h.record(domain.KindSale))
	rg.POST("/purchases", h.record(domain.KindPurchase))
	rg.POST("/expenses", h.record(domain.KindExpense))
	rg.POST("/invoices", h.record(domain.KindInvoice))

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("/:id", h.getDocument)
		documents.POST("/:id/settle", h.settleDocument)
		documents.POST("/:id/payments", h.applyPayment)
		documents.POST("/:id/cancel", h.cancelDocument)
	}
}

// record godoc
// @Summary Record a sale, purchase, expense or invoice
// @Description Saves the document with its ledger entry, stock movements and optional payment in one transaction.
// @Description Re-sending a known document number with the same payload replays the stored outcome.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   document body dto.DocumentRequest true "Document"
// @Success 201 {object} dto.DocumentOutcomeResponse
// @Success 200 {object} dto.DocumentOutcomeResponse "Replayed"
// @Failure 400 {object} dto.ErrorResponse "Invalid document or number reused with a different payload"
// @Failure 409 {object} dto.ErrorResponse "Concurrent update, retry"
// @Failure 422 {object} dto.ErrorResponse "Insufficient stock or overpayment"
// @Security BearerAuth
// @Router /sales [post]
// @Router /purchases [post]
// @Router /expenses [post]
// @Router /invoices [post]
func (h *documentHandler) record(kind domain.DocumentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())

		var req dto.DocumentRequest
		if !bindJSON(c, &req) {
			return
		}
		businessID, userID, ok := identity(c)
		if !ok {
			return
		}
		req.Kind = kind

		out, err := h.dispatch(c.Request.Context(), kind, businessID, req, userID)
		if err != nil {
			respondWithError(c, err, "Failed to record "+string(kind))
			return
		}

		status := http.StatusCreated
		if out.Replayed {
			status = http.StatusOK
		}
		logger.Info("Document recorded",
			slog.String("kind", string(kind)),
			slog.String("document_id", out.Document.DocumentID),
			slog.String("status", string(out.Document.Status)),
			slog.Bool("replayed", out.Replayed))
		c.JSON(status, dto.ToDocumentOutcomeResponse(out, h.now()))
	}
}

func (h *documentHandler) dispatch(ctx context.Context, kind domain.DocumentKind, businessID string, req dto.DocumentRequest, userID string) (*domain.DocumentOutcome, error) {
	switch kind {
	case domain.KindSale:
		return h.transactionService.RecordSale(ctx, businessID, req, userID)
	case domain.KindPurchase:
		return h.transactionService.RecordPurchase(ctx, businessID, req, userID)
	case domain.KindExpense:
		return h.transactionService.RecordExpense(ctx, businessID, req, userID)
	default:
		return h.transactionService.RecordInvoice(ctx, businessID, req, userID)
	}
}

// createDocument godoc
// @Summary Store a document without side effects
// @Description Saves the header and lines only. Use the transaction endpoints to book ledger and stock effects.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   document body dto.DocumentRequest true "Document with kind"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid document"
// @Security BearerAuth
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	var req dto.DocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Kind == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "kind is required"})
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	doc, err := h.documentService.CreateDocument(c.Request.Context(), businessID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create document")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc, h.now()))
}

// getDocument godoc
// @Summary Get a document
// @Description Status is reported as overdue when the due date has passed with a balance left
// @Tags documents
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	businessID, _, ok := identity(c)
	if !ok {
		return
	}
	doc, err := h.documentService.GetDocument(c.Request.Context(), businessID, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc, h.now()))
}

// settleDocument godoc
// @Summary Settle a draft document
// @Description Moves a draft to pending and books its ledger and stock effects
// @Tags documents
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} dto.DocumentOutcomeResponse
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Failure 400 {object} dto.ErrorResponse "Document is not a draft"
// @Failure 422 {object} dto.ErrorResponse "Insufficient stock"
// @Security BearerAuth
// @Router /documents/{id}/settle [post]
func (h *documentHandler) settleDocument(c *gin.Context) {
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	out, err := h.transactionService.SettleDocument(c.Request.Context(), businessID, c.Param("id"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to settle document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentOutcomeResponse(out, h.now()))
}

// applyPayment godoc
// @Summary Pay a document
// @Description Records a payment, allocates it to the document and books the cash entry
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   id path string true "Document ID"
// @Param   payment body dto.PaymentInfoRequest true "Payment"
// @Success 201 {object} dto.DocumentOutcomeResponse
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Failure 422 {object} dto.ErrorResponse "Payment exceeds the balance due"
// @Security BearerAuth
// @Router /documents/{id}/payments [post]
func (h *documentHandler) applyPayment(c *gin.Context) {
	var req dto.PaymentInfoRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	out, err := h.transactionService.ApplyPayment(c.Request.Context(), businessID, c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to apply payment")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Payment applied to document",
		slog.String("document_id", out.Document.DocumentID),
		slog.String("balance_due", out.Document.BalanceDue.String()))
	c.JSON(http.StatusCreated, dto.ToDocumentOutcomeResponse(out, h.now()))
}

// cancelDocument godoc
// @Summary Cancel a document
// @Description Reverses the document's journals and stock movements
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   id path string true "Document ID"
// @Param   cancellation body dto.CancelDocumentRequest true "Reason"
// @Success 200 {object} dto.DocumentOutcomeResponse
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Failure 400 {object} dto.ErrorResponse "Document cannot be cancelled"
// @Security BearerAuth
// @Router /documents/{id}/cancel [post]
func (h *documentHandler) cancelDocument(c *gin.Context) {
	var req dto.CancelDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	out, err := h.transactionService.CancelDocument(c.Request.Context(), businessID, c.Param("id"), req.Reason, userID)
	if err != nil {
		respondWithError(c, err, "Failed to cancel document")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Document cancelled",
		slog.String("document_id", out.Document.DocumentID), slog.Int("reversals", len(out.Reversals)))
	c.JSON(http.StatusOK, dto.ToDocumentOutcomeResponse(out, h.now()))
}
