package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := &paymentHandler{paymentService: paymentService}

	payments := rg.Group("/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("/:id", h.getPayment)
		payments.POST("/:id/allocations", h.allocate)
		payments.POST("/:id/refunds", h.refund)
	}
}

// createPayment godoc
// @Summary Record a payment
// @Description Stores money received or paid. A known external reference returns the earlier payment.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreatePaymentRequest true "Payment"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid payment"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	payment, err := req.ToPayment(time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.paymentService.CreatePayment(c.Request.Context(), businessID, payment, userID)
	if err != nil {
		respondWithError(c, err, "Failed to record payment")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Payment recorded",
		slog.String("payment_id", created.PaymentID), slog.String("amount", created.Amount.String()))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(created))
}

// getPayment godoc
// @Summary Get a payment with its allocations
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	businessID, _, ok := identity(c)
	if !ok {
		return
	}
	payment, err := h.paymentService.GetPayment(c.Request.Context(), businessID, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// allocate godoc
// @Summary Allocate a payment
// @Description Applies the payment to documents or advances and books the cash entry
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Payment ID"
// @Param   allocations body dto.AllocatePaymentRequest true "Allocations"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} dto.ErrorResponse "Payment or document not found"
// @Failure 422 {object} dto.ErrorResponse "Allocations exceed the payment or a balance due"
// @Security BearerAuth
// @Router /payments/{id}/allocations [post]
func (h *paymentHandler) allocate(c *gin.Context) {
	var req dto.AllocatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	payment, err := h.paymentService.Allocate(c.Request.Context(), businessID, c.Param("id"), req.ToAllocationInputs(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to allocate payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// refund godoc
// @Summary Refund a payment
// @Description Returns money from a completed payment, unwinding allocations newest first
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Payment ID"
// @Param   refund body dto.RefundPaymentRequest true "Refund"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Payment is not completed or refund exceeds the refundable amount"
// @Security BearerAuth
// @Router /payments/{id}/refunds [post]
func (h *paymentHandler) refund(c *gin.Context) {
	var req dto.RefundPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	paymentID := c.Param("id")
	payment, err := h.paymentService.Refund(c.Request.Context(), businessID, paymentID, req.Amount, req.Reason, userID)
	if err != nil {
		respondWithError(c, err, "Failed to refund payment")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Payment refunded",
		slog.String("payment_id", paymentID), slog.String("amount", req.Amount.String()))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}
