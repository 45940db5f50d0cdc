package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
	defaultLocation  string
}

func newInventoryHandler(inventoryService portssvc.InventorySvcFacade, defaultLocation string) *inventoryHandler {
	return &inventoryHandler{
		inventoryService: inventoryService,
		defaultLocation:  defaultLocation,
	}
}

func registerInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade, defaultLocation string) {
	h := newInventoryHandler(inventoryService, defaultLocation)

	inventory := rg.Group("/inventory")
	{
		inventory.POST("/movements", h.recordMovement)
		inventory.POST("/movements/:id/confirm", h.confirmMovement)
		inventory.POST("/movements/:id/cancel", h.cancelMovement)
		inventory.POST("/reservations", h.reserve)
		inventory.POST("/releases", h.release)
		inventory.POST("/bulk-adjustments", h.bulkAdjust)
		inventory.POST("/reconcile", h.reconcile)
		inventory.GET("/:productID", h.getProductInventory)
	}
}

// recordMovement godoc
// @Summary Record a stock movement
// @Description Applies an in, out or adjustment movement to on-hand stock; pending movements apply on confirmation
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   movement body dto.RecordMovementRequest true "Movement"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid movement"
// @Failure 422 {object} dto.ErrorResponse "Insufficient stock"
// @Security BearerAuth
// @Router /inventory/movements [post]
func (h *inventoryHandler) recordMovement(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	in, err := req.ToMovementInput(h.defaultLocation)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	movement, err := h.inventoryService.RecordMovement(c.Request.Context(), businessID, in, userID)
	if err != nil {
		respondWithError(c, err, "Failed to record stock movement")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Stock movement recorded",
		slog.String("movement_id", movement.MovementID), slog.String("product_id", movement.ProductID))
	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}

// confirmMovement godoc
// @Summary Confirm a pending movement
// @Description Confirms part or all of a pending movement and applies the confirmed quantity
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   id path string true "Movement ID"
// @Param   confirmation body dto.ConfirmMovementRequest true "Quantity to confirm"
// @Success 200 {object} dto.MovementResponse
// @Failure 404 {object} dto.ErrorResponse "Movement not found"
// @Failure 400 {object} dto.ErrorResponse "Movement is not pending"
// @Failure 422 {object} dto.ErrorResponse "Insufficient stock"
// @Security BearerAuth
// @Router /inventory/movements/{id}/confirm [post]
func (h *inventoryHandler) confirmMovement(c *gin.Context) {
	var req dto.ConfirmMovementRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	movement, err := h.inventoryService.ConfirmMovement(c.Request.Context(), businessID, c.Param("id"), req.Quantity, userID)
	if err != nil {
		respondWithError(c, err, "Failed to confirm stock movement")
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponse(movement))
}

// cancelMovement godoc
// @Summary Cancel a pending movement
// @Tags inventory
// @Produce  json
// @Param   id path string true "Movement ID"
// @Success 200 {object} dto.MovementResponse
// @Failure 404 {object} dto.ErrorResponse "Movement not found"
// @Failure 400 {object} dto.ErrorResponse "Movement is not pending"
// @Security BearerAuth
// @Router /inventory/movements/{id}/cancel [post]
func (h *inventoryHandler) cancelMovement(c *gin.Context) {
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	movement, err := h.inventoryService.CancelMovement(c.Request.Context(), businessID, c.Param("id"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to cancel stock movement")
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponse(movement))
}

// reserve godoc
// @Summary Reserve stock
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   reservation body dto.ReservationRequest true "Stock to reserve"
// @Success 200 {object} dto.InventoryResponse
// @Failure 400 {object} dto.ErrorResponse "Not enough available stock"
// @Security BearerAuth
// @Router /inventory/reservations [post]
func (h *inventoryHandler) reserve(c *gin.Context) {
	var req dto.ReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	inv, err := h.inventoryService.Reserve(c.Request.Context(), businessID, req.Key(h.defaultLocation), req.Quantity, userID)
	if err != nil {
		respondWithError(c, err, "Failed to reserve stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryResponse(inv))
}

// release godoc
// @Summary Release reserved stock
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   release body dto.ReservationRequest true "Stock to release"
// @Success 200 {object} dto.InventoryResponse
// @Failure 400 {object} dto.ErrorResponse "Release exceeds reservation"
// @Security BearerAuth
// @Router /inventory/releases [post]
func (h *inventoryHandler) release(c *gin.Context) {
	var req dto.ReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	inv, err := h.inventoryService.Release(c.Request.Context(), businessID, req.Key(h.defaultLocation), req.Quantity, userID)
	if err != nil {
		respondWithError(c, err, "Failed to release stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryResponse(inv))
}

// bulkAdjust godoc
// @Summary Apply a batch of stock adjustments
// @Description Applies every adjustment or none of them
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   batch body dto.BulkAdjustRequest true "Adjustments"
// @Success 201 {array} dto.MovementResponse
// @Failure 422 {object} dto.ErrorResponse "An adjustment would make stock negative"
// @Security BearerAuth
// @Router /inventory/bulk-adjustments [post]
func (h *inventoryHandler) bulkAdjust(c *gin.Context) {
	var req dto.BulkAdjustRequest
	if !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	batch := domain.AdjustmentRef{ID: uuid.NewString()}
	movements, err := h.inventoryService.BulkAdjust(c.Request.Context(), businessID, req.ToMovementInputs(h.defaultLocation, batch), userID)
	if err != nil {
		respondWithError(c, err, "Failed to apply bulk adjustment")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Bulk adjustment applied",
		slog.String("batch_id", batch.ID), slog.Int("movements", len(movements)))
	c.JSON(http.StatusCreated, dto.ToMovementResponses(movements))
}

// reconcile godoc
// @Summary Reconcile stock counters with the movement log
// @Description Reports drift between stored on-hand quantities and the movement log; repair rewrites the counters
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   options body dto.ReconcileRequest false "Reconcile options"
// @Success 200 {object} domain.ReconcileReport
// @Security BearerAuth
// @Router /inventory/reconcile [post]
func (h *inventoryHandler) reconcile(c *gin.Context) {
	var req dto.ReconcileRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	businessID, userID, ok := identity(c)
	if !ok {
		return
	}
	report, err := h.inventoryService.Reconcile(c.Request.Context(), businessID, req.Repair, userID)
	if err != nil {
		respondWithError(c, err, "Failed to reconcile inventory")
		return
	}
	if len(report.Drifts) > 0 {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Inventory drift detected",
			slog.Int("drifts", len(report.Drifts)), slog.Bool("repaired", report.Repaired))
	}
	c.JSON(http.StatusOK, report)
}

// getProductInventory godoc
// @Summary Get stock of a product
// @Description Lists the product's stock at every location
// @Tags inventory
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {array} dto.InventoryResponse
// @Security BearerAuth
// @Router /inventory/{productID} [get]
func (h *inventoryHandler) getProductInventory(c *gin.Context) {
	businessID, _, ok := identity(c)
	if !ok {
		return
	}
	rows, err := h.inventoryService.ListProductInventory(c.Request.Context(), businessID, c.Param("productID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve inventory")
		return
	}
	res := make([]dto.InventoryResponse, len(rows))
	for i := range rows {
		res[i] = dto.ToInventoryResponse(&rows[i])
	}
	c.JSON(http.StatusOK, res)
}
