package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordMovementRequest defines a manual stock movement.
type RecordMovementRequest struct {
	ProductID    string              `json:"productID" binding:"required"`
	LocationID   string              `json:"locationID"` // Defaults to the configured location
	MovementType domain.MovementType `json:"movementType" binding:"required,oneof=in out adjustment"`
	Quantity     decimal.Decimal     `json:"quantity"` // Signed for adjustments
	UnitCost     decimal.Decimal     `json:"unitCost" binding:"dgte0"`
	Reference    *ReferenceDTO       `json:"reference"`
	Notes        string              `json:"notes"`
	Pending      bool                `json:"pending"`
}

// ToMovementInput converts the request into the ledger's input form.
func (r RecordMovementRequest) ToMovementInput(defaultLocation string) (domain.MovementInput, error) {
	ref, err := r.Reference.ToDomain()
	if err != nil {
		return domain.MovementInput{}, err
	}
	loc := r.LocationID
	if loc == "" {
		loc = defaultLocation
	}
	return domain.MovementInput{
		ProductID:  r.ProductID,
		LocationID: loc,
		Type:       r.MovementType,
		Quantity:   r.Quantity,
		UnitCost:   r.UnitCost,
		Reference:  ref,
		Notes:      r.Notes,
		Pending:    r.Pending,
	}, nil
}

// ConfirmMovementRequest confirms part or all of a pending movement.
type ConfirmMovementRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"dgt0"`
}

// ReservationRequest reserves or releases stock.
type ReservationRequest struct {
	ProductID  string          `json:"productID" binding:"required"`
	LocationID string          `json:"locationID"`
	Quantity   decimal.Decimal `json:"quantity" binding:"dgt0"`
}

// Key returns the stock key, filling the default location.
func (r ReservationRequest) Key(defaultLocation string) domain.StockKey {
	loc := r.LocationID
	if loc == "" {
		loc = defaultLocation
	}
	return domain.StockKey{ProductID: r.ProductID, LocationID: loc}
}

// BulkAdjustmentLine is one signed correction of a bulk adjustment.
type BulkAdjustmentLine struct {
	ProductID  string          `json:"productID" binding:"required"`
	LocationID string          `json:"locationID"`
	Delta      decimal.Decimal `json:"delta"`
	Notes      string          `json:"notes"`
}

// BulkAdjustRequest applies many adjustments atomically.
type BulkAdjustRequest struct {
	Reason      string               `json:"reason"`
	Adjustments []BulkAdjustmentLine `json:"adjustments" binding:"required,min=1,dive"`
}

// ToMovementInputs converts the batch, tagging every movement with one adjustment reference.
func (r BulkAdjustRequest) ToMovementInputs(defaultLocation string, batch domain.AdjustmentRef) []domain.MovementInput {
	out := make([]domain.MovementInput, 0, len(r.Adjustments))
	for _, a := range r.Adjustments {
		loc := a.LocationID
		if loc == "" {
			loc = defaultLocation
		}
		notes := a.Notes
		if notes == "" {
			notes = r.Reason
		}
		out = append(out, domain.MovementInput{
			ProductID:  a.ProductID,
			LocationID: loc,
			Type:       domain.MovementAdjustment,
			Quantity:   a.Delta,
			Reference:  batch,
			Notes:      notes,
		})
	}
	return out
}

// ReconcileRequest controls inventory reconciliation.
type ReconcileRequest struct {
	Repair bool `json:"repair"`
}

// InventoryResponse defines the data returned for a stock row.
type InventoryResponse struct {
	InventoryID       string          `json:"inventoryID"`
	ProductID         string          `json:"productID"`
	LocationID        string          `json:"locationID"`
	OnHandQuantity    decimal.Decimal `json:"onHandQuantity"`
	ReservedQuantity  decimal.Decimal `json:"reservedQuantity"`
	AvailableQuantity decimal.Decimal `json:"availableQuantity"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	ReorderLevel      decimal.Decimal `json:"reorderLevel"`
	BelowReorderLevel bool            `json:"belowReorderLevel"`
	LastUpdatedAt     time.Time       `json:"lastUpdatedAt"`
}

// ToInventoryResponse converts a domain.Inventory, recomputing availability.
func ToInventoryResponse(inv *domain.Inventory) InventoryResponse {
	return InventoryResponse{
		InventoryID:       inv.InventoryID,
		ProductID:         inv.ProductID,
		LocationID:        inv.LocationID,
		OnHandQuantity:    inv.OnHandQuantity,
		ReservedQuantity:  inv.ReservedQuantity,
		AvailableQuantity: inv.Available(),
		UnitCost:          inv.UnitCost,
		ReorderLevel:      inv.ReorderLevel,
		BelowReorderLevel: inv.BelowReorderLevel(),
		LastUpdatedAt:     inv.LastUpdatedAt,
	}
}

// MovementResponse defines the data returned for a stock movement.
type MovementResponse struct {
	MovementID        string                `json:"movementID"`
	ProductID         string                `json:"productID"`
	LocationID        string                `json:"locationID"`
	MovementType      domain.MovementType   `json:"movementType"`
	Status            domain.MovementStatus `json:"status"`
	Quantity          decimal.Decimal       `json:"quantity"`
	ConfirmedQuantity decimal.Decimal       `json:"confirmedQuantity"`
	UnitCost          decimal.Decimal       `json:"unitCost"`
	TotalCost         decimal.Decimal       `json:"totalCost"`
	Reference         *ReferenceDTO         `json:"reference,omitempty"`
	Notes             string                `json:"notes,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
}

// ToMovementResponse converts a domain.StockMovement.
func ToMovementResponse(m *domain.StockMovement) MovementResponse {
	return MovementResponse{
		MovementID:        m.MovementID,
		ProductID:         m.ProductID,
		LocationID:        m.LocationID,
		MovementType:      m.MovementType,
		Status:            m.Status,
		Quantity:          m.Quantity,
		ConfirmedQuantity: m.ConfirmedQuantity,
		UnitCost:          m.UnitCost,
		TotalCost:         m.TotalCost,
		Reference:         FromReference(m.Reference),
		Notes:             m.Notes,
		CreatedAt:         m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of movements.
func ToMovementResponses(ms []domain.StockMovement) []MovementResponse {
	res := make([]MovementResponse, len(ms))
	for i := range ms {
		res[i] = ToMovementResponse(&ms[i])
	}
	return res
}
