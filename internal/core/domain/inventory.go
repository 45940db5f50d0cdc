package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockKey identifies an inventory row within a business.
type StockKey struct {
	ProductID  string `json:"productID"`
	LocationID string `json:"locationID"`
}

// Inventory holds the materialized stock counters for one product at one location.
// The stock movement log is the source of truth; these counters can be rebuilt from it.
type Inventory struct {
	InventoryID       string          `json:"inventoryID"`
	BusinessID        string          `json:"businessID"`
	ProductID         string          `json:"productID"`
	LocationID        string          `json:"locationID"`
	OnHandQuantity    decimal.Decimal `json:"onHandQuantity"`
	ReservedQuantity  decimal.Decimal `json:"reservedQuantity"`
	AvailableQuantity decimal.Decimal `json:"availableQuantity"`
	UnitCost          decimal.Decimal `json:"unitCost"` // Weighted average of received stock
	ReorderLevel      decimal.Decimal `json:"reorderLevel"`
	MaxStockLevel     decimal.Decimal `json:"maxStockLevel"`
	AuditFields
}

// Key returns the row's stock key.
func (i Inventory) Key() StockKey {
	return StockKey{ProductID: i.ProductID, LocationID: i.LocationID}
}

// Available returns max(0, onHand - reserved).
func (i Inventory) Available() decimal.Decimal {
	avail := i.OnHandQuantity.Sub(i.ReservedQuantity)
	if avail.IsNegative() {
		return decimal.Zero
	}
	return avail
}

// Refresh recomputes the derived available quantity.
func (i *Inventory) Refresh() {
	i.AvailableQuantity = i.Available()
}

// BelowReorderLevel reports whether available stock has dropped to the reorder level.
func (i Inventory) BelowReorderLevel() bool {
	return i.ReorderLevel.IsPositive() && i.Available().LessThanOrEqual(i.ReorderLevel)
}

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut || t == MovementAdjustment
}

// MovementStatus is the lifecycle state of a stock movement.
type MovementStatus string

const (
	MovementPending            MovementStatus = "Pending"
	MovementConfirmed          MovementStatus = "Confirmed"
	MovementCancelled          MovementStatus = "Cancelled"
	MovementPartiallyFulfilled MovementStatus = "Partially_Fulfilled"
)

// StockMovement is an append-only record of an inventory change.
type StockMovement struct {
	MovementID        string          `json:"movementID"`
	BusinessID        string          `json:"businessID"`
	ProductID         string          `json:"productID"`
	LocationID        string          `json:"locationID"`
	MovementType      MovementType    `json:"movementType"`
	Status            MovementStatus  `json:"status"`
	Quantity          decimal.Decimal `json:"quantity"` // Positive for in/out, signed delta for adjustment
	ConfirmedQuantity decimal.Decimal `json:"confirmedQuantity"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	TotalCost         decimal.Decimal `json:"totalCost"`
	Reference         Reference       `json:"-"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"createdAt"`
	CreatedBy         string          `json:"createdBy"`
	LastUpdatedAt     time.Time       `json:"lastUpdatedAt"`
}

// Key returns the inventory row the movement applies to.
func (m StockMovement) Key() StockKey {
	return StockKey{ProductID: m.ProductID, LocationID: m.LocationID}
}

// Delta converts a quantity of this movement's type into a signed on-hand change.
func (m StockMovement) Delta(qty decimal.Decimal) decimal.Decimal {
	if m.MovementType == MovementOut {
		return qty.Neg()
	}
	return qty
}

// OnHandEffect is the signed change this movement has applied to on-hand stock.
func (m StockMovement) OnHandEffect() decimal.Decimal {
	switch m.Status {
	case MovementConfirmed, MovementPartiallyFulfilled:
		return m.Delta(m.ConfirmedQuantity)
	default:
		return decimal.Zero
	}
}

// Outstanding is the quantity of a pending movement not yet confirmed.
func (m StockMovement) Outstanding() decimal.Decimal {
	return m.Quantity.Abs().Sub(m.ConfirmedQuantity.Abs())
}

// InventoryDrift reports a difference between stored counters and the movement log.
type InventoryDrift struct {
	StockKey
	StoredOnHand   decimal.Decimal `json:"storedOnHand"`
	ComputedOnHand decimal.Decimal `json:"computedOnHand"`
}

// ReconcileReport is the outcome of rebuilding counters from the movement log.
type ReconcileReport struct {
	BusinessID string           `json:"businessID"`
	Checked    int              `json:"checked"`
	Drifts     []InventoryDrift `json:"drifts"`
	Repaired   bool             `json:"repaired"`
}

// MovementInput describes a stock movement to record.
type MovementInput struct {
	ProductID  string
	LocationID string
	Type       MovementType
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal // Zero means use the current average cost
	Reference  Reference
	Notes      string
	Pending    bool
}

// Key returns the inventory row the input applies to.
func (in MovementInput) Key() StockKey {
	return StockKey{ProductID: in.ProductID, LocationID: in.LocationID}
}
