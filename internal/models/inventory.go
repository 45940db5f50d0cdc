package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory is a row of the inventory table.
type Inventory struct {
	InventoryID       string          `db:"inventory_id"`
	BusinessID        string          `db:"business_id"`
	ProductID         string          `db:"product_id"`
	LocationID        string          `db:"location_id"`
	OnHandQuantity    decimal.Decimal `db:"on_hand_quantity"`
	ReservedQuantity  decimal.Decimal `db:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `db:"available_quantity"`
	UnitCost          decimal.Decimal `db:"unit_cost"`
	ReorderLevel      decimal.Decimal `db:"reorder_level"`
	MaxStockLevel     decimal.Decimal `db:"max_stock_level"`
	AuditFields
}

// StockMovement is a row of the stock_movements table.
type StockMovement struct {
	MovementID        string          `db:"movement_id"`
	BusinessID        string          `db:"business_id"`
	ProductID         string          `db:"product_id"`
	LocationID        string          `db:"location_id"`
	MovementType      string          `db:"movement_type"`
	Status            string          `db:"status"`
	Quantity          decimal.Decimal `db:"quantity"`
	ConfirmedQuantity decimal.Decimal `db:"confirmed_quantity"`
	UnitCost          decimal.Decimal `db:"unit_cost"`
	TotalCost         decimal.Decimal `db:"total_cost"`
	Reference         RefColumns
	Notes             string    `db:"notes"`
	CreatedAt         time.Time `db:"created_at"`
	CreatedBy         string    `db:"created_by"`
	LastUpdatedAt     time.Time `db:"last_updated_at"`
}
