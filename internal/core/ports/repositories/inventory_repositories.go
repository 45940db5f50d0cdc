package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventoryReader defines read operations for stock counters.
type InventoryReader interface {
	FindInventory(ctx context.Context, businessID string, key domain.StockKey) (*domain.Inventory, error)
	ListInventoryByProduct(ctx context.Context, businessID, productID string) ([]domain.Inventory, error)
}

// InventoryLocker creates and locks stock rows for mutation.
type InventoryLocker interface {
	// EnsureInventory creates zero rows for keys that have none yet.
	EnsureInventory(ctx context.Context, businessID string, keys []domain.StockKey, userID string, now time.Time) error

	// LockInventory locks the rows for keys in inventory-ID order and returns them in that order.
	LockInventory(ctx context.Context, businessID string, keys []domain.StockKey) ([]domain.Inventory, error)

	// LockAllInventory locks every row of a business in inventory-ID order.
	LockAllInventory(ctx context.Context, businessID string) ([]domain.Inventory, error)
}

// InventoryWriter persists stock counters.
type InventoryWriter interface {
	UpdateInventory(ctx context.Context, inv domain.Inventory) error
}

// MovementRepository stores the append-only stock movement log.
type MovementRepository interface {
	SaveMovement(ctx context.Context, movement domain.StockMovement) error
	FindMovementByIDForUpdate(ctx context.Context, businessID, movementID string) (*domain.StockMovement, error)
	FindMovementsByReference(ctx context.Context, businessID string, ref domain.Reference) ([]domain.StockMovement, error)

	// UpdateMovementProgress changes only status, confirmed quantity and update time.
	UpdateMovementProgress(ctx context.Context, movement domain.StockMovement) error

	// SumAppliedMovements returns the net on-hand effect of the log per stock key.
	SumAppliedMovements(ctx context.Context, businessID string) (map[domain.StockKey]decimal.Decimal, error)
}

// InventoryRepositoryFacade combines all inventory-related repository interfaces
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryLocker
	InventoryWriter
	MovementRepository
}
