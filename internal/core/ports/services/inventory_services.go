package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// InventoryReaderSvc defines read operations for stock.
type InventoryReaderSvc interface {
	GetInventory(ctx context.Context, businessID string, key domain.StockKey) (*domain.Inventory, error)
	ListProductInventory(ctx context.Context, businessID string, productID string) ([]domain.Inventory, error)
}

// InventoryWriterSvc defines standalone stock operations, each in its own unit of work.
type InventoryWriterSvc interface {
	RecordMovement(ctx context.Context, businessID string, in domain.MovementInput, userID string) (*domain.StockMovement, error)
	ConfirmMovement(ctx context.Context, businessID string, movementID string, quantity decimal.Decimal, userID string) (*domain.StockMovement, error)
	CancelMovement(ctx context.Context, businessID string, movementID string, userID string) (*domain.StockMovement, error)
	Reserve(ctx context.Context, businessID string, key domain.StockKey, quantity decimal.Decimal, userID string) (*domain.Inventory, error)
	Release(ctx context.Context, businessID string, key domain.StockKey, quantity decimal.Decimal, userID string) (*domain.Inventory, error)

	// BulkAdjust applies signed adjustments all-or-nothing.
	BulkAdjust(ctx context.Context, businessID string, adjustments []domain.MovementInput, userID string) ([]domain.StockMovement, error)

	// Reconcile rebuilds on-hand counters from the movement log and optionally repairs drift.
	Reconcile(ctx context.Context, businessID string, repair bool, userID string) (*domain.ReconcileReport, error)
}

// InventoryTxSvc exposes stock operations inside a caller's unit of work.
type InventoryTxSvc interface {
	RecordMovementTx(ctx context.Context, repos portsrepo.Repositories, businessID string, in domain.MovementInput, userID string) (*domain.StockMovement, error)
	ReserveTx(ctx context.Context, repos portsrepo.Repositories, businessID string, key domain.StockKey, quantity decimal.Decimal, userID string) (*domain.Inventory, error)
	ReleaseTx(ctx context.Context, repos portsrepo.Repositories, businessID string, key domain.StockKey, quantity decimal.Decimal, userID string) (*domain.Inventory, error)
	BulkAdjustTx(ctx context.Context, repos portsrepo.Repositories, businessID string, adjustments []domain.MovementInput, userID string) ([]domain.StockMovement, error)

	// MovementsByReferenceTx lists the movements recorded for ref.
	MovementsByReferenceTx(ctx context.Context, repos portsrepo.Repositories, businessID string, ref domain.Reference) ([]domain.StockMovement, error)
}

// InventorySvcFacade combines all inventory-related service interfaces
type InventorySvcFacade interface {
	InventoryReaderSvc
	InventoryWriterSvc
	InventoryTxSvc
}
