package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/models"
	"github.com/SscSPs/bizledger/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new repository for stock counters and movements.
func newPgxInventoryRepository(db querier) *PgxInventoryRepository {
	return &PgxInventoryRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

const inventoryColumns = `inventory_id, business_id, product_id, location_id, on_hand_quantity, reserved_quantity,
	available_quantity, unit_cost, reorder_level, max_stock_level, created_at, created_by, last_updated_at, last_updated_by`

const movementColumns = `movement_id, business_id, product_id, location_id, movement_type, status, quantity,
	confirmed_quantity, unit_cost, total_cost, reference_type, reference_id, notes, created_at, created_by, last_updated_at`

func scanInventory(row pgx.Row) (domain.Inventory, error) {
	var m models.Inventory
	err := row.Scan(
		&m.InventoryID,
		&m.BusinessID,
		&m.ProductID,
		&m.LocationID,
		&m.OnHandQuantity,
		&m.ReservedQuantity,
		&m.AvailableQuantity,
		&m.UnitCost,
		&m.ReorderLevel,
		&m.MaxStockLevel,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Inventory{}, err
	}
	return mapping.ToDomainInventory(m), nil
}

func scanMovement(row pgx.Row) (domain.StockMovement, error) {
	var m models.StockMovement
	err := row.Scan(
		&m.MovementID,
		&m.BusinessID,
		&m.ProductID,
		&m.LocationID,
		&m.MovementType,
		&m.Status,
		&m.Quantity,
		&m.ConfirmedQuantity,
		&m.UnitCost,
		&m.TotalCost,
		&m.Reference.Type,
		&m.Reference.ID,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return domain.StockMovement{}, err
	}
	return mapping.ToDomainMovement(m)
}

func (r *PgxInventoryRepository) queryInventory(ctx context.Context, op, query string, args ...any) ([]domain.Inventory, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var out []domain.Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return out, nil
}

func splitKeys(keys []domain.StockKey) (products, locations []string) {
	products = make([]string, len(keys))
	locations = make([]string, len(keys))
	for i, k := range keys {
		products[i] = k.ProductID
		locations[i] = k.LocationID
	}
	return products, locations
}

func (r *PgxInventoryRepository) FindInventory(ctx context.Context, businessID string, key domain.StockKey) (*domain.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory
		WHERE business_id = $1 AND product_id = $2 AND location_id = $3;`
	inv, err := scanInventory(r.DB.QueryRow(ctx, query, businessID, key.ProductID, key.LocationID))
	if err != nil {
		return nil, notFoundOr("find inventory", "inventory", key.ProductID+"@"+key.LocationID, err)
	}
	return &inv, nil
}

func (r *PgxInventoryRepository) ListInventoryByProduct(ctx context.Context, businessID, productID string) ([]domain.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory
		WHERE business_id = $1 AND product_id = $2
		ORDER BY location_id;`
	return r.queryInventory(ctx, "list inventory", query, businessID, productID)
}

// EnsureInventory creates zero rows for keys that have none yet. Existing rows are left untouched.
func (r *PgxInventoryRepository) EnsureInventory(ctx context.Context, businessID string, keys []domain.StockKey, userID string, now time.Time) error {
	batch := &pgx.Batch{}
	for _, k := range keys {
		batch.Queue(`
			INSERT INTO inventory (inventory_id, business_id, product_id, location_id,
				created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $5, $6)
			ON CONFLICT (business_id, product_id, location_id) DO NOTHING;`,
			uuid.NewString(), businessID, k.ProductID, k.LocationID, now, userID,
		)
	}
	return execBatch(ctx, r.DB, "ensure inventory", batch)
}

// LockInventory locks the rows for keys in inventory-ID order so concurrent callers cannot deadlock.
func (r *PgxInventoryRepository) LockInventory(ctx context.Context, businessID string, keys []domain.StockKey) ([]domain.Inventory, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	products, locations := splitKeys(keys)
	query := `SELECT ` + inventoryColumns + ` FROM inventory
		WHERE business_id = $1
		  AND (product_id, location_id) IN (SELECT * FROM unnest($2::text[], $3::text[]))
		ORDER BY inventory_id
		FOR UPDATE;`
	rows, err := r.queryInventory(ctx, "lock inventory", query, businessID, products, locations)
	if err != nil {
		return nil, err
	}

	found := make(map[domain.StockKey]bool, len(rows))
	for _, inv := range rows {
		found[inv.Key()] = true
	}
	for _, k := range keys {
		if !found[k] {
			return nil, apperrors.NewNotFoundError("inventory", k.ProductID+"@"+k.LocationID)
		}
	}
	return rows, nil
}

func (r *PgxInventoryRepository) LockAllInventory(ctx context.Context, businessID string) ([]domain.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory
		WHERE business_id = $1
		ORDER BY inventory_id
		FOR UPDATE;`
	return r.queryInventory(ctx, "lock all inventory", query, businessID)
}

// UpdateInventory writes the counters back, recomputing available quantity.
func (r *PgxInventoryRepository) UpdateInventory(ctx context.Context, inv domain.Inventory) error {
	inv.Refresh()
	m := mapping.ToModelInventory(inv)
	tag, err := r.DB.Exec(ctx, `
		UPDATE inventory
		SET on_hand_quantity = $2, reserved_quantity = $3, available_quantity = $4, unit_cost = $5,
		    reorder_level = $6, max_stock_level = $7, last_updated_at = $8, last_updated_by = $9
		WHERE inventory_id = $1;`,
		m.InventoryID,
		m.OnHandQuantity,
		m.ReservedQuantity,
		m.AvailableQuantity,
		m.UnitCost,
		m.ReorderLevel,
		m.MaxStockLevel,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError("update inventory "+m.InventoryID, err)
	}
	return expectOne(tag, "inventory", m.InventoryID)
}

func (r *PgxInventoryRepository) SaveMovement(ctx context.Context, movement domain.StockMovement) error {
	m := mapping.ToModelMovement(movement)
	_, err := r.DB.Exec(ctx, `
		INSERT INTO stock_movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`,
		m.MovementID,
		m.BusinessID,
		m.ProductID,
		m.LocationID,
		m.MovementType,
		m.Status,
		m.Quantity,
		m.ConfirmedQuantity,
		m.UnitCost,
		m.TotalCost,
		m.Reference.Type,
		m.Reference.ID,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
	)
	return mapError("save stock movement "+m.MovementID, err)
}

func (r *PgxInventoryRepository) FindMovementByIDForUpdate(ctx context.Context, businessID, movementID string) (*domain.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE business_id = $1 AND movement_id = $2
		FOR UPDATE;`
	m, err := scanMovement(r.DB.QueryRow(ctx, query, businessID, movementID))
	if err != nil {
		return nil, notFoundOr("find stock movement", "stock movement", movementID, err)
	}
	return &m, nil
}

// FindMovementsByReference returns the movements of a reference in creation order.
func (r *PgxInventoryRepository) FindMovementsByReference(ctx context.Context, businessID string, ref domain.Reference) ([]domain.StockMovement, error) {
	kind, id := domain.EncodeReference(ref)
	rows, err := r.DB.Query(ctx, `
		SELECT `+movementColumns+` FROM stock_movements
		WHERE business_id = $1 AND reference_type = $2 AND reference_id = $3
		ORDER BY seq;`,
		businessID, kind, id,
	)
	if err != nil {
		return nil, mapError("find movements by reference", err)
	}
	defer rows.Close()

	var out []domain.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, mapError("scan stock movement", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("find movements by reference", err)
	}
	return out, nil
}

func (r *PgxInventoryRepository) UpdateMovementProgress(ctx context.Context, movement domain.StockMovement) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE stock_movements
		SET status = $2, confirmed_quantity = $3, last_updated_at = $4
		WHERE movement_id = $1;`,
		movement.MovementID, string(movement.Status), movement.ConfirmedQuantity, movement.LastUpdatedAt,
	)
	if err != nil {
		return mapError("update stock movement "+movement.MovementID, err)
	}
	return expectOne(tag, "stock movement", movement.MovementID)
}

// SumAppliedMovements folds the movement log into a net on-hand change per stock key.
// Only confirmed quantities of applied movements count; outbound movements subtract.
func (r *PgxInventoryRepository) SumAppliedMovements(ctx context.Context, businessID string) (map[domain.StockKey]decimal.Decimal, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, location_id,
		       COALESCE(SUM(CASE WHEN movement_type = $2 THEN -confirmed_quantity ELSE confirmed_quantity END), 0)
		FROM stock_movements
		WHERE business_id = $1 AND status IN ($3, $4)
		GROUP BY product_id, location_id;`,
		businessID,
		string(domain.MovementOut),
		string(domain.MovementConfirmed),
		string(domain.MovementPartiallyFulfilled),
	)
	if err != nil {
		return nil, mapError("sum applied movements", err)
	}
	defer rows.Close()

	out := make(map[domain.StockKey]decimal.Decimal)
	for rows.Next() {
		var (
			key domain.StockKey
			net decimal.Decimal
		)
		if err := rows.Scan(&key.ProductID, &key.LocationID, &net); err != nil {
			return nil, mapError("scan movement sum", err)
		}
		out[key] = net
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("sum applied movements", err)
	}
	return out, nil
}
