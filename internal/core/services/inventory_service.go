package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/utils/accounting"
)

// inventoryService keeps stock counters in step with the movement log.
type inventoryService struct {
	BaseService
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(provider portsrepo.RepositoryProvider, options ...ServiceOption) portssvc.InventorySvcFacade {
	return &inventoryService{BaseService: newBaseService(provider, options...)}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

func (s *inventoryService) normalize(in domain.MovementInput) (domain.MovementInput, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	if in.ProductID == "" {
		return in, apperrors.NewValidationError("productID", "is required")
	}
	if strings.TrimSpace(in.LocationID) == "" {
		in.LocationID = s.defaultLocation
	}
	if !in.Type.Valid() {
		return in, apperrors.NewValidationError("movementType", "unknown movement type %q", in.Type)
	}
	switch in.Type {
	case domain.MovementAdjustment:
		if in.Quantity.IsZero() {
			return in, apperrors.NewValidationError("quantity", "adjustment quantity must not be zero")
		}
	default:
		if !in.Quantity.IsPositive() {
			return in, apperrors.NewValidationError("quantity", "must be positive for %s movements", in.Type)
		}
	}
	if in.UnitCost.IsNegative() {
		return in, apperrors.NewValidationError("unitCost", "must not be negative")
	}
	return in, nil
}

// lockOne creates the row for key if needed and locks it.
func (s *inventoryService) lockOne(ctx context.Context, repos portsrepo.Repositories, businessID string, key domain.StockKey, userID string) (domain.Inventory, error) {
	if err := repos.Inventory.EnsureInventory(ctx, businessID, []domain.StockKey{key}, userID, s.now()); err != nil {
		return domain.Inventory{}, err
	}
	rows, err := repos.Inventory.LockInventory(ctx, businessID, []domain.StockKey{key})
	if err != nil {
		return domain.Inventory{}, err
	}
	if len(rows) != 1 {
		return domain.Inventory{}, apperrors.NewNotFoundError("inventory", key.ProductID+"@"+key.LocationID)
	}
	return rows[0], nil
}

// applyDelta changes on-hand stock by delta, refusing to go negative. An out movement may
// only take available stock and never what is reserved; adjustments are bound by on-hand only.
// Incoming stock re-weights the average unit cost.
func (s *inventoryService) applyDelta(inv *domain.Inventory, m domain.StockMovement, delta decimal.Decimal, userID string) error {
	next := inv.OnHandQuantity.Add(delta)
	floor := decimal.Zero
	if m.MovementType == domain.MovementOut {
		floor = inv.ReservedQuantity
	}
	if next.LessThan(floor) {
		return &apperrors.InsufficientStockError{
			ProductID:  inv.ProductID,
			LocationID: inv.LocationID,
			Requested:  delta.Abs(),
			OnHand:     inv.OnHandQuantity,
			Reserved:   floor,
		}
	}
	if delta.IsPositive() && m.MovementType == domain.MovementIn {
		inv.UnitCost = accounting.WeightedAverageCost(inv.OnHandQuantity, inv.UnitCost, delta, m.UnitCost)
	}
	inv.OnHandQuantity = next
	inv.Touch(userID, s.now())
	inv.Refresh()
	return nil
}

// newMovement builds the log record for in against inv. Cost defaults to the current average.
func (s *inventoryService) newMovement(businessID string, in domain.MovementInput, inv domain.Inventory, userID string) domain.StockMovement {
	now := s.now()
	cost := in.UnitCost
	if cost.IsZero() {
		cost = inv.UnitCost
	}
	m := domain.StockMovement{
		MovementID:        uuid.NewString(),
		BusinessID:        businessID,
		ProductID:         in.ProductID,
		LocationID:        in.LocationID,
		MovementType:      in.Type,
		Status:            domain.MovementConfirmed,
		Quantity:          in.Quantity,
		ConfirmedQuantity: in.Quantity,
		UnitCost:          cost,
		TotalCost:         in.Quantity.Abs().Mul(cost).Round(2),
		Reference:         in.Reference,
		Notes:             in.Notes,
		CreatedAt:         now,
		CreatedBy:         userID,
		LastUpdatedAt:     now,
	}
	if in.Pending {
		m.Status = domain.MovementPending
		m.ConfirmedQuantity = decimal.Zero
	}
	return m
}

func (s *inventoryService) RecordMovementTx(ctx context.Context, repos portsrepo.Repositories, businessID string, in domain.MovementInput, userID string) (*domain.StockMovement, error) {
	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}
	inv, err := s.lockOne(ctx, repos, businessID, in.Key(), userID)
	if err != nil {
		return nil, err
	}

	m := s.newMovement(businessID, in, inv, userID)
	if !in.Pending {
		if err := s.applyDelta(&inv, m, m.Delta(m.Quantity), userID); err != nil {
			return nil, err
		}
		if err := repos.Inventory.UpdateInventory(ctx, inv); err != nil {
			return nil, err
		}
	}
	if err := repos.Inventory.SaveMovement(ctx, m); err != nil {
		return nil, err
	}
	if inv.BelowReorderLevel() {
		s.LogInfo(ctx, "Stock at or below reorder level",
			slog.String("product_id", inv.ProductID),
			slog.String("location_id", inv.LocationID),
			slog.String("available", inv.AvailableQuantity.String()))
	}
	return &m, nil
}

func (s *inventoryService) RecordMovement(ctx context.Context, businessID string, in domain.MovementInput, userID string) (*domain.StockMovement, error) {
	var m *domain.StockMovement
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		m, err = s.RecordMovementTx(ctx, repos, businessID, in, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record stock movement",
			slog.String("product_id", in.ProductID),
			slog.String("movement_type", string(in.Type)))
		return nil, err
	}
	s.LogInfo(ctx, "Stock movement recorded",
		slog.String("movement_id", m.MovementID),
		slog.String("status", string(m.Status)))
	return m, nil
}

// ConfirmMovement applies quantity more of a pending movement. Confirming less than the
// outstanding quantity leaves it partially fulfilled.
func (s *inventoryService) ConfirmMovement(ctx context.Context, businessID string, movementID string, quantity decimal.Decimal, userID string) (*domain.StockMovement, error) {
	if !quantity.IsPositive() {
		return nil, apperrors.NewValidationError("quantity", "must be positive")
	}
	var m *domain.StockMovement
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		m, err = repos.Inventory.FindMovementByIDForUpdate(ctx, businessID, movementID)
		if err != nil {
			return err
		}
		if m.Status != domain.MovementPending && m.Status != domain.MovementPartiallyFulfilled {
			return apperrors.NewValidationError("movementID", "movement %s is %s and cannot be confirmed", movementID, m.Status)
		}
		if quantity.GreaterThan(m.Outstanding()) {
			return apperrors.NewValidationError("quantity", "confirming %s exceeds outstanding %s", quantity, m.Outstanding())
		}

		signed := quantity
		if m.Quantity.IsNegative() {
			signed = signed.Neg()
		}
		inv, err := s.lockOne(ctx, repos, businessID, m.Key(), userID)
		if err != nil {
			return err
		}
		if err := s.applyDelta(&inv, *m, m.Delta(signed), userID); err != nil {
			return err
		}
		if err := repos.Inventory.UpdateInventory(ctx, inv); err != nil {
			return err
		}

		m.ConfirmedQuantity = m.ConfirmedQuantity.Add(signed)
		m.Status = domain.MovementPartiallyFulfilled
		if m.Outstanding().IsZero() {
			m.Status = domain.MovementConfirmed
		}
		m.LastUpdatedAt = s.now()
		return repos.Inventory.UpdateMovementProgress(ctx, *m)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to confirm stock movement", slog.String("movement_id", movementID))
		return nil, err
	}
	s.LogInfo(ctx, "Stock movement confirmed",
		slog.String("movement_id", movementID),
		slog.String("status", string(m.Status)))
	return m, nil
}

func (s *inventoryService) CancelMovement(ctx context.Context, businessID string, movementID string, userID string) (*domain.StockMovement, error) {
	var m *domain.StockMovement
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		m, err = repos.Inventory.FindMovementByIDForUpdate(ctx, businessID, movementID)
		if err != nil {
			return err
		}
		if m.Status != domain.MovementPending {
			return apperrors.NewValidationError("movementID", "only pending movements can be cancelled, %s is %s", movementID, m.Status)
		}
		m.Status = domain.MovementCancelled
		m.LastUpdatedAt = s.now()
		return repos.Inventory.UpdateMovementProgress(ctx, *m)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to cancel stock movement", slog.String("movement_id", movementID))
		return nil, err
	}
	return m, nil
}

func (s *inventoryService) ReserveTx(ctx context.Context, repos portsrepo.Repositories, businessID string, key domain.StockKey, quantity decimal.Decimal, userID string) (*domain.Inventory, error) {
	if !quantity.IsPositive() {
		return nil, apperrors.NewValidationError("quantity", "must be positive")
	}
	if key.LocationID == "" {
		key.LocationID = s.defaultLocation
	}
	inv, err := s.lockOne(ctx, repos, businessID, key, userID)
	if err != nil {
		return nil, err
	}
	if quantity.GreaterThan(inv.Available()) {
		return nil, apperrors.NewValidationError("quantity", "cannot reserve %s of %s at %s, only %s available",
			quantity, key.ProductID, key.LocationID, inv.Available())
	}
	inv.ReservedQuantity = inv.ReservedQuantity.Add(quantity)
	inv.Touch(userID, s.now())
	inv.Refresh()
	if err := repos.Inventory.UpdateInventory(ctx, inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ReleaseTx lowers the reservation, never below zero.
func (s *inventoryService) ReleaseTx(ctx context.Context, repos portsrepo.Repositories, businessID string, key domain.StockKey, quantity decimal.Decimal, userID string) (*domain.Inventory, error) {
	if !quantity.IsPositive() {
		return nil, apperrors.NewValidationError("quantity", "must be positive")
	}
	if key.LocationID == "" {
		key.LocationID = s.defaultLocation
	}
	inv, err := s.lockOne(ctx, repos, businessID, key, userID)
	if err != nil {
		return nil, err
	}
	inv.ReservedQuantity = inv.ReservedQuantity.Sub(quantity)
	if inv.ReservedQuantity.IsNegative() {
		inv.ReservedQuantity = decimal.Zero
	}
	inv.Touch(userID, s.now())
	inv.Refresh()
	if err := repos.Inventory.UpdateInventory(ctx, inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *inventoryService) Reserve(ctx context.Context, businessID string, key domain.StockKey, quantity decimal.Decimal, userID string) (*domain.Inventory, error) {
	var inv *domain.Inventory
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		inv, err = s.ReserveTx(ctx, repos, businessID, key, quantity, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reserve stock", slog.String("product_id", key.ProductID))
		return nil, err
	}
	return inv, nil
}

func (s *inventoryService) Release(ctx context.Context, businessID string, key domain.StockKey, quantity decimal.Decimal, userID string) (*domain.Inventory, error) {
	var inv *domain.Inventory
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		inv, err = s.ReleaseTx(ctx, repos, businessID, key, quantity, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to release stock", slog.String("product_id", key.ProductID))
		return nil, err
	}
	return inv, nil
}

// BulkAdjustTx locks every affected row in ID order before touching any of them, then applies
// the adjustments in input order. Any failure aborts the whole batch.
func (s *inventoryService) BulkAdjustTx(ctx context.Context, repos portsrepo.Repositories, businessID string, adjustments []domain.MovementInput, userID string) ([]domain.StockMovement, error) {
	if len(adjustments) == 0 {
		return nil, apperrors.NewValidationError("adjustments", "at least one adjustment is required")
	}
	inputs := make([]domain.MovementInput, len(adjustments))
	keySet := make(map[domain.StockKey]bool)
	for i, adj := range adjustments {
		adj.Type = domain.MovementAdjustment
		norm, err := s.normalize(adj)
		if err != nil {
			return nil, err
		}
		inputs[i] = norm
		keySet[norm.Key()] = true
	}

	keys := make([]domain.StockKey, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ProductID != keys[j].ProductID {
			return keys[i].ProductID < keys[j].ProductID
		}
		return keys[i].LocationID < keys[j].LocationID
	})

	if err := repos.Inventory.EnsureInventory(ctx, businessID, keys, userID, s.now()); err != nil {
		return nil, err
	}
	rows, err := repos.Inventory.LockInventory(ctx, businessID, keys)
	if err != nil {
		return nil, err
	}
	byKey := make(map[domain.StockKey]*domain.Inventory, len(rows))
	for i := range rows {
		byKey[rows[i].Key()] = &rows[i]
	}

	movements := make([]domain.StockMovement, 0, len(inputs))
	for _, in := range inputs {
		inv, ok := byKey[in.Key()]
		if !ok {
			return nil, apperrors.NewNotFoundError("inventory", in.ProductID+"@"+in.LocationID)
		}
		in.Pending = false
		m := s.newMovement(businessID, in, *inv, userID)
		if err := s.applyDelta(inv, m, m.Delta(m.Quantity), userID); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}

	for _, inv := range rows {
		if err := repos.Inventory.UpdateInventory(ctx, inv); err != nil {
			return nil, err
		}
	}
	for _, m := range movements {
		if err := repos.Inventory.SaveMovement(ctx, m); err != nil {
			return nil, err
		}
	}
	return movements, nil
}

func (s *inventoryService) BulkAdjust(ctx context.Context, businessID string, adjustments []domain.MovementInput, userID string) ([]domain.StockMovement, error) {
	var movements []domain.StockMovement
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		movements, err = s.BulkAdjustTx(ctx, repos, businessID, adjustments, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Bulk stock adjustment failed", slog.Int("adjustment_count", len(adjustments)))
		return nil, err
	}
	s.LogInfo(ctx, "Bulk stock adjustment applied", slog.Int("adjustment_count", len(movements)))
	return movements, nil
}

func (s *inventoryService) MovementsByReferenceTx(ctx context.Context, repos portsrepo.Repositories, businessID string, ref domain.Reference) ([]domain.StockMovement, error) {
	return repos.Inventory.FindMovementsByReference(ctx, businessID, ref)
}

// Reconcile compares every counter with the sum of the movement log. With repair set the
// counters are rewritten to match the log.
func (s *inventoryService) Reconcile(ctx context.Context, businessID string, repair bool, userID string) (*domain.ReconcileReport, error) {
	report := &domain.ReconcileReport{BusinessID: businessID}
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		rows, err := repos.Inventory.LockAllInventory(ctx, businessID)
		if err != nil {
			return err
		}
		applied, err := repos.Inventory.SumAppliedMovements(ctx, businessID)
		if err != nil {
			return err
		}
		report.Checked = len(rows)
		for _, inv := range rows {
			computed := applied[inv.Key()]
			if computed.Equal(inv.OnHandQuantity) {
				continue
			}
			report.Drifts = append(report.Drifts, domain.InventoryDrift{
				StockKey:       inv.Key(),
				StoredOnHand:   inv.OnHandQuantity,
				ComputedOnHand: computed,
			})
			if repair {
				inv.OnHandQuantity = computed
				inv.Touch(userID, s.now())
				inv.Refresh()
				if err := repos.Inventory.UpdateInventory(ctx, inv); err != nil {
					return err
				}
			}
		}
		report.Repaired = repair && len(report.Drifts) > 0
		if !repair {
			return errReadOnly
		}
		return nil
	})
	if err != nil && !errors.Is(err, errReadOnly) {
		s.LogError(ctx, err, "Inventory reconciliation failed", slog.String("business_id", businessID))
		return nil, err
	}
	if len(report.Drifts) > 0 {
		s.GetLogger(ctx).Warn("Inventory drift detected",
			slog.String("business_id", businessID),
			slog.Int("drift_count", len(report.Drifts)),
			slog.Bool("repaired", report.Repaired))
	}
	return report, nil
}

func (s *inventoryService) GetInventory(ctx context.Context, businessID string, key domain.StockKey) (*domain.Inventory, error) {
	if key.LocationID == "" {
		key.LocationID = s.defaultLocation
	}
	return s.repos().Inventory.FindInventory(ctx, businessID, key)
}

func (s *inventoryService) ListProductInventory(ctx context.Context, businessID string, productID string) ([]domain.Inventory, error) {
	return s.repos().Inventory.ListInventoryByProduct(ctx, businessID, productID)
}
