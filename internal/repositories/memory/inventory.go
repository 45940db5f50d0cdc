package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type inventoryRepo struct{ sc scope }

var _ portsrepo.InventoryRepositoryFacade = (*inventoryRepo)(nil)

func (r *inventoryRepo) FindInventory(_ context.Context, businessID string, key domain.StockKey) (*domain.Inventory, error) {
	var out *domain.Inventory
	err := r.sc.read(func(st *state) error {
		id, ok := st.inventoryKeys[invKey{businessID, key.ProductID, key.LocationID}]
		if !ok {
			return apperrors.NewNotFoundError("inventory", key.ProductID+"@"+key.LocationID)
		}
		inv := st.inventory[id]
		inv.Refresh()
		out = &inv
		return nil
	})
	return out, err
}

func (r *inventoryRepo) ListInventoryByProduct(_ context.Context, businessID, productID string) ([]domain.Inventory, error) {
	var out []domain.Inventory
	err := r.sc.read(func(st *state) error {
		for _, inv := range st.inventory {
			if inv.BusinessID == businessID && inv.ProductID == productID {
				inv.Refresh()
				out = append(out, inv)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, err
}

func (r *inventoryRepo) EnsureInventory(_ context.Context, businessID string, keys []domain.StockKey, userID string, now time.Time) error {
	return r.sc.write(func(st *state) error {
		for _, k := range keys {
			ik := invKey{businessID, k.ProductID, k.LocationID}
			if _, ok := st.inventoryKeys[ik]; ok {
				continue
			}
			inv := domain.Inventory{
				InventoryID:       uuid.NewString(),
				BusinessID:        businessID,
				ProductID:         k.ProductID,
				LocationID:        k.LocationID,
				OnHandQuantity:    decimal.Zero,
				ReservedQuantity:  decimal.Zero,
				AvailableQuantity: decimal.Zero,
				UnitCost:          decimal.Zero,
				AuditFields:       domain.NewAuditFields(userID, now),
			}
			st.inventory[inv.InventoryID] = inv
			st.inventoryKeys[ik] = inv.InventoryID
		}
		return nil
	})
}

func (r *inventoryRepo) LockInventory(_ context.Context, businessID string, keys []domain.StockKey) ([]domain.Inventory, error) {
	var out []domain.Inventory
	err := r.sc.read(func(st *state) error {
		seen := make(map[string]bool, len(keys))
		for _, k := range keys {
			id, ok := st.inventoryKeys[invKey{businessID, k.ProductID, k.LocationID}]
			if !ok {
				return apperrors.NewNotFoundError("inventory", k.ProductID+"@"+k.LocationID)
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, st.inventory[id])
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].InventoryID < out[j].InventoryID })
	return out, err
}

func (r *inventoryRepo) LockAllInventory(_ context.Context, businessID string) ([]domain.Inventory, error) {
	var out []domain.Inventory
	err := r.sc.read(func(st *state) error {
		for _, inv := range st.inventory {
			if inv.BusinessID == businessID {
				out = append(out, inv)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].InventoryID < out[j].InventoryID })
	return out, err
}

func (r *inventoryRepo) UpdateInventory(_ context.Context, inv domain.Inventory) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.inventory[inv.InventoryID]; !ok {
			return apperrors.NewNotFoundError("inventory", inv.InventoryID)
		}
		inv.Refresh()
		st.inventory[inv.InventoryID] = inv
		return nil
	})
}

func (r *inventoryRepo) SaveMovement(_ context.Context, m domain.StockMovement) error {
	return r.sc.write(func(st *state) error {
		if _, exists := st.movements[m.MovementID]; exists {
			return apperrors.ErrDuplicate
		}
		st.movements[m.MovementID] = m
		st.movementOrder[m.MovementID] = st.next()
		return nil
	})
}

func (r *inventoryRepo) FindMovementByIDForUpdate(_ context.Context, businessID, movementID string) (*domain.StockMovement, error) {
	var out *domain.StockMovement
	err := r.sc.read(func(st *state) error {
		m, ok := st.movements[movementID]
		if !ok || m.BusinessID != businessID {
			return apperrors.NewNotFoundError("stock movement", movementID)
		}
		out = &m
		return nil
	})
	return out, err
}

func (r *inventoryRepo) FindMovementsByReference(_ context.Context, businessID string, ref domain.Reference) ([]domain.StockMovement, error) {
	var out []domain.StockMovement
	err := r.sc.read(func(st *state) error {
		for _, m := range st.movements {
			if m.BusinessID == businessID && domain.SameReference(m.Reference, ref) {
				out = append(out, m)
			}
		}
		sort.Slice(out, func(a, b int) bool {
			return st.movementOrder[out[a].MovementID] < st.movementOrder[out[b].MovementID]
		})
		return nil
	})
	return out, err
}

func (r *inventoryRepo) UpdateMovementProgress(_ context.Context, m domain.StockMovement) error {
	return r.sc.write(func(st *state) error {
		cur, ok := st.movements[m.MovementID]
		if !ok {
			return apperrors.NewNotFoundError("stock movement", m.MovementID)
		}
		cur.Status = m.Status
		cur.ConfirmedQuantity = m.ConfirmedQuantity
		cur.LastUpdatedAt = m.LastUpdatedAt
		st.movements[m.MovementID] = cur
		return nil
	})
}

func (r *inventoryRepo) SumAppliedMovements(_ context.Context, businessID string) (map[domain.StockKey]decimal.Decimal, error) {
	out := make(map[domain.StockKey]decimal.Decimal)
	err := r.sc.read(func(st *state) error {
		for _, m := range st.movements {
			if m.BusinessID != businessID {
				continue
			}
			out[m.Key()] = out[m.Key()].Add(m.OnHandEffect())
		}
		return nil
	})
	return out, err
}
