package mapping

import (
	"fmt"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/models"
)

// ToModelInventory converts a domain Inventory to a model Inventory
func ToModelInventory(d domain.Inventory) models.Inventory {
	return models.Inventory{
		InventoryID:       d.InventoryID,
		BusinessID:        d.BusinessID,
		ProductID:         d.ProductID,
		LocationID:        d.LocationID,
		OnHandQuantity:    d.OnHandQuantity,
		ReservedQuantity:  d.ReservedQuantity,
		AvailableQuantity: d.AvailableQuantity,
		UnitCost:          d.UnitCost,
		ReorderLevel:      d.ReorderLevel,
		MaxStockLevel:     d.MaxStockLevel,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInventory converts a model Inventory to a domain Inventory
func ToDomainInventory(m models.Inventory) domain.Inventory {
	return domain.Inventory{
		InventoryID:       m.InventoryID,
		BusinessID:        m.BusinessID,
		ProductID:         m.ProductID,
		LocationID:        m.LocationID,
		OnHandQuantity:    m.OnHandQuantity,
		ReservedQuantity:  m.ReservedQuantity,
		AvailableQuantity: m.AvailableQuantity,
		UnitCost:          m.UnitCost,
		ReorderLevel:      m.ReorderLevel,
		MaxStockLevel:     m.MaxStockLevel,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelMovement converts a domain StockMovement to a model StockMovement
func ToModelMovement(d domain.StockMovement) models.StockMovement {
	return models.StockMovement{
		MovementID:        d.MovementID,
		BusinessID:        d.BusinessID,
		ProductID:         d.ProductID,
		LocationID:        d.LocationID,
		MovementType:      string(d.MovementType),
		Status:            string(d.Status),
		Quantity:          d.Quantity,
		ConfirmedQuantity: d.ConfirmedQuantity,
		UnitCost:          d.UnitCost,
		TotalCost:         d.TotalCost,
		Reference:         ToRefColumns(d.Reference),
		Notes:             d.Notes,
		CreatedAt:         d.CreatedAt,
		CreatedBy:         d.CreatedBy,
		LastUpdatedAt:     d.LastUpdatedAt,
	}
}

// ToDomainMovement converts a model StockMovement to a domain StockMovement
func ToDomainMovement(m models.StockMovement) (domain.StockMovement, error) {
	ref, err := ToDomainReference(m.Reference)
	if err != nil {
		return domain.StockMovement{}, fmt.Errorf("stock movement %s reference: %w", m.MovementID, err)
	}
	return domain.StockMovement{
		MovementID:        m.MovementID,
		BusinessID:        m.BusinessID,
		ProductID:         m.ProductID,
		LocationID:        m.LocationID,
		MovementType:      domain.MovementType(m.MovementType),
		Status:            domain.MovementStatus(m.Status),
		Quantity:          m.Quantity,
		ConfirmedQuantity: m.ConfirmedQuantity,
		UnitCost:          m.UnitCost,
		TotalCost:         m.TotalCost,
		Reference:         ref,
		Notes:             m.Notes,
		CreatedAt:         m.CreatedAt,
		CreatedBy:         m.CreatedBy,
		LastUpdatedAt:     m.LastUpdatedAt,
	}, nil
}
