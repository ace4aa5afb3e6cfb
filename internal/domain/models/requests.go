package models

import (
	"fmt"
	"sort"

	"github.com/MSNanda515/StockFlow/internal/domain/grid"
)

// CreateWarehouseRequest carries the fields needed to register a warehouse.
type CreateWarehouseRequest struct {
	WareNo   int64  `json:"wareNo" binding:"required,min=1"`
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
	Aisle    int    `json:"aisle" binding:"min=0"`
	Section  int    `json:"section" binding:"min=0"`
	Level    int    `json:"level" binding:"min=0"`
}

// Capacity returns the requested box.
func (r CreateWarehouseRequest) Capacity() grid.Box {
	return grid.Box{Aisle: r.Aisle, Section: r.Section, Level: r.Level}
}

// EditWarehouseRequest replaces a warehouse's descriptive fields and capacity.
type EditWarehouseRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
	Aisle    int    `json:"aisle" binding:"required,min=1"`
	Section  int    `json:"section" binding:"required,min=1"`
	Level    int    `json:"level" binding:"required,min=1"`
}

// Capacity returns the requested box.
func (r EditWarehouseRequest) Capacity() grid.Box {
	return grid.Box{Aisle: r.Aisle, Section: r.Section, Level: r.Level}
}

// CreateItemRequest registers an item and optionally stocks it in WareNo.
type CreateItemRequest struct {
	ItemNo      int64      `json:"itemNo" binding:"required,min=1"`
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Department  Department `json:"department" binding:"required"`
	WareNo      int64      `json:"wareNo"`
	Units       int        `json:"units" binding:"min=0"`
}

// EditItemRequest changes an item's name and description. Department must match the stored one.
type EditItemRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Department  Department `json:"department" binding:"required"`
}

// InventoryRequest adds units of an item to a warehouse.
type InventoryRequest struct {
	WareNo int64 `json:"wareNo" binding:"required,min=1"`
	Units  int   `json:"units" binding:"required,min=1"`
}

// ShipmentLine is one item of a shipment request.
type ShipmentLine struct {
	ItemNo int64 `json:"itemNo"`
	Units  int   `json:"units"`
}

// ShipmentRequest moves units of several items between two warehouses.
type ShipmentRequest struct {
	From  int64          `json:"from" binding:"required,min=1"`
	To    int64          `json:"to" binding:"required,min=1"`
	Items []ShipmentLine `json:"items" binding:"required"`
}

// UnitsByItem validates the lines and indexes them by item number.
func (r ShipmentRequest) UnitsByItem() (map[int64]int, error) {
	if len(r.Items) == 0 {
		return nil, fmt.Errorf("%w: shipment has no items", ErrInvalidRequest)
	}
	out := make(map[int64]int, len(r.Items))
	for _, line := range r.Items {
		if line.ItemNo <= 0 {
			return nil, fmt.Errorf("%w: invalid item number %d", ErrInvalidRequest, line.ItemNo)
		}
		if line.Units <= 0 {
			return nil, fmt.Errorf("%w: item %d: units must be positive", ErrInvalidRequest, line.ItemNo)
		}
		if _, dup := out[line.ItemNo]; dup {
			return nil, fmt.Errorf("%w: item %d listed more than once", ErrInvalidRequest, line.ItemNo)
		}
		out[line.ItemNo] = line.Units
	}
	return out, nil
}

// ReceiveRequest lists the shipments to receive at a warehouse.
type ReceiveRequest struct {
	ShipmentIDs []string `json:"shipmentIds" binding:"required"`
}

// SortedItemNos returns the keys of an item-units map in ascending order.
func SortedItemNos(units map[int64]int) []int64 {
	out := make([]int64, 0, len(units))
	for no := range units {
		out = append(out, no)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
