// Package repository declares the document stores the inventory services depend on.
package repository

import (
	"context"
	"errors"

	"github.com/MSNanda515/StockFlow/internal/domain/models"
)

// ErrNotFound is returned by lookups that match no document.
var ErrNotFound = errors.New("document not found")

// ItemRepository persists items together with their pallets.
type ItemRepository interface {
	FindItemByNo(ctx context.Context, itemNo int64) (*models.Item, error)
	// FindActiveItems returns active items ordered by item number.
	FindActiveItems(ctx context.Context) ([]*models.Item, error)
	SaveItem(ctx context.Context, item *models.Item) error
	SaveItems(ctx context.Context, items []*models.Item) error
	// MaxItemNo returns the highest item number in use, or 0 when there are none.
	MaxItemNo(ctx context.Context) (int64, error)
}

// WarehouseRepository persists warehouses together with their mirrored pallets.
type WarehouseRepository interface {
	FindWarehouseByNo(ctx context.Context, wareNo int64) (*models.Warehouse, error)
	// FindWarehouses returns every warehouse ordered by warehouse number.
	FindWarehouses(ctx context.Context) ([]*models.Warehouse, error)
	SaveWarehouse(ctx context.Context, warehouse *models.Warehouse) error
	SaveWarehouses(ctx context.Context, warehouses []*models.Warehouse) error
	// MaxWareNo returns the highest warehouse number in use, or 0 when there are none.
	MaxWareNo(ctx context.Context) (int64, error)
}

// ReportRepository stores generated capacity reports.
type ReportRepository interface {
	SaveCapacityReport(ctx context.Context, report models.CapacityReport) error
}

// Changeset is every aggregate one operation modified.
type Changeset struct {
	Warehouses []*models.Warehouse
	Items      []*models.Item
}

// Empty reports whether there is nothing to write.
func (c Changeset) Empty() bool {
	return len(c.Warehouses) == 0 && len(c.Items) == 0
}

// Store is the document store the inventory services run against. Commit writes a
// changeset as one unit so the pallet lists of warehouses and items never diverge.
type Store interface {
	ItemRepository
	WarehouseRepository
	Commit(ctx context.Context, changes Changeset) error
}
