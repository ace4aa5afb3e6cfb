// Package servicetest wires the inventory services against an in-memory store for tests.
package servicetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/domain/grid"
	"github.com/MSNanda515/StockFlow/internal/domain/models"
	"github.com/MSNanda515/StockFlow/internal/locking"
	"github.com/MSNanda515/StockFlow/internal/repository/memory"
	"github.com/MSNanda515/StockFlow/internal/service/items"
	"github.com/MSNanda515/StockFlow/internal/service/shipping"
	"github.com/MSNanda515/StockFlow/internal/service/warehouse"
)

// Fixture bundles a store with the services built on it.
type Fixture struct {
	Store      *memory.Store
	Locks      *locking.Table
	Warehouses *warehouse.Service
	Items      *items.Service
	Shipping   *shipping.Service
}

// New builds a fixture with an empty store.
func New() *Fixture {
	store := memory.NewStore()
	locks := locking.NewTable()
	logger := zap.NewNop()
	wares := warehouse.NewService(store, locks, logger)
	return &Fixture{
		Store:      store,
		Locks:      locks,
		Warehouses: wares,
		Items:      items.NewService(store, wares, locks, logger),
		Shipping:   shipping.NewService(store, wares, locks, logger),
	}
}

// MustWarehouse creates a warehouse or fails the test. A zero box uses the minimum capacity.
func (f *Fixture) MustWarehouse(t *testing.T, wareNo int64, box grid.Box) *models.Warehouse {
	t.Helper()
	ware, err := f.Warehouses.Create(context.Background(), models.CreateWarehouseRequest{
		WareNo:   wareNo,
		Name:     "Ware",
		Location: "Loc",
		Aisle:    box.Aisle,
		Section:  box.Section,
		Level:    box.Level,
	})
	require.NoError(t, err)
	return ware
}

// MustItem creates an item stocked with units in wareNo, or fails the test.
func (f *Fixture) MustItem(t *testing.T, itemNo int64, dept models.Department, units int, wareNo int64) *models.Item {
	t.Helper()
	item, err := f.Items.CreateItem(context.Background(), models.CreateItemRequest{
		ItemNo:      itemNo,
		Name:        "Item",
		Description: "Desc",
		Department:  dept,
		WareNo:      wareNo,
		Units:       units,
	})
	require.NoError(t, err)
	return item
}

// Item loads an item straight from the store.
func (f *Fixture) Item(t *testing.T, itemNo int64) *models.Item {
	t.Helper()
	item, err := f.Store.FindItemByNo(context.Background(), itemNo)
	require.NoError(t, err)
	return item
}

// Warehouse loads a warehouse straight from the store.
func (f *Fixture) Warehouse(t *testing.T, wareNo int64) *models.Warehouse {
	t.Helper()
	ware, err := f.Store.FindWarehouseByNo(context.Background(), wareNo)
	require.NoError(t, err)
	return ware
}

// RequireMirrored checks that every warehouse lists exactly the stationary pallets the
// active items place in it, with identical units and locations.
func (f *Fixture) RequireMirrored(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	active, err := f.Store.FindActiveItems(ctx)
	require.NoError(t, err)
	wares, err := f.Store.FindWarehouses(ctx)
	require.NoError(t, err)

	fromItems := make(map[int64]map[string]models.Pallet)
	for _, item := range active {
		for _, p := range item.Pallets {
			if p.InTransit() {
				continue
			}
			if fromItems[p.Loc.WareNo] == nil {
				fromItems[p.Loc.WareNo] = make(map[string]models.Pallet)
			}
			fromItems[p.Loc.WareNo][p.ID.Hex()] = p
		}
	}

	for _, ware := range wares {
		require.LessOrEqual(t, int64(len(ware.Pallets)), ware.Capacity.Slots(), "warehouse %d over capacity", ware.WareNo)
		expected := fromItems[ware.WareNo]
		require.Len(t, ware.Pallets, len(expected), "warehouse %d pallet count", ware.WareNo)

		slots := make(map[grid.Slot]struct{})
		for _, p := range ware.Pallets {
			want, ok := expected[p.ID.Hex()]
			require.True(t, ok, "warehouse %d lists unknown pallet %s", ware.WareNo, p.ID.Hex())
			require.Equal(t, want.Units, p.Units, "units of pallet %s", p.ID.Hex())
			require.Equal(t, want.Loc, p.Loc, "location of pallet %s", p.ID.Hex())
			require.True(t, ware.Capacity.Contains(p.Loc.Slot()), "pallet %s outside capacity", p.ID.Hex())
			_, dup := slots[p.Loc.Slot()]
			require.False(t, dup, "slot %v used twice in warehouse %d", p.Loc.Slot(), ware.WareNo)
			slots[p.Loc.Slot()] = struct{}{}
		}
	}
}
