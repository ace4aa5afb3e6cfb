package warehouse_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MSNanda515/StockFlow/internal/domain/grid"
	"github.com/MSNanda515/StockFlow/internal/domain/models"
	"github.com/MSNanda515/StockFlow/internal/service/servicetest"
)

func TestCreate_DuplicateWarehouse(t *testing.T) {
	f := servicetest.New()
	f.MustWarehouse(t, 1, grid.Box{})

	_, err := f.Warehouses.Create(context.Background(), models.CreateWarehouseRequest{WareNo: 1, Name: "Again", Location: "Loc"})

	assert.True(t, errors.Is(err, models.ErrAlreadyExists))
}

func TestCreate_BelowMinimum(t *testing.T) {
	f := servicetest.New()

	_, err := f.Warehouses.Create(context.Background(), models.CreateWarehouseRequest{
		WareNo: 1, Name: "Tiny", Location: "Loc", Aisle: 10, Section: 10, Level: 4,
	})

	assert.True(t, errors.Is(err, models.ErrInvalidCapacity))
	_, err = f.Warehouses.Get(context.Background(), 1)
	assert.True(t, errors.Is(err, models.ErrDoesNotExist))
}

func TestNextWarehouseNo(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()

	next, err := f.Warehouses.NextWarehouseNo(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	f.MustWarehouse(t, 4, grid.Box{})
	next, err = f.Warehouses.NextWarehouseNo(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), next)
}

func TestGetAvailablePalletPos(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()
	f.MustWarehouse(t, 1, grid.Box{})
	f.MustItem(t, 1, models.DepartmentHousehold, 2, 1)

	locs, err := f.Warehouses.GetAvailablePalletPos(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.PalletLoc{{WareNo: 1, Aisle: 1, Section: 1, Level: 3}, {WareNo: 1, Aisle: 1, Section: 1, Level: 4}}, locs)

	_, err = f.Warehouses.GetAvailablePalletPos(ctx, 1, 9)
	assert.True(t, errors.Is(err, models.ErrDoesNotExist))

	_, err = f.Warehouses.GetAvailablePalletPos(ctx, 8000, 1)
	assert.True(t, errors.Is(err, models.ErrCapacityExceeded))
}

func TestChangeCapacity_GrowKeepsLocations(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()
	f.MustWarehouse(t, 1, grid.Box{})
	f.MustItem(t, 1, models.DepartmentElectric, 95, 1)
	before := f.Warehouse(t, 1).PalletLocations()

	ware, err := f.Warehouses.ChangeCapacity(ctx, 1, grid.Box{Aisle: 300, Section: 10, Level: 4})

	require.NoError(t, err)
	assert.Equal(t, int64(12000), ware.Capacity.Slots())
	assert.Equal(t, before, f.Warehouse(t, 1).PalletLocations())
	f.RequireMirrored(t)
}

func TestChangeCapacity_ShrinkRelocatesItemPallets(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()
	f.MustWarehouse(t, 1, grid.Box{Aisle: 200, Section: 10, Level: 6})
	f.MustItem(t, 1, models.DepartmentHousehold, 6, 1)

	_, err := f.Warehouses.ChangeCapacity(ctx, 1, models.MinCapacity)
	require.NoError(t, err)

	item := f.Item(t, 1)
	got := make([]models.PalletLoc, len(item.Pallets))
	for i, p := range item.Pallets {
		got[i] = p.Loc
	}
	assert.Equal(t, []models.PalletLoc{
		{WareNo: 1, Aisle: 1, Section: 1, Level: 1},
		{WareNo: 1, Aisle: 1, Section: 1, Level: 2},
		{WareNo: 1, Aisle: 1, Section: 1, Level: 3},
		{WareNo: 1, Aisle: 1, Section: 1, Level: 4},
		{WareNo: 1, Aisle: 1, Section: 2, Level: 1},
		{WareNo: 1, Aisle: 1, Section: 2, Level: 2},
	}, got)
	f.RequireMirrored(t)
}

func TestChangeCapacity_TooSmallLeavesWarehouseUnchanged(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()
	f.MustWarehouse(t, 1, grid.Box{Aisle: 200, Section: 10, Level: 5})
	f.MustItem(t, 1, models.DepartmentHousehold, 8001, 1)
	before := f.Warehouse(t, 1)

	_, err := f.Warehouses.ChangeCapacity(ctx, 1, models.MinCapacity)

	assert.True(t, errors.Is(err, models.ErrInvalidCapacity))
	assert.Equal(t, before, f.Warehouse(t, 1))
}

func TestEdit_UpdatesDescriptiveFields(t *testing.T) {
	f := servicetest.New()
	f.MustWarehouse(t, 1, grid.Box{})

	ware, err := f.Warehouses.Edit(context.Background(), 1, models.EditWarehouseRequest{
		Name: "North", Location: "Montreal", Aisle: 200, Section: 10, Level: 4,
	})

	require.NoError(t, err)
	assert.Equal(t, "North", ware.Name)
	assert.Equal(t, "Montreal", f.Warehouse(t, 1).Location)

	_, err = f.Warehouses.Edit(context.Background(), 2, models.EditWarehouseRequest{Name: "x", Location: "y", Aisle: 200, Section: 10, Level: 4})
	assert.True(t, errors.Is(err, models.ErrDoesNotExist))
}

func TestDeletePalletsForItem_AllWarehouses(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()
	f.MustWarehouse(t, 1, grid.Box{})
	f.MustWarehouse(t, 2, grid.Box{})
	f.MustItem(t, 1, models.DepartmentMisc, 25, 1)
	f.MustItem(t, 2, models.DepartmentMisc, 10, 1)
	_, err := f.Items.AddInventory(ctx, 1, models.InventoryRequest{WareNo: 2, Units: 5})
	require.NoError(t, err)

	session := f.Locks.Session()
	changed, err := f.Warehouses.DeletePalletsForItem(ctx, session, 1)
	session.Release()

	require.NoError(t, err)
	require.Len(t, changed, 2)
	assert.Len(t, changed[0].Pallets, 1)
	assert.Empty(t, changed[1].Pallets)
	assert.Len(t, f.Warehouse(t, 1).Pallets, 4, "nothing is saved by DeletePalletsForItem")
}
