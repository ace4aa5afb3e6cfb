package items_test

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MSNanda515/StockFlow/internal/domain/grid"
	"github.com/MSNanda515/StockFlow/internal/domain/models"
	"github.com/MSNanda515/StockFlow/internal/service/servicetest"
)

func TestAddInventory_FirstScanOrderSlots(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()
	f.MustWarehouse(t, 1, grid.Box{})
	f.MustItem(t, 1, models.DepartmentGrocery, 0, 0)

	item, err := f.Items.AddInventory(ctx, 1, models.InventoryRequest{WareNo: 1, Units: 120})
	require.NoError(t, err)

	require.Len(t, item.Pallets, 3)
	wantUnits := []int{50, 50, 20}
	wantLocs := []models.PalletLoc{{WareNo: 1, Aisle: 1, Section: 1, Level: 1}, {WareNo: 1, Aisle: 1, Section: 1, Level: 2}, {WareNo: 1, Aisle: 1, Section: 1, Level: 3}}
	for i, p := range item.Pallets {
		assert.Equal(t, wantUnits[i], p.Units)
		assert.Equal(t, wantLocs[i], p.Loc)
	}
	assert.Len(t, f.Warehouse(t, 1).Pallets, 3)
	f.RequireMirrored(t)
}

func TestCreateItem_Duplicate(t *testing.T) {
	f := servicetest.New()
	f.MustItem(t, 1, models.DepartmentMisc, 0, 0)

	_, err := f.Items.CreateItem(context.Background(), models.CreateItemRequest{
		ItemNo: 1, Name: "x", Description: "y", Department: models.DepartmentMisc,
	})

	assert.True(t, errors.Is(err, models.ErrAlreadyExists))
}

func TestCreateItem_Validation(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()

	_, err := f.Items.CreateItem(ctx, models.CreateItemRequest{ItemNo: 1, Name: "x", Description: "y", Department: "toys"})
	assert.True(t, errors.Is(err, models.ErrInvalidRequest))

	_, err = f.Items.CreateItem(ctx, models.CreateItemRequest{ItemNo: 1, Name: "x", Description: "y", Department: models.DepartmentMisc, Units: 5, WareNo: 3})
	assert.True(t, errors.Is(err, models.ErrDoesNotExist))

	_, err = f.Items.GetItem(ctx, 1)
	assert.True(t, errors.Is(err, models.ErrDoesNotExist), "failed create must not persist the item")
}

func TestAddInventory_CapacityExceededPersistsNothing(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()
	f.MustWarehouse(t, 1, grid.Box{})
	f.MustItem(t, 1, models.DepartmentHousehold, 7999, 1)

	_, err := f.Items.AddInventory(ctx, 1, models.InventoryRequest{WareNo: 1, Units: 2})

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrCapacityExceeded))
	var capErr *models.CapacityExceededError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 7999, capErr.Pallets)
	assert.Equal(t, int64(8000), capErr.Slots)
	assert.Len(t, f.Item(t, 1).Pallets, 7999)
	assert.Len(t, f.Warehouse(t, 1).Pallets, 7999)
}

func TestAddInventory_UnknownItemOrInactive(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()
	f.MustWarehouse(t, 1, grid.Box{})

	_, err := f.Items.AddInventory(ctx, 5, models.InventoryRequest{WareNo: 1, Units: 1})
	assert.True(t, errors.Is(err, models.ErrDoesNotExist))

	f.MustItem(t, 5, models.DepartmentMisc, 0, 0)
	require.NoError(t, f.Items.DeleteItem(ctx, 5))
	_, err = f.Items.AddInventory(ctx, 5, models.InventoryRequest{WareNo: 1, Units: 1})
	assert.True(t, errors.Is(err, models.ErrDoesNotExist))
}

func TestEditItem(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()
	f.MustItem(t, 1, models.DepartmentElectric, 0, 0)

	_, err := f.Items.EditItem(ctx, 1, models.EditItemRequest{Name: "Lamp", Description: "Desk lamp", Department: models.DepartmentMisc})
	assert.True(t, errors.Is(err, models.ErrDepartmentMismatch))
	assert.Equal(t, "Item", f.Item(t, 1).Name)

	item, err := f.Items.EditItem(ctx, 1, models.EditItemRequest{Name: "Lamp", Description: "Desk lamp", Department: models.DepartmentElectric})
	require.NoError(t, err)
	assert.Equal(t, "Lamp", item.Name)
	assert.Equal(t, "Desk lamp", f.Item(t, 1).Description)

	_, err = f.Items.EditItem(ctx, 2, models.EditItemRequest{Name: "x", Description: "y", Department: models.DepartmentMisc})
	assert.True(t, errors.Is(err, models.ErrDoesNotExist))
}

func TestDeleteItem_RemovesPalletsEverywhere(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()
	f.MustWarehouse(t, 1, grid.Box{})
	f.MustWarehouse(t, 2, grid.Box{})
	f.MustItem(t, 1, models.DepartmentMisc, 30, 1)
	f.MustItem(t, 2, models.DepartmentMisc, 10, 1)
	_, err := f.Items.AddInventory(ctx, 1, models.InventoryRequest{WareNo: 2, Units: 15})
	require.NoError(t, err)

	require.NoError(t, f.Items.DeleteItem(ctx, 1))

	deleted := f.Item(t, 1)
	assert.Equal(t, models.ItemInactive, deleted.Status)
	assert.Len(t, deleted.Pallets, 5, "pallets stay on the item as history")
	units, err := f.Items.GetUnitsInWarehouse(ctx, 1, 1)
	require.NoError(t, err)
	assert.Zero(t, units)
	total, err := f.Items.GetTotalUnits(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Len(t, f.Warehouse(t, 1).Pallets, 1)
	assert.Empty(t, f.Warehouse(t, 2).Pallets)

	active, err := f.Items.GetAllActiveItems(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(2), active[0].ItemNo)
	f.RequireMirrored(t)

	assert.True(t, errors.Is(f.Items.DeleteItem(ctx, 42), models.ErrDoesNotExist))
}

func TestGetActiveItemsInWarehouse_AndUnits(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()
	f.MustWarehouse(t, 1, grid.Box{})
	f.MustWarehouse(t, 2, grid.Box{})
	f.MustItem(t, 1, models.DepartmentGrocery, 60, 1)
	f.MustItem(t, 2, models.DepartmentGrocery, 10, 2)
	_, err := f.Items.AddInventory(ctx, 1, models.InventoryRequest{WareNo: 2, Units: 5})
	require.NoError(t, err)

	inW2, err := f.Items.GetActiveItemsInWarehouse(ctx, 2)
	require.NoError(t, err)
	require.Len(t, inW2, 2)
	assert.Len(t, inW2[0].Pallets, 1, "only pallets in the warehouse are listed")

	units, err := f.Items.GetUnitsInWarehouse(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 60, units)
	units, err = f.Items.GetUnitsInWarehouse(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, units)

	total, err := f.Items.GetTotalUnits(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 65, total)
}

func TestNextItemNo_IncludesInactive(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()
	f.MustItem(t, 3, models.DepartmentMisc, 0, 0)
	require.NoError(t, f.Items.DeleteItem(ctx, 3))

	next, err := f.Items.NextItemNo(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), next)
}

func TestExportWarehouseCSV(t *testing.T) {
	f := servicetest.New()
	ctx := context.Background()
	f.MustWarehouse(t, 1, grid.Box{})
	f.MustItem(t, 1, models.DepartmentGrocery, 120, 1)

	name, data, err := f.Items.ExportWarehouseCSV(ctx, 1)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(name, "stockflow_warehouse_1_"))
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"item_no", "name", "department", "units", "pallets"},
		{"1", "Item", "Grocery", "120", "3"},
	}, rows)

	_, _, err = f.Items.ExportWarehouseCSV(ctx, 9)
	assert.True(t, errors.Is(err, models.ErrDoesNotExist))
}
