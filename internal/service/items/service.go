// Package items manages items and the pallets that hold their inventory.
package items

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/domain/models"
	"github.com/MSNanda515/StockFlow/internal/locking"
	"github.com/MSNanda515/StockFlow/internal/repository"
	"github.com/MSNanda515/StockFlow/internal/service/warehouse"
)

// deleteAttempts bounds how often DeleteItem retries when a warehouse appears mid-delete.
const deleteAttempts = 3

// Service is the item inventory manager.
type Service struct {
	store      repository.Store
	warehouses *warehouse.Service
	locks      *locking.Table
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new item service.
func NewService(store repository.Store, warehouses *warehouse.Service, locks *locking.Table, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		warehouses: warehouses,
		locks:      locks,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateItem registers a new item and, when req.Units > 0, stocks it in req.WareNo.
func (s *Service) CreateItem(ctx context.Context, req models.CreateItemRequest) (*models.Item, error) {
	if req.ItemNo <= 0 {
		return nil, fmt.Errorf("%w: item number must be positive", models.ErrInvalidRequest)
	}
	if !req.Department.Valid() {
		return nil, fmt.Errorf("%w: unknown department %q", models.ErrInvalidRequest, req.Department)
	}
	if req.Units < 0 {
		return nil, fmt.Errorf("%w: units must not be negative", models.ErrInvalidRequest)
	}

	session := s.locks.Session()
	defer session.Release()

	keys := []locking.Key{locking.ItemKey(req.ItemNo)}
	if req.Units > 0 {
		keys = append(keys, locking.WarehouseKey(req.WareNo))
	}
	if err := session.Acquire(keys...); err != nil {
		return nil, err
	}

	_, err := s.store.FindItemByNo(ctx, req.ItemNo)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: item with item no %d", models.ErrAlreadyExists, req.ItemNo)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	now := s.now().UTC()
	item := models.NewItem(req.ItemNo, req.Name, req.Description, req.Department, now)

	changes := repository.Changeset{Items: []*models.Item{item}}
	if req.Units > 0 {
		ware, err := s.addInventory(ctx, session, item, req.Units, req.WareNo, now)
		if err != nil {
			return nil, err
		}
		changes.Warehouses = []*models.Warehouse{ware}
	}
	if err := s.store.Commit(ctx, changes); err != nil {
		return nil, err
	}

	s.logger.Info("item created",
		zap.Int64("item_no", item.ItemNo),
		zap.String("department", string(item.Department)),
		zap.Int("units", req.Units),
		zap.Int("pallets", len(item.Pallets)))
	return item, nil
}

// AddInventory stores units of an existing item in a warehouse.
func (s *Service) AddInventory(ctx context.Context, itemNo int64, req models.InventoryRequest) (*models.Item, error) {
	if req.Units <= 0 {
		return nil, fmt.Errorf("%w: units must be positive", models.ErrInvalidRequest)
	}

	session := s.locks.Session()
	defer session.Release()
	if err := session.Acquire(locking.WarehouseKey(req.WareNo), locking.ItemKey(itemNo)); err != nil {
		return nil, err
	}

	item, err := s.loadActive(ctx, itemNo)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ware, err := s.addInventory(ctx, session, item, req.Units, req.WareNo, now)
	if err != nil {
		return nil, err
	}
	changes := repository.Changeset{Warehouses: []*models.Warehouse{ware}, Items: []*models.Item{item}}
	if err := s.store.Commit(ctx, changes); err != nil {
		return nil, err
	}

	s.logger.Info("inventory added",
		zap.Int64("item_no", itemNo),
		zap.Int64("ware_no", req.WareNo),
		zap.Int("units", req.Units))
	return item, nil
}

// addInventory splits units into pallets at the first free slots of wareNo and appends
// them to both the item and the warehouse. Neither is saved.
func (s *Service) addInventory(ctx context.Context, session *locking.Session, item *models.Item, units int, wareNo int64, now time.Time) (*models.Warehouse, error) {
	required := item.PalletsRequired(units)
	ware, locs, err := s.warehouses.Reserve(ctx, session, wareNo, required)
	if err != nil {
		return nil, err
	}

	pallets := models.NewPalletsForItem(item.ItemNo, units, locs, item.Department.PalletCapacity(), now)
	item.AddPallets(pallets, now)
	ware.AddPallets(pallets, now)
	return ware, nil
}

// EditItem changes an item's name and description. The department can never change
// because pallet capacity depends on it.
func (s *Service) EditItem(ctx context.Context, itemNo int64, req models.EditItemRequest) (*models.Item, error) {
	session := s.locks.Session()
	defer session.Release()
	if err := session.Acquire(locking.ItemKey(itemNo)); err != nil {
		return nil, err
	}

	item, err := s.load(ctx, itemNo)
	if err != nil {
		return nil, err
	}
	if item.Department != req.Department {
		return nil, fmt.Errorf("%w: expected %s, got %s", models.ErrDepartmentMismatch, item.Department, req.Department)
	}

	item.Name = req.Name
	item.Description = req.Description
	item.ModifiedAt = s.now().UTC()
	if err := s.store.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes the item's pallets from every warehouse and marks it inactive.
func (s *Service) DeleteItem(ctx context.Context, itemNo int64) error {
	for attempt := 1; attempt <= deleteAttempts; attempt++ {
		done, err := s.deleteItem(ctx, itemNo)
		if err != nil || done {
			return err
		}
		s.logger.Debug("warehouse set changed during delete, retrying", zap.Int64("item_no", itemNo), zap.Int("attempt", attempt))
	}
	return fmt.Errorf("delete item %d: warehouses kept changing, giving up after %d attempts", itemNo, deleteAttempts)
}

func (s *Service) deleteItem(ctx context.Context, itemNo int64) (bool, error) {
	if _, err := s.load(ctx, itemNo); err != nil {
		return false, err
	}

	session := s.locks.Session()
	defer session.Release()

	wares, err := s.warehouses.DeletePalletsForItem(ctx, session, itemNo)
	if err != nil {
		return false, err
	}
	if err := session.Acquire(locking.ItemKey(itemNo)); err != nil {
		return false, err
	}

	item, err := s.load(ctx, itemNo)
	if err != nil {
		return false, err
	}
	for wareNo := range item.Warehouses() {
		if !session.Holds(locking.WarehouseKey(wareNo)) {
			return false, nil
		}
	}

	item.Deactivate(s.now().UTC())
	if err := s.store.Commit(ctx, repository.Changeset{Warehouses: wares, Items: []*models.Item{item}}); err != nil {
		return false, err
	}

	s.logger.Info("item deleted", zap.Int64("item_no", itemNo), zap.Int("warehouses_touched", len(wares)))
	return true, nil
}

// GetItem returns the item with the given number, active or not.
func (s *Service) GetItem(ctx context.Context, itemNo int64) (*models.Item, error) {
	return s.load(ctx, itemNo)
}

// GetAllActiveItems returns every active item ordered by number.
func (s *Service) GetAllActiveItems(ctx context.Context) ([]*models.Item, error) {
	return s.store.FindActiveItems(ctx)
}

// GetActiveItemsInWarehouse returns the active items with stationary units in wareNo.
// Each returned item only lists its pallets stored in that warehouse.
func (s *Service) GetActiveItemsInWarehouse(ctx context.Context, wareNo int64) ([]*models.Item, error) {
	items, err := s.store.FindActiveItems(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Item, 0, len(items))
	for _, item := range items {
		pallets := item.PalletsInWarehouse(wareNo)
		if len(pallets) == 0 {
			continue
		}
		item.Pallets = pallets
		out = append(out, item)
	}
	return out, nil
}

// GetUnitsInWarehouse returns the stationary units of itemNo stored in wareNo.
// A deleted item holds nothing; the pallets it keeps are history.
func (s *Service) GetUnitsInWarehouse(ctx context.Context, itemNo, wareNo int64) (int, error) {
	item, err := s.load(ctx, itemNo)
	if err != nil {
		return 0, err
	}
	if !item.Active() {
		return 0, nil
	}
	return item.UnitsInWarehouse(wareNo), nil
}

// GetTotalUnits returns the stationary units of itemNo across every warehouse.
func (s *Service) GetTotalUnits(ctx context.Context, itemNo int64) (int, error) {
	item, err := s.load(ctx, itemNo)
	if err != nil {
		return 0, err
	}
	if !item.Active() {
		return 0, nil
	}
	return item.TotalUnits(), nil
}

// NextItemNo suggests the number for the next item.
func (s *Service) NextItemNo(ctx context.Context) (int64, error) {
	highest, err := s.store.MaxItemNo(ctx)
	if err != nil {
		return 0, err
	}
	return highest + 1, nil
}

func (s *Service) load(ctx context.Context, itemNo int64) (*models.Item, error) {
	item, err := s.store.FindItemByNo(ctx, itemNo)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: item with %d", models.ErrDoesNotExist, itemNo)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) loadActive(ctx context.Context, itemNo int64) (*models.Item, error) {
	item, err := s.load(ctx, itemNo)
	if err != nil {
		return nil, err
	}
	if !item.Active() {
		return nil, fmt.Errorf("%w: item %d is inactive", models.ErrDoesNotExist, itemNo)
	}
	return item, nil
}
