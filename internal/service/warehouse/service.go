// Package warehouse manages warehouse capacity and the pallet slots inside it.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/domain/grid"
	"github.com/MSNanda515/StockFlow/internal/domain/models"
	"github.com/MSNanda515/StockFlow/internal/locking"
	"github.com/MSNanda515/StockFlow/internal/repository"
)

// Service is the warehouse capacity manager.
type Service struct {
	store  repository.Store
	locks  *locking.Table
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new warehouse service.
func NewService(store repository.Store, locks *locking.Table, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		locks:  locks,
		logger: logger,
		now:    time.Now,
	}
}

// Create registers a new warehouse. Zero dimensions default to the minimum box.
func (s *Service) Create(ctx context.Context, req models.CreateWarehouseRequest) (*models.Warehouse, error) {
	if req.WareNo <= 0 {
		return nil, fmt.Errorf("%w: warehouse number must be positive", models.ErrInvalidRequest)
	}

	session := s.locks.Session()
	defer session.Release()
	if err := session.Acquire(locking.WarehouseKey(req.WareNo)); err != nil {
		return nil, err
	}

	_, err := s.store.FindWarehouseByNo(ctx, req.WareNo)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: warehouse with id %d", models.ErrAlreadyExists, req.WareNo)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	ware, err := models.NewWarehouse(req.WareNo, req.Name, req.Location, req.Capacity(), s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveWarehouse(ctx, ware); err != nil {
		return nil, err
	}

	s.logger.Info("warehouse created",
		zap.Int64("ware_no", ware.WareNo),
		zap.String("capacity", ware.Capacity.String()))
	return ware, nil
}

// Get returns the warehouse with the given number.
func (s *Service) Get(ctx context.Context, wareNo int64) (*models.Warehouse, error) {
	return s.load(ctx, wareNo)
}

// GetAll returns every warehouse ordered by number.
func (s *Service) GetAll(ctx context.Context) ([]*models.Warehouse, error) {
	return s.store.FindWarehouses(ctx)
}

// NextWarehouseNo suggests the number for the next warehouse.
func (s *Service) NextWarehouseNo(ctx context.Context) (int64, error) {
	highest, err := s.store.MaxWareNo(ctx)
	if err != nil {
		return 0, err
	}
	return highest + 1, nil
}

// Edit updates a warehouse's name and location and, when it differs, its capacity.
func (s *Service) Edit(ctx context.Context, wareNo int64, req models.EditWarehouseRequest) (*models.Warehouse, error) {
	return s.update(ctx, wareNo, func(ware *models.Warehouse) {
		ware.Name = req.Name
		ware.Location = req.Location
	}, req.Capacity())
}

// ChangeCapacity resizes a warehouse. Shrinking any dimension relocates every pallet,
// and the owning items are updated with the new locations.
func (s *Service) ChangeCapacity(ctx context.Context, wareNo int64, capacity grid.Box) (*models.Warehouse, error) {
	return s.update(ctx, wareNo, nil, capacity)
}

func (s *Service) update(ctx context.Context, wareNo int64, mutate func(*models.Warehouse), capacity grid.Box) (*models.Warehouse, error) {
	session := s.locks.Session()
	defer session.Release()
	if err := session.Acquire(locking.WarehouseKey(wareNo)); err != nil {
		return nil, err
	}

	ware, err := s.load(ctx, wareNo)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if mutate != nil {
		mutate(ware)
		ware.ModifiedAt = now
	}

	relocated := false
	if ware.Capacity != capacity {
		relocated, err = ware.ChangeCapacity(capacity, now)
		if err != nil {
			return nil, err
		}
	}

	var items []*models.Item
	if relocated {
		items, err = s.relocateItems(ctx, session, ware, now)
		if err != nil {
			return nil, err
		}
	}

	changes := repository.Changeset{Warehouses: []*models.Warehouse{ware}, Items: items}
	if err := s.store.Commit(ctx, changes); err != nil {
		return nil, err
	}

	s.logger.Info("warehouse updated",
		zap.Int64("ware_no", ware.WareNo),
		zap.String("capacity", ware.Capacity.String()),
		zap.Bool("relocated", relocated),
		zap.Int("pallets", len(ware.Pallets)))
	return ware, nil
}

// relocateItems copies the warehouse's new pallet locations onto the owning items.
func (s *Service) relocateItems(ctx context.Context, session *locking.Session, ware *models.Warehouse, now time.Time) ([]*models.Item, error) {
	itemNos := ware.ItemNos()
	if err := session.Acquire(locking.ItemKeys(itemNos...)...); err != nil {
		return nil, err
	}

	locs := ware.PalletLocations()
	items := make([]*models.Item, 0, len(itemNos))
	for _, no := range itemNos {
		item, err := s.store.FindItemByNo(ctx, no)
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("warehouse holds pallets of unknown item", zap.Int64("ware_no", ware.WareNo), zap.Int64("item_no", no))
			continue
		}
		if err != nil {
			return nil, err
		}
		if item.Relocate(locs, now) > 0 {
			items = append(items, item)
		}
	}
	return items, nil
}

// GetAvailablePalletPos returns the first count free locations of a warehouse in scan order.
func (s *Service) GetAvailablePalletPos(ctx context.Context, count int, wareNo int64) ([]models.PalletLoc, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: pallet count must not be negative", models.ErrInvalidRequest)
	}
	ware, err := s.load(ctx, wareNo)
	if err != nil {
		return nil, err
	}
	return ware.AvailablePalletPos(count)
}

// Reserve locks the warehouse within session, loads it and finds count free locations.
// The caller appends the new pallets to the returned warehouse and saves it.
func (s *Service) Reserve(ctx context.Context, session *locking.Session, wareNo int64, count int) (*models.Warehouse, []models.PalletLoc, error) {
	if err := session.Acquire(locking.WarehouseKey(wareNo)); err != nil {
		return nil, nil, err
	}
	ware, err := s.load(ctx, wareNo)
	if err != nil {
		return nil, nil, err
	}
	locs, err := ware.AvailablePalletPos(count)
	if err != nil {
		s.logger.Debug("warehouse reservation failed", zap.Int64("ware_no", wareNo), zap.Int("count", count), zap.Error(err))
		return nil, nil, err
	}
	return ware, locs, nil
}

// DeletePalletsForItem locks every warehouse within session and removes the pallets of
// itemNo from them. Nothing is saved: the modified warehouses are returned to the caller.
// A warehouse without pallets of the item is left untouched.
func (s *Service) DeletePalletsForItem(ctx context.Context, session *locking.Session, itemNo int64) ([]*models.Warehouse, error) {
	all, err := s.store.FindWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	wareNos := make([]int64, len(all))
	for i, w := range all {
		wareNos[i] = w.WareNo
	}
	if err := session.Acquire(locking.WarehouseKeys(wareNos...)...); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var changed []*models.Warehouse
	for _, no := range wareNos {
		ware, err := s.store.FindWarehouseByNo(ctx, no)
		if err != nil {
			return nil, err
		}
		if ware.RemovePalletsForItem(itemNo, now) > 0 {
			changed = append(changed, ware)
		}
	}
	return changed, nil
}

func (s *Service) load(ctx context.Context, wareNo int64) (*models.Warehouse, error) {
	ware, err := s.store.FindWarehouseByNo(ctx, wareNo)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: warehouse with %d id", models.ErrDoesNotExist, wareNo)
	}
	if err != nil {
		return nil, err
	}
	return ware, nil
}
