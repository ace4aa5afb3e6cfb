// Package memory is an in-process document store used by tests and by STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/MSNanda515/StockFlow/internal/domain/models"
	"github.com/MSNanda515/StockFlow/internal/repository"
)

// Store keeps deep copies of every document so callers never share state with it.
type Store struct {
	mu         sync.RWMutex
	items      map[int64]*models.Item
	warehouses map[int64]*models.Warehouse
	reports    []models.CapacityReport
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		items:      make(map[int64]*models.Item),
		warehouses: make(map[int64]*models.Warehouse),
	}
}

// Verify interface compliance
var (
	_ repository.Store            = (*Store)(nil)
	_ repository.ReportRepository = (*Store)(nil)
)

// FindItemByNo returns a copy of the item with the given number.
func (s *Store) FindItemByNo(_ context.Context, itemNo int64) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[itemNo]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", itemNo, repository.ErrNotFound)
	}
	return item.Clone(), nil
}

// FindActiveItems returns copies of all active items ordered by item number.
func (s *Store) FindActiveItems(_ context.Context) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Item, 0, len(s.items))
	for _, item := range s.items {
		if item.Active() {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemNo < out[j].ItemNo })
	return out, nil
}

// SaveItem inserts or replaces the item.
func (s *Store) SaveItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[item.ItemNo] = item.Clone()
	return nil
}

// SaveItems inserts or replaces every item.
func (s *Store) SaveItems(_ context.Context, items []*models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		s.items[item.ItemNo] = item.Clone()
	}
	return nil
}

// MaxItemNo returns the highest item number stored, active or not.
func (s *Store) MaxItemNo(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var highest int64
	for no := range s.items {
		if no > highest {
			highest = no
		}
	}
	return highest, nil
}

// FindWarehouseByNo returns a copy of the warehouse with the given number.
func (s *Store) FindWarehouseByNo(_ context.Context, wareNo int64) (*models.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ware, ok := s.warehouses[wareNo]
	if !ok {
		return nil, fmt.Errorf("warehouse %d: %w", wareNo, repository.ErrNotFound)
	}
	return ware.Clone(), nil
}

// FindWarehouses returns copies of all warehouses ordered by number.
func (s *Store) FindWarehouses(_ context.Context) ([]*models.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Warehouse, 0, len(s.warehouses))
	for _, ware := range s.warehouses {
		out = append(out, ware.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WareNo < out[j].WareNo })
	return out, nil
}

// SaveWarehouse inserts or replaces the warehouse.
func (s *Store) SaveWarehouse(_ context.Context, warehouse *models.Warehouse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.warehouses[warehouse.WareNo] = warehouse.Clone()
	return nil
}

// SaveWarehouses inserts or replaces every warehouse.
func (s *Store) SaveWarehouses(_ context.Context, warehouses []*models.Warehouse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ware := range warehouses {
		s.warehouses[ware.WareNo] = ware.Clone()
	}
	return nil
}

// MaxWareNo returns the highest warehouse number stored.
func (s *Store) MaxWareNo(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var highest int64
	for no := range s.warehouses {
		if no > highest {
			highest = no
		}
	}
	return highest, nil
}

// Commit replaces every document of the changeset under one write lock, so no reader
// sees a warehouse without the matching item update.
func (s *Store) Commit(_ context.Context, changes repository.Changeset) error {
	if changes.Empty() {
		return nil
	}

	wares := make([]*models.Warehouse, len(changes.Warehouses))
	for i, ware := range changes.Warehouses {
		wares[i] = ware.Clone()
	}
	items := make([]*models.Item, len(changes.Items))
	for i, item := range changes.Items {
		items[i] = item.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ware := range wares {
		s.warehouses[ware.WareNo] = ware
	}
	for _, item := range items {
		s.items[item.ItemNo] = item
	}
	return nil
}

// SaveCapacityReport appends the report.
func (s *Store) SaveCapacityReport(_ context.Context, report models.CapacityReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = append(s.reports, report)
	return nil
}

// CapacityReports returns the stored reports in insertion order.
func (s *Store) CapacityReports() []models.CapacityReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.CapacityReport(nil), s.reports...)
}
