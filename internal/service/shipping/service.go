// Package shipping moves pallets between warehouses.
//
// Shipping marks pallets in transit and removes them from the source warehouse. The
// destination warehouse only learns about them when the shipment is received, so
// in-transit pallets occupy no slot anywhere.
package shipping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/domain/models"
	"github.com/MSNanda515/StockFlow/internal/locking"
	"github.com/MSNanda515/StockFlow/internal/repository"
	"github.com/MSNanda515/StockFlow/internal/service/warehouse"
)

// Service is the shipment coordinator.
type Service struct {
	store      repository.Store
	warehouses *warehouse.Service
	locks      *locking.Table
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new shipping service.
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

// ShipItems ships the requested units of each item from one warehouse to another.
// Either every item is shipped or nothing is saved.
func (s *Service) ShipItems(ctx context.Context, from, to int64, units map[int64]int) (models.Shipment, error) {
	if len(units) == 0 {
		return models.Shipment{}, fmt.Errorf("%w: shipment has no items", models.ErrInvalidRequest)
	}
	if from == to {
		return models.Shipment{}, fmt.Errorf("%w: cannot ship from warehouse %d to itself", models.ErrInvalidRequest, from)
	}
	for itemNo, n := range units {
		if n <= 0 {
			return models.Shipment{}, fmt.Errorf("%w: item %d: units must be positive", models.ErrInvalidRequest, itemNo)
		}
	}
	if _, err := s.warehouses.Get(ctx, to); err != nil {
		return models.Shipment{}, err
	}

	itemNos := models.SortedItemNos(units)

	session := s.locks.Session()
	defer session.Release()
	keys := append([]locking.Key{locking.WarehouseKey(from)}, locking.ItemKeys(itemNos...)...)
	if err := session.Acquire(keys...); err != nil {
		return models.Shipment{}, err
	}

	source, err := s.warehouses.Get(ctx, from)
	if err != nil {
		return models.Shipment{}, err
	}

	now := s.now().UTC()
	shipment := models.Shipment{ID: primitive.NewObjectID(), From: from, To: to}
	removed := make(map[primitive.ObjectID]struct{})
	updated := make(map[primitive.ObjectID]int)
	items := make([]*models.Item, 0, len(itemNos))

	for _, itemNo := range itemNos {
		item, err := s.loadActive(ctx, itemNo)
		if err != nil {
			return models.Shipment{}, err
		}
		res, err := item.Ship(units[itemNo], shipment, now)
		if err != nil {
			return models.Shipment{}, err
		}
		for id := range res.Removed {
			removed[id] = struct{}{}
		}
		for id, n := range res.Updated {
			updated[id] = n
		}
		shipment.Units += units[itemNo]
		items = append(items, item)
	}

	source.RemovePallets(removed, now)
	source.UpdatePalletUnits(updated, now)

	changes := repository.Changeset{Warehouses: []*models.Warehouse{source}, Items: items}
	if err := s.store.Commit(ctx, changes); err != nil {
		return models.Shipment{}, err
	}

	s.logger.Info("items shipped",
		zap.String("shipment_id", shipment.ID.Hex()),
		zap.Int64("from", from),
		zap.Int64("to", to),
		zap.Int("items", len(items)),
		zap.Int("units", shipment.Units),
		zap.Int("pallets_removed", len(removed)),
		zap.Int("pallets_split", len(updated)))
	return shipment, nil
}

// GetReceivable lists the shipments heading to wareNo, grouped by shipment and then item.
// It reads without locks and may observe a shipment that is being received concurrently.
func (s *Service) GetReceivable(ctx context.Context, wareNo int64) ([]models.Receivable, error) {
	items, err := s.store.FindActiveItems(ctx)
	if err != nil {
		return nil, err
	}

	var order []primitive.ObjectID
	byShipment := make(map[primitive.ObjectID]*models.Receivable)
	itemIdx := make(map[primitive.ObjectID]map[int64]int)

	for _, item := range items {
		for _, p := range item.Pallets {
			if !p.InTransit() || p.Shipment == nil || p.Shipment.To != wareNo {
				continue
			}
			sid := p.Shipment.ID
			rec, ok := byShipment[sid]
			if !ok {
				rec = &models.Receivable{ShipmentID: sid.Hex(), From: p.Shipment.From, To: p.Shipment.To}
				byShipment[sid] = rec
				itemIdx[sid] = make(map[int64]int)
				order = append(order, sid)
			}
			idx, ok := itemIdx[sid][item.ItemNo]
			if !ok {
				rec.Items = append(rec.Items, models.ReceivableItem{
					ItemNo:      item.ItemNo,
					Name:        item.Name,
					Description: item.Description,
					Department:  item.Department,
				})
				idx = len(rec.Items) - 1
				itemIdx[sid][item.ItemNo] = idx
			}
			rec.Items[idx].Units += p.Units
			rec.Units += p.Units
		}
	}

	out := make([]models.Receivable, 0, len(order))
	for _, sid := range order {
		out = append(out, *byShipment[sid])
	}
	return out, nil
}

// ReceiveShipment places every in-transit pallet of the given shipments into the first
// free slots of wareNo. It returns how many pallets were received.
func (s *Service) ReceiveShipment(ctx context.Context, wareNo int64, shipmentIDs []string) (int, error) {
	ids, err := parseShipmentIDs(shipmentIDs)
	if err != nil {
		return 0, err
	}

	session := s.locks.Session()
	defer session.Release()
	if err := session.Acquire(locking.WarehouseKey(wareNo)); err != nil {
		return 0, err
	}
	if _, err := s.store.FindWarehouseByNo(ctx, wareNo); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: the requested warehouse %d does not exist", models.ErrInvalidRequest, wareNo)
		}
		return 0, err
	}

	candidates, err := s.store.FindActiveItems(ctx)
	if err != nil {
		return 0, err
	}
	var itemNos []int64
	for _, item := range candidates {
		if len(item.InTransitTo(ids)) > 0 {
			itemNos = append(itemNos, item.ItemNo)
		}
	}
	if len(itemNos) == 0 {
		return 0, fmt.Errorf("%w: no pallets in transit for the requested shipments", models.ErrDoesNotExist)
	}
	if err := session.Acquire(locking.ItemKeys(itemNos...)...); err != nil {
		return 0, err
	}

	type pending struct {
		item   *models.Item
		pallet models.Pallet
	}
	var incoming []pending
	items := make([]*models.Item, 0, len(itemNos))
	for _, no := range itemNos {
		item, err := s.store.FindItemByNo(ctx, no)
		if err != nil {
			return 0, err
		}
		if !item.Active() {
			continue
		}
		for _, p := range item.InTransitTo(ids) {
			if p.Shipment.To != wareNo {
				return 0, fmt.Errorf("%w: shipment %s is headed to warehouse %d, not %d",
					models.ErrInvalidRequest, p.Shipment.ID.Hex(), p.Shipment.To, wareNo)
			}
			incoming = append(incoming, pending{item: item, pallet: p})
		}
		items = append(items, item)
	}
	if len(incoming) == 0 {
		return 0, fmt.Errorf("%w: no pallets in transit for the requested shipments", models.ErrDoesNotExist)
	}

	dest, locs, err := s.warehouses.Reserve(ctx, session, wareNo, len(incoming))
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	received := make([]models.Pallet, 0, len(incoming))
	for i, in := range incoming {
		p, ok := in.item.Receive(in.pallet.ID, locs[i], now)
		if !ok {
			return 0, fmt.Errorf("pallet %s of item %d vanished while receiving", in.pallet.ID.Hex(), in.item.ItemNo)
		}
		received = append(received, p)
	}
	dest.AddPallets(received, now)

	changes := repository.Changeset{Warehouses: []*models.Warehouse{dest}, Items: items}
	if err := s.store.Commit(ctx, changes); err != nil {
		return 0, err
	}

	s.logger.Info("shipment received",
		zap.Int64("ware_no", wareNo),
		zap.Strings("shipment_ids", shipmentIDs),
		zap.Int("pallets", len(received)))
	return len(received), nil
}

func parseShipmentIDs(raw []string) (map[primitive.ObjectID]struct{}, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no shipment ids given", models.ErrInvalidRequest)
	}
	ids := make(map[primitive.ObjectID]struct{}, len(raw))
	for _, r := range raw {
		id, err := primitive.ObjectIDFromHex(r)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid shipment id %q", models.ErrInvalidRequest, r)
		}
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (s *Service) loadActive(ctx context.Context, itemNo int64) (*models.Item, error) {
	item, err := s.store.FindItemByNo(ctx, itemNo)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: item with %d", models.ErrDoesNotExist, itemNo)
	}
	if err != nil {
		return nil, err
	}
	if !item.Active() {
		return nil, fmt.Errorf("%w: item %d is inactive", models.ErrDoesNotExist, itemNo)
	}
	return item, nil
}
