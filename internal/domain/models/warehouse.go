package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MSNanda515/StockFlow/internal/domain/grid"
)

// Minimum warehouse dimensions.
const (
	MinAisle   = 200
	MinSection = 10
	MinLevel   = 4
)

// MinCapacity is the smallest box a warehouse may have.
var MinCapacity = grid.Box{Aisle: MinAisle, Section: MinSection, Level: MinLevel}

// Warehouse is a storage site. Its pallet list mirrors the stationary pallets of every
// item stored there and is used for slot bookkeeping.
type Warehouse struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	WareNo     int64              `bson:"ware_no" json:"wareNo"`
	Name       string             `bson:"name" json:"name"`
	Location   string             `bson:"location" json:"location"`
	Capacity   grid.Box           `bson:"capacity" json:"capacity"`
	Pallets    []Pallet           `bson:"pallets" json:"pallets"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	ModifiedAt time.Time          `bson:"modified_at" json:"modifiedAt"`
}

// NewWarehouse builds an empty warehouse. A zero capacity falls back to MinCapacity.
func NewWarehouse(wareNo int64, name, location string, capacity grid.Box, now time.Time) (*Warehouse, error) {
	if capacity == (grid.Box{}) {
		capacity = MinCapacity
	}
	if err := ValidateCapacity(capacity, 0); err != nil {
		return nil, err
	}
	return &Warehouse{
		ID:         primitive.NewObjectID(),
		WareNo:     wareNo,
		Name:       name,
		Location:   location,
		Capacity:   capacity,
		Pallets:    []Pallet{},
		CreatedAt:  now,
		ModifiedAt: now,
	}, nil
}

// ValidateCapacity checks the minimum dimensions and that the box can hold pallets.
func ValidateCapacity(capacity grid.Box, pallets int) error {
	if capacity.Aisle < MinAisle || capacity.Section < MinSection || capacity.Level < MinLevel {
		return fmt.Errorf("%w: minimum %d aisles, %d sections, %d levels, got %s",
			ErrInvalidCapacity, MinAisle, MinSection, MinLevel, capacity)
	}
	if capacity.Slots() < int64(pallets) {
		return fmt.Errorf("%w: warehouse requires %d capacity at least, got %d",
			ErrInvalidCapacity, pallets, capacity.Slots())
	}
	return nil
}

// Occupied returns the slots taken by the warehouse's pallets.
func (w *Warehouse) Occupied() grid.Occupied {
	occupied := make(grid.Occupied, len(w.Pallets))
	for _, p := range w.Pallets {
		if p.Loc.WareNo == w.WareNo {
			occupied.Add(p.Loc.Slot())
		}
	}
	return occupied
}

// AvailablePalletPos returns the first count free locations in scan order.
func (w *Warehouse) AvailablePalletPos(count int) ([]PalletLoc, error) {
	return w.allocate(w.Capacity, w.Occupied(), count)
}

func (w *Warehouse) allocate(box grid.Box, occupied grid.Occupied, count int) ([]PalletLoc, error) {
	slots, err := grid.Allocate(box, occupied, count)
	if err != nil {
		if errors.Is(err, grid.ErrInsufficientSlots) {
			return nil, &CapacityExceededError{
				WareNo:    w.WareNo,
				Pallets:   len(w.Pallets),
				Slots:     box.Slots(),
				Capacity:  box.String(),
				Requested: count,
			}
		}
		return nil, err
	}

	locs := make([]PalletLoc, len(slots))
	for i, s := range slots {
		locs[i] = NewPalletLoc(w.WareNo, s)
	}
	return locs, nil
}

// ChangeCapacity resizes the warehouse. Growing in every dimension keeps all pallets
// in place; any shrink re-lays out every pallet from the first slot in list order.
// It reports whether pallets were relocated. On error the warehouse is unchanged.
func (w *Warehouse) ChangeCapacity(capacity grid.Box, now time.Time) (bool, error) {
	if err := ValidateCapacity(capacity, len(w.Pallets)); err != nil {
		return false, err
	}
	if w.Capacity.Within(capacity) {
		w.Capacity = capacity
		w.ModifiedAt = now
		return false, nil
	}

	locs, err := w.allocate(capacity, nil, len(w.Pallets))
	if err != nil {
		return false, err
	}

	w.Capacity = capacity
	for i := range w.Pallets {
		w.Pallets[i].Loc = locs[i]
		w.Pallets[i].ModifiedAt = now
	}
	w.ModifiedAt = now
	return true, nil
}

// PalletLocations maps each mirrored pallet id to its location.
func (w *Warehouse) PalletLocations() map[primitive.ObjectID]PalletLoc {
	out := make(map[primitive.ObjectID]PalletLoc, len(w.Pallets))
	for _, p := range w.Pallets {
		out[p.ID] = p.Loc
	}
	return out
}

// ItemNos returns the distinct item numbers stored in the warehouse.
func (w *Warehouse) ItemNos() []int64 {
	seen := make(map[int64]struct{})
	var out []int64
	for _, p := range w.Pallets {
		if _, ok := seen[p.ItemNo]; ok {
			continue
		}
		seen[p.ItemNo] = struct{}{}
		out = append(out, p.ItemNo)
	}
	return out
}

// AddPallets appends pallets to the warehouse.
func (w *Warehouse) AddPallets(pallets []Pallet, now time.Time) {
	for _, p := range pallets {
		w.Pallets = append(w.Pallets, p.clone())
	}
	w.ModifiedAt = now
}

// RemovePallets drops the pallets with the given ids and returns how many were removed.
func (w *Warehouse) RemovePallets(ids map[primitive.ObjectID]struct{}, now time.Time) int {
	return w.filterPallets(func(p Pallet) bool {
		_, drop := ids[p.ID]
		return !drop
	}, now)
}

// RemovePalletsForItem drops every pallet of itemNo and returns how many were removed.
func (w *Warehouse) RemovePalletsForItem(itemNo int64, now time.Time) int {
	return w.filterPallets(func(p Pallet) bool {
		return p.ItemNo != itemNo
	}, now)
}

// UpdatePalletUnits sets the unit count of split pallets.
func (w *Warehouse) UpdatePalletUnits(units map[primitive.ObjectID]int, now time.Time) {
	for i := range w.Pallets {
		if n, ok := units[w.Pallets[i].ID]; ok {
			w.Pallets[i].Units = n
			w.Pallets[i].ModifiedAt = now
		}
	}
	if len(units) > 0 {
		w.ModifiedAt = now
	}
}

func (w *Warehouse) filterPallets(keep func(Pallet) bool, now time.Time) int {
	kept := make([]Pallet, 0, len(w.Pallets))
	for _, p := range w.Pallets {
		if keep(p) {
			kept = append(kept, p)
		}
	}
	removed := len(w.Pallets) - len(kept)
	if removed > 0 {
		w.Pallets = kept
		w.ModifiedAt = now
	}
	return removed
}

// Clone returns a deep copy of the warehouse.
func (w *Warehouse) Clone() *Warehouse {
	if w == nil {
		return nil
	}
	c := *w
	c.Pallets = clonePallets(w.Pallets)
	return &c
}

func (w *Warehouse) String() string {
	return fmt.Sprintf("%d (%s)", w.WareNo, w.Name)
}
