package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MSNanda515/StockFlow/internal/domain/grid"
)

// TransitAisle marks the location of a pallet that is on its way to another warehouse.
const TransitAisle = -1

// PalletStatus enumerates the lifecycle states of a pallet.
type PalletStatus string

const (
	PalletStationary PalletStatus = "station"
	PalletInTransit  PalletStatus = "transit"
)

// PalletLoc addresses one slot of one warehouse.
type PalletLoc struct {
	WareNo  int64 `bson:"ware_no" json:"wareNo"`
	Aisle   int   `bson:"aisle" json:"aisle"`
	Section int   `bson:"section" json:"section"`
	Level   int   `bson:"level" json:"level"`
}

// NewPalletLoc places a grid slot inside the given warehouse.
func NewPalletLoc(wareNo int64, slot grid.Slot) PalletLoc {
	return PalletLoc{WareNo: wareNo, Aisle: slot.Aisle, Section: slot.Section, Level: slot.Level}
}

// Slot drops the warehouse component.
func (l PalletLoc) Slot() grid.Slot {
	return grid.Slot{Aisle: l.Aisle, Section: l.Section, Level: l.Level}
}

func (l PalletLoc) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", l.WareNo, l.Aisle, l.Section, l.Level)
}

// Pallet is the minimum storage unit: up to a department's pallet capacity of one item at one slot.
type Pallet struct {
	ID         primitive.ObjectID `bson:"id" json:"id"`
	ItemNo     int64              `bson:"item_no" json:"itemNo"`
	Units      int                `bson:"units" json:"units"`
	Loc        PalletLoc          `bson:"loc" json:"location"`
	Status     PalletStatus       `bson:"status" json:"status"`
	Shipment   *Shipment          `bson:"shipment,omitempty" json:"shipment,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	ModifiedAt time.Time          `bson:"modified_at" json:"modifiedAt"`
}

// InTransit reports whether the pallet has been shipped but not yet received.
func (p Pallet) InTransit() bool {
	return p.Status == PalletInTransit
}

// NewPalletsForItem splits units across the given locations, filling each pallet to
// palletCap and leaving the remainder on the last one.
func NewPalletsForItem(itemNo int64, units int, locs []PalletLoc, palletCap int, now time.Time) []Pallet {
	pallets := make([]Pallet, 0, len(locs))
	remaining := units
	for _, loc := range locs {
		if remaining <= 0 {
			break
		}
		n := palletCap
		if remaining < n {
			n = remaining
		}
		pallets = append(pallets, Pallet{
			ID:         primitive.NewObjectID(),
			ItemNo:     itemNo,
			Units:      n,
			Loc:        loc,
			Status:     PalletStationary,
			CreatedAt:  now,
			ModifiedAt: now,
		})
		remaining -= n
	}
	return pallets
}

func (p *Pallet) ship(shipment Shipment, now time.Time) {
	s := shipment
	p.Status = PalletInTransit
	p.Loc = PalletLoc{WareNo: shipment.To, Aisle: TransitAisle}
	p.Shipment = &s
	p.ModifiedAt = now
}

func (p *Pallet) receive(loc PalletLoc, now time.Time) {
	p.Status = PalletStationary
	p.Loc = loc
	p.Shipment = nil
	p.ModifiedAt = now
}

func (p Pallet) clone() Pallet {
	if p.Shipment != nil {
		s := *p.Shipment
		p.Shipment = &s
	}
	return p
}

func clonePallets(in []Pallet) []Pallet {
	if in == nil {
		return nil
	}
	out := make([]Pallet, len(in))
	for i, p := range in {
		out[i] = p.clone()
	}
	return out
}
