package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department classifies items and fixes how many units fit on one pallet.
type Department string

const (
	DepartmentGrocery    Department = "grocery"
	DepartmentElectric   Department = "electric"
	DepartmentHousehold  Department = "household"
	DepartmentStationary Department = "stationary"
	DepartmentAutomobile Department = "automobile"
	DepartmentMisc       Department = "misc"
)

type departmentInfo struct {
	display   string
	palletCap int
}

var departments = map[Department]departmentInfo{
	DepartmentGrocery:    {display: "Grocery", palletCap: 50},
	DepartmentElectric:   {display: "Electric", palletCap: 10},
	DepartmentHousehold:  {display: "Household", palletCap: 1},
	DepartmentStationary: {display: "Stationary", palletCap: 50},
	DepartmentAutomobile: {display: "Automobile", palletCap: 1},
	DepartmentMisc:       {display: "Miscellaneous", palletCap: 10},
}

// Valid reports whether d is a known department.
func (d Department) Valid() bool {
	_, ok := departments[d]
	return ok
}

// PalletCapacity is the maximum number of units of one item a pallet holds.
func (d Department) PalletCapacity() int {
	return departments[d].palletCap
}

// DisplayName is the human readable department name.
func (d Department) DisplayName() string {
	if info, ok := departments[d]; ok {
		return info.display
	}
	return string(d)
}

// PalletsRequired returns ceil(units / palletCapacity) for the department.
func PalletsRequired(units int, d Department) int {
	palletCap := d.PalletCapacity()
	if units <= 0 || palletCap <= 0 {
		return 0
	}
	return (units + palletCap - 1) / palletCap
}

// ItemStatus is the soft-delete flag of an item.
type ItemStatus string

const (
	ItemActive   ItemStatus = "active"
	ItemInactive ItemStatus = "inactive"
)

// Item is a stocked product. It owns the authoritative copy of its pallets.
type Item struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ItemNo      int64              `bson:"item_no" json:"itemNo"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Department  Department         `bson:"department" json:"department"`
	Status      ItemStatus         `bson:"status" json:"status"`
	Pallets     []Pallet           `bson:"pallets" json:"pallets"`
	Shipments   []Shipment         `bson:"shipments" json:"shipments"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	ModifiedAt  time.Time          `bson:"modified_at" json:"modifiedAt"`
}

// NewItem builds an active item without inventory.
func NewItem(itemNo int64, name, description string, department Department, now time.Time) *Item {
	return &Item{
		ID:          primitive.NewObjectID(),
		ItemNo:      itemNo,
		Name:        name,
		Description: description,
		Department:  department,
		Status:      ItemActive,
		Pallets:     []Pallet{},
		Shipments:   []Shipment{},
		CreatedAt:   now,
		ModifiedAt:  now,
	}
}

// Active reports whether the item has not been soft deleted.
func (i *Item) Active() bool {
	return i.Status == ItemActive
}

// PalletsRequired returns the number of pallets needed to store units of this item.
func (i *Item) PalletsRequired(units int) int {
	return PalletsRequired(units, i.Department)
}

// UnitsInWarehouse sums the stationary units stored in wareNo.
func (i *Item) UnitsInWarehouse(wareNo int64) int {
	total := 0
	for _, p := range i.Pallets {
		if p.Loc.WareNo == wareNo && !p.InTransit() {
			total += p.Units
		}
	}
	return total
}

// TotalUnits sums the stationary units across every warehouse.
func (i *Item) TotalUnits() int {
	total := 0
	for _, p := range i.Pallets {
		if !p.InTransit() {
			total += p.Units
		}
	}
	return total
}

// PalletsInWarehouse returns copies of the stationary pallets stored in wareNo.
func (i *Item) PalletsInWarehouse(wareNo int64) []Pallet {
	var out []Pallet
	for _, p := range i.Pallets {
		if p.Loc.WareNo == wareNo && !p.InTransit() {
			out = append(out, p.clone())
		}
	}
	return out
}

// Warehouses returns the set of warehouses holding stationary pallets of the item.
func (i *Item) Warehouses() map[int64]struct{} {
	out := make(map[int64]struct{})
	for _, p := range i.Pallets {
		if !p.InTransit() {
			out[p.Loc.WareNo] = struct{}{}
		}
	}
	return out
}

// AddPallets appends new pallets to the item.
func (i *Item) AddPallets(pallets []Pallet, now time.Time) {
	for _, p := range pallets {
		i.Pallets = append(i.Pallets, p.clone())
	}
	i.ModifiedAt = now
}

// ShipResult describes how a shipment changed the source warehouse's view of the item.
type ShipResult struct {
	// Removed holds pallets that left the source warehouse entirely.
	Removed map[primitive.ObjectID]struct{}
	// Updated holds the new unit count of pallets that were split and stay behind.
	Updated map[primitive.ObjectID]int
	// Shipped holds copies of the in-transit pallets.
	Shipped []Pallet
}

// Ship marks units of the item stored in shipment.From as in transit to shipment.To.
// Pallets are consumed in list order; the first pallet larger than the outstanding
// amount is split and the walk stops there.
func (i *Item) Ship(units int, shipment Shipment, now time.Time) (ShipResult, error) {
	res := ShipResult{
		Removed: make(map[primitive.ObjectID]struct{}),
		Updated: make(map[primitive.ObjectID]int),
	}
	if units <= 0 {
		return res, fmt.Errorf("%w: item %d: units must be positive, got %d", ErrInvalidRequest, i.ItemNo, units)
	}
	if onHand := i.UnitsInWarehouse(shipment.From); onHand < units {
		return res, fmt.Errorf("%w: item %d: not enough units in warehouse %d, have %d, requested %d",
			ErrInvalidRequest, i.ItemNo, shipment.From, onHand, units)
	}

	shipment.Units = units
	var added []Pallet
	allocated := 0

	for idx := range i.Pallets {
		if allocated == units {
			break
		}
		p := &i.Pallets[idx]
		if p.Loc.WareNo != shipment.From || p.InTransit() {
			continue
		}

		remaining := units - allocated
		if p.Units <= remaining {
			p.ship(shipment, now)
			res.Removed[p.ID] = struct{}{}
			res.Shipped = append(res.Shipped, p.clone())
			allocated += p.Units
			continue
		}

		p.Units -= remaining
		p.ModifiedAt = now
		res.Updated[p.ID] = p.Units

		split := Pallet{
			ID:        primitive.NewObjectID(),
			ItemNo:    i.ItemNo,
			Units:     remaining,
			CreatedAt: now,
		}
		split.ship(shipment, now)
		added = append(added, split)
		res.Shipped = append(res.Shipped, split.clone())
		allocated += remaining
		break
	}

	i.Pallets = append(i.Pallets, added...)
	i.ModifiedAt = now
	return res, nil
}

// InTransitTo returns copies of the in-transit pallets belonging to the given shipments.
func (i *Item) InTransitTo(shipmentIDs map[primitive.ObjectID]struct{}) []Pallet {
	var out []Pallet
	for _, p := range i.Pallets {
		if !p.InTransit() || p.Shipment == nil {
			continue
		}
		if _, ok := shipmentIDs[p.Shipment.ID]; ok {
			out = append(out, p.clone())
		}
	}
	return out
}

// Receive places an in-transit pallet at loc and clears its shipment.
func (i *Item) Receive(palletID primitive.ObjectID, loc PalletLoc, now time.Time) (Pallet, bool) {
	for idx := range i.Pallets {
		p := &i.Pallets[idx]
		if p.ID != palletID || !p.InTransit() {
			continue
		}
		p.receive(loc, now)
		i.ModifiedAt = now
		return p.clone(), true
	}
	return Pallet{}, false
}

// Relocate moves pallets to the locations given by id. It returns how many moved.
func (i *Item) Relocate(locs map[primitive.ObjectID]PalletLoc, now time.Time) int {
	moved := 0
	for idx := range i.Pallets {
		p := &i.Pallets[idx]
		loc, ok := locs[p.ID]
		if !ok || p.InTransit() || p.Loc == loc {
			continue
		}
		p.Loc = loc
		p.ModifiedAt = now
		moved++
	}
	if moved > 0 {
		i.ModifiedAt = now
	}
	return moved
}

// Deactivate soft deletes the item. Its pallets stay on the record as history.
func (i *Item) Deactivate(now time.Time) {
	i.Status = ItemInactive
	i.ModifiedAt = now
}

// Clone returns a deep copy of the item.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	c.Pallets = clonePallets(i.Pallets)
	if i.Shipments != nil {
		c.Shipments = make([]Shipment, len(i.Shipments))
		copy(c.Shipments, i.Shipments)
	}
	return &c
}

func (i *Item) String() string {
	return fmt.Sprintf("%d (Name: %s, Department: %s, Pallet Cap: %d)",
		i.ItemNo, i.Name, i.Department.DisplayName(), i.Department.PalletCapacity())
}
