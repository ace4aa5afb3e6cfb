// Package grid models a warehouse storage box and allocates free slots inside it.
package grid

import (
	"errors"
	"fmt"
)

// ErrInsufficientSlots is returned when the box cannot supply the requested number of free slots.
var ErrInsufficientSlots = errors.New("not enough free slots")

// Box is the capacity of a warehouse expressed as aisle x section x level.
type Box struct {
	Aisle   int `bson:"aisle" json:"aisle"`
	Section int `bson:"section" json:"section"`
	Level   int `bson:"level" json:"level"`
}

// Slots returns the total number of slots in the box.
func (b Box) Slots() int64 {
	return int64(b.Aisle) * int64(b.Section) * int64(b.Level)
}

// Within reports whether every dimension of b is <= the matching dimension of other,
// i.e. growing from b to other never invalidates an existing slot.
func (b Box) Within(other Box) bool {
	return b.Aisle <= other.Aisle && b.Section <= other.Section && b.Level <= other.Level
}

// Contains reports whether the slot lies inside the box.
func (b Box) Contains(s Slot) bool {
	return s.Aisle >= 1 && s.Aisle <= b.Aisle &&
		s.Section >= 1 && s.Section <= b.Section &&
		s.Level >= 1 && s.Level <= b.Level
}

func (b Box) String() string {
	return fmt.Sprintf("(%d, %d, %d)", b.Aisle, b.Section, b.Level)
}

// Slot is a single coordinate inside a box.
type Slot struct {
	Aisle   int
	Section int
	Level   int
}

// Less orders slots by aisle, then section, then level.
func (s Slot) Less(o Slot) bool {
	if s.Aisle != o.Aisle {
		return s.Aisle < o.Aisle
	}
	if s.Section != o.Section {
		return s.Section < o.Section
	}
	return s.Level < o.Level
}

// Occupied is a set of taken slots.
type Occupied map[Slot]struct{}

// Add marks the slot as taken.
func (o Occupied) Add(s Slot) {
	o[s] = struct{}{}
}

// Has reports whether the slot is taken. A nil set holds nothing.
func (o Occupied) Has(s Slot) bool {
	_, ok := o[s]
	return ok
}

// Allocate scans the box in (aisle, section, level) order, level varying fastest,
// and returns the first count slots not present in occupied.
func Allocate(box Box, occupied Occupied, count int) ([]Slot, error) {
	if count <= 0 {
		return []Slot{}, nil
	}

	slots := make([]Slot, 0, count)
	for a := 1; a <= box.Aisle; a++ {
		for s := 1; s <= box.Section; s++ {
			for l := 1; l <= box.Level; l++ {
				slot := Slot{Aisle: a, Section: s, Level: l}
				if occupied.Has(slot) {
					continue
				}
				slots = append(slots, slot)
				if len(slots) == count {
					return slots, nil
				}
			}
		}
	}

	return nil, fmt.Errorf("%w: requested %d, found %d", ErrInsufficientSlots, count, len(slots))
}
