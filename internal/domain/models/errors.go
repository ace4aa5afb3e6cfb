package models

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the inventory services. All are expected, caller-recoverable conditions.
var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrDoesNotExist       = errors.New("does not exist")
	ErrDepartmentMismatch = errors.New("department does not match")
	ErrInvalidCapacity    = errors.New("invalid capacity")
	ErrCapacityExceeded   = errors.New("out of capacity")
	ErrInvalidRequest     = errors.New("invalid request")
)

// CapacityExceededError reports a warehouse that cannot supply enough free slots.
type CapacityExceededError struct {
	WareNo    int64
	Pallets   int
	Slots     int64
	Capacity  string
	Requested int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("warehouse %d out of capacity, has %d pallets, capacity %d %s, requested %d pallets",
		e.WareNo, e.Pallets, e.Slots, e.Capacity, e.Requested)
}

// Unwrap lets errors.Is match ErrCapacityExceeded.
func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}
