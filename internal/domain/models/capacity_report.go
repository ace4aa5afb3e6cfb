package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CapacityReport summarises slot usage across all warehouses.
type CapacityReport struct {
	GeneratedAt  time.Time              `json:"generatedAt"`
	TotalSlots   int64                  `json:"totalSlots"`
	TotalPallets int                    `json:"totalPallets"`
	Utilization  decimal.Decimal        `json:"utilization"`
	Warehouses   []WarehouseUtilization `json:"warehouses"`
}

// WarehouseUtilization is the slot usage of one warehouse.
type WarehouseUtilization struct {
	WareNo      int64           `json:"wareNo"`
	Name        string          `json:"name"`
	Capacity    string          `json:"capacity"`
	Slots       int64           `json:"slots"`
	Pallets     int             `json:"pallets"`
	FreeSlots   int64           `json:"freeSlots"`
	Utilization decimal.Decimal `json:"utilization"`
}
