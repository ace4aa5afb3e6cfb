package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shipment identifies a batch of pallets moving between two warehouses.
type Shipment struct {
	ID    primitive.ObjectID `bson:"id" json:"id"`
	From  int64              `bson:"from" json:"from"`
	To    int64              `bson:"to" json:"to"`
	Units int                `bson:"units" json:"units"`
}

// Receivable groups the in-transit pallets of one shipment headed to a warehouse.
type Receivable struct {
	ShipmentID string           `json:"shipmentId"`
	From       int64            `json:"from"`
	To         int64            `json:"to"`
	Units      int              `json:"units"`
	Items      []ReceivableItem `json:"items"`
}

// ReceivableItem sums the in-transit units of one item within a shipment.
type ReceivableItem struct {
	ItemNo      int64      `json:"itemNo"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Department  Department `json:"department"`
	Units       int        `json:"units"`
}
