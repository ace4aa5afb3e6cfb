package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/MSNanda515/StockFlow/internal/domain/models"
)

// capacityReportDocument stores decimals as strings so they survive the round trip unchanged.
type capacityReportDocument struct {
	GeneratedAt  time.Time             `bson:"generated_at"`
	TotalSlots   int64                 `bson:"total_slots"`
	TotalPallets int                   `bson:"total_pallets"`
	Utilization  string                `bson:"utilization"`
	Warehouses   []utilizationDocument `bson:"warehouses"`
	CreatedAt    time.Time             `bson:"created_at"`
}

type utilizationDocument struct {
	WareNo      int64  `bson:"ware_no"`
	Name        string `bson:"name"`
	Capacity    string `bson:"capacity"`
	Slots       int64  `bson:"slots"`
	Pallets     int    `bson:"pallets"`
	FreeSlots   int64  `bson:"free_slots"`
	Utilization string `bson:"utilization"`
}

func newCapacityReportDocument(report models.CapacityReport) capacityReportDocument {
	doc := capacityReportDocument{
		GeneratedAt:  report.GeneratedAt,
		TotalSlots:   report.TotalSlots,
		TotalPallets: report.TotalPallets,
		Utilization:  report.Utilization.String(),
		Warehouses:   make([]utilizationDocument, len(report.Warehouses)),
		CreatedAt:    time.Now().UTC(),
	}
	for i, w := range report.Warehouses {
		doc.Warehouses[i] = utilizationDocument{
			WareNo:      w.WareNo,
			Name:        w.Name,
			Capacity:    w.Capacity,
			Slots:       w.Slots,
			Pallets:     w.Pallets,
			FreeSlots:   w.FreeSlots,
			Utilization: w.Utilization.String(),
		}
	}
	return doc
}

// SaveCapacityReport saves a capacity report to the database.
func (r *MongoDBRepository) SaveCapacityReport(ctx context.Context, report models.CapacityReport) error {
	collection := r.db.Collection(reportsCollection)
	_, err := collection.InsertOne(ctx, newCapacityReportDocument(report))
	if err != nil {
		return fmt.Errorf("failed to insert capacity report: %w", err)
	}
	return nil
}
