package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MSNanda515/StockFlow/internal/domain/models"
	"github.com/MSNanda515/StockFlow/internal/repository"
)

// FindWarehouseByNo loads the warehouse with the given number.
func (r *MongoDBRepository) FindWarehouseByNo(ctx context.Context, wareNo int64) (*models.Warehouse, error) {
	var ware models.Warehouse
	err := r.db.Collection(warehousesCollection).FindOne(ctx, bson.D{{Key: "ware_no", Value: wareNo}}).Decode(&ware)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("warehouse %d: %w", wareNo, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find warehouse %d: %w", wareNo, err)
	}
	return &ware, nil
}

// FindWarehouses loads every warehouse ordered by number.
func (r *MongoDBRepository) FindWarehouses(ctx context.Context) ([]*models.Warehouse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "ware_no", Value: 1}})
	cursor, err := r.db.Collection(warehousesCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find warehouses: %w", err)
	}

	var wares []*models.Warehouse
	if err := cursor.All(ctx, &wares); err != nil {
		return nil, fmt.Errorf("decode warehouses: %w", err)
	}
	return wares, nil
}

// SaveWarehouse upserts the warehouse by number.
func (r *MongoDBRepository) SaveWarehouse(ctx context.Context, ware *models.Warehouse) error {
	_, err := r.db.Collection(warehousesCollection).ReplaceOne(ctx,
		bson.D{{Key: "ware_no", Value: ware.WareNo}}, ware, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save warehouse %d: %w", ware.WareNo, err)
	}
	return nil
}

// SaveWarehouses upserts all warehouses in one ordered bulk write.
func (r *MongoDBRepository) SaveWarehouses(ctx context.Context, wares []*models.Warehouse) error {
	if len(wares) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, len(wares))
	for i, ware := range wares {
		writes[i] = upsertModel("ware_no", ware.WareNo, ware)
	}
	if _, err := r.db.Collection(warehousesCollection).BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("save %d warehouses: %w", len(wares), err)
	}
	return nil
}

// MaxWareNo returns the highest warehouse number in use.
func (r *MongoDBRepository) MaxWareNo(ctx context.Context) (int64, error) {
	return r.maxNumber(ctx, warehousesCollection, "ware_no")
}
