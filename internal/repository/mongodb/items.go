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

// FindItemByNo loads the item with the given number.
func (r *MongoDBRepository) FindItemByNo(ctx context.Context, itemNo int64) (*models.Item, error) {
	var item models.Item
	err := r.db.Collection(itemsCollection).FindOne(ctx, bson.D{{Key: "item_no", Value: itemNo}}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("item %d: %w", itemNo, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find item %d: %w", itemNo, err)
	}
	return &item, nil
}

// FindActiveItems loads every active item ordered by item number.
func (r *MongoDBRepository) FindActiveItems(ctx context.Context) ([]*models.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "item_no", Value: 1}})
	cursor, err := r.db.Collection(itemsCollection).Find(ctx, bson.D{{Key: "status", Value: models.ItemActive}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find active items: %w", err)
	}

	var items []*models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode active items: %w", err)
	}
	return items, nil
}

// SaveItem upserts the item by item number.
func (r *MongoDBRepository) SaveItem(ctx context.Context, item *models.Item) error {
	_, err := r.db.Collection(itemsCollection).ReplaceOne(ctx,
		bson.D{{Key: "item_no", Value: item.ItemNo}}, item, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save item %d: %w", item.ItemNo, err)
	}
	return nil
}

// SaveItems upserts all items in one ordered bulk write.
func (r *MongoDBRepository) SaveItems(ctx context.Context, items []*models.Item) error {
	if len(items) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, len(items))
	for i, item := range items {
		writes[i] = upsertModel("item_no", item.ItemNo, item)
	}
	if _, err := r.db.Collection(itemsCollection).BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("save %d items: %w", len(items), err)
	}
	return nil
}

// MaxItemNo returns the highest item number in use.
func (r *MongoDBRepository) MaxItemNo(ctx context.Context) (int64, error) {
	return r.maxNumber(ctx, itemsCollection, "item_no")
}
