package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/repository"
)

const (
	itemsCollection      = "items"
	warehousesCollection = "warehouses"
	reportsCollection    = "capacity_reports"
)

// Verify interface compliance
var (
	_ repository.Store            = (*MongoDBRepository)(nil)
	_ repository.ReportRepository = (*MongoDBRepository)(nil)
)

// MongoDBRepository stores items, warehouses and capacity reports as MongoDB documents.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger

	// transactions is false on a standalone server, which rejects multi-document transactions.
	transactions bool
}

// NewMongoDBRepository connects to MongoDB and makes sure the unique number indexes exist.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	r.transactions, err = r.supportsTransactions(ctx)
	if err != nil {
		return nil, err
	}
	if !r.transactions {
		logger.Warn("mongodb is a standalone server, commits fall back to ordered writes")
	}

	logger.Info("mongodb repository ready", zap.String("database", dbName), zap.Bool("transactions", r.transactions))
	return r, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	indexes := map[string]string{
		itemsCollection:      "item_no",
		warehousesCollection: "ware_no",
	}
	for coll, field := range indexes {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := r.db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create %s index on %s: %w", field, coll, err)
		}
	}

	statusIdx := mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}, {Key: "item_no", Value: 1}}}
	if _, err := r.db.Collection(itemsCollection).Indexes().CreateOne(ctx, statusIdx); err != nil {
		return fmt.Errorf("create status index on %s: %w", itemsCollection, err)
	}
	return nil
}

// supportsTransactions reports whether the deployment is a replica set member or a mongos router.
func (r *MongoDBRepository) supportsTransactions(ctx context.Context) (bool, error) {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := r.client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		return false, fmt.Errorf("run hello command: %w", err)
	}
	return hello.SetName != "" || hello.Msg == "isdbgrid", nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// maxNumber returns the highest value of field in coll, or 0 for an empty collection.
func (r *MongoDBRepository) maxNumber(ctx context.Context, coll, field string) (int64, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: field, Value: -1}}).
		SetProjection(bson.D{{Key: field, Value: 1}})

	var doc bson.M
	err := r.db.Collection(coll).FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find max %s in %s: %w", field, coll, err)
	}

	switch v := doc[field].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("unexpected %s type %T in %s", field, v, coll)
	}
}

func upsertModel(field string, no int64, doc interface{}) mongo.WriteModel {
	return mongo.NewReplaceOneModel().
		SetFilter(bson.D{{Key: field, Value: no}}).
		SetReplacement(doc).
		SetUpsert(true)
}
