package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/MSNanda515/StockFlow/internal/repository"
)

// Commit writes the changeset inside a multi-document transaction when the deployment
// supports one. Otherwise warehouses are written before items, matching lock order.
func (r *MongoDBRepository) Commit(ctx context.Context, changes repository.Changeset) error {
	if changes.Empty() {
		return nil
	}
	if !r.transactions {
		return r.writeChangeset(ctx, changes)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start mongodb session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, r.writeChangeset(sc, changes)
	})
	if err != nil {
		return fmt.Errorf("commit %d warehouses and %d items: %w", len(changes.Warehouses), len(changes.Items), err)
	}

	r.logger.Debug("changeset committed",
		zap.Int("warehouses", len(changes.Warehouses)),
		zap.Int("items", len(changes.Items)))
	return nil
}

func (r *MongoDBRepository) writeChangeset(ctx context.Context, changes repository.Changeset) error {
	if err := r.SaveWarehouses(ctx, changes.Warehouses); err != nil {
		return err
	}
	return r.SaveItems(ctx, changes.Items)
}
