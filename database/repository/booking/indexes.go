package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookwise/models"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (repo *mongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on booking ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary query pattern: provider's bookings by start instant
		{
			Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("provider_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("provider_status_start_idx"),
		},
		// Backstop for the commit race: no two active bookings of one
		// provider may share the same grid start. Interval overlap is
		// re-checked transactionally; this catches same-slot races.
		{
			Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "start", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_active_slot").
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": models.ActiveBookingStatuses},
				}),
		},
	}

	_, err := repo.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	// One lock document per provider; the unique index makes the
	// pre-transaction upsert idempotent.
	_, err = repo.locks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "provider_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_provider_lock"),
	})
	if err != nil {
		return fmt.Errorf("failed to create commit lock index: %w", err)
	}
	return nil
}
