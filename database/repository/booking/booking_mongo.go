package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookwise/models"
)

// overlapFilter matches active bookings of the provider whose half-open
// interval intersects [start, end): existing.start < end AND existing.end > start.
func overlapFilter(providerID string, start, end time.Time) bson.M {
	return bson.M{
		"provider_id": providerID,
		"status":      bson.M{"$in": models.ActiveBookingStatuses},
		"start":       bson.M{"$lt": end},
		"end":         bson.M{"$gt": start},
	}
}

// commitLockTable hands out one mutex per provider so commits for the
// same provider run one at a time within this process.
type commitLockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (t *commitLockTable) forProvider(providerID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.locks == nil {
		t.locks = make(map[string]*sync.Mutex)
	}
	l, ok := t.locks[providerID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[providerID] = l
	}
	return l
}

// CreateIfFree inserts the booking only if no active booking of the
// same provider overlaps it. Commits for one provider are serialized in
// process by a keyed mutex. Across processes the transaction writes the
// provider's shared lock document before the overlap re-check: snapshot
// isolation alone would let two readers both count zero and insert
// distinct documents, but two writers on the same lock document cannot
// both commit. The loser aborts with a transient write conflict, the
// driver reruns it, and the rerun's re-check sees the winner's booking
// and returns ErrConflict.
func (repo *mongoBookingRepo) CreateIfFree(ctx context.Context, booking *models.Booking) error {
	mu := repo.commitLocks.forProvider(booking.ProviderID)
	mu.Lock()
	defer mu.Unlock()

	// The lock document must already exist when the transaction touches
	// it, otherwise two first-time commits upsert separate documents and
	// never conflict. This upsert is idempotent under the unique index.
	if _, err := repo.locks.UpdateOne(ctx,
		bson.M{"provider_id": booking.ProviderID},
		bson.M{"$setOnInsert": bson.M{"provider_id": booking.ProviderID}},
		options.Update().SetUpsert(true),
	); err != nil {
		return fmt.Errorf("could not ensure provider commit lock: %w", err)
	}

	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := repo.locks.UpdateOne(sc,
			bson.M{"provider_id": booking.ProviderID},
			bson.M{"$set": bson.M{"last_commit_at": time.Now()}},
		); err != nil {
			return nil, fmt.Errorf("could not lock provider for commit: %w", err)
		}

		count, err := repo.coll.CountDocuments(sc, overlapFilter(booking.ProviderID, booking.Start, booking.End))
		if err != nil {
			return nil, fmt.Errorf("overlap re-check failed: %w", err)
		}
		if count > 0 {
			return nil, ErrConflict
		}

		if _, err := repo.coll.InsertOne(sc, booking); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrConflict
			}
			return nil, fmt.Errorf("insert booking failed: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return ErrConflict
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

func (repo *mongoBookingRepo) FindForProviderInRange(ctx context.Context, providerID string, from, to time.Time, statuses []string) ([]models.Booking, error) {
	filter := bson.M{
		"provider_id": providerID,
		"status":      bson.M{"$in": statuses},
		"start":       bson.M{"$gte": from, "$lt": to},
	}

	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (repo *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

func (repo *mongoBookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", id)
	}
	return nil
}

func (repo *mongoBookingRepo) UpdateSyncState(ctx context.Context, id, externalEventID, syncStatus string) error {
	set := bson.M{"sync_status": syncStatus}
	if externalEventID != "" {
		set["external_event_id"] = externalEventID
	}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking sync state: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", id)
	}
	return nil
}
