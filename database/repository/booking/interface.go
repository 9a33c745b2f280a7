package bookingRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"bookwise/database"
	"bookwise/models"
)

// ErrConflict is returned by CreateIfFree when another active booking
// already occupies an overlapping time range for the same provider.
var ErrConflict = errors.New("booking conflicts with an existing active booking")

// BookingRepository is the single source of truth for committed time.
type BookingRepository interface {
	// CreateIfFree inserts the booking only if no confirmed or pending
	// booking of the same provider overlaps [Start, End). Concurrent
	// commits for overlapping ranges cannot both succeed; the loser
	// gets ErrConflict.
	CreateIfFree(ctx context.Context, booking *models.Booking) error

	// FindForProviderInRange returns the provider's bookings whose start
	// falls in [from, to) and whose status is one of the given statuses.
	FindForProviderInRange(ctx context.Context, providerID string, from, to time.Time, statuses []string) ([]models.Booking, error)

	GetByID(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error

	// UpdateSyncState records the outcome of an external calendar sync
	// attempt. An empty externalEventID leaves the stored ID untouched.
	UpdateSyncState(ctx context.Context, id, externalEventID, syncStatus string) error

	EnsureIndexes() error
}

type mongoBookingRepo struct {
	coll *mongo.Collection

	// locks holds one document per provider; CreateIfFree writes it
	// inside the commit transaction to force concurrent commits for the
	// same provider into a write conflict.
	locks       *mongo.Collection
	commitLocks commitLockTable
}

// NewMongoBookingRepo constructs a MongoDB-backed BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.DB()
	return &mongoBookingRepo{
		coll:  db.Collection("bookings"),
		locks: db.Collection("booking_commit_locks"),
	}
}
