package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "bookwise/database/repository/booking"
	providerRepo "bookwise/database/repository/provider"
	serviceRepo "bookwise/database/repository/service"
	"bookwise/models"
	"bookwise/services/availability"
	"bookwise/utils"
)

var (
	// ErrSlotUnavailable is the commit-time conflict: the requested
	// range overlaps committed time. Recoverable; the client re-fetches
	// slots and picks again.
	ErrSlotUnavailable = errors.New("requested slot is no longer available")

	ErrBookingNotFound = errors.New("booking not found")
)

// CommitRequest carries a client's selected slot into the commit path.
type CommitRequest struct {
	ProviderID string    `json:"providerId" binding:"required"`
	ServiceID  string    `json:"serviceId" binding:"required"`
	ClientID   string    `json:"clientId" binding:"required"`
	Start      time.Time `json:"start" binding:"required"`
	Note       string    `json:"note"`
}

// Engine converts selected slots into persisted, conflict-checked
// bookings and manages their later lifecycle transitions.
type Engine interface {
	CommitBooking(ctx context.Context, req CommitRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListProviderBookings(ctx context.Context, providerID, date string) ([]models.Booking, error)
}

// SyncDispatcher hands calendar mirroring off to a background worker.
// Dispatch happens after the transactional commit; a dispatch failure
// downgrades the booking's sync status, never the booking itself.
type SyncDispatcher interface {
	EnqueueEventCreate(booking *models.Booking) error
	EnqueueEventDelete(booking *models.Booking) error
}

// DefaultEngine implements Engine.
type DefaultEngine struct {
	Bookings     bookingRepo.BookingRepository
	Services     serviceRepo.ServiceRepository
	Providers    providerRepo.ProviderRepository
	Availability availability.Service
	Dispatcher   SyncDispatcher
	Cache        *utils.AvailabilityCache

	// Nil means time.Now; tests inject a fixed instant.
	Now func() time.Time
}

func (e *DefaultEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
