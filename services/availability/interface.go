package availability

import (
	"context"
	"errors"
	"time"

	bookingRepo "bookwise/database/repository/booking"
	providerRepo "bookwise/database/repository/provider"
	serviceRepo "bookwise/database/repository/service"
	"bookwise/models"
	"bookwise/services/calendar"
)

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrInvalidInput     = errors.New("invalid input")
)

// Service computes bookable slot grids for a provider/service/date.
type Service interface {
	// GenerateSlots produces the slot grid for one provider-local date
	// ("YYYY-MM-DD"). A disabled weekday yields an empty grid, not an
	// error.
	GenerateSlots(ctx context.Context, providerID, serviceID, date string) (models.DayAvailability, error)

	// GenerateRange produces grids for consecutive days starting at
	// date. days is clamped to [1, policy.AdvanceBookingDays].
	GenerateRange(ctx context.Context, providerID, serviceID, date string, days int) ([]models.DayAvailability, error)

	// BusyIntervals aggregates the provider's committed time for the
	// given absolute range: active bookings plus, best-effort, the
	// external calendar.
	BusyIntervals(ctx context.Context, providerID string, from, to time.Time) ([]models.BusyInterval, error)

	// BookedIntervals returns only booking-derived busy time. The
	// commit path validates against this, never against calendar data.
	BookedIntervals(ctx context.Context, providerID string, from, to time.Time) ([]models.Interval, error)
}

// DefaultService implements Service on the Mongo repositories and the
// external calendar client.
type DefaultService struct {
	Providers providerRepo.ProviderRepository
	Services  serviceRepo.ServiceRepository
	Bookings  bookingRepo.BookingRepository
	Calendar  calendar.Client

	// Now is the clock used for past/notice/advance-window filtering.
	// Nil means time.Now; tests inject a fixed instant.
	Now func() time.Time
}

func (s *DefaultService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
