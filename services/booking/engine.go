package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "bookwise/database/repository/booking"
	"bookwise/models"
	"bookwise/services/availability"
	"bookwise/utils"
)

const dateLayout = "2006-01-02"

// CommitBooking re-validates the requested range against committed
// time and persists the booking. Validation uses booking-derived busy
// intervals only: the external calendar is a write-mostly mirror and
// never authoritative for commit decisions. The repository repeats the
// overlap check inside its transaction, so a race between two commits
// for overlapping ranges resolves to one success and one conflict.
func (e *DefaultEngine) CommitBooking(ctx context.Context, req CommitRequest) (*models.Booking, error) {
	logger := utils.GetLogger()

	if req.ProviderID == "" || req.ServiceID == "" || req.ClientID == "" || req.Start.IsZero() {
		return nil, fmt.Errorf("%w: providerId, serviceId, clientId and start are required", availability.ErrInvalidInput)
	}

	service, err := e.Services.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, availability.ErrServiceNotFound
	}
	if service.DurationMinutes < models.MinServiceDurationMinutes ||
		service.DurationMinutes > models.MaxServiceDurationMinutes {
		return nil, fmt.Errorf("%w: service duration %d minutes out of bounds", availability.ErrInvalidInput, service.DurationMinutes)
	}

	policy, err := e.Providers.GetAvailabilityPolicy(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, availability.ErrProviderNotFound
	}
	loc, err := policy.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", availability.ErrInvalidInput, policy.Timezone, err)
	}

	now := e.now()
	if req.Start.Before(now) {
		return nil, fmt.Errorf("%w: booking start is in the past", availability.ErrInvalidInput)
	}

	start := req.Start
	end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)
	if !end.After(start) {
		return nil, fmt.Errorf("%w: booking end must be after start", availability.ErrInvalidInput)
	}
	requested := models.Interval{Start: start, End: end}

	// Re-derive busy intervals for the booking's provider-local day at
	// commit time; the slot grid the client saw is a stale snapshot.
	dayStart, dayEnd := localDayBounds(start, loc)
	booked, err := e.Availability.BookedIntervals(ctx, req.ProviderID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	for _, iv := range booked {
		if requested.Overlaps(iv) {
			return nil, ErrSlotUnavailable
		}
	}

	booking := &models.Booking{
		ID:         uuid.New().String(),
		ProviderID: req.ProviderID,
		ServiceID:  req.ServiceID,
		ClientID:   req.ClientID,
		Start:      start,
		End:        end,
		Status:     models.BookingStatusConfirmed,
		Note:       req.Note,
		SyncStatus: models.SyncStatusOK,
		CreatedAt:  now,
	}

	integration, err := e.Providers.GetCalendarIntegration(ctx, req.ProviderID)
	if err != nil {
		// Sync is a side effect; a broken integration lookup must not
		// block the commit. The mirror state is unknown though, so the
		// booking records failed rather than claiming ok.
		logger.Warn("calendar integration lookup failed during commit",
			zap.String("providerID", req.ProviderID), zap.Error(err))
		integration = nil
		booking.SyncStatus = models.SyncStatusFailed
	}
	if integration != nil {
		booking.SyncStatus = models.SyncStatusPending
	}

	if err := e.Bookings.CreateIfFree(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrConflict) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	e.Cache.Invalidate(ctx, req.ProviderID)

	if integration != nil {
		if err := e.Dispatcher.EnqueueEventCreate(booking); err != nil {
			logger.Warn("failed to enqueue calendar sync, marking booking sync failed",
				zap.String("bookingID", booking.ID), zap.Error(err))
			booking.SyncStatus = models.SyncStatusFailed
			if uerr := e.Bookings.UpdateSyncState(ctx, booking.ID, "", models.SyncStatusFailed); uerr != nil {
				logger.Error("failed to record sync failure", zap.String("bookingID", booking.ID), zap.Error(uerr))
			}
		}
	}

	logger.Info("booking committed",
		zap.String("bookingID", booking.ID),
		zap.String("providerID", booking.ProviderID),
		zap.Time("start", booking.Start),
		zap.Time("end", booking.End))
	return booking, nil
}

// CancelBooking marks the booking cancelled, frees its slot for future
// generation, and queues best-effort removal of the mirrored event.
func (e *DefaultEngine) CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	logger := utils.GetLogger()

	booking, err := e.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.Status == models.BookingStatusCancelled {
		return booking, nil
	}

	if err := e.Bookings.UpdateStatus(ctx, bookingID, models.BookingStatusCancelled); err != nil {
		return nil, err
	}
	booking.Status = models.BookingStatusCancelled

	e.Cache.Invalidate(ctx, booking.ProviderID)

	if booking.ExternalEventID != "" {
		if err := e.Dispatcher.EnqueueEventDelete(booking); err != nil {
			logger.Warn("failed to enqueue calendar event deletion",
				zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}

	return booking, nil
}

// ListProviderBookings returns every booking of the provider starting
// on the given provider-local date, regardless of status.
func (e *DefaultEngine) ListProviderBookings(ctx context.Context, providerID, date string) ([]models.Booking, error) {
	policy, err := e.Providers.GetAvailabilityPolicy(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, availability.ErrProviderNotFound
	}
	loc, err := policy.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", availability.ErrInvalidInput, policy.Timezone, err)
	}

	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q: %v", availability.ErrInvalidInput, date, err)
	}

	dayStart, dayEnd := localDayBounds(day, loc)
	statuses := []string{
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusCancelled,
		models.BookingStatusCompleted,
	}
	return e.Bookings.FindForProviderInRange(ctx, providerID, dayStart, dayEnd, statuses)
}

// localDayBounds returns [local midnight, next local midnight) of the
// day containing t in the given location.
func localDayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return start, end
}
