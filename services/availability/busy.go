package availability

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bookwise/models"
	"bookwise/utils"
)

// BusyIntervals aggregates committed time for [from, to): active
// bookings from the repository plus busy periods from the provider's
// external calendar, if one is linked. The two reads run concurrently.
// Calendar failures never propagate; the result is simply computed
// from bookings alone, with a warning logged.
func (s *DefaultService) BusyIntervals(ctx context.Context, providerID string, from, to time.Time) ([]models.BusyInterval, error) {
	logger := utils.GetLogger()

	var (
		booked   []models.Interval
		external []models.Interval
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		booked, err = s.BookedIntervals(gctx, providerID, from, to)
		return err
	})

	g.Go(func() error {
		integration, err := s.Providers.GetCalendarIntegration(gctx, providerID)
		if err != nil {
			logger.Warn("calendar integration lookup failed, skipping external busy data",
				zap.String("providerID", providerID), zap.Error(err))
			return nil
		}
		if integration == nil || s.Calendar == nil {
			return nil
		}

		external, err = s.Calendar.BusyIntervals(gctx, integration, from, to)
		if err != nil {
			logger.Warn("external calendar busy fetch failed, continuing without it",
				zap.String("providerID", providerID), zap.Error(err))
			external = nil
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	busy := make([]models.BusyInterval, 0, len(booked)+len(external))
	for _, iv := range booked {
		busy = append(busy, models.BusyInterval{Interval: iv, Source: models.BusySourceBooking})
	}
	for _, iv := range external {
		busy = append(busy, models.BusyInterval{Interval: iv, Source: models.BusySourceCalendar})
	}
	return busy, nil
}

// BookedIntervals returns the occupied ranges of the provider's
// confirmed and pending bookings starting in [from, to).
func (s *DefaultService) BookedIntervals(ctx context.Context, providerID string, from, to time.Time) ([]models.Interval, error) {
	bookings, err := s.Bookings.FindForProviderInRange(ctx, providerID, from, to, models.ActiveBookingStatuses)
	if err != nil {
		return nil, err
	}

	intervals := make([]models.Interval, 0, len(bookings))
	for _, b := range bookings {
		intervals = append(intervals, b.Interval())
	}
	return intervals, nil
}
