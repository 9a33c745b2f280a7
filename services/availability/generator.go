package availability

import (
	"context"
	"fmt"
	"time"

	"bookwise/models"
)

const dateLayout = "2006-01-02"

func (s *DefaultService) GenerateSlots(ctx context.Context, providerID, serviceID, date string) (models.DayAvailability, error) {
	days, err := s.GenerateRange(ctx, providerID, serviceID, date, 1)
	if err != nil {
		return models.DayAvailability{}, err
	}
	return days[0], nil
}

func (s *DefaultService) GenerateRange(ctx context.Context, providerID, serviceID, date string, days int) ([]models.DayAvailability, error) {
	service, err := s.Services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, ErrServiceNotFound
	}
	if service.DurationMinutes < models.MinServiceDurationMinutes ||
		service.DurationMinutes > models.MaxServiceDurationMinutes {
		return nil, fmt.Errorf("%w: service duration %d minutes out of bounds", ErrInvalidInput, service.DurationMinutes)
	}

	policy, err := s.Providers.GetAvailabilityPolicy(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, ErrProviderNotFound
	}

	loc, err := policy.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidInput, policy.Timezone, err)
	}

	first, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q: %v", ErrInvalidInput, date, err)
	}

	if days < 1 {
		days = 1
	}
	if policy.AdvanceBookingDays >= 1 && days > policy.AdvanceBookingDays {
		days = policy.AdvanceBookingDays
	}

	out := make([]models.DayAvailability, 0, days)
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		grid, err := s.generateDay(ctx, providerID, service, policy, loc, day)
		if err != nil {
			return nil, err
		}
		out = append(out, grid)
	}
	return out, nil
}

// generateDay walks one provider-local day in fixed steps of
// serviceDuration + buffer, emitting every candidate slot annotated
// with availability. The grid is anchored at the working-hours start
// and never shifted or shrunk around conflicts: a colliding candidate
// is emitted unavailable, keeping the grid predictable day over day.
func (s *DefaultService) generateDay(
	ctx context.Context,
	providerID string,
	service *models.Service,
	policy *models.AvailabilityPolicy,
	loc *time.Location,
	date time.Time,
) (models.DayAvailability, error) {
	grid := models.DayAvailability{
		Date:  date.In(loc).Format(dateLayout),
		Slots: []models.Slot{},
	}

	schedule, err := ResolveDaySchedule(policy, date, loc)
	if err != nil {
		return models.DayAvailability{}, err
	}
	if schedule == nil {
		// Not a working day: a valid zero-slot outcome.
		return grid, nil
	}

	dayStart, dayEnd := dayBounds(date, loc)
	busy, err := s.BusyIntervals(ctx, providerID, dayStart, dayEnd)
	if err != nil {
		return models.DayAvailability{}, err
	}

	duration := time.Duration(service.DurationMinutes) * time.Minute
	step := duration + time.Duration(policy.BufferMinutes)*time.Minute

	now := s.now()
	notBefore := now.Add(time.Duration(policy.MinimumNoticeHours) * time.Hour)
	notAfter := now.AddDate(0, 0, policy.AdvanceBookingDays)

	for cur := schedule.Working.Start; !cur.Add(duration).After(schedule.Working.End); cur = cur.Add(step) {
		candidate := models.Interval{Start: cur, End: cur.Add(duration)}

		available := !candidate.Start.Before(notBefore) && !candidate.Start.After(notAfter)
		if available {
			for _, br := range schedule.Breaks {
				if candidate.Overlaps(br) {
					available = false
					break
				}
			}
		}
		if available {
			for _, b := range busy {
				if candidate.Overlaps(b.Interval) {
					available = false
					break
				}
			}
		}

		grid.Slots = append(grid.Slots, models.Slot{
			Start:     candidate.Start,
			End:       candidate.End,
			Available: available,
		})
	}

	return grid, nil
}
