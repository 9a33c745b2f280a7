package availability

import (
	"fmt"
	"time"

	"bookwise/models"
)

// DaySchedule is one provider-local day of the recurring schedule,
// resolved to absolute instants.
type DaySchedule struct {
	Working models.Interval
	Breaks  []models.Interval
}

// ResolveDaySchedule resolves the weekday rule for the given date. The
// weekday is derived from the date interpreted in the provider's
// timezone, never UTC: a provider in Auckland and one in Los Angeles
// disagree about which weekday "now" is, and the provider wins.
//
// Returns (nil, nil) when the provider does not work that day. Breaks
// are passed through as configured; whether they sit inside working
// hours is not validated here, overlap filtering during generation
// handles stray ranges either way.
func ResolveDaySchedule(policy *models.AvailabilityPolicy, date time.Time, loc *time.Location) (*DaySchedule, error) {
	if policy == nil {
		return nil, nil
	}

	localDate := date.In(loc)
	rule := policy.WeekSchedule.Rule(localDate.Weekday())
	if !rule.Enabled {
		return nil, nil
	}

	working, err := rule.WorkingHours.On(localDate, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: working hours: %v", ErrInvalidInput, err)
	}
	if !working.End.After(working.Start) {
		return nil, fmt.Errorf("%w: working hours end before start", ErrInvalidInput)
	}

	schedule := &DaySchedule{Working: working}
	for _, br := range rule.Breaks {
		iv, err := br.On(localDate, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: break: %v", ErrInvalidInput, err)
		}
		schedule.Breaks = append(schedule.Breaks, iv)
	}
	return schedule, nil
}

// dayBounds returns [local midnight, next local midnight) for the date
// in the given location. Using time.Date for the next day keeps the
// range correct across DST transitions.
func dayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	local := date.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return start, end
}
