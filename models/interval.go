package models

import (
	"fmt"
	"time"
)

// Interval is a half-open time range [Start, End) on absolute instants.
type Interval struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// Overlaps reports whether the two half-open intervals intersect.
// Intervals that only touch at a boundary do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether t falls inside the interval. The start is
// inclusive, the end exclusive.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// ClockTime is a wall-clock time of day in "HH:MM" form, e.g. "09:30".
// It is meaningless without a date and an IANA location to anchor it.
type ClockTime string

// Parse returns the hour and minute components. The whole string must
// be a valid time of day; trailing text or out-of-range components are
// rejected.
func (c ClockTime) Parse() (hour, minute int, err error) {
	t, err := time.Parse("15:04", string(c))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q: %w", string(c), err)
	}
	return t.Hour(), t.Minute(), nil
}

// On anchors the wall-clock time onto the given date in the given location,
// producing an absolute instant.
func (c ClockTime) On(date time.Time, loc *time.Location) (time.Time, error) {
	hour, minute, err := c.Parse()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc), nil
}

// ClockInterval is a wall-clock time range within a single day.
type ClockInterval struct {
	Start ClockTime `bson:"start" json:"start"`
	End   ClockTime `bson:"end" json:"end"`
}

// On resolves the wall-clock range onto a date in a location.
func (ci ClockInterval) On(date time.Time, loc *time.Location) (Interval, error) {
	start, err := ci.Start.On(date, loc)
	if err != nil {
		return Interval{}, err
	}
	end, err := ci.End.On(date, loc)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}
