package models

import "time"

// DayRule is one weekday's entry in a provider's recurring schedule.
type DayRule struct {
	Enabled      bool            `bson:"enabled" json:"enabled"`
	WorkingHours ClockInterval   `bson:"workingHours" json:"workingHours"`
	Breaks       []ClockInterval `bson:"breaks,omitempty" json:"breaks,omitempty"`
}

// WeekSchedule holds one rule per weekday, indexed by time.Weekday
// (Sunday = 0).
type WeekSchedule [7]DayRule

// Rule returns the entry for the given weekday.
func (ws WeekSchedule) Rule(day time.Weekday) DayRule {
	return ws[int(day)]
}

// AvailabilityPolicy is a provider's booking policy: the recurring week
// schedule plus the global knobs applied during slot generation. It is
// owned by the provider profile and read-only to the slot engine.
type AvailabilityPolicy struct {
	WeekSchedule       WeekSchedule `bson:"weekSchedule" json:"weekSchedule"`
	BufferMinutes      int          `bson:"bufferMinutes" json:"bufferMinutes"`
	AdvanceBookingDays int          `bson:"advanceBookingDays" json:"advanceBookingDays"`
	MinimumNoticeHours int          `bson:"minimumNoticeHours" json:"minimumNoticeHours"`
	Timezone           string       `bson:"timezone" json:"timezone"` // IANA zone name, e.g. "Europe/Berlin"
}

// Location resolves the policy's IANA timezone. All wall-clock
// comparisons for this provider happen in this location.
func (p AvailabilityPolicy) Location() (*time.Location, error) {
	return time.LoadLocation(p.Timezone)
}
