package models

import "time"

// Busy interval sources.
const (
	BusySourceBooking  = "booking"
	BusySourceCalendar = "external-calendar"
)

// BusyInterval is a time range during which a provider cannot accept a
// new booking. Transient: recomputed on every availability read, never
// persisted.
type BusyInterval struct {
	Interval `bson:",inline"`
	Source   string `json:"source"`
}

// Slot is one candidate appointment window in a day's slot grid,
// annotated with whether it can currently be booked. Unavailable slots
// are still emitted so clients can render them disabled.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// DayAvailability is the generated slot grid for one provider-local day.
type DayAvailability struct {
	Date  string `json:"date"` // provider-local, "YYYY-MM-DD"
	Slots []Slot `json:"slots"`
}
