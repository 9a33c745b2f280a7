package models

import "time"

// Booking statuses. Only Confirmed and Pending count as busy when
// computing availability. Pending has no producer in the commit path
// today; it is reserved for a future approval workflow.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Calendar sync outcomes recorded on the booking.
const (
	SyncStatusOK      = "ok"
	SyncStatusFailed  = "failed"
	SyncStatusPending = "pending"
)

// ActiveBookingStatuses are the statuses that block a time range.
var ActiveBookingStatuses = []string{BookingStatusConfirmed, BookingStatusPending}

// Booking represents a committed appointment.
type Booking struct {
	ID              string    `bson:"id" json:"id"`
	ProviderID      string    `bson:"provider_id" json:"providerId"`
	ServiceID       string    `bson:"service_id" json:"serviceId"`
	ClientID        string    `bson:"client_id" json:"clientId"`
	Start           time.Time `bson:"start" json:"start"`
	End             time.Time `bson:"end" json:"end"`
	Status          string    `bson:"status" json:"status"`
	Note            string    `bson:"note,omitempty" json:"note,omitempty"`
	ExternalEventID string    `bson:"external_event_id,omitempty" json:"externalEventId,omitempty"`
	SyncStatus      string    `bson:"sync_status" json:"syncStatus"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}

// Interval returns the booking's occupied time range.
func (b Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// IsActive reports whether the booking still blocks its time range.
func (b Booking) IsActive() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusPending
}
