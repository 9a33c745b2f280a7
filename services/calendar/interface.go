package calendar

import (
	"context"
	"errors"
	"time"

	"bookwise/models"
)

// ErrUnauthorized signals that the integration's access token was
// rejected. Callers may refresh credentials once and retry.
var ErrUnauthorized = errors.New("calendar credentials rejected")

// Client talks to a provider's external calendar. Every method is
// best-effort from the platform's point of view: failures must be
// downgraded by callers, never treated as booking failures. All calls
// are time-bounded through the context.
type Client interface {
	// BusyIntervals returns the calendar's busy periods intersecting
	// [from, to).
	BusyIntervals(ctx context.Context, integration *models.CalendarIntegration, from, to time.Time) ([]models.Interval, error)

	// CreateEvent mirrors a booking into the external calendar and
	// returns the remote event ID.
	CreateEvent(ctx context.Context, integration *models.CalendarIntegration, booking *models.Booking) (string, error)

	// DeleteEvent removes a previously mirrored event.
	DeleteEvent(ctx context.Context, integration *models.CalendarIntegration, eventID string) error

	// RefreshCredentials exchanges the refresh token for a new access
	// token, updating the integration in place. Idempotent.
	RefreshCredentials(ctx context.Context, integration *models.CalendarIntegration) error
}
