package models

import "time"

// CalendarIntegration holds a provider's external calendar link. Busy
// periods are read from the ICS feed; event writes go through the
// calendar's REST API using the stored credentials. The external
// calendar is a best-effort mirror, never the source of truth for
// availability.
type CalendarIntegration struct {
	ProviderID   string    `bson:"provider_id" json:"providerId"`
	Active       bool      `bson:"active" json:"active"`
	FeedURL      string    `bson:"feed_url" json:"feedUrl"`
	APIBaseURL   string    `bson:"api_base_url" json:"apiBaseUrl"`
	CalendarID   string    `bson:"calendar_id" json:"calendarId"`
	AccessToken  string    `bson:"access_token" json:"-"`
	RefreshToken string    `bson:"refresh_token" json:"-"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}
