package models

// Service duration bounds in minutes.
const (
	MinServiceDurationMinutes = 15
	MaxServiceDurationMinutes = 480
)

// Service is a bookable offering of a provider. Its duration drives the
// slot grid for that provider/service pair.
type Service struct {
	ID              string  `bson:"id" json:"id"`
	ProviderID      string  `bson:"provider_id" json:"providerId"`
	Name            string  `bson:"name" json:"name"`
	DurationMinutes int     `bson:"duration_minutes" json:"durationMinutes"`
	Price           float64 `bson:"price" json:"price"`
	Currency        string  `bson:"currency,omitempty" json:"currency,omitempty"`
}
