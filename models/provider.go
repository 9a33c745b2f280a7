package models

import "time"

// Provider is the subset of the provider profile this service reads:
// identity plus the availability policy the slot engine consumes. The
// full profile (verification, payout, media) lives with the profile
// service and is out of scope here.
type Provider struct {
	ID        string             `bson:"id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Policy    AvailabilityPolicy `bson:"policy" json:"policy"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
