package providerRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"bookwise/database"
	"bookwise/models"
)

// ProviderRepository exposes the read-only provider directory used by
// the slot engine: the availability policy and the optional external
// calendar integration. Profile CRUD lives elsewhere.
type ProviderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	GetAvailabilityPolicy(ctx context.Context, providerID string) (*models.AvailabilityPolicy, error)

	// GetCalendarIntegration returns nil without error when the provider
	// has no active integration.
	GetCalendarIntegration(ctx context.Context, providerID string) (*models.CalendarIntegration, error)

	EnsureIndexes() error
}

type mongoProviderRepo struct {
	providerColl    *mongo.Collection
	integrationColl *mongo.Collection
}

// NewMongoProviderRepo constructs a MongoDB-backed ProviderRepository.
func NewMongoProviderRepo() ProviderRepository {
	db := database.DB()
	return &mongoProviderRepo{
		providerColl:    db.Collection("providers"),
		integrationColl: db.Collection("calendar_integrations"),
	}
}
