package serviceRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"bookwise/database"
	"bookwise/models"
)

// ServiceRepository is the read-only service directory consumed by the
// slot engine; service CRUD belongs to provider configuration.
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*models.Service, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Service, error)
	EnsureIndexes() error
}

type mongoServiceRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRepo constructs a MongoDB-backed ServiceRepository.
func NewMongoServiceRepo() ServiceRepository {
	return &mongoServiceRepo{
		coll: database.DB().Collection("services"),
	}
}
