package providerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookwise/models"
)

func (repo *mongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	var provider models.Provider
	err := repo.providerColl.FindOne(ctx, bson.M{"id": id}).Decode(&provider)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch provider %s: %w", id, err)
	}
	return &provider, nil
}

func (repo *mongoProviderRepo) GetAvailabilityPolicy(ctx context.Context, providerID string) (*models.AvailabilityPolicy, error) {
	provider, err := repo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return &provider.Policy, nil
}

func (repo *mongoProviderRepo) GetCalendarIntegration(ctx context.Context, providerID string) (*models.CalendarIntegration, error) {
	var integration models.CalendarIntegration
	err := repo.integrationColl.FindOne(ctx, bson.M{
		"provider_id": providerID,
		"active":      true,
	}).Decode(&integration)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch calendar integration for provider %s: %w", providerID, err)
	}
	return &integration, nil
}

// EnsureIndexes creates the necessary indexes on the provider collections.
func (repo *mongoProviderRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.providerColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create provider indexes: %w", err)
	}

	_, err = repo.integrationColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "active", Value: 1}},
		Options: options.Index().SetName("provider_active_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create calendar integration indexes: %w", err)
	}
	return nil
}
