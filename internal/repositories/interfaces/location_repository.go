package interfaces

import (
	"context"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
)

// LocationRepositoryInterface defines location storage operations
type LocationRepositoryInterface interface {
	Create(ctx context.Context, location *models.Location) (*models.Location, error)
	GetByID(ctx context.Context, tenantID, locationID string) (*models.Location, error)
	List(ctx context.Context, tenantID string) ([]*models.Location, error)
	Update(ctx context.Context, tenantID, locationID string, updates map[string]interface{}) (*models.Location, error)
	Delete(ctx context.Context, tenantID, locationID string) error
}
