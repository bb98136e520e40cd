// internal/repositories/location_repository.go
package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories/interfaces"
)

// LocationRepository implements the LocationRepositoryInterface
type LocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *gorm.DB) interfaces.LocationRepositoryInterface {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Create(ctx context.Context, location *models.Location) (*models.Location, error) {
	if location.CheckInRadiusM == 0 {
		location.CheckInRadiusM = 100
	}
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

func (r *LocationRepository) GetByID(ctx context.Context, tenantID, locationID string) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND location_id = ?", tenantID, locationID).
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *LocationRepository) List(ctx context.Context, tenantID string) ([]*models.Location, error) {
	var locations []*models.Location
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&locations).Error
	return locations, err
}

func (r *LocationRepository) Update(ctx context.Context, tenantID, locationID string, updates map[string]interface{}) (*models.Location, error) {
	res := r.db.WithContext(ctx).Model(&models.Location{}).
		Where("tenant_id = ? AND location_id = ?", tenantID, locationID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, tenantID, locationID)
}

func (r *LocationRepository) Delete(ctx context.Context, tenantID, locationID string) error {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND location_id = ?", tenantID, locationID).
		Delete(&models.Location{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
