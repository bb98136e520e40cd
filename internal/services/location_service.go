// internal/services/location_service.go
package services

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/geo"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories/interfaces"
)

// LocationService handles location operations
type LocationService struct {
	locationRepo interfaces.LocationRepositoryInterface
}

// NewLocationService creates a new location service
func NewLocationService(locationRepo interfaces.LocationRepositoryInterface) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

func (s *LocationService) Create(ctx context.Context, tenantID string, req *dto.CreateLocationRequest) (*models.Location, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Lat != nil {
		if err := (geo.Coordinate{Lat: *req.Lat, Lng: *req.Lng}).Validate(); err != nil {
			return nil, dto.ErrBadCoordinates
		}
	}

	location := &models.Location{
		TenantID:   tenantID,
		LocationID: req.LocationID,
		Name:       req.Name,
		Address:    req.Address,
		Lat:        req.Lat,
		Lng:        req.Lng,
		Extra:      req.Extra,
	}
	if req.CheckInRadiusM != nil {
		location.CheckInRadiusM = *req.CheckInRadiusM
	}

	created, err := s.locationRepo.Create(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return created, nil
}

func (s *LocationService) Get(ctx context.Context, tenantID, locationID string) (*models.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, tenantID, locationID)
	if err != nil {
		return nil, orNotFound(err)
	}
	return location, nil
}

func (s *LocationService) List(ctx context.Context, tenantID string) ([]*models.Location, error) {
	locations, err := s.locationRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

func (s *LocationService) Update(ctx context.Context, tenantID string, req *dto.UpdateLocationRequest) (*models.Location, error) {
	if (req.Lat == nil) != (req.Lng == nil) {
		return nil, dto.ErrBadCoordinates
	}
	if req.Lat != nil {
		if err := (geo.Coordinate{Lat: *req.Lat, Lng: *req.Lng}).Validate(); err != nil {
			return nil, dto.ErrBadCoordinates
		}
	}
	if req.CheckInRadiusM != nil && *req.CheckInRadiusM <= 0 {
		return nil, fmt.Errorf("%w: checkInRadiusMeters must be positive", dto.ErrBadInput)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Lat != nil {
		updates["lat"] = *req.Lat
		updates["lng"] = *req.Lng
	}
	if req.CheckInRadiusM != nil {
		updates["check_in_radius_m"] = *req.CheckInRadiusM
	}
	if req.Extra != nil {
		updates["extra"] = datatypes.JSONMap(req.Extra)
	}
	if len(updates) == 0 {
		return s.Get(ctx, tenantID, req.LocationID)
	}

	location, err := s.locationRepo.Update(ctx, tenantID, req.LocationID, updates)
	if err != nil {
		return nil, orNotFound(err)
	}
	return location, nil
}

func (s *LocationService) Delete(ctx context.Context, tenantID, locationID string) error {
	if err := s.locationRepo.Delete(ctx, tenantID, locationID); err != nil {
		return orNotFound(err)
	}
	return nil
}
