// internal/models/location.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Location is a physical place sessions happen at. Coordinates are optional;
// check-in distance validation only applies when they are present.
type Location struct {
	TenantID          string            `json:"tenantId" gorm:"primaryKey;size:64"`
	LocationID        string            `json:"locationId" gorm:"primaryKey;size:64"`
	Name              string            `json:"name" gorm:"not null;size:200"`
	Address           string            `json:"address" gorm:"size:500"`
	Lat               *float64          `json:"lat"`
	Lng               *float64          `json:"lng"`
	CheckInRadiusM    float64           `json:"checkInRadiusMeters" gorm:"default:100"`
	Extra             datatypes.JSONMap `json:"extra,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

func (Location) TableName() string {
	return "locations"
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.LocationID == "" {
		l.LocationID = uuid.New().String()
	}
	return nil
}

// HasCoordinates reports whether the location can anchor a GPS check.
func (l *Location) HasCoordinates() bool {
	return l.Lat != nil && l.Lng != nil
}
