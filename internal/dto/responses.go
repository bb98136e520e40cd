// internal/dto/responses.go
package dto

import (
	"time"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
)

// SessionListResponse wraps the session reader's output.
type SessionListResponse struct {
	Sessions []models.Session `json:"sessions"`
	Count    int              `json:"count"`
}

// BookingListResponse wraps booking queries.
type BookingListResponse struct {
	Bookings []models.Booking `json:"bookings"`
	Count    int              `json:"count"`
}

// AttendanceListResponse wraps attendance queries.
type AttendanceListResponse struct {
	Records []models.AttendanceRecord `json:"records"`
	Count   int                       `json:"count"`
}

// CheckInResponse returns the stored record plus the measured distance when a
// GPS check ran.
type CheckInResponse struct {
	Record         models.AttendanceRecord `json:"record"`
	DistanceMeters *float64                `json:"distanceMeters,omitempty"`
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}
