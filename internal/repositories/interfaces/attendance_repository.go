package interfaces

import (
	"context"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
)

// AttendanceRepositoryInterface defines attendance record storage
type AttendanceRepositoryInterface interface {
	Create(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	Get(ctx context.Context, tenantID, sessionID, bookingID string) (*models.AttendanceRecord, error)
	Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	ListBySession(ctx context.Context, tenantID, sessionID string) ([]*models.AttendanceRecord, error)
	ListBySubject(ctx context.Context, tenantID, subjectID string) ([]*models.AttendanceRecord, error)
}
