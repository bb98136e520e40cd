package interfaces

import (
	"context"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
)

// ScheduleRepositoryInterface defines schedule storage operations
type ScheduleRepositoryInterface interface {
	Create(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error)
	GetByID(ctx context.Context, tenantID, scheduleID string) (*models.Schedule, error)
	List(ctx context.Context, tenantID string) ([]*models.Schedule, error)
	ListByPrograms(ctx context.Context, tenantID string, programIDs []string) ([]*models.Schedule, error)
	ListByHost(ctx context.Context, tenantID, hostID string) ([]*models.Schedule, error)
	Update(ctx context.Context, tenantID, scheduleID string, updates map[string]interface{}) (*models.Schedule, error)
	Delete(ctx context.Context, tenantID, scheduleID string) error
}

// ExceptionRepositoryInterface defines per-date schedule override storage
type ExceptionRepositoryInterface interface {
	Upsert(ctx context.Context, exception *models.ScheduleException) (*models.ScheduleException, error)
	Get(ctx context.Context, tenantID, scheduleID, occurrenceDate string) (*models.ScheduleException, error)
	ListBySchedule(ctx context.Context, tenantID, scheduleID, startDate, endDate string) ([]*models.ScheduleException, error)
	ListForSchedules(ctx context.Context, tenantID string, scheduleIDs []string, startDate, endDate string) ([]*models.ScheduleException, error)
	Delete(ctx context.Context, tenantID, scheduleID, occurrenceDate string) error
}
