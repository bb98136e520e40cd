// internal/repositories/exception_repository.go
package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories/interfaces"
)

// ExceptionRepository implements the ExceptionRepositoryInterface
type ExceptionRepository struct {
	db *gorm.DB
}

// NewExceptionRepository creates a new schedule exception repository
func NewExceptionRepository(db *gorm.DB) interfaces.ExceptionRepositoryInterface {
	return &ExceptionRepository{db: db}
}

// Upsert writes the exception for its (schedule, date) key, replacing any
// previous one. Exceptions are keyed documents, not an append log.
func (r *ExceptionRepository) Upsert(ctx context.Context, exception *models.ScheduleException) (*models.ScheduleException, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "schedule_id"}, {Name: "occurrence_date"}},
			UpdateAll: true,
		}).
		Create(exception).Error
	if err != nil {
		return nil, err
	}
	return exception, nil
}

func (r *ExceptionRepository) Get(ctx context.Context, tenantID, scheduleID, occurrenceDate string) (*models.ScheduleException, error) {
	var exception models.ScheduleException
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND schedule_id = ? AND occurrence_date = ?", tenantID, scheduleID, occurrenceDate).
		First(&exception).Error
	if err != nil {
		return nil, err
	}
	return &exception, nil
}

func (r *ExceptionRepository) ListBySchedule(ctx context.Context, tenantID, scheduleID, startDate, endDate string) ([]*models.ScheduleException, error) {
	var exceptions []*models.ScheduleException
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND schedule_id = ?", tenantID, scheduleID)
	if startDate != "" {
		query = query.Where("occurrence_date >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("occurrence_date <= ?", endDate)
	}
	err := query.Order("occurrence_date ASC").Find(&exceptions).Error
	return exceptions, err
}

func (r *ExceptionRepository) ListForSchedules(ctx context.Context, tenantID string, scheduleIDs []string, startDate, endDate string) ([]*models.ScheduleException, error) {
	if len(scheduleIDs) == 0 {
		return nil, nil
	}
	var exceptions []*models.ScheduleException
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND schedule_id IN ?", tenantID, scheduleIDs)
	if startDate != "" {
		query = query.Where("occurrence_date >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("occurrence_date <= ?", endDate)
	}
	err := query.Order("occurrence_date ASC").Find(&exceptions).Error
	return exceptions, err
}

func (r *ExceptionRepository) Delete(ctx context.Context, tenantID, scheduleID, occurrenceDate string) error {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND schedule_id = ? AND occurrence_date = ?", tenantID, scheduleID, occurrenceDate).
		Delete(&models.ScheduleException{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
