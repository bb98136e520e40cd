// internal/repositories/schedule_repository.go
package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories/interfaces"
)

// ScheduleRepository implements the ScheduleRepositoryInterface
type ScheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *gorm.DB) interfaces.ScheduleRepositoryInterface {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error) {
	if err := r.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return nil, err
	}
	return schedule, nil
}

func (r *ScheduleRepository) GetByID(ctx context.Context, tenantID, scheduleID string) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND schedule_id = ?", tenantID, scheduleID).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *ScheduleRepository) List(ctx context.Context, tenantID string) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("schedule_id ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *ScheduleRepository) ListByPrograms(ctx context.Context, tenantID string, programIDs []string) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND program_id IN ?", tenantID, programIDs).
		Order("schedule_id ASC").
		Find(&schedules).Error
	return schedules, err
}

// ListByHost looks schedules up through the primary-host index column.
func (r *ScheduleRepository) ListByHost(ctx context.Context, tenantID, hostID string) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND primary_host_id = ?", tenantID, hostID).
		Order("schedule_id ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *ScheduleRepository) Update(ctx context.Context, tenantID, scheduleID string, updates map[string]interface{}) (*models.Schedule, error) {
	res := r.db.WithContext(ctx).Model(&models.Schedule{}).
		Where("tenant_id = ? AND schedule_id = ?", tenantID, scheduleID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, tenantID, scheduleID)
}

func (r *ScheduleRepository) Delete(ctx context.Context, tenantID, scheduleID string) error {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND schedule_id = ?", tenantID, scheduleID).
		Delete(&models.Schedule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
