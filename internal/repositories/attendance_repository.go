// internal/repositories/attendance_repository.go
package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories/interfaces"
)

// AttendanceRepository implements the AttendanceRepositoryInterface
type AttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *gorm.DB) interfaces.AttendanceRepositoryInterface {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *AttendanceRepository) Get(ctx context.Context, tenantID, sessionID, bookingID string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ? AND booking_id = ?", tenantID, sessionID, bookingID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert writes the record for its (session, booking) key, replacing any
// existing one. Used by the administrative override path.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "session_id"}, {Name: "booking_id"}},
			UpdateAll: true,
		}).
		Create(record).Error
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *AttendanceRepository) ListBySession(ctx context.Context, tenantID, sessionID string) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ?", tenantID, sessionID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) ListBySubject(ctx context.Context, tenantID, subjectID string) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND subject_id = ?", tenantID, subjectID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
