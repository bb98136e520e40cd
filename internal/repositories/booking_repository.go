// internal/repositories/booking_repository.go
package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories/interfaces"
)

// BookingRepository implements the BookingRepositoryInterface. The mutating
// operations pair the booking row with the capacity ledger inside a single
// database transaction: either both writes commit or neither does.
type BookingRepository struct {
	db        *gorm.DB
	summaries *SummaryRepository
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB, summaries *SummaryRepository) interfaces.BookingRepositoryInterface {
	return &BookingRepository{db: db, summaries: summaries}
}

func (r *BookingRepository) CreateWithReservation(ctx context.Context, booking *models.Booking, capacity *int, date string) (*models.Booking, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(booking).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return dto.ErrStoreConflict
			}
			return err
		}
		return r.summaries.Reserve(tx, booking.TenantID, booking.SessionID, date, capacity)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) CancelWithRelease(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guard on status so a racing double-cancel cannot release twice.
		res := tx.Model(&models.Booking{}).
			Where("tenant_id = ? AND session_id = ? AND booking_id = ? AND status <> ?",
				booking.TenantID, booking.SessionID, booking.BookingID, models.BookingStatusCancelled).
			Updates(map[string]interface{}{
				"status":       models.BookingStatusCancelled,
				"cancelled_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return dto.ErrAlreadyCancelled
		}
		return r.summaries.Release(tx, booking.TenantID, booking.SessionID)
	})
	if err != nil {
		return nil, err
	}
	booking.Status = models.BookingStatusCancelled
	booking.CancelledAt = &now
	return booking, nil
}

// GetByBookingID resolves a booking through the (tenant, booking) index
// rather than scanning the tenant's bookings.
func (r *BookingRepository) GetByBookingID(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND booking_id = ?", tenantID, bookingID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) ListBySession(ctx context.Context, tenantID, sessionID string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ?", tenantID, sessionID).
		Order("created_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) ListBySubject(ctx context.Context, tenantID, subjectID string, limit int, status string) ([]*models.Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND subject_id = ?", tenantID, subjectID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var bookings []*models.Booking
	err := query.Order("created_at DESC").Limit(limit).Find(&bookings).Error
	return bookings, err
}

// FindActive returns the subject's non-cancelled booking on a session, or nil.
func (r *BookingRepository) FindActive(ctx context.Context, tenantID, sessionID, subjectID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ? AND subject_id = ? AND status <> ?",
			tenantID, sessionID, subjectID, models.BookingStatusCancelled).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}
