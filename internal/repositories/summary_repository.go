// internal/repositories/summary_repository.go
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

// SummaryRepository holds the per-session capacity ledger. Reserve and
// Release are guarded counter mutations that run on a transaction handle
// owned by the booking write, so they commit or roll back together with the
// booking row.
type SummaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new session summary repository
func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

var _ interfaces.SummaryRepositoryInterface = (*SummaryRepository)(nil)

// Reserve increments the session's booked count inside tx. With a capacity
// bound the increment is guarded by booked_count < capacity and the stored
// capacity is refreshed to track schedule/override changes; the first booking
// against a session creates the summary row, stamping its date.
func (r *SummaryRepository) Reserve(tx *gorm.DB, tenantID, sessionID, date string, capacity *int) error {
	now := time.Now().UTC()

	updates := map[string]interface{}{
		"booked_count": gorm.Expr("booked_count + 1"),
		"updated_at":   now,
	}
	query := tx.Model(&models.SessionSummary{}).
		Where("tenant_id = ? AND session_id = ?", tenantID, sessionID)
	if capacity != nil {
		updates["capacity"] = *capacity
		query = query.Where("booked_count < ?", *capacity)
	}

	res := query.Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// Either no summary row exists yet, or the guard failed.
	var count int64
	if err := tx.Model(&models.SessionSummary{}).
		Where("tenant_id = ? AND session_id = ?", tenantID, sessionID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return dto.ErrAtCapacity
	}

	if capacity != nil && *capacity < 1 {
		return dto.ErrAtCapacity
	}
	summary := &models.SessionSummary{
		TenantID:    tenantID,
		SessionID:   sessionID,
		Date:        date,
		Capacity:    capacity,
		BookedCount: 1,
		UpdatedAt:   now,
	}
	if err := tx.Create(summary).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent first booking created the row between our check and
			// the insert; the caller's transaction rolls back with a store conflict.
			return dto.ErrStoreConflict
		}
		return err
	}
	return nil
}

// Release decrements the session's booked count inside tx, guarded against
// underflow. Booking invariants make underflow unreachable; hitting it means
// a logic error upstream.
func (r *SummaryRepository) Release(tx *gorm.DB, tenantID, sessionID string) error {
	res := tx.Model(&models.SessionSummary{}).
		Where("tenant_id = ? AND session_id = ? AND booked_count > 0", tenantID, sessionID).
		Updates(map[string]interface{}{
			"booked_count": gorm.Expr("booked_count - 1"),
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return dto.ErrCounterUnderflow
	}
	return nil
}

func (r *SummaryRepository) Get(ctx context.Context, tenantID, sessionID string) (*models.SessionSummary, error) {
	var summary models.SessionSummary
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ?", tenantID, sessionID).
		First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// summaryBatchSize bounds each IN clause of a batch fetch.
const summaryBatchSize = 100

// GetBatch fetches summaries for the given session ids in chunks, returning
// them keyed by session id. Missing sessions simply have no entry.
func (r *SummaryRepository) GetBatch(ctx context.Context, tenantID string, sessionIDs []string) (map[string]*models.SessionSummary, error) {
	out := make(map[string]*models.SessionSummary, len(sessionIDs))
	for start := 0; start < len(sessionIDs); start += summaryBatchSize {
		end := start + summaryBatchSize
		if end > len(sessionIDs) {
			end = len(sessionIDs)
		}
		var chunk []*models.SessionSummary
		err := r.db.WithContext(ctx).
			Where("tenant_id = ? AND session_id IN ?", tenantID, sessionIDs[start:end]).
			Find(&chunk).Error
		if err != nil {
			return nil, err
		}
		for _, summary := range chunk {
			out[summary.SessionID] = summary
		}
	}
	return out, nil
}
