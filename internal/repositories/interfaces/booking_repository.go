package interfaces

import (
	"context"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
)

// BookingRepositoryInterface defines booking storage. The write operations
// compose the booking row and the session counter inside one transaction.
type BookingRepositoryInterface interface {
	// CreateWithReservation atomically inserts the booking and increments the
	// session counter under the resolved capacity bound. date is the session's
	// local occurrence date, stamped onto the summary row at first creation.
	CreateWithReservation(ctx context.Context, booking *models.Booking, capacity *int, date string) (*models.Booking, error)
	// CancelWithRelease atomically marks the booking cancelled and decrements
	// the session counter.
	CancelWithRelease(ctx context.Context, booking *models.Booking) (*models.Booking, error)

	GetByBookingID(ctx context.Context, tenantID, bookingID string) (*models.Booking, error)
	ListBySession(ctx context.Context, tenantID, sessionID string) ([]*models.Booking, error)
	ListBySubject(ctx context.Context, tenantID, subjectID string, limit int, status string) ([]*models.Booking, error)
	FindActive(ctx context.Context, tenantID, sessionID, subjectID string) (*models.Booking, error)
}

// SummaryRepositoryInterface holds the per-session capacity ledger.
type SummaryRepositoryInterface interface {
	Get(ctx context.Context, tenantID, sessionID string) (*models.SessionSummary, error)
	GetBatch(ctx context.Context, tenantID string, sessionIDs []string) (map[string]*models.SessionSummary, error)
}
