// internal/models/booking.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusWaitlist  BookingStatus = "WAITLIST"
)

// Booking holds one subject's reservation on a virtual session. The
// (tenant_id, booking_id) index serves direct lookup without a tenant-wide
// scan; (tenant_id, subject_id, created_at) serves the subject history view.
type Booking struct {
	TenantID    string            `json:"tenantId" gorm:"primaryKey;size:64;uniqueIndex:idx_bookings_tenant_booking;index:idx_bookings_subject,priority:1"`
	SessionID   string            `json:"sessionId" gorm:"primaryKey;size:128"`
	BookingID   string            `json:"bookingId" gorm:"primaryKey;size:64;uniqueIndex:idx_bookings_tenant_booking"`
	SubjectID   string            `json:"subjectId" gorm:"not null;size:64;index:idx_bookings_subject,priority:2"`
	SubjectType string            `json:"subjectType" gorm:"size:32;default:'MEMBER'"`
	Status      BookingStatus     `json:"status" gorm:"type:varchar(16);not null;default:'CONFIRMED'"`
	Source      string            `json:"source,omitempty" gorm:"size:64"`
	Notes       string            `json:"notes,omitempty" gorm:"type:text"`
	GoalID      string            `json:"goalId,omitempty" gorm:"size:64"`
	BookingType string            `json:"bookingType,omitempty" gorm:"size:64"`
	ProgramID   string            `json:"programId,omitempty" gorm:"size:64"`
	ProgramName string            `json:"programName,omitempty" gorm:"size:200"`
	LeadBy      string            `json:"leadBy,omitempty" gorm:"size:64"`
	ContactInfo datatypes.JSONMap `json:"contactInfo,omitempty"`
	Extra       datatypes.JSONMap `json:"extra,omitempty"`
	CreatedAt   time.Time         `json:"createdAt" gorm:"index:idx_bookings_subject,priority:3"`
	CancelledAt *time.Time        `json:"cancelledAt,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.BookingID == "" {
		b.BookingID = uuid.New().String()
	}
	return nil
}

// IsActive reports whether the booking still holds a seat.
func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}
