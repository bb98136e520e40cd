// internal/models/attendance.go
package models

import (
	"time"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceNoShow  AttendanceStatus = "NO_SHOW"
)

type CheckInMethod string

const (
	CheckInGPS      CheckInMethod = "GPS"
	CheckInManual   CheckInMethod = "MANUAL"
	CheckInOverride CheckInMethod = "OVERRIDE"
)

// AttendanceRecord records attendance for one booking on one session. It is
// only ever written against an existing booking.
type AttendanceRecord struct {
	TenantID      string           `json:"tenantId" gorm:"primaryKey;size:64;index:idx_attendance_subject,priority:1"`
	SessionID     string           `json:"sessionId" gorm:"primaryKey;size:128"`
	BookingID     string           `json:"bookingId" gorm:"primaryKey;size:64"`
	SubjectID     string           `json:"subjectId" gorm:"not null;size:64;index:idx_attendance_subject,priority:2"`
	Status        AttendanceStatus `json:"status" gorm:"type:varchar(16);not null"`
	CheckInTime   *time.Time       `json:"checkInTime,omitempty"`
	CheckInMethod CheckInMethod    `json:"checkInMethod" gorm:"type:varchar(16)"`
	CheckInLat    *float64         `json:"checkInLat,omitempty"`
	CheckInLng    *float64         `json:"checkInLng,omitempty"`
	DistanceM     *float64         `json:"distanceMeters,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// CheckedIn reports whether the record already carries a completed check-in.
func (a *AttendanceRecord) CheckedIn() bool {
	return a.CheckInTime != nil && a.Status != AttendanceNoShow
}
