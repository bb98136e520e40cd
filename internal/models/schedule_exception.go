// internal/models/schedule_exception.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

type ExceptionType string

const (
	ExceptionCancelled ExceptionType = "CANCELLED"
	ExceptionOverride  ExceptionType = "OVERRIDE"
)

// ScheduleException is a per-date override of a schedule, keyed by the local
// occurrence date (YYYY-MM-DD in the schedule's timezone). Absent override
// fields fall through to the schedule.
type ScheduleException struct {
	TenantID           string                       `json:"tenantId" gorm:"primaryKey;size:64"`
	ScheduleID         string                       `json:"scheduleId" gorm:"primaryKey;size:64"`
	OccurrenceDate     string                       `json:"occurrenceDate" gorm:"primaryKey;size:10"`
	Type               ExceptionType                `json:"type" gorm:"type:varchar(16);not null"`
	OverrideStart      string                       `json:"overrideStart,omitempty" gorm:"size:32"`
	OverrideEnd        string                       `json:"overrideEnd,omitempty" gorm:"size:32"`
	OverrideCapacity   *int                         `json:"overrideCapacity,omitempty"`
	OverrideHosts      datatypes.JSONSlice[HostRef] `json:"overrideHosts,omitempty"`
	OverrideLocationID string                       `json:"overrideLocationId,omitempty" gorm:"size:64"`
	Extra              datatypes.JSONMap            `json:"extra,omitempty"`
	CreatedAt          time.Time                    `json:"createdAt"`
	UpdatedAt          time.Time                    `json:"updatedAt"`
}

func (ScheduleException) TableName() string {
	return "schedule_exceptions"
}
