// internal/models/schedule.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ScheduleType string

const (
	ScheduleTypeSession ScheduleType = "SESSION"
	ScheduleTypeBlock   ScheduleType = "BLOCK"
)

// HostRef points at a provider or resource assigned to a schedule. The first
// entry in a schedule's host list is the primary host.
type HostRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Role string `json:"role,omitempty"`
}

// Schedule is a recurring or one-off time pattern. Start and End hold local
// wall-clock datetimes (YYYY-MM-DDTHH:MM:SS) interpreted in Timezone; their
// absolute values are derived per use, never stored.
type Schedule struct {
	TenantID      string                       `json:"tenantId" gorm:"primaryKey;size:64"`
	ScheduleID    string                       `json:"scheduleId" gorm:"primaryKey;size:64"`
	Type          ScheduleType                 `json:"type" gorm:"type:varchar(16);not null;default:'SESSION'"`
	ProgramID     string                       `json:"programId,omitempty" gorm:"size:64;index:idx_schedules_program"`
	Name          string                       `json:"name" gorm:"size:200"`
	Start         string                       `json:"start" gorm:"not null;size:32"`
	End           string                       `json:"end" gorm:"not null;size:32"`
	Timezone      string                       `json:"timezone" gorm:"not null;size:64;default:'UTC'"`
	IsRecurring   bool                         `json:"isRecurring" gorm:"default:false"`
	RRule         string                       `json:"rrule,omitempty" gorm:"column:rrule;type:text"`
	BaseCapacity  *int                         `json:"baseCapacity,omitempty"`
	Hosts         datatypes.JSONSlice[HostRef] `json:"hosts"`
	PrimaryHostID string                       `json:"-" gorm:"size:64;index:idx_schedules_host"`
	LocationID    string                       `json:"locationId,omitempty" gorm:"size:64"`
	Tags          datatypes.JSONSlice[string]  `json:"tags"`
	Extra         datatypes.JSONMap            `json:"extra,omitempty"`
	CreatedAt     time.Time                    `json:"createdAt"`
	UpdatedAt     time.Time                    `json:"updatedAt"`
}

func (Schedule) TableName() string {
	return "schedules"
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	if s.ScheduleID == "" {
		s.ScheduleID = uuid.New().String()
	}
	return nil
}

// BeforeSave keeps the host-indexed lookup column in sync with hosts[0].
func (s *Schedule) BeforeSave(tx *gorm.DB) error {
	if len(s.Hosts) > 0 {
		s.PrimaryHostID = s.Hosts[0].ID
	} else {
		s.PrimaryHostID = ""
	}
	return nil
}
