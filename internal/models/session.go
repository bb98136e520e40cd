// internal/models/session.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// SessionIDSeparator joins a schedule id and a local occurrence date into a
// session id ("{scheduleId}#{YYYY-MM-DD}").
const SessionIDSeparator = "#"

// Session is a virtual occurrence of a schedule on a specific local date. It
// is synthesized on demand and never stored.
type Session struct {
	SessionID     string    `json:"sessionId"`
	TenantID      string    `json:"tenantId"`
	ScheduleID    string    `json:"scheduleId"`
	Date          string    `json:"date"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Timezone      string    `json:"timezone"`
	Type          ScheduleType `json:"type"`
	ProgramID     string    `json:"programId,omitempty"`
	Name          string    `json:"name,omitempty"`
	Hosts         []HostRef `json:"hosts"`
	LocationID    string    `json:"locationId,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Capacity      *int      `json:"capacity,omitempty"`
	BookedCount   int       `json:"bookedCount"`
	WaitlistCount int       `json:"waitlistCount"`
}

// MakeSessionID builds a session id from its parts.
func MakeSessionID(scheduleID, date string) string {
	return scheduleID + SessionIDSeparator + date
}

// SplitSessionID splits a session id back into schedule id and local date.
func SplitSessionID(sessionID string) (scheduleID, date string, err error) {
	idx := strings.LastIndex(sessionID, SessionIDSeparator)
	if idx <= 0 || idx == len(sessionID)-1 {
		return "", "", fmt.Errorf("malformed session id %q", sessionID)
	}
	return sessionID[:idx], sessionID[idx+1:], nil
}

// SessionSummary is the persistent shadow of a session's mutable counters. A
// row exists only once a booking has been made against the session.
type SessionSummary struct {
	TenantID      string    `json:"tenantId" gorm:"primaryKey;size:64"`
	SessionID     string    `json:"sessionId" gorm:"primaryKey;size:128"`
	Date          string    `json:"date" gorm:"size:10;index:idx_summaries_date"`
	Capacity      *int      `json:"capacity,omitempty"`
	BookedCount   int       `json:"bookedCount" gorm:"not null;default:0"`
	WaitlistCount int       `json:"waitlistCount" gorm:"not null;default:0"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (SessionSummary) TableName() string {
	return "session_summaries"
}
