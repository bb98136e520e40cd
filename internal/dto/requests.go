// internal/dto/requests.go
package dto

import (
	"fmt"
	"strings"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
)

// CreateProgramRequest creates or replaces a program.
type CreateProgramRequest struct {
	ProgramID   string         `json:"programId"`
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
	Extra       map[string]any `json:"extra"`
}

// UpdateProgramRequest patches a program; nil fields are left untouched.
type UpdateProgramRequest struct {
	ProgramID   string         `json:"programId" binding:"required"`
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Tags        []string       `json:"tags"`
	Extra       map[string]any `json:"extra"`
}

type CreateLocationRequest struct {
	LocationID     string         `json:"locationId"`
	Name           string         `json:"name" binding:"required"`
	Address        string         `json:"address"`
	Lat            *float64       `json:"lat"`
	Lng            *float64       `json:"lng"`
	CheckInRadiusM *float64       `json:"checkInRadiusMeters"`
	Extra          map[string]any `json:"extra"`
}

func (r *CreateLocationRequest) Validate() error {
	if (r.Lat == nil) != (r.Lng == nil) {
		return fmt.Errorf("%w: lat and lng must be provided together", ErrBadCoordinates)
	}
	if r.CheckInRadiusM != nil && *r.CheckInRadiusM <= 0 {
		return fmt.Errorf("%w: checkInRadiusMeters must be positive", ErrBadInput)
	}
	return nil
}

type UpdateLocationRequest struct {
	LocationID     string         `json:"locationId" binding:"required"`
	Name           *string        `json:"name"`
	Address        *string        `json:"address"`
	Lat            *float64       `json:"lat"`
	Lng            *float64       `json:"lng"`
	CheckInRadiusM *float64       `json:"checkInRadiusMeters"`
	Extra          map[string]any `json:"extra"`
}

type CreateScheduleRequest struct {
	ScheduleID   string           `json:"scheduleId"`
	Type         string           `json:"type"`
	ProgramID    string           `json:"programId"`
	Name         string           `json:"name"`
	Start        string           `json:"start" binding:"required"`
	End          string           `json:"end" binding:"required"`
	Timezone     string           `json:"timezone" binding:"required"`
	IsRecurring  bool             `json:"isRecurring"`
	RRule        string           `json:"rrule"`
	BaseCapacity *int             `json:"baseCapacity"`
	Hosts        []models.HostRef `json:"hosts"`
	LocationID   string           `json:"locationId"`
	Tags         []string         `json:"tags"`
	Extra        map[string]any   `json:"extra"`
}

func (r *CreateScheduleRequest) Validate() error {
	switch models.ScheduleType(strings.ToUpper(r.Type)) {
	case models.ScheduleTypeSession, "":
		if r.ProgramID == "" {
			return fmt.Errorf("%w: SESSION schedules require programId", ErrBadInput)
		}
	case models.ScheduleTypeBlock:
	default:
		return fmt.Errorf("%w: type must be SESSION or BLOCK", ErrBadInput)
	}
	if r.IsRecurring && r.RRule == "" {
		return fmt.Errorf("%w: recurring schedules require rrule", ErrBadInput)
	}
	if r.BaseCapacity != nil && *r.BaseCapacity < 0 {
		return fmt.Errorf("%w: baseCapacity must be non-negative", ErrBadInput)
	}
	return nil
}

type UpdateScheduleRequest struct {
	ScheduleID   string           `json:"scheduleId" binding:"required"`
	Name         *string          `json:"name"`
	Start        *string          `json:"start"`
	End          *string          `json:"end"`
	Timezone     *string          `json:"timezone"`
	IsRecurring  *bool            `json:"isRecurring"`
	RRule        *string          `json:"rrule"`
	BaseCapacity *int             `json:"baseCapacity"`
	Hosts        []models.HostRef `json:"hosts"`
	LocationID   *string          `json:"locationId"`
	Tags         []string         `json:"tags"`
	Extra        map[string]any   `json:"extra"`
}

type CreateExceptionRequest struct {
	ScheduleID         string           `json:"scheduleId" binding:"required"`
	OccurrenceDate     string           `json:"occurrenceDate" binding:"required"`
	Type               string           `json:"type" binding:"required"`
	OverrideStart      string           `json:"overrideStart"`
	OverrideEnd        string           `json:"overrideEnd"`
	OverrideCapacity   *int             `json:"overrideCapacity"`
	OverrideHosts      []models.HostRef `json:"overrideHosts"`
	OverrideLocationID string           `json:"overrideLocationId"`
	Extra              map[string]any   `json:"extra"`
}

func (r *CreateExceptionRequest) Validate() error {
	switch models.ExceptionType(strings.ToUpper(r.Type)) {
	case models.ExceptionCancelled, models.ExceptionOverride:
	default:
		return fmt.Errorf("%w: type must be CANCELLED or OVERRIDE", ErrBadInput)
	}
	if r.OverrideCapacity != nil && *r.OverrideCapacity < 0 {
		return fmt.Errorf("%w: overrideCapacity must be non-negative", ErrBadInput)
	}
	return nil
}

// CreateBookingRequest books a subject onto a virtual session.
type CreateBookingRequest struct {
	SessionID   string         `json:"sessionId" binding:"required"`
	SubjectID   string         `json:"subjectId"`
	SubjectType string         `json:"subjectType"`
	Source      string         `json:"source"`
	Notes       string         `json:"notes"`
	GoalID      string         `json:"goalId"`
	BookingType string         `json:"bookingType"`
	ProgramID   string         `json:"programId"`
	ProgramName string         `json:"programName"`
	LeadBy      string         `json:"leadBy"`
	ContactInfo map[string]any `json:"contactInfo"`
	Extra       map[string]any `json:"extra"`
}

// CreateCheckInRequest records attendance for a booking, optionally with GPS
// coordinates.
type CreateCheckInRequest struct {
	BookingID string   `json:"bookingId" binding:"required"`
	SubjectID string   `json:"subjectId"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
}

func (r *CreateCheckInRequest) Validate() error {
	if (r.Lat == nil) != (r.Lng == nil) {
		return fmt.Errorf("%w: lat and lng must be provided together", ErrBadCoordinates)
	}
	return nil
}

// OverrideAttendanceRequest is the administrative attendance update.
type OverrideAttendanceRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	BookingID string `json:"bookingId" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

func (r *OverrideAttendanceRequest) Validate() error {
	switch models.AttendanceStatus(strings.ToUpper(r.Status)) {
	case models.AttendancePresent, models.AttendanceLate, models.AttendanceNoShow:
		return nil
	default:
		return fmt.Errorf("%w: status must be PRESENT, LATE or NO_SHOW", ErrBadInput)
	}
}

// SessionQuery carries the /sessions filters (§ session reader).
type SessionQuery struct {
	SessionID  string `form:"sessionId"`
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
	ProgramID  string `form:"programId"`
	Type       string `form:"type"`
	HostID     string `form:"hostId"`
	LocationID string `form:"locationId"`
	StartTime  string `form:"startTime"`
	EndTime    string `form:"endTime"`
}

// ProgramIDs splits the comma-separated programId filter.
func (q *SessionQuery) ProgramIDs() []string {
	if q.ProgramID == "" {
		return nil
	}
	parts := strings.Split(q.ProgramID, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
