// internal/events/envelope.go
package events

import (
	"encoding/json"
)

// Inbound and outbound detail types. Subjects on the bus equal the
// detail-type string.
const (
	BookingRequestedEvent      = "scheduling.booking_requested"
	BookingConfirmedEvent      = "scheduling.booking_confirmed"
	BookingFailedEvent         = "scheduling.booking_failed"
	ConsultationRequestedEvent = "appointment.consultation_requested"
	AppointmentScheduledEvent  = "appointment.scheduled"
	AppointmentFailedEvent     = "appointment.failed"
)

// Envelope is the bus-level message shape.
type Envelope struct {
	Source     string          `json:"source"`
	DetailType string          `json:"detail-type"`
	Detail     json.RawMessage `json:"detail"`
}

// SchedulingData carries the session reference inside inbound requests.
type SchedulingData struct {
	SessionID string `json:"sessionId"`
}

// BookingRequestedDetail is the scheduling.booking_requested payload.
type BookingRequestedDetail struct {
	TenantID       string         `json:"tenantId"`
	ChannelID      string         `json:"channelId"`
	SubjectID      string         `json:"subjectId"`
	GoalID         string         `json:"goalId,omitempty"`
	BookingType    string         `json:"bookingType,omitempty"`
	SchedulingData SchedulingData `json:"schedulingData"`
	ContactInfo    map[string]any `json:"contactInfo,omitempty"`
}

// ConsultationRequestedDetail is the appointment.consultation_requested
// payload. The lead becomes the booking subject.
type ConsultationRequestedDetail struct {
	TenantID        string         `json:"tenantId"`
	ChannelID       string         `json:"channelId"`
	LeadID          string         `json:"leadId"`
	GoalID          string         `json:"goalId"`
	AppointmentType string         `json:"appointmentType"`
	SchedulingData  SchedulingData `json:"schedulingData"`
	ContactInfo     map[string]any `json:"contactInfo,omitempty"`
}

// SessionDetails is embedded in success events with times formatted in the
// session's zone.
type SessionDetails struct {
	SessionID string `json:"sessionId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Timezone  string `json:"timezone"`
}

// BookingResultDetail is the payload of every outbound result event.
type BookingResultDetail struct {
	TenantID       string          `json:"tenantId"`
	ChannelID      string          `json:"channelId,omitempty"`
	SubjectID      string          `json:"subjectId,omitempty"`
	BookingID      string          `json:"bookingId,omitempty"`
	SessionDetails *SessionDetails `json:"sessionDetails,omitempty"`
	Error          string          `json:"error,omitempty"`
}
