// internal/events/worker.go
package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/clock"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/services"
)

// workerQueue load-balances subscriptions across worker processes.
const workerQueue = "kx-scheduler-workers"

// Worker is the asynchronous booking ingress. It consumes request events,
// drives the booking engine, and emits exactly one result event per request.
// Errors never reach the transport: every failure becomes a _failed event.
type Worker struct {
	bookings *services.BookingService
	sessions *services.SessionService
	pub      EventPublisher
	logger   *slog.Logger
}

// NewWorker creates a new event worker
func NewWorker(
	bookings *services.BookingService,
	sessions *services.SessionService,
	pub EventPublisher,
	logger *slog.Logger,
) *Worker {
	return &Worker{
		bookings: bookings,
		sessions: sessions,
		pub:      pub,
		logger:   logger,
	}
}

// Subscribe attaches the worker to its inbound subjects on conn.
func (w *Worker) Subscribe(ctx context.Context, conn *nats.Conn) error {
	if _, err := conn.QueueSubscribe(BookingRequestedEvent, workerQueue, func(m *nats.Msg) {
		w.dispatch(ctx, BookingRequestedEvent, m.Data)
	}); err != nil {
		return err
	}
	if _, err := conn.QueueSubscribe(ConsultationRequestedEvent, workerQueue, func(m *nats.Msg) {
		w.dispatch(ctx, ConsultationRequestedEvent, m.Data)
	}); err != nil {
		return err
	}
	w.logger.Info("Event worker subscribed",
		"subjects", []string{BookingRequestedEvent, ConsultationRequestedEvent},
		"queue", workerQueue,
	)
	return nil
}

func (w *Worker) dispatch(ctx context.Context, detailType string, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Panic in event handler", "detailType", detailType, "panic", r)
		}
	}()

	var envelope Envelope
	detail := data
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Detail) > 0 {
		detail = envelope.Detail
	}

	switch detailType {
	case BookingRequestedEvent:
		w.HandleBookingRequested(ctx, detail)
	case ConsultationRequestedEvent:
		w.HandleConsultationRequested(ctx, detail)
	}
}

// HandleBookingRequested processes one scheduling.booking_requested payload.
func (w *Worker) HandleBookingRequested(ctx context.Context, detail []byte) {
	var req BookingRequestedDetail
	if err := json.Unmarshal(detail, &req); err != nil {
		w.emitFailure(BookingFailedEvent, BookingResultDetail{Error: "malformed booking_requested detail"})
		return
	}

	result := BookingResultDetail{
		TenantID:  req.TenantID,
		ChannelID: req.ChannelID,
		SubjectID: req.SubjectID,
	}
	if req.TenantID == "" || req.SubjectID == "" || req.SchedulingData.SessionID == "" {
		result.Error = "tenantId, subjectId and schedulingData.sessionId are required"
		w.emitFailure(BookingFailedEvent, result)
		return
	}

	w.book(ctx, bookingAttempt{
		tenantID: req.TenantID,
		request: &dto.CreateBookingRequest{
			SessionID:   req.SchedulingData.SessionID,
			SubjectID:   req.SubjectID,
			SubjectType: "MEMBER",
			Source:      "event",
			GoalID:      req.GoalID,
			BookingType: req.BookingType,
			ContactInfo: req.ContactInfo,
		},
		successType: BookingConfirmedEvent,
		failureType: BookingFailedEvent,
		result:      result,
	})
}

// HandleConsultationRequested processes one appointment.consultation_requested
// payload; the lead becomes the booking subject.
func (w *Worker) HandleConsultationRequested(ctx context.Context, detail []byte) {
	var req ConsultationRequestedDetail
	if err := json.Unmarshal(detail, &req); err != nil {
		w.emitFailure(AppointmentFailedEvent, BookingResultDetail{Error: "malformed consultation_requested detail"})
		return
	}

	result := BookingResultDetail{
		TenantID:  req.TenantID,
		ChannelID: req.ChannelID,
		SubjectID: req.LeadID,
	}
	if req.TenantID == "" || req.LeadID == "" || req.SchedulingData.SessionID == "" {
		result.Error = "tenantId, leadId and schedulingData.sessionId are required"
		w.emitFailure(AppointmentFailedEvent, result)
		return
	}

	w.book(ctx, bookingAttempt{
		tenantID: req.TenantID,
		request: &dto.CreateBookingRequest{
			SessionID:   req.SchedulingData.SessionID,
			SubjectID:   req.LeadID,
			SubjectType: "LEAD",
			Source:      "event",
			GoalID:      req.GoalID,
			BookingType: req.AppointmentType,
			ContactInfo: req.ContactInfo,
		},
		successType: AppointmentScheduledEvent,
		failureType: AppointmentFailedEvent,
		result:      result,
	})
}

type bookingAttempt struct {
	tenantID    string
	request     *dto.CreateBookingRequest
	successType string
	failureType string
	result      BookingResultDetail
}

func (w *Worker) book(ctx context.Context, attempt bookingAttempt) {
	booking, err := w.bookings.Create(ctx, attempt.tenantID, attempt.request)
	if err != nil && !errors.Is(err, dto.ErrAlreadyBooked) {
		attempt.result.Error = err.Error()
		w.emitFailure(attempt.failureType, attempt.result)
		return
	}
	// ErrAlreadyBooked carries the subject's existing booking: report it as a
	// success so redelivered requests stay idempotent.

	attempt.result.BookingID = booking.BookingID
	attempt.result.SessionDetails = w.sessionDetails(ctx, attempt.tenantID, booking)

	if perr := w.pub.Publish(attempt.successType, attempt.result); perr != nil {
		w.logger.Error("Failed to publish result event",
			"detailType", attempt.successType,
			"bookingId", booking.BookingID,
			"error", perr,
		)
	}
}

func (w *Worker) sessionDetails(ctx context.Context, tenantID string, booking *models.Booking) *SessionDetails {
	session, err := w.sessions.GetSession(ctx, tenantID, booking.SessionID)
	if err != nil {
		w.logger.Warn("Could not materialize session for result event",
			"sessionId", booking.SessionID, "error", err)
		return &SessionDetails{SessionID: booking.SessionID}
	}
	loc, err := clock.LoadZone(session.Timezone)
	if err != nil {
		return &SessionDetails{SessionID: booking.SessionID}
	}
	return &SessionDetails{
		SessionID: session.SessionID,
		Date:      session.Date,
		StartTime: clock.FormatLocalTime(session.Start, loc, clock.LayoutLocal),
		EndTime:   clock.FormatLocalTime(session.End, loc, clock.LayoutLocal),
		Timezone:  session.Timezone,
	}
}

func (w *Worker) emitFailure(detailType string, result BookingResultDetail) {
	if err := w.pub.Publish(detailType, result); err != nil {
		w.logger.Error("Failed to publish failure event", "detailType", detailType, "error", err)
	}
}
