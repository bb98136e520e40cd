package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/database"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/services"
)

// capturingPublisher records emitted events instead of touching a bus.
type capturingPublisher struct {
	events []capturedEvent
}

type capturedEvent struct {
	detailType string
	detail     BookingResultDetail
}

func (p *capturingPublisher) Publish(detailType string, detail interface{}) error {
	result, _ := detail.(BookingResultDetail)
	p.events = append(p.events, capturedEvent{detailType: detailType, detail: result})
	return nil
}

type workerFixture struct {
	db        *gorm.DB
	worker    *Worker
	publisher *capturingPublisher
	summaries *repositories.SummaryRepository
}

func intPtr(n int) *int { return &n }

func setupWorkerFixture(t *testing.T, capacity *int) *workerFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	summaryRepo := repositories.NewSummaryRepository(db)
	scheduleRepo := repositories.NewScheduleRepository(db)
	exceptionRepo := repositories.NewExceptionRepository(db)
	bookingRepo := repositories.NewBookingRepository(db, summaryRepo)

	sessions := services.NewSessionService(scheduleRepo, exceptionRepo, summaryRepo)
	bookings := services.NewBookingService(bookingRepo, scheduleRepo, exceptionRepo)
	schedules := services.NewScheduleService(scheduleRepo, exceptionRepo)

	_, err = schedules.Create(context.Background(), "t1", &dto.CreateScheduleRequest{
		ScheduleID:   "sched_x",
		Type:         "SESSION",
		ProgramID:    "prog_1",
		Start:        "2025-01-06T07:00:00",
		End:          "2025-01-06T08:00:00",
		Timezone:     "America/New_York",
		IsRecurring:  true,
		RRule:        "RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR",
		BaseCapacity: capacity,
	})
	require.NoError(t, err)

	publisher := &capturingPublisher{}
	return &workerFixture{
		db:        db,
		worker:    NewWorker(bookings, sessions, publisher, slog.Default()),
		publisher: publisher,
		summaries: summaryRepo,
	}
}

func bookingRequested(subjectID string) []byte {
	detail, _ := json.Marshal(BookingRequestedDetail{
		TenantID:  "t1",
		ChannelID: "chan_1",
		SubjectID: subjectID,
		SchedulingData: SchedulingData{
			SessionID: "sched_x#2025-01-06",
		},
	})
	return detail
}

func TestWorker_BookingConfirmed(t *testing.T) {
	f := setupWorkerFixture(t, intPtr(5))

	f.worker.HandleBookingRequested(context.Background(), bookingRequested("member_1"))

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, BookingConfirmedEvent, event.detailType)
	assert.NotEmpty(t, event.detail.BookingID)
	assert.Empty(t, event.detail.Error)

	require.NotNil(t, event.detail.SessionDetails)
	assert.Equal(t, "sched_x#2025-01-06", event.detail.SessionDetails.SessionID)
	assert.Equal(t, "2025-01-06T07:00:00", event.detail.SessionDetails.StartTime)
	assert.Equal(t, "2025-01-06T08:00:00", event.detail.SessionDetails.EndTime)
	assert.Equal(t, "America/New_York", event.detail.SessionDetails.Timezone)
}

func TestWorker_Idempotent(t *testing.T) {
	f := setupWorkerFixture(t, intPtr(5))
	ctx := context.Background()

	f.worker.HandleBookingRequested(ctx, bookingRequested("member_1"))
	f.worker.HandleBookingRequested(ctx, bookingRequested("member_1"))

	require.Len(t, f.publisher.events, 2)
	first, second := f.publisher.events[0], f.publisher.events[1]
	assert.Equal(t, BookingConfirmedEvent, first.detailType)
	assert.Equal(t, BookingConfirmedEvent, second.detailType)
	assert.Equal(t, first.detail.BookingID, second.detail.BookingID,
		"a redelivered request reports the existing booking")

	summary, err := f.summaries.Get(ctx, "t1", "sched_x#2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.BookedCount, "the counter increments exactly once")
}

func TestWorker_AtCapacityFails(t *testing.T) {
	f := setupWorkerFixture(t, intPtr(1))
	ctx := context.Background()

	f.worker.HandleBookingRequested(ctx, bookingRequested("member_1"))
	f.worker.HandleBookingRequested(ctx, bookingRequested("member_2"))

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, BookingConfirmedEvent, f.publisher.events[0].detailType)

	failed := f.publisher.events[1]
	assert.Equal(t, BookingFailedEvent, failed.detailType)
	assert.Contains(t, failed.detail.Error, "capacity")
}

func TestWorker_MissingFields(t *testing.T) {
	f := setupWorkerFixture(t, intPtr(5))

	detail, _ := json.Marshal(BookingRequestedDetail{TenantID: "t1"})
	f.worker.HandleBookingRequested(context.Background(), detail)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, BookingFailedEvent, f.publisher.events[0].detailType)
	assert.NotEmpty(t, f.publisher.events[0].detail.Error)
}

func TestWorker_MalformedDetail(t *testing.T) {
	f := setupWorkerFixture(t, intPtr(5))

	f.worker.HandleBookingRequested(context.Background(), []byte("{not json"))

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, BookingFailedEvent, f.publisher.events[0].detailType)
}

func TestWorker_SessionNotFound(t *testing.T) {
	f := setupWorkerFixture(t, intPtr(5))

	detail, _ := json.Marshal(BookingRequestedDetail{
		TenantID:       "t1",
		SubjectID:      "member_1",
		SchedulingData: SchedulingData{SessionID: "ghost#2025-01-06"},
	})
	f.worker.HandleBookingRequested(context.Background(), detail)

	require.Len(t, f.publisher.events, 1)
	failed := f.publisher.events[0]
	assert.Equal(t, BookingFailedEvent, failed.detailType)
	assert.Contains(t, failed.detail.Error, "not found")
}

func TestWorker_ConsultationRequested(t *testing.T) {
	f := setupWorkerFixture(t, intPtr(5))

	detail, _ := json.Marshal(ConsultationRequestedDetail{
		TenantID:        "t1",
		ChannelID:       "chan_1",
		LeadID:          "lead_9",
		GoalID:          "goal_1",
		AppointmentType: "CONSULT",
		SchedulingData:  SchedulingData{SessionID: "sched_x#2025-01-06"},
	})
	f.worker.HandleConsultationRequested(context.Background(), detail)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, AppointmentScheduledEvent, event.detailType)
	assert.Equal(t, "lead_9", event.detail.SubjectID)
	assert.NotEmpty(t, event.detail.BookingID)
}

func TestWorker_ConsultationMissingLead(t *testing.T) {
	f := setupWorkerFixture(t, intPtr(5))

	detail, _ := json.Marshal(ConsultationRequestedDetail{
		TenantID:       "t1",
		SchedulingData: SchedulingData{SessionID: "sched_x#2025-01-06"},
	})
	f.worker.HandleConsultationRequested(context.Background(), detail)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, AppointmentFailedEvent, f.publisher.events[0].detailType)
}

func TestWorker_LeadSubjectType(t *testing.T) {
	f := setupWorkerFixture(t, intPtr(5))

	detail, _ := json.Marshal(ConsultationRequestedDetail{
		TenantID:       "t1",
		LeadID:         "lead_9",
		SchedulingData: SchedulingData{SessionID: "sched_x#2025-01-06"},
	})
	f.worker.HandleConsultationRequested(context.Background(), detail)

	require.Len(t, f.publisher.events, 1)
	require.Equal(t, AppointmentScheduledEvent, f.publisher.events[0].detailType)

	var booking models.Booking
	require.NoError(t, f.db.
		Where("tenant_id = ? AND booking_id = ?", "t1", f.publisher.events[0].detail.BookingID).
		First(&booking).Error)
	assert.Equal(t, "LEAD", booking.SubjectType)
	assert.Equal(t, "lead_9", booking.SubjectID)
}
