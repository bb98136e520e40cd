package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories"
)

type sessionFixture struct {
	sessions  *SessionService
	schedules *ScheduleService
	bookings  *BookingService
}

func setupSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	db := setupTestDB(t)

	summaryRepo := repositories.NewSummaryRepository(db)
	scheduleRepo := repositories.NewScheduleRepository(db)
	exceptionRepo := repositories.NewExceptionRepository(db)
	bookingRepo := repositories.NewBookingRepository(db, summaryRepo)

	return &sessionFixture{
		sessions:  NewSessionService(scheduleRepo, exceptionRepo, summaryRepo),
		schedules: NewScheduleService(scheduleRepo, exceptionRepo),
		bookings:  NewBookingService(bookingRepo, scheduleRepo, exceptionRepo),
	}
}

func (f *sessionFixture) seedWeekly(t *testing.T) {
	t.Helper()
	_, err := f.schedules.Create(context.Background(), "t1", &dto.CreateScheduleRequest{
		ScheduleID:   "sched_x",
		Type:         "SESSION",
		ProgramID:    "prog_1",
		Start:        "2025-01-06T07:00:00",
		End:          "2025-01-06T08:00:00",
		Timezone:     "America/New_York",
		IsRecurring:  true,
		RRule:        "RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR",
		BaseCapacity: intPtr(10),
	})
	require.NoError(t, err)
}

func sessionIDs(sessions []models.Session) []string {
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.SessionID)
	}
	return ids
}

func TestSessionQuery_WeeklyExpansion(t *testing.T) {
	f := setupSessionFixture(t)
	f.seedWeekly(t)

	sessions, err := f.sessions.Query(context.Background(), "t1", &dto.SessionQuery{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-10",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"sched_x#2025-01-06",
		"sched_x#2025-01-08",
		"sched_x#2025-01-10",
	}, sessionIDs(sessions))
}

func TestSessionQuery_CancelledDateExcluded(t *testing.T) {
	f := setupSessionFixture(t)
	f.seedWeekly(t)
	ctx := context.Background()

	_, err := f.schedules.PutException(ctx, "t1", &dto.CreateExceptionRequest{
		ScheduleID:     "sched_x",
		OccurrenceDate: "2025-01-08",
		Type:           "CANCELLED",
	})
	require.NoError(t, err)

	sessions, err := f.sessions.Query(ctx, "t1", &dto.SessionQuery{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-10",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sched_x#2025-01-06", "sched_x#2025-01-10"}, sessionIDs(sessions))
}

func TestSessionQuery_CountersMergedAfterBooking(t *testing.T) {
	f := setupSessionFixture(t)
	f.seedWeekly(t)
	ctx := context.Background()

	_, err := f.bookings.Create(ctx, "t1", &dto.CreateBookingRequest{
		SessionID: "sched_x#2025-01-08", SubjectID: "member_1",
	})
	require.NoError(t, err)

	sessions, err := f.sessions.Query(ctx, "t1", &dto.SessionQuery{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-10",
	})
	require.NoError(t, err)

	require.Len(t, sessions, 3)
	assert.Zero(t, sessions[0].BookedCount)
	assert.Equal(t, 1, sessions[1].BookedCount)
}

func TestSessionQuery_RangeTooLarge(t *testing.T) {
	f := setupSessionFixture(t)
	f.seedWeekly(t)

	_, err := f.sessions.Query(context.Background(), "t1", &dto.SessionQuery{
		StartDate: "2025-01-01",
		EndDate:   "2025-06-01",
	})
	assert.ErrorIs(t, err, dto.ErrRangeTooLarge)
}

func TestSessionQuery_MissingWindow(t *testing.T) {
	f := setupSessionFixture(t)

	_, err := f.sessions.Query(context.Background(), "t1", &dto.SessionQuery{StartDate: "2025-01-01"})
	assert.ErrorIs(t, err, dto.ErrBadInput)
}

func TestSessionQuery_ProgramFilter(t *testing.T) {
	f := setupSessionFixture(t)
	f.seedWeekly(t)
	ctx := context.Background()

	_, err := f.schedules.Create(ctx, "t1", &dto.CreateScheduleRequest{
		ScheduleID:  "sched_y",
		Type:        "SESSION",
		ProgramID:   "prog_2",
		Start:       "2025-01-07T10:00:00",
		End:         "2025-01-07T11:00:00",
		Timezone:    "America/New_York",
		IsRecurring: false,
	})
	require.NoError(t, err)

	sessions, err := f.sessions.Query(ctx, "t1", &dto.SessionQuery{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-10",
		ProgramID: "prog_2",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sched_y#2025-01-07"}, sessionIDs(sessions))

	both, err := f.sessions.Query(ctx, "t1", &dto.SessionQuery{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-10",
		ProgramID: "prog_1,prog_2",
	})
	require.NoError(t, err)
	assert.Len(t, both, 4)
}

func TestGetSession_SingleMode(t *testing.T) {
	f := setupSessionFixture(t)
	f.seedWeekly(t)
	ctx := context.Background()

	session, err := f.sessions.GetSession(ctx, "t1", "sched_x#2025-01-08")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-08", session.Date)
	assert.Equal(t, "America/New_York", session.Timezone)

	// A date the rule never lands on does not materialize.
	_, err = f.sessions.GetSession(ctx, "t1", "sched_x#2025-01-07")
	assert.ErrorIs(t, err, dto.ErrSessionNotFound)

	// Unknown schedule.
	_, err = f.sessions.GetSession(ctx, "t1", "ghost#2025-01-06")
	assert.ErrorIs(t, err, dto.ErrSessionNotFound)

	// Malformed id.
	_, err = f.sessions.GetSession(ctx, "t1", "no-separator")
	assert.ErrorIs(t, err, dto.ErrBadInput)
}

func TestGetSession_CancelledDate(t *testing.T) {
	f := setupSessionFixture(t)
	f.seedWeekly(t)
	ctx := context.Background()

	_, err := f.schedules.PutException(ctx, "t1", &dto.CreateExceptionRequest{
		ScheduleID:     "sched_x",
		OccurrenceDate: "2025-01-06",
		Type:           "CANCELLED",
	})
	require.NoError(t, err)

	_, err = f.sessions.GetSession(ctx, "t1", "sched_x#2025-01-06")
	assert.ErrorIs(t, err, dto.ErrSessionNotFound)
}

func TestSessionQuery_TenantIsolation(t *testing.T) {
	f := setupSessionFixture(t)
	f.seedWeekly(t)

	sessions, err := f.sessions.Query(context.Background(), "t2", &dto.SessionQuery{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-10",
	})
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
