package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
)

func intPtr(n int) *int { return &n }

func weeklySchedule() *models.Schedule {
	return &models.Schedule{
		TenantID:    "t1",
		ScheduleID:  "sched_x",
		Type:        models.ScheduleTypeSession,
		ProgramID:   "prog_1",
		Start:       "2025-01-06T07:00:00",
		End:         "2025-01-06T08:00:00",
		Timezone:    "America/New_York",
		IsRecurring: true,
		RRule:       "RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR",
	}
}

func weekRange(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return time.Date(2025, 1, 6, 0, 0, 0, 0, ny), time.Date(2025, 1, 10, 23, 59, 59, 0, ny)
}

func TestMaterialize_WeeklyExpansion(t *testing.T) {
	from, to := weekRange(t)
	sessions, err := Materialize(weeklySchedule(), from, to, nil, nil)
	require.NoError(t, err)

	require.Len(t, sessions, 3)
	assert.Equal(t, "sched_x#2025-01-06", sessions[0].SessionID)
	assert.Equal(t, "sched_x#2025-01-08", sessions[1].SessionID)
	assert.Equal(t, "sched_x#2025-01-10", sessions[2].SessionID)

	// Each occurrence keeps the one-hour template span.
	for _, s := range sessions {
		assert.Equal(t, time.Hour, s.End.Sub(s.Start))
		assert.Zero(t, s.BookedCount)
	}
	// Monday 07:00 EST == 12:00 UTC.
	assert.Equal(t, time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC), sessions[0].Start.UTC())
}

func TestMaterialize_SessionDateMatchesLocalDate(t *testing.T) {
	// A Monday 19:00 EST class crosses UTC midnight; the session id must carry
	// the local Monday, not the UTC Tuesday.
	s := weeklySchedule()
	s.Start = "2025-01-13T19:00:00"
	s.End = "2025-01-13T20:00:00"
	s.RRule = "RRULE:FREQ=WEEKLY;BYDAY=MO"

	ny, _ := time.LoadLocation("America/New_York")
	from := time.Date(2025, 1, 13, 0, 0, 0, 0, ny)
	to := time.Date(2025, 1, 13, 23, 59, 59, 0, ny)

	sessions, err := Materialize(s, from, to, nil, nil)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sched_x#2025-01-13", sessions[0].SessionID)
	assert.Equal(t, "2025-01-14", sessions[0].Start.UTC().Format("2006-01-02"))
}

func TestMaterialize_CancelledExceptionSkips(t *testing.T) {
	from, to := weekRange(t)
	exceptions := map[string]*models.ScheduleException{
		"2025-01-08": {Type: models.ExceptionCancelled},
	}

	sessions, err := Materialize(weeklySchedule(), from, to, exceptions, nil)
	require.NoError(t, err)

	require.Len(t, sessions, 2)
	assert.Equal(t, "2025-01-06", sessions[0].Date)
	assert.Equal(t, "2025-01-10", sessions[1].Date)
}

func TestMaterialize_OverrideFallthrough(t *testing.T) {
	from, to := weekRange(t)
	exceptions := map[string]*models.ScheduleException{
		"2025-01-10": {
			Type:             models.ExceptionOverride,
			OverrideStart:    "2025-01-10T09:30:00",
			OverrideCapacity: intPtr(3),
		},
	}
	s := weeklySchedule()
	s.BaseCapacity = intPtr(10)
	s.LocationID = "loc_main"

	sessions, err := Materialize(s, from, to, exceptions, nil)
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	fri := sessions[2]
	ny, _ := time.LoadLocation("America/New_York")
	assert.True(t, fri.Start.Equal(time.Date(2025, 1, 10, 9, 30, 0, 0, ny)))
	// End falls through to start + template duration.
	assert.Equal(t, time.Hour, fri.End.Sub(fri.Start))
	require.NotNil(t, fri.Capacity)
	assert.Equal(t, 3, *fri.Capacity)
	// Untouched fields inherit from the schedule.
	assert.Equal(t, "loc_main", fri.LocationID)

	// Other dates keep the base capacity.
	require.NotNil(t, sessions[0].Capacity)
	assert.Equal(t, 10, *sessions[0].Capacity)
}

func TestMaterialize_SummaryMerge(t *testing.T) {
	from, to := weekRange(t)
	summaries := map[string]*models.SessionSummary{
		"sched_x#2025-01-08": {BookedCount: 4, WaitlistCount: 1},
	}

	sessions, err := Materialize(weeklySchedule(), from, to, nil, summaries)
	require.NoError(t, err)

	assert.Zero(t, sessions[0].BookedCount)
	assert.Equal(t, 4, sessions[1].BookedCount)
	assert.Equal(t, 1, sessions[1].WaitlistCount)
}

func TestMaterialize_NonRecurring(t *testing.T) {
	s := weeklySchedule()
	s.IsRecurring = false
	s.RRule = ""

	from, to := weekRange(t)
	sessions, err := Materialize(s, from, to, nil, nil)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sched_x#2025-01-06", sessions[0].SessionID)

	// Out of range yields nothing.
	ny, _ := time.LoadLocation("America/New_York")
	sessions, err = Materialize(s, time.Date(2025, 2, 1, 0, 0, 0, 0, ny), time.Date(2025, 2, 7, 0, 0, 0, 0, ny), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestMaterialize_DSTSpringForwardKeepsAbsoluteDuration(t *testing.T) {
	s := &models.Schedule{
		TenantID:    "t1",
		ScheduleID:  "sched_dst",
		Type:        models.ScheduleTypeSession,
		ProgramID:   "prog_1",
		Start:       "2025-03-08T07:00:00",
		End:         "2025-03-08T08:00:00",
		Timezone:    "America/New_York",
		IsRecurring: true,
		RRule:       "FREQ=DAILY",
	}

	ny, _ := time.LoadLocation("America/New_York")
	from := time.Date(2025, 3, 8, 0, 0, 0, 0, ny)
	to := time.Date(2025, 3, 9, 23, 59, 59, 0, ny)

	sessions, err := Materialize(s, from, to, nil, nil)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, "2025-03-08", sessions[0].Date)
	assert.Equal(t, "2025-03-09", sessions[1].Date)
	for _, sess := range sessions {
		assert.Equal(t, time.Hour, sess.End.Sub(sess.Start))
	}
	// Saturday is EST (12:00 UTC), Sunday after spring-forward is EDT (11:00 UTC).
	assert.Equal(t, 12, sessions[0].Start.UTC().Hour())
	assert.Equal(t, 11, sessions[1].Start.UTC().Hour())
}

func TestMaterialize_Pure(t *testing.T) {
	from, to := weekRange(t)
	a, err := Materialize(weeklySchedule(), from, to, nil, nil)
	require.NoError(t, err)
	b, err := Materialize(weeklySchedule(), from, to, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFilters(t *testing.T) {
	from, to := weekRange(t)
	s := weeklySchedule()
	s.Hosts = []models.HostRef{{ID: "coach_1", Type: "STAFF"}, {ID: "room_2", Type: "RESOURCE"}}
	sessions, err := Materialize(s, from, to, nil, nil)
	require.NoError(t, err)

	assert.Len(t, Filters{StartDate: "2025-01-08", EndDate: "2025-01-08"}.Apply(sessions), 1)
	assert.Len(t, Filters{ProgramIDs: []string{"prog_1", "prog_9"}}.Apply(sessions), 3)
	assert.Empty(t, Filters{ProgramIDs: []string{"prog_9"}}.Apply(sessions))
	assert.Len(t, Filters{Type: "session"}.Apply(sessions), 3)
	assert.Empty(t, Filters{Type: "BLOCK"}.Apply(sessions))
	assert.Len(t, Filters{HostID: "room_2"}.Apply(sessions), 3, "any host in the session matches")
	assert.Empty(t, Filters{HostID: "coach_9"}.Apply(sessions))
	assert.Len(t, Filters{StartTime: "06:30", EndTime: "07:30"}.Apply(sessions), 3)
	assert.Empty(t, Filters{StartTime: "08:00"}.Apply(sessions))
}

func TestWidenRange(t *testing.T) {
	from := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	wFrom, wTo := WidenRange(from, to)
	assert.Equal(t, from.Add(-26*time.Hour), wFrom)
	assert.Equal(t, to.Add(26*time.Hour), wTo)
}
