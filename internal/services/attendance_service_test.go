package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories"
)

type attendanceFixture struct {
	attendance *AttendanceService
	bookings   *BookingService
	schedules  *ScheduleService
	locations  *LocationService
	booking    *models.Booking
	start      time.Time
}

func floatPtr(f float64) *float64 { return &f }

// setupAttendanceFixture seeds a Monday 07:00 America/New_York session at a
// downtown Austin location and a confirmed booking for member_1.
func setupAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()
	db := setupTestDB(t)
	ctx := context.Background()

	summaryRepo := repositories.NewSummaryRepository(db)
	scheduleRepo := repositories.NewScheduleRepository(db)
	exceptionRepo := repositories.NewExceptionRepository(db)
	bookingRepo := repositories.NewBookingRepository(db, summaryRepo)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	locationRepo := repositories.NewLocationRepository(db)

	sessions := NewSessionService(scheduleRepo, exceptionRepo, summaryRepo)
	f := &attendanceFixture{
		attendance: NewAttendanceService(attendanceRepo, bookingRepo, locationRepo, sessions, CheckInWindow{}),
		bookings:   NewBookingService(bookingRepo, scheduleRepo, exceptionRepo),
		schedules:  NewScheduleService(scheduleRepo, exceptionRepo),
		locations:  NewLocationService(locationRepo),
	}

	_, err := f.locations.Create(ctx, "t1", &dto.CreateLocationRequest{
		LocationID: "loc_atx",
		Name:       "Downtown Studio",
		Lat:        floatPtr(30.2672),
		Lng:        floatPtr(-97.7431),
	})
	require.NoError(t, err)

	_, err = f.schedules.Create(ctx, "t1", &dto.CreateScheduleRequest{
		ScheduleID:   "sched_x",
		Type:         "SESSION",
		ProgramID:    "prog_1",
		Start:        "2025-01-06T07:00:00",
		End:          "2025-01-06T08:00:00",
		Timezone:     "America/New_York",
		IsRecurring:  true,
		RRule:        "RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR",
		BaseCapacity: intPtr(10),
		LocationID:   "loc_atx",
	})
	require.NoError(t, err)

	f.booking, err = f.bookings.Create(ctx, "t1", &dto.CreateBookingRequest{
		SessionID: "sched_x#2025-01-06",
		SubjectID: "member_1",
	})
	require.NoError(t, err)

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	f.start = time.Date(2025, 1, 6, 7, 0, 0, 0, ny)
	return f
}

func (f *attendanceFixture) at(offset time.Duration) {
	f.attendance.now = func() time.Time { return f.start.Add(offset) }
}

func TestCheckIn_GPSPresent(t *testing.T) {
	f := setupAttendanceFixture(t)
	f.at(-5 * time.Minute)

	record, distance, err := f.attendance.CheckIn(context.Background(), "t1", &dto.CreateCheckInRequest{
		BookingID: f.booking.BookingID,
		SubjectID: "member_1",
		Lat:       floatPtr(30.2675),
		Lng:       floatPtr(-97.7428),
	})
	require.NoError(t, err)

	assert.Equal(t, models.AttendancePresent, record.Status)
	assert.Equal(t, models.CheckInGPS, record.CheckInMethod)
	require.NotNil(t, distance)
	assert.InDelta(t, 42, *distance, 5)
}

func TestCheckIn_OutOfRange(t *testing.T) {
	f := setupAttendanceFixture(t)
	f.at(-5 * time.Minute)

	_, _, err := f.attendance.CheckIn(context.Background(), "t1", &dto.CreateCheckInRequest{
		BookingID: f.booking.BookingID,
		Lat:       floatPtr(30.2700),
		Lng:       floatPtr(-97.7500),
	})
	assert.ErrorIs(t, err, dto.ErrOutOfRange)
}

func TestCheckIn_ManualWithoutCoordinates(t *testing.T) {
	f := setupAttendanceFixture(t)
	f.at(-time.Minute)

	record, distance, err := f.attendance.CheckIn(context.Background(), "t1", &dto.CreateCheckInRequest{
		BookingID: f.booking.BookingID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CheckInManual, record.CheckInMethod)
	assert.Nil(t, distance)
}

func TestCheckIn_TooEarly(t *testing.T) {
	f := setupAttendanceFixture(t)
	f.at(-30 * time.Minute)

	_, _, err := f.attendance.CheckIn(context.Background(), "t1", &dto.CreateCheckInRequest{
		BookingID: f.booking.BookingID,
	})
	require.ErrorIs(t, err, dto.ErrTooEarly)
	assert.Contains(t, err.Error(), "30 minutes")
}

func TestCheckIn_TooLate(t *testing.T) {
	f := setupAttendanceFixture(t)
	f.at(20 * time.Minute)

	_, _, err := f.attendance.CheckIn(context.Background(), "t1", &dto.CreateCheckInRequest{
		BookingID: f.booking.BookingID,
	})
	assert.ErrorIs(t, err, dto.ErrTooLate)
}

func TestCheckIn_LateInsideWindow(t *testing.T) {
	f := setupAttendanceFixture(t)
	f.at(10 * time.Minute)

	record, _, err := f.attendance.CheckIn(context.Background(), "t1", &dto.CreateCheckInRequest{
		BookingID: f.booking.BookingID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLate, record.Status)
}

func TestCheckIn_Duplicate(t *testing.T) {
	f := setupAttendanceFixture(t)
	f.at(-5 * time.Minute)
	ctx := context.Background()

	_, _, err := f.attendance.CheckIn(ctx, "t1", &dto.CreateCheckInRequest{BookingID: f.booking.BookingID})
	require.NoError(t, err)

	_, _, err = f.attendance.CheckIn(ctx, "t1", &dto.CreateCheckInRequest{BookingID: f.booking.BookingID})
	assert.ErrorIs(t, err, dto.ErrAlreadyCheckedIn)
}

func TestCheckIn_SubjectMismatch(t *testing.T) {
	f := setupAttendanceFixture(t)
	f.at(-5 * time.Minute)

	_, _, err := f.attendance.CheckIn(context.Background(), "t1", &dto.CreateCheckInRequest{
		BookingID: f.booking.BookingID,
		SubjectID: "member_2",
	})
	assert.ErrorIs(t, err, dto.ErrForbidden)
}

func TestCheckIn_CancelledBooking(t *testing.T) {
	f := setupAttendanceFixture(t)
	f.at(-5 * time.Minute)
	ctx := context.Background()

	_, err := f.bookings.Cancel(ctx, "t1", f.booking.BookingID, "")
	require.NoError(t, err)

	_, _, err = f.attendance.CheckIn(ctx, "t1", &dto.CreateCheckInRequest{BookingID: f.booking.BookingID})
	assert.ErrorIs(t, err, dto.ErrBadInput)
}

func TestCheckIn_UnknownBooking(t *testing.T) {
	f := setupAttendanceFixture(t)

	_, _, err := f.attendance.CheckIn(context.Background(), "t1", &dto.CreateCheckInRequest{BookingID: "ghost"})
	assert.ErrorIs(t, err, dto.ErrNotFound)
}

func TestCheckIn_MismatchedCoordinatePair(t *testing.T) {
	f := setupAttendanceFixture(t)
	f.at(-5 * time.Minute)

	_, _, err := f.attendance.CheckIn(context.Background(), "t1", &dto.CreateCheckInRequest{
		BookingID: f.booking.BookingID,
		Lat:       floatPtr(30.0),
	})
	assert.ErrorIs(t, err, dto.ErrBadCoordinates)
}

func TestOverride_NoShow(t *testing.T) {
	f := setupAttendanceFixture(t)

	record, err := f.attendance.Override(context.Background(), "t1", &dto.OverrideAttendanceRequest{
		SessionID: f.booking.SessionID,
		BookingID: f.booking.BookingID,
		Status:    "NO_SHOW",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceNoShow, record.Status)
	assert.Equal(t, models.CheckInOverride, record.CheckInMethod)
	assert.Nil(t, record.CheckInTime)
}

func TestOverride_PresentSetsCheckInTime(t *testing.T) {
	f := setupAttendanceFixture(t)
	f.at(0)

	record, err := f.attendance.Override(context.Background(), "t1", &dto.OverrideAttendanceRequest{
		SessionID: f.booking.SessionID,
		BookingID: f.booking.BookingID,
		Status:    "PRESENT",
	})
	require.NoError(t, err)
	require.NotNil(t, record.CheckInTime)
	assert.True(t, record.CheckInTime.Equal(f.start))
}

func TestOverride_WrongSession(t *testing.T) {
	f := setupAttendanceFixture(t)

	_, err := f.attendance.Override(context.Background(), "t1", &dto.OverrideAttendanceRequest{
		SessionID: "sched_x#2025-01-08",
		BookingID: f.booking.BookingID,
		Status:    "PRESENT",
	})
	assert.ErrorIs(t, err, dto.ErrBadInput)
}

func TestOverride_BypassesWindow(t *testing.T) {
	f := setupAttendanceFixture(t)
	// Hours after the session; the admin path does not care.
	f.at(6 * time.Hour)

	record, err := f.attendance.Override(context.Background(), "t1", &dto.OverrideAttendanceRequest{
		SessionID: f.booking.SessionID,
		BookingID: f.booking.BookingID,
		Status:    "LATE",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLate, record.Status)
}
