// internal/services/attendance_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/geo"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories/interfaces"
)

// CheckInWindow bounds when attendance may be recorded relative to the
// session start.
type CheckInWindow struct {
	Before time.Duration
	After  time.Duration
}

// DefaultCheckInWindow is 15 minutes either side of the start.
var DefaultCheckInWindow = CheckInWindow{Before: 15 * time.Minute, After: 15 * time.Minute}

// AttendanceService validates and records check-ins against a session's
// start time and location.
type AttendanceService struct {
	attendanceRepo interfaces.AttendanceRepositoryInterface
	bookingRepo    interfaces.BookingRepositoryInterface
	locationRepo   interfaces.LocationRepositoryInterface
	sessions       *SessionService
	window         CheckInWindow
	now            func() time.Time
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	attendanceRepo interfaces.AttendanceRepositoryInterface,
	bookingRepo interfaces.BookingRepositoryInterface,
	locationRepo interfaces.LocationRepositoryInterface,
	sessions *SessionService,
	window CheckInWindow,
) *AttendanceService {
	if window.Before <= 0 {
		window.Before = DefaultCheckInWindow.Before
	}
	if window.After <= 0 {
		window.After = DefaultCheckInWindow.After
	}
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		bookingRepo:    bookingRepo,
		locationRepo:   locationRepo,
		sessions:       sessions,
		window:         window,
		now:            time.Now,
	}
}

// CheckIn records attendance for a booking. The caller's subject, when
// known, must own the booking; the check-in time must fall inside the window
// around the session start; provided coordinates must fall inside the
// location's radius.
func (s *AttendanceService) CheckIn(ctx context.Context, tenantID string, req *dto.CreateCheckInRequest) (*models.AttendanceRecord, *float64, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	booking, err := s.bookingRepo.GetByBookingID(ctx, tenantID, req.BookingID)
	if err != nil {
		return nil, nil, orNotFound(err)
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, nil, fmt.Errorf("%w: booking is not confirmed", dto.ErrBadInput)
	}
	if req.SubjectID != "" && booking.SubjectID != req.SubjectID {
		return nil, nil, dto.ErrForbidden
	}

	existing, err := s.attendanceRepo.Get(ctx, tenantID, booking.SessionID, booking.BookingID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	if existing != nil && existing.CheckedIn() {
		return nil, nil, dto.ErrAlreadyCheckedIn
	}

	session, err := s.sessions.GetSession(ctx, tenantID, booking.SessionID)
	if err != nil {
		return nil, nil, err
	}

	checkInTime := s.now()
	status, err := s.validateWindow(checkInTime, session.Start)
	if err != nil {
		return nil, nil, err
	}

	method := models.CheckInManual
	var distance *float64
	if req.Lat != nil {
		point := geo.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
		if err := point.Validate(); err != nil {
			return nil, nil, dto.ErrBadCoordinates
		}
		method = models.CheckInGPS
		distance, err = s.validateDistance(ctx, tenantID, session.LocationID, point)
		if err != nil {
			return nil, nil, err
		}
	}

	record := &models.AttendanceRecord{
		TenantID:      tenantID,
		SessionID:     booking.SessionID,
		BookingID:     booking.BookingID,
		SubjectID:     booking.SubjectID,
		Status:        status,
		CheckInTime:   &checkInTime,
		CheckInMethod: method,
		CheckInLat:    req.Lat,
		CheckInLng:    req.Lng,
		DistanceM:     distance,
	}

	var saved *models.AttendanceRecord
	if existing != nil {
		saved, err = s.attendanceRepo.Upsert(ctx, record)
	} else {
		saved, err = s.attendanceRepo.Create(ctx, record)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save attendance: %w", err)
	}
	return saved, distance, nil
}

// Override is the administrative attendance write: it bypasses the window
// and GPS checks entirely.
func (s *AttendanceService) Override(ctx context.Context, tenantID string, req *dto.OverrideAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByBookingID(ctx, tenantID, req.BookingID)
	if err != nil {
		return nil, orNotFound(err)
	}
	if booking.SessionID != req.SessionID {
		return nil, fmt.Errorf("%w: booking does not belong to session", dto.ErrBadInput)
	}

	status := models.AttendanceStatus(strings.ToUpper(req.Status))
	record := &models.AttendanceRecord{
		TenantID:      tenantID,
		SessionID:     req.SessionID,
		BookingID:     req.BookingID,
		SubjectID:     booking.SubjectID,
		Status:        status,
		CheckInMethod: models.CheckInOverride,
	}
	if status != models.AttendanceNoShow {
		now := s.now()
		record.CheckInTime = &now
	}
	return s.attendanceRepo.Upsert(ctx, record)
}

// ListBySession returns attendance records for one session.
func (s *AttendanceService) ListBySession(ctx context.Context, tenantID, sessionID string) ([]*models.AttendanceRecord, error) {
	return s.attendanceRepo.ListBySession(ctx, tenantID, sessionID)
}

// ListBySubject returns a subject's attendance history, newest first.
func (s *AttendanceService) ListBySubject(ctx context.Context, tenantID, subjectID string) ([]*models.AttendanceRecord, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("%w: subjectId is required", dto.ErrBadInput)
	}
	return s.attendanceRepo.ListBySubject(ctx, tenantID, subjectID)
}

func (s *AttendanceService) validateWindow(checkInTime, sessionStart time.Time) (models.AttendanceStatus, error) {
	delta := checkInTime.Sub(sessionStart)
	if delta < -s.window.Before {
		early := int((-delta).Minutes())
		return "", fmt.Errorf("%w: session starts in %d minutes", dto.ErrTooEarly, early)
	}
	if delta > s.window.After {
		late := int(delta.Minutes())
		return "", fmt.Errorf("%w: session started %d minutes ago", dto.ErrTooLate, late)
	}
	if delta > 0 {
		return models.AttendanceLate, nil
	}
	return models.AttendancePresent, nil
}

func (s *AttendanceService) validateDistance(ctx context.Context, tenantID, locationID string, point geo.Coordinate) (*float64, error) {
	if locationID == "" {
		return nil, nil
	}
	location, err := s.locationRepo.GetByID(ctx, tenantID, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Dangling location references leave the GPS check inapplicable.
			return nil, nil
		}
		return nil, err
	}
	if !location.HasCoordinates() {
		return nil, nil
	}

	center := geo.Coordinate{Lat: *location.Lat, Lng: *location.Lng}
	within, distance := geo.WithinRadius(center, point, location.CheckInRadiusM)
	if !within {
		return nil, fmt.Errorf("%w: %.0fm from location (limit %.0fm)", dto.ErrOutOfRange, distance, location.CheckInRadiusM)
	}
	return &distance, nil
}
