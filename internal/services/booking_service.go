// internal/services/booking_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories/interfaces"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/scheduling"
)

// BookingService is the booking engine: it resolves the virtual session,
// rejects duplicates, and commits the booking row together with the capacity
// reservation in one transaction.
type BookingService struct {
	bookingRepo   interfaces.BookingRepositoryInterface
	scheduleRepo  interfaces.ScheduleRepositoryInterface
	exceptionRepo interfaces.ExceptionRepositoryInterface
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo interfaces.BookingRepositoryInterface,
	scheduleRepo interfaces.ScheduleRepositoryInterface,
	exceptionRepo interfaces.ExceptionRepositoryInterface,
) *BookingService {
	return &BookingService{
		bookingRepo:   bookingRepo,
		scheduleRepo:  scheduleRepo,
		exceptionRepo: exceptionRepo,
	}
}

// Create books a subject onto a session. On ErrAlreadyBooked the subject's
// existing active booking is returned alongside the error so event-driven
// callers can short-circuit idempotently.
func (s *BookingService) Create(ctx context.Context, tenantID string, req *dto.CreateBookingRequest) (*models.Booking, error) {
	if req.SubjectID == "" {
		return nil, fmt.Errorf("%w: subjectId is required", dto.ErrBadInput)
	}

	scheduleID, date, err := models.SplitSessionID(req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrBadInput, err)
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, tenantID, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dto.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	exception, err := s.exceptionRepo.Get(ctx, tenantID, scheduleID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load exception: %w", err)
	}
	if exception != nil && exception.Type == models.ExceptionCancelled {
		return nil, dto.ErrSessionNotFound
	}
	capacity := scheduling.ResolveCapacity(schedule, exception)

	existing, err := s.bookingRepo.FindActive(ctx, tenantID, req.SessionID, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bookings: %w", err)
	}
	if existing != nil {
		return existing, dto.ErrAlreadyBooked
	}

	subjectType := req.SubjectType
	if subjectType == "" {
		subjectType = "MEMBER"
	}
	booking := &models.Booking{
		TenantID:    tenantID,
		SessionID:   req.SessionID,
		SubjectID:   req.SubjectID,
		SubjectType: subjectType,
		Status:      models.BookingStatusConfirmed,
		Source:      req.Source,
		Notes:       req.Notes,
		GoalID:      req.GoalID,
		BookingType: req.BookingType,
		ProgramID:   req.ProgramID,
		ProgramName: req.ProgramName,
		LeadBy:      req.LeadBy,
		ContactInfo: req.ContactInfo,
		Extra:       req.Extra,
	}

	created, err := s.bookingRepo.CreateWithReservation(ctx, booking, capacity, date)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Cancel moves a booking to CANCELLED and releases its seat. subjectID, when
// known, must match the booking's subject.
func (s *BookingService) Cancel(ctx context.Context, tenantID, bookingID, subjectID string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByBookingID(ctx, tenantID, bookingID)
	if err != nil {
		return nil, orNotFound(err)
	}
	if subjectID != "" && booking.SubjectID != subjectID {
		return nil, dto.ErrForbidden
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, dto.ErrAlreadyCancelled
	}
	return s.bookingRepo.CancelWithRelease(ctx, booking)
}

// Get returns a booking by its id.
func (s *BookingService) Get(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByBookingID(ctx, tenantID, bookingID)
	if err != nil {
		return nil, orNotFound(err)
	}
	return booking, nil
}

// ListBySession returns all bookings on a session, oldest first.
func (s *BookingService) ListBySession(ctx context.Context, tenantID, sessionID string) ([]*models.Booking, error) {
	bookings, err := s.bookingRepo.ListBySession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListBySubject returns the subject's bookings, newest first.
func (s *BookingService) ListBySubject(ctx context.Context, tenantID, subjectID string, limit int, status string) ([]*models.Booking, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("%w: subjectId is required", dto.ErrBadInput)
	}
	bookings, err := s.bookingRepo.ListBySubject(ctx, tenantID, subjectID, limit, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
