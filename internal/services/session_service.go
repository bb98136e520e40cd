// internal/services/session_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/clock"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories/interfaces"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/scheduling"
)

// SessionService is the read path for virtual sessions: it expands schedules
// over a widened range, merges stored counters and applies the caller's
// filters.
type SessionService struct {
	scheduleRepo  interfaces.ScheduleRepositoryInterface
	exceptionRepo interfaces.ExceptionRepositoryInterface
	summaryRepo   interfaces.SummaryRepositoryInterface
}

// NewSessionService creates a new session reader
func NewSessionService(
	scheduleRepo interfaces.ScheduleRepositoryInterface,
	exceptionRepo interfaces.ExceptionRepositoryInterface,
	summaryRepo interfaces.SummaryRepositoryInterface,
) *SessionService {
	return &SessionService{
		scheduleRepo:  scheduleRepo,
		exceptionRepo: exceptionRepo,
		summaryRepo:   summaryRepo,
	}
}

// Query lists sessions for a local-date window, or a single session when the
// query names one.
func (s *SessionService) Query(ctx context.Context, tenantID string, q *dto.SessionQuery) ([]models.Session, error) {
	if q.SessionID != "" {
		session, err := s.GetSession(ctx, tenantID, q.SessionID)
		if err != nil {
			return nil, err
		}
		return []models.Session{*session}, nil
	}

	if q.StartDate == "" || q.EndDate == "" {
		return nil, fmt.Errorf("%w: startDate and endDate are required", dto.ErrBadInput)
	}
	startDay, err := time.Parse(clock.LayoutLocalDate, q.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: startDate must be YYYY-MM-DD", dto.ErrBadDateTime)
	}
	endDay, err := time.Parse(clock.LayoutLocalDate, q.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: endDate must be YYYY-MM-DD", dto.ErrBadDateTime)
	}
	if endDay.Before(startDay) {
		return nil, fmt.Errorf("%w: endDate precedes startDate", dto.ErrBadInput)
	}
	if days := int(endDay.Sub(startDay).Hours()/24) + 1; days > scheduling.MaxQueryRangeDays {
		return nil, fmt.Errorf("%w: window of %d days exceeds %d", dto.ErrRangeTooLarge, days, scheduling.MaxQueryRangeDays)
	}

	schedules, err := s.loadSchedules(ctx, tenantID, q.ProgramIDs())
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return []models.Session{}, nil
	}

	scheduleIDs := make([]string, 0, len(schedules))
	for _, sched := range schedules {
		scheduleIDs = append(scheduleIDs, sched.ScheduleID)
	}
	exceptions, err := s.exceptionRepo.ListForSchedules(ctx, tenantID, scheduleIDs, q.StartDate, q.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load exceptions: %w", err)
	}
	exceptionsBySchedule := make(map[string]map[string]*models.ScheduleException)
	for _, exc := range exceptions {
		byDate := exceptionsBySchedule[exc.ScheduleID]
		if byDate == nil {
			byDate = make(map[string]*models.ScheduleException)
			exceptionsBySchedule[exc.ScheduleID] = byDate
		}
		byDate[exc.OccurrenceDate] = exc
	}

	// The caller's dates are wall-clock; widen the absolute range so no zone's
	// local window is clipped, then filter by each session's own local date.
	rangeStart, rangeEnd := scheduling.WidenRange(
		startDay,
		endDay.Add(24*time.Hour-time.Second),
	)

	var sessions []models.Session
	for _, sched := range schedules {
		expanded, err := scheduling.Materialize(sched, rangeStart, rangeEnd, exceptionsBySchedule[sched.ScheduleID], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to materialize schedule %s: %w", sched.ScheduleID, err)
		}
		sessions = append(sessions, expanded...)
	}

	if err := s.mergeSummaries(ctx, tenantID, sessions); err != nil {
		return nil, err
	}

	filters := scheduling.Filters{
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		ProgramIDs: q.ProgramIDs(),
		Type:       q.Type,
		HostID:     q.HostID,
		LocationID: q.LocationID,
		StartTime:  q.StartTime,
		EndTime:    q.EndTime,
	}
	sessions = filters.Apply(sessions)
	scheduling.SortSessions(sessions)
	return sessions, nil
}

// GetSession materializes a single session from its id, loading only that
// schedule and that date's exception.
func (s *SessionService) GetSession(ctx context.Context, tenantID, sessionID string) (*models.Session, error) {
	scheduleID, date, err := models.SplitSessionID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrBadInput, err)
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, tenantID, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dto.ErrSessionNotFound
		}
		return nil, err
	}

	exceptionsByDate := map[string]*models.ScheduleException{}
	exception, err := s.exceptionRepo.Get(ctx, tenantID, scheduleID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if exception != nil {
		exceptionsByDate[date] = exception
	}

	loc, err := clock.LoadZone(schedule.Timezone)
	if err != nil {
		return nil, err
	}
	dayStart, err := clock.ParseLocalDate(date, loc)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.Add(24*time.Hour - time.Second)

	sessions, err := scheduling.Materialize(schedule, dayStart, dayEnd, exceptionsByDate, nil)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].SessionID == sessionID {
			if err := s.mergeSummaries(ctx, tenantID, sessions[i:i+1]); err != nil {
				return nil, err
			}
			return &sessions[i], nil
		}
	}
	return nil, dto.ErrSessionNotFound
}

func (s *SessionService) loadSchedules(ctx context.Context, tenantID string, programIDs []string) ([]*models.Schedule, error) {
	if len(programIDs) > 0 {
		schedules, err := s.scheduleRepo.ListByPrograms(ctx, tenantID, programIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load schedules: %w", err)
		}
		return schedules, nil
	}
	schedules, err := s.scheduleRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	return schedules, nil
}

func (s *SessionService) mergeSummaries(ctx context.Context, tenantID string, sessions []models.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	ids := make([]string, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.SessionID)
	}
	summaries, err := s.summaryRepo.GetBatch(ctx, tenantID, ids)
	if err != nil {
		return fmt.Errorf("failed to load session summaries: %w", err)
	}
	for i := range sessions {
		if summary := summaries[sessions[i].SessionID]; summary != nil {
			sessions[i].BookedCount = summary.BookedCount
			sessions[i].WaitlistCount = summary.WaitlistCount
		}
	}
	return nil
}
