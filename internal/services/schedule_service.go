// internal/services/schedule_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/clock"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/recurrence"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories/interfaces"
)

// ScheduleService handles schedule and exception lifecycle operations
type ScheduleService struct {
	scheduleRepo  interfaces.ScheduleRepositoryInterface
	exceptionRepo interfaces.ExceptionRepositoryInterface
}

// NewScheduleService creates a new schedule service
func NewScheduleService(
	scheduleRepo interfaces.ScheduleRepositoryInterface,
	exceptionRepo interfaces.ExceptionRepositoryInterface,
) *ScheduleService {
	return &ScheduleService{
		scheduleRepo:  scheduleRepo,
		exceptionRepo: exceptionRepo,
	}
}

func (s *ScheduleService) Create(ctx context.Context, tenantID string, req *dto.CreateScheduleRequest) (*models.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := validateTemplate(req.Start, req.End, req.Timezone); err != nil {
		return nil, err
	}
	if req.IsRecurring {
		if err := recurrence.Validate(req.RRule); err != nil {
			return nil, fmt.Errorf("%w: %v", dto.ErrUnsupportedRule, err)
		}
	}

	schedType := models.ScheduleType(strings.ToUpper(req.Type))
	if schedType == "" {
		schedType = models.ScheduleTypeSession
	}

	schedule := &models.Schedule{
		TenantID:     tenantID,
		ScheduleID:   req.ScheduleID,
		Type:         schedType,
		ProgramID:    req.ProgramID,
		Name:         req.Name,
		Start:        req.Start,
		End:          req.End,
		Timezone:     req.Timezone,
		IsRecurring:  req.IsRecurring,
		RRule:        req.RRule,
		BaseCapacity: req.BaseCapacity,
		Hosts:        datatypes.NewJSONSlice(req.Hosts),
		LocationID:   req.LocationID,
		Tags:         datatypes.NewJSONSlice(req.Tags),
		Extra:        req.Extra,
	}
	created, err := s.scheduleRepo.Create(ctx, schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return created, nil
}

func (s *ScheduleService) Get(ctx context.Context, tenantID, scheduleID string) (*models.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, tenantID, scheduleID)
	if err != nil {
		return nil, orNotFound(err)
	}
	return schedule, nil
}

func (s *ScheduleService) List(ctx context.Context, tenantID, programID string) ([]*models.Schedule, error) {
	if programID != "" {
		return s.scheduleRepo.ListByPrograms(ctx, tenantID, []string{programID})
	}
	return s.scheduleRepo.List(ctx, tenantID)
}

func (s *ScheduleService) Update(ctx context.Context, tenantID string, req *dto.UpdateScheduleRequest) (*models.Schedule, error) {
	existing, err := s.scheduleRepo.GetByID(ctx, tenantID, req.ScheduleID)
	if err != nil {
		return nil, orNotFound(err)
	}

	// Validate the template as it will look after the patch.
	start, end, zone := existing.Start, existing.End, existing.Timezone
	if req.Start != nil {
		start = *req.Start
	}
	if req.End != nil {
		end = *req.End
	}
	if req.Timezone != nil {
		zone = *req.Timezone
	}
	if err := validateTemplate(start, end, zone); err != nil {
		return nil, err
	}

	recurring := existing.IsRecurring
	if req.IsRecurring != nil {
		recurring = *req.IsRecurring
	}
	rule := existing.RRule
	if req.RRule != nil {
		rule = *req.RRule
	}
	if recurring {
		if rule == "" {
			return nil, fmt.Errorf("%w: recurring schedules require rrule", dto.ErrBadInput)
		}
		if err := recurrence.Validate(rule); err != nil {
			return nil, fmt.Errorf("%w: %v", dto.ErrUnsupportedRule, err)
		}
	}

	updates := map[string]interface{}{
		"start":        start,
		"end":          end,
		"timezone":     zone,
		"is_recurring": recurring,
		"rrule":        rule,
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.BaseCapacity != nil {
		updates["base_capacity"] = *req.BaseCapacity
	}
	if req.Hosts != nil {
		updates["hosts"] = datatypes.NewJSONSlice(req.Hosts)
		primary := ""
		if len(req.Hosts) > 0 {
			primary = req.Hosts[0].ID
		}
		updates["primary_host_id"] = primary
	}
	if req.LocationID != nil {
		updates["location_id"] = *req.LocationID
	}
	if req.Tags != nil {
		updates["tags"] = datatypes.NewJSONSlice(req.Tags)
	}
	if req.Extra != nil {
		updates["extra"] = datatypes.JSONMap(req.Extra)
	}

	schedule, err := s.scheduleRepo.Update(ctx, tenantID, req.ScheduleID, updates)
	if err != nil {
		return nil, orNotFound(err)
	}
	return schedule, nil
}

func (s *ScheduleService) Delete(ctx context.Context, tenantID, scheduleID string) error {
	if err := s.scheduleRepo.Delete(ctx, tenantID, scheduleID); err != nil {
		return orNotFound(err)
	}
	return nil
}

// ========================================
// EXCEPTIONS
// ========================================

func (s *ScheduleService) PutException(ctx context.Context, tenantID string, req *dto.CreateExceptionRequest) (*models.ScheduleException, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, tenantID, req.ScheduleID)
	if err != nil {
		return nil, orNotFound(err)
	}

	loc, err := clock.LoadZone(schedule.Timezone)
	if err != nil {
		return nil, err
	}
	if _, err := clock.ParseLocalDate(req.OccurrenceDate, loc); err != nil {
		return nil, fmt.Errorf("%w: occurrenceDate must be YYYY-MM-DD", dto.ErrBadDateTime)
	}
	for _, override := range []string{req.OverrideStart, req.OverrideEnd} {
		if override == "" {
			continue
		}
		if _, err := clock.ParseLocal(override, schedule.Timezone); err != nil {
			return nil, err
		}
	}

	exception := &models.ScheduleException{
		TenantID:           tenantID,
		ScheduleID:         req.ScheduleID,
		OccurrenceDate:     req.OccurrenceDate,
		Type:               models.ExceptionType(strings.ToUpper(req.Type)),
		OverrideStart:      req.OverrideStart,
		OverrideEnd:        req.OverrideEnd,
		OverrideCapacity:   req.OverrideCapacity,
		OverrideHosts:      datatypes.NewJSONSlice(req.OverrideHosts),
		OverrideLocationID: req.OverrideLocationID,
		Extra:              req.Extra,
	}
	return s.exceptionRepo.Upsert(ctx, exception)
}

func (s *ScheduleService) GetException(ctx context.Context, tenantID, scheduleID, occurrenceDate string) (*models.ScheduleException, error) {
	exception, err := s.exceptionRepo.Get(ctx, tenantID, scheduleID, occurrenceDate)
	if err != nil {
		return nil, orNotFound(err)
	}
	return exception, nil
}

func (s *ScheduleService) ListExceptions(ctx context.Context, tenantID, scheduleID, startDate, endDate string) ([]*models.ScheduleException, error) {
	return s.exceptionRepo.ListBySchedule(ctx, tenantID, scheduleID, startDate, endDate)
}

func (s *ScheduleService) DeleteException(ctx context.Context, tenantID, scheduleID, occurrenceDate string) error {
	if err := s.exceptionRepo.Delete(ctx, tenantID, scheduleID, occurrenceDate); err != nil {
		return orNotFound(err)
	}
	return nil
}

// validateTemplate checks that start/end parse in zone and are ordered.
func validateTemplate(start, end, zone string) error {
	startAbs, err := clock.ParseLocal(start, zone)
	if err != nil {
		return err
	}
	endAbs, err := clock.ParseLocal(end, zone)
	if err != nil {
		return err
	}
	if !endAbs.After(startAbs) {
		return fmt.Errorf("%w: end must be after start", dto.ErrBadInput)
	}
	return nil
}
