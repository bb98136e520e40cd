// internal/scheduling/materializer.go
package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/clock"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/recurrence"
)

// MaxQueryRangeDays caps the client-requested session window.
const MaxQueryRangeDays = 90

// RangePadding covers the widest offsets a schedule zone can sit at relative
// to the caller's wall-clock dates (UTC-12 through UTC+14).
const RangePadding = 26 * time.Hour

// TemplateTimes resolves a schedule's wall-clock template into absolute
// instants and its zone. endAbs minus startAbs is the absolute span of the
// template day, which every occurrence preserves across DST transitions.
func TemplateTimes(s *models.Schedule) (startAbs, endAbs time.Time, loc *time.Location, err error) {
	loc, err = clock.LoadZone(s.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	startAbs, err = clock.ParseLocal(s.Start, s.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("schedule %s start: %w", s.ScheduleID, err)
	}
	endAbs, err = clock.ParseLocal(s.End, s.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("schedule %s end: %w", s.ScheduleID, err)
	}
	if !endAbs.After(startAbs) {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("schedule %s: end must be after start", s.ScheduleID)
	}
	return startAbs, endAbs, loc, nil
}

// ResolveCapacity returns overrideCapacity when the date has an OVERRIDE
// exception, else the schedule's base capacity. BLOCK schedules have none.
func ResolveCapacity(s *models.Schedule, exc *models.ScheduleException) *int {
	if s.Type == models.ScheduleTypeBlock {
		return nil
	}
	if exc != nil && exc.Type == models.ExceptionOverride && exc.OverrideCapacity != nil {
		return exc.OverrideCapacity
	}
	return s.BaseCapacity
}

// WidenRange pads an absolute range so that expansion in any schedule zone
// cannot miss occurrences whose local date falls inside the caller's window.
func WidenRange(start, end time.Time) (time.Time, time.Time) {
	return start.Add(-RangePadding), end.Add(RangePadding)
}

// Materialize combines a schedule, its exceptions and any existing summaries
// into virtual sessions whose absolute start falls within
// [rangeStart, rangeEnd]. It is a pure function of its inputs: repeated calls
// return equal sets.
func Materialize(
	s *models.Schedule,
	rangeStart, rangeEnd time.Time,
	exceptionsByDate map[string]*models.ScheduleException,
	summariesByID map[string]*models.SessionSummary,
) ([]models.Session, error) {
	startAbs, endAbs, loc, err := TemplateTimes(s)
	if err != nil {
		return nil, err
	}
	duration := endAbs.Sub(startAbs)

	var occurrences []time.Time
	if !s.IsRecurring {
		if !startAbs.Before(rangeStart) && !startAbs.After(rangeEnd) {
			occurrences = []time.Time{startAbs}
		}
	} else {
		dtstart := clock.AbsoluteToNaive(startAbs, loc)
		from := clock.AbsoluteToNaive(rangeStart, loc)
		to := clock.AbsoluteToNaive(rangeEnd, loc)
		naives, err := recurrence.Expand(s.RRule, dtstart, from, to)
		if err != nil {
			return nil, err
		}
		occurrences = make([]time.Time, 0, len(naives))
		for _, n := range naives {
			occurrences = append(occurrences, clock.NaiveToAbsolute(n, loc))
		}
	}

	sessions := make([]models.Session, 0, len(occurrences))
	for _, occStart := range occurrences {
		dateStr := clock.FormatLocalDate(occStart, loc)
		exc := exceptionsByDate[dateStr]
		if exc != nil && exc.Type == models.ExceptionCancelled {
			continue
		}

		start := occStart
		end := start.Add(duration)
		hosts := []models.HostRef(s.Hosts)
		locationID := s.LocationID

		if exc != nil && exc.Type == models.ExceptionOverride {
			if exc.OverrideStart != "" {
				start, err = clock.ParseLocal(exc.OverrideStart, s.Timezone)
				if err != nil {
					return nil, fmt.Errorf("exception %s/%s: %w", s.ScheduleID, dateStr, err)
				}
				end = start.Add(duration)
			}
			if exc.OverrideEnd != "" {
				end, err = clock.ParseLocal(exc.OverrideEnd, s.Timezone)
				if err != nil {
					return nil, fmt.Errorf("exception %s/%s: %w", s.ScheduleID, dateStr, err)
				}
			}
			if len(exc.OverrideHosts) > 0 {
				hosts = []models.HostRef(exc.OverrideHosts)
			}
			if exc.OverrideLocationID != "" {
				locationID = exc.OverrideLocationID
			}
		}

		session := models.Session{
			SessionID:  models.MakeSessionID(s.ScheduleID, dateStr),
			TenantID:   s.TenantID,
			ScheduleID: s.ScheduleID,
			Date:       dateStr,
			Start:      start,
			End:        end,
			Timezone:   s.Timezone,
			Type:       s.Type,
			ProgramID:  s.ProgramID,
			Name:       s.Name,
			Hosts:      hosts,
			LocationID: locationID,
			Tags:       []string(s.Tags),
			Capacity:   ResolveCapacity(s, exc),
		}
		if summary := summariesByID[session.SessionID]; summary != nil {
			session.BookedCount = summary.BookedCount
			session.WaitlistCount = summary.WaitlistCount
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// SortSessions orders sessions ascending by absolute start.
func SortSessions(sessions []models.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Start.Before(sessions[j].Start)
	})
}
