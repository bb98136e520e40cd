// internal/scheduling/filters.go
package scheduling

import (
	"strings"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/clock"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/models"
)

// Filters narrows materialized sessions after expansion. Date bounds are
// local YYYY-MM-DD strings compared against the session's own date field;
// StartTime/EndTime are HH:MM bounds on the local wall-clock start.
type Filters struct {
	StartDate   string
	EndDate     string
	ProgramIDs  []string
	Type        string
	HostID      string
	LocationID  string
	StartTime   string
	EndTime     string
}

// Apply filters sessions in place order, returning only those that match.
func (f Filters) Apply(sessions []models.Session) []models.Session {
	out := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if f.matches(s) {
			out = append(out, s)
		}
	}
	return out
}

func (f Filters) matches(s models.Session) bool {
	// ISO dates compare correctly as strings.
	if f.StartDate != "" && s.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && s.Date > f.EndDate {
		return false
	}
	if len(f.ProgramIDs) > 0 && !contains(f.ProgramIDs, s.ProgramID) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(f.Type, string(s.Type)) {
		return false
	}
	if f.HostID != "" && !hasHost(s.Hosts, f.HostID) {
		return false
	}
	if f.LocationID != "" && s.LocationID != f.LocationID {
		return false
	}
	if f.StartTime != "" || f.EndTime != "" {
		loc, err := clock.LoadZone(s.Timezone)
		if err != nil {
			return false
		}
		localStart := clock.FormatLocalTime(s.Start, loc, "15:04")
		if f.StartTime != "" && localStart < f.StartTime {
			return false
		}
		if f.EndTime != "" && localStart > f.EndTime {
			return false
		}
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func hasHost(hosts []models.HostRef, id string) bool {
	for _, h := range hosts {
		if h.ID == id {
			return true
		}
	}
	return false
}
