// internal/clock/clock.go
package clock

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Wall-clock layouts accepted for schedule templates and overrides.
const (
	LayoutLocal     = "2006-01-02T15:04:05"
	LayoutLocalMin  = "2006-01-02T15:04"
	LayoutLocalDate = "2006-01-02"
)

var ErrBadDateTime = errors.New("invalid datetime")

// LoadZone resolves an IANA zone name.
func LoadZone(zone string) (*time.Location, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrBadDateTime, zone)
	}
	return loc, nil
}

// ParseLocal parses s into an absolute instant. Strings carrying a Z suffix or an
// explicit offset are parsed as absolute; otherwise the numeric components are
// interpreted as wall-clock time in zone.
func ParseLocal(s, zone string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty datetime", ErrBadDateTime)
	}

	if hasExplicitOffset(s) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDateTime, s)
	}

	loc, err := LoadZone(zone)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range []string{LayoutLocal, LayoutLocalMin, LayoutLocalDate} {
		if t, perr := time.ParseInLocation(layout, s, loc); perr == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDateTime, s)
}

// hasExplicitOffset reports whether s ends in Z or a ±HH:MM zone offset.
func hasExplicitOffset(s string) bool {
	if strings.HasSuffix(s, "Z") {
		return true
	}
	// An offset only appears after the time-of-day separator; a bare date's
	// dashes must not count.
	if idx := strings.IndexByte(s, 'T'); idx >= 0 {
		rest := s[idx+1:]
		return strings.ContainsAny(rest, "+-")
	}
	return false
}

// AbsoluteToNaive re-expresses t's wall clock in zone as a datetime whose
// components are carried in UTC. This is the intermediate representation the
// recurrence expander works in.
func AbsoluteToNaive(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), lt.Hour(), lt.Minute(), lt.Second(), 0, time.UTC)
}

// NaiveToAbsolute is the inverse of AbsoluteToNaive. On a backward DST
// transition producing an ambiguous wall clock, the earlier instant is chosen
// (Go's time.Date resolution); on a spring-forward gap the time is pushed past
// the gap.
func NaiveToAbsolute(naive time.Time, loc *time.Location) time.Time {
	t := time.Date(naive.Year(), naive.Month(), naive.Day(), naive.Hour(), naive.Minute(), naive.Second(), 0, loc)
	if lt := t.In(loc); lt.Hour() != naive.Hour() || lt.Minute() != naive.Minute() {
		// naive names a wall clock skipped by a spring-forward gap; time.Date may
		// resolve it to either side, so take the reading that lands past the gap.
		_, offset := t.Zone()
		alt := time.Date(naive.Year(), naive.Month(), naive.Day(), naive.Hour(), naive.Minute(), naive.Second(), 0, time.UTC).
			Add(-time.Duration(offset) * time.Second).In(loc)
		if alt.After(t) {
			t = alt
		}
	}
	return t
}

// FormatLocalDate renders t's wall-clock date in zone as YYYY-MM-DD.
func FormatLocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(LayoutLocalDate)
}

// FormatLocalTime renders t in zone using the given layout.
func FormatLocalTime(t time.Time, loc *time.Location, layout string) string {
	return t.In(loc).Format(layout)
}

// ParseLocalDate parses a YYYY-MM-DD string as local midnight in zone.
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(LayoutLocalDate, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDateTime, s)
	}
	return t, nil
}
