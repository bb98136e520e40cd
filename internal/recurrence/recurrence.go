// internal/recurrence/recurrence.go
package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// The supported RFC 5545 profile: FREQ of DAILY/WEEKLY/MONTHLY, INTERVAL,
// BYDAY (WEEKLY only, plain two-letter days), BYMONTHDAY (MONTHLY only),
// UNTIL, COUNT. Everything else is rejected.

var ErrUnsupportedRule = errors.New("unsupported recurrence rule")

var weekdays = map[string]rrule.Weekday{
	"MO": rrule.MO,
	"TU": rrule.TU,
	"WE": rrule.WE,
	"TH": rrule.TH,
	"FR": rrule.FR,
	"SA": rrule.SA,
	"SU": rrule.SU,
}

// Rule is a validated recurrence rule within the supported profile.
type Rule struct {
	Freq       rrule.Frequency
	Interval   int
	ByDay      []rrule.Weekday
	ByMonthDay []int
	Until      *time.Time
	Count      int
}

// Parse validates ruleStr against the supported profile and returns the
// parsed rule. A leading "RRULE:" prefix is accepted and stripped.
func Parse(ruleStr string) (*Rule, error) {
	body := strings.TrimSpace(ruleStr)
	body = strings.TrimPrefix(body, "RRULE:")
	if body == "" {
		return nil, fmt.Errorf("%w: empty rule", ErrUnsupportedRule)
	}

	rule := &Rule{Interval: 1}
	seenFreq := false

	for _, part := range strings.Split(body, ";") {
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("%w: malformed component %q", ErrUnsupportedRule, part)
		}
		key, value := strings.ToUpper(strings.TrimSpace(kv[0])), strings.TrimSpace(kv[1])

		switch key {
		case "FREQ":
			seenFreq = true
			switch strings.ToUpper(value) {
			case "DAILY":
				rule.Freq = rrule.DAILY
			case "WEEKLY":
				rule.Freq = rrule.WEEKLY
			case "MONTHLY":
				rule.Freq = rrule.MONTHLY
			default:
				return nil, fmt.Errorf("%w: FREQ=%s", ErrUnsupportedRule, value)
			}
		case "INTERVAL":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: INTERVAL=%s", ErrUnsupportedRule, value)
			}
			rule.Interval = n
		case "BYDAY":
			for _, day := range strings.Split(value, ",") {
				wd, ok := weekdays[strings.ToUpper(strings.TrimSpace(day))]
				if !ok {
					// Rejects ordinal forms like 2FR / -1SU along with typos.
					return nil, fmt.Errorf("%w: BYDAY=%s", ErrUnsupportedRule, day)
				}
				rule.ByDay = append(rule.ByDay, wd)
			}
		case "BYMONTHDAY":
			for _, dayStr := range strings.Split(value, ",") {
				n, err := strconv.Atoi(strings.TrimSpace(dayStr))
				if err != nil || n < 1 || n > 31 {
					return nil, fmt.Errorf("%w: BYMONTHDAY=%s", ErrUnsupportedRule, dayStr)
				}
				rule.ByMonthDay = append(rule.ByMonthDay, n)
			}
		case "UNTIL":
			t, err := parseUntil(value)
			if err != nil {
				return nil, err
			}
			rule.Until = &t
		case "COUNT":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: COUNT=%s", ErrUnsupportedRule, value)
			}
			rule.Count = n
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedRule, key)
		}
	}

	if !seenFreq {
		return nil, fmt.Errorf("%w: missing FREQ", ErrUnsupportedRule)
	}
	if rule.Freq == rrule.WEEKLY && len(rule.ByDay) == 0 {
		return nil, fmt.Errorf("%w: WEEKLY requires BYDAY", ErrUnsupportedRule)
	}
	if rule.Freq != rrule.WEEKLY && len(rule.ByDay) > 0 {
		return nil, fmt.Errorf("%w: BYDAY is only supported with FREQ=WEEKLY", ErrUnsupportedRule)
	}
	if rule.Freq != rrule.MONTHLY && len(rule.ByMonthDay) > 0 {
		return nil, fmt.Errorf("%w: BYMONTHDAY is only supported with FREQ=MONTHLY", ErrUnsupportedRule)
	}
	return rule, nil
}

func parseUntil(value string) (time.Time, error) {
	for _, layout := range []string{"20060102T150405Z", "20060102", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: UNTIL=%s", ErrUnsupportedRule, value)
}

// Validate reports whether ruleStr falls inside the supported profile.
func Validate(ruleStr string) error {
	_, err := Parse(ruleStr)
	return err
}

// Expand produces the naive occurrence datetimes of ruleStr that fall within
// [fromNaive, toNaive], inclusive of both endpoints. All three time arguments
// are naive (wall-clock components carried in UTC); BYDAY therefore matches
// the schedule's local weekdays.
func Expand(ruleStr string, dtstartNaive, fromNaive, toNaive time.Time) ([]time.Time, error) {
	rule, err := Parse(ruleStr)
	if err != nil {
		return nil, err
	}

	opt := rrule.ROption{
		Freq:       rule.Freq,
		Interval:   rule.Interval,
		Byweekday:  rule.ByDay,
		Bymonthday: rule.ByMonthDay,
		Count:      rule.Count,
		Dtstart:    dtstartNaive.UTC(),
	}
	if rule.Until != nil {
		opt.Until = *rule.Until
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedRule, err)
	}
	return r.Between(fromNaive.UTC(), toNaive.UTC(), true), nil
}
