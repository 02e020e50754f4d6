package types

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// HoursState is the outcome of checking an opening-hours entry for a
// specific weekday and time of day.
type HoursState int

const (
	// HoursUnknown means no usable data for that weekday. Consumers
	// choose the default: the planner assumes open, the nearby search
	// assumes closed.
	HoursUnknown HoursState = iota
	HoursOpen
	HoursClosed
)

var weekdayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

var hoursSpanRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})-(\d{1,2}):(\d{2})$`)

// WeekdayKey returns the short key ("sun".."sat") used in opening-hours
// maps for the given weekday.
func WeekdayKey(d time.Weekday) string {
	return weekdayKeys[int(d)%7]
}

// OpeningState checks whether hours mark the place open at the given
// weekday and minute-of-day. Entries are comma-separated
// "HH:MM-HH:MM" spans or the literal "closed". Spans whose end is
// before their start wrap past midnight.
func OpeningState(hours map[string]string, day time.Weekday, minuteOfDay int) HoursState {
	if len(hours) == 0 {
		return HoursUnknown
	}
	spec, ok := hours[WeekdayKey(day)]
	if !ok || strings.TrimSpace(spec) == "" {
		return HoursUnknown
	}
	if strings.Contains(strings.ToLower(spec), "closed") {
		return HoursClosed
	}
	sawSpan := false
	for _, raw := range strings.Split(spec, ",") {
		m := hoursSpanRe.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		sawSpan = true
		start := atoiUnchecked(m[1])*60 + atoiUnchecked(m[2])
		end := atoiUnchecked(m[3])*60 + atoiUnchecked(m[4])
		if end < start {
			// wraps past midnight, e.g. 18:00-01:00
			if minuteOfDay >= start || minuteOfDay <= end {
				return HoursOpen
			}
			continue
		}
		if minuteOfDay >= start && minuteOfDay <= end {
			return HoursOpen
		}
	}
	if !sawSpan {
		return HoursUnknown
	}
	return HoursClosed
}

// IsOpenNow is the nearby-search view of OpeningState: unknown data
// counts as not open so the "open now" filter never advertises a place
// it cannot vouch for.
func IsOpenNow(hours map[string]string, now time.Time) bool {
	return OpeningState(hours, now.Weekday(), now.Hour()*60+now.Minute()) == HoursOpen
}

func atoiUnchecked(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
