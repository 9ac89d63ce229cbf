package schedule

import (
	"strings"
	"time"
)

// Plan is the operating schedule of a vessel on a route: the weekdays it
// sails and its fixed departure times.
type Plan struct {
	OperatingDays  []string
	DepartureTimes []ClockTime
}

// NewPlan builds a plan from raw weekday names and "HH:MM" strings.
func NewPlan(days []string, times []string) (Plan, error) {
	nd, err := NormalizeWeekdays(days)
	if err != nil {
		return Plan{}, err
	}
	nt, err := ParseClocks(times)
	if err != nil {
		return Plan{}, err
	}
	return Plan{OperatingDays: nd, DepartureTimes: nt}, nil
}

// IsOperatingDay reports whether date falls on one of the plan's weekdays.
// A plan without weekdays has no restriction and accepts every date.
func IsOperatingDay(p Plan, date time.Time) bool {
	if len(p.OperatingDays) == 0 {
		return true
	}
	want := WeekdayName(date.Weekday())
	for _, d := range p.OperatingDays {
		if NormalizeWeekday(d) == want {
			return true
		}
	}
	return false
}

// DepartureTimesFor returns the configured departure times as stored.
func DepartureTimesFor(p Plan) []ClockTime {
	out := make([]ClockTime, len(p.DepartureTimes))
	copy(out, p.DepartureTimes)
	return out
}

// HasDeparture reports whether t is one of the plan's departure times.
func HasDeparture(p Plan, t ClockTime) bool {
	for _, dt := range p.DepartureTimes {
		if dt == t {
			return true
		}
	}
	return false
}

// DayList joins the normalized weekdays for storage.
func (p Plan) DayList() string {
	return strings.Join(p.OperatingDays, ",")
}

// TimeList joins the departure times for storage.
func (p Plan) TimeList() string {
	parts := make([]string, len(p.DepartureTimes))
	for i, t := range p.DepartureTimes {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// TimeStrings returns the departure times formatted as HH:MM.
func (p Plan) TimeStrings() []string {
	parts := make([]string, len(p.DepartureTimes))
	for i, t := range p.DepartureTimes {
		parts[i] = t.String()
	}
	return parts
}

// SplitList splits a comma separated storage column, dropping blanks.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
