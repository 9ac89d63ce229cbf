package services

import (
	"fmt"
	"time"

	gormModels "river-transit/ticketdesk/internal/models/gorm"
	"river-transit/ticketdesk/internal/schedule"
)

// checkSchedule verifies that the assignment sails on date at clock and
// returns the departure time in canonical HH:MM form.
func checkSchedule(a *gormModels.VesselAssignment, date time.Time, clock schedule.ClockTime) (string, error) {
	plan, err := a.Plan()
	if err != nil {
		return "", fmt.Errorf("assignment %s has an invalid schedule: %w", a.ID, err)
	}

	if !schedule.IsOperatingDay(plan, date) {
		return "", &ScheduleMismatchError{
			Date:          schedule.FormatDate(date),
			Time:          clock.String(),
			Weekday:       schedule.WeekdayName(date.Weekday()),
			WrongDay:      true,
			ValidWeekdays: plan.OperatingDays,
			ValidTimes:    plan.TimeStrings(),
		}
	}
	if !schedule.HasDeparture(plan, clock) {
		return "", &ScheduleMismatchError{
			Date:          schedule.FormatDate(date),
			Time:          clock.String(),
			Weekday:       schedule.WeekdayName(date.Weekday()),
			ValidWeekdays: plan.OperatingDays,
			ValidTimes:    plan.TimeStrings(),
		}
	}
	return clock.String(), nil
}

// parseDeparture validates the date and time fields of a request.
func parseDeparture(v *ValidationError, date, clock string) (time.Time, schedule.ClockTime) {
	d, err := schedule.ParseDate(date)
	if err != nil {
		v.Add("date", "must be YYYY-MM-DD")
	}
	c, err := schedule.ParseClock(clock)
	if err != nil {
		v.Add("time", "must be HH:MM")
	}
	return d, c
}
