// Package calendar turns a parsed schedule into an iCalendar document.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/shiftcal/shiftcal/internal/models"
)

// ErrUnknownEmployee is returned when the requested employee has no row in
// the schedule.
var ErrUnknownEmployee = errors.New("employee not found in schedule")

const productID = "-//shiftcal//Shift Schedule Converter//EN"

// Build creates a calendar for one employee's schedule. Each day with a
// shift code becomes one event:
//
//   - a code mapped to "HHMM-HHMM" becomes a timed "Work Shift: <CODE>"
//     event; an end hour before the start hour rolls the end to the next day
//     (night shifts),
//   - a code mapped to OFF becomes an all-day "OFF" event,
//   - an unmapped code becomes an all-day "Unknown Shift: <CODE>" event.
func Build(sched *models.Schedule, employee string, shifts models.ShiftMap) (*ics.Calendar, error) {
	if !sched.HasEmployee(employee) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEmployee, employee)
	}

	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ics.MethodPublish)

	now := time.Now()
	for i, date := range sched.Dates {
		code := strings.ToUpper(strings.TrimSpace(sched.ShiftCode(employee, date)))
		if code == "" {
			continue
		}

		uid := fmt.Sprintf("%d-%s@shiftcal", i, code)
		rng, ok := shifts.Lookup(code)
		switch {
		case !ok:
			ev := cal.AddEvent(uid)
			ev.SetSummary("Unknown Shift: " + code)
			ev.SetAllDayStartAt(date)
			ev.SetAllDayEndAt(date.AddDate(0, 0, 1))
			ev.SetDtStampTime(now)
		case rng == models.OffShift:
			ev := cal.AddEvent(uid)
			ev.SetSummary("OFF")
			ev.SetAllDayStartAt(date)
			ev.SetAllDayEndAt(date.AddDate(0, 0, 1))
			ev.SetDtStampTime(now)
		default:
			start, end, err := shiftTimes(rng, date)
			if err != nil {
				return nil, fmt.Errorf("shift %s on %s: %w", code, date.Format(models.DateKeyLayout), err)
			}
			ev := cal.AddEvent(uid)
			ev.SetSummary("Work Shift: " + code)
			ev.SetStartAt(start)
			ev.SetEndAt(end)
			ev.SetDtStampTime(now)
		}
	}

	return cal, nil
}

// shiftTimes resolves an "HHMM-HHMM" range against a date. An end hour
// earlier than the start hour means the shift crosses midnight.
func shiftTimes(rng string, date time.Time) (time.Time, time.Time, error) {
	startStr, endStr, ok := strings.Cut(rng, "-")
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time range %q", rng)
	}

	start, err := atClock(date, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := atClock(date, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Hour() < start.Hour() {
		end = end.AddDate(0, 0, 1)
	}

	return start, end, nil
}

// atClock combines a date with an "HHMM" clock value.
func atClock(date time.Time, clock string) (time.Time, error) {
	if len(clock) != 4 {
		return time.Time{}, fmt.Errorf("invalid clock value %q", clock)
	}
	hours, err := strconv.Atoi(clock[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q", clock)
	}
	minutes, err := strconv.Atoi(clock[2:])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q", clock)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hours, minutes, 0, 0, date.Location()), nil
}
