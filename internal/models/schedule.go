package models

import (
	"sort"
	"time"
)

// DateKeyLayout is the key format used for per-day shift lookups.
const DateKeyLayout = "2006-01-02"

// Schedule is the parsed contents of a shift roster workbook: the date
// columns that were detected, the employees found in the grid, and each
// employee's raw shift code per day.
type Schedule struct {
	Dates     []time.Time                  `json:"dates" msgpack:"dates"`
	Employees []string                     `json:"employees" msgpack:"employees"`
	Shifts    map[string]map[string]string `json:"shifts" msgpack:"shifts"` // employee -> date key -> raw code
}

// NewSchedule creates an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{
		Shifts: make(map[string]map[string]string),
	}
}

// StartDate returns the earliest date column, or the zero time if the
// schedule has no dates.
func (s *Schedule) StartDate() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[0]
}

// HasEmployee reports whether the schedule contains a row for name.
func (s *Schedule) HasEmployee(name string) bool {
	_, ok := s.Shifts[name]
	return ok
}

// ShiftCode returns the raw shift code for an employee on a given date.
// An empty string means no assignment for that day.
func (s *Schedule) ShiftCode(employee string, date time.Time) string {
	row, ok := s.Shifts[employee]
	if !ok {
		return ""
	}
	return row[date.Format(DateKeyLayout)]
}

// SetShift records a raw shift code for an employee on a given date,
// registering the employee row if it does not exist yet.
func (s *Schedule) SetShift(employee string, date time.Time, code string) {
	row, ok := s.Shifts[employee]
	if !ok {
		row = make(map[string]string)
		s.Shifts[employee] = row
	}
	row[date.Format(DateKeyLayout)] = code
}

// SortDates orders the date columns ascending. Parsers call this once after
// all columns have been collected.
func (s *Schedule) SortDates() {
	sort.Slice(s.Dates, func(i, j int) bool {
		return s.Dates[i].Before(s.Dates[j])
	})
}
