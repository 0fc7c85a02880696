// Package schedule parses shift roster workbooks into schedule models.
package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shiftcal/shiftcal/internal/models"
	"github.com/xuri/excelize/v2"
)

// dateLayouts are the header formats we accept for date columns. Excelize
// returns formatted cell strings, so the short US styles Excel applies to
// date cells are included alongside ISO.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"Jan 2, 2006",
	"2 Jan 2006",
	"Jan-02-06",
}

// minDateSerial guards Excel serial date detection: small integers in the
// grid are shift codes ("5", "9", "13"), not dates. 20000 ≈ year 1954.
const minDateSerial = 20000

type dateColumn struct {
	index int
	date  time.Time
}

// ParseWorkbook reads the first sheet of an .xlsx roster and extracts the
// date columns, employee names and per-day shift codes.
//
// Date columns are detected in the header row; if none are found there, the
// first data row is checked and, on a hit, promoted to header (some rosters
// put a title row above the dates). All dates are normalized to the current
// year. Employee names are the trimmed, non-empty values in non-date columns
// that are neither all-uppercase nor known shift codes.
func ParseWorkbook(path string, shifts models.ShiftMap) (*models.Schedule, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("workbook has no data rows")
	}

	return parseRows(rows, shifts, time.Now().Year())
}

// parseRows implements the grid scan on raw string rows. Split out from
// ParseWorkbook so tests can drive it without building workbook files.
func parseRows(rows [][]string, shifts models.ShiftMap, currentYear int) (*models.Schedule, error) {
	header := 0
	dateCols := detectDateColumns(rows[header], currentYear)
	if len(dateCols) == 0 && len(rows) > 1 {
		// No dates in the header; try the first data row.
		dateCols = detectDateColumns(rows[1], currentYear)
		if len(dateCols) > 0 {
			header = 1
		}
	}
	if len(dateCols) == 0 {
		return nil, fmt.Errorf("no date columns found: expected dates in the header row or first data row")
	}

	isDateCol := make(map[int]bool, len(dateCols))
	for _, dc := range dateCols {
		isDateCol[dc.index] = true
	}

	sched := models.NewSchedule()
	for _, dc := range dateCols {
		sched.Dates = append(sched.Dates, dc.date)
	}
	sched.SortDates()

	seen := make(map[string]bool)
	for _, row := range rows[header+1:] {
		name := employeeName(row, isDateCol, shifts)
		if name == "" {
			continue
		}
		if !seen[name] {
			seen[name] = true
			sched.Employees = append(sched.Employees, name)
		}
		for _, dc := range dateCols {
			if dc.index >= len(row) {
				continue
			}
			code := strings.TrimSpace(row[dc.index])
			if code == "" {
				continue
			}
			sched.SetShift(name, dc.date, code)
		}
	}

	if len(sched.Employees) == 0 {
		return nil, fmt.Errorf("no employees found in the workbook")
	}
	sort.Strings(sched.Employees)

	return sched, nil
}

// detectDateColumns returns the cells of a row that parse as dates, with
// years normalized to currentYear.
func detectDateColumns(row []string, currentYear int) []dateColumn {
	var cols []dateColumn
	for i, cell := range row {
		d, ok := parseDateCell(cell)
		if !ok {
			continue
		}
		if d.Year() != currentYear {
			d = time.Date(currentYear, d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		}
		cols = append(cols, dateColumn{index: i, date: d})
	}
	return cols
}

// parseDateCell tries the known layouts, then falls back to Excel serial
// numbers for unformatted date cells.
func parseDateCell(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Truncate(24 * time.Hour), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minDateSerial {
		if d, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return d.Truncate(24 * time.Hour), true
		}
	}
	return time.Time{}, false
}

// employeeName scans the non-date cells of a row for a name: non-empty,
// not all-uppercase (shift codes and section headings are uppercase), and
// not a known shift code.
func employeeName(row []string, isDateCol map[int]bool, shifts models.ShiftMap) string {
	for i, cell := range row {
		if isDateCol[i] {
			continue
		}
		v := strings.TrimSpace(cell)
		if v == "" {
			continue
		}
		if isAllUpper(v) {
			continue
		}
		if _, ok := shifts.Lookup(v); ok {
			continue
		}
		return v
	}
	return ""
}

// isAllUpper reports whether s contains at least one letter and no lowercase
// letters, mirroring Python's str.isupper used by the reference roster tool.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		}
	}
	return hasLetter
}

