package models

import (
	"fmt"
	"regexp"
	"strings"
)

// OffShift marks a shift code as a day off rather than a timed range.
const OffShift = "OFF"

// timeRangePattern matches "HHMM-HHMM" with valid hours and minutes.
var timeRangePattern = regexp.MustCompile(`^(?:[01][0-9]|2[0-3])[0-5][0-9]-(?:[01][0-9]|2[0-3])[0-5][0-9]$`)

// ShiftMap maps a shift code (e.g. "A", "N", "OFF") to its time range in
// "HHMM-HHMM" form, or to OffShift for non-working days.
type ShiftMap map[string]string

// Lookup returns the time range for a code.
func (m ShiftMap) Lookup(code string) (string, bool) {
	rng, ok := m[code]
	return rng, ok
}

// Validate checks that every code is non-empty and every value is either
// OffShift or a well-formed HHMM-HHMM range.
func (m ShiftMap) Validate() error {
	for code, rng := range m {
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("empty shift code")
		}
		if rng == OffShift {
			continue
		}
		if !timeRangePattern.MatchString(rng) {
			return fmt.Errorf("shift %q: invalid time range %q (expected HHMM-HHMM or OFF)", code, rng)
		}
	}
	return nil
}

// Clone returns a copy of the map so callers can hand it out without
// exposing internal state to mutation.
func (m ShiftMap) Clone() ShiftMap {
	out := make(ShiftMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
