package calendar

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]+`)

// DownloadFilename derives the attachment filename for an employee's
// calendar: non-alphanumeric runs collapse to a single underscore and the
// name is suffixed with "_schedule.ics". A name with no alphanumerics falls
// back to the base "schedule", matching the client's sanitizer.
func DownloadFilename(employee string) string {
	base := strings.Trim(nonAlphanumeric.ReplaceAllString(employee, "_"), "_")
	if base == "" {
		base = "schedule"
	}
	return base + "_schedule.ics"
}
