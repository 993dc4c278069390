package services

import (
	"strings"
	"time"

	"legalcase_app_go/models"
)

// DateLayout is the calendar date format accepted by filters and imports
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date at midnight UTC. A malformed value is a
// ValidationError on field.
func ParseDate(field, value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, models.NewValidationError(field, "must be YYYY-MM-DD")
	}
	return parsed, nil
}

// EndOfDay returns the last nanosecond of the day t falls on
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).Add(24*time.Hour - time.Nanosecond)
}
