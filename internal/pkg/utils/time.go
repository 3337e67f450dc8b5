package utils

import (
	"clinic-service/internal/pkg/constvars"
	"strings"
	"time"
)

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(constvars.DateLayout, strings.TrimSpace(value), time.UTC)
}

// TruncateToDate drops the clock part and pins the date to UTC.
func TruncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(constvars.DateLayout)
}
