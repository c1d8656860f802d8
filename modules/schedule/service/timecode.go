package service

import (
	"fmt"
	"time"
)

// ToMinuteOfDay converts a wall-clock timestamp to minutes since midnight,
// range [0, 1439]. Timestamps are always interpreted in UTC, not the event's
// or participant's local zone; cross-zone scheduling is not supported yet.
// Seconds are discarded.
func ToMinuteOfDay(t time.Time) int {
	utc := t.UTC()
	return utc.Hour()*60 + utc.Minute()
}

// FormatMinuteOfDay renders a minute-of-day value as "HH:MM".
func FormatMinuteOfDay(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
