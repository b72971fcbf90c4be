package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseClock parses a "HH:MM" time-of-day into minutes since midnight.
// Accepts "8:05" as well as "08:05".
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockDistance returns the shortest distance between two minute-of-day
// values on a modular 1440-minute clock, so 23:50 and 00:10 are 20 minutes
// apart rather than 1420.
func ClockDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	d %= minutesPerDay
	if d > minutesPerDay/2 {
		d = minutesPerDay - d
	}
	return d
}
