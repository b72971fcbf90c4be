package models

import (
	"strings"
	"time"
)

// RouteStatus is the route-level lifecycle state. "full" is derived from the
// seat count and flips back to "available" when a held seat is released.
type RouteStatus string

const (
	RouteAvailable RouteStatus = "available"
	RouteFull      RouteStatus = "full"
	RouteCancelled RouteStatus = "cancelled"
	RouteCompleted RouteStatus = "completed"
)

// Terminal reports whether no further transitions are allowed.
func (s RouteStatus) Terminal() bool {
	return s == RouteCancelled || s == RouteCompleted
}

// Valid reports whether s is a known route status.
func (s RouteStatus) Valid() bool {
	switch s {
	case RouteAvailable, RouteFull, RouteCancelled, RouteCompleted:
		return true
	}
	return false
}

// Route is a recurring ride offer posted by a rider.
// CostPerSeat is in whole INR; nil means the ride is free.
type Route struct {
	ID             string      `json:"id"`
	StartPoint     string      `json:"start_point"`
	Destination    string      `json:"destination"`
	Timing         string      `json:"timing"` // "HH:MM", minute-of-day clock
	Days           []string    `json:"days"`   // lowercase mon..sun
	RiderID        string      `json:"rider_id"`
	Capacity       int         `json:"capacity"`
	AvailableSeats int         `json:"available_seats"`
	CostPerSeat    *int64      `json:"cost_per_seat,omitempty"`
	Status         RouteStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`

	// Seq is the insertion order assigned by the store, used as a
	// deterministic tie-breaker when sorting search results.
	Seq int64 `json:"-"`
}

// HasDay reports whether the route runs on the given (normalized) weekday.
func (r Route) HasDay(day string) bool {
	for _, d := range r.Days {
		if d == day {
			return true
		}
	}
	return false
}

var weekdays = map[string]bool{
	"mon": true, "tue": true, "wed": true, "thu": true,
	"fri": true, "sat": true, "sun": true,
}

// NormalizeDay lowercases and trims a weekday token ("Mon " -> "mon").
// Returns "" when the token is not a known weekday.
func NormalizeDay(day string) string {
	d := strings.ToLower(strings.TrimSpace(day))
	if len(d) > 3 {
		d = d[:3]
	}
	if !weekdays[d] {
		return ""
	}
	return d
}

// NormalizeDays cleans a weekday list, dropping unknown tokens and duplicates
// while keeping the caller's order.
func NormalizeDays(days []string) []string {
	out := make([]string, 0, len(days))
	seen := map[string]bool{}
	for _, day := range days {
		d := NormalizeDay(day)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
