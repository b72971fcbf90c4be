package models

import "time"

// EventType identifies a domain event emitted by the booking ledger.
type EventType string

const (
	EventBookingRequested EventType = "booking.requested"
	EventBookingAccepted  EventType = "booking.accepted"
	EventBookingDeclined  EventType = "booking.declined"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
	EventRouteCancelled   EventType = "route.cancelled"
	EventRouteCompleted   EventType = "route.completed"
)

// Event is handed to the notification sink after a successful mutation.
// Delivery is fire-and-forget; the ledger never blocks on it.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	RouteID   string         `json:"route_id,omitempty"`
	BookingID string         `json:"booking_id,omitempty"`
	ActorID   string         `json:"actor_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
