package models

import "time"

// BookingStatus is the booking-level lifecycle state.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingDeclined  BookingStatus = "declined"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Terminal reports whether the booking can no longer change state.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingDeclined, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// CanTransition validates the booking state machine:
// pending -> accepted|declined|cancelled, accepted -> cancelled|completed.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case BookingPending:
		return to == BookingAccepted || to == BookingDeclined || to == BookingCancelled
	case BookingAccepted:
		return to == BookingCancelled || to == BookingCompleted
	}
	return false
}

// Booking is a buddy's claim against a route. It holds exactly one seat from
// request time until it reaches a terminal state (or acceptance makes the
// hold permanent). RiderID is a denormalized copy of the route owner at
// booking time.
type Booking struct {
	ID          string        `json:"id"`
	RouteID     string        `json:"route_id"`
	BuddyID     string        `json:"buddy_id"`
	RiderID     string        `json:"rider_id"`
	Status      BookingStatus `json:"status"`
	RequestedAt time.Time     `json:"requested_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
