package repositories

import (
	"time"

	"broride/internal/domain/models"
)

// RouteStore is the storage boundary for the route catalog. The memory
// implementation backs tests and single-node deployments; the MySQL
// implementation backs production. Seat arithmetic must be atomic with
// respect to concurrent callers in every implementation.
type RouteStore interface {
	CreateRoute(r models.Route) (models.Route, error)
	GetRoute(id string) (models.Route, error)
	ListRoutes() ([]models.Route, error)

	// TryHoldSeat atomically checks status==available && available_seats>0,
	// decrements the count and flips the route to full when it hits zero.
	TryHoldSeat(id string) (models.Route, error)

	// ReleaseSeat atomically increments available_seats (capped at capacity)
	// and flips a full route back to available. Cancelled/completed routes
	// keep their status; only the count moves.
	ReleaseSeat(id string) (models.Route, error)

	// SetRouteStatus applies a direct status change, rejecting transitions
	// out of terminal states.
	SetRouteStatus(id string, status models.RouteStatus) (models.Route, error)
}

// BookingStore is the storage boundary for booking records. Bookings are
// never deleted; terminal states are immutable (enforced by the coordinator
// under its per-route lock).
type BookingStore interface {
	// CreateBooking inserts a new booking, rejecting it with
	// AlreadyRequestedError when the buddy already has a non-terminal
	// booking on the same route.
	CreateBooking(b models.Booking) (models.Booking, error)
	GetBooking(id string) (models.Booking, error)
	UpdateBookingStatus(id string, status models.BookingStatus, at time.Time) (models.Booking, error)
	ListBookingsByRoute(routeID string) ([]models.Booking, error)
	ListBookingsByUser(userID string, role models.Role) ([]models.Booking, error)
}
