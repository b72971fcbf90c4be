package repositories

import (
	"sync"
	"time"

	"broride/internal/domain"
	"broride/internal/domain/models"
)

// MemoryStore keeps the whole ledger in mutex-guarded maps. It satisfies
// both RouteStore and BookingStore and is the storage used in tests and
// when STORE_DRIVER=memory. All values are copied in and out so callers
// never share mutable state with the store.
type MemoryStore struct {
	mu       sync.Mutex
	routes   map[string]models.Route
	bookings map[string]models.Booking

	routeOrder   []string
	bookingOrder []string
	seq          int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		routes:   map[string]models.Route{},
		bookings: map[string]models.Booking{},
	}
}

func (s *MemoryStore) CreateRoute(r models.Route) (models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	r.Seq = s.seq
	r.Days = append([]string(nil), r.Days...)
	s.routes[r.ID] = r
	s.routeOrder = append(s.routeOrder, r.ID)
	return copyRoute(r), nil
}

func (s *MemoryStore) GetRoute(id string) (models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.routes[id]
	if !ok {
		return models.Route{}, domain.NotFoundError{Resource: "route", ID: id}
	}
	return copyRoute(r), nil
}

func (s *MemoryStore) ListRoutes() ([]models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Route, 0, len(s.routeOrder))
	for _, id := range s.routeOrder {
		out = append(out, copyRoute(s.routes[id]))
	}
	return out, nil
}

func (s *MemoryStore) TryHoldSeat(id string) (models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.routes[id]
	if !ok {
		return models.Route{}, domain.NotFoundError{Resource: "route", ID: id}
	}
	if r.Status != models.RouteAvailable {
		if r.Status == models.RouteFull {
			return models.Route{}, domain.SeatsExhaustedError{RouteID: id}
		}
		return models.Route{}, domain.NotBookableError{RouteID: id, Status: string(r.Status)}
	}
	if r.AvailableSeats <= 0 {
		return models.Route{}, domain.SeatsExhaustedError{RouteID: id}
	}

	r.AvailableSeats--
	if r.AvailableSeats == 0 {
		r.Status = models.RouteFull
	}
	s.routes[id] = r
	return copyRoute(r), nil
}

func (s *MemoryStore) ReleaseSeat(id string) (models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.routes[id]
	if !ok {
		return models.Route{}, domain.NotFoundError{Resource: "route", ID: id}
	}
	if r.AvailableSeats < r.Capacity {
		r.AvailableSeats++
	}
	if r.Status == models.RouteFull {
		r.Status = models.RouteAvailable
	}
	s.routes[id] = r
	return copyRoute(r), nil
}

func (s *MemoryStore) SetRouteStatus(id string, status models.RouteStatus) (models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.routes[id]
	if !ok {
		return models.Route{}, domain.NotFoundError{Resource: "route", ID: id}
	}
	if r.Status.Terminal() {
		return models.Route{}, domain.InvalidStateError{
			Resource: "route",
			From:     string(r.Status),
			To:       string(status),
		}
	}
	r.Status = status
	s.routes[id] = r
	return copyRoute(r), nil
}

func (s *MemoryStore) CreateBooking(b models.Booking) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.bookingOrder {
		existing := s.bookings[id]
		if existing.RouteID == b.RouteID && existing.BuddyID == b.BuddyID && !existing.Status.Terminal() {
			return models.Booking{}, domain.AlreadyRequestedError{RouteID: b.RouteID, BuddyID: b.BuddyID}
		}
	}

	s.bookings[b.ID] = b
	s.bookingOrder = append(s.bookingOrder, b.ID)
	return b, nil
}

func (s *MemoryStore) GetBooking(id string) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", ID: id}
	}
	return b, nil
}

func (s *MemoryStore) UpdateBookingStatus(id string, status models.BookingStatus, at time.Time) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", ID: id}
	}
	b.Status = status
	b.UpdatedAt = at
	s.bookings[id] = b
	return b, nil
}

func (s *MemoryStore) ListBookingsByRoute(routeID string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Booking{}
	for _, id := range s.bookingOrder {
		if b := s.bookings[id]; b.RouteID == routeID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListBookingsByUser(userID string, role models.Role) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Booking{}
	for _, id := range s.bookingOrder {
		b := s.bookings[id]
		switch role {
		case models.RoleBuddy:
			if b.BuddyID == userID {
				out = append(out, b)
			}
		case models.RoleRider:
			if b.RiderID == userID {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func copyRoute(r models.Route) models.Route {
	r.Days = append([]string(nil), r.Days...)
	return r
}
