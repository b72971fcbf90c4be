package services

import (
	"sync"

	"broride/internal/domain"
	"broride/internal/domain/models"
	"broride/internal/events"
	"broride/internal/repositories"
	"broride/internal/utils"

	"github.com/google/uuid"
)

// routeLocks serializes booking activity per route. Store-level seat
// arithmetic is already atomic; this lock additionally keeps the whole
// read-check-write sequence of a coordinator operation indivisible, so a
// losing concurrent caller observes a clean SeatsExhausted instead of a
// half-applied state. Held only around in-memory/ledger work, never across
// event delivery.
var routeLocks = struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}{m: map[string]*sync.Mutex{}}

func lockRoute(routeID string) func() {
	routeLocks.mu.Lock()
	l, ok := routeLocks.m[routeID]
	if !ok {
		l = &sync.Mutex{}
		routeLocks.m[routeID] = l
	}
	routeLocks.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// BookingService is the booking coordinator: request/accept/decline/cancel
// lifecycle plus the route-level cancel/complete cascades. It is the only
// writer of seat counts and booking statuses.
type BookingService struct {
	Routes    repositories.RouteStore
	Bookings  repositories.BookingStore
	Events    events.Publisher
	RequestID string
}

func (s BookingService) publisher() events.Publisher {
	if s.Events != nil {
		return s.Events
	}
	return events.LogPublisher{}
}

func (s BookingService) emit(t models.EventType, routeID, bookingID, actorID string, data map[string]any) {
	s.publisher().Publish(models.Event{
		ID:        uuid.NewString(),
		Type:      t,
		RouteID:   routeID,
		BookingID: bookingID,
		ActorID:   actorID,
		Data:      data,
		CreatedAt: utils.NowUTC(),
	})
}

// RequestBooking claims one seat on the route for the buddy. Either the seat
// is held and a pending booking exists, or nothing changed.
func (s BookingService) RequestBooking(routeID, buddyID string) (models.Booking, error) {
	routeID = utils.TrimOrEmpty(routeID)
	buddyID = utils.TrimOrEmpty(buddyID)
	if routeID == "" {
		return models.Booking{}, domain.ValidationError{Field: "route_id", Msg: "must not be empty"}
	}
	if buddyID == "" {
		return models.Booking{}, domain.ValidationError{Field: "buddy_id", Msg: "missing acting user"}
	}

	unlock := lockRoute(routeID)
	defer unlock()

	route, err := s.Routes.GetRoute(routeID)
	if err != nil {
		return models.Booking{}, err
	}
	if route.RiderID == buddyID {
		return models.Booking{}, domain.ForbiddenError{Action: "book their own route", UserID: buddyID}
	}

	if _, err := s.Routes.TryHoldSeat(routeID); err != nil {
		return models.Booking{}, err
	}

	now := utils.NowUTC()
	booking := models.Booking{
		ID:          uuid.NewString(),
		RouteID:     routeID,
		BuddyID:     buddyID,
		RiderID:     route.RiderID,
		Status:      models.BookingPending,
		RequestedAt: now,
		UpdatedAt:   now,
	}
	booking, err = s.Bookings.CreateBooking(booking)
	if err != nil {
		// give the held seat back; the request must be all-or-nothing
		if _, relErr := s.Routes.ReleaseSeat(routeID); relErr != nil {
			utils.LogEvent(s.RequestID, "booking", "release_after_failure", relErr.Error())
		}
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", "requested", "booking_id="+booking.ID+" route_id="+routeID)
	s.emit(models.EventBookingRequested, routeID, booking.ID, buddyID, nil)
	return booking, nil
}

// AcceptBooking confirms a pending booking; the seat stays held permanently.
func (s BookingService) AcceptBooking(bookingID, actingRiderID string) (models.Booking, error) {
	return s.riderTransition(bookingID, actingRiderID, models.BookingAccepted, false, models.EventBookingAccepted)
}

// DeclineBooking rejects a pending booking and releases its held seat.
func (s BookingService) DeclineBooking(bookingID, actingRiderID string) (models.Booking, error) {
	return s.riderTransition(bookingID, actingRiderID, models.BookingDeclined, true, models.EventBookingDeclined)
}

func (s BookingService) riderTransition(bookingID, actingRiderID string, to models.BookingStatus, release bool, evt models.EventType) (models.Booking, error) {
	bookingID = utils.TrimOrEmpty(bookingID)
	actingRiderID = utils.TrimOrEmpty(actingRiderID)
	if bookingID == "" {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "must not be empty"}
	}
	if actingRiderID == "" {
		return models.Booking{}, domain.ValidationError{Field: "rider_id", Msg: "missing acting user"}
	}

	booking, err := s.Bookings.GetBooking(bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	unlock := lockRoute(booking.RouteID)
	defer unlock()

	// re-read under the route lock
	booking, err = s.Bookings.GetBooking(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.RiderID != actingRiderID {
		return models.Booking{}, domain.ForbiddenError{Action: "decide this booking", UserID: actingRiderID}
	}
	if booking.Status != models.BookingPending {
		return models.Booking{}, domain.InvalidStateError{
			Resource: "booking",
			From:     string(booking.Status),
			To:       string(to),
		}
	}

	booking, err = s.Bookings.UpdateBookingStatus(bookingID, to, utils.NowUTC())
	if err != nil {
		return models.Booking{}, err
	}
	if release {
		if _, err := s.Routes.ReleaseSeat(booking.RouteID); err != nil {
			utils.LogEvent(s.RequestID, "booking", "release_failed", err.Error())
		}
	}

	utils.LogEvent(s.RequestID, "booking", string(to), "booking_id="+bookingID)
	s.emit(evt, booking.RouteID, bookingID, actingRiderID, nil)
	return booking, nil
}

// CancelBooking lets the requesting buddy withdraw a pending or accepted
// booking, releasing the held seat.
func (s BookingService) CancelBooking(bookingID, actingBuddyID string) (models.Booking, error) {
	bookingID = utils.TrimOrEmpty(bookingID)
	actingBuddyID = utils.TrimOrEmpty(actingBuddyID)
	if bookingID == "" {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "must not be empty"}
	}
	if actingBuddyID == "" {
		return models.Booking{}, domain.ValidationError{Field: "buddy_id", Msg: "missing acting user"}
	}

	booking, err := s.Bookings.GetBooking(bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	unlock := lockRoute(booking.RouteID)
	defer unlock()

	booking, err = s.Bookings.GetBooking(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.BuddyID != actingBuddyID {
		return models.Booking{}, domain.ForbiddenError{Action: "cancel this booking", UserID: actingBuddyID}
	}
	if !booking.Status.CanTransition(models.BookingCancelled) {
		return models.Booking{}, domain.InvalidStateError{
			Resource: "booking",
			From:     string(booking.Status),
			To:       string(models.BookingCancelled),
		}
	}

	booking, err = s.Bookings.UpdateBookingStatus(bookingID, models.BookingCancelled, utils.NowUTC())
	if err != nil {
		return models.Booking{}, err
	}
	if _, err := s.Routes.ReleaseSeat(booking.RouteID); err != nil {
		utils.LogEvent(s.RequestID, "booking", "release_failed", err.Error())
	}

	utils.LogEvent(s.RequestID, "booking", "cancelled", "booking_id="+bookingID)
	s.emit(models.EventBookingCancelled, booking.RouteID, bookingID, actingBuddyID, nil)
	return booking, nil
}

// CancelRoute lets the owning rider withdraw the whole route. Every
// non-terminal booking cascades to cancelled with its seat released.
func (s BookingService) CancelRoute(routeID, actingRiderID string) (models.Route, error) {
	routeID = utils.TrimOrEmpty(routeID)
	actingRiderID = utils.TrimOrEmpty(actingRiderID)
	if routeID == "" {
		return models.Route{}, domain.ValidationError{Field: "route_id", Msg: "must not be empty"}
	}
	if actingRiderID == "" {
		return models.Route{}, domain.ValidationError{Field: "rider_id", Msg: "missing acting user"}
	}

	unlock := lockRoute(routeID)
	defer unlock()

	route, err := s.Routes.GetRoute(routeID)
	if err != nil {
		return models.Route{}, err
	}
	if route.RiderID != actingRiderID {
		return models.Route{}, domain.ForbiddenError{Action: "cancel this route", UserID: actingRiderID}
	}

	route, err = s.Routes.SetRouteStatus(routeID, models.RouteCancelled)
	if err != nil {
		return models.Route{}, err
	}

	cascaded := s.cascade(routeID, func(b models.Booking) (models.BookingStatus, bool) {
		return models.BookingCancelled, true
	})

	utils.LogEvent(s.RequestID, "booking", "route_cancelled", "route_id="+routeID)
	s.emit(models.EventRouteCancelled, routeID, "", actingRiderID, map[string]any{"cancelled_bookings": cascaded})
	return s.Routes.GetRoute(routeID)
}

// CompleteRoute marks a finished route. Accepted bookings complete with
// their seats kept; still-pending requests are declined and released.
// Authority to complete rests with the owning rider.
func (s BookingService) CompleteRoute(routeID, actingRiderID string) (models.Route, error) {
	routeID = utils.TrimOrEmpty(routeID)
	actingRiderID = utils.TrimOrEmpty(actingRiderID)
	if routeID == "" {
		return models.Route{}, domain.ValidationError{Field: "route_id", Msg: "must not be empty"}
	}
	if actingRiderID == "" {
		return models.Route{}, domain.ValidationError{Field: "rider_id", Msg: "missing acting user"}
	}

	unlock := lockRoute(routeID)
	defer unlock()

	route, err := s.Routes.GetRoute(routeID)
	if err != nil {
		return models.Route{}, err
	}
	if route.RiderID != actingRiderID {
		return models.Route{}, domain.ForbiddenError{Action: "complete this route", UserID: actingRiderID}
	}

	route, err = s.Routes.SetRouteStatus(routeID, models.RouteCompleted)
	if err != nil {
		return models.Route{}, err
	}

	completed := s.cascade(routeID, func(b models.Booking) (models.BookingStatus, bool) {
		if b.Status == models.BookingAccepted {
			return models.BookingCompleted, false
		}
		return models.BookingDeclined, true
	})

	utils.LogEvent(s.RequestID, "booking", "route_completed", "route_id="+routeID)
	s.emit(models.EventRouteCompleted, routeID, "", actingRiderID, map[string]any{"affected_bookings": completed})
	return s.Routes.GetRoute(routeID)
}

// cascade moves every non-terminal booking of the route to the status chosen
// by decide, optionally releasing its seat, and returns the affected ids.
func (s BookingService) cascade(routeID string, decide func(models.Booking) (models.BookingStatus, bool)) []string {
	bookings, err := s.Bookings.ListBookingsByRoute(routeID)
	if err != nil {
		utils.LogEvent(s.RequestID, "booking", "cascade_list_failed", err.Error())
		return nil
	}

	affected := []string{}
	now := utils.NowUTC()
	for _, b := range bookings {
		if b.Status.Terminal() {
			continue
		}
		to, release := decide(b)
		if _, err := s.Bookings.UpdateBookingStatus(b.ID, to, now); err != nil {
			utils.LogEvent(s.RequestID, "booking", "cascade_update_failed", err.Error())
			continue
		}
		if release {
			if _, err := s.Routes.ReleaseSeat(routeID); err != nil {
				utils.LogEvent(s.RequestID, "booking", "cascade_release_failed", err.Error())
			}
		}
		affected = append(affected, b.ID)
	}
	return affected
}

// ListBookingsForRoute returns every booking recorded against the route.
func (s BookingService) ListBookingsForRoute(routeID string) ([]models.Booking, error) {
	routeID = utils.TrimOrEmpty(routeID)
	if routeID == "" {
		return nil, domain.ValidationError{Field: "route_id", Msg: "must not be empty"}
	}
	if _, err := s.Routes.GetRoute(routeID); err != nil {
		return nil, err
	}
	return s.Bookings.ListBookingsByRoute(routeID)
}

// ListBookingsForUser returns the buddy-side or rider-side view of a user's
// bookings.
func (s BookingService) ListBookingsForUser(userID string, role models.Role) ([]models.Booking, error) {
	userID = utils.TrimOrEmpty(userID)
	if userID == "" {
		return nil, domain.ValidationError{Field: "user_id", Msg: "must not be empty"}
	}
	if !role.Valid() {
		return nil, domain.ValidationError{Field: "role", Msg: "want rider or buddy"}
	}
	return s.Bookings.ListBookingsByUser(userID, role)
}
