package services

import (
	"sync"
	"testing"

	"broride/internal/domain"
	"broride/internal/domain/models"
	"broride/internal/events"
	"broride/internal/repositories"
)

func newLedger() (*repositories.MemoryStore, *events.Recorder, CatalogService, BookingService) {
	store := repositories.NewMemoryStore()
	rec := &events.Recorder{}
	catalog := CatalogService{Routes: store}
	coordinator := BookingService{Routes: store, Bookings: store, Events: rec}
	return store, rec, catalog, coordinator
}

func mustRoute(t *testing.T, catalog CatalogService, riderID string, capacity int, cost int64) models.Route {
	t.Helper()
	route, err := catalog.CreateRoute(riderID, CreateRouteParams{
		StartPoint:  "Downtown",
		Destination: "Tech Park",
		Timing:      "08:00",
		Days:        []string{"mon", "wed", "fri"},
		Capacity:    capacity,
		CostPerSeat: &cost,
	})
	if err != nil {
		t.Fatalf("create route failed: %v", err)
	}
	return route
}

func TestHappyPathBookingFlow(t *testing.T) {
	store, _, catalog, coord := newLedger()
	route := mustRoute(t, catalog, "rider1", 2, 150)

	bookingA, err := coord.RequestBooking(route.ID, "buddyA")
	if err != nil {
		t.Fatalf("buddy A request failed: %v", err)
	}
	if bookingA.Status != models.BookingPending {
		t.Fatalf("expected pending, got %s", bookingA.Status)
	}
	if bookingA.RiderID != "rider1" {
		t.Fatalf("rider not denormalized, got %q", bookingA.RiderID)
	}

	r, _ := store.GetRoute(route.ID)
	if r.AvailableSeats != 1 || r.Status != models.RouteAvailable {
		t.Fatalf("after A: seats=%d status=%s, want 1/available", r.AvailableSeats, r.Status)
	}

	accepted, err := coord.AcceptBooking(bookingA.ID, "rider1")
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != models.BookingAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}
	r, _ = store.GetRoute(route.ID)
	if r.AvailableSeats != 1 {
		t.Fatalf("acceptance must not change seats, got %d", r.AvailableSeats)
	}

	if _, err := coord.RequestBooking(route.ID, "buddyB"); err != nil {
		t.Fatalf("buddy B request failed: %v", err)
	}
	r, _ = store.GetRoute(route.ID)
	if r.AvailableSeats != 0 || r.Status != models.RouteFull {
		t.Fatalf("after B: seats=%d status=%s, want 0/full", r.AvailableSeats, r.Status)
	}

	_, err = coord.RequestBooking(route.ID, "buddyC")
	if !domain.IsSeatsExhausted(err) {
		t.Fatalf("buddy C should hit SeatsExhausted, got %v", err)
	}
}

func TestDeclineReleasesSeat(t *testing.T) {
	store, _, catalog, coord := newLedger()
	route := mustRoute(t, catalog, "rider1", 1, 100)

	booking, err := coord.RequestBooking(route.ID, "buddyA")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	r, _ := store.GetRoute(route.ID)
	if r.AvailableSeats != 0 || r.Status != models.RouteFull {
		t.Fatalf("after request: seats=%d status=%s, want 0/full", r.AvailableSeats, r.Status)
	}

	declined, err := coord.DeclineBooking(booking.ID, "rider1")
	if err != nil {
		t.Fatalf("decline failed: %v", err)
	}
	if declined.Status != models.BookingDeclined {
		t.Fatalf("expected declined, got %s", declined.Status)
	}
	r, _ = store.GetRoute(route.ID)
	if r.AvailableSeats != 1 || r.Status != models.RouteAvailable {
		t.Fatalf("after decline: seats=%d status=%s, want 1/available", r.AvailableSeats, r.Status)
	}
}

func TestNoDoubleBookingUnderRace(t *testing.T) {
	_, _, catalog, coord := newLedger()
	route := mustRoute(t, catalog, "rider1", 1, 100)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, buddy := range []string{"buddyA", "buddyB"} {
		wg.Add(1)
		go func(i int, buddy string) {
			defer wg.Done()
			_, errs[i] = coord.RequestBooking(route.ID, buddy)
		}(i, buddy)
	}
	wg.Wait()

	var ok, exhausted int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case domain.IsSeatsExhausted(err):
			exhausted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || exhausted != 1 {
		t.Fatalf("want exactly one winner and one SeatsExhausted, got ok=%d exhausted=%d", ok, exhausted)
	}

	bookings, err := coord.ListBookingsForRoute(route.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(bookings) != 1 || bookings[0].Status != models.BookingPending {
		t.Fatalf("want exactly one pending booking, got %d", len(bookings))
	}
}

func TestDuplicateRequestRejected(t *testing.T) {
	store, _, catalog, coord := newLedger()
	route := mustRoute(t, catalog, "rider1", 3, 100)

	if _, err := coord.RequestBooking(route.ID, "buddyA"); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	_, err := coord.RequestBooking(route.ID, "buddyA")
	if !domain.IsAlreadyRequested(err) {
		t.Fatalf("expected AlreadyRequested, got %v", err)
	}

	// the failed duplicate must not leak a held seat
	r, _ := store.GetRoute(route.ID)
	if r.AvailableSeats != 2 {
		t.Fatalf("seats leaked on duplicate, got %d want 2", r.AvailableSeats)
	}
}

func TestOwnRouteCannotBeBooked(t *testing.T) {
	_, _, catalog, coord := newLedger()
	route := mustRoute(t, catalog, "rider1", 2, 100)

	_, err := coord.RequestBooking(route.ID, "rider1")
	if !domain.IsForbidden(err) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestOnlyOwnerDecides(t *testing.T) {
	_, _, catalog, coord := newLedger()
	route := mustRoute(t, catalog, "rider1", 2, 100)

	booking, err := coord.RequestBooking(route.ID, "buddyA")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if _, err := coord.AcceptBooking(booking.ID, "impostor"); !domain.IsForbidden(err) {
		t.Fatalf("accept by non-owner should be Forbidden, got %v", err)
	}
	if _, err := coord.DeclineBooking(booking.ID, "impostor"); !domain.IsForbidden(err) {
		t.Fatalf("decline by non-owner should be Forbidden, got %v", err)
	}
	if _, err := coord.CancelBooking(booking.ID, "rider1"); !domain.IsForbidden(err) {
		t.Fatalf("cancel by non-buddy should be Forbidden, got %v", err)
	}
}

func TestTerminalBookingIsImmutable(t *testing.T) {
	store, _, catalog, coord := newLedger()
	route := mustRoute(t, catalog, "rider1", 2, 100)

	booking, err := coord.RequestBooking(route.ID, "buddyA")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := coord.DeclineBooking(booking.ID, "rider1"); err != nil {
		t.Fatalf("decline failed: %v", err)
	}

	if _, err := coord.AcceptBooking(booking.ID, "rider1"); !domain.IsInvalidState(err) {
		t.Fatalf("accept after decline should be InvalidState, got %v", err)
	}
	if _, err := coord.CancelBooking(booking.ID, "buddyA"); !domain.IsInvalidState(err) {
		t.Fatalf("cancel after decline should be InvalidState, got %v", err)
	}

	// no side effect on seats either
	r, _ := store.GetRoute(route.ID)
	if r.AvailableSeats != 2 {
		t.Fatalf("terminal mutation leaked seats, got %d want 2", r.AvailableSeats)
	}
}

func TestBuddyCancelReleasesAcceptedSeat(t *testing.T) {
	store, _, catalog, coord := newLedger()
	route := mustRoute(t, catalog, "rider1", 1, 100)

	booking, _ := coord.RequestBooking(route.ID, "buddyA")
	if _, err := coord.AcceptBooking(booking.ID, "rider1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	cancelled, err := coord.CancelBooking(booking.ID, "buddyA")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != models.BookingCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	r, _ := store.GetRoute(route.ID)
	if r.AvailableSeats != 1 || r.Status != models.RouteAvailable {
		t.Fatalf("after cancel: seats=%d status=%s, want 1/available", r.AvailableSeats, r.Status)
	}
}

func TestRouteCancellationCascades(t *testing.T) {
	store, rec, catalog, coord := newLedger()
	route := mustRoute(t, catalog, "rider1", 3, 100)

	bookingA, _ := coord.RequestBooking(route.ID, "buddyA")
	bookingB, _ := coord.RequestBooking(route.ID, "buddyB")
	if _, err := coord.AcceptBooking(bookingB.ID, "rider1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	cancelled, err := coord.CancelRoute(route.ID, "rider1")
	if err != nil {
		t.Fatalf("cancel route failed: %v", err)
	}
	if cancelled.Status != models.RouteCancelled {
		t.Fatalf("expected cancelled route, got %s", cancelled.Status)
	}

	for _, id := range []string{bookingA.ID, bookingB.ID} {
		b, _ := store.GetBooking(id)
		if b.Status != models.BookingCancelled {
			t.Fatalf("booking %s not cascaded, status %s", id, b.Status)
		}
	}

	r, _ := store.GetRoute(route.ID)
	if r.AvailableSeats != r.Capacity {
		t.Fatalf("cascade must release held seats, got %d want %d", r.AvailableSeats, r.Capacity)
	}

	if _, err := coord.RequestBooking(route.ID, "buddyC"); !domain.IsNotBookable(err) {
		t.Fatalf("booking cancelled route should be NotBookable, got %v", err)
	}

	var sawRouteCancelled bool
	for _, evt := range rec.Events() {
		if evt.Type == models.EventRouteCancelled && evt.RouteID == route.ID {
			sawRouteCancelled = true
		}
	}
	if !sawRouteCancelled {
		t.Fatalf("RouteCancelled event not emitted")
	}
}

func TestCompleteRouteSettlesBookings(t *testing.T) {
	store, _, catalog, coord := newLedger()
	route := mustRoute(t, catalog, "rider1", 3, 100)

	accepted, _ := coord.RequestBooking(route.ID, "buddyA")
	if _, err := coord.AcceptBooking(accepted.ID, "rider1"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	pending, _ := coord.RequestBooking(route.ID, "buddyB")

	done, err := coord.CompleteRoute(route.ID, "rider1")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if done.Status != models.RouteCompleted {
		t.Fatalf("expected completed route, got %s", done.Status)
	}

	a, _ := store.GetBooking(accepted.ID)
	if a.Status != models.BookingCompleted {
		t.Fatalf("accepted booking should complete, got %s", a.Status)
	}
	p, _ := store.GetBooking(pending.ID)
	if p.Status != models.BookingDeclined {
		t.Fatalf("pending booking should be declined on completion, got %s", p.Status)
	}

	if _, err := coord.CancelRoute(route.ID, "rider1"); !domain.IsInvalidState(err) {
		t.Fatalf("cancelling a completed route should be InvalidState, got %v", err)
	}
}

func TestCapacityInvariantUnderMixedLoad(t *testing.T) {
	store, _, catalog, coord := newLedger()
	const capacity = 4
	route := mustRoute(t, catalog, "rider1", capacity, 100)

	buddies := []string{"b1", "b2", "b3", "b4", "b5", "b6"}
	var wg sync.WaitGroup
	for _, buddy := range buddies {
		wg.Add(1)
		go func(buddy string) {
			defer wg.Done()
			if b, err := coord.RequestBooking(route.ID, buddy); err == nil {
				// half the winners bail out again
				if buddy == "b1" || buddy == "b3" {
					_, _ = coord.CancelBooking(b.ID, buddy)
				}
			}
		}(buddy)
	}
	wg.Wait()

	r, _ := store.GetRoute(route.ID)
	bookings, _ := coord.ListBookingsForRoute(route.ID)
	active := 0
	for _, b := range bookings {
		if !b.Status.Terminal() {
			active++
		}
	}
	if held := capacity - r.AvailableSeats; held != active {
		t.Fatalf("held seats (%d) != non-terminal bookings (%d)", held, active)
	}
	if r.AvailableSeats < 0 || r.AvailableSeats > capacity {
		t.Fatalf("seat count out of range: %d", r.AvailableSeats)
	}
}

func TestListBookingsForUserByRole(t *testing.T) {
	_, _, catalog, coord := newLedger()
	route := mustRoute(t, catalog, "rider1", 2, 100)

	if _, err := coord.RequestBooking(route.ID, "buddyA"); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	buddySide, err := coord.ListBookingsForUser("buddyA", models.RoleBuddy)
	if err != nil || len(buddySide) != 1 {
		t.Fatalf("buddy view: err=%v len=%d", err, len(buddySide))
	}
	riderSide, err := coord.ListBookingsForUser("rider1", models.RoleRider)
	if err != nil || len(riderSide) != 1 {
		t.Fatalf("rider view: err=%v len=%d", err, len(riderSide))
	}
	if _, err := coord.ListBookingsForUser("buddyA", models.Role("driver")); !domain.IsValidation(err) {
		t.Fatalf("unknown role should be ValidationError, got %v", err)
	}
}

func TestEventsEmittedAcrossLifecycle(t *testing.T) {
	_, rec, catalog, coord := newLedger()
	route := mustRoute(t, catalog, "rider1", 2, 100)

	booking, _ := coord.RequestBooking(route.ID, "buddyA")
	_, _ = coord.AcceptBooking(booking.ID, "rider1")
	_, _ = coord.CancelBooking(booking.ID, "buddyA")

	want := []models.EventType{
		models.EventBookingRequested,
		models.EventBookingAccepted,
		models.EventBookingCancelled,
	}
	got := rec.Events()
	if len(got) != len(want) {
		t.Fatalf("want %d events, got %d", len(want), len(got))
	}
	for i, evt := range got {
		if evt.Type != want[i] {
			t.Fatalf("event %d: want %s, got %s", i, want[i], evt.Type)
		}
		if evt.BookingID != booking.ID {
			t.Fatalf("event %d carries wrong booking id %q", i, evt.BookingID)
		}
	}
}
