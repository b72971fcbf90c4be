package repositories

import (
	"testing"
	"time"

	"broride/internal/domain"
	"broride/internal/domain/models"
)

func memRoute(t *testing.T, s *MemoryStore, id string, seats int) models.Route {
	t.Helper()
	r, err := s.CreateRoute(models.Route{
		ID:             id,
		StartPoint:     "A",
		Destination:    "B",
		Timing:         "08:00",
		Days:           []string{"mon"},
		RiderID:        "rider1",
		Capacity:       seats,
		AvailableSeats: seats,
		Status:         models.RouteAvailable,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create route failed: %v", err)
	}
	return r
}

func TestMemoryHoldAndReleaseSeat(t *testing.T) {
	s := NewMemoryStore()
	memRoute(t, s, "r1", 2)

	r, err := s.TryHoldSeat("r1")
	if err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	if r.AvailableSeats != 1 || r.Status != models.RouteAvailable {
		t.Fatalf("after first hold: seats=%d status=%s", r.AvailableSeats, r.Status)
	}

	r, err = s.TryHoldSeat("r1")
	if err != nil {
		t.Fatalf("second hold failed: %v", err)
	}
	if r.AvailableSeats != 0 || r.Status != models.RouteFull {
		t.Fatalf("after second hold: seats=%d status=%s", r.AvailableSeats, r.Status)
	}

	if _, err := s.TryHoldSeat("r1"); !domain.IsSeatsExhausted(err) {
		t.Fatalf("hold on full route should be SeatsExhausted, got %v", err)
	}

	r, err = s.ReleaseSeat("r1")
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if r.AvailableSeats != 1 || r.Status != models.RouteAvailable {
		t.Fatalf("after release: seats=%d status=%s", r.AvailableSeats, r.Status)
	}
}

func TestMemoryReleaseNeverExceedsCapacity(t *testing.T) {
	s := NewMemoryStore()
	memRoute(t, s, "r1", 1)

	r, err := s.ReleaseSeat("r1")
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if r.AvailableSeats != 1 {
		t.Fatalf("release overfilled route: seats=%d", r.AvailableSeats)
	}
}

func TestMemoryHoldOnTerminalRoute(t *testing.T) {
	s := NewMemoryStore()
	memRoute(t, s, "r1", 2)

	if _, err := s.SetRouteStatus("r1", models.RouteCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := s.TryHoldSeat("r1"); !domain.IsNotBookable(err) {
		t.Fatalf("hold on cancelled route should be NotBookable, got %v", err)
	}
	if _, err := s.SetRouteStatus("r1", models.RouteAvailable); !domain.IsInvalidState(err) {
		t.Fatalf("reviving a terminal route should be InvalidState, got %v", err)
	}
}

func TestMemoryRouteCopiesAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	memRoute(t, s, "r1", 2)

	r, _ := s.GetRoute("r1")
	r.Days[0] = "sun"
	r.AvailableSeats = 99

	again, _ := s.GetRoute("r1")
	if again.Days[0] != "mon" || again.AvailableSeats != 2 {
		t.Fatalf("caller mutation leaked into store: %v seats=%d", again.Days, again.AvailableSeats)
	}
}

func TestMemoryDuplicateBookingBlocked(t *testing.T) {
	s := NewMemoryStore()
	memRoute(t, s, "r1", 2)

	now := time.Now().UTC()
	first := models.Booking{ID: "b1", RouteID: "r1", BuddyID: "buddy1", RiderID: "rider1", Status: models.BookingPending, RequestedAt: now, UpdatedAt: now}
	if _, err := s.CreateBooking(first); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	dup := first
	dup.ID = "b2"
	if _, err := s.CreateBooking(dup); !domain.IsAlreadyRequested(err) {
		t.Fatalf("duplicate should be AlreadyRequested, got %v", err)
	}

	// after the first goes terminal the buddy may request again
	if _, err := s.UpdateBookingStatus("b1", models.BookingDeclined, now); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, err := s.CreateBooking(dup); err != nil {
		t.Fatalf("re-request after terminal booking failed: %v", err)
	}
}

func TestMemoryListBookingsByUser(t *testing.T) {
	s := NewMemoryStore()
	memRoute(t, s, "r1", 3)

	now := time.Now().UTC()
	for i, buddy := range []string{"buddy1", "buddy2"} {
		b := models.Booking{
			ID: "b" + string(rune('1'+i)), RouteID: "r1", BuddyID: buddy, RiderID: "rider1",
			Status: models.BookingPending, RequestedAt: now, UpdatedAt: now,
		}
		if _, err := s.CreateBooking(b); err != nil {
			t.Fatalf("create booking failed: %v", err)
		}
	}

	buddySide, _ := s.ListBookingsByUser("buddy1", models.RoleBuddy)
	if len(buddySide) != 1 {
		t.Fatalf("buddy1 should see 1 booking, got %d", len(buddySide))
	}
	riderSide, _ := s.ListBookingsByUser("rider1", models.RoleRider)
	if len(riderSide) != 2 {
		t.Fatalf("rider1 should see 2 bookings, got %d", len(riderSide))
	}
}
