package handlers

import (
	"broride/internal/events"
	"broride/internal/repositories"
)

// Deps are the ledger stores and the event sink the handlers build their
// services from. Configure is called once by the router.
type Deps struct {
	Routes   repositories.RouteStore
	Bookings repositories.BookingStore
	Events   events.Publisher
}

var deps Deps

func Configure(d Deps) {
	deps = d
}
