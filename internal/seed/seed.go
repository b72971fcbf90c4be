// Package seed loads a small demo catalog into the in-memory store so a
// fresh dev instance has something to search against.
package seed

import (
	"broride/internal/domain/models"
	"broride/internal/repositories"
	"broride/internal/utils"

	"github.com/google/uuid"
)

func inr(v int64) *int64 { return &v }

func DemoRoutes(store repositories.RouteStore) {
	demo := []models.Route{
		{StartPoint: "Downtown", Destination: "Tech Park", Timing: "08:00", Days: []string{"mon", "wed", "fri"}, RiderID: "demo-alice", Capacity: 2, CostPerSeat: inr(500)},
		{StartPoint: "Suburbia", Destination: "Tech Park", Timing: "08:30", Days: []string{"mon", "tue", "wed", "thu", "fri"}, RiderID: "demo-bob", Capacity: 3, CostPerSeat: inr(750)},
		{StartPoint: "Old Town", Destination: "City Center", Timing: "09:00", Days: []string{"sat", "sun"}, RiderID: "demo-charlie", Capacity: 3, CostPerSeat: inr(300)},
		{StartPoint: "Westside", Destination: "Tech Park", Timing: "07:45", Days: []string{"mon", "wed"}, RiderID: "demo-diana", Capacity: 1, CostPerSeat: inr(620)},
	}

	for _, r := range demo {
		r.ID = uuid.NewString()
		r.AvailableSeats = r.Capacity
		r.Status = models.RouteAvailable
		r.CreatedAt = utils.NowUTC()
		if _, err := store.CreateRoute(r); err != nil {
			utils.LogEvent("", "seed", "route_failed", err.Error())
		}
	}
	utils.LogEvent("", "seed", "demo_routes", "seeded demo catalog")
}
