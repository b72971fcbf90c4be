package services

import (
	"broride/internal/domain"
	"broride/internal/domain/models"
	"broride/internal/repositories"
	"broride/internal/utils"

	"github.com/google/uuid"
)

// CatalogService owns route creation and lookups. Seat arithmetic lives in
// the store; this layer validates input and assigns identity.
type CatalogService struct {
	Routes    repositories.RouteStore
	RequestID string
}

// CreateRouteParams carries the rider's route offer.
type CreateRouteParams struct {
	StartPoint  string   `json:"start_point"`
	Destination string   `json:"destination"`
	Timing      string   `json:"timing"`
	Days        []string `json:"days"`
	Capacity    int      `json:"capacity"`
	CostPerSeat *int64   `json:"cost_per_seat"`
}

func (s CatalogService) CreateRoute(riderID string, p CreateRouteParams) (models.Route, error) {
	riderID = utils.TrimOrEmpty(riderID)
	if riderID == "" {
		return models.Route{}, domain.ValidationError{Field: "rider_id", Msg: "missing acting user"}
	}

	start := utils.NormalizeSpace(p.StartPoint)
	dest := utils.NormalizeSpace(p.Destination)
	if start == "" {
		return models.Route{}, domain.ValidationError{Field: "start_point", Msg: "must not be empty"}
	}
	if dest == "" {
		return models.Route{}, domain.ValidationError{Field: "destination", Msg: "must not be empty"}
	}
	if p.Capacity < 1 {
		return models.Route{}, domain.ValidationError{Field: "capacity", Msg: "must be at least 1"}
	}

	minutes, err := utils.ParseClock(p.Timing)
	if err != nil {
		return models.Route{}, domain.ValidationError{Field: "timing", Msg: "want HH:MM", Err: err}
	}

	days := models.NormalizeDays(p.Days)
	if len(days) == 0 {
		return models.Route{}, domain.ValidationError{Field: "days", Msg: "need at least one weekday (mon..sun)"}
	}
	if len(days) != len(p.Days) {
		return models.Route{}, domain.ValidationError{Field: "days", Msg: "contains unknown or duplicate weekdays"}
	}
	if p.CostPerSeat != nil && *p.CostPerSeat < 0 {
		return models.Route{}, domain.ValidationError{Field: "cost_per_seat", Msg: "must not be negative"}
	}

	route := models.Route{
		ID:             uuid.NewString(),
		StartPoint:     start,
		Destination:    dest,
		Timing:         utils.FormatClock(minutes),
		Days:           days,
		RiderID:        riderID,
		Capacity:       p.Capacity,
		AvailableSeats: p.Capacity,
		CostPerSeat:    p.CostPerSeat,
		Status:         models.RouteAvailable,
		CreatedAt:      utils.NowUTC(),
	}

	route, err = s.Routes.CreateRoute(route)
	if err != nil {
		return models.Route{}, err
	}
	utils.LogEvent(s.RequestID, "catalog", "route_created", "route_id="+route.ID)
	return route, nil
}

func (s CatalogService) GetRoute(id string) (models.Route, error) {
	id = utils.TrimOrEmpty(id)
	if id == "" {
		return models.Route{}, domain.ValidationError{Field: "route_id", Msg: "must not be empty"}
	}
	return s.Routes.GetRoute(id)
}

// ListRoutes returns a point-in-time snapshot of the catalog, every status
// included. Booking-oriented filtering goes through SearchService.
func (s CatalogService) ListRoutes() ([]models.Route, error) {
	return s.Routes.ListRoutes()
}
