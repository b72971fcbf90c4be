package services

import (
	"sort"

	"broride/internal/domain"
	"broride/internal/domain/models"
	"broride/internal/repositories"
	"broride/internal/utils"
)

// DefaultToleranceMinutes is applied when a search sets preferred_time but
// no tolerance.
const DefaultToleranceMinutes = 60

// SearchService is the stateless read side: it filters a catalog snapshot.
type SearchService struct {
	Routes repositories.RouteStore
}

// SearchCriteria are the recognized filter options. Zero values mean "not
// filtered" except MinSeats, which defaults to 1 for booking-oriented
// searches (0 when IncludeFull browsing is on).
type SearchCriteria struct {
	Destination      string
	StartPoint       string
	PreferredTime    string // "HH:MM"
	ToleranceMinutes int
	Days             []string
	MaxCost          *int64
	MinSeats         int
	IncludeFull      bool
}

// Search returns matching routes ordered by earliest timing first, then
// insertion order. Time matching uses modular distance on the 1440-minute
// clock, so 23:50 and 00:10 are 20 minutes apart.
func (s SearchService) Search(c SearchCriteria) ([]models.Route, error) {
	preferred := -1
	if t := utils.TrimOrEmpty(c.PreferredTime); t != "" {
		m, err := utils.ParseClock(t)
		if err != nil {
			return nil, domain.ValidationError{Field: "preferred_time", Msg: "want HH:MM", Err: err}
		}
		preferred = m
	}
	tolerance := c.ToleranceMinutes
	if tolerance <= 0 {
		tolerance = DefaultToleranceMinutes
	}

	days := models.NormalizeDays(c.Days)
	if len(days) != len(c.Days) {
		return nil, domain.ValidationError{Field: "days", Msg: "contains unknown or duplicate weekdays"}
	}

	minSeats := c.MinSeats
	if minSeats <= 0 {
		if c.IncludeFull {
			minSeats = 0
		} else {
			minSeats = 1
		}
	}

	routes, err := s.Routes.ListRoutes()
	if err != nil {
		return nil, err
	}

	matched := make([]models.Route, 0, len(routes))
	for _, r := range routes {
		if !s.matches(r, c, days, preferred, tolerance, minSeats) {
			continue
		}
		matched = append(matched, r)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		ti, _ := utils.ParseClock(matched[i].Timing)
		tj, _ := utils.ParseClock(matched[j].Timing)
		if ti != tj {
			return ti < tj
		}
		return matched[i].Seq < matched[j].Seq
	})
	return matched, nil
}

func (s SearchService) matches(r models.Route, c SearchCriteria, days []string, preferred, tolerance, minSeats int) bool {
	switch r.Status {
	case models.RouteAvailable:
	case models.RouteFull:
		if !c.IncludeFull {
			return false
		}
	default:
		return false
	}

	if d := utils.TrimOrEmpty(c.Destination); d != "" && !utils.ContainsFold(r.Destination, d) {
		return false
	}
	if sp := utils.TrimOrEmpty(c.StartPoint); sp != "" && !utils.ContainsFold(r.StartPoint, sp) {
		return false
	}

	if preferred >= 0 {
		m, err := utils.ParseClock(r.Timing)
		if err != nil {
			return false
		}
		if utils.ClockDistance(m, preferred) > tolerance {
			return false
		}
	}

	// AND semantics: the route must run on every requested day
	for _, day := range days {
		if !r.HasDay(day) {
			return false
		}
	}

	// absent cost means free, which always passes a cost ceiling
	if c.MaxCost != nil && r.CostPerSeat != nil && *r.CostPerSeat > *c.MaxCost {
		return false
	}

	return r.AvailableSeats >= minSeats
}
