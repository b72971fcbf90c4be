package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "broride/internal/config"
	"broride/internal/domain"
	"broride/internal/domain/models"
)

// RouteRepository is the MySQL-backed RouteStore. Seat arithmetic runs in a
// transaction with SELECT ... FOR UPDATE so two simultaneous holds on the
// last seat cannot both succeed.
type RouteRepository struct {
	DB *sql.DB
}

func (r RouteRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const routeColumns = `id, start_point, destination, timing, days, rider_id, capacity, available_seats, cost_per_seat, status, created_at, seq`

func (r RouteRepository) CreateRoute(route models.Route) (models.Route, error) {
	db := r.db()
	var cost any
	if route.CostPerSeat != nil {
		cost = *route.CostPerSeat
	}
	_, err := db.Exec(`
		INSERT INTO routes (id, start_point, destination, timing, days, rider_id, capacity, available_seats, cost_per_seat, status, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		route.ID, route.StartPoint, route.Destination, route.Timing,
		strings.Join(route.Days, ","), route.RiderID,
		route.Capacity, route.AvailableSeats, cost, string(route.Status), route.CreatedAt,
	)
	if err != nil {
		return models.Route{}, domain.InternalError{Msg: "insert route failed", Err: err}
	}
	if err := db.QueryRow(`SELECT seq FROM routes WHERE id=?`, route.ID).Scan(&route.Seq); err != nil {
		return models.Route{}, domain.InternalError{Msg: "read route seq failed", Err: err}
	}
	return route, nil
}

func (r RouteRepository) GetRoute(id string) (models.Route, error) {
	row := r.db().QueryRow(`SELECT `+routeColumns+` FROM routes WHERE id=? LIMIT 1`, id)
	return scanRoute(row, id)
}

func (r RouteRepository) ListRoutes() ([]models.Route, error) {
	rows, err := r.db().Query(`SELECT ` + routeColumns + ` FROM routes ORDER BY seq ASC`)
	if err != nil {
		return nil, domain.InternalError{Msg: "list routes failed", Err: err}
	}
	defer rows.Close()

	out := make([]models.Route, 0)
	for rows.Next() {
		route, err := scanRoute(rows, "")
		if err != nil {
			return nil, err
		}
		out = append(out, route)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "list routes failed", Err: err}
	}
	return out, nil
}

func (r RouteRepository) TryHoldSeat(id string) (models.Route, error) {
	return r.withRouteTx(id, func(route *models.Route) error {
		if route.Status != models.RouteAvailable {
			if route.Status == models.RouteFull {
				return domain.SeatsExhaustedError{RouteID: id}
			}
			return domain.NotBookableError{RouteID: id, Status: string(route.Status)}
		}
		if route.AvailableSeats <= 0 {
			return domain.SeatsExhaustedError{RouteID: id}
		}
		route.AvailableSeats--
		if route.AvailableSeats == 0 {
			route.Status = models.RouteFull
		}
		return nil
	})
}

func (r RouteRepository) ReleaseSeat(id string) (models.Route, error) {
	return r.withRouteTx(id, func(route *models.Route) error {
		if route.AvailableSeats < route.Capacity {
			route.AvailableSeats++
		}
		if route.Status == models.RouteFull {
			route.Status = models.RouteAvailable
		}
		return nil
	})
}

func (r RouteRepository) SetRouteStatus(id string, status models.RouteStatus) (models.Route, error) {
	return r.withRouteTx(id, func(route *models.Route) error {
		if route.Status.Terminal() {
			return domain.InvalidStateError{
				Resource: "route",
				From:     string(route.Status),
				To:       string(status),
			}
		}
		route.Status = status
		return nil
	})
}

// withRouteTx locks the route row, applies mutate and writes back seat count
// and status in one transaction. The mutate func returns a domain error to
// abort with the row untouched.
func (r RouteRepository) withRouteTx(id string, mutate func(*models.Route) error) (models.Route, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return models.Route{}, domain.InternalError{Msg: "begin tx failed", Err: err}
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+routeColumns+` FROM routes WHERE id=? FOR UPDATE`, id)
	route, err := scanRoute(row, id)
	if err != nil {
		return models.Route{}, err
	}

	if err := mutate(&route); err != nil {
		return models.Route{}, err
	}

	if _, err := tx.Exec(`UPDATE routes SET available_seats=?, status=? WHERE id=?`,
		route.AvailableSeats, string(route.Status), id); err != nil {
		return models.Route{}, domain.InternalError{Msg: "update route failed", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return models.Route{}, domain.InternalError{Msg: "commit failed", Err: err}
	}
	return route, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoute(row rowScanner, id string) (models.Route, error) {
	var route models.Route
	var days string
	var cost sql.NullInt64
	err := row.Scan(
		&route.ID, &route.StartPoint, &route.Destination, &route.Timing,
		&days, &route.RiderID, &route.Capacity, &route.AvailableSeats,
		&cost, (*string)(&route.Status), &route.CreatedAt, &route.Seq,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Route{}, domain.NotFoundError{Resource: "route", ID: id}
	}
	if err != nil {
		return models.Route{}, domain.InternalError{Msg: "scan route failed", Err: err}
	}
	if days != "" {
		route.Days = strings.Split(days, ",")
	}
	if cost.Valid {
		v := cost.Int64
		route.CostPerSeat = &v
	}
	route.CreatedAt = route.CreatedAt.UTC()
	return route, nil
}
