package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "broride/internal/config"
	"broride/internal/domain"
	"broride/internal/domain/models"
)

// BookingRepository is the MySQL-backed BookingStore. The duplicate-claim
// check and the insert run in one transaction so two requests from the same
// buddy cannot both slip past the check.
type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, route_id, buddy_id, rider_id, status, requested_at, updated_at`

func (r BookingRepository) CreateBooking(b models.Booking) (models.Booking, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "begin tx failed", Err: err}
	}
	defer tx.Rollback()

	var active int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM bookings
		WHERE route_id=? AND buddy_id=? AND status IN ('pending','accepted')
		FOR UPDATE`,
		b.RouteID, b.BuddyID,
	).Scan(&active)
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "duplicate check failed", Err: err}
	}
	if active > 0 {
		return models.Booking{}, domain.AlreadyRequestedError{RouteID: b.RouteID, BuddyID: b.BuddyID}
	}

	if _, err := tx.Exec(`
		INSERT INTO bookings (id, route_id, buddy_id, rider_id, status, requested_at, updated_at)
		VALUES (?,?,?,?,?,?,?)`,
		b.ID, b.RouteID, b.BuddyID, b.RiderID, string(b.Status), b.RequestedAt, b.UpdatedAt,
	); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "insert booking failed", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "commit failed", Err: err}
	}
	return b, nil
}

func (r BookingRepository) GetBooking(id string) (models.Booking, error) {
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	return scanBooking(row, id)
}

func (r BookingRepository) UpdateBookingStatus(id string, status models.BookingStatus, at time.Time) (models.Booking, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "begin tx failed", Err: err}
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? FOR UPDATE`, id)
	b, err := scanBooking(row, id)
	if err != nil {
		return models.Booking{}, err
	}

	b.Status = status
	b.UpdatedAt = at
	if _, err := tx.Exec(`UPDATE bookings SET status=?, updated_at=? WHERE id=?`,
		string(status), at, id); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "update booking failed", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "commit failed", Err: err}
	}
	return b, nil
}

func (r BookingRepository) ListBookingsByRoute(routeID string) ([]models.Booking, error) {
	return r.list(`SELECT `+bookingColumns+` FROM bookings WHERE route_id=? ORDER BY requested_at ASC, id ASC`, routeID)
}

func (r BookingRepository) ListBookingsByUser(userID string, role models.Role) ([]models.Booking, error) {
	col := "buddy_id"
	if role == models.RoleRider {
		col = "rider_id"
	}
	return r.list(`SELECT `+bookingColumns+` FROM bookings WHERE `+col+`=? ORDER BY requested_at ASC, id ASC`, userID)
}

func (r BookingRepository) list(query string, arg any) ([]models.Booking, error) {
	rows, err := r.db().Query(query, arg)
	if err != nil {
		return nil, domain.InternalError{Msg: "list bookings failed", Err: err}
	}
	defer rows.Close()

	out := make([]models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows, "")
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "list bookings failed", Err: err}
	}
	return out, nil
}

func scanBooking(row rowScanner, id string) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.RouteID, &b.BuddyID, &b.RiderID,
		(*string)(&b.Status), &b.RequestedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", ID: id}
	}
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "scan booking failed", Err: err}
	}
	b.RequestedAt = b.RequestedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b, nil
}
