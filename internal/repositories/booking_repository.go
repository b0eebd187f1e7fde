package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/db"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
)

const bookingColumns = `
	id, passenger_name, passenger_email, passenger_phone,
	pickup_location, dropoff_location, pickup_date, pickup_time,
	vehicle_type, passengers, COALESCE(notes, ''), distance_km,
	estimated_fare, status, created_at, updated_at`

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) CreateBooking(ctx context.Context, b models.Booking) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO bookings (
			id, passenger_name, passenger_email, passenger_phone,
			pickup_location, dropoff_location, pickup_date, pickup_time,
			vehicle_type, passengers, notes, distance_km,
			estimated_fare, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID, b.PassengerName, b.PassengerEmail, b.PassengerPhone,
		b.PickupLocation, b.DropoffLocation, b.PickupDate, b.PickupTime,
		string(b.VehicleType), b.Passengers, db.NullIfEmpty(b.Notes), b.DistanceKm,
		b.EstimatedFare, string(b.Status), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return mysqlErr("insert booking", err)
	}
	return nil
}

// ListBookings returns every booking, newest first.
func (r BookingRepository) ListBookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+bookingColumns+`
		FROM bookings
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mysqlErr("list bookings", err)
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, mysqlErr("scan booking", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mysqlErr("list bookings", err)
	}
	return out, nil
}

func (r BookingRepository) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", ID: id}
	}
	if err != nil {
		return models.Booking{}, mysqlErr("get booking", err)
	}
	return b, nil
}

// UpdateBookingStatus sets the status and returns the stored booking.
func (r BookingRepository) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, at time.Time) (models.Booking, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), at, id)
	if err != nil {
		return models.Booking{}, mysqlErr("update booking status", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", ID: id}
	}
	return r.GetBooking(ctx, id)
}

func (r BookingRepository) DeleteBooking(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return mysqlErr("delete booking", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mysqlErr("delete booking", err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "booking", ID: id}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(s rowScanner) (models.Booking, error) {
	var (
		b         models.Booking
		vehicle   string
		status    string
		updatedAt sql.NullTime
	)
	err := s.Scan(
		&b.ID, &b.PassengerName, &b.PassengerEmail, &b.PassengerPhone,
		&b.PickupLocation, &b.DropoffLocation, &b.PickupDate, &b.PickupTime,
		&vehicle, &b.Passengers, &b.Notes, &b.DistanceKm,
		&b.EstimatedFare, &status, &b.CreatedAt, &updatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}
	b.VehicleType = models.VehicleType(vehicle)
	b.Status = models.BookingStatus(status)
	b.CreatedAt = b.CreatedAt.UTC()
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		b.UpdatedAt = &t
	}
	return b, nil
}

func mysqlErr(op string, err error) error {
	return domain.DependencyError{Dependency: "mysql", Op: op, Err: err}
}
