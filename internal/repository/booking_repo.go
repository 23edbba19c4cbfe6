package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"comparaparqueaderos/internal/db"
)

// ErrConstraint is returned when the insert violates a key or foreign key.
var ErrConstraint = errors.New("constraint violation")

type BookingRepository interface {
	// Insert writes one booking row. b.ID and b.CreatedAt are filled in.
	Insert(ctx context.Context, b *db.Booking) error
}

type bookingRepository struct {
	DB dbtx
}

func NewBookingRepository(conn dbtx) BookingRepository {
	return &bookingRepository{DB: conn}
}

func (r *bookingRepository) Insert(ctx context.Context, b *db.Booking) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = db.BookingStatusInitiated
	}

	query := `
		INSERT INTO bookings
		(id, parking_id, operator_id, customer_name, customer_surname, customer_phone, vehicle_plate, vehicle,
		 start_date, entry_time, end_date, exit_time, price_per_day, total_days, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		b.ID,
		b.OfferID,
		b.OperatorID,
		b.CustomerName,
		b.CustomerSurname,
		b.CustomerPhone,
		b.VehiclePlate,
		b.Vehicle,
		b.EntryDate,
		b.EntryTime,
		b.ExitDate,
		b.ExitTime,
		b.PricePerDay,
		b.TotalDays,
		b.TotalPrice,
		b.Status,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && (pgErr.Code == "23505" || pgErr.Code == "23503") {
			return fmt.Errorf("repo.BookingRepository.Insert: %s: %w", pgErr.Constraint, ErrConstraint)
		}
		return fmt.Errorf("repo.BookingRepository.Insert: %w", err)
	}
	return nil
}
