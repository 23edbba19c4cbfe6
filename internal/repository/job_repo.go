package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"comparaparqueaderos/internal/db"
)

type JobRepository interface {
	// CountBookingsByOperator groups bookings created in [from, to) with one
	// of the given statuses by operator, busiest first.
	CountBookingsByOperator(ctx context.Context, from, to time.Time, statuses []string) ([]db.OperatorBookingCount, error)
}

type jobRepository struct {
	DB dbtx
}

func NewJobRepository(conn dbtx) JobRepository {
	return &jobRepository{DB: conn}
}

func (r *jobRepository) CountBookingsByOperator(ctx context.Context, from, to time.Time, statuses []string) ([]db.OperatorBookingCount, error) {
	query := `
	SELECT o.id, o.name, COUNT(b.id), COALESCE(SUM(b.total_price), 0)
	FROM bookings b
	JOIN operators o ON o.id = b.operator_id
	WHERE b.created_at >= $1 AND b.created_at < $2 AND b.status = ANY($3)
	GROUP BY o.id, o.name
	ORDER BY COUNT(b.id) DESC, o.name`

	rows, err := r.DB.QueryContext(ctx, query, from, to, pq.Array(statuses))
	if err != nil {
		return nil, fmt.Errorf("repo.JobRepository.CountBookingsByOperator: %w", err)
	}
	defer rows.Close()

	counts := []db.OperatorBookingCount{}
	for rows.Next() {
		var c db.OperatorBookingCount
		if err := rows.Scan(&c.OperatorID, &c.OperatorName, &c.Bookings, &c.TotalPrice); err != nil {
			return nil, fmt.Errorf("repo.JobRepository.CountBookingsByOperator: scan: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.JobRepository.CountBookingsByOperator: %w", err)
	}
	return counts, nil
}
