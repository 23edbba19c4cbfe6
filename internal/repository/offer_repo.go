package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"comparaparqueaderos/internal/db"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

// pgInvalidText is raised when a non-uuid string is compared to a uuid column.
const pgInvalidText = "22P02"

// dbtx is satisfied by *sql.DB and *sql.Tx, so integration tests can run
// each case inside a transaction that is rolled back afterwards.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// OfferFilter narrows a listing. Empty fields do not filter.
type OfferFilter struct {
	CityID    string
	AirportID string
	Vehicle   string
}

// CacheKey identifies the filter in the offer cache.
func (f OfferFilter) CacheKey() string {
	return "offers:" + f.CityID + ":" + f.AirportID + ":" + f.Vehicle
}

type OfferRepository interface {
	// GetOffer returns an active offer with its operator, or ErrNotFound.
	GetOffer(ctx context.Context, id string) (*db.ParkingOffer, error)
	// SearchOffers lists active offers matching the filter, cheapest first.
	SearchOffers(ctx context.Context, f OfferFilter) ([]db.ParkingOffer, error)
	ListCities(ctx context.Context) ([]db.City, error)
	ListAirports(ctx context.Context, cityID string) ([]db.Airport, error)
}

type offerRepository struct {
	DB dbtx
}

func NewOfferRepository(conn dbtx) OfferRepository {
	return &offerRepository{DB: conn}
}

const offerColumns = `
	p.id, p.operator_id, p.airport_id, a.city_id, p.name, p.slug, p.price_per_day, p.currency,
	p.vehicle, p.is_covered, p.has_shuttle, p.distance_km, COALESCE(p.logo_url, ''),
	COALESCE(p.services, ''), p.is_active,
	o.id, o.name, COALESCE(o.whatsapp_number, ''), o.is_active
	FROM parkings p
	JOIN airports a ON a.id = p.airport_id
	JOIN operators o ON o.id = p.operator_id`

func isInvalidText(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgInvalidText
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOffer(row rowScanner) (db.ParkingOffer, error) {
	var p db.ParkingOffer
	err := row.Scan(
		&p.ID, &p.OperatorID, &p.AirportID, &p.CityID, &p.Name, &p.Slug, &p.PricePerDay, &p.Currency,
		&p.Vehicle, &p.IsCovered, &p.HasShuttle, &p.DistanceKm, &p.LogoURL,
		&p.Services, &p.IsActive,
		&p.Operator.ID, &p.Operator.Name, &p.Operator.WhatsappNumber, &p.Operator.IsActive,
	)
	return p, err
}

func (r *offerRepository) GetOffer(ctx context.Context, id string) (*db.ParkingOffer, error) {
	query := `SELECT` + offerColumns + `
	WHERE p.id = $1 AND p.is_active = true`

	offer, err := scanOffer(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return nil, fmt.Errorf("repo.OfferRepository.GetOffer %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("repo.OfferRepository.GetOffer: %w", err)
	}
	return &offer, nil
}

func (r *offerRepository) SearchOffers(ctx context.Context, f OfferFilter) ([]db.ParkingOffer, error) {
	query := `SELECT` + offerColumns + `
	WHERE p.is_active = true AND o.is_active = true`
	args := []any{}
	idx := 1

	if f.CityID != "" {
		query += " AND a.city_id = $" + strconv.Itoa(idx)
		args = append(args, f.CityID)
		idx++
	}
	if f.AirportID != "" {
		query += " AND p.airport_id = $" + strconv.Itoa(idx)
		args = append(args, f.AirportID)
		idx++
	}
	if f.Vehicle != "" {
		query += " AND p.vehicle = $" + strconv.Itoa(idx)
		args = append(args, f.Vehicle)
		idx++
	}
	query += " ORDER BY p.price_per_day, p.name"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if isInvalidText(err) {
		// A malformed id can never match.
		return []db.ParkingOffer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repo.OfferRepository.SearchOffers: %w", err)
	}
	defer rows.Close()

	offers := []db.ParkingOffer{}
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.OfferRepository.SearchOffers: scan: %w", err)
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.OfferRepository.SearchOffers: %w", err)
	}
	return offers, nil
}

func (r *offerRepository) ListCities(ctx context.Context) ([]db.City, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, slug FROM cities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("repo.OfferRepository.ListCities: %w", err)
	}
	defer rows.Close()

	cities := []db.City{}
	for rows.Next() {
		var c db.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("repo.OfferRepository.ListCities: scan: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.OfferRepository.ListCities: %w", err)
	}
	return cities, nil
}

func (r *offerRepository) ListAirports(ctx context.Context, cityID string) ([]db.Airport, error) {
	query := `SELECT id, city_id, name, code, slug FROM airports`
	args := []any{}
	if cityID = strings.TrimSpace(cityID); cityID != "" {
		query += " WHERE city_id = $1"
		args = append(args, cityID)
	}
	query += " ORDER BY name"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if isInvalidText(err) {
		return []db.Airport{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repo.OfferRepository.ListAirports: %w", err)
	}
	defer rows.Close()

	airports := []db.Airport{}
	for rows.Next() {
		var a db.Airport
		if err := rows.Scan(&a.ID, &a.CityID, &a.Name, &a.Code, &a.Slug); err != nil {
			return nil, fmt.Errorf("repo.OfferRepository.ListAirports: scan: %w", err)
		}
		airports = append(airports, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.OfferRepository.ListAirports: %w", err)
	}
	return airports, nil
}
