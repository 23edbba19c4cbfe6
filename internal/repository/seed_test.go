package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"comparaparqueaderos/internal/db"
	"comparaparqueaderos/testutil"
)

// catalog is the reference data one test inserts inside its transaction.
type catalog struct {
	cityID         string
	airportID      string
	otherAirport   string
	operatorID     string
	silentOpID     string
	carCovered     string
	carOpen        string
	moto           string
	inactive       string
	silentOperator string
}

func newTestTx(t *testing.T) *sql.Tx {
	t.Helper()
	return testutil.NewTx(t)
}

func mustInsert(t *testing.T, tx *sql.Tx, query string, args ...any) string {
	t.Helper()
	var id string
	require.NoError(t, tx.QueryRowContext(context.Background(), query+" RETURNING id", args...).Scan(&id), query)
	return id
}

func seedCatalog(t *testing.T, tx *sql.Tx) catalog {
	t.Helper()
	var c catalog

	c.cityID = mustInsert(t, tx, `INSERT INTO cities (name, slug) VALUES ('Bogotá', 'test-bogota')`)
	c.airportID = mustInsert(t, tx, `INSERT INTO airports (city_id, name, code, slug) VALUES ($1, 'El Dorado', 'BOG', 'test-bog')`, c.cityID)
	otherCity := mustInsert(t, tx, `INSERT INTO cities (name, slug) VALUES ('Medellín', 'test-medellin')`)
	c.otherAirport = mustInsert(t, tx, `INSERT INTO airports (city_id, name, code, slug) VALUES ($1, 'José María Córdova', 'MDE', 'test-mde')`, otherCity)

	c.operatorID = mustInsert(t, tx, `INSERT INTO operators (name, whatsapp_number) VALUES ('Parking Express', '+57 300 123 4567')`)
	c.silentOpID = mustInsert(t, tx, `INSERT INTO operators (name, whatsapp_number, is_active) VALUES ('Cerrado', '+57 300 000 0000', false)`)

	parking := `INSERT INTO parkings (operator_id, airport_id, name, slug, price_per_day, vehicle, is_covered, distance_km, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	c.carCovered = mustInsert(t, tx, parking, c.operatorID, c.airportID, "Techo Dorado", "techo", 50000, "carro", true, 1.2, true)
	c.carOpen = mustInsert(t, tx, parking, c.operatorID, c.airportID, "Abierto", "abierto", 30000, "carro", false, 4.0, true)
	c.moto = mustInsert(t, tx, parking, c.operatorID, c.airportID, "Motos", "motos", 12000, "moto", true, 0.8, true)
	c.inactive = mustInsert(t, tx, parking, c.operatorID, c.airportID, "Viejo", "viejo", 10000, "carro", false, 9.0, false)
	c.silentOperator = mustInsert(t, tx, parking, c.silentOpID, c.otherAirport, "Sin operador", "sin-operador", 20000, "carro", false, 2.0, true)
	return c
}

func bookingFixture(c catalog) db.Booking {
	return db.Booking{
		OfferID:         c.carCovered,
		OperatorID:      c.operatorID,
		CustomerName:    "Juan",
		CustomerSurname: "Pérez",
		CustomerPhone:   "3001112233",
		VehiclePlate:    "ABC123",
		Vehicle:         "Carro",
		EntryDate:       "2025-03-01",
		EntryTime:       "10:00",
		ExitDate:        "2025-03-03",
		ExitTime:        "10:00",
		PricePerDay:     50000,
		TotalDays:       2,
		TotalPrice:      100000,
	}
}
