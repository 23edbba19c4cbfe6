package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comparaparqueaderos/internal/db"
	"comparaparqueaderos/internal/entities"
	"comparaparqueaderos/internal/service"
)

type stubBookings struct {
	got  entities.BookingRequest
	resp entities.BookingConfirmation
	err  error
}

func (s *stubBookings) CreateBooking(_ context.Context, req entities.BookingRequest) (entities.BookingConfirmation, error) {
	s.got = req
	return s.resp, s.err
}

type stubSearch struct {
	params service.SearchParams
	quoted string
	stay   service.Stay
	offers []entities.OfferResult
	err    error
}

func (s *stubSearch) ListCities(context.Context) ([]db.City, error) {
	return []db.City{{ID: "c1", Name: "Bogotá", Slug: "bogota"}}, s.err
}

func (s *stubSearch) ListAirports(_ context.Context, cityID string) ([]db.Airport, error) {
	return []db.Airport{{ID: "a1", CityID: cityID, Name: "El Dorado", Code: "BOG"}}, s.err
}

func (s *stubSearch) SearchOffers(_ context.Context, p service.SearchParams) ([]entities.OfferResult, error) {
	s.params = p
	return s.offers, s.err
}

func (s *stubSearch) QuoteOffer(_ context.Context, id string, stay service.Stay) (entities.OfferResult, error) {
	s.quoted, s.stay = id, stay
	if s.err != nil {
		return entities.OfferResult{}, s.err
	}
	return entities.OfferResult{Offer: db.ParkingOffer{ID: id}, Quote: entities.Quote{BillableDays: 2, TotalPrice: 100000}}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(b BookingCreator, s OfferSearcher, p Pinger) http.Handler {
	return NewRouter(RouterDeps{Bookings: b, Search: s, DB: p, Logger: quietLogger()})
}

func confirmed() entities.BookingConfirmation {
	return entities.BookingConfirmation{
		Booking: db.Booking{
			ID:         "3f2b9c1e-8d4a-4b7e-9f00-a1b2c39f2c1a",
			OfferID:    "p-1",
			Status:     db.BookingStatusInitiated,
			TotalDays:  2,
			TotalPrice: 100000,
		},
		Reference: "CP-9F2C1A",
		DeepLink:  "https://wa.me/573001234567?text=Hola",
	}
}

const bookingJSON = `{
	"parking_id": "p-1",
	"vehiculo": "carro",
	"customer_name": "Juan",
	"customer_surname": "Pérez",
	"customer_phone": "3001112233",
	"vehicle_plate": "ABC123",
	"fechaEntrada": "2025-03-01",
	"horaEntrada": "10:00",
	"fechaSalida": "2025-03-03",
	"horaSalida": "10:00"
}`

func TestCreateBooking_JSON(t *testing.T) {
	svc := &stubBookings{resp: confirmed()}
	router := newTestRouter(svc, &stubSearch{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(bookingJSON))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CP-9F2C1A", body.Reference)
	assert.Equal(t, "initiated", body.Status)
	assert.Equal(t, "https://wa.me/573001234567?text=Hola", body.WhatsappURL)
	assert.Equal(t, 2, body.TotalDays)
	assert.Equal(t, int64(100000), body.TotalPrice)

	assert.Equal(t, "p-1", svc.got.OfferID)
	assert.Equal(t, "Pérez", svc.got.CustomerSurname)
	assert.Equal(t, "2025-03-03", svc.got.ExitDate)
}

func TestCreateBooking_Form(t *testing.T) {
	svc := &stubBookings{resp: confirmed()}
	router := newTestRouter(svc, &stubSearch{}, nil)

	form := url.Values{
		"parking_id":       {"p-1"},
		"vehiculo":         {"moto"},
		"customer_name":    {"Ana"},
		"customer_surname": {"Gómez"},
		"customer_phone":   {"3009998877"},
		"vehicle_plate":    {"XYZ98A"},
		"fechaEntrada":     {"2025-03-01"},
		"horaEntrada":      {"06:30"},
		"fechaSalida":      {"2025-03-02"},
		"horaSalida":       {"07:00"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "moto", svc.got.Vehicle)
	assert.Equal(t, "XYZ98A", svc.got.VehiclePlate)
	assert.Equal(t, "06:30", svc.got.EntryTime)
}

func TestCreateBooking_BadBody(t *testing.T) {
	cases := map[string]struct {
		contentType string
		body        string
	}{
		"malformed json":   {"application/json", `{"parking_id":`},
		"unsupported type": {"text/plain", "parking_id=p-1"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubBookings{}
			router := newTestRouter(svc, &stubSearch{}, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"solicitud inválida"}`, rec.Body.String())
		})
	}
}

func TestCreateBooking_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", &service.ValidationError{Field: "vehicle_plate", Message: "la placa es obligatorio"}, http.StatusBadRequest, "la placa es obligatorio"},
		{"validation with detail", &service.ValidationError{Field: "fechaEntrada", Message: "fecha u hora de entrada inválida", Err: errors.New(`invalid date "01/03/2025", want YYYY-MM-DD`)}, http.StatusBadRequest, "fecha u hora de entrada inválida"},
		{"invalid", fmt.Errorf("%w: offer p-1", service.ErrInvalidRequest), http.StatusBadRequest, msgBadBody},
		{"offer unavailable", fmt.Errorf("%w: offer p-1 is inactive", service.ErrOfferUnavailable), http.StatusNotFound, msgUnavailable},
		{"operator unavailable", service.ErrOperatorUnavailable, http.StatusNotFound, msgUnavailable},
		{"persistence", fmt.Errorf("%w: %w", service.ErrPersistence, errors.New("pq: connection refused")), http.StatusServiceUnavailable, msgBookingFailed},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, msgBookingFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubBookings{err: tc.err}, &stubSearch{}, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(bookingJSON))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.msg, body["error"])
			assert.NotContains(t, rec.Body.String(), "pq:")
			assert.NotContains(t, rec.Body.String(), "invalid date")
		})
	}
}

func TestSearchOffers_Handler(t *testing.T) {
	search := &stubSearch{offers: []entities.OfferResult{{Offer: db.ParkingOffer{ID: "p-1"}}}}
	router := newTestRouter(&stubBookings{}, search, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/offers?airport_id=bog&vehiculo=moto&sort=closest&fechaEntrada=2025-03-01&horaEntrada=10:00&fechaSalida=2025-03-02&horaSalida=09:00", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bog", search.params.AirportID)
	assert.Equal(t, "moto", search.params.Vehicle)
	assert.Equal(t, "closest", search.params.Sort)
	assert.Equal(t, service.Stay{EntryDate: "2025-03-01", EntryTime: "10:00", ExitDate: "2025-03-02", ExitTime: "09:00"}, search.params.Stay)

	var body OffersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "closest", body.Sort)
}

func TestSearchOffers_DefaultSortAndValidation(t *testing.T) {
	search := &stubSearch{}
	router := newTestRouter(&stubBookings{}, search, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/offers?city_id=bogota", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sort":"cheapest"`)

	search.err = &service.ValidationError{Field: "airport_id", Message: "indica un aeropuerto o una ciudad"}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/offers", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteOffer_Handler(t *testing.T) {
	search := &stubSearch{}
	router := newTestRouter(&stubBookings{}, search, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/offers/p-7/quote?fechaEntrada=2025-03-01", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p-7", search.quoted)
	assert.Equal(t, "2025-03-01", search.stay.EntryDate)

	search.err = service.ErrOfferUnavailable
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/offers/p-8/quote", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHandlers(t *testing.T) {
	router := newTestRouter(&stubBookings{}, &stubSearch{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cities", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"bogota"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/airports?city_id=c9", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"city_id":"c9"`)
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name   string
		pinger Pinger
		status int
		db     string
	}{
		{"no database", nil, http.StatusOK, "skipped"},
		{"reachable", stubPinger{}, http.StatusOK, "ok"},
		{"unreachable", stubPinger{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, "unreachable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubBookings{}, &stubSearch{}, tc.pinger)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tc.status, rec.Code)
			var body HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.db, body.Database)
		})
	}
}

func TestRequestID(t *testing.T) {
	router := newTestRouter(&stubBookings{}, &stubSearch{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

type panickingBookings struct{}

func (panickingBookings) CreateBooking(context.Context, entities.BookingRequest) (entities.BookingConfirmation, error) {
	panic("nil map")
}

func TestRecoverMiddleware(t *testing.T) {
	router := newTestRouter(panickingBookings{}, &stubSearch{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(bookingJSON))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(&stubBookings{}, &stubSearch{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
