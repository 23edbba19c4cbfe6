package service_test

import (
	"context"
	"time"

	"comparaparqueaderos/internal/db"
	"comparaparqueaderos/internal/entities"
	"comparaparqueaderos/internal/events"
	"comparaparqueaderos/internal/repository"
	"comparaparqueaderos/internal/service"
)

// Hand-written doubles: each method is a function field, set only the ones
// a test needs.

type mockOfferRepo struct {
	getOffer     func(ctx context.Context, id string) (*db.ParkingOffer, error)
	searchOffers func(ctx context.Context, f repository.OfferFilter) ([]db.ParkingOffer, error)
	listCities   func(ctx context.Context) ([]db.City, error)
	listAirports func(ctx context.Context, cityID string) ([]db.Airport, error)
}

func (m *mockOfferRepo) GetOffer(ctx context.Context, id string) (*db.ParkingOffer, error) {
	return m.getOffer(ctx, id)
}
func (m *mockOfferRepo) SearchOffers(ctx context.Context, f repository.OfferFilter) ([]db.ParkingOffer, error) {
	return m.searchOffers(ctx, f)
}
func (m *mockOfferRepo) ListCities(ctx context.Context) ([]db.City, error) {
	return m.listCities(ctx)
}
func (m *mockOfferRepo) ListAirports(ctx context.Context, cityID string) ([]db.Airport, error) {
	return m.listAirports(ctx, cityID)
}

var _ repository.OfferRepository = (*mockOfferRepo)(nil)

type mockBookingRepo struct {
	insert func(ctx context.Context, b *db.Booking) error
}

func (m *mockBookingRepo) Insert(ctx context.Context, b *db.Booking) error {
	return m.insert(ctx, b)
}

var _ repository.BookingRepository = (*mockBookingRepo)(nil)

type mockJobRepo struct {
	countBookingsByOperator func(ctx context.Context, from, to time.Time, statuses []string) ([]db.OperatorBookingCount, error)
}

func (m *mockJobRepo) CountBookingsByOperator(ctx context.Context, from, to time.Time, statuses []string) ([]db.OperatorBookingCount, error) {
	return m.countBookingsByOperator(ctx, from, to, statuses)
}

var _ repository.JobRepository = (*mockJobRepo)(nil)

type mockNotifier struct {
	bookingInitiated func(ctx context.Context, offer db.ParkingOffer, c entities.BookingConfirmation) error
}

func (m *mockNotifier) BookingInitiated(ctx context.Context, offer db.ParkingOffer, c entities.BookingConfirmation) error {
	return m.bookingInitiated(ctx, offer, c)
}

var _ service.BookingNotifier = (*mockNotifier)(nil)

type mockMailer struct {
	send func(ctx context.Context, toEmail, toName, subject, plainText, html string) error
}

func (m *mockMailer) Send(ctx context.Context, toEmail, toName, subject, plainText, html string) error {
	return m.send(ctx, toEmail, toName, subject, plainText, html)
}

var _ service.Mailer = (*mockMailer)(nil)

type mockSMSSender struct {
	sendSMS func(to, body string) error
}

func (m *mockSMSSender) SendSMS(to, body string) error {
	return m.sendSMS(to, body)
}

var _ service.SMSSender = (*mockSMSSender)(nil)

type mockPublisher struct {
	publishBooking func(ctx context.Context, ev events.BookingEvent) error
}

func (m *mockPublisher) PublishBooking(ctx context.Context, ev events.BookingEvent) error {
	return m.publishBooking(ctx, ev)
}

var _ service.BookingEventPublisher = (*mockPublisher)(nil)

type mockOfferCache struct {
	getOffers func(ctx context.Context, key string) ([]db.ParkingOffer, bool, error)
	setOffers func(ctx context.Context, key string, offers []db.ParkingOffer) error
}

func (m *mockOfferCache) GetOffers(ctx context.Context, key string) ([]db.ParkingOffer, bool, error) {
	return m.getOffers(ctx, key)
}
func (m *mockOfferCache) SetOffers(ctx context.Context, key string, offers []db.ParkingOffer) error {
	return m.setOffers(ctx, key, offers)
}

var _ service.OfferCache = (*mockOfferCache)(nil)

// ---- fixtures ----------------------------------------------------------------

const fixtureBookingID = "3f2b9c1e-8d4a-4b7e-9f00-a1b2c39f2c1a"

func offerFixture() db.ParkingOffer {
	return db.ParkingOffer{
		ID:          "6d1c7a52-0b7e-4c1b-9a55-2f7f0f1b7c11",
		OperatorID:  "op-1",
		AirportID:   "bog",
		CityID:      "bogota",
		Name:        "Parqueadero El Dorado",
		PricePerDay: 50000,
		Currency:    "COP",
		Vehicle:     "carro",
		IsCovered:   true,
		DistanceKm:  1.2,
		IsActive:    true,
		Operator: db.Operator{
			ID:             "op-1",
			Name:           "Parking Express",
			WhatsappNumber: "+57 300 123 4567",
			IsActive:       true,
		},
	}
}

func requestFixture() entities.BookingRequest {
	return entities.BookingRequest{
		OfferID:         "6d1c7a52-0b7e-4c1b-9a55-2f7f0f1b7c11",
		Vehicle:         "carro",
		CustomerName:    "Juan",
		CustomerSurname: "Pérez",
		CustomerPhone:   "3001112233",
		VehiclePlate:    "ABC123",
		EntryDate:       "2025-03-01",
		EntryTime:       "10:00",
		ExitDate:        "2025-03-03",
		ExitTime:        "10:00",
	}
}

func offerRepoReturning(offer db.ParkingOffer) *mockOfferRepo {
	return &mockOfferRepo{
		getOffer: func(_ context.Context, id string) (*db.ParkingOffer, error) {
			if id != offer.ID {
				return nil, repository.ErrNotFound
			}
			o := offer
			return &o, nil
		},
	}
}

// stampingRepo assigns the given ids in order, like the database would.
func stampingRepo(ids ...string) (*mockBookingRepo, *[]db.Booking) {
	var stored []db.Booking
	return &mockBookingRepo{
		insert: func(_ context.Context, b *db.Booking) error {
			b.ID = ids[len(stored)]
			b.CreatedAt = time.Date(2025, 2, 20, 15, 0, 0, 0, time.UTC)
			stored = append(stored, *b)
			return nil
		},
	}, &stored
}
