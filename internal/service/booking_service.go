package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"comparaparqueaderos/internal/db"
	"comparaparqueaderos/internal/entities"
	"comparaparqueaderos/internal/observability"
	"comparaparqueaderos/internal/repository"
	"comparaparqueaderos/internal/utils"
)

const (
	defaultInsertTimeout = 5 * time.Second
	defaultNotifyTimeout = 15 * time.Second
)

// ValidationError is an ErrInvalidRequest with a visitor-facing message.
// Err, when set, is the underlying parse failure; it shows up in Error()
// for logs but never in Message.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidRequest, e.Err}
	}
	return []error{ErrInvalidRequest}
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type BookingConfig struct {
	SiteName        string
	WhatsappBaseURL string
	InsertTimeout   time.Duration
	NotifyTimeout   time.Duration
}

type BookingService struct {
	offers   repository.OfferRepository
	bookings repository.BookingRepository
	notifier BookingNotifier
	cfg      BookingConfig
	logger   *slog.Logger
}

// NewBookingService wires the booking flow. notifier may be nil.
func NewBookingService(offers repository.OfferRepository, bookings repository.BookingRepository, notifier BookingNotifier, cfg BookingConfig, logger *slog.Logger) *BookingService {
	if cfg.SiteName == "" {
		cfg.SiteName = DefaultSiteName
	}
	if cfg.WhatsappBaseURL == "" {
		cfg.WhatsappBaseURL = DefaultWhatsappBaseURL
	}
	if cfg.InsertTimeout <= 0 {
		cfg.InsertTimeout = defaultInsertTimeout
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{offers: offers, bookings: bookings, notifier: notifier, cfg: cfg, logger: logger}
}

// CreateBooking validates the request against the live offer, stores one
// booking with status "initiated" and returns the WhatsApp handoff for it.
func (s *BookingService) CreateBooking(ctx context.Context, req entities.BookingRequest) (entities.BookingConfirmation, error) {
	confirmation, offer, err := s.createBooking(ctx, req)
	if err != nil {
		observability.BookingFailures.WithLabelValues(failureReason(err)).Inc()
		return entities.BookingConfirmation{}, err
	}
	observability.BookingsCreated.Inc()
	s.notify(ctx, offer, confirmation)
	return confirmation, nil
}

func (s *BookingService) createBooking(ctx context.Context, req entities.BookingRequest) (entities.BookingConfirmation, db.ParkingOffer, error) {
	offer, err := s.loadOffer(ctx, strings.TrimSpace(req.OfferID))
	if err != nil {
		return entities.BookingConfirmation{}, db.ParkingOffer{}, err
	}

	customer, err := validateCustomer(req)
	if err != nil {
		return entities.BookingConfirmation{}, db.ParkingOffer{}, err
	}

	entryDate, entryTime := strings.TrimSpace(req.EntryDate), strings.TrimSpace(req.EntryTime)
	exitDate, exitTime := strings.TrimSpace(req.ExitDate), strings.TrimSpace(req.ExitTime)
	entry, exit, err := parseStay(entryDate, entryTime, exitDate, exitTime)
	if err != nil {
		return entities.BookingConfirmation{}, db.ParkingOffer{}, err
	}

	if err := checkVehicle(req.Vehicle, offer.Vehicle); err != nil {
		return entities.BookingConfirmation{}, db.ParkingOffer{}, err
	}

	quote, err := BuildQuote(offer, BillableDays(entry, exit))
	if err != nil {
		return entities.BookingConfirmation{}, db.ParkingOffer{}, err
	}

	booking := db.Booking{
		OfferID:         offer.ID,
		OperatorID:      offer.OperatorID,
		CustomerName:    customer.CustomerName,
		CustomerSurname: customer.CustomerSurname,
		CustomerPhone:   customer.CustomerPhone,
		VehiclePlate:    customer.VehiclePlate,
		Vehicle:         quote.VehicleLabel,
		EntryDate:       entryDate,
		EntryTime:       entryTime,
		ExitDate:        exitDate,
		ExitTime:        exitTime,
		PricePerDay:     quote.PricePerDay,
		TotalDays:       quote.BillableDays,
		TotalPrice:      quote.TotalPrice,
		Status:          db.BookingStatusInitiated,
	}

	insertCtx, cancel := context.WithTimeout(ctx, s.cfg.InsertTimeout)
	defer cancel()
	if err := s.bookings.Insert(insertCtx, &booking); err != nil {
		return entities.BookingConfirmation{}, db.ParkingOffer{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	reference := ShortReference(booking.ID)
	message := ComposeMessage(HandoffMessage{
		OfferName:       offer.Name,
		CoverageLabel:   quote.CoverageLabel,
		Entry:           entry,
		EntryTime:       entryTime,
		Exit:            exit,
		ExitTime:        exitTime,
		PricePerDay:     quote.PricePerDay,
		TotalPrice:      quote.TotalPrice,
		CustomerName:    booking.CustomerName,
		CustomerSurname: booking.CustomerSurname,
		VehicleLabel:    quote.VehicleLabel,
		VehiclePlate:    booking.VehiclePlate,
		Reference:       reference,
		SiteName:        s.cfg.SiteName,
	})

	return entities.BookingConfirmation{
		Booking:   booking,
		Reference: reference,
		Message:   message,
		DeepLink:  BuildDeepLink(s.cfg.WhatsappBaseURL, offer.Operator.WhatsappNumber, message),
	}, offer, nil
}

func (s *BookingService) loadOffer(ctx context.Context, id string) (db.ParkingOffer, error) {
	if id == "" {
		return db.ParkingOffer{}, fmt.Errorf("%w: missing offer id", ErrOfferUnavailable)
	}
	offer, err := s.offers.GetOffer(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return db.ParkingOffer{}, fmt.Errorf("%w: %w", ErrOfferUnavailable, err)
	}
	if err != nil {
		return db.ParkingOffer{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if !offer.IsActive {
		return db.ParkingOffer{}, fmt.Errorf("%w: offer %s is inactive", ErrOfferUnavailable, offer.ID)
	}
	if !offer.Operator.IsActive || DigitsOnly(offer.Operator.WhatsappNumber) == "" {
		return db.ParkingOffer{}, fmt.Errorf("%w: operator %s", ErrOperatorUnavailable, offer.OperatorID)
	}
	return *offer, nil
}

// validateCustomer returns the request with customer fields trimmed.
func validateCustomer(req entities.BookingRequest) (entities.BookingRequest, error) {
	fields := []struct {
		name  string
		label string
		value *string
	}{
		{"customer_name", "el nombre", &req.CustomerName},
		{"customer_surname", "el apellido", &req.CustomerSurname},
		{"customer_phone", "el teléfono", &req.CustomerPhone},
		{"vehicle_plate", "la placa", &req.VehiclePlate},
	}
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return req, invalid(f.name, "%s es obligatorio", f.label)
		}
	}
	return req, nil
}

// parseStay requires all four date/time fields and parses them as civil time.
func parseStay(entryDate, entryTime, exitDate, exitTime string) (CivilDateTime, CivilDateTime, error) {
	required := []struct{ name, value string }{
		{"fechaEntrada", entryDate},
		{"horaEntrada", entryTime},
		{"fechaSalida", exitDate},
		{"horaSalida", exitTime},
	}
	for _, f := range required {
		if f.value == "" {
			return CivilDateTime{}, CivilDateTime{}, invalid(f.name, "%s es obligatorio", f.name)
		}
	}
	entry, err := ParseCivilDateTime(entryDate, entryTime)
	if err != nil {
		return CivilDateTime{}, CivilDateTime{}, &ValidationError{Field: "fechaEntrada", Message: "fecha u hora de entrada inválida", Err: err}
	}
	exit, err := ParseCivilDateTime(exitDate, exitTime)
	if err != nil {
		return CivilDateTime{}, CivilDateTime{}, &ValidationError{Field: "fechaSalida", Message: "fecha u hora de salida inválida", Err: err}
	}
	return entry, exit, nil
}

// checkVehicle accepts an empty vehicle (the offer's applies) or one that
// names the same vehicle type as the offer.
func checkVehicle(requested, offered string) error {
	if strings.TrimSpace(requested) == "" {
		return nil
	}
	if _, err := utils.NormalizeVehicleType(requested); err != nil {
		return invalid("vehiculo", "tipo de vehículo inválido: %q", requested)
	}
	if !utils.SameVehicleType(requested, offered) {
		return invalid("vehiculo", "este parqueadero no recibe el tipo de vehículo %q", requested)
	}
	return nil
}

func (s *BookingService) notify(ctx context.Context, offer db.ParkingOffer, confirmation entities.BookingConfirmation) {
	if s.notifier == nil {
		return
	}
	go func() {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
		defer cancel()
		if err := s.notifier.BookingInitiated(nctx, offer, confirmation); err != nil {
			s.logger.Warn("booking notification failed",
				"booking_id", confirmation.Booking.ID,
				"reference", confirmation.Reference,
				"error", err,
			)
		}
	}()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrOfferUnavailable):
		return "offer_unavailable"
	case errors.Is(err, ErrOperatorUnavailable):
		return "operator_unavailable"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "unknown"
	}
}
