package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"comparaparqueaderos/internal/db"
	"comparaparqueaderos/internal/entities"
	"comparaparqueaderos/internal/events"
	"comparaparqueaderos/internal/observability"
)

// BookingNotifier is told about every booking after it has been stored.
// Errors are logged by the caller and never reach the visitor.
type BookingNotifier interface {
	BookingInitiated(ctx context.Context, offer db.ParkingOffer, c entities.BookingConfirmation) error
}

// MultiNotifier fans a booking out to every configured channel.
type MultiNotifier struct {
	channels  []string
	notifiers []BookingNotifier
}

func NewMultiNotifier() *MultiNotifier {
	return &MultiNotifier{}
}

func (m *MultiNotifier) Add(channel string, n BookingNotifier) *MultiNotifier {
	m.channels = append(m.channels, channel)
	m.notifiers = append(m.notifiers, n)
	return m
}

func (m *MultiNotifier) Len() int {
	return len(m.notifiers)
}

func (m *MultiNotifier) BookingInitiated(ctx context.Context, offer db.ParkingOffer, c entities.BookingConfirmation) error {
	var errs []error
	for i, n := range m.notifiers {
		if err := n.BookingInitiated(ctx, offer, c); err != nil {
			observability.NotificationsFailed.WithLabelValues(m.channels[i]).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", m.channels[i], err))
		}
	}
	return errors.Join(errs...)
}

type SMSSender interface {
	SendSMS(to, body string) error
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
	logger *slog.Logger
}

func NewTwilioSender(accountSid, authToken, fromNumber string, logger *slog.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})
	return &TwilioSender{client: client, from: fromNumber, logger: logger}
}

func (t *TwilioSender) SendSMS(to, body string) error {
	if !strings.HasPrefix(to, "+") {
		return fmt.Errorf("twilio: destination %q is not E.164", to)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: send sms to %s: %w", to, err)
	}
	if resp != nil && resp.Sid != nil {
		t.logger.Debug("sms sent", "to", to, "sid", *resp.Sid)
	}
	return nil
}

// OperatorSMSNotifier texts the operator so the WhatsApp message that
// follows is expected.
type OperatorSMSNotifier struct {
	sender   SMSSender
	siteName string
}

func NewOperatorSMSNotifier(sender SMSSender, siteName string) *OperatorSMSNotifier {
	if siteName == "" {
		siteName = DefaultSiteName
	}
	return &OperatorSMSNotifier{sender: sender, siteName: siteName}
}

func (n *OperatorSMSNotifier) BookingInitiated(_ context.Context, offer db.ParkingOffer, c entities.BookingConfirmation) error {
	to := "+" + DigitsOnly(offer.Operator.WhatsappNumber)
	return n.sender.SendSMS(to, OperatorSMSBody(n.siteName, offer, c))
}

// OperatorSMSBody is the short text sent to the operator.
func OperatorSMSBody(siteName string, offer db.ParkingOffer, c entities.BookingConfirmation) string {
	b := c.Booking
	return fmt.Sprintf("%s: nueva solicitud %s en %s.\nCliente: %s %s (%s).\nEntrada: %s %s. Salida: %s %s.\nTotal: $%s. Revisa tu WhatsApp.",
		siteName, c.Reference, offer.Name,
		b.CustomerName, b.CustomerSurname, b.VehiclePlate,
		b.EntryDate, b.EntryTime, b.ExitDate, b.ExitTime,
		FormatCOP(b.TotalPrice),
	)
}

type BookingEventPublisher interface {
	PublishBooking(ctx context.Context, ev events.BookingEvent) error
}

// EventNotifier publishes a booking.initiated event per booking.
type EventNotifier struct {
	publisher BookingEventPublisher
	now       func() time.Time
}

func NewEventNotifier(publisher BookingEventPublisher) *EventNotifier {
	return &EventNotifier{publisher: publisher, now: time.Now}
}

func (n *EventNotifier) BookingInitiated(ctx context.Context, offer db.ParkingOffer, c entities.BookingConfirmation) error {
	b := c.Booking
	return n.publisher.PublishBooking(ctx, events.BookingEvent{
		Type:       events.TypeBookingInitiated,
		BookingID:  b.ID,
		Reference:  c.Reference,
		OfferID:    b.OfferID,
		OperatorID: b.OperatorID,
		AirportID:  offer.AirportID,
		Vehicle:    b.Vehicle,
		EntryDate:  b.EntryDate,
		ExitDate:   b.ExitDate,
		TotalDays:  b.TotalDays,
		TotalPrice: b.TotalPrice,
		OccurredAt: n.now().UTC(),
	})
}
