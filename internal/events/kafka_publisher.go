package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeBookingInitiated = "booking.initiated"

	publishTimeout = 2 * time.Second
)

// BookingEvent is the payload published for every stored booking.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	Reference  string    `json:"reference"`
	OfferID    string    `json:"parking_id"`
	OperatorID string    `json:"operator_id"`
	AirportID  string    `json:"airport_id"`
	Vehicle    string    `json:"vehicle"`
	EntryDate  string    `json:"start_date"`
	ExitDate   string    `json:"end_date"`
	TotalDays  int       `json:"total_days"`
	TotalPrice int64     `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

// NewPublisherWithWriter is used when the writer is built elsewhere.
func NewPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// PublishBooking writes the event keyed by booking id, so all events of one
// booking land on the same partition.
func (k *KafkaPublisher) PublishBooking(ctx context.Context, ev BookingEvent) error {
	if ev.Type == "" {
		ev.Type = TypeBookingInitiated
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", ev.BookingID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(ev.BookingID),
		Value:   b,
		Headers: []kafka.Header{{Key: "type", Value: []byte(ev.Type)}},
	}); err != nil {
		return fmt.Errorf("events: publish %s: %w", ev.BookingID, err)
	}
	return nil
}

func (k *KafkaPublisher) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
