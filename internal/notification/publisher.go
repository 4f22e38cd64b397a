// Package notification publishes booking lifecycle events to Kafka. Delivery
// is best effort: failures are logged and never surface to the caller, a
// booking transition must not fail because the broker is down.
package notification

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"travelbooking/internal/domain"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultTopic = "booking-notifications"

type event struct {
	Type        string    `json:"type"`
	RecipientID uuid.UUID `json:"recipient_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason,omitempty"`
	Amount      string    `json:"amount,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher sends events through a sarama sync producer. A nil producer
// (no brokers configured) degrades to log-only mode, which is what tests
// and local development run with.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if topic == "" {
		topic = defaultTopic
	}
	if len(brokers) == 0 {
		return &Publisher{topic: topic}, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Publisher{producer: producer, topic: topic}, nil
}

func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

func (p *Publisher) publish(ctx context.Context, e event) {
	e.OccurredAt = time.Now().UTC()

	if p.producer == nil {
		log.Printf("notification: %s booking_id=%s recipient=%s", e.Type, e.BookingID, e.RecipientID)
		return
	}

	payload, err := json.Marshal(e)
	if err != nil {
		log.Printf("notification: marshal %s failed: %v", e.Type, err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.BookingID.String()),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Printf("notification: publish %s failed: %v", e.Type, err)
	}
}

func (p *Publisher) NotifyBookingCreated(ctx context.Context, supplierID uuid.UUID, b *domain.Booking) {
	p.publish(ctx, event{Type: "booking.created", RecipientID: supplierID, BookingID: b.ID, Status: string(b.Status)})
}

func (p *Publisher) NotifyBookingConfirmed(ctx context.Context, guestID uuid.UUID, b *domain.Booking) {
	p.publish(ctx, event{Type: "booking.confirmed", RecipientID: guestID, BookingID: b.ID, Status: string(b.Status)})
}

func (p *Publisher) NotifyBookingRejected(ctx context.Context, guestID uuid.UUID, b *domain.Booking, reason string) {
	p.publish(ctx, event{Type: "booking.rejected", RecipientID: guestID, BookingID: b.ID, Status: string(b.Status), Reason: reason})
}

func (p *Publisher) NotifyBookingCancelled(ctx context.Context, userID uuid.UUID, b *domain.Booking, reason string) {
	p.publish(ctx, event{Type: "booking.cancelled", RecipientID: userID, BookingID: b.ID, Status: string(b.Status), Reason: reason})
}

func (p *Publisher) NotifyBookingCompleted(ctx context.Context, guestID uuid.UUID, b *domain.Booking) {
	p.publish(ctx, event{Type: "booking.completed", RecipientID: guestID, BookingID: b.ID, Status: string(b.Status)})
}

func (p *Publisher) NotifyPaymentReceived(ctx context.Context, supplierID uuid.UUID, b *domain.Booking) {
	p.publish(ctx, event{Type: "payment.received", RecipientID: supplierID, BookingID: b.ID, Status: string(b.PaymentStatus), Amount: b.TotalPrice.StringFixed(2), Currency: b.Currency})
}

func (p *Publisher) NotifyPaymentRefunded(ctx context.Context, guestID uuid.UUID, b *domain.Booking, amount decimal.Decimal) {
	p.publish(ctx, event{Type: "payment.refunded", RecipientID: guestID, BookingID: b.ID, Status: string(b.PaymentStatus), Amount: amount.StringFixed(2), Currency: b.Currency})
}
