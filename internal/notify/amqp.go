package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/config"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/utils"
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Event is the JSON body of every published message.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	RequestID  string    `json:"requestId,omitempty"`
	Data       any       `json:"data"`
}

type statusChange struct {
	Booking models.Booking       `json:"booking"`
	Status  models.BookingStatus `json:"status"`
}

// Publisher emits booking events on a topic exchange for other systems.
type Publisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch Channel
}

func NewPublisher(cfg config.AMQPConfig) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}
	return &Publisher{conn: conn, exchange: cfg.Exchange, ch: ch}, nil
}

func (p *Publisher) Name() string { return "amqp" }

func (p *Publisher) BookingCreated(ctx context.Context, b models.Booking) error {
	return p.publish(ctx, EventBookingCreated, EventBookingCreated, b)
}

// StatusChanged routes on booking.status.<status> so consumers can bind to
// one status.
func (p *Publisher) StatusChanged(ctx context.Context, b models.Booking, status models.BookingStatus) error {
	return p.publish(ctx, EventStatusChanged, EventStatusChanged+"."+string(status), statusChange{Booking: b, Status: status})
}

func (p *Publisher) InvoiceIssued(ctx context.Context, _ models.Booking, inv models.Invoice) error {
	return p.publish(ctx, EventInvoiceIssued, EventInvoiceIssued, inv)
}

func (p *Publisher) CallbackRequested(ctx context.Context, req models.CallbackRequest) error {
	return p.publish(ctx, EventCallbackRequested, EventCallbackRequested, req)
}

func (p *Publisher) publish(ctx context.Context, eventType, routingKey string, data any) error {
	body, err := json.Marshal(Event{
		Type:       eventType,
		OccurredAt: utils.NowUTC(),
		RequestID:  utils.RequestIDFrom(ctx),
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         eventType,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if errors.Is(err, amqp.ErrClosed) && p.conn != nil && !p.conn.IsClosed() {
		ch, openErr := p.conn.Channel()
		if openErr != nil {
			return fmt.Errorf("reopen amqp channel: %w", openErr)
		}
		p.ch = ch
		err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	}
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil {
		if err := p.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if p.conn != nil && !p.conn.IsClosed() {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
