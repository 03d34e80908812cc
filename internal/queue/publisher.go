package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	dialTimeout    = 2 * time.Second
	publishTimeout = 2 * time.Second
	redialBackoff  = 30 * time.Second
)

// ErrBrokerUnavailable is returned while the publisher waits out the
// backoff after a failed dial.
var ErrBrokerUnavailable = errors.New("rabbitmq unavailable")

// Publisher keeps one broker connection and channel open and re-dials
// lazily after a failure.  Publishing errors are returned so the caller can
// log and carry on; a broker outage never fails a booking.
type Publisher struct {
	url  string
	log  *slog.Logger
	dial func(url string) (*amqp.Connection, error)
	now  func() time.Time

	mu         sync.Mutex
	conn       *amqp.Connection
	ch         *amqp.Channel
	failedDial time.Time
}

// NewPublisher dials the broker and declares the booking queue.
func NewPublisher(url string, log *slog.Logger) (*Publisher, error) {
	p := newPublisher(url, log)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func newPublisher(url string, log *slog.Logger) *Publisher {
	return &Publisher{
		url: url,
		log: log,
		dial: func(url string) (*amqp.Connection, error) {
			return amqp.DialConfig(url, amqp.Config{
				Heartbeat: 10 * time.Second,
				Locale:    "en_US",
				Dial:      amqp.DefaultDial(dialTimeout),
			})
		},
		now: time.Now,
	}
}

func (p *Publisher) connectLocked() error {
	if !p.failedDial.IsZero() && p.now().Sub(p.failedDial) < redialBackoff {
		return ErrBrokerUnavailable
	}
	conn, err := p.dial(p.url)
	if err != nil {
		p.failedDial = p.now()
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	p.failedDial = time.Time{}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(BookingQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

// PublishBookingEvent marshals ev and publishes it as a persistent message.
func (p *Publisher) PublishBookingEvent(ctx context.Context, ev BookingEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	ev.Stamp(time.Now())
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil || p.ch.IsClosed() {
		p.closeLocked()
		if err := p.connectLocked(); err != nil {
			return err
		}
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.ch.PublishWithContext(ctx, "", BookingQueue, false, false, pub); err != nil {
		p.closeLocked()
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

func (p *Publisher) closeLocked() {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil && !p.conn.IsClosed() {
		errs = append(errs, p.conn.Close())
	}
	p.ch, p.conn = nil, nil
	if err := errors.Join(errs...); err != nil && p.log != nil {
		p.log.Debug("rabbitmq close", "err", err)
	}
}
