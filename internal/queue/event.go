// Package queue defines the booking events exchanged over RabbitMQ, the
// publisher used by the booking workflow and the consumer that keeps an
// append-only audit log of them.
package queue

import "time"

// Event types, also used as the routing key suffix.
const (
	BookingCreated   = "booking.created"
	BookingPaid      = "booking.paid"
	BookingVerified  = "booking.verified"
	BookingCancelled = "booking.cancelled"
)

// BookingQueue is the durable queue every booking event is published to.
const BookingQueue = "booking.events"

// BookingEvent carries enough of a booking for downstream consumers to log
// or notify without querying the primary database.
type BookingEvent struct {
	EventID       string  `json:"event_id"`
	Type          string  `json:"type"`
	BookingID     uint64  `json:"booking_id"`
	UserID        uint64  `json:"user_id"`
	ActorID       uint64  `json:"actor_id"`
	GroundID      uint64  `json:"ground_id"`
	GroundName    string  `json:"ground_name,omitempty"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentStatus string  `json:"payment_status"`
	BookingStatus string  `json:"booking_status"`
	OccurredAt    string  `json:"occurred_at"`
}

// Stamp fills in the occurrence time when it is missing.
func (e *BookingEvent) Stamp(now time.Time) {
	if e.OccurredAt == "" {
		e.OccurredAt = now.UTC().Format(time.RFC3339)
	}
}
