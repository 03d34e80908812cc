package model

import "time"

// PaymentStatus tracks the customer's payment independently of the booking.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentVerified PaymentStatus = "verified"
)

// BookingStatus is the lifecycle of the reservation itself.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking reserves exactly one hourly slot of one ground for one user.
// Date is a calendar day formatted as YYYY-MM-DD.
type Booking struct {
	ID                uint64        // bookings.id
	UserID            uint64        // bookings.user_id
	GroundID          uint64        // bookings.ground_id
	Date              string        // bookings.booking_date
	StartTime         string        // bookings.start_time
	EndTime           string        // bookings.end_time
	TotalAmount       float64       // bookings.total_amount
	PaymentStatus     PaymentStatus // bookings.payment_status
	BookingStatus     BookingStatus // bookings.booking_status
	PaymentScreenshot *string       // bookings.payment_screenshot (nullable)
	TransactionID     *string       // bookings.transaction_id (nullable)
	CreatedAt         time.Time     // bookings.created_at
	UpdatedAt         time.Time     // bookings.updated_at
}

// Live reports whether the booking still holds its slot.
func (b Booking) Live() bool { return b.BookingStatus != BookingCancelled }

// GroundSummary is the slice of a ground embedded in booking listings.
type GroundSummary struct {
	ID           uint64
	Name         string
	Address      string
	PricePerHour float64
}

// UserSummary is the slice of a user embedded in admin booking listings.
type UserSummary struct {
	ID    uint64
	Name  string
	Email string
	Phone string
}

// BookingDetail is a booking with its referenced records populated.
// User is nil in customer-facing listings.
type BookingDetail struct {
	Booking
	Ground *GroundSummary
	User   *UserSummary
}
