// Package availability derives a ground's hourly slot grid for one day.
package availability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/model"
)

// DateLayout is the calendar-date format used on the wire and in storage.
const DateLayout = "2006-01-02"

var (
	ErrInvalidTime = errors.New("time must be HH:MM on the hour")
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
	ErrSlotLength  = errors.New("slot must be exactly one hour")
)

// Compute returns the slot grid for g on date.  bookings must already be
// filtered to live bookings of g on date; any booking starting at a slot's
// start time marks that slot unavailable.  When the ground opens at or after
// its closing hour the grid is empty.
func Compute(g model.Ground, date string, bookings []model.Booking) ([]model.Slot, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	open, err := ParseHour(g.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("open time: %w", err)
	}
	closing, err := ParseHour(g.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("close time: %w", err)
	}

	taken := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		taken[b.StartTime] = true
	}

	slots := []model.Slot{}
	for h := open; h < closing; h++ {
		start := FormatHour(h)
		slots = append(slots, model.Slot{
			StartTime: start,
			EndTime:   FormatHour(h + 1),
			Available: !taken[start],
			Price:     g.PricePerHour,
		})
	}
	return slots, nil
}

// ParseHour reads an hour-of-day string.  "06:00", "6:00" and "24:00" (as a
// closing time) are accepted; minutes other than 00 are not.
func ParseHour(s string) (int, error) {
	s = strings.TrimSpace(s)
	hh, mm, found := strings.Cut(s, ":")
	if !found {
		mm = "00"
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if m, err := strconv.Atoi(mm); err != nil || m != 0 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return h, nil
}

// FormatHour renders an hour as "HH:00".
func FormatHour(h int) string { return fmt.Sprintf("%02d:00", h) }

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ValidateSlot checks that start and end bound exactly one hour and returns
// them in canonical "HH:00" form.  A slot may start no later than 23:00.
func ValidateSlot(start, end string) (string, string, error) {
	sh, err := ParseHour(start)
	if err != nil {
		return "", "", err
	}
	eh, err := ParseHour(end)
	if err != nil {
		return "", "", err
	}
	if sh > 23 || eh != sh+1 {
		return "", "", ErrSlotLength
	}
	return FormatHour(sh), FormatHour(eh), nil
}

// WithinHours reports whether the slot starting at hour h lies inside the
// ground's operating window.
func WithinHours(g model.Ground, h int) bool {
	open, err := ParseHour(g.OpenTime)
	if err != nil {
		return false
	}
	closing, err := ParseHour(g.CloseTime)
	if err != nil {
		return false
	}
	return h >= open && h+1 <= closing
}
