// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers to distinguish
// between failure scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique key other
// than the booking slot lock (for example a second account per email).
var ErrDuplicate = errors.New("duplicate")

// ErrSlotTaken is returned when a live booking already holds the
// (ground, date, start time) slot.
var ErrSlotTaken = errors.New("slot already booked")

// ErrBookingCancelled is returned when a guarded status change finds the
// booking already cancelled.
var ErrBookingCancelled = errors.New("booking cancelled")

// ErrPaymentVerified is returned when payment proof arrives after the
// payment was verified.
var ErrPaymentVerified = errors.New("payment already verified")

const (
	mysqlDuplicateEntry = 1062
)

// isDuplicateKey reports whether err is a MySQL duplicate-key violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
