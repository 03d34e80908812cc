package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/model"
)

// BookingRepo provides persistence for the booking ledger.  The slot lock
// lives in the schema (uq_bookings_slot); this repository translates its
// violations into ErrSlotTaken.  All timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const dateLayout = "2006-01-02"

const bookingColumns = `b.id, b.user_id, b.ground_id, b.booking_date, b.start_time, b.end_time,
	b.total_amount, b.payment_status, b.booking_status, b.payment_screenshot, b.transaction_id,
	b.created_at, b.updated_at`

// Create inserts a booking inside a transaction.  A live booking for the same
// slot is reported as ErrSlotTaken, whether it is seen by the pre-check or
// only surfaces as a duplicate key from a concurrent writer.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var existing uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM bookings WHERE ground_id = ? AND booking_date = ? AND start_time = ?
		AND booking_status <> 'cancelled' LIMIT 1`,
		b.GroundID, b.Date, b.StartTime).Scan(&existing)
	switch {
	case err == nil:
		return ErrSlotTaken
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, ground_id, booking_date, start_time, end_time, total_amount,
		payment_status, booking_status) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.GroundID, b.Date, b.StartTime, b.EndTime, b.TotalAmount,
		string(b.PaymentStatus), string(b.BookingStatus))
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSlotTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings b WHERE b.id = ?", id))
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*b = stored
	return nil
}

// GetByID returns a single booking.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings b WHERE b.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrNotFound
	}
	return b, err
}

// ListLiveByGroundDate returns the non-cancelled bookings of one ground on
// one day, ordered by start time.
func (r *BookingRepo) ListLiveByGroundDate(ctx context.Context, groundID uint64, date string) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+` FROM bookings b
		WHERE b.ground_id = ? AND b.booking_date = ? AND b.booking_status <> 'cancelled'
		ORDER BY b.start_time`, groundID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CountLiveFrom counts non-cancelled bookings of a ground dated on or after
// fromDate.
func (r *BookingRepo) CountLiveFrom(ctx context.Context, groundID uint64, fromDate string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE ground_id = ? AND booking_date >= ?
		AND booking_status <> 'cancelled'`, groundID, fromDate).Scan(&n)
	return n, err
}

// ListByUser returns the user's bookings newest first with ground fields
// populated.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+`, g.id, g.name, g.address, g.price_per_hour
		FROM bookings b JOIN grounds g ON g.id = b.ground_id
		WHERE b.user_id = ? ORDER BY b.created_at DESC, b.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.BookingDetail{}
	for rows.Next() {
		var (
			row bookingRow
			g   model.GroundSummary
		)
		dest := append(row.dest(), &g.ID, &g.Name, &g.Address, &g.PricePerHour)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, model.BookingDetail{Booking: row.toModel(), Ground: &g})
	}
	return out, rows.Err()
}

// ListAll returns every booking newest first with user and ground fields
// populated.  Used by the admin review screen.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+`, g.id, g.name, g.address, g.price_per_hour,
		u.id, u.name, u.email, u.phone
		FROM bookings b
		JOIN grounds g ON g.id = b.ground_id
		JOIN users u ON u.id = b.user_id
		ORDER BY b.created_at DESC, b.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.BookingDetail{}
	for rows.Next() {
		var (
			row bookingRow
			g   model.GroundSummary
			u   model.UserSummary
		)
		dest := append(row.dest(), &g.ID, &g.Name, &g.Address, &g.PricePerHour, &u.ID, &u.Name, &u.Email, &u.Phone)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, model.BookingDetail{Booking: row.toModel(), Ground: &g, User: &u})
	}
	return out, rows.Err()
}

// Confirm marks the payment verified and the booking confirmed.  Cancelled
// rows are left alone and reported as ErrBookingCancelled.
func (r *BookingRepo) Confirm(ctx context.Context, id uint64) (model.Booking, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET payment_status = 'verified', booking_status = 'confirmed' WHERE id = ? AND booking_status <> 'cancelled'",
		id)
	if err != nil {
		return model.Booking{}, err
	}
	b, _, err := r.afterGuardedWrite(ctx, res, id)
	return b, err
}

// Cancel releases the booking.  Only booking_status changes, so payment
// proof submitted concurrently is kept.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64) (model.Booking, error) {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET booking_status = 'cancelled' WHERE id = ?", id); err != nil {
		return model.Booking{}, err
	}
	return r.GetByID(ctx, id)
}

// AttachPayment records the customer's payment proof and marks the payment
// as paid.  Cancelled bookings and verified payments are left untouched.
func (r *BookingRepo) AttachPayment(ctx context.Context, id uint64, screenshot string, transactionID *string) (model.Booking, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET payment_status = 'paid', payment_screenshot = ?, transaction_id = ? "+
			"WHERE id = ? AND booking_status <> 'cancelled' AND payment_status <> 'verified'",
		screenshot, transactionID, id)
	if err != nil {
		return model.Booking{}, err
	}
	b, n, err := r.afterGuardedWrite(ctx, res, id)
	if err != nil {
		return model.Booking{}, err
	}
	if n == 0 && b.PaymentStatus == model.PaymentVerified {
		return model.Booking{}, ErrPaymentVerified
	}
	return b, nil
}

// afterGuardedWrite reloads the row after a conditional UPDATE and turns
// zero affected rows on a cancelled booking into ErrBookingCancelled.
func (r *BookingRepo) afterGuardedWrite(ctx context.Context, res sql.Result, id uint64) (model.Booking, int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return model.Booking{}, 0, err
	}
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, 0, err
	}
	if n == 0 && b.BookingStatus == model.BookingCancelled {
		return model.Booking{}, 0, ErrBookingCancelled
	}
	return b, n, nil
}

// bookingRow receives one scanned booking before conversion to the model.
type bookingRow struct {
	b          model.Booking
	date       time.Time
	payment    string
	status     string
	screenshot sql.NullString
	txn        sql.NullString
}

func (r *bookingRow) dest() []any {
	return []any{&r.b.ID, &r.b.UserID, &r.b.GroundID, &r.date, &r.b.StartTime, &r.b.EndTime,
		&r.b.TotalAmount, &r.payment, &r.status, &r.screenshot, &r.txn,
		&r.b.CreatedAt, &r.b.UpdatedAt}
}

func (r *bookingRow) toModel() model.Booking {
	b := r.b
	b.Date = r.date.Format(dateLayout)
	b.PaymentStatus = model.PaymentStatus(r.payment)
	b.BookingStatus = model.BookingStatus(r.status)
	if r.screenshot.Valid {
		v := r.screenshot.String
		b.PaymentScreenshot = &v
	}
	if r.txn.Valid {
		v := r.txn.String
		b.TransactionID = &v
	}
	return b
}

func scanBooking(s rowScanner) (model.Booking, error) {
	var row bookingRow
	if err := s.Scan(row.dest()...); err != nil {
		return model.Booking{}, err
	}
	return row.toModel(), nil
}
