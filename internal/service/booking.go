package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/availability"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/model"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/payment"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/queue"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/repository"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/storage"
)

// BookingService runs the booking ledger: creation with the slot lock,
// customer payment proof, and admin review.
type BookingService struct {
	Grounds  GroundStore
	Bookings BookingStore
	Payments *payment.Builder
	Files    FileStore
	Locks    SlotLocker     // optional
	Events   EventPublisher // optional
	Log      *slog.Logger
}

// CreateBookingInput is the customer's slot request.
type CreateBookingInput struct {
	GroundID  uint64
	Date      string
	StartTime string
	EndTime   string
}

// Receipt is a new booking with the instructions for paying it.
type Receipt struct {
	Booking model.Booking
	Ground  model.Ground
	Payment payment.Instructions
}

// Create books one hourly slot for caller.  The slot must be free, on the
// hour, one hour long and inside the ground's opening hours.  The amount is
// the ground's hourly price.
func (s *BookingService) Create(ctx context.Context, caller Identity, in CreateBookingInput) (Receipt, error) {
	if caller.UserID == 0 {
		return Receipt{}, ErrForbidden
	}
	if in.GroundID == 0 {
		return Receipt{}, fmt.Errorf("%w: groundId is required", ErrValidation)
	}
	in.Date = strings.TrimSpace(in.Date)
	if _, err := availability.ParseDate(in.Date); err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	start, end, err := availability.ValidateSlot(in.StartTime, in.EndTime)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	g, err := s.Grounds.GetByID(ctx, in.GroundID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Receipt{}, ErrGroundNotFound
		}
		return Receipt{}, err
	}
	if !g.IsActive {
		return Receipt{}, ErrGroundInactive
	}
	startHour, _ := availability.ParseHour(start)
	if !availability.WithinHours(g, startHour) {
		return Receipt{}, fmt.Errorf("%w: %s is outside opening hours %s-%s", ErrValidation, start, g.OpenTime, g.CloseTime)
	}

	release, err := s.lock(ctx, g.ID, in.Date, start)
	if err != nil {
		return Receipt{}, err
	}
	defer release()

	b := model.Booking{
		UserID:        caller.UserID,
		GroundID:      g.ID,
		Date:          in.Date,
		StartTime:     start,
		EndTime:       end,
		TotalAmount:   g.PricePerHour,
		PaymentStatus: model.PaymentPending,
		BookingStatus: model.BookingPending,
	}
	if err := s.Bookings.Create(ctx, &b); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return Receipt{}, ErrSlotUnavailable
		}
		return Receipt{}, err
	}

	s.publish(ctx, queue.BookingCreated, b, g.Name, caller.UserID)
	return Receipt{
		Booking: b,
		Ground:  g,
		Payment: s.Payments.Build(g.UPIID, g.Name, b.TotalAmount),
	}, nil
}

// lock takes the slot lock when one is configured.  A Redis error is not
// fatal because the unique index still guards the insert.
func (s *BookingService) lock(ctx context.Context, groundID uint64, date, start string) (func(), error) {
	if s.Locks == nil {
		return func() {}, nil
	}
	release, ok, err := s.Locks.Acquire(ctx, groundID, date, start)
	if err != nil {
		s.logWarn("slot lock unavailable", "err", err, "ground_id", groundID, "date", date, "start", start)
		return func() {}, nil
	}
	if !ok {
		return nil, ErrSlotUnavailable
	}
	return release, nil
}

// ListMine returns the caller's bookings, newest first.
func (s *BookingService) ListMine(ctx context.Context, caller Identity) ([]model.BookingDetail, error) {
	return s.Bookings.ListByUser(ctx, caller.UserID)
}

// ListAll returns every booking, newest first.  Admin only.
func (s *BookingService) ListAll(ctx context.Context, caller Identity) ([]model.BookingDetail, error) {
	if !caller.IsAdmin {
		return nil, ErrForbidden
	}
	return s.Bookings.ListAll(ctx)
}

// Get returns one booking to its owner or an admin.
func (s *BookingService) Get(ctx context.Context, caller Identity, id uint64) (model.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if !caller.IsAdmin && b.UserID != caller.UserID {
		return model.Booking{}, ErrForbidden
	}
	return b, nil
}

// Verify marks the payment verified and the booking confirmed.  Repeating it
// is harmless; verifying a cancelled booking is refused.
func (s *BookingService) Verify(ctx context.Context, caller Identity, id uint64) (model.Booking, error) {
	if !caller.IsAdmin {
		return model.Booking{}, ErrForbidden
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if b.BookingStatus == model.BookingCancelled {
		return model.Booking{}, ErrBookingCancelled
	}
	if b.PaymentStatus == model.PaymentVerified && b.BookingStatus == model.BookingConfirmed {
		return b, nil
	}
	b, err = s.Bookings.Confirm(ctx, id)
	if err != nil {
		return model.Booking{}, s.mapLedgerError(err)
	}
	s.publish(ctx, queue.BookingVerified, b, "", caller.UserID)
	return b, nil
}

// Cancel releases the booking's slot.  Admin only; repeating it is harmless.
func (s *BookingService) Cancel(ctx context.Context, caller Identity, id uint64) (model.Booking, error) {
	if !caller.IsAdmin {
		return model.Booking{}, ErrForbidden
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if b.BookingStatus == model.BookingCancelled {
		return b, nil
	}
	b, err = s.Bookings.Cancel(ctx, id)
	if err != nil {
		return model.Booking{}, s.mapLedgerError(err)
	}
	s.publish(ctx, queue.BookingCancelled, b, "", caller.UserID)
	return b, nil
}

// SubmitPayment stores the owner's payment screenshot and marks the payment
// as paid, pending admin review.
func (s *BookingService) SubmitPayment(ctx context.Context, caller Identity, id uint64, screenshot *multipart.FileHeader, transactionID string) (model.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if b.UserID != caller.UserID {
		return model.Booking{}, ErrForbidden
	}
	switch {
	case b.BookingStatus == model.BookingCancelled:
		return model.Booking{}, ErrBookingCancelled
	case b.PaymentStatus == model.PaymentVerified:
		return model.Booking{}, ErrAlreadyVerified
	}
	if screenshot == nil {
		return model.Booking{}, fmt.Errorf("%w: screenshot is required", ErrValidation)
	}

	ref, err := s.Files.Save(screenshot, storage.PaymentProof)
	if err != nil {
		return model.Booking{}, uploadError(err)
	}
	var txn *string
	if t := strings.TrimSpace(transactionID); t != "" {
		txn = &t
	}
	updated, err := s.Bookings.AttachPayment(ctx, id, ref, txn)
	if err != nil {
		s.Files.Remove(ref)
		return model.Booking{}, s.mapLedgerError(err)
	}
	if b.PaymentScreenshot != nil && *b.PaymentScreenshot != ref {
		s.Files.Remove(*b.PaymentScreenshot)
	}
	s.publish(ctx, queue.BookingPaid, updated, "", caller.UserID)
	return updated, nil
}

func (s *BookingService) load(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

func (s *BookingService) mapLedgerError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrBookingNotFound
	case errors.Is(err, repository.ErrSlotTaken):
		return ErrSlotUnavailable
	case errors.Is(err, repository.ErrBookingCancelled):
		return ErrBookingCancelled
	case errors.Is(err, repository.ErrPaymentVerified):
		return ErrAlreadyVerified
	}
	return err
}

// publish sends a booking event.  Failures are logged and never surface to
// the caller.
func (s *BookingService) publish(ctx context.Context, typ string, b model.Booking, groundName string, actor uint64) {
	if s.Events == nil {
		return
	}
	ev := queue.BookingEvent{
		Type:          typ,
		BookingID:     b.ID,
		UserID:        b.UserID,
		ActorID:       actor,
		GroundID:      b.GroundID,
		GroundName:    groundName,
		Date:          b.Date,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		TotalAmount:   b.TotalAmount,
		PaymentStatus: string(b.PaymentStatus),
		BookingStatus: string(b.BookingStatus),
	}
	if err := s.Events.PublishBookingEvent(context.WithoutCancel(ctx), ev); err != nil {
		s.logWarn("publish booking event failed", "err", err, "type", typ, "booking_id", b.ID)
	}
}

func (s *BookingService) logWarn(msg string, args ...any) {
	if s.Log != nil {
		s.Log.Warn(msg, args...)
	}
}
