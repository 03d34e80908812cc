// Package service holds the booking platform's workflows: accounts, the
// ground catalog, and the booking ledger with its admin review.  Services
// depend on the small store interfaces below so the MySQL repositories and
// the in-memory ones are interchangeable.
package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/model"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/queue"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/storage"
)

// Identity is the authenticated caller as resolved by the access gate.
type Identity struct {
	UserID  uint64
	IsAdmin bool
}

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	SetAdmin(ctx context.Context, id uint64, admin bool) error
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

type GroundStore interface {
	Create(ctx context.Context, g *model.Ground) error
	GetByID(ctx context.Context, id uint64) (model.Ground, error)
	ListActive(ctx context.Context) ([]model.Ground, error)
	SetActive(ctx context.Context, id uint64, active bool) error
}

type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	ListLiveByGroundDate(ctx context.Context, groundID uint64, date string) ([]model.Booking, error)
	CountLiveFrom(ctx context.Context, groundID uint64, fromDate string) (int, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error)
	ListAll(ctx context.Context) ([]model.BookingDetail, error)
	// Confirm and AttachPayment re-check the booking state inside the write.
	Confirm(ctx context.Context, id uint64) (model.Booking, error)
	Cancel(ctx context.Context, id uint64) (model.Booking, error)
	AttachPayment(ctx context.Context, id uint64, screenshot string, transactionID *string) (model.Booking, error)
}

// FileStore persists uploads and returns servable references.
type FileStore interface {
	Save(fh *multipart.FileHeader, kind storage.Kind) (string, error)
	Remove(refs ...string)
}

// SlotLocker serializes concurrent attempts on one slot.  ok=false means
// another request currently holds the slot.
type SlotLocker interface {
	Acquire(ctx context.Context, groundID uint64, date, start string) (release func(), ok bool, err error)
}

// EventPublisher fans booking events out to other systems.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error
}

// CachePurger drops cached catalog responses after a catalog write.
type CachePurger interface {
	Purge(ctx context.Context) error
}
