// Package memrepo is an in-memory implementation of the repository layer.
// It enforces the same invariants as the MySQL schema (unique email, one live
// booking per slot) and is used to exercise services and handlers without a
// database.
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/model"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/repository"
)

// Store holds every table behind one mutex.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	users    []model.User
	tokens   []model.RefreshToken
	grounds  []model.Ground
	bookings []model.Booking

	Users    *Users
	Tokens   *Tokens
	Grounds  *Grounds
	Bookings *Bookings
}

// New returns an empty store.
func New() *Store {
	s := &Store{now: func() time.Time { return time.Now().UTC() }}
	s.Users = &Users{s}
	s.Tokens = &Tokens{s}
	s.Grounds = &Grounds{s}
	s.Bookings = &Bookings{s}
	return s
}

// tick returns a strictly increasing timestamp so newest-first ordering is
// stable even when records are created within the same clock tick.
func (s *Store) tick(last time.Time) time.Time {
	t := s.now()
	if !t.After(last) {
		t = last.Add(time.Microsecond)
	}
	return t
}

type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, x := range r.s.users {
		if x.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = uint64(len(r.s.users) + 1)
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	r.s.users = append(r.s.users, *u)
	return nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (r *Users) GetByID(_ context.Context, id uint64) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id == 0 || id > uint64(len(r.s.users)) {
		return model.User{}, repository.ErrNotFound
	}
	return r.s.users[id-1], nil
}

func (r *Users) SetAdmin(_ context.Context, id uint64, admin bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id == 0 || id > uint64(len(r.s.users)) {
		return repository.ErrNotFound
	}
	r.s.users[id-1].IsAdmin = admin
	return nil
}

type Tokens struct{ s *Store }

func (r *Tokens) StoreRefresh(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tokens = append(r.s.tokens, model.RefreshToken{
		ID: uint64(len(r.s.tokens) + 1), UserID: userID, TokenHash: tokenHash, ExpiresAt: exp, CreatedAt: r.s.now(),
	})
	return nil
}

func (r *Tokens) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil && r.s.now().Before(t.ExpiresAt) {
			return t.UserID, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (r *Tokens) RevokeByHash(_ context.Context, tokenHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	revoked := false
	for i := range r.s.tokens {
		if r.s.tokens[i].TokenHash == tokenHash && r.s.tokens[i].RevokedAt == nil {
			r.s.tokens[i].RevokedAt = &now
			revoked = true
		}
	}
	if !revoked {
		return repository.ErrNotFound
	}
	return nil
}

func (r *Tokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	for i := range r.s.tokens {
		if r.s.tokens[i].UserID == userID && r.s.tokens[i].RevokedAt == nil {
			r.s.tokens[i].RevokedAt = &now
		}
	}
	return nil
}

type Grounds struct{ s *Store }

func (r *Grounds) Create(_ context.Context, g *model.Ground) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var last time.Time
	if n := len(r.s.grounds); n > 0 {
		last = r.s.grounds[n-1].CreatedAt
	}
	g.ID = uint64(len(r.s.grounds) + 1)
	g.CreatedAt = r.s.tick(last)
	g.UpdatedAt = g.CreatedAt
	if g.Images == nil {
		g.Images = []string{}
	}
	if g.Amenities == nil {
		g.Amenities = []string{}
	}
	r.s.grounds = append(r.s.grounds, cloneGround(*g))
	return nil
}

func (r *Grounds) GetByID(_ context.Context, id uint64) (model.Ground, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id == 0 || id > uint64(len(r.s.grounds)) {
		return model.Ground{}, repository.ErrNotFound
	}
	return cloneGround(r.s.grounds[id-1]), nil
}

func (r *Grounds) ListActive(_ context.Context) ([]model.Ground, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Ground{}
	for i := len(r.s.grounds) - 1; i >= 0; i-- {
		if r.s.grounds[i].IsActive {
			out = append(out, cloneGround(r.s.grounds[i]))
		}
	}
	return out, nil
}

func (r *Grounds) SetActive(_ context.Context, id uint64, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id == 0 || id > uint64(len(r.s.grounds)) {
		return repository.ErrNotFound
	}
	r.s.grounds[id-1].IsActive = active
	r.s.grounds[id-1].UpdatedAt = r.s.now()
	return nil
}

func cloneGround(g model.Ground) model.Ground {
	g.Images = append([]string{}, g.Images...)
	g.Amenities = append([]string{}, g.Amenities...)
	return g
}

type Bookings struct{ s *Store }

func (r *Bookings) Create(_ context.Context, b *model.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.bookings {
		if x.Live() && x.GroundID == b.GroundID && x.Date == b.Date && x.StartTime == b.StartTime {
			return repository.ErrSlotTaken
		}
	}
	var last time.Time
	if n := len(r.s.bookings); n > 0 {
		last = r.s.bookings[n-1].CreatedAt
	}
	b.ID = uint64(len(r.s.bookings) + 1)
	b.CreatedAt = r.s.tick(last)
	b.UpdatedAt = b.CreatedAt
	r.s.bookings = append(r.s.bookings, *b)
	return nil
}

func (r *Bookings) GetByID(_ context.Context, id uint64) (model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id == 0 || id > uint64(len(r.s.bookings)) {
		return model.Booking{}, repository.ErrNotFound
	}
	return r.s.bookings[id-1], nil
}

func (r *Bookings) ListLiveByGroundDate(_ context.Context, groundID uint64, date string) ([]model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Booking{}
	for _, b := range r.s.bookings {
		if b.Live() && b.GroundID == groundID && b.Date == date {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *Bookings) CountLiveFrom(_ context.Context, groundID uint64, fromDate string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, b := range r.s.bookings {
		if b.Live() && b.GroundID == groundID && b.Date >= fromDate {
			n++
		}
	}
	return n, nil
}

func (r *Bookings) ListByUser(_ context.Context, userID uint64) ([]model.BookingDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.BookingDetail{}
	for i := len(r.s.bookings) - 1; i >= 0; i-- {
		b := r.s.bookings[i]
		if b.UserID == userID {
			out = append(out, model.BookingDetail{Booking: b, Ground: r.s.groundSummary(b.GroundID)})
		}
	}
	return out, nil
}

func (r *Bookings) ListAll(_ context.Context) ([]model.BookingDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.BookingDetail{}
	for i := len(r.s.bookings) - 1; i >= 0; i-- {
		b := r.s.bookings[i]
		d := model.BookingDetail{Booking: b, Ground: r.s.groundSummary(b.GroundID)}
		if b.UserID > 0 && b.UserID <= uint64(len(r.s.users)) {
			u := r.s.users[b.UserID-1]
			d.User = &model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *Bookings) Confirm(_ context.Context, id uint64) (model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id == 0 || id > uint64(len(r.s.bookings)) {
		return model.Booking{}, repository.ErrNotFound
	}
	b := &r.s.bookings[id-1]
	if !b.Live() {
		return model.Booking{}, repository.ErrBookingCancelled
	}
	b.PaymentStatus = model.PaymentVerified
	b.BookingStatus = model.BookingConfirmed
	b.UpdatedAt = r.s.now()
	return *b, nil
}

func (r *Bookings) Cancel(_ context.Context, id uint64) (model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id == 0 || id > uint64(len(r.s.bookings)) {
		return model.Booking{}, repository.ErrNotFound
	}
	b := &r.s.bookings[id-1]
	b.BookingStatus = model.BookingCancelled
	b.UpdatedAt = r.s.now()
	return *b, nil
}

func (r *Bookings) AttachPayment(_ context.Context, id uint64, screenshot string, transactionID *string) (model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id == 0 || id > uint64(len(r.s.bookings)) {
		return model.Booking{}, repository.ErrNotFound
	}
	b := &r.s.bookings[id-1]
	switch {
	case !b.Live():
		return model.Booking{}, repository.ErrBookingCancelled
	case b.PaymentStatus == model.PaymentVerified:
		return model.Booking{}, repository.ErrPaymentVerified
	}
	b.PaymentStatus = model.PaymentPaid
	b.PaymentScreenshot = &screenshot
	b.TransactionID = transactionID
	b.UpdatedAt = r.s.now()
	return *b, nil
}

func (s *Store) groundSummary(id uint64) *model.GroundSummary {
	if id == 0 || id > uint64(len(s.grounds)) {
		return nil
	}
	g := s.grounds[id-1]
	return &model.GroundSummary{ID: g.ID, Name: g.Name, Address: g.Address, PricePerHour: g.PricePerHour}
}
