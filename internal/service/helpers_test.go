package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/logger"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/payment"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/queue"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/repository/memrepo"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/storage"
)

var (
	admin    = Identity{UserID: 1, IsAdmin: true}
	customer = Identity{UserID: 2}
	other    = Identity{UserID: 3}
)

// fakeFiles records saved references without touching the disk.
type fakeFiles struct {
	mu      sync.Mutex
	saved   []string
	removed []string
	failOn  string
}

func (f *fakeFiles) Save(fh *multipart.FileHeader, kind storage.Kind) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fh.Filename == f.failOn {
		return "", fmt.Errorf("%w: %s", storage.ErrUnsupportedType, fh.Filename)
	}
	ref := fmt.Sprintf("uploads/%s/%d-%s", kind.Dir, len(f.saved)+1, fh.Filename)
	f.saved = append(f.saved, ref)
	return ref, nil
}

func (f *fakeFiles) Remove(refs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, refs...)
}

// recordingPublisher keeps every event it is handed.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	err    error
}

func (p *recordingPublisher) PublishBookingEvent(_ context.Context, ev queue.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

// heldLocker reports every slot as held by someone else.
type heldLocker struct{}

func (heldLocker) Acquire(context.Context, uint64, string, string) (func(), bool, error) {
	return func() {}, false, nil
}

// brokenLocker fails like an unreachable Redis.
type brokenLocker struct{}

func (brokenLocker) Acquire(context.Context, uint64, string, string) (func(), bool, error) {
	return nil, false, errors.New("redis: connection refused")
}

type countingPurger struct{ n int }

func (c *countingPurger) Purge(context.Context) error { c.n++; return nil }

type fixture struct {
	store    *memrepo.Store
	files    *fakeFiles
	events   *recordingPublisher
	purger   *countingPurger
	auth     *AuthService
	grounds  *GroundService
	bookings *BookingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memrepo.New()
	f := &fixture{
		store:  store,
		files:  &fakeFiles{},
		events: &recordingPublisher{},
		purger: &countingPurger{},
	}
	f.auth = &AuthService{
		Users: store.Users, Tokens: store.Tokens, Secret: "test-secret",
		AccessTTL: time.Hour, RefreshTTLDays: 7, BcryptCost: bcrypt.MinCost,
	}
	f.grounds = &GroundService{
		Grounds: store.Grounds, Bookings: store.Bookings, Files: f.files, Cache: f.purger,
		Log: logger.Discard(), Now: func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) },
	}
	f.bookings = &BookingService{
		Grounds: store.Grounds, Bookings: store.Bookings, Files: f.files, Events: f.events,
		Payments: payment.NewBuilder(payment.Config{}), Log: logger.Discard(),
	}
	return f
}

func groundOneForm() GroundForm {
	return GroundForm{
		Name: "Ground 1", Address: "12 Park Road", Latitude: "19.07", Longitude: "72.87",
		OpenTime: "06:00", CloseTime: "10:00", PricePerHour: "500",
		Amenities: "Parking, Floodlights", UPIID: "ground1@okaxis",
	}
}

func (f *fixture) groundOne(t *testing.T) uint64 {
	t.Helper()
	g, err := f.grounds.Create(context.Background(), admin, groundOneForm(), nil, nil)
	require.NoError(t, err)
	return g.ID
}

// upload builds a multipart.FileHeader as a request would carry it.
func upload(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}
