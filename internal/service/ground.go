package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/availability"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/model"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/repository"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/storage"
)

// MaxGroundImages caps the photos accepted when registering a ground.
const MaxGroundImages = 5

// GroundService owns the facility catalog.
type GroundService struct {
	Grounds  GroundStore
	Bookings BookingStore
	Files    FileStore
	Cache    CachePurger // optional
	Log      *slog.Logger
	Now      func() time.Time
}

// GroundForm is the raw multipart form of a new ground.  Numbers and the
// amenity list arrive as strings and are coerced by Parse.
type GroundForm struct {
	Name         string
	Address      string
	Latitude     string
	Longitude    string
	OpenTime     string
	CloseTime    string
	PricePerHour string
	Amenities    string
	UPIID        string
	IsActive     string
}

// Parse validates the form and converts it into a Ground without images.
func (f GroundForm) Parse() (model.Ground, error) {
	g := model.Ground{
		Name:      strings.TrimSpace(f.Name),
		Address:   strings.TrimSpace(f.Address),
		UPIID:     strings.TrimSpace(f.UPIID),
		Amenities: SplitAmenities(f.Amenities),
		Images:    []string{},
		IsActive:  true,
	}
	if g.Name == "" {
		return model.Ground{}, fmt.Errorf("%w: name is required", ErrValidation)
	}

	var err error
	if g.Latitude, err = optionalFloat("latitude", f.Latitude, -90, 90); err != nil {
		return model.Ground{}, err
	}
	if g.Longitude, err = optionalFloat("longitude", f.Longitude, -180, 180); err != nil {
		return model.Ground{}, err
	}

	price, err := parseFinite(f.PricePerHour)
	if err != nil || price < 0 {
		return model.Ground{}, fmt.Errorf("%w: pricePerHour must be a non-negative number", ErrValidation)
	}
	g.PricePerHour = price

	open, err := availability.ParseHour(f.OpenTime)
	if err != nil {
		return model.Ground{}, fmt.Errorf("%w: openTime: %v", ErrValidation, err)
	}
	closing, err := availability.ParseHour(f.CloseTime)
	if err != nil {
		return model.Ground{}, fmt.Errorf("%w: closeTime: %v", ErrValidation, err)
	}
	if open >= closing {
		return model.Ground{}, fmt.Errorf("%w: openTime must be before closeTime", ErrValidation)
	}
	g.OpenTime, g.CloseTime = availability.FormatHour(open), availability.FormatHour(closing)

	if v := strings.TrimSpace(f.IsActive); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return model.Ground{}, fmt.Errorf("%w: isActive must be true or false", ErrValidation)
		}
		g.IsActive = active
	}
	return g, nil
}

// SplitAmenities turns "Parking, Floodlights,,Showers" into a trimmed list
// without empty entries.
func SplitAmenities(s string) []string {
	out := []string{}
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// parseFinite is strconv.ParseFloat without the NaN and Inf spellings.
func parseFinite(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", raw)
	}
	return v, nil
}

func optionalFloat(field, raw string, min, max float64) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := parseFinite(raw)
	if err != nil || v < min || v > max {
		return nil, fmt.Errorf("%w: %s must be a number between %g and %g", ErrValidation, field, min, max)
	}
	return &v, nil
}

// Create registers a ground.  Only admins may call it.  Uploaded files are
// removed again if anything after storing them fails.
func (s *GroundService) Create(ctx context.Context, caller Identity, form GroundForm, images []*multipart.FileHeader, qr *multipart.FileHeader) (model.Ground, error) {
	if !caller.IsAdmin {
		return model.Ground{}, ErrForbidden
	}
	g, err := form.Parse()
	if err != nil {
		return model.Ground{}, err
	}
	if len(images) > MaxGroundImages {
		return model.Ground{}, fmt.Errorf("%w: at most %d images", ErrValidation, MaxGroundImages)
	}

	var saved []string
	cleanup := func() { s.Files.Remove(saved...) }
	for _, fh := range images {
		ref, err := s.Files.Save(fh, storage.GroundImage)
		if err != nil {
			cleanup()
			return model.Ground{}, uploadError(err)
		}
		saved = append(saved, ref)
		g.Images = append(g.Images, ref)
	}
	if qr != nil {
		ref, err := s.Files.Save(qr, storage.GroundImage)
		if err != nil {
			cleanup()
			return model.Ground{}, uploadError(err)
		}
		saved = append(saved, ref)
		g.QRImage = &ref
	}

	if err := s.Grounds.Create(ctx, &g); err != nil {
		cleanup()
		return model.Ground{}, err
	}
	s.purge(ctx)
	return g, nil
}

// List returns the active grounds, newest first.
func (s *GroundService) List(ctx context.Context) ([]model.Ground, error) {
	return s.Grounds.ListActive(ctx)
}

// Get returns one ground, active or not.
func (s *GroundService) Get(ctx context.Context, id uint64) (model.Ground, error) {
	g, err := s.Grounds.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Ground{}, ErrGroundNotFound
	}
	return g, err
}

// Availability is one ground's slot grid for a date.
type Availability struct {
	GroundID uint64
	Date     string
	Slots    []model.Slot
}

// Availability computes the slot grid of ground id on date.
func (s *GroundService) Availability(ctx context.Context, id uint64, date string) (Availability, error) {
	if _, err := availability.ParseDate(date); err != nil {
		return Availability{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	g, err := s.Get(ctx, id)
	if err != nil {
		return Availability{}, err
	}
	booked, err := s.Bookings.ListLiveByGroundDate(ctx, id, date)
	if err != nil {
		return Availability{}, err
	}
	slots, err := availability.Compute(g, date, booked)
	if err != nil {
		return Availability{}, err
	}
	return Availability{GroundID: id, Date: date, Slots: slots}, nil
}

// SetActive opens or closes a ground for booking.  Closing is refused while
// live bookings exist from today onwards.
func (s *GroundService) SetActive(ctx context.Context, caller Identity, id uint64, active bool) (model.Ground, error) {
	if !caller.IsAdmin {
		return model.Ground{}, ErrForbidden
	}
	if _, err := s.Get(ctx, id); err != nil {
		return model.Ground{}, err
	}
	if !active {
		today := s.now().Format(availability.DateLayout)
		n, err := s.Bookings.CountLiveFrom(ctx, id, today)
		if err != nil {
			return model.Ground{}, err
		}
		if n > 0 {
			return model.Ground{}, fmt.Errorf("%w: %d live booking(s)", ErrConflict, n)
		}
	}
	if err := s.Grounds.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Ground{}, ErrGroundNotFound
		}
		return model.Ground{}, err
	}
	s.purge(ctx)
	return s.Get(ctx, id)
}

func (s *GroundService) purge(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Purge(ctx); err != nil && s.Log != nil {
		s.Log.Warn("catalog cache purge failed", "err", err)
	}
}

func (s *GroundService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func uploadError(err error) error {
	if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrUnsupportedType) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}
