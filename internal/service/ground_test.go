package service

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroundForm_Parse(t *testing.T) {
	g, err := groundOneForm().Parse()
	require.NoError(t, err)
	assert.Equal(t, "Ground 1", g.Name)
	require.NotNil(t, g.Latitude)
	assert.InDelta(t, 19.07, *g.Latitude, 1e-9)
	assert.Equal(t, 500.0, g.PricePerHour)
	assert.Equal(t, []string{"Parking", "Floodlights"}, g.Amenities)
	assert.True(t, g.IsActive, "grounds are active unless told otherwise")
}

func TestGroundForm_ParseNormalizesHours(t *testing.T) {
	form := groundOneForm()
	form.OpenTime, form.CloseTime = "6:00", "22"
	g, err := form.Parse()
	require.NoError(t, err)
	assert.Equal(t, "06:00", g.OpenTime)
	assert.Equal(t, "22:00", g.CloseTime)
}

func TestGroundForm_ParseRejects(t *testing.T) {
	cases := map[string]func(*GroundForm){
		"missing name":       func(f *GroundForm) { f.Name = " " },
		"price not a number": func(f *GroundForm) { f.PricePerHour = "five hundred" },
		"negative price":     func(f *GroundForm) { f.PricePerHour = "-1" },
		"latitude":           func(f *GroundForm) { f.Latitude = "north" },
		"longitude range":    func(f *GroundForm) { f.Longitude = "200" },
		"bad open time":      func(f *GroundForm) { f.OpenTime = "6am" },
		"open after close":   func(f *GroundForm) { f.OpenTime, f.CloseTime = "10:00", "06:00" },
		"isActive":           func(f *GroundForm) { f.IsActive = "maybe" },
		"NaN price":          func(f *GroundForm) { f.PricePerHour = "NaN" },
		"infinite price":     func(f *GroundForm) { f.PricePerHour = "Inf" },
		"signed inf price":   func(f *GroundForm) { f.PricePerHour = "+Inf" },
		"NaN latitude":       func(f *GroundForm) { f.Latitude = "NaN" },
		"infinite longitude": func(f *GroundForm) { f.Longitude = "-Inf" },
	}
	for name, mutate := range cases {
		form := groundOneForm()
		mutate(&form)
		_, err := form.Parse()
		assert.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestGroundForm_OptionalCoordinates(t *testing.T) {
	form := groundOneForm()
	form.Latitude, form.Longitude, form.IsActive = "", "", "false"
	g, err := form.Parse()
	require.NoError(t, err)
	assert.Nil(t, g.Latitude)
	assert.Nil(t, g.Longitude)
	assert.False(t, g.IsActive)
}

func TestSplitAmenities(t *testing.T) {
	assert.Equal(t, []string{"Parking", "Showers"}, SplitAmenities(" Parking,, Showers ,"))
	assert.Equal(t, []string{}, SplitAmenities(""))
}

func TestGround_CreateRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	images := []*multipart.FileHeader{upload(t, "a.jpg"), upload(t, "b.png")}
	created, err := f.grounds.Create(ctx, admin, groundOneForm(), images, upload(t, "qr.png"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Len(t, created.Images, 2)
	require.NotNil(t, created.QRImage)
	assert.Equal(t, 1, f.purger.n)

	fetched, err := f.grounds.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestGround_CreateForbiddenForCustomers(t *testing.T) {
	f := newFixture(t)
	_, err := f.grounds.Create(context.Background(), customer, groundOneForm(), nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGround_CreateLimitsImages(t *testing.T) {
	f := newFixture(t)
	images := make([]*multipart.FileHeader, MaxGroundImages+1)
	for i := range images {
		images[i] = upload(t, "p.jpg")
	}
	_, err := f.grounds.Create(context.Background(), admin, groundOneForm(), images, nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.files.saved)
}

func TestGround_CreateCleansUpOnUploadFailure(t *testing.T) {
	f := newFixture(t)
	f.files.failOn = "bad.exe"
	images := []*multipart.FileHeader{upload(t, "ok.jpg"), upload(t, "bad.exe")}

	_, err := f.grounds.Create(context.Background(), admin, groundOneForm(), images, nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, f.files.saved, f.files.removed)
}

func TestGround_ListShowsActiveOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.groundOne(t)
	hidden := groundOneForm()
	hidden.Name, hidden.IsActive = "Closed Ground", "false"
	_, err := f.grounds.Create(ctx, admin, hidden, nil, nil)
	require.NoError(t, err)
	second := f.groundOne(t)

	list, err := f.grounds.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID, "newest first")
	assert.Equal(t, first, list[1].ID)
}

func TestGround_GetMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.grounds.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrGroundNotFound)
}

func TestGround_Availability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.groundOne(t)

	av, err := f.grounds.Availability(ctx, id, "2025-03-02")
	require.NoError(t, err)
	assert.Len(t, av.Slots, 4)

	_, err = f.grounds.Availability(ctx, 99, "2025-03-02")
	assert.ErrorIs(t, err, ErrGroundNotFound)

	_, err = f.grounds.Availability(ctx, id, "tomorrow")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGround_DeactivateGuardsUpcomingBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.groundOne(t)

	receipt, err := f.bookings.Create(ctx, customer, CreateBookingInput{GroundID: id, Date: "2025-03-02", StartTime: "07:00", EndTime: "08:00"})
	require.NoError(t, err)

	_, err = f.grounds.SetActive(ctx, customer, id, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.grounds.SetActive(ctx, admin, id, false)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.bookings.Cancel(ctx, admin, receipt.Booking.ID)
	require.NoError(t, err)

	g, err := f.grounds.SetActive(ctx, admin, id, false)
	require.NoError(t, err)
	assert.False(t, g.IsActive)

	g, err = f.grounds.SetActive(ctx, admin, id, true)
	require.NoError(t, err)
	assert.True(t, g.IsActive)

	_, err = f.grounds.SetActive(ctx, admin, 99, true)
	assert.ErrorIs(t, err, ErrGroundNotFound)
}

func TestGround_DeactivateIgnoresPastBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.groundOne(t)

	_, err := f.bookings.Create(ctx, customer, CreateBookingInput{GroundID: id, Date: "2025-02-01", StartTime: "07:00", EndTime: "08:00"})
	require.NoError(t, err)

	_, err = f.grounds.SetActive(ctx, admin, id, false)
	assert.NoError(t, err)
}
