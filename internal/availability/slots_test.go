package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/model"
)

func ground(open, closing string, price float64) model.Ground {
	return model.Ground{ID: 1, Name: "Ground 1", OpenTime: open, CloseTime: closing, PricePerHour: price}
}

func TestCompute_GridCoversOperatingHours(t *testing.T) {
	slots, err := Compute(ground("06:00", "10:00", 500), "2025-03-01", nil)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	want := []string{"06:00", "07:00", "08:00", "09:00"}
	for i, s := range slots {
		assert.Equal(t, want[i], s.StartTime)
		assert.Equal(t, FormatHour(6+i+1), s.EndTime)
		assert.True(t, s.Available)
		assert.Equal(t, 500.0, s.Price)
	}
}

func TestCompute_LengthMatchesHourSpan(t *testing.T) {
	cases := []struct {
		open, close string
		want        int
	}{
		{"00:00", "24:00", 24},
		{"09:00", "10:00", 1},
		{"18:00", "23:00", 5},
		{"10:00", "10:00", 0},
		{"22:00", "06:00", 0},
	}
	for _, tc := range cases {
		slots, err := Compute(ground(tc.open, tc.close, 100), "2025-03-01", nil)
		require.NoError(t, err, tc.open+"-"+tc.close)
		assert.Len(t, slots, tc.want, tc.open+"-"+tc.close)
		for i := 1; i < len(slots); i++ {
			assert.Equal(t, slots[i-1].EndTime, slots[i].StartTime, "slots must be contiguous and ascending")
		}
	}
}

func TestCompute_EmptyGridIsNotNil(t *testing.T) {
	slots, err := Compute(ground("10:00", "08:00", 100), "2025-03-01", nil)
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestCompute_BookedSlotsUnavailable(t *testing.T) {
	booked := []model.Booking{
		{StartTime: "07:00", BookingStatus: model.BookingPending},
		{StartTime: "09:00", BookingStatus: model.BookingConfirmed},
	}
	slots, err := Compute(ground("06:00", "10:00", 500), "2025-03-01", booked)
	require.NoError(t, err)

	got := map[string]bool{}
	for _, s := range slots {
		got[s.StartTime] = s.Available
	}
	assert.Equal(t, map[string]bool{"06:00": true, "07:00": false, "08:00": true, "09:00": false}, got)
}

func TestCompute_RejectsBadInput(t *testing.T) {
	_, err := Compute(ground("06:00", "10:00", 500), "01-03-2025", nil)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = Compute(ground("6am", "10:00", 500), "2025-03-01", nil)
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestParseHour(t *testing.T) {
	for in, want := range map[string]int{"06:00": 6, "6:00": 6, "23:00": 23, "24:00": 24, "7": 7} {
		h, err := ParseHour(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, h, in)
	}
	for _, in := range []string{"06:30", "25:00", "", "ab:00", "06:0"} {
		_, err := ParseHour(in)
		assert.ErrorIs(t, err, ErrInvalidTime, in)
	}
}

func TestValidateSlot(t *testing.T) {
	start, end, err := ValidateSlot("7:00", "08:00")
	require.NoError(t, err)
	assert.Equal(t, "07:00", start)
	assert.Equal(t, "08:00", end)

	_, _, err = ValidateSlot("07:00", "09:00")
	assert.ErrorIs(t, err, ErrSlotLength)

	_, _, err = ValidateSlot("24:00", "25:00")
	assert.Error(t, err)
}

func TestWithinHours(t *testing.T) {
	g := ground("06:00", "10:00", 500)
	assert.True(t, WithinHours(g, 6))
	assert.True(t, WithinHours(g, 9))
	assert.False(t, WithinHours(g, 10))
	assert.False(t, WithinHours(g, 5))
}
