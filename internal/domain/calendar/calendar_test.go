package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalendar(t *testing.T) *Calendar {
	t.Helper()
	cal, err := New("2026-01-19", time.UTC)
	require.NoError(t, err)
	return cal
}

func TestNew(t *testing.T) {
	t.Run("Invalid start date", func(t *testing.T) {
		_, err := New("19/01/2026", time.UTC)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse start date")
	})

	t.Run("Nil location defaults to local", func(t *testing.T) {
		cal, err := New("2026-01-19", nil)
		require.NoError(t, err)
		assert.Equal(t, time.Local, cal.Location())
	})
}

func TestDayNumber(t *testing.T) {
	cal := newTestCalendar(t)

	assert.Equal(t, 1, cal.DayNumber(cal.Epoch()))
	assert.Equal(t, 1, cal.DayNumber(time.Date(2026, 1, 19, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, 2, cal.DayNumber(time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 14, cal.DayNumber(time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)))
	assert.Equal(t, 366, cal.DayNumber(time.Date(2027, 1, 19, 0, 0, 0, 0, time.UTC)))

	for i := 0; i < 800; i++ {
		assert.GreaterOrEqual(t, cal.DayNumber(cal.AddDays(cal.Epoch(), i)), 1)
	}
}

func TestDayNumberAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("time zone database not available")
	}

	cal, err := New("2026-03-28", loc)
	require.NoError(t, err)

	// 2026-03-29 is only 23 hours long in Berlin
	assert.Equal(t, 3, cal.DayNumber(time.Date(2026, 3, 30, 0, 0, 0, 0, loc)))
}

func TestDayLabel(t *testing.T) {
	cal := newTestCalendar(t)
	assert.Equal(t, "HARI KE-1", cal.DayLabel(cal.Epoch()))
	assert.Equal(t, "HARI KE-10", cal.DayLabel(cal.AddDays(cal.Epoch(), 9)))
}

func TestWeekStart(t *testing.T) {
	cal := newTestCalendar(t)
	monday := time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
	}{
		{"Monday morning", time.Date(2026, 1, 19, 7, 0, 0, 0, time.UTC)},
		{"Wednesday", time.Date(2026, 1, 21, 12, 0, 0, 0, time.UTC)},
		{"Saturday", time.Date(2026, 1, 24, 23, 0, 0, 0, time.UTC)},
		{"Sunday", time.Date(2026, 1, 25, 18, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, monday, cal.WeekStart(tt.now))
		})
	}

	// Week start crosses a month boundary
	assert.Equal(t, time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC),
		cal.WeekStart(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)))
}

func TestSameDayMonthYear(t *testing.T) {
	cal := newTestCalendar(t)
	a := time.Date(2026, 3, 5, 1, 0, 0, 0, time.UTC)

	assert.True(t, cal.SameDay(a, time.Date(2026, 3, 5, 23, 0, 0, 0, time.UTC)))
	assert.False(t, cal.SameDay(a, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)))
	assert.True(t, cal.SameMonth(a, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, cal.SameMonth(a, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.True(t, cal.SameYear(a, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, cal.SameYear(a, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSameDayUsesCalendarLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	cal, err := New("2026-01-19", jakarta)
	require.NoError(t, err)

	// 18:00 UTC is already the next day in Jakarta
	utcEvening := time.Date(2026, 1, 19, 18, 0, 0, 0, time.UTC)
	assert.True(t, cal.SameDay(utcEvening, time.Date(2026, 1, 20, 0, 0, 0, 0, jakarta)))
	assert.Equal(t, 2, cal.DayNumber(utcEvening))
}

func TestMidnightAndBeforeEpoch(t *testing.T) {
	cal := newTestCalendar(t)

	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		cal.Midnight(time.Date(2026, 2, 3, 15, 4, 5, 6, time.UTC)))
	assert.True(t, cal.BeforeEpoch(time.Date(2026, 1, 18, 23, 59, 0, 0, time.UTC)))
	assert.False(t, cal.BeforeEpoch(time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)))
}

func TestFormatFull(t *testing.T) {
	cal := newTestCalendar(t)

	assert.Equal(t, "Senin, 19 Januari 2026", cal.FormatFull(cal.Epoch()))
	assert.Equal(t, "Minggu, 1 Februari 2026", cal.FormatFull(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Jumat, 25 Desember 2026", cal.FormatFull(time.Date(2026, 12, 25, 9, 0, 0, 0, time.UTC)))
}
