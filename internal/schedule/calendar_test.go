package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCalendar(t *testing.T) Calendar {
	t.Helper()
	first, err := ParseClock("09:30")
	require.NoError(t, err)
	last, err := ParseClock("16:30")
	require.NoError(t, err)
	return Calendar{
		End:      time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC),
		First:    first,
		Last:     last,
		Closed:   time.Sunday,
		Location: time.UTC,
	}
}

func TestTimesCoverWindow(t *testing.T) {
	times := testCalendar(t).Times()
	require.Len(t, times, 15)
	assert.Equal(t, "09:30", times[0])
	assert.Equal(t, "10:00", times[1])
	assert.Equal(t, "16:30", times[len(times)-1])
}

func TestGenerateSkipsClosedDay(t *testing.T) {
	cal := testCalendar(t)
	// Monday 2025-03-17 through Tuesday 2025-03-25: nine days, one Sunday.
	slots := cal.Generate(time.Date(2025, 3, 17, 8, 0, 0, 0, time.UTC))
	assert.Len(t, slots, 8*15)
	seen := map[string]bool{}
	for _, s := range slots {
		assert.NotEqual(t, "2025-03-23", s.Date)
		assert.True(t, s.Available)
		key := s.Date + " " + s.Time
		assert.False(t, seen[key], "duplicate slot %s", key)
		seen[key] = true
	}
}

func TestGeneratePastEndIsEmpty(t *testing.T) {
	cal := testCalendar(t)
	assert.Empty(t, cal.Generate(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestNextBoundary(t *testing.T) {
	cases := map[string]string{
		"10:00": "10:00",
		"10:01": "10:30",
		"10:29": "10:30",
		"10:30": "10:30",
		"10:45": "11:00",
	}
	for in, want := range cases {
		now, err := time.Parse("2006-01-02 15:04", "2025-03-10 "+in)
		require.NoError(t, err)
		assert.Equal(t, want, NextBoundary(now).Format("15:04"), in)
	}
}

func TestNormalizeTime(t *testing.T) {
	got, err := NormalizeTime("9:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", got)

	got, err = NormalizeTime("14:00:00")
	require.NoError(t, err)
	assert.Equal(t, "14:00", got)

	_, err = NormalizeTime("10:15")
	assert.Error(t, err)
	_, err = NormalizeTime("noon")
	assert.Error(t, err)
}

func TestBookable(t *testing.T) {
	cal := testCalendar(t)
	free := []string{"09:30", "10:00", "10:30", "11:00"}
	now := time.Date(2025, 3, 10, 10, 5, 0, 0, time.UTC)

	t.Run("today keeps times from next boundary", func(t *testing.T) {
		assert.Equal(t, []string{"10:30", "11:00"}, cal.Bookable("2025-03-10", free, now))
	})
	t.Run("future day keeps everything", func(t *testing.T) {
		assert.Equal(t, free, cal.Bookable("2025-03-11", free, now))
	})
	t.Run("closed weekday", func(t *testing.T) {
		assert.Empty(t, cal.Bookable("2025-03-16", free, now))
	})
	t.Run("past day", func(t *testing.T) {
		assert.Empty(t, cal.Bookable("2025-03-08", free, now))
	})
	t.Run("after end", func(t *testing.T) {
		assert.Empty(t, cal.Bookable("2025-03-26", free, now))
	})
	t.Run("garbage date", func(t *testing.T) {
		assert.Empty(t, cal.Bookable("10/03/2025", free, now))
	})
	t.Run("late evening", func(t *testing.T) {
		late := time.Date(2025, 3, 10, 23, 45, 0, 0, time.UTC)
		assert.Empty(t, cal.Bookable("2025-03-10", free, late))
	})
}
