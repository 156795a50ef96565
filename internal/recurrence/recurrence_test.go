package recurrence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestWeeklyOccurrences_ThroughYearEnd(t *testing.T) {
	seed := at(2025, time.June, 2, 9, 0)

	got, err := WeeklyOccurrences(seed)
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, seed, got[0])
	assert.Equal(t, at(2025, time.June, 9, 9, 0), got[1])
	assert.Equal(t, at(2025, time.December, 29, 9, 0), got[len(got)-1])
	assert.Len(t, got, 31)

	for i, occ := range got {
		assert.Equal(t, time.Monday, occ.Weekday(), "occurrence %d", i)
		assert.Equal(t, 9, occ.Hour())
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, occ.Sub(got[i-1]))
		}
	}
}

func TestWeeklyOccurrences_LastWeekOfYear(t *testing.T) {
	got, err := WeeklyOccurrences(at(2025, time.December, 29, 10, 0))
	require.NoError(t, err)
	assert.Len(t, got, 1)

	following, err := FollowingOccurrences(at(2025, time.December, 29, 10, 0))
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestWeeklyBetween(t *testing.T) {
	seed := at(2025, time.December, 29, 9, 0)

	got, err := WeeklyBetween(seed, at(2026, time.January, 1, 0, 0), at(2026, time.January, 31, 23, 59))
	require.NoError(t, err)

	require.Len(t, got, 4)
	assert.Equal(t, at(2026, time.January, 5, 9, 0), got[0])
	assert.Equal(t, at(2026, time.January, 26, 9, 0), got[3])
}

func TestFirstFreeInstant(t *testing.T) {
	day := at(2025, time.June, 2, 0, 0)
	employee := uuid.New()
	slot := func(h, m, dur int) *domain.Slot {
		return &domain.Slot{EmployeeID: employee, StartTime: at(2025, time.June, 2, h, m), Duration: dur}
	}

	t.Run("empty day returns 08:00", func(t *testing.T) {
		got, err := FirstFreeInstant(day, at(2025, time.June, 1, 12, 0), nil, 30)
		require.NoError(t, err)
		assert.Equal(t, at(2025, time.June, 2, 8, 0), got)
	})

	t.Run("skips occupied and overlapping instants", func(t *testing.T) {
		existing := []*domain.Slot{slot(8, 0, 60), slot(9, 15, 30)}
		got, err := FirstFreeInstant(day, at(2025, time.June, 1, 12, 0), existing, 30)
		require.NoError(t, err)
		assert.Equal(t, at(2025, time.June, 2, 9, 45), got)
	})

	t.Run("strictly after now", func(t *testing.T) {
		got, err := FirstFreeInstant(day, at(2025, time.June, 2, 10, 0), nil, 30)
		require.NoError(t, err)
		assert.Equal(t, at(2025, time.June, 2, 10, 15), got)
	})

	t.Run("past day", func(t *testing.T) {
		_, err := FirstFreeInstant(day, at(2025, time.June, 3, 8, 0), nil, 30)
		assert.ErrorIs(t, err, ErrNoSlotAvailable)
	})

	t.Run("fully booked day", func(t *testing.T) {
		existing := make([]*domain.Slot, 0)
		for h := 8; h < 20; h++ {
			existing = append(existing, slot(h, 0, 60))
		}
		_, err := FirstFreeInstant(day, at(2025, time.June, 1, 12, 0), existing, 30)
		assert.ErrorIs(t, err, ErrNoSlotAvailable)
	})

	t.Run("never collides with an existing start", func(t *testing.T) {
		existing := []*domain.Slot{slot(8, 0, 30), slot(8, 30, 45), slot(10, 0, 30)}
		got, err := FirstFreeInstant(day, at(2025, time.June, 1, 0, 0), existing, 30)
		require.NoError(t, err)
		for _, s := range existing {
			assert.False(t, s.Overlaps(got, 30))
			assert.NotEqual(t, s.StartTime, got)
		}
	})
}

func TestTimeHelpers(t *testing.T) {
	src := at(2025, time.June, 2, 9, 30)

	assert.Equal(t, at(2025, time.July, 7, 9, 30), AtTimeOfDay(at(2025, time.July, 7, 0, 0), src))
	assert.Equal(t, at(2025, time.June, 2, 14, 30), WithHour(src, 14))
	assert.Equal(t, at(2025, time.June, 2, 9, 45), WithMinutes(src, 45))

	projected := ProjectTimeOfDay([]time.Time{at(2025, time.June, 9, 0, 0), at(2025, time.June, 16, 0, 0)}, src)
	assert.Equal(t, []time.Time{at(2025, time.June, 9, 9, 30), at(2025, time.June, 16, 9, 30)}, projected)
}
