package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekOf(t *testing.T) {
	tests := []struct {
		name      string
		at        time.Time
		wantStart string
		wantEnd   string
	}{
		{"monday", time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), "2025-06-02", "2025-06-08"},
		{"sunday evening", time.Date(2025, 6, 8, 23, 45, 0, 0, time.UTC), "2025-06-02", "2025-06-08"},
		{"wednesday", time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC), "2025-06-09", "2025-06-15"},
		{"across year", time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC), "2025-12-29", "2026-01-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WeekOf(tt.at)
			assert.Equal(t, tt.wantStart, w.Start.Format(DateFormat))
			assert.Equal(t, tt.wantEnd, w.End.Format(DateFormat))
			assert.True(t, w.Contains(tt.at))
		})
	}
}

func TestWeek_ContainsBounds(t *testing.T) {
	w := WeekOf(time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC))

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End.Add(23*time.Hour+45*time.Minute)))
	assert.False(t, w.Contains(w.Until()))
	assert.False(t, w.Contains(w.Start.Add(-time.Minute)))
}

func TestSlot_Overlaps(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	slot := Slot{StartTime: start, Duration: 30}

	assert.True(t, slot.Overlaps(start, 30))
	assert.True(t, slot.Overlaps(start.Add(15*time.Minute), 30))
	assert.True(t, slot.Overlaps(start.Add(-15*time.Minute), 30))
	assert.False(t, slot.Overlaps(start.Add(30*time.Minute), 30))
	assert.False(t, slot.Overlaps(start.Add(-30*time.Minute), 30))
}

func TestValidators(t *testing.T) {
	assert.True(t, IsAllowedDuration(45))
	assert.False(t, IsAllowedDuration(15))
	assert.True(t, IsAllowedMinute(30))
	assert.False(t, IsAllowedMinute(10))
	assert.True(t, IsValidHour(0))
	assert.False(t, IsValidHour(24))
	assert.True(t, SlotBooked.IsValid())
	assert.False(t, SlotType("FREE").IsValid())
}
