package update_slot_time

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/testutil/memstore"
	"github.com/m04kA/SMC-CalendarService/pkg/logger"
)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, domain.Location)
}

func newUseCase(store *memstore.Store) *UseCase {
	return NewUseCase(store.Slots(), store.Sessions(), store.TxManager(), logger.Nop())
}

func TestUpdateSlotHour(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	slot := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 2, 9, 30), Type: domain.SlotBooked})
	session := store.SeedSession(domain.Session{SlotID: slot.ID, CustomerID: uuid.New()})

	resp, err := newUseCase(store).Execute(context.Background(), &Request{SlotID: slot.ID, Field: FieldHour, Value: 14})
	require.NoError(t, err)

	assert.Equal(t, 9, resp.PreviousHour)
	assert.Equal(t, 30, resp.PreviousMinute)
	require.Len(t, resp.Slots, 1)
	assert.True(t, resp.Slots[0].StartTime.Equal(at(2025, 6, 2, 14, 30)))

	synced, _ := store.Session(session.ID)
	assert.True(t, synced.StartTime.Equal(at(2025, 6, 2, 14, 30)))
}

func TestUpdateSlotMinutes_TimeTaken(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	slot := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 2, 9, 0)})
	store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 2, 9, 45)})

	_, err := newUseCase(store).Execute(context.Background(), &Request{SlotID: slot.ID, Field: FieldMinute, Value: 45})
	assert.ErrorIs(t, err, ErrSlotTimeTaken)

	unchanged, _ := store.Slot(slot.ID)
	assert.True(t, unchanged.StartTime.Equal(at(2025, 6, 2, 9, 0)))
}

func TestUpdateSlotTime_Validation(t *testing.T) {
	uc := newUseCase(memstore.New())
	tests := []struct {
		name string
		req  *Request
	}{
		{"no slot", &Request{Field: FieldHour, Value: 10}},
		{"hour too big", &Request{SlotID: uuid.New(), Field: FieldHour, Value: 24}},
		{"negative hour", &Request{SlotID: uuid.New(), Field: FieldHour, Value: -1}},
		{"odd minutes", &Request{SlotID: uuid.New(), Field: FieldMinute, Value: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateSlotTime_NotFound(t *testing.T) {
	_, err := newUseCase(memstore.New()).Execute(context.Background(), &Request{SlotID: uuid.New(), Field: FieldHour, Value: 10})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

// Серия по понедельникам 09:00 с 2025-12-01; 15 декабря 14:00 уже занято
func TestUpdateRecurringSlotHour_SkipsOccupiedDates(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()

	var series []*domain.Slot
	for _, d := range []int{1, 8, 15, 22, 29} {
		series = append(series, store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 12, d, 9, 0), Recurring: true}))
	}
	blocker := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 12, 15, 14, 0), Type: domain.SlotBlocked})
	// Слот другого сотрудника не затрагивается
	loner := store.SeedSlot(domain.Slot{EmployeeID: uuid.New(), StartTime: at(2025, 12, 8, 9, 0)})

	resp, err := newUseCase(store).Execute(context.Background(), &Request{
		SlotID:    series[1].ID,
		Field:     FieldHour,
		Value:     14,
		Recurring: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 9, resp.PreviousHour)
	require.Len(t, resp.Slots, 3)
	assert.True(t, resp.Slots[0].StartTime.Equal(at(2025, 12, 8, 14, 0)))
	assert.True(t, resp.Slots[1].StartTime.Equal(at(2025, 12, 22, 14, 0)))
	assert.True(t, resp.Slots[2].StartTime.Equal(at(2025, 12, 29, 14, 0)))
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, series[2].ID, resp.Skipped[0].ID)

	// Дата до исходного слота не меняется
	first, _ := store.Slot(series[0].ID)
	assert.True(t, first.StartTime.Equal(at(2025, 12, 1, 9, 0)))

	skipped, _ := store.Slot(series[2].ID)
	assert.True(t, skipped.StartTime.Equal(at(2025, 12, 15, 9, 0)))

	kept, _ := store.Slot(blocker.ID)
	assert.True(t, kept.StartTime.Equal(at(2025, 12, 15, 14, 0)))

	other, _ := store.Slot(loner.ID)
	assert.True(t, other.StartTime.Equal(at(2025, 12, 8, 9, 0)))
}

func TestUpdateRecurringSlotMinutes_IgnoresNonRecurring(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	seed := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 12, 1, 9, 0), Recurring: true})
	plain := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 12, 8, 9, 0)})

	resp, err := newUseCase(store).Execute(context.Background(), &Request{
		SlotID:    seed.ID,
		Field:     FieldMinute,
		Value:     15,
		Recurring: true,
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.True(t, resp.Slots[0].StartTime.Equal(at(2025, 12, 1, 9, 15)))

	untouched, _ := store.Slot(plain.ID)
	assert.True(t, untouched.StartTime.Equal(at(2025, 12, 8, 9, 0)))
}
