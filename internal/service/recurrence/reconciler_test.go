package recurrence

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

func newReconciler(store *memstore.Store) *Reconciler {
	return NewReconciler(store.Slots(), store.Dates(), nil, logger.Nop())
}

func TestReconciler_SlotsAdded_CopiesOntoLaterRecurringDays(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	ctx := context.Background()

	// 2025-06-02, 06-09 и 06-23 повторяющиеся, 06-16 нет
	_, err := store.Dates().InsertMany(ctx, employee, []time.Time{
		at(2025, 6, 2, 0, 0), at(2025, 6, 9, 0, 0), at(2025, 6, 23, 0, 0),
	})
	require.NoError(t, err)

	added := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 9, 10, 0)})

	copies, err := newReconciler(store).SlotsAdded(ctx, []*domain.Slot{added})
	require.NoError(t, err)

	require.Len(t, copies, 1)
	assert.True(t, copies[0].StartTime.Equal(at(2025, 6, 23, 10, 0)))

	_, onEarlier := store.SlotAt(employee, at(2025, 6, 2, 10, 0))
	assert.False(t, onEarlier)
	_, onGap := store.SlotAt(employee, at(2025, 6, 16, 10, 0))
	assert.False(t, onGap)
}

func TestReconciler_SlotsAdded_IgnoresPlainDays(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	ctx := context.Background()

	_, err := store.Dates().InsertMany(ctx, employee, []time.Time{at(2025, 6, 16, 0, 0)})
	require.NoError(t, err)

	added := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 9, 10, 0)})

	copies, err := newReconciler(store).SlotsAdded(ctx, []*domain.Slot{added})
	require.NoError(t, err)
	assert.Empty(t, copies)
}

func TestReconciler_SlotsAdded_SkipsOccupiedInstants(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	ctx := context.Background()

	_, err := store.Dates().InsertMany(ctx, employee, []time.Time{at(2025, 6, 2, 0, 0), at(2025, 6, 9, 0, 0)})
	require.NoError(t, err)

	existing := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 9, 10, 0), Type: domain.SlotBlocked})
	added := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 2, 10, 0)})

	copies, err := newReconciler(store).SlotsAdded(ctx, []*domain.Slot{added})
	require.NoError(t, err)
	assert.Empty(t, copies)

	got, ok := store.Slot(existing.ID)
	require.True(t, ok)
	assert.Equal(t, domain.SlotBlocked, got.Type)
}

func TestReconciler_SlotsDeleted_RemovesUnbookedInstances(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	ctx := context.Background()

	_, err := store.Dates().InsertMany(ctx, employee, []time.Time{
		at(2025, 6, 2, 0, 0), at(2025, 6, 9, 0, 0), at(2025, 6, 16, 0, 0),
	})
	require.NoError(t, err)

	deleted := domain.Slot{ID: uuid.New(), EmployeeID: employee, StartTime: at(2025, 6, 2, 10, 0), Duration: 30}
	free := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 9, 10, 0)})
	booked := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 16, 10, 0), Type: domain.SlotBooked})

	removed, err := newReconciler(store).SlotsDeleted(ctx, []*domain.Slot{&deleted})
	require.NoError(t, err)

	require.Len(t, removed, 1)
	assert.Equal(t, free.ID, removed[0].ID)

	_, stillBooked := store.Slot(booked.ID)
	assert.True(t, stillBooked)
}

func TestCopiesOnto(t *testing.T) {
	employee := uuid.New()
	source := []*domain.Slot{
		{EmployeeID: employee, Type: domain.SlotBooked, StartTime: at(2025, 6, 2, 9, 0), Duration: 60, Recurring: true},
		{EmployeeID: employee, Type: domain.SlotBlocked, StartTime: at(2025, 6, 2, 11, 15), Duration: 45},
		{EmployeeID: employee, Type: domain.SlotAvailable, StartTime: at(2025, 6, 2, 9, 0), Duration: 30},
	}

	copies := CopiesOnto(source, []time.Time{at(2025, 6, 5, 0, 0)})

	require.Len(t, copies, 2)
	assert.Equal(t, domain.SlotAvailable, copies[0].Type)
	assert.Equal(t, 60, copies[0].Duration)
	assert.True(t, copies[0].Recurring)
	assert.True(t, copies[0].StartTime.Equal(at(2025, 6, 5, 9, 0)))
	assert.Equal(t, domain.SlotBlocked, copies[1].Type)
	assert.True(t, copies[1].StartTime.Equal(at(2025, 6, 5, 11, 15)))
	assert.Equal(t, uuid.Nil, copies[0].ID)
}
