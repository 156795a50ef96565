package slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	recurrenceService "github.com/m04kA/SMC-CalendarService/internal/service/recurrence"
	"github.com/m04kA/SMC-CalendarService/internal/service/slots/models"
	"github.com/m04kA/SMC-CalendarService/internal/testutil/memstore"
	"github.com/m04kA/SMC-CalendarService/pkg/logger"
)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, domain.Location)
}

func newService(store *memstore.Store) *Service {
	log := logger.Nop()
	reconciler := recurrenceService.NewReconciler(store.Slots(), store.Dates(), nil, log)
	return NewService(store.Slots(), reconciler, store.TxManager(), log)
}

func TestGetWeekSlots(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 1, 23, 45)})
	store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 2, 8, 0)})
	store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 8, 19, 45)})
	store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 9, 0, 0)})
	store.SeedSlot(domain.Slot{EmployeeID: uuid.New(), StartTime: at(2025, 6, 3, 8, 0)})

	slots, err := newService(store).GetWeekSlots(context.Background(), &models.WeekRequest{
		EmployeeID: employee,
		Start:      at(2025, 6, 2, 0, 0),
		End:        at(2025, 6, 8, 0, 0),
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].StartTime.Equal(at(2025, 6, 2, 8, 0)))
	assert.True(t, slots[1].StartTime.Equal(at(2025, 6, 8, 19, 45)))
}

func TestGetWeekSlots_InvalidWindow(t *testing.T) {
	svc := newService(memstore.New())
	employee := uuid.New()

	_, err := svc.GetWeekSlots(context.Background(), &models.WeekRequest{
		EmployeeID: employee, Start: at(2025, 6, 8, 0, 0), End: at(2025, 6, 2, 0, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.GetWeekSlots(context.Background(), &models.WeekRequest{
		EmployeeID: employee, Start: at(2025, 6, 2, 0, 0), End: at(2025, 6, 20, 0, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.GetWeekSlots(context.Background(), &models.WeekRequest{Start: at(2025, 6, 2, 0, 0), End: at(2025, 6, 8, 0, 0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteAndRestoreSlots(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	a := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 2, 9, 0), Duration: 45})
	b := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 2, 10, 0), Type: domain.SlotBlocked, Recurring: true})
	svc := newService(store)

	deleted, err := svc.DeleteSlots(context.Background(), []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, deleted.Deleted, 2)
	assert.Empty(t, store.AllSlots())

	restored, err := svc.AddSlots(context.Background(), deleted.Deleted)
	require.NoError(t, err)
	assert.Len(t, restored.Inserted, 2)

	again, ok := store.Slot(b.ID)
	require.True(t, ok)
	assert.Equal(t, domain.SlotBlocked, again.Type)
	assert.True(t, again.Recurring)

	first, ok := store.Slot(a.ID)
	require.True(t, ok)
	assert.Equal(t, 45, first.Duration)
}

func TestDeleteSlots_KeepsBooked(t *testing.T) {
	store := memstore.New()
	slot := store.SeedSlot(domain.Slot{EmployeeID: uuid.New(), StartTime: at(2025, 6, 2, 9, 0)})
	customer := store.SeedCustomer(domain.Customer{Name: "Dina"})
	store.SeedSession(domain.Session{SlotID: slot.ID, CustomerID: customer.ID})

	_, err := newService(store).DeleteSlots(context.Background(), []uuid.UUID{slot.ID})
	assert.ErrorIs(t, err, ErrNothingDeleted)
	assert.Len(t, store.AllSlots(), 1)
}

func TestDeleteSlots_ReconcilesRecurringDays(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	days := []time.Time{at(2025, 6, 2, 0, 0), at(2025, 6, 9, 0, 0), at(2025, 6, 16, 0, 0)}
	_, err := store.Dates().InsertMany(context.Background(), employee, days)
	require.NoError(t, err)

	seed := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 2, 11, 0)})
	store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 9, 11, 0)})
	store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 16, 11, 0)})

	resp, err := newService(store).DeleteSlots(context.Background(), []uuid.UUID{seed.ID})
	require.NoError(t, err)
	assert.Len(t, resp.Deleted, 1)
	assert.Len(t, resp.Removed, 2)
	assert.Empty(t, store.AllSlots())
}

func TestAddSlots_SkipsTakenInstants(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: at(2025, 6, 2, 9, 0)})

	resp, err := newService(store).AddSlots(context.Background(), []*domain.Slot{
		{ID: uuid.New(), EmployeeID: employee, Type: domain.SlotAvailable, StartTime: at(2025, 6, 2, 9, 0), Duration: 30},
		{ID: uuid.New(), EmployeeID: employee, Type: domain.SlotAvailable, StartTime: at(2025, 6, 2, 9, 30), Duration: 30},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Inserted, 1)
	assert.Len(t, store.AllSlots(), 2)
}

func TestAddSlots_Validation(t *testing.T) {
	svc := newService(memstore.New())
	employee := uuid.New()

	cases := map[string][]*domain.Slot{
		"empty":    {},
		"booked":   {{EmployeeID: employee, Type: domain.SlotBooked, StartTime: at(2025, 6, 2, 9, 0), Duration: 30}},
		"duration": {{EmployeeID: employee, Type: domain.SlotAvailable, StartTime: at(2025, 6, 2, 9, 0), Duration: 20}},
		"seconds":  {{EmployeeID: employee, Type: domain.SlotAvailable, StartTime: at(2025, 6, 2, 9, 0).Add(time.Second), Duration: 30}},
		"type":     {{EmployeeID: employee, Type: "FREE", StartTime: at(2025, 6, 2, 9, 0), Duration: 30}},
		"duplicate": {
			{EmployeeID: employee, Type: domain.SlotAvailable, StartTime: at(2025, 6, 2, 9, 0), Duration: 30},
			{EmployeeID: employee, Type: domain.SlotBlocked, StartTime: at(2025, 6, 2, 9, 0), Duration: 60},
		},
	}

	for name, slots := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.AddSlots(context.Background(), slots)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
