package update_session

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

type fixture struct {
	store    *memstore.Store
	employee uuid.UUID
	current  *domain.Slot
	target   *domain.Slot
	session  *domain.Session
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memstore.New()
	employee := uuid.New()
	current := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: time.Date(2025, 6, 2, 9, 0, 0, 0, domain.Location)})
	target := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: time.Date(2025, 6, 12, 15, 0, 0, 0, domain.Location)})
	customer := store.SeedCustomer(domain.Customer{Name: "Boris"})
	session := store.SeedSession(domain.Session{SlotID: current.ID, CustomerID: customer.ID})
	return fixture{store: store, employee: employee, current: current, target: target, session: session}
}

func newUseCase(store *memstore.Store) *UseCase {
	return NewUseCase(store.Slots(), store.Sessions(), store.TxManager(), logger.Nop())
}

func bookedCount(store *memstore.Store) int {
	n := 0
	for _, s := range store.AllSlots() {
		if s.IsBooked() {
			n++
		}
	}
	return n
}

func TestUpdateSession_Reschedule(t *testing.T) {
	f := setup(t)

	resp, err := newUseCase(f.store).Execute(context.Background(), &Request{SessionID: f.session.ID, SlotID: f.target.ID})
	require.NoError(t, err)

	assert.Equal(t, f.current.ID, resp.PreviousSlotID)
	assert.True(t, resp.PreviousStartTime.Equal(f.current.StartTime))
	assert.Equal(t, f.target.ID, resp.Session.SlotID)
	assert.True(t, resp.Session.StartTime.Equal(f.target.StartTime))
	assert.Equal(t, "Boris", resp.Session.CustomerName)
	assert.Equal(t, domain.SlotAvailable, resp.Released.Type)
	assert.Equal(t, domain.SlotBooked, resp.Booked.Type)

	assert.Equal(t, 1, bookedCount(f.store))
	stored, _ := f.store.Session(f.session.ID)
	assert.Equal(t, f.target.ID, stored.SlotID)
}

func TestUpdateSession_TargetNotAvailable(t *testing.T) {
	f := setup(t)
	blocked := f.store.SeedSlot(domain.Slot{EmployeeID: f.employee, StartTime: time.Date(2025, 6, 3, 9, 0, 0, 0, domain.Location), Type: domain.SlotBlocked})

	_, err := newUseCase(f.store).Execute(context.Background(), &Request{SessionID: f.session.ID, SlotID: blocked.ID})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	current, _ := f.store.Slot(f.current.ID)
	assert.Equal(t, domain.SlotBooked, current.Type)
	assert.Equal(t, 1, bookedCount(f.store))
}

func TestUpdateSession_FailureLeavesBothSlotsUnchanged(t *testing.T) {
	f := setup(t)
	f.store.FailOn("Rebind", nil)

	_, err := newUseCase(f.store).Execute(context.Background(), &Request{SessionID: f.session.ID, SlotID: f.target.ID})
	assert.ErrorIs(t, err, ErrInternal)

	current, _ := f.store.Slot(f.current.ID)
	target, _ := f.store.Slot(f.target.ID)
	assert.Equal(t, domain.SlotBooked, current.Type)
	assert.Equal(t, domain.SlotAvailable, target.Type)

	stored, _ := f.store.Session(f.session.ID)
	assert.Equal(t, f.current.ID, stored.SlotID)
}

func TestUpdateSession_NotFound(t *testing.T) {
	f := setup(t)
	uc := newUseCase(f.store)

	_, err := uc.Execute(context.Background(), &Request{SessionID: uuid.New(), SlotID: f.target.ID})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = uc.Execute(context.Background(), &Request{SessionID: f.session.ID, SlotID: uuid.New()})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = uc.Execute(context.Background(), &Request{SessionID: f.session.ID, SlotID: f.current.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
