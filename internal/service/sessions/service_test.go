package sessions

import (
	"context"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/service/sessions/models"
	"github.com/m04kA/SMC-CalendarService/internal/testutil/memstore"
	"github.com/m04kA/SMC-CalendarService/pkg/logger"
	"github.com/m04kA/SMC-CalendarService/pkg/ptr"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, domain.Location)
}

func newService(store *memstore.Store) *Service {
	return NewService(store.Sessions(), store.Slots(), logger.Nop()).
		WithTimeProvider(fixedTime{now: at(2025, 6, 1, 12, 0)})
}

func seedSession(t *testing.T, store *memstore.Store, employee uuid.UUID, start time.Time, duration int, name string) *domain.Session {
	t.Helper()
	slot := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: start, Duration: duration})
	customer := store.SeedCustomer(domain.Customer{Name: name, Email: strings.ToLower(name) + "@example.com"})
	return store.SeedSession(domain.Session{SlotID: slot.ID, CustomerID: customer.ID, Message: ptr.Ptr("note for " + name)})
}

func TestGetWeekSessions(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	seedSession(t, store, employee, at(2025, 6, 3, 10, 0), 30, "Egor")
	seedSession(t, store, employee, at(2025, 6, 10, 10, 0), 30, "Zoya")
	seedSession(t, store, uuid.New(), at(2025, 6, 3, 10, 0), 30, "Other")

	sessions, err := newService(store).GetWeekSessions(context.Background(), &models.WeekRequest{
		EmployeeID: employee,
		Start:      at(2025, 6, 2, 0, 0),
		End:        at(2025, 6, 8, 0, 0),
	})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Egor", sessions[0].CustomerName)
	assert.Equal(t, "egor@example.com", sessions[0].CustomerEmail)
}

func TestGetWeekSessions_InvalidWindow(t *testing.T) {
	_, err := newService(memstore.New()).GetWeekSessions(context.Background(), &models.WeekRequest{
		EmployeeID: uuid.New(),
		Start:      at(2025, 6, 8, 0, 0),
		End:        at(2025, 6, 2, 0, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestExportWeek(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	first := seedSession(t, store, employee, at(2025, 6, 3, 10, 0), 45, "Egor")
	seedSession(t, store, employee, at(2025, 6, 8, 19, 0), 60, "Zoya")
	seedSession(t, store, employee, at(2025, 6, 9, 9, 0), 30, "Next")

	out, err := newService(store).ExportWeek(context.Background(), &models.ExportRequest{
		EmployeeID: employee,
		Start:      at(2025, 6, 5, 0, 0),
	})
	require.NoError(t, err)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)

	event := events[0]
	assert.Equal(t, first.ID.String(), event.Id())
	assert.Equal(t, "Session: Egor", event.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "note for Egor", event.GetProperty(ical.ComponentPropertyDescription).Value)

	start, err := event.GetStartAt()
	require.NoError(t, err)
	end, err := event.GetEndAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(at(2025, 6, 3, 10, 0)))
	assert.Equal(t, 45*time.Minute, end.Sub(start))
}

func TestExportWeek_Validation(t *testing.T) {
	_, err := newService(memstore.New()).ExportWeek(context.Background(), &models.ExportRequest{Start: at(2025, 6, 5, 0, 0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
