//go:build integration

package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/infra/storage/session"
	"github.com/m04kA/SMC-CalendarService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-CalendarService/internal/testutil/pgtest"
	"github.com/m04kA/SMC-CalendarService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CalendarService/pkg/ptr"
	"github.com/m04kA/SMC-CalendarService/pkg/txmanager"
)

func TestRepository_Postgres(t *testing.T) {
	pg := pgtest.Start(t)
	db := dbmetrics.Wrap(pg.DB, nil)
	slots := slot.NewRepository(db)
	sessions := session.NewRepository(db)
	ctx := context.Background()

	emp := uuid.New()
	start := time.Date(2025, time.June, 3, 10, 0, 0, 0, time.UTC)

	seedSlot := func(t *testing.T, startTime time.Time) *domain.Slot {
		created, err := slots.Insert(ctx, &domain.Slot{
			EmployeeID: emp, Type: domain.SlotAvailable, StartTime: startTime, Duration: 45,
		})
		require.NoError(t, err)
		return created
	}

	t.Run("create and list views with customer", func(t *testing.T) {
		pg.Truncate(t)
		customerID := uuid.MustParse(pg.SeedCustomer(t, "Anna"))
		s := seedSlot(t, start)

		created, err := sessions.Create(ctx, &domain.Session{
			SlotID: s.ID, EmployeeID: emp, CustomerID: customerID, StartTime: s.StartTime, Message: ptr.Ptr("first visit"),
		})
		require.NoError(t, err)
		require.NotNil(t, created.Message)
		assert.Equal(t, "first visit", *created.Message)

		views, err := sessions.ListViewsByRange(ctx, emp, start.AddDate(0, 0, -1), start.AddDate(0, 0, 6))
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Anna", views[0].CustomerName)
		assert.Equal(t, "Anna@example.com", views[0].CustomerEmail)

		_, err = sessions.Create(ctx, &domain.Session{
			SlotID: s.ID, EmployeeID: emp, CustomerID: customerID, StartTime: s.StartTime,
		})
		assert.ErrorIs(t, err, session.ErrSessionConflict)
	})

	t.Run("rebind and sync start times", func(t *testing.T) {
		pg.Truncate(t)
		customerID := uuid.MustParse(pg.SeedCustomer(t, "Boris"))
		from := seedSlot(t, start)
		to := seedSlot(t, start.Add(2*time.Hour))

		created, err := sessions.Create(ctx, &domain.Session{
			SlotID: from.ID, EmployeeID: emp, CustomerID: customerID, StartTime: from.StartTime,
		})
		require.NoError(t, err)

		rebound, err := sessions.Rebind(ctx, created.ID, to.ID, to.StartTime)
		require.NoError(t, err)
		assert.Equal(t, to.ID, rebound.SlotID)

		moved := start.Add(3 * time.Hour)
		_, err = slots.UpdateStartTime(ctx, to.ID, moved)
		require.NoError(t, err)

		n, err := sessions.SyncStartTimes(ctx, []uuid.UUID{to.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := sessions.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, got.StartTime.Equal(moved))
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		pg.Truncate(t)
		customerID := uuid.MustParse(pg.SeedCustomer(t, "Vera"))
		s := seedSlot(t, start)
		tx := txmanager.NewTransactionManager(db)
		boom := errors.New("boom")

		err := tx.DoSerializable(ctx, func(ctx context.Context) error {
			if _, err := slots.SetType(ctx, s.ID, domain.SlotBooked); err != nil {
				return err
			}
			if _, err := sessions.Create(ctx, &domain.Session{
				SlotID: s.ID, EmployeeID: emp, CustomerID: customerID, StartTime: s.StartTime,
			}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		stored, err := slots.GetByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SlotAvailable, stored.Type)

		views, err := sessions.ListViewsByRange(ctx, emp, start, start.Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("unknown rows", func(t *testing.T) {
		_, err := sessions.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		_, err = sessions.GetCustomer(ctx, uuid.New())
		assert.ErrorIs(t, err, session.ErrCustomerNotFound)
	})
}
