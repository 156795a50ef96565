//go:build integration

package slot_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-CalendarService/internal/testutil/pgtest"
	"github.com/m04kA/SMC-CalendarService/pkg/dbmetrics"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.June, day, hour, minute, 0, 0, time.UTC)
}

func newSlot(emp uuid.UUID, start time.Time) *domain.Slot {
	return &domain.Slot{EmployeeID: emp, Type: domain.SlotAvailable, StartTime: start, Duration: 30}
}

func TestRepository_Postgres(t *testing.T) {
	pg := pgtest.Start(t)
	repo := slot.NewRepository(dbmetrics.Wrap(pg.DB, nil))
	ctx := context.Background()

	t.Run("insert conflict on same instant", func(t *testing.T) {
		pg.Truncate(t)
		emp := uuid.New()

		created, err := repo.Insert(ctx, newSlot(emp, at(2, 9, 0)))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, domain.SlotAvailable, created.Type)
		assert.True(t, created.StartTime.Equal(at(2, 9, 0)))

		_, err = repo.Insert(ctx, newSlot(emp, at(2, 9, 0)))
		assert.ErrorIs(t, err, slot.ErrSlotConflict)

		// Другой сотрудник может занять тот же момент
		_, err = repo.Insert(ctx, newSlot(uuid.New(), at(2, 9, 0)))
		assert.NoError(t, err)
	})

	t.Run("insert many with skip and adopt", func(t *testing.T) {
		pg.Truncate(t)
		emp := uuid.New()

		existing, err := repo.Insert(ctx, newSlot(emp, at(9, 10, 0)))
		require.NoError(t, err)

		series := []*domain.Slot{newSlot(emp, at(2, 10, 0)), newSlot(emp, at(9, 10, 0)), newSlot(emp, at(16, 10, 0))}
		for _, s := range series {
			s.Recurring = true
		}

		skipped, err := repo.InsertMany(ctx, series, domain.ConflictSkip)
		require.NoError(t, err)
		assert.Len(t, skipped, 2)

		stored, err := repo.GetByID(ctx, existing.ID)
		require.NoError(t, err)
		assert.False(t, stored.Recurring)

		again := []*domain.Slot{newSlot(emp, at(9, 10, 0)), newSlot(emp, at(23, 10, 0))}
		adopted, err := repo.InsertMany(ctx, again, domain.ConflictAdopt)
		require.NoError(t, err)
		require.Len(t, adopted, 2)

		stored, err = repo.GetByID(ctx, existing.ID)
		require.NoError(t, err)
		assert.True(t, stored.Recurring)
	})

	t.Run("list by range is half open", func(t *testing.T) {
		pg.Truncate(t)
		emp := uuid.New()

		for _, start := range []time.Time{at(2, 0, 0), at(5, 12, 0), at(9, 0, 0)} {
			_, err := repo.Insert(ctx, newSlot(emp, start))
			require.NoError(t, err)
		}

		got, err := repo.ListByRange(ctx, emp, at(2, 0, 0), at(9, 0, 0))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, got[0].StartTime.Before(got[1].StartTime))
	})

	t.Run("delete skips booked", func(t *testing.T) {
		pg.Truncate(t)
		emp := uuid.New()

		free, err := repo.Insert(ctx, newSlot(emp, at(3, 9, 0)))
		require.NoError(t, err)
		booked, err := repo.Insert(ctx, newSlot(emp, at(3, 10, 0)))
		require.NoError(t, err)
		_, err = repo.SetType(ctx, booked.ID, domain.SlotBooked)
		require.NoError(t, err)

		deleted, err := repo.DeleteByIDs(ctx, []uuid.UUID{free.ID, booked.ID})
		require.NoError(t, err)
		require.Len(t, deleted, 1)
		assert.Equal(t, free.ID, deleted[0].ID)

		_, err = repo.GetByID(ctx, booked.ID)
		assert.NoError(t, err)
	})

	t.Run("update start time", func(t *testing.T) {
		pg.Truncate(t)
		emp := uuid.New()

		a, err := repo.Insert(ctx, newSlot(emp, at(4, 9, 0)))
		require.NoError(t, err)
		_, err = repo.Insert(ctx, newSlot(emp, at(4, 11, 0)))
		require.NoError(t, err)

		moved, err := repo.UpdateStartTime(ctx, a.ID, at(4, 9, 45))
		require.NoError(t, err)
		assert.True(t, moved.StartTime.Equal(at(4, 9, 45)))

		_, err = repo.UpdateStartTime(ctx, a.ID, at(4, 11, 0))
		assert.ErrorIs(t, err, slot.ErrSlotConflict)

		_, err = repo.UpdateStartTime(ctx, uuid.New(), at(4, 12, 0))
		assert.ErrorIs(t, err, slot.ErrSlotNotFound)
	})
}
