//go:build integration

package recurringdate_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/infra/storage/recurringdate"
	"github.com/m04kA/SMC-CalendarService/internal/testutil/pgtest"
	"github.com/m04kA/SMC-CalendarService/pkg/dbmetrics"
)

func TestRepository_Postgres(t *testing.T) {
	pg := pgtest.Start(t)
	repo := recurringdate.NewRepository(dbmetrics.Wrap(pg.DB, nil))
	ctx := context.Background()
	emp := uuid.New()

	d1 := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 7)
	d3 := d1.AddDate(0, 0, 14)

	inserted, err := repo.InsertMany(ctx, emp, []time.Time{d1, d2})
	require.NoError(t, err)
	assert.Len(t, inserted, 2)

	// Существующие даты пропускаются
	inserted, err = repo.InsertMany(ctx, emp, []time.Time{d2, d3})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, "2025-06-16", inserted[0].Date.Format("2006-01-02"))

	found, err := repo.ListByDates(ctx, emp, []time.Time{d1, d3, d3.AddDate(0, 0, 7)})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	inRange, err := repo.ListInRange(ctx, d2, d3.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, inRange, 2)

	deleted, err := repo.DeleteDates(ctx, emp, []time.Time{d1, d1.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.Len(t, deleted, 1)

	other, err := repo.ListByDates(ctx, uuid.New(), []time.Time{d2})
	require.NoError(t, err)
	assert.Empty(t, other)
}
