package calendarclient

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/pkg/calendarclient/weekcache"
	"github.com/m04kA/SMC-CalendarService/pkg/logger"
)

func feedPayload(t *testing.T, topic, action string, id string, employee uuid.UUID, start string) string {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"topic":       topic,
		"eventAction": action,
		"data": map[string]interface{}{
			"id":         id,
			"employeeId": employee.String(),
			"startTime":  start,
		},
	})
	require.NoError(t, err)
	return string(raw)
}

func newWatcherCalendar() *Calendar {
	log := logger.NewWriter(io.Discard, "error")
	return NewCalendar(NewClient("http://127.0.0.1:0", time.Second, log), nil, log)
}

func TestFeedWatcher_Handle(t *testing.T) {
	cal := newWatcherCalendar()
	defer cal.Close()
	watcher := NewFeedWatcher(nil, "", cal, logger.NewWriter(io.Discard, "error"))

	employee := uuid.New()
	june := weekcache.KeyFor(employee, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	july := weekcache.KeyFor(employee, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	movedID := uuid.NewString()

	cal.Slots().Put(june, []*Slot{{ID: movedID}})
	cal.Slots().Put(july, nil)
	cal.Sessions().Put(june, nil)

	var invalidated []weekcache.Key
	watcher.OnInvalidate(func(_ string, key weekcache.Key) { invalidated = append(invalidated, key) })

	// слот переехал из июня в июль: сбрасываются оба окна
	require.NoError(t, watcher.Handle(feedPayload(t, "slots", "update", movedID, employee, "2025-07-01T09:00:00Z")))
	assert.False(t, cal.Slots().Has(june))
	assert.False(t, cal.Slots().Has(july))
	assert.True(t, cal.Sessions().Has(june))
	assert.ElementsMatch(t, []weekcache.Key{june, july}, invalidated)

	assert.ErrorIs(t, watcher.Handle("garbage"), ErrInvalidResponse)
	assert.ErrorIs(t, watcher.Handle(feedPayload(t, "bookings", "create", movedID, employee, "2025-07-01T09:00:00Z")), ErrInvalidResponse)
}

func TestFeedWatcher_RunInvalidatesFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cal := newWatcherCalendar()
	defer cal.Close()

	employee := uuid.New()
	key := weekcache.KeyFor(employee, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	cal.Sessions().Put(key, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := NewFeedWatcher(rdb, "", cal, logger.NewWriter(io.Discard, "error"))
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	payload := feedPayload(t, "sessions", "create", uuid.NewString(), employee, "2025-06-04T10:00:00Z")
	require.Eventually(t, func() bool {
		rdb.Publish(ctx, DefaultFeedPrefix+":sessions", payload)
		return !cal.Sessions().Has(key)
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
