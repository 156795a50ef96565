package feed

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/infra/changefeed"
	"github.com/m04kA/SMC-CalendarService/pkg/logger"
)

type failingSubscriber struct{}

func (failingSubscriber) Subscribe(context.Context) (*changefeed.Subscription, error) {
	return nil, errors.New("redis is down")
}

func slotEvent(t *testing.T, employeeID uuid.UUID) changefeed.Event {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{
		"id":         uuid.NewString(),
		"employeeId": employeeID.String(),
		"type":       "AVAILABLE",
		"startTime":  "2025-06-03T09:00:00Z",
		"duration":   30,
		"recurring":  false,
	})
	require.NoError(t, err)
	return changefeed.Event{Topic: changefeed.TopicSlots, Action: changefeed.ActionCreate, Data: data}
}

func TestHandle_StreamsMatchingEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	broker := changefeed.NewRedisBroker(rdb, "")

	handler := NewHandler(broker, logger.NewWriter(io.Discard, "error")).WithHeartbeat(time.Hour)
	server := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(server.Close)

	employee := uuid.New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"?employeeId="+employee.String(), http.NoBody)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// событие другого сотрудника отфильтровывается
	require.NoError(t, broker.Publish(ctx, slotEvent(t, uuid.New())))
	require.NoError(t, broker.Publish(ctx, slotEvent(t, employee)))

	reader := bufio.NewReader(resp.Body)
	eventLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	dataLine, err := reader.ReadString('\n')
	require.NoError(t, err)

	assert.Equal(t, "event: slots\n", eventLine)
	require.True(t, strings.HasPrefix(dataLine, "data: "))

	var got changefeed.Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(dataLine, "data: ")), &got))
	ref, err := got.Ref()
	require.NoError(t, err)
	assert.Equal(t, employee, ref.EmployeeID)
	assert.Equal(t, changefeed.ActionCreate, got.Action)
}

func TestHandle_SubscribeFailureIs503(t *testing.T) {
	handler := NewHandler(failingSubscriber{}, logger.NewWriter(io.Discard, "error"))

	rec := httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(http.MethodGet, "/feed", http.NoBody))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"Change feed is unavailable.","data":null}`, rec.Body.String())
}

func TestHandle_InvalidEmployeeIs400(t *testing.T) {
	handler := NewHandler(failingSubscriber{}, logger.NewWriter(io.Discard, "error"))

	rec := httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(http.MethodGet, "/feed?employeeId=abc", http.NoBody))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
