package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("calendar-test")

	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/slots/add-slot", http.StatusOK, 10*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/slots/add-slot", http.StatusOK, 20*time.Millisecond)
	m.ObserveDBQuery("insert", time.Millisecond, errors.New("boom"))
	m.IncFeedEvent("slots", "create")
	m.AddRecurrenceRows("add_recurring_slot", 31)
	m.AddRecurrenceRows("add_recurring_slot", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodPost, "/api/v1/slots/add-slot", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueries.WithLabelValues("insert", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedEvents.WithLabelValues("slots", "create")))
	assert.Equal(t, 31.0, testutil.ToFloat64(m.recurrenceRows.WithLabelValues("add_recurring_slot")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("calendar-test")
	m.IncFeedEvent("sessions", "delete")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "changefeed_events_total")
}
