package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{lines: make(map[string][]string)}
}

func (l *recordingLogger) add(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines[level] = append(l.lines[level], fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Info(format string, v ...interface{})  { l.add("info", format, v...) }
func (l *recordingLogger) Warn(format string, v ...interface{})  { l.add("warn", format, v...) }
func (l *recordingLogger) Error(format string, v ...interface{}) { l.add("error", format, v...) }

type observation struct {
	method string
	route  string
	status int
}

type fakeCollector struct {
	observed []observation
}

func (c *fakeCollector) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	c.observed = append(c.observed, observation{method: method, route: route, status: status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	collector := &fakeCollector{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(collector))
	r.HandleFunc("/slots/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slots/42", http.NoBody))

	require.Len(t, collector.observed, 1)
	assert.Equal(t, observation{method: http.MethodGet, route: "/slots/{id}", status: http.StatusAccepted}, collector.observed[0])
}

func TestStatusRecorder_DefaultsToOK(t *testing.T) {
	collector := &fakeCollector{}
	handler := MetricsMiddleware(collector)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	require.Len(t, collector.observed, 1)
	assert.Equal(t, http.StatusOK, collector.observed[0].status)
	assert.Equal(t, "unmatched", collector.observed[0].route)
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	logger := newRecordingLogger()
	status := http.StatusOK
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))

	for _, s := range []int{http.StatusOK, http.StatusBadRequest, http.StatusInternalServerError} {
		status = s
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", http.NoBody))
	}

	require.Len(t, logger.lines["info"], 1)
	require.Len(t, logger.lines["warn"], 1)
	require.Len(t, logger.lines["error"], 1)
	assert.Contains(t, logger.lines["info"][0], "request_id=1 POST /x -> 200")
	assert.Contains(t, logger.lines["error"][0], "request_id=3")
}

func TestRecover_PanicBecomes500(t *testing.T) {
	logger := newRecordingLogger()
	handler := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error.","data":null}`, rec.Body.String())
	require.Len(t, logger.lines["error"], 1)
	assert.Contains(t, logger.lines["error"][0], "boom")
}
