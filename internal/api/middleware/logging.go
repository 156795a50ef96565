package middleware

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RequestLogger пишет строку на каждый завершенный запрос
func RequestLogger(logger Logger) mux.MiddlewareFunc {
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("request_id=%d %s %s -> %d (%s)", id, r.Method, r.URL.Path, rec.status, duration)
			case rec.status >= http.StatusBadRequest:
				logger.Warn("request_id=%d %s %s -> %d (%s)", id, r.Method, r.URL.Path, rec.status, duration)
			default:
				logger.Info("request_id=%d %s %s -> %d (%s)", id, r.Method, r.URL.Path, rec.status, duration)
			}
		})
	}
}

// Recover превращает панику обработчика в ответ 500
func Recover(logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					logger.Error("panic in %s %s: %v", r.Method, r.URL.Path, p)
					w.Header().Set("Content-Type", "application/json; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"message":"Internal server error.","data":null}` + "\n"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
