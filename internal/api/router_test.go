package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/testutil/apitest"
	"github.com/m04kA/SMC-CalendarService/internal/testutil/memstore"
)

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(t *testing.T, store *memstore.Store) http.Handler {
	t.Helper()
	return apitest.NewRouter(store, apitest.Options{})
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestRouter_GetWeekSlots(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)})
	store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)})
	router := newRouter(t, store)

	t.Run("returns slots of the window", func(t *testing.T) {
		code, env := do(t, router, http.MethodPost, "/api/v1/slots/get-week-slots", map[string]string{
			"employeeId": employee.String(),
			"start":      "2025-06-02",
			"end":        "2025-06-08",
		})
		require.Equal(t, http.StatusOK, code)

		var slots []map[string]interface{}
		require.NoError(t, json.Unmarshal(env.Data, &slots))
		require.Len(t, slots, 1)
		assert.Equal(t, "2025-06-03T09:00:00Z", slots[0]["startTime"])
		assert.Equal(t, "AVAILABLE", slots[0]["type"])
	})

	t.Run("invalid employee id is 400", func(t *testing.T) {
		code, env := do(t, router, http.MethodPost, "/api/v1/slots/get-week-slots", map[string]string{
			"employeeId": "nope",
			"start":      "2025-06-02",
			"end":        "2025-06-08",
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, env.Message, "employeeId")
	})

	t.Run("unknown field is 400", func(t *testing.T) {
		code, _ := do(t, router, http.MethodPost, "/api/v1/slots/get-week-slots", map[string]string{"foo": "bar"})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("wrong method is 405", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/slots/get-week-slots", http.NoBody)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRouter_BookSession(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	slot := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)})
	blocked := store.SeedSlot(domain.Slot{EmployeeID: employee, Type: domain.SlotBlocked, StartTime: time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)})
	customer := store.SeedCustomer(domain.Customer{Name: "Anna", Email: "anna@example.com"})
	router := newRouter(t, store)

	t.Run("books available slot", func(t *testing.T) {
		code, env := do(t, router, http.MethodPost, "/api/v1/sessions/book-session", map[string]string{
			"slotId":     slot.ID.String(),
			"customerId": customer.ID.String(),
			"message":    "first visit",
		})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Session has been booked.", env.Message)

		var data struct {
			Session map[string]interface{} `json:"session"`
			Slot    map[string]interface{} `json:"slot"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "BOOKED", data.Slot["type"])
		assert.Equal(t, "Anna", data.Session["customerName"])
		assert.Equal(t, "first visit", data.Session["message"])
	})

	t.Run("blocked slot is a domain failure", func(t *testing.T) {
		code, env := do(t, router, http.MethodPost, "/api/v1/sessions/book-session", map[string]string{
			"slotId":     blocked.ID.String(),
			"customerId": customer.ID.String(),
		})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Slot is not available.", env.Message)
		assert.Equal(t, "null", string(env.Data))
	})

	t.Run("unknown slot is a domain failure", func(t *testing.T) {
		code, env := do(t, router, http.MethodPost, "/api/v1/sessions/book-session", map[string]string{
			"slotId":     uuid.NewString(),
			"customerId": customer.ID.String(),
		})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Slot not found.", env.Message)
	})

	t.Run("empty body is 400", func(t *testing.T) {
		code, env := do(t, router, http.MethodPost, "/api/v1/sessions/book-session", nil)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Invalid request body.", env.Message)
	})
}

func TestRouter_StorageFailureIs500(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	slot := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)})
	customer := store.SeedCustomer(domain.Customer{Name: "Anna"})
	store.FailOn("CreateSession", nil)
	router := newRouter(t, store)

	code, env := do(t, router, http.MethodPost, "/api/v1/sessions/book-session", map[string]string{
		"slotId":     slot.ID.String(),
		"customerId": customer.ID.String(),
	})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error.", env.Message)

	stored, ok := store.Slot(slot.ID)
	require.True(t, ok)
	assert.Equal(t, domain.SlotAvailable, stored.Type)
}

func TestRouter_DeleteSlotsNothingDeleted(t *testing.T) {
	router := newRouter(t, memstore.New())

	code, env := do(t, router, http.MethodDelete, "/api/v1/slots/delete-slots", map[string][]string{
		"slotIds": {uuid.NewString()},
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "No slots were deleted.", env.Message)
	assert.Equal(t, "null", string(env.Data))
}

func TestRouter_ExportWeek(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	slot := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)})
	customer := store.SeedCustomer(domain.Customer{Name: "Anna"})
	store.SeedSession(domain.Session{SlotID: slot.ID, CustomerID: customer.ID})
	router := newRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/export-week?employeeId="+employee.String()+"&start=2025-06-04", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sessions-2025-06-02.ics")
	assert.Contains(t, rec.Body.String(), "BEGIN:VEVENT")
	assert.Contains(t, rec.Body.String(), "Session: Anna")
}

func TestRouter_Metrics(t *testing.T) {
	router := newRouter(t, memstore.New())

	_, _ = do(t, router, http.MethodDelete, "/api/v1/slots/delete-slots", map[string][]string{"slotIds": {uuid.NewString()}})

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/slots/delete-slots")
}

func TestRouter_RevertAndRestoreSlotSeries(t *testing.T) {
	store := memstore.New()
	employee := uuid.New()
	seed := store.SeedSlot(domain.Slot{EmployeeID: employee, StartTime: time.Date(2025, 12, 15, 9, 0, 0, 0, time.UTC)})
	router := newRouter(t, store)

	code, env := do(t, router, http.MethodPost, "/api/v1/slots/set-slot-recurrence", map[string]string{"slotId": seed.ID.String()})
	require.Equal(t, http.StatusOK, code)
	var set struct {
		CreatedIDs []string `json:"createdIds"`
		AdoptedIDs []string `json:"adoptedIds"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &set))
	assert.Len(t, set.CreatedIDs, 2)
	assert.Equal(t, []string{seed.ID.String()}, set.AdoptedIDs)

	code, env = do(t, router, http.MethodPost, "/api/v1/slots/revert-slot-series", map[string][]string{
		"createdSlotIds": set.CreatedIDs,
		"adoptedSlotIds": set.AdoptedIDs,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Slot series has been reverted.", env.Message)
	require.Len(t, store.AllSlots(), 1)
	assert.False(t, store.AllSlots()[0].Recurring)

	t.Run("booked slot cannot be restored", func(t *testing.T) {
		code, _ := do(t, router, http.MethodPost, "/api/v1/slots/restore-slot-series", map[string]interface{}{
			"slots": []map[string]interface{}{{
				"id": uuid.NewString(), "employeeId": employee.String(), "type": "BOOKED",
				"startTime": "2025-12-22T09:00:00Z", "duration": 30, "recurring": true,
			}},
			"recurringSlotIds": []string{},
		})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("malformed id", func(t *testing.T) {
		code, _ := do(t, router, http.MethodPost, "/api/v1/slots/revert-slot-series", map[string][]string{
			"createdSlotIds": {"nope"},
		})
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
