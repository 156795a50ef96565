// Package calendarclient клиент API календаря: типизированные вызовы эндпоинтов,
// недельный кэш с патчами после мутаций и журнал отмены.
package calendarclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseBytes = 4 << 20

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type validator interface {
	validate() error
}

type envelope struct {
	Message *string         `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client клиент HTTP API календаря
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает клиент. baseURL без /api/v1, например http://localhost:8080
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// WithHTTPClient заменяет HTTP клиент (тесты, транспорт с трассировкой)
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// GetWeekSlots слоты сотрудника за окно [start, end] (YYYY-MM-DD)
func (c *Client) GetWeekSlots(ctx context.Context, employeeID, start, end string) ([]*Slot, error) {
	var out weekSlots
	if _, err := c.call(ctx, http.MethodPost, "/slots/get-week-slots", map[string]string{
		"employeeId": employeeID,
		"start":      start,
		"end":        end,
	}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddSlot первый свободный слот в дне
func (c *Client) AddSlot(ctx context.Context, employeeID, day string) (*SlotsResult, error) {
	return c.addSlot(ctx, "/slots/add-slot", employeeID, day)
}

// AddRecurringSlot первый свободный слот в дне, повторяющийся до конца года
func (c *Client) AddRecurringSlot(ctx context.Context, employeeID, day string) (*SlotsResult, error) {
	return c.addSlot(ctx, "/slots/add-recurring-slot", employeeID, day)
}

func (c *Client) addSlot(ctx context.Context, path, employeeID, day string) (*SlotsResult, error) {
	out := &SlotsResult{}
	msg, err := c.call(ctx, http.MethodPost, path, map[string]string{
		"employeeId": employeeID,
		"day":        day,
	}, out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return out, nil
}

// UndoAddRecurringSlot удаляет повторяющийся слот вместе с seed
func (c *Client) UndoAddRecurringSlot(ctx context.Context, slotID string) (*RecurrenceRemoval, error) {
	return c.removeRecurrence(ctx, "/slots/undo-add-recurring-slot", slotID)
}

// DisableSlotRecurrence отключает повторение, seed остается
func (c *Client) DisableSlotRecurrence(ctx context.Context, slotID string) (*RecurrenceRemoval, error) {
	return c.removeRecurrence(ctx, "/slots/disable-slot-recurrence", slotID)
}

func (c *Client) removeRecurrence(ctx context.Context, path, slotID string) (*RecurrenceRemoval, error) {
	out := &RecurrenceRemoval{}
	msg, err := c.call(ctx, http.MethodPost, path, map[string]string{"slotId": slotID}, out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return out, nil
}

// SetSlotRecurrence делает слот повторяющимся до конца года
func (c *Client) SetSlotRecurrence(ctx context.Context, slotID string) (*SlotsResult, error) {
	out := &SlotsResult{}
	msg, err := c.call(ctx, http.MethodPost, "/slots/set-slot-recurrence", map[string]string{"slotId": slotID}, out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return out, nil
}

// RevertSlotSeries удаляет созданные слоты серии и снимает флаг с принятых
func (c *Client) RevertSlotSeries(ctx context.Context, createdIDs, adoptedIDs []string) (*RecurrenceRemoval, error) {
	out := &RecurrenceRemoval{}
	body := map[string][]string{
		"createdSlotIds": nonNilIDs(createdIDs),
		"adoptedSlotIds": nonNilIDs(adoptedIDs),
	}
	msg, err := c.call(ctx, http.MethodPost, "/slots/revert-slot-series", body, out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return out, nil
}

// RestoreSlotSeries возвращает удаленные слоты серии и снова помечает
// повторяющимися recurringIDs
func (c *Client) RestoreSlotSeries(ctx context.Context, slots []*Slot, recurringIDs []string) (*SeriesRestoreResult, error) {
	out := &SeriesRestoreResult{}
	body := struct {
		Slots            []*Slot  `json:"slots"`
		RecurringSlotIDs []string `json:"recurringSlotIds"`
	}{Slots: slots, RecurringSlotIDs: nonNilIDs(recurringIDs)}
	if body.Slots == nil {
		body.Slots = []*Slot{}
	}
	msg, err := c.call(ctx, http.MethodPost, "/slots/restore-slot-series", body, out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return out, nil
}

func nonNilIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// AddSlots восстанавливает слоты (отмена удаления)
func (c *Client) AddSlots(ctx context.Context, slots []*Slot) (*RestoreResult, error) {
	out := &RestoreResult{}
	msg, err := c.call(ctx, http.MethodPost, "/slots/add-slots", map[string][]*Slot{"slots": slots}, out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return out, nil
}

// DeleteSlots удаляет слоты по идентификаторам
func (c *Client) DeleteSlots(ctx context.Context, slotIDs []string) (*DeleteResult, error) {
	out := &DeleteResult{}
	msg, err := c.call(ctx, http.MethodDelete, "/slots/delete-slots", map[string][]string{"slotIds": slotIDs}, out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return out, nil
}

// UpdateSlotHour меняет час слота
func (c *Client) UpdateSlotHour(ctx context.Context, slotID string, hour int) (*SlotTimeResult, error) {
	return c.updateSlotTime(ctx, "/slots/update-slot-hour", slotID, "hour", hour)
}

// UpdateRecurringSlotHour меняет час слота и его серии
func (c *Client) UpdateRecurringSlotHour(ctx context.Context, slotID string, hour int) (*SlotTimeResult, error) {
	return c.updateSlotTime(ctx, "/slots/update-recurring-slot-hour", slotID, "hour", hour)
}

// UpdateSlotMinutes меняет минуты слота
func (c *Client) UpdateSlotMinutes(ctx context.Context, slotID string, minutes int) (*SlotTimeResult, error) {
	return c.updateSlotTime(ctx, "/slots/update-slot-minutes", slotID, "minutes", minutes)
}

// UpdateRecurringSlotMinutes меняет минуты слота и его серии
func (c *Client) UpdateRecurringSlotMinutes(ctx context.Context, slotID string, minutes int) (*SlotTimeResult, error) {
	return c.updateSlotTime(ctx, "/slots/update-recurring-slot-minutes", slotID, "minutes", minutes)
}

func (c *Client) updateSlotTime(ctx context.Context, path, slotID, field string, value int) (*SlotTimeResult, error) {
	out := &SlotTimeResult{}
	msg, err := c.call(ctx, http.MethodPut, path, map[string]interface{}{
		"slotId": slotID,
		field:    value,
	}, out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return out, nil
}

// DuplicateDay копирует слоты дня на целевые даты
func (c *Client) DuplicateDay(ctx context.Context, employeeID, sourceDate string, targetDates []string) (*DayResult, error) {
	out := &DayResult{}
	msg, err := c.call(ctx, http.MethodPost, "/slots/duplicate-day", map[string]interface{}{
		"employeeId":  employeeID,
		"sourceDate":  sourceDate,
		"targetDates": targetDates,
	}, out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return out, nil
}

// SetRecurringDay делает день повторяющимся до конца года
func (c *Client) SetRecurringDay(ctx context.Context, employeeID, date string) (*DayResult, error) {
	return c.recurringDay(ctx, "/slots/set-recurring-day", employeeID, date)
}

// DisableRecurringDay отключает повторение дня
func (c *Client) DisableRecurringDay(ctx context.Context, employeeID, date string) (*DayResult, error) {
	return c.recurringDay(ctx, "/slots/disable-recurring-day", employeeID, date)
}

func (c *Client) recurringDay(ctx context.Context, path, employeeID, date string) (*DayResult, error) {
	out := &DayResult{}
	msg, err := c.call(ctx, http.MethodPost, path, map[string]string{
		"employeeId": employeeID,
		"date":       date,
	}, out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return out, nil
}

// GetWeekSessions сессии сотрудника за окно [start, end]
func (c *Client) GetWeekSessions(ctx context.Context, employeeID, start, end string) ([]*Session, error) {
	var out weekSessions
	if _, err := c.call(ctx, http.MethodPost, "/sessions/get-week-sessions", map[string]string{
		"employeeId": employeeID,
		"start":      start,
		"end":        end,
	}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BookSession бронирует свободный слот
func (c *Client) BookSession(ctx context.Context, slotID, customerID string, message *string) (*SessionResult, error) {
	body := map[string]interface{}{
		"slotId":     slotID,
		"customerId": customerID,
	}
	if message != nil {
		body["message"] = *message
	}
	return c.session(ctx, http.MethodPost, "/sessions/book-session", body)
}

// UpdateSession переносит сессию на другой слот
func (c *Client) UpdateSession(ctx context.Context, sessionID, slotID string) (*RescheduleResult, error) {
	out := &RescheduleResult{}
	msg, err := c.call(ctx, http.MethodPut, "/sessions/update-session", map[string]string{
		"sessionId": sessionID,
		"slotId":    slotID,
	}, out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return out, nil
}

// DeleteSession удаляет сессию и освобождает слот
func (c *Client) DeleteSession(ctx context.Context, sessionID string) (*SessionResult, error) {
	return c.session(ctx, http.MethodDelete, "/sessions/delete-session", map[string]string{"sessionId": sessionID})
}

// UndoDeleteSession восстанавливает удаленную сессию
func (c *Client) UndoDeleteSession(ctx context.Context, session *Session) (*SessionResult, error) {
	return c.session(ctx, http.MethodPost, "/sessions/undo-delete-session", map[string]*Session{"session": session})
}

func (c *Client) session(ctx context.Context, method, path string, body interface{}) (*SessionResult, error) {
	out := &SessionResult{}
	msg, err := c.call(ctx, method, path, body, out)
	if err != nil {
		return nil, err
	}
	out.Message = msg
	return out, nil
}

// ExportWeek неделя сессий в формате iCalendar
func (c *Client) ExportWeek(ctx context.Context, employeeID, start string) (string, error) {
	query := url.Values{}
	query.Set("employeeId", employeeID)
	query.Set("start", start)

	resp, err := c.send(ctx, http.MethodGet, "/sessions/export-week?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrInvalidResponse, err)
	}

	if resp.StatusCode != http.StatusOK {
		_, err := decodeEnvelope(resp.StatusCode, raw)
		return "", err
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/calendar") {
		return "", fmt.Errorf("%w: unexpected content type %q", ErrInvalidResponse, resp.Header.Get("Content-Type"))
	}
	return string(raw), nil
}

// call отправляет запрос, проверяет конверт и форму data. Возвращает message
func (c *Client) call(ctx context.Context, method, path string, body interface{}, out validator) (string, error) {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrInvalidResponse, err)
	}

	env, err := decodeEnvelope(resp.StatusCode, raw)
	if err != nil {
		c.log.Warn("%s %s - %v", method, path, err)
		return "", err
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return "", fmt.Errorf("%w: failed to decode data: %v", ErrInvalidResponse, err)
	}
	if err := out.validate(); err != nil {
		c.log.Error("%s %s - Response failed validation: %v", method, path, err)
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return *env.Message, nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	return resp, nil
}

// decodeEnvelope разбирает {message, data} и раскладывает статусы по ошибкам
func decodeEnvelope(status int, raw []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: status %d: failed to decode envelope: %v", ErrInvalidResponse, status, err)
	}
	if env.Message == nil {
		return nil, fmt.Errorf("%w: status %d: envelope without message", ErrInvalidResponse, status)
	}

	switch {
	case status == http.StatusOK:
		if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
			return nil, &APIError{Status: status, Message: *env.Message, kind: ErrRejected}
		}
		return &env, nil
	case status == http.StatusBadRequest:
		return nil, &APIError{Status: status, Message: *env.Message, kind: ErrBadRequest}
	case status >= http.StatusInternalServerError:
		return nil, &APIError{Status: status, Message: *env.Message, kind: ErrServer}
	default:
		return nil, fmt.Errorf("%w: unexpected status %d: %s", ErrInvalidResponse, status, *env.Message)
	}
}

// Message текст для пользователя из ошибки клиента, если он есть
func Message(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message, true
	}
	return "", false
}
