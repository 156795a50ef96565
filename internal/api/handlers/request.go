package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// MsgInvalidRequestBody ответ на неразбираемое тело запроса
const MsgInvalidRequestBody = "Invalid request body."

const maxBodyBytes = 1 << 20

var (
	// ErrEmptyBody тело запроса пустое
	ErrEmptyBody = errors.New("request body is empty")

	// ErrInvalidField поле запроса не прошло проверку формата
	ErrInvalidField = errors.New("invalid field")
)

// DecodeJSON разбирает тело запроса в v; неизвестные поля запрещены
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// ParseUUID проверяет идентификатор
func ParseUUID(field, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", ErrInvalidField, field)
	}
	id, err := uuid.Parse(value)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a valid UUID", ErrInvalidField, field)
	}
	return id, nil
}

// ParseUUIDs проверяет непустой список идентификаторов
func ParseUUIDs(field string, values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s must not be empty", ErrInvalidField, field)
	}
	ids := make([]uuid.UUID, 0, len(values))
	for i, v := range values {
		id, err := ParseUUID(fmt.Sprintf("%s[%d]", field, i), v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseDate проверяет дату YYYY-MM-DD
func ParseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrInvalidField, field)
	}
	date, err := time.ParseInLocation(domain.DateFormat, value, domain.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", ErrInvalidField, field)
	}
	return date, nil
}

// ParseDates проверяет непустой список дат
func ParseDates(field string, values []string) ([]time.Time, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s must not be empty", ErrInvalidField, field)
	}
	dates := make([]time.Time, 0, len(values))
	for i, v := range values {
		d, err := ParseDate(fmt.Sprintf("%s[%d]", field, i), v)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// ParseTimestamp проверяет метку времени RFC 3339 с точностью до минуты
func ParseTimestamp(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrInvalidField, field)
	}
	t, err := time.Parse(domain.TimestampFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be an RFC 3339 timestamp", ErrInvalidField, field)
	}
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return time.Time{}, fmt.Errorf("%w: %s must be minute-granular", ErrInvalidField, field)
	}
	return t.In(domain.Location), nil
}

// ParseHour проверяет час [0,23]
func ParseHour(field string, value *int) (int, error) {
	if value == nil {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidField, field)
	}
	if !domain.IsValidHour(*value) {
		return 0, fmt.Errorf("%w: %s must be between 0 and 23", ErrInvalidField, field)
	}
	return *value, nil
}

// ParseMinutes проверяет минуты {0,15,30,45}
func ParseMinutes(field string, value *int) (int, error) {
	if value == nil {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidField, field)
	}
	if !domain.IsAllowedMinute(*value) {
		return 0, fmt.Errorf("%w: %s must be one of 0, 15, 30, 45", ErrInvalidField, field)
	}
	return *value, nil
}

// FieldMessage текст ошибки валидации для ответа 400
func FieldMessage(err error) string {
	if errors.Is(err, ErrInvalidField) {
		msg := err.Error()
		prefix := ErrInvalidField.Error() + ": "
		if len(msg) > len(prefix) {
			return msg[len(prefix):] + "."
		}
	}
	return MsgInvalidRequestBody
}
