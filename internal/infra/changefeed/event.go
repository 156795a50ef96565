package changefeed

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topic канал ленты изменений (совпадает с каналом pg_notify)
type Topic string

const (
	TopicSlots    Topic = "slots"
	TopicSessions Topic = "sessions"
)

// Topics все топики ленты
var Topics = []Topic{TopicSlots, TopicSessions}

// IsValid проверяет топик
func (t Topic) IsValid() bool {
	return t == TopicSlots || t == TopicSessions
}

// Action тип изменения строки
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// IsValid проверяет действие
func (a Action) IsValid() bool {
	return a == ActionCreate || a == ActionUpdate || a == ActionDelete
}

var (
	// ErrInvalidEvent возвращается для payload, который не удалось разобрать
	ErrInvalidEvent = errors.New("changefeed: invalid event")
)

// Event одно изменение строки slots или sessions.
// Data содержит строку в формате API (camelCase).
type Event struct {
	Topic  Topic           `json:"topic"`
	Action Action          `json:"eventAction"`
	Data   json.RawMessage `json:"data"`
}

// Ref ключевые поля строки, по которым клиент находит окно кэша
type Ref struct {
	ID         uuid.UUID `json:"id"`
	EmployeeID uuid.UUID `json:"employeeId"`
	StartTime  time.Time `json:"startTime"`
}

// ParseNotification разбирает payload из pg_notify
func ParseNotification(channel, payload string) (Event, error) {
	topic := Topic(channel)
	if !topic.IsValid() {
		return Event{}, fmt.Errorf("%w: unknown channel %q", ErrInvalidEvent, channel)
	}

	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	ev.Topic = topic

	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Validate проверяет форму события
func (e Event) Validate() error {
	if !e.Topic.IsValid() {
		return fmt.Errorf("%w: topic %q", ErrInvalidEvent, e.Topic)
	}
	if !e.Action.IsValid() {
		return fmt.Errorf("%w: eventAction %q", ErrInvalidEvent, e.Action)
	}
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return fmt.Errorf("%w: empty data", ErrInvalidEvent)
	}
	return nil
}

// Ref извлекает идентификаторы строки из Data
func (e Event) Ref() (Ref, error) {
	var ref Ref
	if err := json.Unmarshal(e.Data, &ref); err != nil {
		return Ref{}, fmt.Errorf("%w: data: %v", ErrInvalidEvent, err)
	}
	if ref.ID == uuid.Nil || ref.EmployeeID == uuid.Nil {
		return Ref{}, fmt.Errorf("%w: data without id or employeeId", ErrInvalidEvent)
	}
	return ref, nil
}
