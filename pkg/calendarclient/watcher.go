package calendarclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CalendarService/pkg/calendarclient/weekcache"
)

const (
	DefaultFeedPrefix = "calendar:feed"

	topicSlots    = "slots"
	topicSessions = "sessions"
)

// ErrFeedClosed Redis закрыл канал подписки
var ErrFeedClosed = errors.New("calendarclient: feed subscription closed")

type feedEvent struct {
	Topic  string          `json:"topic"`
	Action string          `json:"eventAction"`
	Data   json.RawMessage `json:"data"`
}

type feedRef struct {
	ID         string    `json:"id"`
	EmployeeID uuid.UUID `json:"employeeId"`
	StartTime  time.Time `json:"startTime"`
}

// FeedWatcher слушает ленту изменений в Redis и сбрасывает затронутые окна кэша.
// Событие только подсказка: окно перезагрузится при следующем Fetch.
type FeedWatcher struct {
	rdb       redis.UniversalClient
	prefix    string
	calendar  *Calendar
	log       Logger
	onInvalid func(topic string, key weekcache.Key)
}

// NewFeedWatcher создает наблюдателя. prefix пустой означает DefaultFeedPrefix
func NewFeedWatcher(rdb redis.UniversalClient, prefix string, calendar *Calendar, log Logger) *FeedWatcher {
	if prefix == "" {
		prefix = DefaultFeedPrefix
	}
	return &FeedWatcher{rdb: rdb, prefix: prefix, calendar: calendar, log: log}
}

// OnInvalidate вызывается для каждого сброшенного окна
func (w *FeedWatcher) OnInvalidate(f func(topic string, key weekcache.Key)) *FeedWatcher {
	w.onInvalid = f
	return w
}

// Run слушает ленту до отмены ctx
func (w *FeedWatcher) Run(ctx context.Context) error {
	pubsub := w.rdb.Subscribe(ctx, w.prefix+":"+topicSlots, w.prefix+":"+topicSessions)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("calendarclient: subscribe to feed: %w", err)
	}
	w.log.Info("Feed watcher subscribed: prefix=%s", w.prefix)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return ErrFeedClosed
			}
			if err := w.Handle(msg.Payload); err != nil {
				w.log.Warn("Feed watcher skipped event from %s: %v", msg.Channel, err)
			}
		}
	}
}

// Handle применяет одно событие ленты к кэшу календаря
func (w *FeedWatcher) Handle(payload string) error {
	var ev feedEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	var ref feedRef
	if err := json.Unmarshal(ev.Data, &ref); err != nil {
		return fmt.Errorf("%w: data: %v", ErrInvalidResponse, err)
	}
	if ref.ID == "" || ref.EmployeeID == uuid.Nil || ref.StartTime.IsZero() {
		return fmt.Errorf("%w: event without id, employeeId or startTime", ErrInvalidResponse)
	}

	switch ev.Topic {
	case topicSlots:
		invalidate(w.calendar.slots, ev.Topic, ref, w.onInvalid)
	case topicSessions:
		invalidate(w.calendar.sessions, ev.Topic, ref, w.onInvalid)
	default:
		return fmt.Errorf("%w: unknown topic %q", ErrInvalidResponse, ev.Topic)
	}
	return nil
}

// invalidate сбрасывает окно новой даты строки и любые окна, где строка лежала раньше
func invalidate[T any](store *weekcache.Store[T], topic string, ref feedRef, notify func(string, weekcache.Key)) {
	target := weekcache.KeyFor(ref.EmployeeID, ref.StartTime)

	for _, key := range store.Keys(ref.EmployeeID) {
		if key != target {
			w, ok := store.Get(key)
			if !ok {
				continue
			}
			if _, holds := w.ByID[ref.ID]; !holds {
				continue
			}
		}
		store.Invalidate(key)
		if notify != nil {
			notify(topic, key)
		}
	}
}
