package changefeed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

var (
	// ErrListen возвращается, если не удалось подписаться на канал postgres
	ErrListen = errors.New("changefeed.listener: failed to listen")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// EventCounter считает события ленты (метрики)
type EventCounter interface {
	IncFeedEvent(topic, action string)
}

// Listener слушает pg_notify-каналы и пересылает события в Broker
type Listener struct {
	dsn     string
	broker  Broker
	counter EventCounter
	logger  Logger
}

// NewListener создает Listener. counter может быть nil
func NewListener(dsn string, broker Broker, counter EventCounter, logger Logger) *Listener {
	return &Listener{
		dsn:     dsn,
		broker:  broker,
		counter: counter,
		logger:  logger,
	}
}

// Run блокируется до отмены контекста
func (l *Listener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.dsn, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.logger.Warn("Change feed connection event %d: %v", ev, err)
		}
	})
	defer listener.Close()

	for _, topic := range Topics {
		if err := listener.Listen(string(topic)); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrListen, topic, err)
		}
	}
	l.logger.Info("Change feed listening on channels: slots, sessions")

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Change feed listener stopped")
			return nil
		case n := <-listener.Notify:
			// nil приходит после переподключения
			if n == nil {
				l.logger.Warn("Change feed reconnected, events may have been missed")
				continue
			}
			l.Relay(ctx, n.Channel, n.Extra)
		case <-time.After(pingInterval):
			if err := listener.Ping(); err != nil {
				l.logger.Warn("Change feed ping failed: %v", err)
			}
		}
	}
}

// Relay разбирает одно уведомление и публикует его
func (l *Listener) Relay(ctx context.Context, channel, payload string) {
	ev, err := ParseNotification(channel, payload)
	if err != nil {
		l.logger.Warn("Change feed dropped notification on %s: %v", channel, err)
		return
	}

	if err := l.broker.Publish(ctx, ev); err != nil {
		l.logger.Error("Change feed publish failed: %v", err)
		return
	}

	if l.counter != nil {
		l.counter.IncFeedEvent(string(ev.Topic), string(ev.Action))
	}
}
