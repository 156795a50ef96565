package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrPublish возвращается при ошибке публикации в Redis
	ErrPublish = errors.New("changefeed.broker: failed to publish event")
)

// Broker принимает события ленты
type Broker interface {
	Publish(ctx context.Context, ev Event) error
}

// RedisBroker рассылает события через Redis Pub/Sub, по каналу на топик
type RedisBroker struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisBroker создает брокер. prefix по умолчанию "calendar:feed"
func NewRedisBroker(rdb redis.UniversalClient, prefix string) *RedisBroker {
	if prefix == "" {
		prefix = "calendar:feed"
	}
	return &RedisBroker{rdb: rdb, prefix: prefix}
}

// Channel имя Redis-канала для топика
func (b *RedisBroker) Channel(topic Topic) string {
	return b.prefix + ":" + string(topic)
}

// Publish публикует событие в канал его топика
func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrPublish, err)
	}

	if err := b.rdb.Publish(ctx, b.Channel(ev.Topic), payload).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	return nil
}

// Subscription активная подписка на ленту.
// Доставка at-most-once: медленный подписчик может терять события.
type Subscription struct {
	events <-chan Event
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events канал событий, закрывается после Close или отмены контекста
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Errors канал ошибок разбора, подписка после них продолжается
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close останавливает подписку, повторные вызовы ничего не делают
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// Subscribe подписывается на все топики ленты
func (b *RedisBroker) Subscribe(ctx context.Context) (*Subscription, error) {
	channels := make([]string, 0, len(Topics))
	for _, topic := range Topics {
		channels = append(channels, b.Channel(topic))
	}

	pubsub := b.rdb.Subscribe(ctx, channels...)
	// Дожидаемся подтверждения подписки, иначе ранние события теряются
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("changefeed.broker: subscribe: %w", err)
	}

	eventsChan := make(chan Event, 32)
	errorsChan := make(chan error, 8)
	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var ev Event
				err := json.Unmarshal([]byte(msg.Payload), &ev)
				if err == nil {
					err = ev.Validate()
				}
				if err != nil {
					select {
					case errorsChan <- fmt.Errorf("%w: %v", ErrInvalidEvent, err):
					case <-subCtx.Done():
						return
					default:
					}
					continue
				}

				select {
				case eventsChan <- ev:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}
