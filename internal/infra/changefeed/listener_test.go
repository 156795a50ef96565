package changefeed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/pkg/logger"
)

type fakeBroker struct {
	events []Event
	err    error
}

func (b *fakeBroker) Publish(_ context.Context, ev Event) error {
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, ev)
	return nil
}

type fakeCounter struct {
	counts map[string]int
}

func (c *fakeCounter) IncFeedEvent(topic, action string) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[topic+"/"+action]++
}

func TestListener_Relay(t *testing.T) {
	broker := &fakeBroker{}
	counter := &fakeCounter{}
	l := NewListener("", broker, counter, logger.Nop())

	l.Relay(context.Background(), "slots", slotPayload)

	require.Len(t, broker.events, 1)
	assert.Equal(t, TopicSlots, broker.events[0].Topic)
	assert.Equal(t, 1, counter.counts["slots/update"])
}

func TestListener_RelayDropsInvalid(t *testing.T) {
	broker := &fakeBroker{}
	counter := &fakeCounter{}
	l := NewListener("", broker, counter, logger.Nop())

	l.Relay(context.Background(), "slots", "garbage")

	assert.Empty(t, broker.events)
	assert.Empty(t, counter.counts)
}

func TestListener_RelayPublishError(t *testing.T) {
	broker := &fakeBroker{err: errors.New("redis down")}
	counter := &fakeCounter{}
	l := NewListener("", broker, counter, logger.Nop())

	l.Relay(context.Background(), "slots", slotPayload)

	assert.Empty(t, counter.counts)
}
