package changefeed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slotPayload = `{"eventAction":"update","data":{"id":"5b1b4f38-3a53-4a30-9d5f-0b8c3b8a0c11","employeeId":"0d3d2a46-7e4c-4c39-8a52-51b8a6e0f0aa","type":"AVAILABLE","startTime":"2025-06-02T09:00:00+00:00","duration":30,"recurring":true}}`

func TestParseNotification(t *testing.T) {
	ev, err := ParseNotification("slots", slotPayload)
	require.NoError(t, err)

	assert.Equal(t, TopicSlots, ev.Topic)
	assert.Equal(t, ActionUpdate, ev.Action)

	ref, err := ev.Ref()
	require.NoError(t, err)
	assert.Equal(t, "5b1b4f38-3a53-4a30-9d5f-0b8c3b8a0c11", ref.ID.String())
	assert.True(t, ref.StartTime.Equal(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)))
}

func TestParseNotification_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		payload string
	}{
		{"unknown channel", "bookings", slotPayload},
		{"broken json", "slots", `{"eventAction":`},
		{"unknown action", "slots", `{"eventAction":"upsert","data":{}}`},
		{"no data", "sessions", `{"eventAction":"delete"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNotification(tt.channel, tt.payload)
			assert.ErrorIs(t, err, ErrInvalidEvent)
		})
	}
}

func TestEventRef_MissingIDs(t *testing.T) {
	ev := Event{Topic: TopicSessions, Action: ActionCreate, Data: []byte(`{"startTime":"2025-06-02T09:00:00Z"}`)}
	_, err := ev.Ref()
	assert.ErrorIs(t, err, ErrInvalidEvent)
}
