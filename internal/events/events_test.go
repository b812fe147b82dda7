package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	t.Run("SubscribeAndPublish", func(t *testing.T) {
		bus := NewEventBus()
		var received *Event
		bus.Subscribe(EventBookingCreated, func(e *Event) error {
			received = e
			return nil
		})

		bus.Publish(&Event{Type: EventBookingCreated, Payload: []byte(`{}`)})

		require.NotNil(t, received)
		assert.Equal(t, EventBookingCreated, received.Type)
		assert.False(t, received.CreatedAt.IsZero())
	})

	t.Run("NoSubscribersIsFine", func(t *testing.T) {
		bus := NewEventBus()
		bus.Publish(&Event{Type: "unheard"})
	})

	t.Run("OnlyMatchingTypeDelivered", func(t *testing.T) {
		bus := NewEventBus()
		calls := 0
		bus.Subscribe(EventBookingApproved, func(e *Event) error {
			calls++
			return nil
		})

		bus.Publish(&Event{Type: EventBookingRejected})
		bus.Publish(&Event{Type: EventBookingApproved})

		assert.Equal(t, 1, calls)
	})

	t.Run("PublishJSON", func(t *testing.T) {
		bus := NewEventBus()
		var received *Event
		bus.Subscribe(EventBookingApproved, func(e *Event) error {
			received = e
			return nil
		})

		payload := BookingEventPayload{
			BookingID: 10,
			ItemID:    3,
			BookerID:  7,
			OwnerID:   1,
			Status:    "APPROVED",
			Start:     time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			End:       time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC),
		}
		require.NoError(t, bus.PublishJSON(EventBookingApproved, payload))

		require.NotNil(t, received)
		var decoded BookingEventPayload
		require.NoError(t, json.Unmarshal(received.Payload, &decoded))
		assert.Equal(t, payload, decoded)
	})

	t.Run("NilBusIsNoop", func(t *testing.T) {
		var bus *EventBus
		assert.NoError(t, bus.PublishJSON(EventBookingCreated, nil))
	})
}
