package infrastructure

import (
	"context"

	"botoclock/domain/interfaces"
	"botoclock/events"
)

// ForwardEvents subscribes publisher to each event type on the bus.
// Publish failures surface through the bus's handler error logging.
func ForwardEvents(bus *events.Bus, publisher interfaces.ExternalEventPublisher, eventTypes ...events.EventType) {
	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			return publisher.Publish(event)
		})
	}
}
