package infrastructure

import (
	"fmt"

	"botoclock/events"
)

// NATS subjects for registry events
const (
	SubjectClockCreated = "clocks.created"
	SubjectClockRemoved = "clocks.removed"
	SubjectGuildJoined  = "guilds.joined"
	SubjectGuildLeft    = "guilds.left"
)

// EventSubjectMapper maps bus events onto NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject returns the subject an event is published on
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeClockCreated:
		return SubjectClockCreated
	case events.EventTypeClockRemoved:
		return SubjectClockRemoved
	case events.EventTypeGuildCreated:
		return SubjectGuildJoined
	case events.EventTypeGuildDeleted:
		return SubjectGuildLeft
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// ForwardedEventTypes lists the bus events that leave the process
func (m *EventSubjectMapper) ForwardedEventTypes() []events.EventType {
	return []events.EventType{
		events.EventTypeClockCreated,
		events.EventTypeClockRemoved,
		events.EventTypeGuildCreated,
		events.EventTypeGuildDeleted,
	}
}

// GetAllSubjects returns all subjects this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		SubjectClockCreated,
		SubjectClockRemoved,
		SubjectGuildJoined,
		SubjectGuildLeft,
	}
}
