package infrastructure

import (
	"testing"

	"botoclock/events"

	"github.com/stretchr/testify/assert"
)

func TestEventSubjectMapper_MapEventToSubject(t *testing.T) {
	t.Parallel()
	mapper := NewEventSubjectMapper()

	tests := []struct {
		event    events.Event
		expected string
	}{
		{events.ClockCreatedEvent{ClockID: 1}, SubjectClockCreated},
		{events.ClockRemovedEvent{Count: 1}, SubjectClockRemoved},
		{events.GuildCreatedEvent{GuildID: 1}, SubjectGuildJoined},
		{events.GuildDeletedEvent{GuildID: 1}, SubjectGuildLeft},
		{events.ReadyEvent{}, "unknown.ready"},
	}

	for _, tt := range tests {
		t.Run(string(tt.event.Type()), func(t *testing.T) {
			assert.Equal(t, tt.expected, mapper.MapEventToSubject(tt.event))
		})
	}
}

func TestEventSubjectMapper_ForwardedTypesHaveSubjects(t *testing.T) {
	t.Parallel()
	mapper := NewEventSubjectMapper()
	subjects := mapper.GetAllSubjects()

	assert.Len(t, mapper.ForwardedEventTypes(), len(subjects))
	for _, eventType := range mapper.ForwardedEventTypes() {
		assert.NotEqual(t, "unknown."+string(eventType), mapper.MapEventToSubject(typedEvent(eventType)))
	}
}

func typedEvent(eventType events.EventType) events.Event {
	switch eventType {
	case events.EventTypeClockCreated:
		return events.ClockCreatedEvent{}
	case events.EventTypeClockRemoved:
		return events.ClockRemovedEvent{}
	case events.EventTypeGuildCreated:
		return events.GuildCreatedEvent{}
	case events.EventTypeGuildDeleted:
		return events.GuildDeletedEvent{}
	}
	return events.ReadyEvent{}
}
