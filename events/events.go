package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// DefaultPoolSize is the number of handlers allowed to run at once
const DefaultPoolSize = 20

// EventType represents different types of events in the system
type EventType string

const (
	// Gateway events
	EventTypeReady          EventType = "ready"
	EventTypeGuildCreated   EventType = "guild_created"
	EventTypeGuildDeleted   EventType = "guild_deleted"
	EventTypeChannelDeleted EventType = "channel_deleted"
	EventTypeMessageDeleted EventType = "message_deleted"
	EventTypeCommand        EventType = "command_invoked"

	// Registry events
	EventTypeClockCreated EventType = "clock_created"
	EventTypeClockRemoved EventType = "clock_removed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// ReadyEvent is emitted once the gateway session is established
type ReadyEvent struct {
	BotUserID  string
	GuildCount int
}

func (e ReadyEvent) Type() EventType {
	return EventTypeReady
}

// GuildCreatedEvent is emitted when a guild becomes available or the bot joins one
type GuildCreatedEvent struct {
	GuildID     int64
	Name        string
	MemberCount int
	GuildCount  int
}

func (e GuildCreatedEvent) Type() EventType {
	return EventTypeGuildCreated
}

// GuildDeletedEvent is emitted when the bot leaves a guild or it becomes unavailable
type GuildDeletedEvent struct {
	GuildID     int64
	Unavailable bool // outage rather than removal
	GuildCount  int
}

func (e GuildDeletedEvent) Type() EventType {
	return EventTypeGuildDeleted
}

// ChannelDeletedEvent is emitted when a channel is deleted on the platform
type ChannelDeletedEvent struct {
	GuildID   int64
	ChannelID int64
}

func (e ChannelDeletedEvent) Type() EventType {
	return EventTypeChannelDeleted
}

// MessageDeletedEvent is emitted when a message is deleted on the platform
type MessageDeletedEvent struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
}

func (e MessageDeletedEvent) Type() EventType {
	return EventTypeMessageDeleted
}

// CommandEvent carries a raw text command addressed to the bot
type CommandEvent struct {
	GuildID    int64
	ChannelID  int64
	MessageID  int64
	AuthorID   int64
	Content    string
	MentionIDs []int64
}

func (e CommandEvent) Type() EventType {
	return EventTypeCommand
}

// ClockCreatedEvent is emitted after a clock row is persisted
type ClockCreatedEvent struct {
	ClockID   int64
	GuildID   int64
	ChannelID int64
	MessageID *int64
	Timezone  string
	Kind      string
}

func (e ClockCreatedEvent) Type() EventType {
	return EventTypeClockCreated
}

// Removal reasons carried by ClockRemovedEvent
const (
	RemovalReasonChannelDeleted = "channel_deleted"
	RemovalReasonMessageDeleted = "message_deleted"
	RemovalReasonExplicit       = "explicit"
	RemovalReasonSweep          = "sweep"
	RemovalReasonRefresh        = "refresh"
)

// ClockRemovedEvent is emitted after clock rows are deleted
type ClockRemovedEvent struct {
	GuildID    int64
	ResourceID int64
	Count      int64
	Reason     string
}

func (e ClockRemovedEvent) Type() EventType {
	return EventTypeClockRemoved
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event) error

// Bus manages event subscriptions and dispatching. Every handler call runs on
// its own goroutine but only poolSize of them execute at any time.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	sem      *semaphore.Weighted
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewBus creates a new event bus with a bounded worker pool
func NewBus(poolSize int) *Bus {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		handlers: make(map[EventType][]Handler),
		sem:      semaphore.NewWeighted(int64(poolSize)),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Publish hands an event to all registered handlers without waiting for them
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Publishing event to handlers")

	for i, handler := range handlers {
		b.wg.Add(1)
		go b.run(ctx, event, handler, i)
	}
}

func (b *Bus) run(ctx context.Context, event Event, h Handler, handlerIndex int) {
	defer b.wg.Done()

	if err := b.sem.Acquire(b.ctx, 1); err != nil {
		log.WithFields(log.Fields{
			"eventType":    event.Type(),
			"handlerIndex": handlerIndex,
		}).Warn("Dropping event, bus is shutting down")
		return
	}
	defer b.sem.Release(1)

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"eventType":    event.Type(),
				"handlerIndex": handlerIndex,
				"panic":        r,
			}).Error("Event handler panicked")
		}
	}()

	if err := h(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"eventType":    event.Type(),
			"handlerIndex": handlerIndex,
			"error":        err,
		}).Error("Event handler failed")
	}
}

// Wait blocks until every handler started so far has returned
func (b *Bus) Wait() {
	b.wg.Wait()
}

// Close stops admitting queued handlers and waits for running ones
func (b *Bus) Close() {
	b.cancel()
	b.wg.Wait()
}
