package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/RedeemBot_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Redemption event types
const (
	RedemptionCompleted Type = domain.EventTypeRedemptionCompleted
	RedemptionFailed    Type = domain.EventTypeRedemptionFailed
)

// NewRedemptionSettledEvent builds the event for a committed terminal transition.
// The event type follows the payload status.
func NewRedemptionSettledEvent(payload domain.RedemptionSettledPayload, instanceID string) Event {
	eventType := RedemptionFailed
	if payload.Status == domain.StatusCompleted {
		eventType = RedemptionCompleted
	}
	if payload.SettledAt.IsZero() {
		payload.SettledAt = time.Now()
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: payload,
		Metadata: map[string]interface{}{
			MetadataKeyInstance: instanceID,
		},
	}
}

// Redacted returns a copy of the event with payout secrets removed from
// redemption payloads. Other payloads are returned as is.
func (e Event) Redacted() Event {
	if p, ok := e.Payload.(domain.RedemptionSettledPayload); ok {
		e.Payload = p.Redacted()
	}
	return e
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every handler subscribed to the event type synchronously.
// Handlers that need to do slow work must hand it off themselves.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
