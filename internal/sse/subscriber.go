package sse

import (
	"context"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/event"
	"github.com/osse101/RedeemBot_Go/internal/logger"
)

// Subscriber bridges the event bus to the SSE hub
type Subscriber struct {
	hub *Hub
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub) *Subscriber {
	return &Subscriber{hub: hub}
}

// Register subscribes to both terminal redemption events
func (s *Subscriber) Register(bus event.Bus) {
	bus.Subscribe(event.RedemptionCompleted, s.Handle)
	bus.Subscribe(event.RedemptionFailed, s.Handle)
	logger.Info(LogMsgSubscriberReady, "types", []string{
		domain.EventTypeRedemptionCompleted,
		domain.EventTypeRedemptionFailed,
	})
}

// Handle broadcasts the redacted payload under the bus event type
func (s *Subscriber) Handle(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[domain.RedemptionSettledPayload](evt.Redacted().Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgPayloadDecodeError, "event_type", evt.Type, "error", err)
		return nil
	}
	payload = payload.Redacted()

	s.hub.Broadcast(string(evt.Type), payload)
	logger.FromContext(ctx).Debug(LogMsgEventBroadcast,
		"event_type", evt.Type,
		"request_id", payload.RequestID)
	return nil
}
