package metrics

import (
	"context"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/event"
	"github.com/osse101/RedeemBot_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to the terminal redemption events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	bus.Subscribe(event.RedemptionCompleted, e.HandleEvent)
	bus.Subscribe(event.RedemptionFailed, e.HandleEvent)
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	payload, err := event.DecodePayload[domain.RedemptionSettledPayload](evt.Payload)
	if err != nil {
		log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type, "error", err)
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		return nil
	}

	method := string(payload.Method)
	RedemptionsSettled.WithLabelValues(method, string(payload.Status), string(payload.FailureKind)).Inc()
	if payload.Status == domain.StatusCompleted {
		RedemptionAmount.WithLabelValues(method).Add(payload.Amount.InexactFloat64())
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
