package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/event"
)

func TestEventMetricsCollector_CountsTerminalTransitions(t *testing.T) {
	bus := event.NewMemoryBus()
	NewEventMetricsCollector().Register(bus)

	completed := RedemptionsSettled.WithLabelValues(string(domain.MethodCard), string(domain.StatusCompleted), "")
	failed := RedemptionsSettled.WithLabelValues(string(domain.MethodCard), string(domain.StatusFailed), string(domain.FailureInventoryUnavailable))
	amount := RedemptionAmount.WithLabelValues(string(domain.MethodCard))

	beforeCompleted := testutil.ToFloat64(completed)
	beforeFailed := testutil.ToFloat64(failed)
	beforeAmount := testutil.ToFloat64(amount)

	base := domain.RedemptionSettledPayload{
		RequestID: "req-metrics",
		AccountID: uuid.New(),
		Method:    domain.MethodCard,
		Amount:    decimal.RequireFromString("12.50"),
	}

	ok := base
	ok.Status = domain.StatusCompleted
	require.NoError(t, bus.Publish(context.Background(), event.NewRedemptionSettledEvent(ok, "test")))

	bad := base
	bad.Status = domain.StatusFailed
	bad.FailureKind = domain.FailureInventoryUnavailable
	require.NoError(t, bus.Publish(context.Background(), event.NewRedemptionSettledEvent(bad, "test")))

	assert.Equal(t, beforeCompleted+1, testutil.ToFloat64(completed))
	assert.Equal(t, beforeFailed+1, testutil.ToFloat64(failed))
	assert.InDelta(t, beforeAmount+12.5, testutil.ToFloat64(amount), 0.0001)
}

func TestEventMetricsCollector_UnexpectedPayload(t *testing.T) {
	errs := EventHandlerErrors.WithLabelValues(string(event.RedemptionFailed))
	before := testutil.ToFloat64(errs)

	err := NewEventMetricsCollector().HandleEvent(context.Background(), event.Event{
		Type:    event.RedemptionFailed,
		Payload: "not a payload",
	})
	assert.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(errs))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/v1/redemptions/{requestID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/redemptions/{requestID}", "404")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/redemptions/abc-123", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
