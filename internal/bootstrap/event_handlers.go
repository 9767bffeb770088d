package bootstrap

import (
	"net/http"

	"github.com/osse101/RedeemBot_Go/internal/config"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/metrics"
	"github.com/osse101/RedeemBot_Go/internal/notify"
	"github.com/osse101/RedeemBot_Go/internal/repository"
	"github.com/osse101/RedeemBot_Go/internal/sse"
)

// EventHandlerDependencies holds what the bus subscribers need
type EventHandlerDependencies struct {
	Events     *EventSystem
	Accounts   repository.Account
	Secrets    notify.SecretOpener
	Config     *config.Config
	HTTPClient *http.Client
}

// RegisterEventHandlers subscribes the metrics collector, the Kafka sink (when
// enabled), the SSE feed and the payout notifier to the terminal redemption
// events. The returned dispatcher must be shut down with the rest of the app.
func RegisterEventHandlers(deps EventHandlerDependencies) *notify.Dispatcher {
	bus := deps.Events.Bus

	metrics.NewEventMetricsCollector().Register(bus)
	logger.Info(LogMsgMetricsCollectorRegistered)

	if deps.Events.Sink != nil {
		deps.Events.Sink.Register(bus)
	}
	sse.NewSubscriber(deps.Events.Hub).Register(bus)

	var sender notify.EmailSender
	if deps.Config.EmailAPIKey != "" {
		sender = notify.NewResendSender(deps.Config.EmailAPIURL, deps.Config.EmailAPIKey, deps.HTTPClient)
	} else {
		logger.Warn(LogMsgEmailSenderLogOnly)
		sender = notify.LogSender{}
	}

	dispatcher := notify.NewDispatcher(deps.Accounts, deps.Secrets, sender, deps.Events.DeadLetter, notify.Config{
		From:     deps.Config.EmailFrom,
		CacheTTL: deps.Config.ContactCacheTTL,
	})
	dispatcher.Register(bus)
	logger.Info(LogMsgNotifierRegistered, "from", deps.Config.EmailFrom)

	return dispatcher
}
