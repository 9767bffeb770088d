package bootstrap

import (
	"context"

	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/server"
)

// ShutdownComponents holds everything that needs a graceful stop. Nil
// members are skipped.
type ShutdownComponents struct {
	Server       *server.Server
	Engine       shutdownable
	Notifier     shutdownable
	Events       *EventSystem
	Repositories *Repositories
}

type shutdownable interface {
	Shutdown(context.Context) error
}

// GracefulShutdown stops components in dependency order:
//  1. SSE hub, ending long-lived streams, then the HTTP server so no new
//     wake-ups arrive
//  2. settlement engine, letting in-flight attempts commit and publish
//  3. notifier, waiting for emails already handed off
//  4. Kafka sink, flushing queued events
//  5. dead-letter file and database pool
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	// open streams would hold server shutdown until ctx expires
	if c.Events != nil && c.Events.Hub != nil {
		c.Events.Hub.Stop()
	}

	if c.Server != nil {
		logger.Info(LogMsgShuttingDownServer)
		if err := c.Server.Stop(ctx); err != nil {
			logger.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Engine != nil {
		logger.Info(LogMsgShuttingDownEngine)
		shutdownComponent(ctx, ComponentEngine, c.Engine)
	}

	if c.Notifier != nil {
		logger.Info(LogMsgShuttingDownNotifier)
		shutdownComponent(ctx, ComponentNotifier, c.Notifier)
	}

	if c.Events != nil {
		if c.Events.Sink != nil {
			logger.Info(LogMsgShuttingDownEventExport)
			shutdownComponent(ctx, ComponentEventSink, c.Events.Sink)
		}
		if err := c.Events.DeadLetter.Close(); err != nil {
			logger.Error(ComponentDeadLetter+LogMsgComponentShutdownFailed, "error", err)
		}
	}

	if c.Repositories != nil {
		c.Repositories.Close()
	}

	logger.Info(LogMsgServerStopped)
}

func shutdownComponent(ctx context.Context, name string, s shutdownable) {
	if err := s.Shutdown(ctx); err != nil {
		logger.Error(name+LogMsgComponentShutdownFailed, "error", err)
	}
}
