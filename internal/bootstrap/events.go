package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/osse101/RedeemBot_Go/internal/config"
	"github.com/osse101/RedeemBot_Go/internal/event"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/sse"
)

// EventSystem is the in-process bus plus the outbound paths hanging off it.
// Sink is nil when Kafka export is not configured.
type EventSystem struct {
	Bus        *event.MemoryBus
	DeadLetter *event.DeadLetterWriter
	Sink       *event.KafkaSink
	Hub        *sse.Hub
}

// InitializeEventSystem creates the bus, opens the dead-letter file and,
// when brokers are configured, starts the Kafka sink.
func InitializeEventSystem(cfg *config.Config) (*EventSystem, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DeadLetterPath), DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateDeadLetterDir, err)
	}
	deadLetter, err := event.NewDeadLetterWriter(cfg.DeadLetterPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenDeadLetter, err)
	}

	sys := &EventSystem{
		Bus:        event.NewMemoryBus(),
		DeadLetter: deadLetter,
		Hub:        sse.NewHub(),
	}
	sys.Hub.Start()

	if len(cfg.KafkaBrokers) > 0 {
		writer := event.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		sys.Sink = event.NewKafkaSink(writer, deadLetter, event.KafkaSinkConfig{})
		logger.Info(LogMsgKafkaSinkEnabled, "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info(LogMsgKafkaSinkDisabled)
	}

	logger.Info(LogMsgEventSystemInitialized, "deadletter_path", cfg.DeadLetterPath)
	return sys, nil
}
