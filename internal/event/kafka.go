package event

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/osse101/RedeemBot_Go/internal/logger"
)

// ErrSinkQueueFull is recorded when the sink cannot accept another event
var ErrSinkQueueFull = errors.New("kafka sink queue full")

// MessageWriter is the subset of *kafka.Writer the sink needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSinkConfig configures a KafkaSink
type KafkaSinkConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	QueueSize   int
}

func (c *KafkaSinkConfig) applyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = SinkMaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = SinkBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = SinkMaxDelay
	}
	if c.QueueSize <= 0 {
		c.QueueSize = SinkQueueBufferSize
	}
}

// KafkaSink forwards redacted redemption events to a Kafka topic. Handle only
// enqueues, so a slow broker never holds up the publisher. Messages that
// exhaust their retries go to the dead-letter sink.
type KafkaSink struct {
	writer     MessageWriter
	deadLetter DeadLetterSink
	cfg        KafkaSinkConfig

	queue  chan Event
	done   chan struct{}
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
}

// NewKafkaWriter builds a kafka.Writer for the given brokers and topic
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: SinkWriteTimeout,
	}
}

// NewKafkaSink creates a sink and starts its delivery goroutine
func NewKafkaSink(writer MessageWriter, deadLetter DeadLetterSink, cfg KafkaSinkConfig) *KafkaSink {
	cfg.applyDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	s := &KafkaSink{
		writer:     writer,
		deadLetter: deadLetter,
		cfg:        cfg,
		queue:      make(chan Event, cfg.QueueSize),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Register subscribes the sink to both terminal redemption events
func (s *KafkaSink) Register(bus Bus) {
	bus.Subscribe(RedemptionCompleted, s.Handle)
	bus.Subscribe(RedemptionFailed, s.Handle)
}

// Handle queues the redacted event for delivery
func (s *KafkaSink) Handle(ctx context.Context, evt Event) error {
	evt = evt.Redacted()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		logger.FromContext(ctx).Warn(LogMsgSinkDroppedShutdown, "event_type", evt.Type)
		s.toDeadLetter(evt, 0, context.Canceled)
		return nil
	}

	select {
	case s.queue <- evt:
	default:
		logger.FromContext(ctx).Warn(LogMsgSinkQueueFull, "event_type", evt.Type)
		s.toDeadLetter(evt, 0, ErrSinkQueueFull)
	}
	return nil
}

func (s *KafkaSink) run() {
	defer s.wg.Done()
	for {
		select {
		case evt := <-s.queue:
			s.deliver(evt)
		case <-s.done:
			// drain what was accepted before shutdown
			for {
				select {
				case evt := <-s.queue:
					s.deliver(evt)
				default:
					return
				}
			}
		}
	}
}

func (s *KafkaSink) deliver(evt Event) {
	log := logger.FromContext(s.ctx)

	msg, err := toMessage(evt)
	if err != nil {
		log.Error(LogMsgSinkMarshalFailed, "event_type", evt.Type, "error", err)
		s.toDeadLetter(evt, 0, err)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		lastErr = s.writer.WriteMessages(s.ctx, msg)
		if lastErr == nil {
			if attempt > 1 {
				log.Info(LogMsgSinkRetrySucceeded, "event_type", evt.Type, "attempt", attempt)
			}
			return
		}
		if attempt == s.cfg.MaxAttempts {
			break
		}

		delay := CalculateRetryDelay(s.cfg.BaseDelay, attempt, s.cfg.MaxDelay)
		log.Warn(LogMsgSinkRetry, "event_type", evt.Type, "attempt", attempt, "delay", delay, "error", lastErr)

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			s.toDeadLetter(evt, attempt, s.ctx.Err())
			return
		}
	}

	log.Error(LogMsgSinkRetryExhausted, "event_type", evt.Type, "attempts", s.cfg.MaxAttempts, "error", lastErr)
	s.toDeadLetter(evt, s.cfg.MaxAttempts, lastErr)
}

func (s *KafkaSink) toDeadLetter(evt Event, attempts int, cause error) {
	if s.deadLetter == nil {
		return
	}
	if err := s.deadLetter.Write(evt, attempts, cause); err != nil {
		logger.Error(LogMsgDeadLetterWriteFail, "event_type", evt.Type, "error", err)
	}
}

// Shutdown stops accepting events, drains the queue and closes the writer.
// When ctx expires first, in-flight retries are cancelled.
func (s *KafkaSink) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	s.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()

	var err error
	select {
	case <-finished:
	case <-ctx.Done():
		logger.Warn(LogMsgSinkShutdownTimeout)
		s.cancel()
		<-finished
		err = ctx.Err()
	}
	s.cancel()

	if cerr := s.writer.Close(); cerr != nil {
		logger.Warn(LogMsgSinkWriterCloseError, "error", cerr)
	}
	return err
}

// toMessage keys by request id so a request's events stay on one partition
func toMessage(evt Event) (kafka.Message, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, err
	}
	msg := kafka.Message{
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
			{Key: "schema_version", Value: []byte(evt.Version)},
		},
	}
	if p, err := DecodePayload[redemptionKey](evt.Payload); err == nil && p.RequestID != "" {
		msg.Key = []byte(p.RequestID)
	}
	return msg, nil
}

type redemptionKey struct {
	RequestID string `json:"request_id"`
}
