// Package settlement drives redemption requests from pending to a terminal
// status exactly once.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/event"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/metrics"
	"github.com/osse101/RedeemBot_Go/internal/payout"
	"github.com/osse101/RedeemBot_Go/internal/repository"
	"github.com/osse101/RedeemBot_Go/internal/scheduler"
	"github.com/osse101/RedeemBot_Go/internal/worker"
)

// ErrAlreadyStarted is returned by a second call to Start
var ErrAlreadyStarted = errors.New("settlement engine already started")

// Gate decides whether a request may be paid out
type Gate interface {
	Evaluate(ctx context.Context, req *domain.RedemptionRequest) domain.SecurityCheckResult
}

// Config holds the engine settings
type Config struct {
	InstanceID             string
	PollInterval           time.Duration
	Concurrency            int
	QueueSize              int
	ScanBatchSize          int
	StaleAfter             time.Duration
	TerminalCommitAttempts int
	TerminalCommitBackoff  time.Duration
}

func (c *Config) applyDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.ScanBatchSize <= 0 {
		c.ScanBatchSize = DefaultScanBatchSize
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = DefaultStaleAfter
	}
	if c.TerminalCommitAttempts <= 0 {
		c.TerminalCommitAttempts = DefaultTerminalCommitAttempts
	}
	if c.TerminalCommitBackoff <= 0 {
		c.TerminalCommitBackoff = DefaultTerminalCommitBackoff
	}
	if c.InstanceID == "" {
		c.InstanceID = NewInstanceID()
	}
}

// Engine owns the settlement loop: a worker pool that runs settlement
// attempts and a scheduler that rescans for pending requests.
type Engine struct {
	repo    repository.Redemption
	gate    Gate
	payouts payout.Adapter
	bus     event.Bus
	cfg     Config
	now     func() time.Time

	pool   *worker.Pool
	sched  *scheduler.Scheduler
	queued sync.Map // request id -> struct{}, requests waiting in the pool

	started atomic.Bool
}

// NewEngine wires an engine. payouts is usually a *payout.Registry.
func NewEngine(repo repository.Redemption, gate Gate, payouts payout.Adapter, bus event.Bus, cfg Config) *Engine {
	cfg.applyDefaults()
	pool := worker.NewPool(cfg.Concurrency, cfg.QueueSize)
	return &Engine{
		repo:    repo,
		gate:    gate,
		payouts: payouts,
		bus:     bus,
		cfg:     cfg,
		now:     time.Now,
		pool:    pool,
		sched:   scheduler.New(pool),
	}
}

// InstanceID identifies this engine in claimed_by
func (e *Engine) InstanceID() string {
	return e.cfg.InstanceID
}

// Start launches the workers, queues a startup sweep of everything pending and
// begins periodic scans.
func (e *Engine) Start(ctx context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	e.pool.Start()

	if !e.pool.TryEnqueue(worker.JobFunc(e.tick)) {
		logger.FromContext(ctx).Warn(LogMsgStartupSweepSkipped)
	}
	e.sched.Schedule(e.cfg.PollInterval, worker.JobFunc(e.tick))

	logger.FromContext(ctx).Info(LogMsgEngineStarted,
		"instance_id", e.cfg.InstanceID,
		"poll_interval", e.cfg.PollInterval,
		"concurrency", e.cfg.Concurrency)
	return nil
}

// Shutdown stops scheduling, stops accepting new attempts and waits for
// in-flight attempts. Requests still queued stay pending for the next start.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.sched.Stop()
	err := e.pool.Shutdown(ctx)
	logger.FromContext(ctx).Info(LogMsgEngineStopped, "instance_id", e.cfg.InstanceID)
	return err
}

// Wake queues an attempt for one request without blocking. It reports false
// when the queue is full; the periodic scan picks the request up later.
func (e *Engine) Wake(requestID string) bool {
	return e.enqueue(requestID)
}

// TriggerScan queues a full pending scan without blocking
func (e *Engine) TriggerScan() bool {
	return e.pool.TryEnqueue(worker.JobFunc(e.tick))
}

func (e *Engine) tick(ctx context.Context) error {
	if _, err := e.ScanPending(ctx); err != nil {
		return err
	}
	_, err := e.CheckStale(ctx)
	return err
}

// ScanPending queues an attempt for every pending request in one batch and
// returns how many were queued
func (e *Engine) ScanPending(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	ids, err := e.repo.ListPendingIDs(ctx, e.cfg.ScanBatchSize)
	if err != nil {
		log.Error(LogMsgScanFailed, "error", err)
		return 0, fmt.Errorf("list pending: %w", err)
	}

	queued := 0
	for i, id := range ids {
		if !e.tryEnqueue(id) {
			// the rest would hit the same full queue; they stay pending
			metrics.SettlementQueueDropped.Inc()
			log.Warn(LogMsgScanQueueFull, "queued", queued, "remaining", len(ids)-i)
			break
		}
		queued++
	}
	if queued > 0 {
		log.Info(LogMsgScanEnqueued, "found", len(ids), "queued", queued)
	}
	return queued, nil
}

func (e *Engine) enqueue(requestID string) bool {
	if !e.tryEnqueue(requestID) {
		metrics.SettlementQueueDropped.Inc()
		logger.Warn(LogMsgQueueFull, "request_id", requestID)
		return false
	}
	return true
}

// tryEnqueue skips requests already waiting in the pool; the conditional claim
// makes duplicates harmless but they would waste queue slots
func (e *Engine) tryEnqueue(requestID string) bool {
	if _, loaded := e.queued.LoadOrStore(requestID, struct{}{}); loaded {
		return true
	}

	job := worker.JobFunc(func(ctx context.Context) error {
		e.queued.Delete(requestID)
		metrics.SettlementQueueDepth.Set(float64(e.pool.QueueDepth()))
		_, err := e.AttemptSettlement(ctx, requestID)
		return err
	})

	if !e.pool.TryEnqueue(job) {
		e.queued.Delete(requestID)
		return false
	}
	metrics.SettlementQueueDepth.Set(float64(e.pool.QueueDepth()))
	return true
}

// CheckStale logs and counts requests stuck in processing past StaleAfter.
// It never changes their status.
func (e *Engine) CheckStale(ctx context.Context) ([]domain.RedemptionRequest, error) {
	log := logger.FromContext(ctx)

	stale, err := e.ListStale(ctx)
	if err != nil {
		log.Error(LogMsgStaleCheckFailed, "error", err)
		return nil, err
	}
	metrics.StaleProcessing.Set(float64(len(stale)))
	for _, r := range stale {
		log.Warn(LogMsgStaleProcessing,
			"request_id", r.RequestID,
			"claimed_by", r.ClaimedBy,
			"claimed_at", r.ClaimedAt,
			"method", r.Method)
	}
	return stale, nil
}

// ListStale returns processing requests claimed more than StaleAfter ago
func (e *Engine) ListStale(ctx context.Context) ([]domain.RedemptionRequest, error) {
	stale, err := e.repo.ListStaleProcessing(ctx, e.now().Add(-e.cfg.StaleAfter))
	if err != nil {
		return nil, fmt.Errorf("list stale: %w", err)
	}
	return stale, nil
}
