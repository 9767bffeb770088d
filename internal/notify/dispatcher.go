// Package notify emails payout details to the account holder after a request
// completes. Delivery is best-effort and never affects settlement.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/event"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/metrics"
	"github.com/osse101/RedeemBot_Go/internal/repository"
)

// ErrDispatcherStopped is recorded for events that arrive after Shutdown
var ErrDispatcherStopped = errors.New(ErrMsgDispatcherStopped)

// SecretOpener decrypts sealed inventory secrets; *crypto.Keyring satisfies it
type SecretOpener interface {
	Open(secret domain.SealedSecret) ([]byte, error)
}

// Config configures a Dispatcher
type Config struct {
	From      string
	CacheSize int
	CacheTTL  time.Duration
}

// Dispatcher listens for completed redemptions and sends one email per event
// in its own goroutine.
type Dispatcher struct {
	contacts   *contactCache
	secrets    SecretOpener
	sender     EmailSender
	deadLetter event.DeadLetterSink
	templates  templates
	from       string

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher wires a dispatcher. deadLetter may be nil.
func NewDispatcher(accounts repository.Account, secrets SecretOpener, sender EmailSender, deadLetter event.DeadLetterSink, cfg Config) *Dispatcher {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultContactCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultContactCacheTTL
	}
	return &Dispatcher{
		contacts:   newContactCache(accounts, cfg.CacheSize, cfg.CacheTTL),
		secrets:    secrets,
		sender:     sender,
		deadLetter: deadLetter,
		templates:  parseTemplates(),
		from:       cfg.From,
	}
}

// Register subscribes the dispatcher to completed redemptions
func (d *Dispatcher) Register(bus event.Bus) {
	bus.Subscribe(event.RedemptionCompleted, d.Handle)
}

// Handle starts delivery and returns immediately. It never returns an error so
// a notification problem can't surface as a publish failure.
func (d *Dispatcher) Handle(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := event.DecodePayload[domain.RedemptionSettledPayload](evt.Payload)
	if err != nil {
		log.Warn(LogMsgPayloadInvalid, "error", err)
		return nil
	}
	if payload.Details == nil {
		log.Warn(LogMsgNoDetails, "request_id", payload.RequestID)
		metrics.Notifications.WithLabelValues(string(payload.Method), metrics.ResultSkipped).Inc()
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Warn(LogMsgDispatcherStopped, "request_id", payload.RequestID)
		d.fail(ctx, evt, payload, ErrDispatcherStopped)
		return nil
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(context.WithoutCancel(ctx), evt, payload)
	}()
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, evt event.Event, payload domain.RedemptionSettledPayload) {
	ctx = logger.WithRequestID(ctx, payload.RequestID)
	log := logger.FromContext(ctx)

	if err := d.Send(ctx, payload); err != nil {
		d.fail(ctx, evt, payload, err)
		return
	}
	metrics.Notifications.WithLabelValues(string(payload.Method), metrics.ResultSent).Inc()
	log.Info(LogMsgNotificationSent, "method", payload.Method)
}

// Send builds and sends the email for one completed payload synchronously
func (d *Dispatcher) Send(ctx context.Context, payload domain.RedemptionSettledPayload) error {
	to, err := d.contacts.Email(ctx, payload.AccountID)
	if err != nil {
		return fmt.Errorf(ErrFmtContactLookup, err)
	}

	data, err := d.emailData(payload)
	if err != nil {
		return err
	}
	subject, html, err := d.templates.render(payload.Method, data)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, DefaultSendTimeout)
	defer cancel()
	if err := d.sender.Send(sendCtx, Email{From: d.from, To: []string{to}, Subject: subject, HTML: html}); err != nil {
		return fmt.Errorf(ErrFmtSendEmail, err)
	}
	return nil
}

// emailData opens the sealed secret at the last moment; plaintext lives only
// in the rendered email
func (d *Dispatcher) emailData(p domain.RedemptionSettledPayload) (emailData, error) {
	det := p.Details
	data := emailData{
		RequestID: p.RequestID,
		Method:    methodName(p.Method),
		Amount:    formatAmount(p.Amount),
		SettledAt: p.SettledAt.UTC().Format(time.RFC1123),
		Last4:     det.Last4,
		Country:   det.Country,
		ExpiresAt: formatDate(det.ExpiresAt),
		Reference: det.GatewayReference,
	}

	switch p.Method {
	case domain.MethodCard:
		plain, err := d.secrets.Open(det.Secret)
		if err != nil {
			return emailData{}, fmt.Errorf(ErrFmtOpenSecret, err)
		}
		var card domain.CardPayload
		if err := json.Unmarshal(plain, &card); err != nil {
			return emailData{}, fmt.Errorf(ErrFmtDecodeCardPayload, err)
		}
		data.Card = &card
	case domain.MethodGameCode:
		plain, err := d.secrets.Open(det.Secret)
		if err != nil {
			return emailData{}, fmt.Errorf(ErrFmtOpenSecret, err)
		}
		data.Code = string(plain)
		data.Units = formatUnits(det.Units)
	}
	return data, nil
}

// fail logs, counts and dead-letters a notification that will not be sent.
// Missing contacts count as skipped rather than failed.
func (d *Dispatcher) fail(ctx context.Context, evt event.Event, p domain.RedemptionSettledPayload, cause error) {
	result := metrics.ResultFailed
	if errors.Is(cause, domain.ErrNoContact) || errors.Is(cause, domain.ErrAccountNotFound) {
		result = metrics.ResultSkipped
		logger.FromContext(ctx).Warn(LogMsgNotificationSkipped, "method", p.Method, "error", cause)
	} else {
		logger.FromContext(ctx).Error(LogMsgNotificationFailed, "method", p.Method, "error", cause)
	}
	metrics.Notifications.WithLabelValues(string(p.Method), result).Inc()

	if d.deadLetter == nil {
		return
	}
	if err := d.deadLetter.Write(evt.Redacted(), 1, cause); err != nil {
		logger.FromContext(ctx).Error(LogMsgDeadLetterFailed, "error", err)
	}
}

// Shutdown stops accepting events and waits for in-flight sends
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
