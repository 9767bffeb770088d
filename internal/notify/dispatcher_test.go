package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RedeemBot_Go/internal/crypto"
	"github.com/osse101/RedeemBot_Go/internal/database/memory"
	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/event"
)

type recordingSender struct {
	mu     sync.Mutex
	emails []Email
	err    error
}

func (s *recordingSender) Send(_ context.Context, email Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.emails = append(s.emails, email)
	return nil
}

func (s *recordingSender) sent() []Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Email(nil), s.emails...)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// MockAccount is a testify mock of repository.Account
type MockAccount struct {
	mock.Mock
}

func (m *MockAccount) GetContactEmail(ctx context.Context, accountID uuid.UUID) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}

func testKeyring(t *testing.T) *crypto.Keyring {
	t.Helper()
	k, err := crypto.NewKeyring(map[string][]byte{"k1": bytes.Repeat([]byte{7}, crypto.KeySize)}, "k1")
	require.NoError(t, err)
	return k
}

type fixture struct {
	store      *memory.Store
	keys       *crypto.Keyring
	sender     *recordingSender
	deadLetter *syncBuffer
	dispatcher *Dispatcher
	bus        *event.MemoryBus
	account    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:      memory.NewStore(),
		keys:       testKeyring(t),
		sender:     &recordingSender{},
		deadLetter: &syncBuffer{},
		bus:        event.NewMemoryBus(),
		account:    uuid.New(),
	}
	f.store.AddAccount(f.account, "winner@example.com")
	f.dispatcher = NewDispatcher(f.store, f.keys, f.sender, event.NewDeadLetterWriterTo(f.deadLetter), Config{From: "payouts@example.com"})
	f.dispatcher.Register(f.bus)
	return f
}

func (f *fixture) publish(t *testing.T, method domain.PayoutMethod, amount string, details *domain.PayoutDetails) {
	t.Helper()
	evt := event.NewRedemptionSettledEvent(domain.RedemptionSettledPayload{
		RequestID: "req-42",
		AccountID: f.account,
		Method:    method,
		Amount:    decimal.RequireFromString(amount),
		Status:    domain.StatusCompleted,
		SettledAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Details:   details,
	}, "host-1")
	require.NoError(t, f.bus.Publish(context.Background(), evt))
	require.NoError(t, f.dispatcher.Shutdown(context.Background()))
}

func (f *fixture) sealCard(t *testing.T) domain.SealedSecret {
	t.Helper()
	plain, err := json.Marshal(domain.CardPayload{Number: "4111111111114242", Expiry: "12/29", CVV: "123"})
	require.NoError(t, err)
	secret, err := f.keys.Seal(plain)
	require.NoError(t, err)
	return secret
}

func TestDispatcher_CardEmail(t *testing.T) {
	f := newFixture(t)
	f.publish(t, domain.MethodCard, "10", &domain.PayoutDetails{
		Method:  domain.MethodCard,
		Secret:  f.sealCard(t),
		Last4:   "4242",
		Country: "EG",
	})

	emails := f.sender.sent()
	require.Len(t, emails, 1)
	email := emails[0]
	assert.Equal(t, []string{"winner@example.com"}, email.To)
	assert.Equal(t, "payouts@example.com", email.From)
	assert.Equal(t, SubjectCard, email.Subject)
	assert.Contains(t, email.HTML, "4111111111114242")
	assert.Contains(t, email.HTML, "12/29")
	assert.Contains(t, email.HTML, "123")
	assert.Contains(t, email.HTML, "$10.00")
	assert.Contains(t, email.HTML, "EG")
	assert.Empty(t, f.deadLetter.String())
}

func TestDispatcher_GameCodeEmail(t *testing.T) {
	f := newFixture(t)
	secret, err := f.keys.SealString("FF-ABCD-1234")
	require.NoError(t, err)
	f.publish(t, domain.MethodGameCode, "10", &domain.PayoutDetails{
		Method: domain.MethodGameCode,
		Secret: secret,
		Units:  1100,
	})

	emails := f.sender.sent()
	require.Len(t, emails, 1)
	assert.Equal(t, SubjectGameCode, emails[0].Subject)
	assert.Contains(t, emails[0].HTML, "FF-ABCD-1234")
	assert.Contains(t, emails[0].HTML, "1,100")
	assert.Contains(t, emails[0].HTML, "Game Code")
}

func TestDispatcher_CashRailEmail(t *testing.T) {
	f := newFixture(t)
	f.publish(t, domain.MethodCashRail, "25.5", &domain.PayoutDetails{
		Method:           domain.MethodCashRail,
		GatewayReference: "FWR-998877",
	})

	emails := f.sender.sent()
	require.Len(t, emails, 1)
	assert.Equal(t, SubjectCashRail, emails[0].Subject)
	assert.Contains(t, emails[0].HTML, "FWR-998877")
	assert.Contains(t, emails[0].HTML, "$25.50")
}

func TestDispatcher_NoContactIsDeadLettered(t *testing.T) {
	f := newFixture(t)
	f.account = uuid.New() // unknown account
	f.publish(t, domain.MethodCard, "10", &domain.PayoutDetails{Method: domain.MethodCard, Secret: f.sealCard(t)})

	assert.Empty(t, f.sender.sent())
	dl := f.deadLetter.String()
	assert.Contains(t, dl, domain.ErrMsgAccountNotFound)
	assert.Contains(t, dl, "req-42")
	assert.NotContains(t, dl, "4111111111114242")
}

func TestDispatcher_SenderFailureIsDeadLettered(t *testing.T) {
	f := newFixture(t)
	f.sender.err = errors.New("email API returned HTTP 503")
	f.publish(t, domain.MethodCard, "10", &domain.PayoutDetails{Method: domain.MethodCard, Secret: f.sealCard(t)})

	lines := strings.Split(strings.TrimSpace(f.deadLetter.String()), "\n")
	require.Len(t, lines, 1)
	var entry event.DeadLetterEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Contains(t, entry.LastError, "HTTP 503")
	assert.NotContains(t, lines[0], "4111111111114242")
	assert.NotContains(t, lines[0], "key_id", "details never reach the dead-letter file")
}

func TestDispatcher_UnknownKeyIsDeadLettered(t *testing.T) {
	f := newFixture(t)
	secret := f.sealCard(t)
	secret.KeyID = "retired"
	f.publish(t, domain.MethodCard, "10", &domain.PayoutDetails{Method: domain.MethodCard, Secret: secret})

	assert.Empty(t, f.sender.sent())
	assert.Contains(t, f.deadLetter.String(), domain.ErrMsgUnknownKey)
}

func TestDispatcher_IgnoresEventsWithoutDetails(t *testing.T) {
	f := newFixture(t)
	f.publish(t, domain.MethodCard, "10", nil)

	assert.Empty(t, f.sender.sent())
	assert.Empty(t, f.deadLetter.String())
}

func TestDispatcher_AfterShutdown(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.dispatcher.Shutdown(context.Background()))

	f.publish(t, domain.MethodCard, "10", &domain.PayoutDetails{Method: domain.MethodCard, Secret: f.sealCard(t)})

	assert.Empty(t, f.sender.sent())
	assert.Contains(t, f.deadLetter.String(), ErrMsgDispatcherStopped)
}

func TestDispatcher_ShutdownWaitsForInFlightSends(t *testing.T) {
	f := newFixture(t)
	release := make(chan struct{})
	blocking := &blockingSender{release: release}
	f.dispatcher.sender = blocking

	evt := event.NewRedemptionSettledEvent(domain.RedemptionSettledPayload{
		RequestID: "req-1",
		AccountID: f.account,
		Method:    domain.MethodCashRail,
		Amount:    decimal.NewFromInt(5),
		Status:    domain.StatusCompleted,
		Details:   &domain.PayoutDetails{Method: domain.MethodCashRail},
	}, "host-1")
	require.NoError(t, f.bus.Publish(context.Background(), evt))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, f.dispatcher.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, f.dispatcher.Shutdown(context.Background()))
	assert.Equal(t, 1, blocking.count())
}

type blockingSender struct {
	release chan struct{}
	mu      sync.Mutex
	n       int
}

func (s *blockingSender) Send(ctx context.Context, _ Email) error {
	<-s.release
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return nil
}

func (s *blockingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func TestContactCache(t *testing.T) {
	accounts := new(MockAccount)
	id := uuid.New()
	accounts.On("GetContactEmail", mock.Anything, id).Return("a@example.com", nil).Once()
	missing := uuid.New()
	accounts.On("GetContactEmail", mock.Anything, missing).Return("", domain.ErrNoContact).Twice()

	cache := newContactCache(accounts, 10, time.Minute)
	for i := 0; i < 3; i++ {
		email, err := cache.Email(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", email)
	}

	for i := 0; i < 2; i++ {
		_, err := cache.Email(context.Background(), missing)
		assert.ErrorIs(t, err, domain.ErrNoContact)
	}
	accounts.AssertExpectations(t)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$1,234.50", formatAmount(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$0.99", formatAmount(decimal.RequireFromString("0.99")))
	assert.Equal(t, "1,100", formatUnits(1100))
	assert.Equal(t, "Game Code", methodName(domain.MethodGameCode))
	assert.Equal(t, "Card", methodName(domain.MethodCard))
}

func TestTemplates_EscapeHTML(t *testing.T) {
	tmpl := parseTemplates()
	_, html, err := tmpl.render(domain.MethodGameCode, emailData{Code: "<script>x</script>", Units: "1"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")

	_, _, err = tmpl.render(domain.MethodUnsupported, emailData{})
	assert.Error(t, err)
}
