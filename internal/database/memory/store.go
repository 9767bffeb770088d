// Package memory is a single-process store for development and tests. Every
// operation runs under one lock, so each conditional transition is atomic the
// same way the Postgres conditional UPDATEs are.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/repository"
)

type account struct {
	email    string
	sessions []repository.SessionInfo
	flags    []string
}

// Store implements the redemption, inventory, security and account repositories
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	requests map[string]*domain.RedemptionRequest
	accounts map[uuid.UUID]*account

	cards       []*domain.PrepaidCard
	codes       []*domain.GameCode
	codeClaims  map[string]uuid.UUID // request id -> code id
	cardClaims  map[string]uuid.UUID // request id -> card id
	claimCounts map[string]int       // request id -> inventory claims made
}

var (
	_ repository.Redemption = (*Store)(nil)
	_ repository.Inventory  = (*Store)(nil)
	_ repository.Security   = (*Store)(nil)
	_ repository.Account    = (*Store)(nil)
)

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		now:         time.Now,
		requests:    make(map[string]*domain.RedemptionRequest),
		accounts:    make(map[uuid.UUID]*account),
		codeClaims:  make(map[string]uuid.UUID),
		cardClaims:  make(map[string]uuid.UUID),
		claimCounts: make(map[string]int),
	}
}

// SetClock overrides the time source
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// ============================================================================
// Accounts and security signals
// ============================================================================

func (s *Store) accountLocked(id uuid.UUID) *account {
	a, ok := s.accounts[id]
	if !ok {
		a = &account{}
		s.accounts[id] = a
	}
	return a
}

// AddAccount registers an account with an optional contact email
func (s *Store) AddAccount(id uuid.UUID, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountLocked(id).email = email
}

// AddSession records a login session. CreatedAt defaults to now.
func (s *Store) AddSession(accountID uuid.UUID, session repository.SessionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now()
	}
	a := s.accountLocked(accountID)
	a.sessions = append(a.sessions, session)
}

// AddRiskFlag raises an active risk flag on the account
func (s *Store) AddRiskFlag(accountID uuid.UUID, flag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accountLocked(accountID)
	a.flags = append(a.flags, flag)
}

func (s *Store) RecentSessions(_ context.Context, accountID uuid.UUID, n int) ([]repository.SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, nil
	}
	sessions := append([]repository.SessionInfo(nil), a.sessions...)
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].CreatedAt.After(sessions[j].CreatedAt) })
	if len(sessions) > n {
		sessions = sessions[:n]
	}
	return sessions, nil
}

func (s *Store) WithdrawnSince(_ context.Context, accountID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, r := range s.requests {
		if r.AccountID == accountID && r.Status != domain.StatusFailed && !r.CreatedAt.Before(since) {
			total = total.Add(r.Amount)
		}
	}
	return total, nil
}

func (s *Store) ActiveRiskFlags(_ context.Context, accountID uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), a.flags...), nil
}

func (s *Store) GetContactEmail(_ context.Context, accountID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return "", domain.ErrAccountNotFound
	}
	if a.email == "" {
		return "", domain.ErrNoContact
	}
	return a.email, nil
}

// ============================================================================
// Redemption requests
// ============================================================================

func (s *Store) Create(_ context.Context, req *domain.RedemptionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[req.RequestID]; exists {
		return fmt.Errorf("%w: duplicate request id %q", domain.ErrInvalidInput, req.RequestID)
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = domain.StatusPending
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = s.now()
	}
	stored := *req
	s.requests[req.RequestID] = &stored
	return nil
}

func (s *Store) GetByRequestID(_ context.Context, requestID string) (*domain.RedemptionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	out := *r
	return &out, nil
}

func (s *Store) ListPendingIDs(_ context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []*domain.RedemptionRequest
	for _, r := range s.requests {
		if r.Status == domain.StatusPending {
			pending = append(pending, r)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].RequestID < pending[j].RequestID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	ids := make([]string, 0, len(pending))
	for _, r := range pending {
		if limit > 0 && len(ids) >= limit {
			break
		}
		ids = append(ids, r.RequestID)
	}
	return ids, nil
}

func (s *Store) ClaimForProcessing(_ context.Context, requestID, instanceID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok || r.Status != domain.StatusPending {
		return false, nil
	}
	now := s.now()
	r.Status = domain.StatusProcessing
	r.ClaimedBy = instanceID
	r.ClaimedAt = &now
	return true, nil
}

func (s *Store) CompleteRequest(_ context.Context, requestID, reason string) (bool, error) {
	return s.commitTerminal(requestID, domain.StatusCompleted, reason), nil
}

func (s *Store) FailRequest(_ context.Context, requestID, reason string) (bool, error) {
	return s.commitTerminal(requestID, domain.StatusFailed, reason), nil
}

func (s *Store) commitTerminal(requestID string, to domain.RedemptionStatus, reason string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok || r.Status != domain.StatusProcessing {
		return false
	}
	now := s.now()
	r.Status = to
	r.StatusReason = reason
	r.CompletedAt = &now
	return true
}

func (s *Store) ListStaleProcessing(_ context.Context, cutoff time.Time) ([]domain.RedemptionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.RedemptionRequest{}
	for _, r := range s.requests {
		if r.Status == domain.StatusProcessing && r.ClaimedAt != nil && r.ClaimedAt.Before(cutoff) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClaimedAt.Before(*out[j].ClaimedAt) })
	return out, nil
}

func (s *Store) ListByAccount(_ context.Context, filter domain.RedemptionFilter) ([]domain.RedemptionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.RedemptionRequest{}
	for _, r := range s.requests {
		if r.AccountID != filter.AccountID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].RequestID > out[j].RequestID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && uint64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// ============================================================================
// Inventory
// ============================================================================

func (s *Store) usable(expiresAt *time.Time) bool {
	return expiresAt == nil || expiresAt.After(s.now())
}

// ClaimCard returns the card already held by the request when called again
// for the same request id
func (s *Store) ClaimCard(_ context.Context, claim domain.CardClaim) (*domain.PrepaidCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.cardClaims[claim.RequestID]; ok {
		for _, c := range s.cards {
			if c.ID == id {
				out := *c
				return &out, nil
			}
		}
	}

	var chosen *domain.PrepaidCard
	for _, c := range s.cards {
		if c.Status != domain.InventoryAvailable || !c.Value.Equal(claim.Value) || !s.usable(c.ExpiresAt) {
			continue
		}
		if chosen == nil || c.CreatedAt.Before(chosen.CreatedAt) {
			chosen = c
		}
	}
	if chosen == nil {
		return nil, domain.ErrInventoryUnavailable
	}

	now := s.now()
	account := claim.AccountID
	chosen.Status = domain.InventoryClaimed
	chosen.AssignedTo = &account
	chosen.AssignedRequestID = claim.RequestID
	chosen.ClaimedAt = &now
	s.cardClaims[claim.RequestID] = chosen.ID
	s.claimCounts[claim.RequestID]++

	out := *chosen
	return &out, nil
}

// ClaimGameCode takes one use of the smallest covering code. A repeated call
// for the same request id returns the code it already holds.
func (s *Store) ClaimGameCode(_ context.Context, claim domain.GameCodeClaim) (*domain.GameCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.codeClaims[claim.RequestID]; ok {
		for _, c := range s.codes {
			if c.ID == id {
				out := *c
				return &out, nil
			}
		}
	}

	var chosen *domain.GameCode
	for _, c := range s.codes {
		if c.Status != domain.InventoryAvailable || c.Exhausted() || c.UnitValue < claim.Units || !s.usable(c.ExpiresAt) {
			continue
		}
		if chosen == nil || c.UnitValue < chosen.UnitValue ||
			(c.UnitValue == chosen.UnitValue && c.CreatedAt.Before(chosen.CreatedAt)) {
			chosen = c
		}
	}
	if chosen == nil {
		return nil, domain.ErrInventoryUnavailable
	}

	now := s.now()
	account := claim.AccountID
	chosen.UsesCount++
	if chosen.Exhausted() {
		chosen.Status = domain.InventoryClaimed
	}
	chosen.AssignedTo = &account
	chosen.ClaimedAt = &now
	s.codeClaims[claim.RequestID] = chosen.ID
	s.claimCounts[claim.RequestID]++

	out := *chosen
	return &out, nil
}

func (s *Store) AddCard(_ context.Context, card *domain.PrepaidCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	if card.Status == "" {
		card.Status = domain.InventoryAvailable
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = s.now()
	}
	stored := *card
	s.cards = append(s.cards, &stored)
	return nil
}

func (s *Store) AddGameCode(_ context.Context, code *domain.GameCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	if code.MaxUses < 1 {
		code.MaxUses = 1
	}
	if code.Status == "" {
		code.Status = domain.InventoryAvailable
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = s.now()
	}
	stored := *code
	s.codes = append(s.codes, &stored)
	return nil
}

func (s *Store) CountAvailableCards(_ context.Context, value decimal.Decimal) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.cards {
		if c.Status == domain.InventoryAvailable && c.Value.Equal(value) && s.usable(c.ExpiresAt) {
			n++
		}
	}
	return n, nil
}

// InventoryClaims reports how many inventory items were handed to a request
func (s *Store) InventoryClaims(requestID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claimCounts[requestID]
}

// Cards returns a snapshot of every stocked card
func (s *Store) Cards() []domain.PrepaidCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PrepaidCard, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, *c)
	}
	return out
}

// GameCodes returns a snapshot of every stocked code
func (s *Store) GameCodes() []domain.GameCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.GameCode, 0, len(s.codes))
	for _, c := range s.codes {
		out = append(out, *c)
	}
	return out
}
