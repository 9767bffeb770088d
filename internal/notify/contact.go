package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/RedeemBot_Go/internal/repository"
)

// contactCache remembers account email addresses for a short while. Misses
// and lookup errors are never cached.
type contactCache struct {
	accounts repository.Account
	lru      *expirable.LRU[uuid.UUID, string]
}

func newContactCache(accounts repository.Account, size int, ttl time.Duration) *contactCache {
	return &contactCache{
		accounts: accounts,
		lru:      expirable.NewLRU[uuid.UUID, string](size, nil, ttl),
	}
}

// Email returns the account's contact address
func (c *contactCache) Email(ctx context.Context, accountID uuid.UUID) (string, error) {
	if email, ok := c.lru.Get(accountID); ok {
		return email, nil
	}
	email, err := c.accounts.GetContactEmail(ctx, accountID)
	if err != nil {
		return "", err
	}
	c.lru.Add(accountID, email)
	return email, nil
}
