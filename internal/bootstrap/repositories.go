package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/RedeemBot_Go/internal/config"
	"github.com/osse101/RedeemBot_Go/internal/database"
	"github.com/osse101/RedeemBot_Go/internal/database/memory"
	"github.com/osse101/RedeemBot_Go/internal/database/postgres"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/repository"
)

// Repositories holds the storage the engine runs against. Both backends
// satisfy every interface; Pool is nil on the memory backend and Memory is
// nil on postgres.
type Repositories struct {
	Redemption repository.Redemption
	Inventory  repository.Inventory
	Security   repository.Security
	Account    repository.Account

	Pool   *pgxpool.Pool
	Memory *memory.Store
}

// InitializeRepositories opens the configured backend. For postgres it
// connects, applies pending migrations and builds the repositories.
func InitializeRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	if cfg.StorageBackend == config.StorageMemory {
		logger.Warn(LogMsgStorageMemory)
		return NewMemoryRepositories(memory.NewStore()), nil
	}

	pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}

	logger.Info(LogMsgStoragePostgres, "host", cfg.DBHost, "db", cfg.DBName)
	return NewPostgresRepositories(pool), nil
}

// NewPostgresRepositories builds every repository on one pool
func NewPostgresRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Redemption: postgres.NewRedemptionRepository(pool),
		Inventory:  postgres.NewInventoryRepository(pool),
		Security:   postgres.NewSecurityRepository(pool),
		Account:    postgres.NewAccountRepository(pool),
		Pool:       pool,
	}
}

// NewMemoryRepositories serves every repository from one in-memory store
func NewMemoryRepositories(store *memory.Store) *Repositories {
	return &Repositories{
		Redemption: store,
		Inventory:  store,
		Security:   store,
		Account:    store,
		Memory:     store,
	}
}

// Close releases the database pool, if any
func (r *Repositories) Close() {
	if r.Pool != nil {
		r.Pool.Close()
	}
}
