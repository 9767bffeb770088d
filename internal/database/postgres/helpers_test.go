package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/RedeemBot_Go/internal/database"
	"github.com/osse101/RedeemBot_Go/internal/domain"
)

var (
	testDBConnString  string
	testPool          *pgxpool.Pool
	migrationsApplied bool
	migrationsMux     sync.Mutex
)

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		testDBConnString, terminate = setupContainer(context.Background())
		if testDBConnString != "" {
			pool, err := database.NewPool(testDBConnString, 20, time.Minute, 5*time.Minute)
			if err != nil {
				fmt.Printf("WARNING: Failed to connect to test database: %v\n", err)
			} else {
				testPool = pool
			}
		}
	}

	code := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

func setupContainer(ctx context.Context) (string, func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupContainer: %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return "", func() {}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return "", func() {}
	}

	return connStr, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}
}

// setupDB skips when no database is available and otherwise makes sure the
// schema exists. Tests isolate themselves by creating fresh accounts.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}

	migrationsMux.Lock()
	defer migrationsMux.Unlock()
	if !migrationsApplied {
		require.NoError(t, database.Migrate(context.Background(), testPool))
		migrationsApplied = true
	}
	return testPool
}

func insertAccount(t *testing.T, pool *pgxpool.Pool, email string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	var emailArg any
	if email != "" {
		emailArg = email
	}
	require.NoError(t, pool.QueryRow(context.Background(),
		"INSERT INTO users (email) VALUES ($1) RETURNING id", emailArg).Scan(&id))
	return id
}

func insertSession(t *testing.T, pool *pgxpool.Pool, accountID uuid.UUID, ip, device string, at time.Time) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO user_sessions (user_id, ip_address, device_id, created_at) VALUES ($1, $2, $3, $4)",
		accountID, ip, device, at)
	require.NoError(t, err)
}

func newPendingRequest(t *testing.T, repo *RedemptionRepository, accountID uuid.UUID, method domain.PayoutMethod, amount string) *domain.RedemptionRequest {
	t.Helper()
	req := &domain.RedemptionRequest{
		RequestID: "WTH" + uuid.NewString()[:12],
		AccountID: accountID,
		Method:    method,
		Amount:    decimal.RequireFromString(amount),
	}
	require.NoError(t, repo.Create(context.Background(), req))
	return req
}
