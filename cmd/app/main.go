package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/RedeemBot_Go/internal/bootstrap"
	"github.com/osse101/RedeemBot_Go/internal/config"
	"github.com/osse101/RedeemBot_Go/internal/crypto"
	"github.com/osse101/RedeemBot_Go/internal/handler"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/server"
)

// shutdownTimeout bounds the whole graceful shutdown sequence
const shutdownTimeout = 30 * time.Second

// @title RedeemBot API
// @version 1.0
// @description Settles redemption requests into prepaid cards, game codes and mobile cash.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	if err := run(); err != nil {
		log.Fatalf("redeem-bot: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	// a stale .env is fatal in prod and only a warning elsewhere
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		if cfg.Environment == "prod" {
			return err
		}
		logger.Warn("Environment check failed", "error", err)
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	keyring, err := crypto.ParseKeyring(cfg.CodeKeys, cfg.ActiveCodeKeyID)
	if err != nil {
		return fmt.Errorf("%s: %w", bootstrap.ErrMsgFailedLoadKeyring, err)
	}

	repos, err := bootstrap.InitializeRepositories(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.SeedPath != "" {
		seed, err := bootstrap.LoadInventorySeed(cfg.SeedPath)
		if err != nil {
			repos.Close()
			return err
		}
		var accounts bootstrap.AccountSeeder
		if repos.Memory != nil {
			accounts = repos.Memory
		}
		if _, err := bootstrap.SeedInventory(ctx, seed, repos.Inventory, keyring, accounts); err != nil {
			repos.Close()
			return err
		}
	}

	events, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		repos.Close()
		return err
	}

	httpClient := bootstrap.NewGatewayClient(cfg)
	notifier := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		Events:     events,
		Accounts:   repos.Account,
		Secrets:    keyring,
		Config:     cfg,
		HTTPClient: httpClient,
	})

	payouts := bootstrap.NewPayoutRegistry(cfg, repos.Inventory, httpClient)
	engine := bootstrap.NewSettlementEngine(cfg, repos, payouts, events.Bus)

	deps := server.Deps{Settler: engine, Reader: repos.Redemption, Events: events.Hub}
	if repos.Pool != nil {
		// leave DB as a nil interface on the memory backend
		deps.DB = handler.Pinger(repos.Pool)
	}
	srv := server.NewServer(server.Config{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Version:        cfg.Version,
	}, deps)

	components := bootstrap.ShutdownComponents{
		Server:       srv,
		Engine:       engine,
		Notifier:     notifier,
		Events:       events,
		Repositories: repos,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return engine.Start(gctx)
	})

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", "instance_id", engine.InstanceID())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		bootstrap.GracefulShutdown(shutdownCtx, components)
		return nil
	})

	return g.Wait()
}
