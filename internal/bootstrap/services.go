package bootstrap

import (
	"net/http"

	"github.com/osse101/RedeemBot_Go/internal/config"
	"github.com/osse101/RedeemBot_Go/internal/event"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/payout"
	"github.com/osse101/RedeemBot_Go/internal/repository"
	"github.com/osse101/RedeemBot_Go/internal/security"
	"github.com/osse101/RedeemBot_Go/internal/settlement"
)

// NewGatewayClient returns the HTTP client the cash rail uses
func NewGatewayClient(cfg *config.Config) *http.Client {
	timeout := cfg.GatewayTimeout
	if timeout <= 0 {
		timeout = GatewayClientTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NewPayoutRegistry wires one adapter per rail. Disabled rails resolve to the
// maintenance adapter inside the registry.
func NewPayoutRegistry(cfg *config.Config, inventory repository.Inventory, gatewayClient *http.Client) *payout.Registry {
	card := payout.NewCardAdapter(inventory)
	gameCode := payout.NewGameCodeAdapter(inventory, cfg.GameCurrencyRate)
	cashRail := payout.NewCashRailAdapter(payout.CashRailConfig{
		BaseURL:      cfg.GatewayURL,
		MerchantCode: cfg.GatewayMerchantCode,
		APIKey:       cfg.GatewayAPIKey,
		Timeout:      cfg.GatewayTimeout,
	}, gatewayClient)

	logger.Info(LogMsgPayoutRegistry,
		"card", cfg.CardEnabled,
		"game_code", cfg.GameCodeEnabled,
		"cash_rail", cfg.CashRailEnabled,
		"game_currency_rate", cfg.GameCurrencyRate.String())

	return payout.NewRegistry(payout.RegistryConfig{
		CardEnabled:     cfg.CardEnabled,
		GameCodeEnabled: cfg.GameCodeEnabled,
		CashRailEnabled: cfg.CashRailEnabled,
	}, card, gameCode, cashRail)
}

// NewSecurityGate builds the fraud gate from the configured thresholds
func NewSecurityGate(cfg *config.Config, repo repository.Security) *security.Gate {
	return security.NewGate(repo, security.Config{
		SessionWindow:            cfg.SessionWindow,
		IPDiversityThreshold:     cfg.IPDiversityThreshold,
		DeviceDiversityThreshold: cfg.DeviceDiversityThreshold,
		DailyLimit:               cfg.DailyWithdrawalLimit,
	})
}

// NewSettlementEngine wires the engine to storage, the gate, the payout rails
// and the bus. It is not started.
func NewSettlementEngine(cfg *config.Config, repos *Repositories, payouts payout.Adapter, bus event.Bus) *settlement.Engine {
	return settlement.NewEngine(repos.Redemption, NewSecurityGate(cfg, repos.Security), payouts, bus, settlement.Config{
		InstanceID:    cfg.InstanceID,
		PollInterval:  cfg.PollInterval,
		Concurrency:   cfg.SettlementConcurrency,
		QueueSize:     cfg.SettlementQueueSize,
		ScanBatchSize: cfg.ScanBatchSize,
		StaleAfter:    cfg.StaleProcessingAfter,
	})
}
