package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/metrics"
)

// CashRailConfig configures the gateway client
type CashRailConfig struct {
	BaseURL      string
	MerchantCode string
	APIKey       string
	Timeout      time.Duration
}

// CashRailAdapter pays out through the external cash gateway
type CashRailAdapter struct {
	cfg        CashRailConfig
	endpoint   string
	httpClient *http.Client
}

// gatewayRequest is the body of POST /api/payments/process
type gatewayRequest struct {
	MerchantCode   string      `json:"merchantCode"`
	MerchantRefNum string      `json:"merchantRefNum"`
	CustomerMobile string      `json:"customerMobile"`
	CustomerName   string      `json:"customerName,omitempty"`
	Amount         json.Number `json:"amount"`
	PaymentMethod  string      `json:"paymentMethod"`
}

type gatewayResponse struct {
	Status            string `json:"status"`
	ReferenceNumber   string `json:"referenceNumber"`
	StatusDescription string `json:"statusDescription"`
	Message           string `json:"message"`
}

func (r gatewayResponse) message() string {
	if r.StatusDescription != "" {
		return r.StatusDescription
	}
	return r.Message
}

// NewCashRailAdapter creates a CashRailAdapter. httpClient may be nil.
func NewCashRailAdapter(cfg CashRailConfig, httpClient *http.Client) *CashRailAdapter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultGatewayTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &CashRailAdapter{
		cfg:        cfg,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + GatewayProcessPath,
		httpClient: httpClient,
	}
}

// Settle calls the gateway once. The request id is sent as the merchant
// reference so the gateway can reject a duplicate payout.
func (a *CashRailAdapter) Settle(ctx context.Context, req *domain.RedemptionRequest) Outcome {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(req.Details.Phone) == "" {
		return Failed(domain.FailureGateway, MsgMissingPhone)
	}

	body, err := json.Marshal(gatewayRequest{
		MerchantCode:   a.cfg.MerchantCode,
		MerchantRefNum: req.RequestID,
		CustomerMobile: req.Details.Phone,
		CustomerName:   req.Details.AccountName,
		Amount:         json.Number(req.Amount.StringFixed(2)),
		PaymentMethod:  GatewayPaymentMethodCash,
	})
	if err != nil {
		return Failed(domain.FailureInfrastructure, err.Error())
	}

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Error(LogMsgGatewayCallFailed, "error", err)
		return Failed(domain.FailureInfrastructure, domain.ErrMsgGatewayUnavailable)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(callCtx, err) {
			log.Warn(LogMsgGatewayCallFailed, "error", err, "timeout", a.cfg.Timeout)
			metrics.GatewayRequests.WithLabelValues(metrics.ResultTimeout).Inc()
			return Failed(domain.FailureGateway, domain.ErrMsgGatewayTimeout)
		}
		// the dial error names the gateway host; it stays in the log
		log.Warn(LogMsgGatewayCallFailed, "error", err)
		metrics.GatewayRequests.WithLabelValues(metrics.ResultError).Inc()
		return Failed(domain.FailureGateway, domain.ErrMsgGatewayUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxGatewayResponseBytes))
	if err != nil {
		if isTimeout(callCtx, err) {
			metrics.GatewayRequests.WithLabelValues(metrics.ResultTimeout).Inc()
			return Failed(domain.FailureGateway, domain.ErrMsgGatewayTimeout)
		}
		log.Warn(LogMsgGatewayCallFailed, "error", err)
		metrics.GatewayRequests.WithLabelValues(metrics.ResultError).Inc()
		return Failed(domain.FailureGateway, domain.ErrMsgGatewayUnavailable)
	}

	var parsed gatewayResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.GatewayRequests.WithLabelValues(metrics.ResultDeclined).Inc()
		if decodeErr == nil && parsed.message() != "" {
			return Failed(domain.FailureGateway, parsed.message())
		}
		return Failed(domain.FailureGateway, fmt.Sprintf(MsgGatewayHTTPStatus, resp.StatusCode))
	}
	if decodeErr != nil {
		metrics.GatewayRequests.WithLabelValues(metrics.ResultError).Inc()
		return Failed(domain.FailureGateway, MsgGatewayBadReply)
	}

	if parsed.Status != GatewayStatusSuccess {
		log.Warn(LogMsgGatewayDeclined, "status", parsed.Status, "message", parsed.message())
		metrics.GatewayRequests.WithLabelValues(metrics.ResultDeclined).Inc()
		if msg := parsed.message(); msg != "" {
			return Failed(domain.FailureGateway, msg)
		}
		return Failed(domain.FailureGateway, domain.ErrMsgGatewayRejected)
	}
	if parsed.ReferenceNumber == "" {
		metrics.GatewayRequests.WithLabelValues(metrics.ResultError).Inc()
		return Failed(domain.FailureGateway, MsgGatewayNoRef)
	}

	metrics.GatewayRequests.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Info(LogMsgPayoutIssued, "method", domain.MethodCashRail, "reference", parsed.ReferenceNumber)
	return Succeeded(MsgCashRailAccepted, &domain.PayoutDetails{
		Method:           domain.MethodCashRail,
		GatewayReference: parsed.ReferenceNumber,
	})
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
