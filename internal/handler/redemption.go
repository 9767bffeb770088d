package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/logger"
)

// Settler is the part of the settlement engine the HTTP surface drives
type Settler interface {
	Wake(requestID string) bool
	TriggerScan() bool
	ListStale(ctx context.Context) ([]domain.RedemptionRequest, error)
}

// RedemptionReader serves status reads
type RedemptionReader interface {
	GetByRequestID(ctx context.Context, requestID string) (*domain.RedemptionRequest, error)
	ListByAccount(ctx context.Context, filter domain.RedemptionFilter) ([]domain.RedemptionRequest, error)
}

// WebhookRequest is the notification intake sends after inserting a request
type WebhookRequest struct {
	Type string      `json:"type" validate:"required,oneof=withdrawal_request"`
	Data WebhookData `json:"data"`
}

// WebhookData carries the inserted row; only the request id is used
type WebhookData struct {
	RequestID string `json:"request_id" validate:"required,max=64,request_id"`
}

// WebhookResponse reports whether the request was queued right away
type WebhookResponse struct {
	RequestID string `json:"request_id"`
	Queued    bool   `json:"queued"`
}

// RedemptionView is the public shape of a request. Intake details and payout
// secrets are never included.
type RedemptionView struct {
	RequestID    string                  `json:"request_id"`
	AccountID    uuid.UUID               `json:"account_id"`
	Method       domain.PayoutMethod     `json:"method"`
	Amount       decimal.Decimal         `json:"amount"`
	Status       domain.RedemptionStatus `json:"status"`
	StatusReason string                  `json:"status_reason,omitempty"`
	ClaimedBy    string                  `json:"claimed_by,omitempty"`
	ClaimedAt    *time.Time              `json:"claimed_at,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	CompletedAt  *time.Time              `json:"completed_at,omitempty"`
}

func newRedemptionView(r domain.RedemptionRequest) RedemptionView {
	return RedemptionView{
		RequestID:    r.RequestID,
		AccountID:    r.AccountID,
		Method:       r.Method,
		Amount:       r.Amount,
		Status:       r.Status,
		StatusReason: r.StatusReason,
		ClaimedBy:    r.ClaimedBy,
		ClaimedAt:    r.ClaimedAt,
		CreatedAt:    r.CreatedAt,
		CompletedAt:  r.CompletedAt,
	}
}

func newRedemptionViews(rs []domain.RedemptionRequest) []RedemptionView {
	views := make([]RedemptionView, 0, len(rs))
	for _, r := range rs {
		views = append(views, newRedemptionView(r))
	}
	return views
}

// HandleRedemptionWebhook wakes the engine for a freshly inserted request.
// The request is settled asynchronously; the response is always 202 once the
// body is valid because the periodic scan is the fallback.
// @Summary Notify a new redemption request
// @Description Wakes the settlement engine for a request intake just inserted
// @Tags redemptions
// @Accept json
// @Produce json
// @Param request body WebhookRequest true "Webhook payload"
// @Success 202 {object} DataResponse{data=WebhookResponse}
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/webhook/redemption [post]
func HandleRedemptionWebhook(settler Settler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WebhookRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Redemption webhook"); err != nil {
			return
		}

		queued := settler.Wake(req.Data.RequestID)
		logger.FromContext(r.Context()).Info(LogMsgWebhookReceived, "request_id", req.Data.RequestID, "queued", queued)

		msg := MsgRedemptionQueued
		if !queued {
			msg = MsgRedemptionDeferred
		}
		respondJSON(w, http.StatusAccepted, DataResponse{
			Message: msg,
			Data:    WebhookResponse{RequestID: req.Data.RequestID, Queued: queued},
		})
	}
}

// HandleGetRedemption returns one request's status
// @Summary Get a redemption request
// @Tags redemptions
// @Produce json
// @Param requestID path string true "Request ID"
// @Success 200 {object} RedemptionView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/redemptions/{requestID} [get]
func HandleGetRedemption(reader RedemptionReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := chi.URLParam(r, "requestID")
		if err := GetValidator().ValidateVar(requestID, "required,max=64,request_id"); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestID)
			return
		}

		req, err := reader.GetByRequestID(r.Context(), requestID)
		if err != nil {
			respondServiceError(w, r, "Get redemption", err)
			return
		}
		respondJSON(w, http.StatusOK, newRedemptionView(*req))
	}
}

// HandleListRedemptions lists an account's requests, newest first.
// Query: account_id (required), status, limit.
// @Summary List an account's redemption requests
// @Tags redemptions
// @Produce json
// @Param account_id query string true "Account UUID"
// @Param status query string false "pending, processing, completed or failed"
// @Param limit query int false "Max rows"
// @Success 200 {object} DataResponse{data=[]RedemptionView}
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/redemptions [get]
func HandleListRedemptions(reader RedemptionReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawAccount := r.URL.Query().Get("account_id")
		if rawAccount == "" {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidAccountID)
			return
		}
		accountID, err := uuid.Parse(rawAccount)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidAccountID)
			return
		}

		filter := domain.RedemptionFilter{AccountID: accountID, Limit: DefaultListLimit}
		if s := GetOptionalQueryParam(r, "status", ""); s != "" {
			filter.Status = domain.RedemptionStatus(s)
			if !filter.Status.Valid() {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidStatus)
				return
			}
		}
		if l := GetOptionalQueryParam(r, "limit", ""); l != "" {
			limit, err := strconv.ParseUint(l, 10, 64)
			if err != nil || limit == 0 || limit > MaxListLimit {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
				return
			}
			filter.Limit = limit
		}

		rs, err := reader.ListByAccount(r.Context(), filter)
		if err != nil {
			respondServiceError(w, r, "List redemptions", err)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: newRedemptionViews(rs)})
	}
}

// HandleTriggerScan queues a full pending scan
// @Summary Trigger a pending scan
// @Tags admin
// @Produce json
// @Success 202 {object} DataResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/scan [post]
func HandleTriggerScan(settler Settler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queued := settler.TriggerScan()
		logger.FromContext(r.Context()).Info(LogMsgScanTriggered, "queued", queued)
		msg := MsgScanQueued
		if !queued {
			msg = MsgScanBusy
		}
		respondJSON(w, http.StatusAccepted, DataResponse{Message: msg, Data: map[string]bool{"queued": queued}})
	}
}

// HandleListStale lists requests stuck in processing for operator follow-up
// @Summary List stale processing requests
// @Tags admin
// @Produce json
// @Success 200 {object} DataResponse{data=[]RedemptionView}
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/stale [get]
func HandleListStale(settler Settler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stale, err := settler.ListStale(r.Context())
		if err != nil {
			respondServiceError(w, r, "List stale", err)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: newRedemptionViews(stale)})
	}
}
