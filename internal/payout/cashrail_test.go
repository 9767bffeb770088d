package payout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RedeemBot_Go/internal/domain"
)

func newGateway(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *CashRailAdapter) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	a := NewCashRailAdapter(CashRailConfig{
		BaseURL:      srv.URL + "/",
		MerchantCode: "MERCHANT",
		APIKey:       "gw-key",
		Timeout:      200 * time.Millisecond,
	}, srv.Client())
	return srv, a
}

func TestCashRailAdapter_Success(t *testing.T) {
	req := newRequest(domain.MethodCashRail, "12.5")

	_, a := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, GatewayProcessPath, r.URL.Path)
		assert.Equal(t, "Bearer gw-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "MERCHANT", body["merchantCode"])
		assert.Equal(t, req.RequestID, body["merchantRefNum"])
		assert.Equal(t, "01000000000", body["customerMobile"])
		assert.Equal(t, 12.5, body["amount"])
		assert.Equal(t, GatewayPaymentMethodCash, body["paymentMethod"])

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "SUCCESS", "referenceNumber": "REF-9"})
	})

	out := a.Settle(context.Background(), req)

	require.True(t, out.Success)
	assert.Equal(t, "REF-9", out.Details.GatewayReference)
	assert.Equal(t, domain.MethodCashRail, out.Details.Method)
}

func TestCashRailAdapter_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "declined with message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "FAILED", "statusDescription": "insufficient merchant balance"})
			},
			want: "insufficient merchant balance",
		},
		{
			name: "declined without message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "FAILED"})
			},
			want: domain.ErrMsgGatewayRejected,
		},
		{
			name: "success without reference",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "SUCCESS"})
			},
			want: MsgGatewayNoRef,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want: "gateway returned HTTP 502",
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>oops</html>"))
			},
			want: MsgGatewayBadReply,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(2 * time.Second):
				case <-r.Context().Done():
				}
			},
			want: domain.ErrMsgGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, a := newGateway(t, tt.handler)

			out := a.Settle(context.Background(), newRequest(domain.MethodCashRail, "10"))

			assert.False(t, out.Success)
			assert.Equal(t, domain.FailureGateway, out.Kind)
			assert.Equal(t, tt.want, out.Message)
			assert.Nil(t, out.Details)
		})
	}
}

func TestCashRailAdapter_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	a := NewCashRailAdapter(CashRailConfig{BaseURL: url, Timeout: time.Second}, nil)
	out := a.Settle(context.Background(), newRequest(domain.MethodCashRail, "10"))

	assert.False(t, out.Success)
	assert.Equal(t, domain.FailureGateway, out.Kind)
	assert.Equal(t, domain.ErrMsgGatewayUnavailable, out.Message)
	assert.NotContains(t, out.Message, strings.TrimPrefix(url, "http://"), "status reasons are served to the requester")
}

func TestCashRailAdapter_MissingPhone(t *testing.T) {
	called := false
	_, a := newGateway(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	req := newRequest(domain.MethodCashRail, "10")
	req.Details.Phone = " "
	out := a.Settle(context.Background(), req)

	assert.False(t, out.Success)
	assert.Equal(t, MsgMissingPhone, out.Message)
	assert.False(t, called)
}
