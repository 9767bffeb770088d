package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	apiKey := "secret-key"
	mw := AuthMiddleware(apiKey, nil, NewSuspiciousActivityDetector(DetectorConfig{}))

	tests := []struct {
		name           string
		header         string
		value          string
		path           string
		expectedStatus int
	}{
		{"valid api key", HeaderAPIKey, apiKey, "/api/v1/redemptions", http.StatusOK},
		{"valid bearer", HeaderAuthorization, "Bearer " + apiKey, "/api/v1/admin/scan", http.StatusOK},
		{"wrong key", HeaderAPIKey, "wrong-key", "/api/v1/redemptions", http.StatusUnauthorized},
		{"basic auth is not a key", HeaderAuthorization, "Basic " + apiKey, "/api/v1/redemptions", http.StatusUnauthorized},
		{"missing key", "", "", "/api/v1/webhook/redemption", http.StatusUnauthorized},
		{"healthz is public", "", "", "/healthz", http.StatusOK},
		{"metrics is public", "", "", "/metrics", http.StatusOK},
		{"public prefix does not leak", "", "", "/metricsX", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			mw(okHandler()).ServeHTTP(rec, req)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	detector := NewSuspiciousActivityDetector(DetectorConfig{RequestLimit: 3, Window: time.Minute})
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	detector.now = func() time.Time { return now }
	detector.windowStart = now

	h := RateLimitMiddleware(nil, detector)(okHandler())
	call := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/redemptions", nil)
		req.RemoteAddr = "192.168.1.100:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, call())
	}
	assert.Equal(t, http.StatusTooManyRequests, call())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, http.StatusOK, call(), "a new window resets the count")
}

func TestExtractIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set(HeaderForwardedFor, "203.0.113.9, 198.51.100.7")

	assert.Equal(t, "10.0.0.1", extractIP(req, nil), "untrusted peers can't spoof the header")
	assert.Equal(t, "198.51.100.7", extractIP(req, []string{"10.0.0.1"}))

	req.Header.Del(HeaderForwardedFor)
	assert.Equal(t, "10.0.0.1", extractIP(req, []string{"10.0.0.1"}))
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeadersMiddleware()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
	assert.Equal(t, HeaderValueDeny, rec.Header().Get(HeaderFrameOptions))
	assert.Equal(t, HeaderValueNoStore, rec.Header().Get(HeaderCacheControl))
}
