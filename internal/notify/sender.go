package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/osse101/RedeemBot_Go/internal/logger"
)

// Email is one outbound message
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
}

// EmailSender delivers an email
type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

// ResendSender posts emails to a Resend-compatible HTTP API
type ResendSender struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewResendSender creates a sender. A nil client gets a default with DefaultSendTimeout.
func NewResendSender(baseURL, apiKey string, httpClient *http.Client) *ResendSender {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultSendTimeout}
	}
	return &ResendSender{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (s *ResendSender) Send(ctx context.Context, email Email) error {
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf(ErrFmtMarshalEmailRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+ResendEmailsPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf(ErrFmtCreateEmailRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf(ErrFmtEmailRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, MaxSenderResponseBody))
		return fmt.Errorf(ErrFmtSenderHTTPStatus, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxSenderResponseBody))
	return nil
}

// LogSender logs who would have been emailed. The body is never logged.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, email Email) error {
	logger.FromContext(ctx).Info(LogMsgEmailLogged, "to", email.To, "subject", email.Subject)
	return nil
}
