package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pedrolvck/vendrix/internal/config"
)

// SessionLineItem is one line of a hosted checkout session. UnitAmount is in
// minor units (cents), as payment providers require.
type SessionLineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int    `json:"quantity"`
}

// SessionRequest describes the hosted checkout session to create. Metadata
// carries the order id so the provider's callbacks can be tied back to us.
type SessionRequest struct {
	LineItems  []SessionLineItem `json:"line_items"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Session is the provider's answer: an opaque session id and the URL the
// buyer must be redirected to.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentGateway creates hosted checkout sessions at the payment provider.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req *SessionRequest) (*Session, error)
}

// HostedCheckoutClient implements PaymentGateway over the provider's HTTP API.
type HostedCheckoutClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

var _ PaymentGateway = (*HostedCheckoutClient)(nil)

func NewHostedCheckoutClient(cfg config.PaymentConfig, log *slog.Logger) *HostedCheckoutClient {
	return &HostedCheckoutClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

func (c *HostedCheckoutClient) CreateSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/checkout/sessions", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("payment session request failed", slog.Any("error", err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Error("payment provider returned error", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("payment provider returned an incomplete session")
	}

	c.log.Info("payment session created", slog.String("session_id", session.ID))
	return &session, nil
}
