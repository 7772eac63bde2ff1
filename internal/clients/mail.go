package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pedrolvck/vendrix/internal/config"
	"github.com/shopspring/decimal"
)

// MailSender dispatches transactional emails. Callers treat failures as
// best effort: log them and move on.
type MailSender interface {
	SendOrderConfirmation(ctx context.Context, to, name, orderID string, total decimal.Decimal) error
}

// MailClient implements MailSender over a Resend-style HTTP API.
type MailClient struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	log        *slog.Logger
}

var _ MailSender = (*MailClient)(nil)

func NewMailClient(cfg config.MailConfig, log *slog.Logger) *MailClient {
	return &MailClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (c *MailClient) SendOrderConfirmation(ctx context.Context, to, name, orderID string, total decimal.Decimal) error {
	shortID := orderID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	payload := emailPayload{
		From:    c.from,
		To:      []string{to},
		Subject: fmt.Sprintf("Order received! #%s", strings.ToUpper(shortID)),
		HTML: fmt.Sprintf(`<div style="font-family: sans-serif; color: #333;">
  <h1>Hi, %s!</h1>
  <p>We received your order at <strong>Vendrix</strong>.</p>
  <hr />
  <p><strong>ID:</strong> %s</p>
  <p><strong>Total:</strong> R$ %s</p>
  <br />
  <p>As soon as the payment is confirmed we will send you the tracking details.</p>
  <p>Best regards,<br>Vendrix Team</p>
</div>`, name, orderID, total.StringFixed(2)),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/emails", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}

	c.log.Info("order confirmation email sent", slog.String("to", to), slog.String("order_id", orderID))
	return nil
}
