// Package slack posts new sales leads to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/panai/console/internal/observability/notify"
)

const defaultUsername = "panai-console"

// Config captures the subset of Slack webhook behaviour we need.
type Config struct {
	WebhookURL string
	Channel    string
	Username   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
	// RetryBackoff is the base delay between attempts; it grows linearly.
	RetryBackoff time.Duration
}

// Client delivers lead notifications to a Slack webhook.
type Client struct {
	webhookURL string
	channel    string
	username   string
	retryLimit int
	backoff    time.Duration
	client     *http.Client
}

var _ notify.Sink = (*Client)(nil)

// NewClient builds a Slack webhook client.
func NewClient(cfg Config) (*Client, error) {
	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL == "" {
		return nil, errors.New("slack webhook url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		username = defaultUsername
	}

	return &Client{
		webhookURL: webhookURL,
		channel:    strings.TrimSpace(cfg.Channel),
		username:   username,
		retryLimit: max(cfg.RetryLimit, 0),
		backoff:    backoff,
		client:     hc,
	}, nil
}

// SendLead posts a formatted lead summary, retrying failed deliveries.
func (c *Client) SendLead(ctx context.Context, payload notify.LeadPayload) error {
	body, err := json.Marshal(c.formatMessage(payload))
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryLimit; attempt++ {
		if attempt > 0 {
			if waitErr := sleepCtx(ctx, time.Duration(attempt)*c.backoff); waitErr != nil {
				return errors.Join(lastErr, waitErr)
			}
		}
		if lastErr = c.post(ctx, body); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

type message struct {
	Text     string `json:"text"`
	Username string `json:"username"`
	Channel  string `json:"channel,omitempty"`
}

func (c *Client) formatMessage(p notify.LeadPayload) message {
	submitted := p.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now()
	}

	var text strings.Builder
	text.WriteString("*New sales lead*")
	if p.PharmacyName != "" {
		text.WriteString(": ")
		text.WriteString(escape(p.PharmacyName))
	}
	text.WriteByte('\n')

	contact := escape(p.ContactName)
	if p.Email != "" {
		contact += " <mailto:" + p.Email + "|" + escape(p.Email) + ">"
	}
	for _, f := range []struct{ label, value string }{
		{"Contact", contact},
		{"Phone", escape(p.Phone)},
		{"Role", escape(p.Role)},
		{"Decision maker", escape(p.DecisionMaker)},
		{"Location", escape(p.Location)},
		{"Size", escape(p.PharmacySize)},
		{"Notes", escape(p.Notes)},
	} {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		fmt.Fprintf(&text, "• %s: %s\n", f.label, f.value)
	}
	fmt.Fprintf(&text, "• Submitted: %s", submitted.UTC().Format(time.RFC3339))

	return message{Text: text.String(), Username: c.username, Channel: c.channel}
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if _, drainErr := io.Copy(io.Discard, resp.Body); drainErr != nil {
			return fmt.Errorf("drain slack response body: %w", drainErr)
		}
		return nil
	}

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if readErr != nil {
		return fmt.Errorf("read slack error response: %w", readErr)
	}
	return fmt.Errorf("slack webhook %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var slackEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(v string) string { return slackEscaper.Replace(strings.TrimSpace(v)) }
