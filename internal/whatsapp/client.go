// Package whatsapp dispatches payment reminders over the WhatsApp Business
// messaging API. Dispatch is fire-and-forget: delivery failures are logged
// and never propagate past this boundary.
package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/ignite/reminder-optimizer/internal/config"
	"github.com/ignite/reminder-optimizer/internal/pkg/httpretry"
	"github.com/ignite/reminder-optimizer/internal/pkg/logger"
	"github.com/ignite/reminder-optimizer/internal/workspace"
)

// Client sends WhatsApp messages through a Twilio-compatible messages API.
type Client struct {
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string
	currency   string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a dispatch client from explicit configuration.
func NewClient(cfg config.WhatsAppConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		currency:   cfg.Currency,
		httpClient: httpretry.NewRetryClient(&http.Client{Timeout: cfg.Timeout()}, 3),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client httpretry.HTTPDoer) {
	c.httpClient = client
}

// ReminderBody renders the reminder message for a due client.
func (c *Client) ReminderBody(rec workspace.ClientRecord) string {
	return fmt.Sprintf("Hi %s. Your payment of %s%.2f is due since %s.",
		rec.Name, c.currency, rec.PendingAmount, rec.DueDate)
}

// SendReminder dispatches a payment reminder to the client. Failures are
// caught and logged here; the caller always continues with the remaining
// candidates.
func (c *Client) SendReminder(ctx context.Context, rec workspace.ClientRecord) {
	dispatchID := uuid.New().String()

	sid, err := c.send(ctx, rec.PhoneNumber, c.ReminderBody(rec))
	if err != nil {
		logger.Error("reminder dispatch failed",
			"dispatch_id", dispatchID,
			"client_id", rec.ID,
			"phone", rec.PhoneNumber,
			"error", err.Error())
		return
	}

	logger.Info("reminder dispatched",
		"dispatch_id", dispatchID,
		"client_id", rec.ID,
		"phone", rec.PhoneNumber,
		"message_sid", sid)
}

func (c *Client) send(ctx context.Context, toNumber, body string) (string, error) {
	form := url.Values{}
	form.Set("From", "whatsapp:"+c.fromNumber)
	form.Set("To", "whatsapp:"+toNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read message response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("messages API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse message response: %w", err)
	}
	return parsed.SID, nil
}
