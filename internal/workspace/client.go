// Package workspace fetches due-reminder candidates from the workspace
// database that the collections team maintains. It is thin I/O glue around
// the optimizer core: one narrow "fetch due clients" operation plus the
// due-date flagging rule.
package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ignite/reminder-optimizer/internal/config"
	"github.com/ignite/reminder-optimizer/internal/pkg/httpretry"
)

// ClientRecord is one due-reminder candidate from the workspace store.
type ClientRecord struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	PhoneNumber   string  `json:"phone_number"`
	Email         string  `json:"email"`
	DueDate       string  `json:"due_date"` // ISO 8601 date
	PendingAmount float64 `json:"pending_amount"`
}

// Client queries the workspace database API.
type Client struct {
	baseURL    string
	apiToken   string
	databaseID string
	apiVersion string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a workspace API client from explicit configuration.
func NewClient(cfg config.WorkspaceConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiToken:   cfg.APIToken,
		databaseID: cfg.DatabaseID,
		apiVersion: cfg.APIVersion,
		httpClient: httpretry.NewRetryClient(&http.Client{Timeout: cfg.Timeout()}, 3),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client httpretry.HTTPDoer) {
	c.httpClient = client
}

// queryResponse mirrors the workspace database query payload: each page
// carries a property map keyed by column name.
type queryResponse struct {
	Results []struct {
		ID         string `json:"id"`
		Properties struct {
			Name struct {
				Title []struct {
					PlainText string `json:"plain_text"`
				} `json:"title"`
			} `json:"Name"`
			Phone struct {
				PhoneNumber string `json:"phone_number"`
			} `json:"Phone No."`
			Email struct {
				Email string `json:"email"`
			} `json:"Email"`
			DueDate struct {
				Date struct {
					Start string `json:"start"`
				} `json:"date"`
			} `json:"Due Date"`
			PendingAmount struct {
				Number float64 `json:"number"`
			} `json:"Pending Amount"`
		} `json:"properties"`
	} `json:"results"`
}

// Clients queries the workspace database and returns every client record.
func (c *Client) Clients(ctx context.Context) ([]ClientRecord, error) {
	url := fmt.Sprintf("%s/databases/%s/query", c.baseURL, c.databaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create workspace request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query workspace database: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read workspace response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("workspace API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed queryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse workspace response: %w", err)
	}

	clients := make([]ClientRecord, 0, len(parsed.Results))
	for _, item := range parsed.Results {
		rec := ClientRecord{
			ID:            item.ID,
			PhoneNumber:   item.Properties.Phone.PhoneNumber,
			Email:         item.Properties.Email.Email,
			DueDate:       item.Properties.DueDate.Date.Start,
			PendingAmount: item.Properties.PendingAmount.Number,
		}
		if len(item.Properties.Name.Title) > 0 {
			rec.Name = item.Properties.Name.Title[0].PlainText
		}
		clients = append(clients, rec)
	}
	return clients, nil
}
