// Package semaphore provides a client for the Semaphore SMS gateway API.
//
// It covers the regular and priority send endpoints plus the account
// endpoint, and tolerates the provider returning either a bare JSON object
// or a one-element JSON array for a send.
package semaphore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.semaphore.co/api/v4"

// Client represents a Semaphore API client.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a Semaphore client with the given API key. An empty
// baseURL falls back to the public endpoint.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SendResponse is the provider's view of an accepted message.
type SendResponse struct {
	MessageID  json.Number `json:"message_id"`
	Recipient  string      `json:"recipient"`
	Network    string      `json:"network"`
	Status     string      `json:"status"`
	SenderName string      `json:"sender_name"`
	CreatedAt  string      `json:"created_at"`
}

// Account is the provider's account status and balance.
type Account struct {
	AccountID     json.Number `json:"account_id"`
	AccountName   string      `json:"account_name"`
	Status        string      `json:"status"`
	CreditBalance json.Number `json:"credit_balance"`
}

// APIError is returned for non-2xx or unparseable provider responses. It
// carries the raw response body for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("semaphore API error: status=%d body=%q", e.StatusCode, e.Body)
}

// Send posts a message to the regular endpoint.
func (c *Client) Send(ctx context.Context, number, message, senderName string) (*SendResponse, error) {
	return c.send(ctx, "/messages", number, message, senderName)
}

// SendPriority posts a message to the priority endpoint, which bypasses the
// provider-side queue at double the credit cost.
func (c *Client) SendPriority(ctx context.Context, number, message, senderName string) (*SendResponse, error) {
	return c.send(ctx, "/priority", number, message, senderName)
}

func (c *Client) send(ctx context.Context, path, number, message, senderName string) (*SendResponse, error) {
	form := url.Values{}
	form.Set("apikey", c.apiKey)
	form.Set("number", number)
	form.Set("message", message)
	if senderName != "" {
		form.Set("sendername", senderName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	sr, err := parseSendResponse(body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return sr, nil
}

// parseSendResponse accepts either a single object or the first element of
// an array; the provider uses both shapes.
func parseSendResponse(body []byte) (*SendResponse, error) {
	trimmed := strings.TrimSpace(string(body))

	if strings.HasPrefix(trimmed, "[") {
		var list []SendResponse
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("decode response array: %w", err)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("empty response array")
		}
		return &list[0], nil
	}

	var sr SendResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &sr, nil
}

// GetAccount fetches account status and credit balance. It doubles as the
// credential check at initialization time.
func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	u := fmt.Sprintf("%s/account?apikey=%s", c.baseURL, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var acc Account
	if err := json.Unmarshal(body, &acc); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return &acc, nil
}
