// Package mailer is a thin client for the mail relay endpoint. The body is
// pre-rendered HTML; the relay does no templating of its own.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Message struct {
	TemplateID string `json:"template_id"`
	Recipient  string `json:"recipient"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}

// Sender is implemented by Client and by test fakes.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Client struct {
	endpoint string
	client   *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Send posts one message. There are no retries: workflow mail is strictly
// best-effort and the caller only logs failures.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.endpoint == "" {
		return fmt.Errorf("mail endpoint not configured")
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail relay returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
