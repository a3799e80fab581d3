package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

const DefaultEmailAPIURL = "https://api.resend.com/emails"

// EmailAPIClient posts messages to a Resend-compatible JSON API.
type EmailAPIClient struct {
	apiURL string
	apiKey string
	client *http.Client
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func NewEmailAPIClient(apiURL, apiKey string, timeout time.Duration) *EmailAPIClient {
	if apiURL == "" {
		apiURL = DefaultEmailAPIURL
	}
	if timeout <= 0 {
		timeout = DefaultTransportTimeout
	}
	return &EmailAPIClient{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *EmailAPIClient) SendEmail(ctx context.Context, from string, to []string, subject, html string) error {
	if c.apiKey == "" {
		return fmt.Errorf("email api key: %w", ErrMissingCredential)
	}
	if from == "" {
		return fmt.Errorf("email sender address: %w", ErrMissingCredential)
	}

	payload, err := json.Marshal(emailRequest{From: from, To: to, Subject: subject, HTML: html})
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return doRequest(c.client, req, ChannelEmail)
}

func doRequest(client *http.Client, req *http.Request, channel string) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", channel, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Channel: channel, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}
