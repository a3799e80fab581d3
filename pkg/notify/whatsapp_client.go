package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const DefaultWhatsAppAPIURL = "https://graph.facebook.com/v19.0"

// WhatsAppClient sends text messages through the WhatsApp Cloud API.
type WhatsAppClient struct {
	apiURL        string
	token         string
	phoneNumberID string
	client        *http.Client
}

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

func NewWhatsAppClient(apiURL, token, phoneNumberID string, timeout time.Duration) *WhatsAppClient {
	if apiURL == "" {
		apiURL = DefaultWhatsAppAPIURL
	}
	if timeout <= 0 {
		timeout = DefaultTransportTimeout
	}
	return &WhatsAppClient{
		apiURL:        strings.TrimRight(apiURL, "/"),
		token:         token,
		phoneNumberID: phoneNumberID,
		client:        &http.Client{Timeout: timeout},
	}
}

func (c *WhatsAppClient) SendWhatsAppMessage(ctx context.Context, phoneNumber, text string) error {
	if c.token == "" {
		return fmt.Errorf("whatsapp token: %w", ErrMissingCredential)
	}
	if c.phoneNumberID == "" {
		return fmt.Errorf("whatsapp phone number id: %w", ErrMissingCredential)
	}

	payload, err := json.Marshal(whatsAppRequest{
		MessagingProduct: "whatsapp",
		To:               strings.TrimPrefix(phoneNumber, "+"),
		Type:             "text",
		Text:             whatsAppText{Body: text},
	})
	if err != nil {
		return fmt.Errorf("marshal whatsapp request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.apiURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	return doRequest(c.client, req, ChannelWhatsApp)
}
