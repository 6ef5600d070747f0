package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultFonnteURL is the Fonnte send endpoint; override for testing.
const DefaultFonnteURL = "https://api.fonnte.com/send"

// FonnteMessenger delivers messages through the Fonnte WhatsApp gateway.
// Fonnte has no Go SDK; the integration is a form-encoded POST with the
// API key in the Authorization header.
type FonnteMessenger struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewFonnteMessenger(apiKey, apiURL string) (*FonnteMessenger, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("fonnte API key is required")
	}
	if apiURL == "" {
		apiURL = DefaultFonnteURL
	}
	return &FonnteMessenger{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{},
	}, nil
}

// fonnteResponse is the subset of Fonnte's response we act on.
type fonnteResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason"`
}

func (m *FonnteMessenger) Send(ctx context.Context, phone, body string) (json.RawMessage, error) {
	form := url.Values{}
	form.Set("target", phone)
	form.Set("message", body)
	form.Set("countryCode", "62")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Fonnte request: %w", err)
	}
	req.Header.Set("Authorization", m.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to Fonnte: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Fonnte response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return respBytes, fmt.Errorf("fonnte API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	var parsed fonnteResponse
	if err := json.Unmarshal(respBytes, &parsed); err == nil && !parsed.Status {
		return respBytes, fmt.Errorf("fonnte rejected the message: %s", parsed.Reason)
	}
	return respBytes, nil
}
