// Package media relays post images to an external image host and produces
// local webp thumbnails.
package media

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pixelaura/internal/observability"
)

// RelayClient uploads images to an imgur-style host. One attempt per image,
// callers degrade to text-only posts on failure.
type RelayClient struct {
	endpoint string
	clientID string
	http     *http.Client
}

// NewRelayClient returns a client for the given host endpoint and client ID.
func NewRelayClient(endpoint, clientID string) *RelayClient {
	return &RelayClient{
		endpoint: endpoint,
		clientID: clientID,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type relayResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

// Upload sends the image as form-encoded base64 and returns the hosted link.
func (c *RelayClient) Upload(ctx context.Context, image []byte) (string, error) {
	if c.clientID == "" {
		return "", fmt.Errorf("image host client ID not configured")
	}

	start := time.Now()
	form := url.Values{}
	form.Set("image", base64.StdEncoding.EncodeToString(image))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Client-ID "+c.clientID)

	resp, err := c.http.Do(req)
	if err != nil {
		observability.ObserveRelay("degraded", start)
		return "", fmt.Errorf("image host unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		observability.ObserveRelay("degraded", start)
		return "", fmt.Errorf("reading image host response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.ObserveRelay("degraded", start)
		return "", fmt.Errorf("image host returned status %d", resp.StatusCode)
	}

	var parsed relayResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		observability.ObserveRelay("degraded", start)
		return "", fmt.Errorf("malformed image host response: %w", err)
	}
	if !parsed.Success || parsed.Data.Link == "" {
		observability.ObserveRelay("degraded", start)
		return "", fmt.Errorf("image host rejected upload")
	}

	observability.ObserveRelay("relayed", start)
	return parsed.Data.Link, nil
}
