package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// fearGreedURL is the alternative.me crypto fear-and-greed endpoint.
const fearGreedURL = "https://api.alternative.me/fng/?limit=1"

// FearGreedClient implements SentimentSource against alternative.me.
type FearGreedClient struct {
	client *http.Client
	url    string
}

// NewFearGreedClient creates a sentiment client with optional proxy support.
func NewFearGreedClient(proxyURL string) *FearGreedClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FearGreedClient{
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
		url: fearGreedURL,
	}
}

// NewFearGreedClientWithURL creates a client pointed at a custom endpoint,
// used by tests.
func NewFearGreedClientWithURL(endpoint string) *FearGreedClient {
	return &FearGreedClient{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    endpoint,
	}
}

// FetchFearGreed returns the latest index value, 0..100.
func (c *FearGreedClient) FetchFearGreed(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fng fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("fng read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fng: status %d", resp.StatusCode)
	}

	var payload struct {
		Data []struct {
			Value string `json:"value"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("fng decode: %w", err)
	}
	if len(payload.Data) == 0 {
		return 0, fmt.Errorf("fng: empty response")
	}
	value, err := strconv.Atoi(payload.Data[0].Value)
	if err != nil {
		return 0, fmt.Errorf("fng parse value: %w", err)
	}
	return value, nil
}
