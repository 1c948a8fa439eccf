package council

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"CoinSentinel/internal/config"
)

// ChatProvider is one council member: a chat-completion API behind a persona.
type ChatProvider interface {
	Name() string
	Persona() string
	Ask(ctx context.Context, prompt string) (string, error)
}

// NewProvider builds a provider from config. "openai" covers every
// OpenAI-compatible endpoint (OpenAI, xAI, Gemini's compat layer);
// "anthropic" uses the Anthropic messages API.
func NewProvider(cfg config.ProviderConfig) (ChatProvider, error) {
	client := &http.Client{Timeout: 25 * time.Second}
	switch cfg.Kind {
	case "openai":
		return &openAIProvider{cfg: cfg, client: client}, nil
	case "anthropic":
		return &anthropicProvider{cfg: cfg, client: client}, nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Kind)
	}
}

type openAIProvider struct {
	cfg    config.ProviderConfig
	client *http.Client
}

func (p *openAIProvider) Name() string    { return p.cfg.Name }
func (p *openAIProvider) Persona() string { return p.cfg.Persona }

func (p *openAIProvider) Ask(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"model": p.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": p.cfg.Persona},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.5,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := strings.TrimSuffix(p.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.cfg.Name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: status %d, body: %s", p.cfg.Name, resp.StatusCode, string(respBody))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%s decode: %w", p.cfg.Name, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s: empty choices", p.cfg.Name)
	}
	return out.Choices[0].Message.Content, nil
}

type anthropicProvider struct {
	cfg    config.ProviderConfig
	client *http.Client
}

func (p *anthropicProvider) Name() string    { return p.cfg.Name }
func (p *anthropicProvider) Persona() string { return p.cfg.Persona }

func (p *anthropicProvider) Ask(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"model":      p.cfg.Model,
		"max_tokens": 1000,
		"system":     p.cfg.Persona,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := strings.TrimSuffix(p.cfg.BaseURL, "/") + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", p.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.cfg.Name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: status %d, body: %s", p.cfg.Name, resp.StatusCode, string(respBody))
	}

	var out struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%s decode: %w", p.cfg.Name, err)
	}
	if len(out.Content) == 0 {
		return "", fmt.Errorf("%s: empty content", p.cfg.Name)
	}
	return out.Content[0].Text, nil
}
