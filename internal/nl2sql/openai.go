package nl2sql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Model identifiers are fixed at build time.
const (
	GroqModel   = "llama3-8b-8192"
	OpenAIModel = "gpt-4o-mini"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

const (
	DefaultGroqBaseURL   = "https://api.groq.com/openai"
	DefaultOpenAIBaseURL = "https://api.openai.com"
)

type ChatConfig struct {
	Provider   string
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// ChatCompleter talks to an OpenAI-compatible chat completions endpoint.
type ChatCompleter struct {
	provider string
	baseURL  string
	apiKey   string
	model    string
	client   *http.Client
}

var _ Completer = (*ChatCompleter)(nil)

func NewChatCompleter(cfg ChatConfig) (*ChatCompleter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	var model, baseURL string
	switch provider {
	case ProviderGroq, "":
		provider, model, baseURL = ProviderGroq, GroqModel, DefaultGroqBaseURL
	case ProviderOpenAI:
		model, baseURL = OpenAIModel, DefaultOpenAIBaseURL
	default:
		return nil, fmt.Errorf("unsupported chat provider %q", cfg.Provider)
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		baseURL = strings.TrimSpace(cfg.BaseURL)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &ChatCompleter{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   strings.TrimSpace(cfg.APIKey),
		model:    model,
		client:   client,
	}, nil
}

func (c *ChatCompleter) Provider() string { return c.provider }

func (c *ChatCompleter) Model() string { return c.model }

func (c *ChatCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request chat completion: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	rawRespBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("chat completion failed status=%d body=%s", resp.StatusCode, string(rawRespBody))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(rawRespBody, &parsed); err != nil {
		return "", fmt.Errorf("decode chat completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty chat completion choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
