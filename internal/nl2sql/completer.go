package nl2sql

import (
	"context"
	"net/http"
	"strings"
)

// CompleterConfig picks a provider. An empty provider means groq.
type CompleterConfig struct {
	Provider   string
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewCompleter(ctx context.Context, cfg CompleterConfig) (Completer, error) {
	if strings.EqualFold(strings.TrimSpace(cfg.Provider), ProviderGemini) {
		return NewGeminiCompleter(ctx, cfg.APIKey)
	}
	return NewChatCompleter(ChatConfig{
		Provider:   cfg.Provider,
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		HTTPClient: cfg.HTTPClient,
	})
}
