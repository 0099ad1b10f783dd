package analyze

import (
	"github.com/sashabaranov/go-openai"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

const defaultOllamaBaseURL = "http://localhost:11434/v1"

// NewOllamaAnalyzer creates an analyzer backed by a local Ollama
// server via its OpenAI-compatible endpoint. No API key required.
func NewOllamaAnalyzer(cfg model.AnalyzerConfig) (*OpenAIAnalyzer, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	clientConfig := openai.DefaultConfig("ollama")
	clientConfig.BaseURL = baseURL

	if cfg.Model == "" {
		cfg.Model = "llama3.2"
	}

	return &OpenAIAnalyzer{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		name:   "ollama",
	}, nil
}
