package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

const analysisSystemPrompt = `You are a market-intelligence analyst for the AI industry.
Given an article's title and body, respond with a single JSON object:
{
  "category": "funding|product|research|partnership|policy|market|other",
  "confidence": 0-100,
  "summary": "2-3 sentence factual summary",
  "is_relevant": true|false,
  "relevance_score": 0-100,
  "pros": ["..."],
  "cons": ["..."],
  "impact_score": 0-10,
  "development_impact": "...",
  "market_impact": "...",
  "disruption": "low|moderate|high|revolutionary",
  "time_to_impact": "immediate|short-term|medium-term|long-term"
}
Relevance measures whether the article is about the AI technology market.
Respond with JSON only, no prose.`

// OpenAIAnalyzer implements Analyzer on any OpenAI-compatible chat
// API, including local Ollama servers.
type OpenAIAnalyzer struct {
	client *openai.Client
	cfg    model.AnalyzerConfig
	name   string
}

// NewOpenAIAnalyzer creates an OpenAI-backed analyzer
func NewOpenAIAnalyzer(cfg model.AnalyzerConfig) (*OpenAIAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIAnalyzer{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		name:   "openai",
	}, nil
}

// Name returns the analyzer name
func (a *OpenAIAnalyzer) Name() string {
	return a.name
}

// IsAvailable checks if the analyzer is properly configured
func (a *OpenAIAnalyzer) IsAvailable(ctx context.Context) bool {
	_, err := a.client.ListModels(ctx)
	return err == nil
}

// Analyze sends title+body to the model and parses the structured
// judgment.
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, title, body string) (*model.Analysis, error) {
	timeout := a.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatModel := a.cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Title: %s\n\nBody:\n%s", title, body)},
		},
		MaxTokens:   800,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("analyzer API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty analyzer response")
	}

	return parseAnalysis(resp.Choices[0].Message.Content)
}

// parseAnalysis decodes the model's JSON reply, tolerating code
// fences, and clamps every numeric field to its declared domain.
func parseAnalysis(content string) (*model.Analysis, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var analysis model.Analysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &analysis); err != nil {
		return nil, fmt.Errorf("parse analyzer response: %w", err)
	}

	analysis.Confidence = clampInt(analysis.Confidence, 0, 100)
	analysis.RelevanceScore = clampInt(analysis.RelevanceScore, 0, 100)
	analysis.ImpactScore = clampInt(analysis.ImpactScore, 0, 10)

	return &analysis, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
