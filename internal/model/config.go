package model

import "time"

// Config holds all runtime configuration. Values are layered by the
// CLI: flags > MARKETBEACON_* env vars > config file > defaults.
type Config struct {
	Sources   []SourceConfig  `yaml:"sources" mapstructure:"sources"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Verify    VerifyConfig    `yaml:"verify" mapstructure:"verify"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer" mapstructure:"analyzer"`
	Collector CollectorConfig `yaml:"collector" mapstructure:"collector"`
	Insights  InsightsConfig  `yaml:"insights" mapstructure:"insights"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`
	LogLevel  string          `yaml:"log_level" mapstructure:"log_level"`
}

// HTTPConfig controls outbound HTTP behavior for fetcher adapters.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// CacheConfig controls SourceCache entry lifetimes.
type CacheConfig struct {
	SeenTTL         time.Duration `yaml:"seen_ttl" mapstructure:"seen_ttl"`
	AnalysisTTL     time.Duration `yaml:"analysis_ttl" mapstructure:"analysis_ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// VerifyConfig carries the static trust tables for credibility
// scoring. Domain checks are pure allow-list membership; no live
// fetches.
type VerifyConfig struct {
	TrustedDomains       []string `yaml:"trusted_domains" mapstructure:"trusted_domains"`
	KnownOutlets         []string `yaml:"known_outlets" mapstructure:"known_outlets"`
	SuspiciousPatterns   []string `yaml:"suspicious_patterns" mapstructure:"suspicious_patterns"`
	FabricatedIndicators []string `yaml:"fabricated_indicators" mapstructure:"fabricated_indicators"`
	MinConfidence        float64  `yaml:"min_confidence" mapstructure:"min_confidence"`
	MaxArticleAgeDays    int      `yaml:"max_article_age_days" mapstructure:"max_article_age_days"`
	MinSummaryLength     int      `yaml:"min_summary_length" mapstructure:"min_summary_length"`
}

// MentionBucket maps a mention type to its trigger keywords. Buckets
// are checked in slice order; the first hit wins.
type MentionBucket struct {
	Type     MentionType `yaml:"type" mapstructure:"type"`
	Keywords []string    `yaml:"keywords" mapstructure:"keywords"`
}

// ExtractConfig carries the rosters and lexicons for deterministic
// pattern extraction.
type ExtractConfig struct {
	Companies      []string        `yaml:"companies" mapstructure:"companies"`
	Technologies   []string        `yaml:"technologies" mapstructure:"technologies"`
	MentionBuckets []MentionBucket `yaml:"mention_buckets" mapstructure:"mention_buckets"`
	PositiveWords  []string        `yaml:"positive_words" mapstructure:"positive_words"`
	NegativeWords  []string        `yaml:"negative_words" mapstructure:"negative_words"`
}

// AnalyzerConfig configures the external article analyzer.
type AnalyzerConfig struct {
	Provider           string        `yaml:"provider" mapstructure:"provider"` // "openai", "ollama", or "" (disabled)
	APIKey             string        `yaml:"-" mapstructure:"api_key"`
	BaseURL            string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Model              string        `yaml:"model" mapstructure:"model"`
	Timeout            time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RelevanceThreshold int           `yaml:"relevance_threshold" mapstructure:"relevance_threshold"`
	PaceInterval       time.Duration `yaml:"pace_interval" mapstructure:"pace_interval"`
}

// CollectorConfig controls collection cycles.
type CollectorConfig struct {
	Workers          int           `yaml:"workers" mapstructure:"workers"`
	SourceTimeout    time.Duration `yaml:"source_timeout" mapstructure:"source_timeout"`
	DefaultInterval  int           `yaml:"default_interval_minutes" mapstructure:"default_interval_minutes"`
	TitleSimilarity  float64       `yaml:"title_similarity" mapstructure:"title_similarity"`
	SourceRateLimit  float64       `yaml:"source_rate_limit" mapstructure:"source_rate_limit"` // req/s per source
	SourceRateBurst  int           `yaml:"source_rate_burst" mapstructure:"source_rate_burst"`
	CronSchedule     string        `yaml:"cron_schedule" mapstructure:"cron_schedule"`
}

// InsightsConfig controls the accumulation engine.
type InsightsConfig struct {
	CacheTTL         time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	MentionMilestone int           `yaml:"mention_milestone" mapstructure:"mention_milestone"`
	RecentWindowDays int           `yaml:"recent_window_days" mapstructure:"recent_window_days"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DatabaseConfig configures the Postgres repository. Empty DSN means
// the in-memory repository is used.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// DefaultConfig returns the built-in configuration, including the
// static trust allow-list, rosters, and lexicons.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "MarketBeacon/0.1 (+https://github.com/marketbeacon/marketbeacon)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			SeenTTL:         7 * 24 * time.Hour,
			AnalysisTTL:     24 * time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		Verify: VerifyConfig{
			TrustedDomains: []string{
				"techcrunch.com", "theverge.com", "wired.com", "arstechnica.com",
				"venturebeat.com", "technologyreview.com", "zdnet.com", "engadget.com",
				"thenextweb.com", "reuters.com", "bloomberg.com", "cnbc.com",
				"forbes.com", "wsj.com", "ft.com", "nytimes.com", "axios.com",
				"theinformation.com", "businessinsider.com", "finance.yahoo.com",
			},
			KnownOutlets: []string{
				"TechCrunch", "The Verge", "Wired", "Ars Technica", "VentureBeat",
				"MIT Technology Review", "ZDNet", "Engadget", "The Next Web",
				"Reuters", "Bloomberg", "CNBC", "Forbes", "The Wall Street Journal",
				"Financial Times", "The New York Times", "Axios", "The Information",
				"Business Insider", "Yahoo Finance",
			},
			SuspiciousPatterns: []string{
				`\bgpt-?[789]\b`, `\bgpt-?1[0-9]\b`, `\bagi breakthrough\b`,
				`\bsentient\b`, `\bbecomes? self-?aware\b`, `\bsingularity (is here|achieved|arrives)\b`,
				`\bsuperintelligence (achieved|arrives)\b`, `\bai takes? over\b`,
			},
			FabricatedIndicators: []string{
				"exclusive leak", "ai apocalypse", "insider reveals", "secret ai project",
				"they don't want you to know", "shocking truth", "100% proof",
			},
			MinConfidence:     0.5,
			MaxArticleAgeDays: 90,
			MinSummaryLength:  50,
		},
		Extract: ExtractConfig{
			Companies: []string{
				"OpenAI", "Anthropic", "Google DeepMind", "DeepMind", "Meta AI",
				"Microsoft", "Google", "Nvidia", "Mistral AI", "Cohere",
				"Hugging Face", "Stability AI", "Perplexity", "xAI", "Scale AI",
				"Databricks", "Runway", "Inflection AI", "Character AI", "Adept",
				"Midjourney", "Figure", "Waymo", "Cruise", "ElevenLabs",
			},
			Technologies: []string{
				"GPT-4", "GPT-4o", "Claude", "Gemini", "Llama", "Mistral",
				"Stable Diffusion", "DALL-E", "Midjourney", "Sora", "Whisper",
				"LangChain", "Retrieval-Augmented Generation", "Vector Database",
				"Transformer", "Diffusion Model", "Computer Vision",
				"Autonomous Vehicle", "Humanoid Robot", "Robotic Arm",
				"Voice Assistant", "Speech Recognition", "Text-to-Speech",
				"Copilot", "AI Agent", "Fine-Tuning",
			},
			MentionBuckets: []MentionBucket{
				{Type: MentionPartnership, Keywords: []string{"partnership", "partners with", "teams up", "collaboration", "joint venture", "alliance"}},
				{Type: MentionFunding, Keywords: []string{"raises", "raised", "funding", "investment", "series", "seed round", "valuation"}},
				{Type: MentionProductLaunch, Keywords: []string{"launches", "launched", "unveils", "releases", "announces", "introduces", "debuts"}},
				{Type: MentionAcquisition, Keywords: []string{"acquires", "acquired", "acquisition", "buys", "merger", "takeover"}},
				{Type: MentionHiring, Keywords: []string{"hires", "hiring", "appoints", "joins as", "recruits", "new ceo", "new cto"}},
				{Type: MentionResearch, Keywords: []string{"research", "paper", "study", "benchmark", "breakthrough in"}},
			},
			PositiveWords: []string{
				"breakthrough", "growth", "success", "innovative", "leading",
				"record", "milestone", "strong", "expansion", "surge", "outperform",
			},
			NegativeWords: []string{
				"layoffs", "lawsuit", "decline", "failure", "shutdown",
				"loss", "controversy", "breach", "fraud", "plunge", "recall",
			},
		},
		Analyzer: AnalyzerConfig{
			Provider:           "",
			Model:              "gpt-4o-mini",
			Timeout:            30 * time.Second,
			RelevanceThreshold: 60,
			PaceInterval:       500 * time.Millisecond,
		},
		Collector: CollectorConfig{
			Workers:         4,
			SourceTimeout:   30 * time.Second,
			DefaultInterval: 30,
			TitleSimilarity: 0.75,
			SourceRateLimit: 1,
			SourceRateBurst: 2,
			CronSchedule:    "*/30 * * * *",
		},
		Insights: InsightsConfig{
			CacheTTL:         time.Hour,
			MentionMilestone: 50,
			RecentWindowDays: 30,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		LogLevel: "info",
	}
}
