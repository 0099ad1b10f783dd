package model

import "time"

// DisruptionLevel describes how disruptive an admitted article's subject is
type DisruptionLevel string

const (
	DisruptionLow           DisruptionLevel = "low"
	DisruptionModerate      DisruptionLevel = "moderate"
	DisruptionHigh          DisruptionLevel = "high"
	DisruptionRevolutionary DisruptionLevel = "revolutionary"
)

// TimeToImpact describes the expected horizon of an article's subject
type TimeToImpact string

const (
	ImpactImmediate  TimeToImpact = "immediate"
	ImpactShortTerm  TimeToImpact = "short-term"
	ImpactMediumTerm TimeToImpact = "medium-term"
	ImpactLongTerm   TimeToImpact = "long-term"
)

// CandidateArticle is an unverified item returned by a source fetch.
// It lives only for the duration of a collection cycle: either it
// passes verification and becomes an Article, or it is dropped.
type CandidateArticle struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	SourceName  string    `json:"source_name"`
	SourceURL   string    `json:"source_url"`
	PublishedAt time.Time `json:"published_at"`
	Breaking    bool      `json:"breaking,omitempty"`
}

// Article is an admitted, persisted article. Immutable after creation.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	SourceName  string    `json:"source_name"`
	SourceURL   string    `json:"source_url"`
	PublishedAt time.Time `json:"published_at"`
	Breaking    bool      `json:"breaking,omitempty"`

	Category   string   `json:"category"`
	Confidence int      `json:"confidence"` // 0-100
	Pros       []string `json:"pros,omitempty"`
	Cons       []string `json:"cons,omitempty"`

	ImpactScore       int             `json:"impact_score"` // 0-10
	DevelopmentImpact string          `json:"development_impact,omitempty"`
	MarketImpact      string          `json:"market_impact,omitempty"`
	Disruption        DisruptionLevel `json:"disruption"`
	TimeToImpact      TimeToImpact    `json:"time_to_impact"`

	CreatedAt time.Time `json:"created_at"`
}

// Analysis is the structured judgment returned by the external
// article analyzer. Relevance below the configured threshold means
// "discard", not an error.
type Analysis struct {
	Category          string          `json:"category"`
	Confidence        int             `json:"confidence"` // 0-100
	Summary           string          `json:"summary"`
	IsRelevant        bool            `json:"is_relevant"`
	RelevanceScore    int             `json:"relevance_score"` // 0-100
	Pros              []string        `json:"pros,omitempty"`
	Cons              []string        `json:"cons,omitempty"`
	ImpactScore       int             `json:"impact_score"`
	DevelopmentImpact string          `json:"development_impact,omitempty"`
	MarketImpact      string          `json:"market_impact,omitempty"`
	Disruption        DisruptionLevel `json:"disruption"`
	TimeToImpact      TimeToImpact    `json:"time_to_impact"`
}

// Verification is the outcome of credibility scoring for one
// candidate article. Confidence is internal 0-1; the API layer scales
// it to 0-100.
type Verification struct {
	IsValid    bool     `json:"is_valid"`
	Confidence float64  `json:"confidence"`
	Issues     []string `json:"issues"`
}

// SourceConfig describes one configured article source.
type SourceConfig struct {
	ID       string `json:"id" yaml:"id" mapstructure:"id"`
	Name     string `json:"name" yaml:"name" mapstructure:"name"`
	Kind     string `json:"kind" yaml:"kind" mapstructure:"kind"` // feed, search, financial
	URL      string `json:"url" yaml:"url" mapstructure:"url"`
	Query    string `json:"query,omitempty" yaml:"query,omitempty" mapstructure:"query"`
	Interval int    `json:"interval_minutes" yaml:"interval_minutes" mapstructure:"interval_minutes"`
}
