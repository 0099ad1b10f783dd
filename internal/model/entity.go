package model

import "time"

// MentionType classifies what a company mention is about
type MentionType string

const (
	MentionFunding       MentionType = "funding"
	MentionPartnership   MentionType = "partnership"
	MentionProductLaunch MentionType = "product-launch"
	MentionAcquisition   MentionType = "acquisition"
	MentionHiring        MentionType = "hiring"
	MentionResearch      MentionType = "research"
	MentionGeneral       MentionType = "general-mention"
)

// TechCategory buckets technologies into broad families
type TechCategory string

const (
	CategoryLLM            TechCategory = "llm"
	CategoryComputerVision TechCategory = "computer-vision"
	CategoryRobotics       TechCategory = "robotics"
	CategoryVoiceAI        TechCategory = "voice-ai"
	CategoryAITools        TechCategory = "ai-tools"
)

// AdoptionStage is a technology's lifecycle stage
type AdoptionStage string

const (
	StageExperimental AdoptionStage = "experimental"
	StageEmerging     AdoptionStage = "emerging"
	StageGrowing      AdoptionStage = "growing"
	StageMainstream   AdoptionStage = "mainstream"
	StageDeclining    AdoptionStage = "declining"
)

// TrendDirection describes which way a metric is moving
type TrendDirection string

const (
	TrendRising    TrendDirection = "rising"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// CompanyMention records one company being mentioned in text.
// ArticleID is a weak reference: independent mentions carry none.
type CompanyMention struct {
	ID          string      `json:"id"`
	Company     string      `json:"company"`
	Type        MentionType `json:"type"`
	Sentiment   float64     `json:"sentiment"` // [-1,1]
	Context     string      `json:"context,omitempty"`
	ArticleID   string      `json:"article_id,omitempty"`
	ExtractedAt time.Time   `json:"extracted_at"`
}

// FundingEvent records one extracted funding round.
type FundingEvent struct {
	ID          string    `json:"id"`
	Company     string    `json:"company"`
	AmountUSD   float64   `json:"amount_usd"`
	Amount      string    `json:"amount"` // display form, e.g. "$10.0M"
	Round       string    `json:"round"`
	Investors   []string  `json:"investors,omitempty"`
	Location    string    `json:"location,omitempty"`
	ArticleID   string    `json:"article_id,omitempty"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// TechnologyTrend is the running per-technology accumulator. Unlike
// mentions and funding events it is mutated in place: MentionCount
// only ever grows and AvgSentiment is a weighted running mean.
type TechnologyTrend struct {
	Name          string         `json:"name"` // unique key, normalized
	Category      TechCategory   `json:"category"`
	Stage         AdoptionStage  `json:"stage"`
	MentionCount  int            `json:"mention_count"`
	AvgSentiment  float64        `json:"avg_sentiment"`
	Direction     TrendDirection `json:"direction"`
	LastMentioned time.Time      `json:"last_mentioned"`
}

// RecordMention folds one new sentiment observation into the trend.
func (t *TechnologyTrend) RecordMention(sentiment float64, at time.Time) {
	t.AvgSentiment = (t.AvgSentiment*float64(t.MentionCount) + sentiment) / float64(t.MentionCount+1)
	t.MentionCount++
	if at.After(t.LastMentioned) {
		t.LastMentioned = at
	}
}

// Extraction is the combined output of one extraction pass over an
// article or free-standing text.
type Extraction struct {
	Funding  []FundingEvent    `json:"funding"`
	Mentions []CompanyMention  `json:"mentions"`
	Trends   []TechnologyTrend `json:"trends"`
}
