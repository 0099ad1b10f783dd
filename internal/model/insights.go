package model

import "time"

// PotentialImpact tiers an emerging theme's expected significance
type PotentialImpact string

const (
	PotentialHigh   PotentialImpact = "high"
	PotentialMedium PotentialImpact = "medium"
	PotentialLow    PotentialImpact = "low"
)

// CountPair is an ordered key/count pair, used in place of maps at
// the transport boundary so serialization order is deterministic.
type CountPair struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// PercentPair is an ordered key/percentage pair.
type PercentPair struct {
	Key     string  `json:"key"`
	Percent float64 `json:"percent"`
}

// SentimentPoint is one step in a company's sentiment trend series.
type SentimentPoint struct {
	Month     string  `json:"month"` // YYYY-MM
	Sentiment float64 `json:"sentiment"`
}

// CompanyGrowthMetric summarizes one company's trajectory across the
// accumulated mention and funding corpus.
type CompanyGrowthMetric struct {
	Company        string           `json:"company"`
	FirstMention   time.Time        `json:"first_mention"`
	TotalMentions  int              `json:"total_mentions"`
	GrowthRate     float64          `json:"growth_rate"` // mentions/month, percent
	FundingHistory []FundingEvent   `json:"funding_history,omitempty"`
	SentimentTrend []SentimentPoint `json:"sentiment_trend,omitempty"`
	Milestones     []string         `json:"milestones,omitempty"`
}

// TechnologyAdoptionCurve summarizes one technology's adoption arc.
type TechnologyAdoptionCurve struct {
	Technology      string        `json:"technology"`
	FirstAppearance time.Time     `json:"first_appearance"`
	Phase           AdoptionStage `json:"phase"`
	MonthlyMentions []CountPair   `json:"monthly_mentions"` // ordered by month
	Related         []string      `json:"related,omitempty"`
	// IndustryAdoption is estimated from mention share, not measured.
	IndustryAdoption []PercentPair `json:"industry_adoption,omitempty"`
	Estimated        bool          `json:"estimated"`
}

// InvestorPattern summarizes one investor's behavior across funding
// events.
type InvestorPattern struct {
	Investor        string      `json:"investor"`
	InvestmentCount int         `json:"investment_count"`
	AvgCheckUSD     float64     `json:"avg_check_usd"`
	PreferredStages []string    `json:"preferred_stages,omitempty"` // top 3 round labels
	SectorFocus     []string    `json:"sector_focus,omitempty"`
	CoInvestors     []CountPair `json:"co_investors,omitempty"`
	SuccessRate     float64     `json:"success_rate"` // follow-on funding proxy, 0-1
}

// MarketTrendIndicator is one named composite market metric.
type MarketTrendIndicator struct {
	Name       string         `json:"name"`
	Value      float64        `json:"value"`
	Direction  TrendDirection `json:"direction"`
	Confidence float64        `json:"confidence"` // 0-1
}

// EmergingTheme is a recently formed topic cluster with momentum.
type EmergingTheme struct {
	Theme           string          `json:"theme"`
	FirstDetected   time.Time       `json:"first_detected"`
	GrowthRate      float64         `json:"growth_rate"` // related articles per month
	RelatedArticles int             `json:"related_articles"`
	Potential       PotentialImpact `json:"potential"`
}

// AccumulatedInsights is the full derived view over the entity store.
// It is always rebuildable from source data and cached with a TTL;
// the cache is never authoritative.
type AccumulatedInsights struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Companies   []CompanyGrowthMetric     `json:"companies"`
	Adoption    []TechnologyAdoptionCurve `json:"adoption"`
	Investors   []InvestorPattern         `json:"investors"`
	Indicators  []MarketTrendIndicator    `json:"indicators"`
	Themes      []EmergingTheme           `json:"themes"`
}
