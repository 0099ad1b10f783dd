package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/textutil"
)

// articleRecord is the articles table row
type articleRecord struct {
	ID                string `gorm:"primaryKey"`
	Title             string
	Summary           string
	URL               string `gorm:"uniqueIndex"`
	SourceName        string
	SourceURL         string
	PublishedAt       time.Time
	Breaking          bool
	Category          string
	Confidence        int
	Pros              string // JSON-encoded list
	Cons              string
	ImpactScore       int
	DevelopmentImpact string
	MarketImpact      string
	Disruption        string
	TimeToImpact      string
	CreatedAt         time.Time
}

type mentionRecord struct {
	ID          string `gorm:"primaryKey"`
	Company     string `gorm:"index:idx_mention_pair,unique"`
	ArticleID   string `gorm:"index:idx_mention_pair,unique"`
	Type        string
	Sentiment   float64
	Context     string
	ExtractedAt time.Time
}

type fundingRecord struct {
	ID          string `gorm:"primaryKey"`
	Company     string `gorm:"index:idx_funding_pair,unique"`
	ArticleID   string `gorm:"index:idx_funding_pair,unique"`
	AmountUSD   float64
	Amount      string
	Round       string
	Investors   string // JSON-encoded list
	Location    string
	ExtractedAt time.Time
}

type trendRecord struct {
	Name          string `gorm:"primaryKey"`
	Category      string
	Stage         string
	MentionCount  int
	AvgSentiment  float64
	Direction     string
	LastMentioned time.Time
}

// PostgresRepository implements Repository on Postgres via gorm
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgres connects and migrates the schema
func NewPostgres(dsn string) (*PostgresRepository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := db.AutoMigrate(&articleRecord{}, &mentionRecord{}, &fundingRecord{}, &trendRecord{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// CreateArticles persists articles, skipping URL conflicts
func (r *PostgresRepository) CreateArticles(ctx context.Context, articles []model.Article) ([]model.Article, error) {
	var created []model.Article
	for _, a := range articles {
		if a.URL == "" {
			continue
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now().UTC()
		}

		rec := toArticleRecord(a)
		result := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "url"}}, DoNothing: true}).
			Create(&rec)
		if result.Error != nil {
			return created, fmt.Errorf("create article: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			created = append(created, a)
		}
	}
	return created, nil
}

// ArticlesSince returns articles created at or after the cutoff
func (r *PostgresRepository) ArticlesSince(ctx context.Context, since time.Time) ([]model.Article, error) {
	q := r.db.WithContext(ctx).Model(&articleRecord{})
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}

	var recs []articleRecord
	if err := q.Order("created_at asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}

	out := make([]model.Article, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromArticleRecord(rec))
	}
	return out, nil
}

// InsertMentionIfAbsent inserts unless the (company, article) pair
// exists.
func (r *PostgresRepository) InsertMentionIfAbsent(ctx context.Context, m model.CompanyMention) (bool, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	rec := mentionRecord{
		ID:          m.ID,
		Company:     textutil.NormalizeKey(m.Company),
		ArticleID:   m.ArticleID,
		Type:        string(m.Type),
		Sentiment:   m.Sentiment,
		Context:     m.Context,
		ExtractedAt: m.ExtractedAt,
	}

	q := r.db.WithContext(ctx)
	if m.ArticleID != "" {
		q = q.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company"}, {Name: "article_id"}},
			DoNothing: true,
		})
	}
	result := q.Create(&rec)
	if result.Error != nil {
		return false, fmt.Errorf("create mention: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// MentionsSince returns mentions extracted at or after the cutoff
func (r *PostgresRepository) MentionsSince(ctx context.Context, since time.Time) ([]model.CompanyMention, error) {
	q := r.db.WithContext(ctx).Model(&mentionRecord{})
	if !since.IsZero() {
		q = q.Where("extracted_at >= ?", since)
	}

	var recs []mentionRecord
	if err := q.Order("extracted_at asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("query mentions: %w", err)
	}

	out := make([]model.CompanyMention, 0, len(recs))
	for _, rec := range recs {
		out = append(out, model.CompanyMention{
			ID:          rec.ID,
			Company:     rec.Company,
			Type:        model.MentionType(rec.Type),
			Sentiment:   rec.Sentiment,
			Context:     rec.Context,
			ArticleID:   rec.ArticleID,
			ExtractedAt: rec.ExtractedAt,
		})
	}
	return out, nil
}

// InsertFundingIfAbsent inserts unless the (company, article) pair
// exists.
func (r *PostgresRepository) InsertFundingIfAbsent(ctx context.Context, ev model.FundingEvent) (bool, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	investors, err := json.Marshal(ev.Investors)
	if err != nil {
		return false, fmt.Errorf("encode investors: %w", err)
	}

	rec := fundingRecord{
		ID:          ev.ID,
		Company:     textutil.NormalizeKey(ev.Company),
		ArticleID:   ev.ArticleID,
		AmountUSD:   ev.AmountUSD,
		Amount:      ev.Amount,
		Round:       ev.Round,
		Investors:   string(investors),
		Location:    ev.Location,
		ExtractedAt: ev.ExtractedAt,
	}

	q := r.db.WithContext(ctx)
	if ev.ArticleID != "" {
		q = q.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company"}, {Name: "article_id"}},
			DoNothing: true,
		})
	}
	result := q.Create(&rec)
	if result.Error != nil {
		return false, fmt.Errorf("create funding event: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// FundingSince returns funding events extracted at or after the
// cutoff.
func (r *PostgresRepository) FundingSince(ctx context.Context, since time.Time) ([]model.FundingEvent, error) {
	q := r.db.WithContext(ctx).Model(&fundingRecord{})
	if !since.IsZero() {
		q = q.Where("extracted_at >= ?", since)
	}

	var recs []fundingRecord
	if err := q.Order("extracted_at asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("query funding events: %w", err)
	}

	out := make([]model.FundingEvent, 0, len(recs))
	for _, rec := range recs {
		var investors []string
		_ = json.Unmarshal([]byte(rec.Investors), &investors)
		out = append(out, model.FundingEvent{
			ID:          rec.ID,
			Company:     rec.Company,
			AmountUSD:   rec.AmountUSD,
			Amount:      rec.Amount,
			Round:       rec.Round,
			Investors:   investors,
			Location:    rec.Location,
			ArticleID:   rec.ArticleID,
			ExtractedAt: rec.ExtractedAt,
		})
	}
	return out, nil
}

// RecordTechnologyMention folds one observation into the trend table
// inside a transaction.
func (r *PostgresRepository) RecordTechnologyMention(ctx context.Context, patch model.TechnologyTrend) error {
	name := textutil.NormalizeKey(patch.Name)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec trendRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", name).First(&rec).Error

		if err == gorm.ErrRecordNotFound {
			count := patch.MentionCount
			if count < 1 {
				count = 1
			}
			return tx.Create(&trendRecord{
				Name:          name,
				Category:      string(patch.Category),
				Stage:         string(patch.Stage),
				MentionCount:  count,
				AvgSentiment:  patch.AvgSentiment,
				Direction:     string(patch.Direction),
				LastMentioned: patch.LastMentioned,
			}).Error
		}
		if err != nil {
			return fmt.Errorf("lock trend: %w", err)
		}

		trend := model.TechnologyTrend{
			MentionCount: rec.MentionCount,
			AvgSentiment: rec.AvgSentiment,
		}
		trend.RecordMention(patch.AvgSentiment, patch.LastMentioned)

		return tx.Model(&trendRecord{}).Where("name = ?", name).Updates(map[string]interface{}{
			"mention_count":  trend.MentionCount,
			"avg_sentiment":  trend.AvgSentiment,
			"stage":          string(patch.Stage),
			"last_mentioned": patch.LastMentioned,
		}).Error
	})
}

// TechnologyTrends returns all trend accumulators
func (r *PostgresRepository) TechnologyTrends(ctx context.Context) ([]model.TechnologyTrend, error) {
	var recs []trendRecord
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("query trends: %w", err)
	}

	out := make([]model.TechnologyTrend, 0, len(recs))
	for _, rec := range recs {
		out = append(out, model.TechnologyTrend{
			Name:          rec.Name,
			Category:      model.TechCategory(rec.Category),
			Stage:         model.AdoptionStage(rec.Stage),
			MentionCount:  rec.MentionCount,
			AvgSentiment:  rec.AvgSentiment,
			Direction:     model.TrendDirection(rec.Direction),
			LastMentioned: rec.LastMentioned,
		})
	}
	return out, nil
}

func toArticleRecord(a model.Article) articleRecord {
	pros, _ := json.Marshal(a.Pros)
	cons, _ := json.Marshal(a.Cons)
	return articleRecord{
		ID:                a.ID,
		Title:             a.Title,
		Summary:           a.Summary,
		URL:               a.URL,
		SourceName:        a.SourceName,
		SourceURL:         a.SourceURL,
		PublishedAt:       a.PublishedAt,
		Breaking:          a.Breaking,
		Category:          a.Category,
		Confidence:        a.Confidence,
		Pros:              string(pros),
		Cons:              string(cons),
		ImpactScore:       a.ImpactScore,
		DevelopmentImpact: a.DevelopmentImpact,
		MarketImpact:      a.MarketImpact,
		Disruption:        string(a.Disruption),
		TimeToImpact:      string(a.TimeToImpact),
		CreatedAt:         a.CreatedAt,
	}
}

func fromArticleRecord(rec articleRecord) model.Article {
	var pros, cons []string
	_ = json.Unmarshal([]byte(rec.Pros), &pros)
	_ = json.Unmarshal([]byte(rec.Cons), &cons)
	return model.Article{
		ID:                rec.ID,
		Title:             rec.Title,
		Summary:           rec.Summary,
		URL:               rec.URL,
		SourceName:        rec.SourceName,
		SourceURL:         rec.SourceURL,
		PublishedAt:       rec.PublishedAt,
		Breaking:          rec.Breaking,
		Category:          rec.Category,
		Confidence:        rec.Confidence,
		Pros:              pros,
		Cons:              cons,
		ImpactScore:       rec.ImpactScore,
		DevelopmentImpact: rec.DevelopmentImpact,
		MarketImpact:      rec.MarketImpact,
		Disruption:        model.DisruptionLevel(rec.Disruption),
		TimeToImpact:      model.TimeToImpact(rec.TimeToImpact),
		CreatedAt:         rec.CreatedAt,
	}
}
