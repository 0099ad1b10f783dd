package extract

import (
	"strings"
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/textutil"
)

// categoryRules map technology-name substrings to categories, checked
// in order.
var categoryRules = []struct {
	substrings []string
	category   model.TechCategory
}{
	{[]string{"gpt", "claude", "gemini", "llama", "mistral", "llm", "language model", "fine-tuning"}, model.CategoryLLM},
	{[]string{"vision", "image", "diffusion", "dall-e", "midjourney", "sora"}, model.CategoryComputerVision},
	{[]string{"robot", "autonomous", "vehicle", "drone", "humanoid"}, model.CategoryRobotics},
	{[]string{"voice", "speech", "whisper", "text-to-speech", "audio"}, model.CategoryVoiceAI},
}

// stageRules infer adoption stage from surrounding language
var stageRules = []struct {
	keywords []string
	stage    model.AdoptionStage
}{
	{[]string{"mainstream", "widespread", "adopted"}, model.StageMainstream},
	{[]string{"emerging", "growing", "expanding"}, model.StageEmerging},
	{[]string{"experimental", "prototype", "research"}, model.StageExperimental},
}

// extractTechnologies returns one trend patch per roster technology
// found in the text. Each patch carries a single observation
// (count 1); the store folds it into the running trend.
func (e *Extractor) extractTechnologies(text string, now time.Time) []model.TechnologyTrend {
	var trends []model.TechnologyTrend

	sentiment := scoreSentiment(text, e.cfg.PositiveWords, e.cfg.NegativeWords)
	stage := detectStage(text)

	for _, tech := range e.cfg.Technologies {
		if !textutil.ContainsWholeWord(text, tech) {
			continue
		}

		trends = append(trends, model.TechnologyTrend{
			Name:          textutil.NormalizeKey(tech),
			Category:      categorize(tech),
			Stage:         stage,
			MentionCount:  1,
			AvgSentiment:  sentiment,
			Direction:     model.TrendStable,
			LastMentioned: now,
		})
	}

	return trends
}

// categorize maps a technology name to its category by substring rule
func categorize(tech string) model.TechCategory {
	lower := strings.ToLower(tech)
	for _, rule := range categoryRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.category
			}
		}
	}
	return model.CategoryAITools
}

// detectStage infers the adoption stage claimed by the text itself,
// defaulting to emerging.
func detectStage(text string) model.AdoptionStage {
	lower := strings.ToLower(text)
	for _, rule := range stageRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.stage
			}
		}
	}
	return model.StageEmerging
}
