package analyze

import (
	"time"

	"github.com/marketbeacon/marketbeacon/internal/model"
)

func testConfig(provider string) model.AnalyzerConfig {
	return model.AnalyzerConfig{
		Provider:           provider,
		APIKey:             "test-key",
		Model:              "gpt-4o-mini",
		Timeout:            5 * time.Second,
		RelevanceThreshold: 60,
	}
}
