package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketbeacon/marketbeacon/internal/model"
	"github.com/marketbeacon/marketbeacon/internal/verify"
)

var (
	verifyTitle   string
	verifySummary string
	verifySource  string
	verifyDate    string
	verifyJSONIn  string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <url>",
	Short: "Score one candidate article against the trust tables",
	Long: `Verify runs credibility scoring for a single candidate without
persisting anything. Useful for checking why an article was or would
be rejected.

Example:
  marketbeacon verify https://techcrunch.com/story --title "OpenAI raises $500M" --source TechCrunch
  marketbeacon verify --json candidate.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyTitle, "title", "", "candidate title")
	verifyCmd.Flags().StringVar(&verifySummary, "summary", "", "candidate summary")
	verifyCmd.Flags().StringVar(&verifySource, "source", "", "source outlet name")
	verifyCmd.Flags().StringVar(&verifyDate, "published", "", "publish date (RFC 3339)")
	verifyCmd.Flags().StringVar(&verifyJSONIn, "json", "", "read the full candidate from a JSON file")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cand, err := candidateFromInput(args)
	if err != nil {
		return err
	}

	v := verify.New(cfg.Verify).Verify(cand)

	fmt.Printf("Valid:      %v\n", v.IsValid)
	fmt.Printf("Confidence: %d/100\n", int(v.Confidence*100))
	if len(v.Issues) > 0 {
		fmt.Println("Issues:")
		for _, issue := range v.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}

	if !v.IsValid {
		os.Exit(1)
	}
	return nil
}

func candidateFromInput(args []string) (model.CandidateArticle, error) {
	var cand model.CandidateArticle

	if verifyJSONIn != "" {
		data, err := os.ReadFile(verifyJSONIn)
		if err != nil {
			return cand, fmt.Errorf("reading %s: %w", verifyJSONIn, err)
		}
		if err := json.Unmarshal(data, &cand); err != nil {
			return cand, fmt.Errorf("parsing %s: %w", verifyJSONIn, err)
		}
		return cand, nil
	}

	if len(args) == 0 {
		return cand, fmt.Errorf("either a URL argument or --json is required")
	}

	cand.URL = args[0]
	cand.Title = verifyTitle
	cand.Summary = verifySummary
	cand.SourceName = verifySource
	if verifyDate != "" {
		at, err := time.Parse(time.RFC3339, verifyDate)
		if err != nil {
			return cand, fmt.Errorf("parsing --published: %w", err)
		}
		cand.PublishedAt = at
	}
	return cand, nil
}
