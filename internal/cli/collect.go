package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var collectTimeout time.Duration

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one collection cycle over the configured sources",
	Long: `Collect fetches every due source, filters and deduplicates the
merged batch, verifies credibility, and persists admitted articles
plus the entities extracted from them.

Example:
  marketbeacon collect
  marketbeacon collect --timeout 5m -v`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().DurationVar(&collectTimeout, "timeout", 5*time.Minute, "overall cycle timeout")
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("no sources configured; add sources to the config file (marketbeacon config init)")
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	result, err := a.collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	fmt.Printf("Sources due:       %d\n", result.SourcesDue)
	fmt.Printf("Sources processed: %d\n", result.SourcesProcessed)
	fmt.Printf("Candidates seen:   %d\n", result.CandidatesSeen)
	fmt.Printf("Duplicates:        %d\n", result.Duplicates)
	fmt.Printf("Rejected:          %d\n", result.Rejected)
	fmt.Printf("Articles added:    %d\n", result.ArticlesAdded)
	fmt.Printf("Took:              %v\n", result.Duration.Round(time.Millisecond))
	if result.Warning != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", result.Warning)
	}

	return nil
}
