package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var insightsOut string

// insightsCmd represents the insights command
var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Build and print the accumulated market insight view",
	Long: `Insights rebuilds the derived market view from the entity store:
company growth metrics, technology adoption curves, investor
patterns, market trend indicators, and emerging themes.

Example:
  marketbeacon insights
  marketbeacon insights --json insights.json`,
	RunE: runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)

	insightsCmd.Flags().StringVar(&insightsOut, "json", "", "write the view to a file instead of stdout")
}

func runInsights(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	view, err := a.engine.Build(ctx)
	if err != nil {
		return fmt.Errorf("building insights: %w", err)
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding insights: %w", err)
	}

	if insightsOut != "" {
		if err := os.WriteFile(insightsOut, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", insightsOut, err)
		}
		fmt.Printf("Wrote insights to %s\n", insightsOut)
		return nil
	}

	fmt.Println(string(data))
	return nil
}
