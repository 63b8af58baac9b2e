package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Trigger a collect+analyze run and wait for it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			fmt.Println("Starting analysis run...")
			run, err := apiClient.Runs().Trigger(ctx)
			if err != nil {
				return fmt.Errorf("failed to trigger run: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(run)
			}

			fmt.Printf("Run %s %s\n", run.ID, formatStatus(run.Status))
			fmt.Printf("  Series analyzed:  %d (%d failed)\n", run.SeriesTotal, run.SeriesFailed)
			fmt.Printf("  Anomalies:        %d\n", run.AnomalyCount)
			fmt.Printf("  Recommendations:  %d (%d suppressed)\n", run.RecommendationCount, run.Suppressed)
			fmt.Printf("  Projected cost:   $%.2f/month\n", run.TotalProjectedCost)
			if run.Error != "" {
				fmt.Printf("  Error:            %s\n", run.Error)
			}
			return nil
		},
	}
}
