package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show summary of the latest analysis run",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			summary, err := apiClient.GetSummary(ctx)
			if err != nil {
				return fmt.Errorf("failed to get summary: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(summary)
			}

			fmt.Println("EgressWatch Dashboard")
			fmt.Println(strings.Repeat("=", 40))

			if summary.Run == nil {
				fmt.Println("  No runs yet. Start one with 'egresswatch analyze'.")
				return nil
			}

			rn := summary.Run
			fmt.Printf("  Latest run:     %s\n", rn.ID)
			fmt.Printf("  Status:         %s\n", formatStatus(rn.Status))
			fmt.Printf("  Started:        %s\n", rn.StartedAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("  Series:         %d analyzed, %d failed\n", rn.SeriesTotal, rn.SeriesFailed)
			fmt.Printf("  Projected cost: $%.2f/month\n", summary.TotalProjectedCost)

			if len(summary.TrendsByDirection) > 0 {
				fmt.Println("\n  Trends:")
				for _, dir := range []string{"rising", "falling", "flat"} {
					if n := summary.TrendsByDirection[dir]; n > 0 {
						fmt.Printf("    %-10s %d\n", dir, n)
					}
				}
			}

			if len(summary.AnomaliesBySeverity) > 0 {
				fmt.Println("\n  Anomalies:")
				for _, sev := range []string{"critical", "high", "medium", "low"} {
					if n := summary.AnomaliesBySeverity[sev]; n > 0 {
						fmt.Printf("    %-14s %d\n", formatSeverity(sev), n)
					}
				}
			}

			if len(summary.RecsByCategory) > 0 {
				fmt.Println("\n  Recommendations:")
				for _, cat := range []string{"cost", "anomaly", "optimization", "security"} {
					if n := summary.RecsByCategory[cat]; n > 0 {
						fmt.Printf("    %-14s %d\n", cat, n)
					}
				}
			}

			return nil
		},
	}
}
