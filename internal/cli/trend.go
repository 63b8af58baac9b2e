package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/egresswatch/egresswatch/pkg/client"
)

func newTrendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Inspect egress traffic trends",
	}

	cmd.AddCommand(newTrendListCmd())
	cmd.AddCommand(newTrendGetCmd())
	cmd.AddCommand(newTrendSummaryCmd())

	return cmd
}

func newTrendListCmd() *cobra.Command {
	var runID, resourceID, direction string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fitted trends",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			trends, err := apiClient.Trends().List(ctx, &client.TrendListOptions{
				RunID:      runID,
				ResourceID: resourceID,
				Direction:  direction,
			})
			if err != nil {
				return fmt.Errorf("failed to list trends: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(trends)
			}

			t := NewTable("ID", "RESOURCE", "DIRECTION", "SLOPE (B/DAY)", "R²", "PATTERNS")
			for _, tr := range trends.Data {
				t.AddRow(
					strconv.FormatInt(tr.ID, 10),
					truncate(tr.ResourceID, 24),
					tr.Direction,
					fmt.Sprintf("%.3g", tr.Slope),
					fmt.Sprintf("%.2f", tr.RSquared),
					strings.Join(tr.Patterns, ","),
				)
			}
			t.Render()
			fmt.Printf("\nShowing %d of %d trends\n", len(trends.Data), trends.TotalItems)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "filter by run ID")
	cmd.Flags().StringVar(&resourceID, "resource", "", "filter by resource ID")
	cmd.Flags().StringVar(&direction, "direction", "", "filter by direction (rising/falling/flat)")

	return cmd
}

func newTrendGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get trend details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid trend ID: %s", args[0])
			}

			ctx := context.Background()
			tr, err := apiClient.Trends().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get trend: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(tr)
			}

			fmt.Printf("ID:          %d\n", tr.ID)
			fmt.Printf("Run:         %s\n", tr.RunID)
			fmt.Printf("Resource:    %s\n", tr.ResourceID)
			fmt.Printf("Metric:      %s\n", tr.MetricKey)
			fmt.Printf("Direction:   %s\n", tr.Direction)
			fmt.Printf("Slope:       %.6g bytes/day\n", tr.Slope)
			fmt.Printf("R²:          %.3f\n", tr.RSquared)
			fmt.Printf("Mean:        %.6g bytes\n", tr.Mean)
			fmt.Printf("Samples:     %d\n", tr.SampleCount)
			if len(tr.Patterns) > 0 {
				fmt.Printf("Patterns:    %s\n", strings.Join(tr.Patterns, ", "))
			}
			if len(tr.PeakDays) > 0 {
				fmt.Printf("Peak days:   %s\n", strings.Join(tr.PeakDays, ", "))
			}
			if len(tr.PeakHours) > 0 {
				hours := make([]string, len(tr.PeakHours))
				for i, h := range tr.PeakHours {
					hours[i] = fmt.Sprintf("%02d:00", h)
				}
				fmt.Printf("Peak hours:  %s\n", strings.Join(hours, ", "))
			}
			return nil
		},
	}
}

func newTrendSummaryCmd() *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show per-direction trend counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			counts, err := apiClient.Trends().Summary(ctx, runID)
			if err != nil {
				return fmt.Errorf("failed to get trend summary: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(counts)
			}

			t := NewTable("DIRECTION", "COUNT")
			for _, dir := range []string{"rising", "falling", "flat"} {
				t.AddRow(dir, strconv.Itoa(counts[dir]))
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "run ID")

	return cmd
}
