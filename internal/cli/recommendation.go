package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/egresswatch/egresswatch/pkg/client"
)

func newRecommendationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recommendation",
		Aliases: []string{"rec"},
		Short:   "Inspect consolidated recommendations",
	}

	cmd.AddCommand(newRecommendationListCmd())
	cmd.AddCommand(newRecommendationGetCmd())
	cmd.AddCommand(newRecommendationSummaryCmd())

	return cmd
}

func newRecommendationListCmd() *cobra.Command {
	var runID, category, priority string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			recs, err := apiClient.Recommendations().List(ctx, &client.RecommendationListOptions{
				RunID:    runID,
				Category: category,
				Priority: priority,
			})
			if err != nil {
				return fmt.Errorf("failed to list recommendations: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(recs)
			}

			t := NewTable("ID", "CATEGORY", "PRIORITY", "CONFIDENCE", "TITLE")
			for _, rec := range recs.Data {
				t.AddRow(
					truncate(rec.ID, 16),
					rec.Category,
					formatSeverity(rec.Priority),
					fmt.Sprintf("%.0f%%", rec.Confidence*100),
					truncate(rec.Title, 48),
				)
			}
			t.Render()
			fmt.Printf("\nShowing %d of %d recommendations\n", len(recs.Data), recs.TotalItems)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "filter by run ID")
	cmd.Flags().StringVar(&category, "category", "", "filter by category (cost/anomaly/optimization/security)")
	cmd.Flags().StringVar(&priority, "priority", "", "filter by priority (critical/high/medium/low)")

	return cmd
}

func newRecommendationGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <run-id> <id>",
		Short: "Get recommendation details",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			rec, err := apiClient.Recommendations().Get(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get recommendation: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(rec)
			}

			fmt.Printf("ID:          %s\n", rec.ID)
			fmt.Printf("Run:         %s\n", rec.RunID)
			fmt.Printf("Category:    %s\n", rec.Category)
			fmt.Printf("Priority:    %s\n", formatSeverity(rec.Priority))
			fmt.Printf("Confidence:  %.0f%%\n", rec.Confidence*100)
			fmt.Printf("Title:       %s\n", rec.Title)
			fmt.Printf("Description: %s\n", rec.Description)
			if len(rec.Resources) > 0 {
				fmt.Printf("Resources:   %s\n", strings.Join(rec.Resources, ", "))
			}
			fmt.Printf("Created:     %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newRecommendationSummaryCmd() *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show per-category recommendation counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			counts, err := apiClient.Recommendations().Summary(ctx, runID)
			if err != nil {
				return fmt.Errorf("failed to get recommendation summary: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(counts)
			}

			t := NewTable("CATEGORY", "COUNT")
			for _, cat := range []string{"cost", "anomaly", "optimization", "security"} {
				t.AddRow(cat, strconv.Itoa(counts[cat]))
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "run ID")

	return cmd
}
