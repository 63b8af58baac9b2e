package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/egresswatch/egresswatch/pkg/client"
)

func newCostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Inspect egress cost estimates",
	}

	cmd.AddCommand(newCostListCmd())
	cmd.AddCommand(newCostGetCmd())
	cmd.AddCommand(newCostProjectedCmd())

	return cmd
}

func newCostListCmd() *cobra.Command {
	var runID, resourceID, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cost estimates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			costs, err := apiClient.Costs().List(ctx, &client.CostListOptions{
				RunID:      runID,
				ResourceID: resourceID,
				Status:     status,
			})
			if err != nil {
				return fmt.Errorf("failed to list cost estimates: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(costs)
			}

			t := NewTable("ID", "RESOURCE", "REGION", "TOTAL", "PROJECTED/MO", "STATUS")
			for _, est := range costs.Data {
				total := fmt.Sprintf("$%.2f", est.TotalCost)
				if est.Approximate {
					total = "~" + total
				}
				t.AddRow(
					strconv.FormatInt(est.ID, 10),
					truncate(est.ResourceID, 24),
					est.Region,
					total,
					fmt.Sprintf("$%.2f", est.ProjectedMonthly),
					formatStatus(est.ThresholdStatus),
				)
			}
			t.Render()
			fmt.Printf("\nShowing %d of %d estimates\n", len(costs.Data), costs.TotalItems)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "filter by run ID")
	cmd.Flags().StringVar(&resourceID, "resource", "", "filter by resource ID")
	cmd.Flags().StringVar(&status, "status", "", "filter by threshold status (ok/warning/critical)")

	return cmd
}

func newCostGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get cost estimate details with tier breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid cost estimate ID: %s", args[0])
			}

			ctx := context.Background()
			est, err := apiClient.Costs().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get cost estimate: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(est)
			}

			fmt.Printf("ID:            %d\n", est.ID)
			fmt.Printf("Run:           %s\n", est.RunID)
			fmt.Printf("Resource:      %s\n", est.ResourceID)
			fmt.Printf("Region:        %s\n", est.Region)
			fmt.Printf("Period:        %s to %s\n",
				est.PeriodStart.Format("2006-01-02"), est.PeriodEnd.Format("2006-01-02"))
			fmt.Printf("Total bytes:   %.6g\n", est.TotalBytes)
			total := fmt.Sprintf("$%.2f %s", est.TotalCost, est.Currency)
			if est.Approximate {
				total += " (approximate)"
			}
			fmt.Printf("Total cost:    %s\n", total)
			fmt.Printf("Projected:     $%.2f/month\n", est.ProjectedMonthly)
			fmt.Printf("Status:        %s\n", formatStatus(est.ThresholdStatus))
			if est.NearTierBoundary {
				fmt.Println("Note:          usage is near a pricing tier boundary")
			}

			if len(est.Breakdown) > 0 {
				fmt.Println("\nTier breakdown:")
				t := NewTable("UPPER BOUND (B)", "BYTES IN TIER", "RATE/B", "COST")
				for _, tier := range est.Breakdown {
					upper := "∞"
					if tier.UpperBytes > 0 {
						upper = fmt.Sprintf("%.6g", tier.UpperBytes)
					}
					t.AddRow(
						upper,
						fmt.Sprintf("%.6g", tier.BytesInTier),
						fmt.Sprintf("%.3g", tier.RatePerByte),
						fmt.Sprintf("$%.4f", tier.Cost),
					)
				}
				t.Render()
			}
			return nil
		},
	}
}

func newCostProjectedCmd() *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "projected",
		Short: "Show total projected monthly cost for a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			total, err := apiClient.Costs().TotalProjected(ctx, runID)
			if err != nil {
				return fmt.Errorf("failed to get projected cost: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(map[string]float64{"totalProjectedMonthly": total})
			}

			fmt.Printf("Projected monthly egress cost: $%.2f\n", total)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "run ID")

	return cmd
}
