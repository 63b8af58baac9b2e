package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/egresswatch/egresswatch/pkg/client"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Inspect analysis runs",
	}

	cmd.AddCommand(newRunListCmd())
	cmd.AddCommand(newRunGetCmd())

	return cmd
}

func newRunListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			runs, err := apiClient.Runs().List(ctx, &client.ListOptions{
				Page:     page,
				PageSize: pageSize,
			})
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(runs)
			}

			t := NewTable("ID", "TRIGGER", "STATUS", "STARTED", "SERIES", "ANOMALIES", "RECS", "COST/MO")
			for _, rn := range runs.Data {
				t.AddRow(
					truncate(rn.ID, 12),
					rn.Trigger,
					formatStatus(rn.Status),
					rn.StartedAt.Format("2006-01-02 15:04"),
					strconv.Itoa(rn.SeriesTotal),
					strconv.Itoa(rn.AnomalyCount),
					strconv.Itoa(rn.RecommendationCount),
					fmt.Sprintf("$%.2f", rn.TotalProjectedCost),
				)
			}
			t.Render()
			fmt.Printf("\nShowing %d of %d runs\n", len(runs.Data), runs.TotalItems)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "results per page")

	return cmd
}

func newRunGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var (
				rn  *client.Run
				err error
			)
			if args[0] == "latest" {
				rn, err = apiClient.Runs().Latest(ctx)
				if err == nil && rn == nil {
					fmt.Println("No runs yet")
					return nil
				}
			} else {
				rn, err = apiClient.Runs().Get(ctx, args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to get run: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(rn)
			}

			fmt.Printf("ID:               %s\n", rn.ID)
			fmt.Printf("Trigger:          %s\n", rn.Trigger)
			fmt.Printf("Status:           %s\n", formatStatus(rn.Status))
			fmt.Printf("Window:           %s to %s\n",
				rn.WindowStart.Format("2006-01-02"), rn.WindowEnd.Format("2006-01-02"))
			fmt.Printf("Started:          %s\n", rn.StartedAt.Format("2006-01-02 15:04:05"))
			if !rn.CompletedAt.IsZero() {
				fmt.Printf("Completed:        %s\n", rn.CompletedAt.Format("2006-01-02 15:04:05"))
			}
			fmt.Printf("Series:           %d analyzed, %d failed\n", rn.SeriesTotal, rn.SeriesFailed)
			fmt.Printf("Anomalies:        %d\n", rn.AnomalyCount)
			fmt.Printf("Recommendations:  %d (%d suppressed)\n", rn.RecommendationCount, rn.Suppressed)
			fmt.Printf("Projected cost:   $%.2f/month\n", rn.TotalProjectedCost)
			if rn.Error != "" {
				fmt.Printf("Error:            %s\n", rn.Error)
			}
			return nil
		},
	}
}
