package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/egresswatch/egresswatch/pkg/client"
)

func newAnomalyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anomaly",
		Short: "Inspect detected egress anomalies",
	}

	cmd.AddCommand(newAnomalyListCmd())
	cmd.AddCommand(newAnomalyGetCmd())
	cmd.AddCommand(newAnomalySummaryCmd())

	return cmd
}

func newAnomalyListCmd() *cobra.Command {
	var runID, resourceID, severity, method string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List anomalies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			anomalies, err := apiClient.Anomalies().List(ctx, &client.AnomalyListOptions{
				RunID:      runID,
				ResourceID: resourceID,
				Severity:   severity,
				Method:     method,
			})
			if err != nil {
				return fmt.Errorf("failed to list anomalies: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(anomalies)
			}

			t := NewTable("ID", "RESOURCE", "WHEN", "OBSERVED", "BASELINE", "SCORE", "SEVERITY")
			for _, a := range anomalies.Data {
				t.AddRow(
					strconv.FormatInt(a.ID, 10),
					truncate(a.ResourceID, 24),
					a.Timestamp.Format("2006-01-02 15:04"),
					fmt.Sprintf("%.4g", a.Observed),
					fmt.Sprintf("%.4g", a.Baseline),
					fmt.Sprintf("%.1f", a.Score),
					formatSeverity(a.Severity),
				)
			}
			t.Render()
			fmt.Printf("\nShowing %d of %d anomalies\n", len(anomalies.Data), anomalies.TotalItems)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "filter by run ID")
	cmd.Flags().StringVar(&resourceID, "resource", "", "filter by resource ID")
	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity (critical/high/medium/low)")
	cmd.Flags().StringVar(&method, "method", "", "filter by detection method (zscore/mad/moving_average)")

	return cmd
}

func newAnomalyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get anomaly details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid anomaly ID: %s", args[0])
			}

			ctx := context.Background()
			a, err := apiClient.Anomalies().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get anomaly: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(a)
			}

			fmt.Printf("ID:        %d\n", a.ID)
			fmt.Printf("Run:       %s\n", a.RunID)
			fmt.Printf("Resource:  %s\n", a.ResourceID)
			fmt.Printf("Metric:    %s\n", a.MetricKey)
			fmt.Printf("When:      %s\n", a.Timestamp.Format("2006-01-02 15:04:05"))
			fmt.Printf("Observed:  %.6g\n", a.Observed)
			fmt.Printf("Baseline:  %.6g\n", a.Baseline)
			fmt.Printf("Score:     %.2f\n", a.Score)
			fmt.Printf("Severity:  %s\n", formatSeverity(a.Severity))
			methods := a.Methods
			if len(methods) == 0 {
				methods = []string{a.Method}
			}
			fmt.Printf("Methods:   %s\n", strings.Join(methods, ", "))
			return nil
		},
	}
}

func newAnomalySummaryCmd() *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show per-severity anomaly counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			counts, err := apiClient.Anomalies().Summary(ctx, runID)
			if err != nil {
				return fmt.Errorf("failed to get anomaly summary: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(counts)
			}

			t := NewTable("SEVERITY", "COUNT")
			for _, sev := range []string{"critical", "high", "medium", "low"} {
				t.AddRow(formatSeverity(sev), strconv.Itoa(counts[sev]))
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "run ID")

	return cmd
}
