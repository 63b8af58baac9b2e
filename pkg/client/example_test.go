package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/egresswatch/egresswatch/pkg/client"
)

// Example demonstrates basic usage of the EgressWatch client
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	// Trigger a collect+analyze run and wait for it
	run, err := c.Runs().Trigger(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Run %s finished with status %s\n", run.ID, run.Status)
	fmt.Printf("Projected monthly egress cost: $%.2f\n", run.TotalProjectedCost)
}

// ExampleRunService_Latest demonstrates fetching the most recent run
func ExampleRunService_Latest() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	run, err := c.Runs().Latest(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	if run == nil {
		fmt.Println("No runs yet")
		return
	}

	fmt.Printf("Latest run: %s (%d anomalies, %d recommendations)\n",
		run.ID, run.AnomalyCount, run.RecommendationCount)
}

// ExampleTrendService_List demonstrates listing rising trends for a run
func ExampleTrendService_List() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	trends, err := c.Trends().List(context.Background(), &client.TrendListOptions{
		ListOptions: client.ListOptions{Page: 1, PageSize: 20},
		RunID:       "f6a7c2e0-1b3d-4e5f-9a8b-7c6d5e4f3a2b",
		Direction:   "rising",
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, t := range trends.Data {
		fmt.Printf("%s: slope %.2f bytes/day (r²=%.2f)\n", t.ResourceID, t.Slope, t.RSquared)
	}
}

// ExampleAnomalyService_List demonstrates listing critical anomalies
func ExampleAnomalyService_List() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	anomalies, err := c.Anomalies().List(context.Background(), &client.AnomalyListOptions{
		Severity: "critical",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found %d critical anomalies\n", anomalies.TotalItems)
	for _, a := range anomalies.Data {
		fmt.Printf("  - %s at %s: observed %.0f vs baseline %.0f\n",
			a.ResourceID, a.Timestamp.Format("2006-01-02"), a.Observed, a.Baseline)
	}
}

// ExampleCostService_TotalProjected demonstrates reading the projected bill
func ExampleCostService_TotalProjected() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	total, err := c.Costs().TotalProjected(context.Background(), "f6a7c2e0-1b3d-4e5f-9a8b-7c6d5e4f3a2b")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Projected monthly egress cost: $%.2f\n", total)
}

// ExampleRecommendationService_List demonstrates listing cost recommendations
func ExampleRecommendationService_List() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	recs, err := c.Recommendations().List(context.Background(), &client.RecommendationListOptions{
		Category: "cost",
		Priority: "high",
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, rec := range recs.Data {
		fmt.Printf("%s (confidence %.0f%%)\n", rec.Title, rec.Confidence*100)
	}
}

// ExampleClient_GetSummary demonstrates fetching the dashboard summary
func ExampleClient_GetSummary() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	summary, err := c.GetSummary(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Projected cost: $%.2f\n", summary.TotalProjectedCost)
	for severity, count := range summary.AnomaliesBySeverity {
		fmt.Printf("  %s: %d\n", severity, count)
	}
}

// ExampleClient_Health demonstrates checking API health
func ExampleClient_Health() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	health, err := c.Health(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("API status: %s\n", health.Status)
}
