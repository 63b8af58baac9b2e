package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/egresswatch/egresswatch/internal/domain/cost"
)

func twoTierTable() PricingTable {
	tiers := []Tier{
		{UpperBytes: 1e9, RatePerByte: 0.05},
		{RatePerByte: 0.02},
	}
	return PricingTable{DefaultRegion: tiers, "us-east": tiers}
}

func newTestCostAnalyzer(t *testing.T, table PricingTable) *CostAnalyzer {
	t.Helper()
	analyzer, err := NewCostAnalyzer(table, testPricingConfig(), 0.05, testLogger())
	if err != nil {
		t.Fatalf("NewCostAnalyzer() error = %v", err)
	}
	return analyzer
}

func TestCostAnalyzer_TierSpillover(t *testing.T) {
	analyzer := newTestCostAnalyzer(t, twoTierTable())
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// 1.5e9 bytes across two tiers: 1e9 at 0.05 plus 0.5e9 at 0.02
	ts := makeSeries("vm-1", "network_out_total", start, 24*time.Hour,
		[]float64{0.5e9, 0.5e9, 0.5e9})

	got := analyzer.Estimate(ts, "us-east")

	if want := 1e9*0.05 + 0.5e9*0.02; got.TotalCost != want {
		t.Errorf("Estimate() total_cost = %v, want %v", got.TotalCost, want)
	}
	if len(got.Breakdown) != 2 {
		t.Fatalf("Estimate() breakdown has %d entries, want 2", len(got.Breakdown))
	}
	if got.Breakdown[0].BytesInTier != 1e9 || got.Breakdown[1].BytesInTier != 0.5e9 {
		t.Errorf("Estimate() breakdown bytes = %v/%v, want 1e9/0.5e9",
			got.Breakdown[0].BytesInTier, got.Breakdown[1].BytesInTier)
	}
	if got.Approximate {
		t.Errorf("Estimate() marked approximate for a known region")
	}
}

func TestCostAnalyzer_BreakdownSumsToTotal(t *testing.T) {
	analyzer := newTestCostAnalyzer(t, DefaultPricingTable())
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	totals := []float64{0, 1e6, 5e9, 123e9, 10001e9, 200000e9}
	for _, total := range totals {
		ts := makeSeries("vm-1", "network_out_total", start, 24*time.Hour, []float64{total})
		got := analyzer.Estimate(ts, "zone1")

		var sum float64
		for _, tier := range got.Breakdown {
			sum += tier.BytesInTier
		}
		if sum != total {
			t.Errorf("Estimate(%v bytes) breakdown sums to %v, want exact total", total, sum)
		}
	}
}

func TestCostAnalyzer_MonotonicInVolume(t *testing.T) {
	analyzer := newTestCostAnalyzer(t, DefaultPricingTable())
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	prev := -1.0
	for _, total := range []float64{0, 1e9, 4e9, 5e9, 6e9, 100e9, 10000e9, 50000e9, 150000e9, 1e15} {
		ts := makeSeries("vm-1", "network_out_total", start, 24*time.Hour, []float64{total})
		got := analyzer.Estimate(ts, "zone2")
		if got.TotalCost < prev {
			t.Errorf("Estimate(%v bytes) cost %v dropped below previous %v", total, got.TotalCost, prev)
		}
		prev = got.TotalCost
	}
}

func TestCostAnalyzer_UnknownRegionFallsBack(t *testing.T) {
	analyzer := newTestCostAnalyzer(t, twoTierTable())
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	ts := makeSeries("vm-1", "network_out_total", start, 24*time.Hour, []float64{2e9})
	got := analyzer.Estimate(ts, "atlantis-north")

	if !got.Approximate {
		t.Errorf("Estimate() not marked approximate for unknown region")
	}
	if want := 1e9*0.05 + 1e9*0.02; got.TotalCost != want {
		t.Errorf("Estimate() total_cost = %v, want default-table pricing %v", got.TotalCost, want)
	}
}

func TestCostAnalyzer_ProjectionIsAdvisory(t *testing.T) {
	analyzer := newTestCostAnalyzer(t, twoTierTable())
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// 15 days observed at a steady 0.04e9/day: the 30-day projection
	// doubles the volume, and both figures are reported.
	values := make([]float64, 16)
	for i := range values {
		values[i] = 0.04e9
	}
	ts := makeSeries("vm-1", "network_out_total", start, 24*time.Hour, values)

	got := analyzer.Estimate(ts, "us-east")

	if want := 0.64e9 * 0.05; got.TotalCost != want {
		t.Errorf("Estimate() total_cost = %v, want partial-period actual %v", got.TotalCost, want)
	}
	// Projected 1.28e9 bytes spill past the first tier bound
	want := 1e9*0.05 + 0.28e9*0.02
	if math.Abs(got.ProjectedMonthly-want) > 1e-6*want {
		t.Errorf("Estimate() projected_monthly = %v, want %v", got.ProjectedMonthly, want)
	}
}

func TestCostAnalyzer_Outlook(t *testing.T) {
	// Flat per-byte rate: $1 per GB makes the compounding visible
	analyzer := newTestCostAnalyzer(t, PricingTable{DefaultRegion: []Tier{{RatePerByte: 1e-9}}})
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	est := &cost.Estimate{
		ResourceID:  "vm-1",
		Region:      "anywhere",
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 0, 30),
		TotalBytes:  30e9, // a full observed month, so projection is identity
	}

	got := analyzer.Outlook(est, 0.10, 3)
	want := []float64{33, 36.3, 39.93}
	if len(got) != len(want) {
		t.Fatalf("Outlook() returned %d months, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("Outlook() month %d = %v, want %v", i+1, got[i], want[i])
		}
	}

	flat := analyzer.Outlook(est, 0, 3)
	for i, m := range flat {
		if m != 30 {
			t.Errorf("Outlook() month %d = %v under zero growth, want the steady 30", i+1, m)
		}
	}

	if analyzer.Outlook(est, 0.10, 0) != nil {
		t.Error("Outlook() with no horizon returned months")
	}
	if analyzer.Outlook(nil, 0.10, 3) != nil {
		t.Error("Outlook() on a nil estimate returned months")
	}
}

func TestCostAnalyzer_NearTierBoundary(t *testing.T) {
	analyzer := newTestCostAnalyzer(t, twoTierTable())
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		total float64
		want  bool
	}{
		{"just under the bound", 0.97e9, true},
		{"just over the bound", 1.03e9, true},
		{"well inside the tier", 0.5e9, false},
		{"well past the bound", 2e9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := makeSeries("vm-1", "network_out_total", start, 24*time.Hour, []float64{tt.total})
			got := analyzer.Estimate(ts, "us-east")
			if got.NearTierBoundary != tt.want {
				t.Errorf("Estimate(%v bytes) near_tier_boundary = %v, want %v", tt.total, got.NearTierBoundary, tt.want)
			}
		})
	}
}

func TestCostAnalyzer_ThresholdStatus(t *testing.T) {
	// Flat per-byte rate makes the projected cost easy to steer
	table := PricingTable{DefaultRegion: []Tier{{RatePerByte: 1e-9}}} // $1 per GB
	analyzer := newTestCostAnalyzer(t, table)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		dailyBytes float64
		want       string
	}{
		{"low volume is ok", 1e9, cost.ThresholdOK},           // ~$30/month
		{"warning volume", 5e9, cost.ThresholdWarning},        // ~$150/month
		{"critical volume", 20e9, cost.ThresholdCritical},     // ~$600/month
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]float64, 8)
			for i := range values {
				values[i] = tt.dailyBytes
			}
			ts := makeSeries("vm-1", "network_out_total", start, 24*time.Hour, values)
			got := analyzer.Estimate(ts, "anywhere")
			if got.ThresholdStatus != tt.want {
				t.Errorf("Estimate() threshold_status = %v (projected %v), want %v",
					got.ThresholdStatus, got.ProjectedMonthly, tt.want)
			}
		})
	}
}

func TestPricingTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   PricingTable
		wantErr bool
	}{
		{
			name:  "valid two-tier table",
			table: twoTierTable(),
		},
		{
			name:    "empty table",
			table:   PricingTable{},
			wantErr: true,
		},
		{
			name: "missing default region",
			table: PricingTable{
				"us-east": {{RatePerByte: 0.01}},
			},
			wantErr: true,
		},
		{
			name: "non-increasing bounds",
			table: PricingTable{
				DefaultRegion: {
					{UpperBytes: 5e9, RatePerByte: 0.05},
					{UpperBytes: 2e9, RatePerByte: 0.04},
					{RatePerByte: 0.02},
				},
			},
			wantErr: true,
		},
		{
			name: "bounded final tier",
			table: PricingTable{
				DefaultRegion: {
					{UpperBytes: 5e9, RatePerByte: 0.05},
					{UpperBytes: 9e9, RatePerByte: 0.02},
				},
			},
			wantErr: true,
		},
		{
			name: "negative rate",
			table: PricingTable{
				DefaultRegion: {{RatePerByte: -0.01}},
			},
			wantErr: true,
		},
		{
			name:  "built-in table is valid",
			table: DefaultPricingTable(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
