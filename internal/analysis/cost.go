package analysis

import (
	"math"
	"time"

	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/domain/cost"
	"github.com/egresswatch/egresswatch/internal/domain/timeseries"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

// CostAnalyzer projects monetary cost from egress volume using a
// tiered, region-aware pricing table.
type CostAnalyzer struct {
	table  PricingTable
	cfg    config.PricingConfig
	margin float64
	log    *logger.Logger
}

// NewCostAnalyzer creates a cost analyzer. The pricing table is
// validated up front; an invalid table is a fatal configuration error.
// margin is the tier-spillover fraction for the boundary flag.
func NewCostAnalyzer(table PricingTable, cfg config.PricingConfig, margin float64, log *logger.Logger) (*CostAnalyzer, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &CostAnalyzer{table: table, cfg: cfg, margin: margin, log: log}, nil
}

// Estimate prices a series' total egress for its covered period.
// Unknown regions fall back to the default table and mark the estimate
// approximate rather than failing.
func (a *CostAnalyzer) Estimate(ts *timeseries.TimeSeries, region string) *cost.Estimate {
	tiers, approximate := a.table.Tiers(region)
	totalBytes := ts.Total()

	breakdown, totalCost := applyTiers(tiers, totalBytes)

	est := &cost.Estimate{
		ResourceID:       ts.ResourceID,
		Region:           region,
		Approximate:      approximate,
		PeriodStart:      ts.Start(),
		PeriodEnd:        ts.End(),
		TotalBytes:       totalBytes,
		Breakdown:        breakdown,
		TotalCost:        totalCost,
		Currency:         "USD",
		NearTierBoundary: nearBoundary(tiers, totalBytes, a.margin),
		CreatedAt:        time.Now().UTC(),
	}

	// Linear extrapolation of the partial period to a full month. The
	// projection is advisory; the partial-period actuals above are
	// never replaced by it.
	est.ProjectedMonthly = a.projectMonthly(tiers, totalBytes, ts.Span())
	est.ThresholdStatus = a.thresholdStatus(est.ProjectedMonthly)

	return est
}

// applyTiers bills bytes progressively: each tier charges only the
// bytes that fall inside its band, and the remainder spills into the
// next. The breakdown holds one entry per tier that received bytes, and
// its bytes sum exactly to the total.
func applyTiers(tiers []Tier, totalBytes float64) ([]cost.TierCost, float64) {
	var breakdown []cost.TierCost
	var totalCost float64

	remaining := totalBytes
	prevBound := 0.0
	for _, tier := range tiers {
		if remaining <= 0 {
			break
		}
		inTier := remaining
		if tier.UpperBytes > 0 {
			capacity := tier.UpperBytes - prevBound
			if inTier > capacity {
				inTier = capacity
			}
			prevBound = tier.UpperBytes
		}
		tierCost := inTier * tier.RatePerByte
		breakdown = append(breakdown, cost.TierCost{
			UpperBytes:  tier.UpperBytes,
			BytesInTier: inTier,
			RatePerByte: tier.RatePerByte,
			Cost:        tierCost,
		})
		totalCost += tierCost
		remaining -= inTier
	}
	return breakdown, totalCost
}

// projectMonthly scales the observed volume to the projection horizon
// and prices the scaled volume. A span too short to extrapolate from
// returns the cost of the observed volume unchanged.
func (a *CostAnalyzer) projectMonthly(tiers []Tier, totalBytes float64, span time.Duration) float64 {
	days := span.Hours() / hoursPerDay
	projectedBytes := totalBytes
	if days > 0 {
		projectedBytes = totalBytes / days * float64(a.cfg.ProjectionDays)
	}
	_, projectedCost := applyTiers(tiers, projectedBytes)
	return projectedCost
}

// Outlook prices the months ahead under a compounding monthly growth
// factor, starting from the estimate's projected monthly volume. The
// first entry is the coming month. Like the monthly projection it
// extends, the outlook is advisory and never replaces actuals.
func (a *CostAnalyzer) Outlook(est *cost.Estimate, monthlyGrowth float64, months int) []float64 {
	if est == nil || months <= 0 {
		return nil
	}
	tiers, _ := a.table.Tiers(est.Region)

	days := est.PeriodEnd.Sub(est.PeriodStart).Hours() / hoursPerDay
	bytes := est.TotalBytes
	if days > 0 {
		bytes = est.TotalBytes / days * float64(a.cfg.ProjectionDays)
	}
	if monthlyGrowth < -1 {
		monthlyGrowth = -1
	}

	out := make([]float64, 0, months)
	for i := 0; i < months; i++ {
		bytes *= 1 + monthlyGrowth
		_, monthCost := applyTiers(tiers, bytes)
		out = append(out, monthCost)
	}
	return out
}

func (a *CostAnalyzer) thresholdStatus(projectedMonthly float64) string {
	switch {
	case a.cfg.CriticalUSD > 0 && projectedMonthly >= a.cfg.CriticalUSD:
		return cost.ThresholdCritical
	case a.cfg.WarningUSD > 0 && projectedMonthly >= a.cfg.WarningUSD:
		return cost.ThresholdWarning
	default:
		return cost.ThresholdOK
	}
}

// nearBoundary reports whether the total sits within the margin of a
// finite tier bound. Crossing a boundary by a sliver is the signal that
// traffic shaping could avoid tier spillover.
func nearBoundary(tiers []Tier, totalBytes float64, margin float64) bool {
	for _, tier := range tiers {
		if tier.UpperBytes <= 0 {
			continue
		}
		if math.Abs(totalBytes-tier.UpperBytes) <= margin*tier.UpperBytes {
			return true
		}
	}
	return false
}
