package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/domain/anomaly"
	"github.com/egresswatch/egresswatch/internal/domain/cost"
	"github.com/egresswatch/egresswatch/internal/domain/recommendation"
	"github.com/egresswatch/egresswatch/internal/domain/timeseries"
	"github.com/egresswatch/egresswatch/internal/domain/trend"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

// A rising trend needs at least this much explanatory power before it
// becomes advice.
const risingTrendMinR2 = 0.6

// Daily growth above this fraction of the mean upgrades a trend
// recommendation to high priority.
const steepGrowthRatio = 0.10

// A critical anomaly this many times its baseline also raises a
// security-category recommendation (possible exfiltration).
const exfiltrationFactor = 10

// Horizon for the compounded cost outlook attached to threshold
// recommendations.
const outlookMonths = 3

const daysPerMonth = 30

// A trend steeper than this monthly fraction is compounded at the cap;
// beyond it the linear fit is extrapolating past anything observed.
const maxMonthlyGrowth = 2.0

// An Outlooker projects cost for the months ahead under a compounding
// monthly growth factor.
type Outlooker interface {
	Outlook(est *cost.Estimate, monthlyGrowth float64, months int) []float64
}

// Engine consolidates the three analyzers' outputs into a deduplicated,
// confidence-scored, priority-ordered recommendation list.
type Engine struct {
	cfg     config.AnalysisConfig
	outlook Outlooker
	log     *logger.Logger
}

// NewEngine creates a recommendation engine
func NewEngine(cfg config.AnalysisConfig, log *logger.Logger) *Engine {
	return &Engine{cfg: cfg, log: log}
}

// WithOutlook attaches a cost projector so threshold recommendations
// carry a growth-compounded multi-month outlook.
func (e *Engine) WithOutlook(o Outlooker) *Engine {
	e.outlook = o
	return e
}

// RecommendationID derives the deterministic identity of a
// recommendation from its category, sorted resource set, and title, so
// repeated runs over identical inputs dedup against persisted history.
func RecommendationID(category string, resources []string, title string) string {
	sorted := append([]string(nil), resources...)
	sort.Strings(sorted)
	name := category + "|" + strings.Join(sorted, ",") + "|" + title
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// Consolidate merges insight lists into the final report, ordered by
// priority then confidence. Truncation by the category and overall caps
// is reported through the suppressed count, never silently.
func (e *Engine) Consolidate(runID string, trends []*trend.Result, costs []*cost.Estimate, anomalies []*anomaly.Anomaly) *recommendation.Report {
	var candidates []recommendation.Recommendation
	candidates = append(candidates, e.fromTrends(trends)...)
	candidates = append(candidates, e.fromCosts(costs, growthRates(trends))...)
	candidates = append(candidates, e.fromAnomalies(anomalies)...)

	merged := mergeByID(candidates)
	e.boostConcurring(merged)

	sort.Slice(merged, func(i, j int) bool {
		pi, pj := recommendation.PriorityRank(merged[i].Priority), recommendation.PriorityRank(merged[j].Priority)
		if pi != pj {
			return pi > pj
		}
		if merged[i].Confidence != merged[j].Confidence {
			return merged[i].Confidence > merged[j].Confidence
		}
		return merged[i].Title < merged[j].Title
	})

	kept, suppressed := e.applyCaps(merged)

	now := time.Now().UTC()
	for i := range kept {
		kept[i].RunID = runID
		kept[i].CreatedAt = now
	}

	return &recommendation.Report{
		RunID:           runID,
		GeneratedAt:     now,
		Recommendations: kept,
		Suppressed:      suppressed,
	}
}

func (e *Engine) fromTrends(trends []*trend.Result) []recommendation.Recommendation {
	var out []recommendation.Recommendation
	for _, t := range trends {
		source := "trend:" + timeseries.Key{ResourceID: t.ResourceID, MetricKey: t.MetricKey}.String()

		if t.Direction == trend.DirectionRising && t.RSquared >= risingTrendMinR2 {
			priority := recommendation.PriorityMedium
			if t.Mean > 0 && t.Slope > steepGrowthRatio*t.Mean {
				priority = recommendation.PriorityHigh
			}
			out = append(out, newCandidate(
				recommendation.CategoryCost,
				priority,
				clamp01(t.RSquared),
				fmt.Sprintf("Rising egress trend for %s", t.ResourceID),
				fmt.Sprintf("Egress for %s (%s) is growing by about %s per day (r²=%.2f). Review whether this growth is expected and consider caching or compression to curb transfer costs.",
					t.ResourceID, t.MetricKey, humanBytes(t.Slope), t.RSquared),
				t.ResourceID, source,
			))
		}

		for _, p := range t.Patterns {
			out = append(out, newCandidate(
				recommendation.CategoryOptimization,
				recommendation.PriorityLow,
				0.6,
				fmt.Sprintf("Recurring %s egress pattern for %s", p, t.ResourceID),
				fmt.Sprintf("Egress for %s follows a pronounced %s cycle. Scheduling bulk transfers into the low-usage windows may reduce peak bandwidth and cost.",
					t.ResourceID, p),
				t.ResourceID, source,
			))
		}
	}
	return out
}

func (e *Engine) fromCosts(costs []*cost.Estimate, growth map[string]float64) []recommendation.Recommendation {
	var out []recommendation.Recommendation
	for _, c := range costs {
		source := "cost:" + c.ResourceID

		switch c.ThresholdStatus {
		case cost.ThresholdCritical:
			out = append(out, newCandidate(
				recommendation.CategoryCost,
				recommendation.PriorityCritical,
				0.9,
				fmt.Sprintf("Projected egress cost is critical for %s", c.ResourceID),
				fmt.Sprintf("Projected monthly egress cost for %s is %.2f %s. Immediate review of outbound traffic is advised.%s",
					c.ResourceID, c.ProjectedMonthly, c.Currency, e.outlookNote(c, growth[c.ResourceID])),
				c.ResourceID, source,
			))
		case cost.ThresholdWarning:
			out = append(out, newCandidate(
				recommendation.CategoryCost,
				recommendation.PriorityHigh,
				0.9,
				fmt.Sprintf("Projected egress cost above warning threshold for %s", c.ResourceID),
				fmt.Sprintf("Projected monthly egress cost for %s is %.2f %s, above the configured warning threshold.%s",
					c.ResourceID, c.ProjectedMonthly, c.Currency, e.outlookNote(c, growth[c.ResourceID])),
				c.ResourceID, source,
			))
		}

		if c.NearTierBoundary {
			out = append(out, newCandidate(
				recommendation.CategoryOptimization,
				recommendation.PriorityMedium,
				0.9,
				fmt.Sprintf("Egress volume near pricing tier boundary for %s", c.ResourceID),
				fmt.Sprintf("Total egress for %s (%s) sits within the margin of a pricing tier bound. Shaping or deferring a small share of traffic could avoid spilling into the next tier.",
					c.ResourceID, humanBytes(c.TotalBytes)),
				c.ResourceID, source,
			))
		}
	}
	return out
}

func (e *Engine) fromAnomalies(anomalies []*anomaly.Anomaly) []recommendation.Recommendation {
	var out []recommendation.Recommendation
	for _, a := range anomalies {
		source := fmt.Sprintf("anomaly:%s/%s@%s", a.ResourceID, a.MetricKey, a.Timestamp.UTC().Format(time.RFC3339))
		conf := e.anomalyConfidence(a)

		out = append(out, newCandidate(
			recommendation.CategoryAnomaly,
			a.Severity, // severity levels and priority levels share names
			conf,
			fmt.Sprintf("Unusual egress on %s at %s", a.ResourceID, a.Timestamp.UTC().Format(time.RFC3339)),
			fmt.Sprintf("Observed %s against a baseline of %s (%s, score %.1f). Verify whether this transfer was intended.",
				humanBytes(a.Observed), humanBytes(a.Baseline), a.Method, a.Score),
			a.ResourceID, source,
		))

		baseline := a.Baseline
		if baseline < 1 {
			baseline = 1
		}
		if a.Severity == anomaly.SeverityCritical && a.Observed >= exfiltrationFactor*baseline {
			out = append(out, newCandidate(
				recommendation.CategorySecurity,
				recommendation.PriorityCritical,
				clamp01(conf*0.8),
				fmt.Sprintf("Investigate possible data exfiltration from %s", a.ResourceID),
				fmt.Sprintf("Egress from %s reached %s, more than %dx its baseline. Confirm the destination and review access logs.",
					a.ResourceID, humanBytes(a.Observed), exfiltrationFactor),
				a.ResourceID, source,
			))
		}
	}
	return out
}

// outlookNote renders a compounded multi-month cost projection for a
// resource with an established growth rate. Empty when no projector is
// attached or the resource has no rising trend.
func (e *Engine) outlookNote(c *cost.Estimate, monthlyGrowth float64) string {
	if e.outlook == nil || monthlyGrowth <= 0 {
		return ""
	}
	months := e.outlook.Outlook(c, monthlyGrowth, outlookMonths)
	if len(months) == 0 {
		return ""
	}
	parts := make([]string, len(months))
	for i, m := range months {
		parts[i] = fmt.Sprintf("%.2f", m)
	}
	return fmt.Sprintf(" At the current growth rate the next %d months compound to %s %s.",
		len(months), strings.Join(parts, ", "), c.Currency)
}

// growthRates derives a per-resource monthly growth fraction from the
// rising trends that clear the confidence bar. The steepest metric wins
// when a resource has several.
func growthRates(trends []*trend.Result) map[string]float64 {
	rates := map[string]float64{}
	for _, t := range trends {
		if t.Direction != trend.DirectionRising || t.Mean <= 0 || t.RSquared < risingTrendMinR2 {
			continue
		}
		g := t.Slope * daysPerMonth / t.Mean
		if g > maxMonthlyGrowth {
			g = maxMonthlyGrowth
		}
		if g > rates[t.ResourceID] {
			rates[t.ResourceID] = g
		}
	}
	return rates
}

// anomalyConfidence normalizes the deviation score against three times
// the method threshold, the band where severity saturates at critical.
func (e *Engine) anomalyConfidence(a *anomaly.Anomaly) float64 {
	threshold := e.cfg.ZScoreThreshold
	if a.Method == anomaly.MethodMAD {
		threshold = e.cfg.MADThreshold
	}
	score := a.Score
	if score < 0 {
		score = -score
	}
	return clamp01(score / (3 * threshold))
}

func newCandidate(category, priority string, confidence float64, title, description, resource, source string) recommendation.Recommendation {
	return recommendation.Recommendation{
		ID:          RecommendationID(category, []string{resource}, title),
		Category:    category,
		Priority:    priority,
		Confidence:  confidence,
		Title:       title,
		Description: description,
		Resources:   []string{resource},
		Sources:     []string{source},
	}
}

// mergeByID merges candidates sharing a deterministic ID: resources and
// sources are unioned, confidence takes the maximum of the set (not the
// sum, to avoid runaway inflation from repeated weak signals), and the
// strongest priority wins.
func mergeByID(candidates []recommendation.Recommendation) []recommendation.Recommendation {
	byID := map[string]*recommendation.Recommendation{}
	var order []string
	for _, c := range candidates {
		existing, ok := byID[c.ID]
		if !ok {
			copied := c
			byID[c.ID] = &copied
			order = append(order, c.ID)
			continue
		}
		existing.Resources = unionSorted(existing.Resources, c.Resources)
		existing.Sources = unionSorted(existing.Sources, c.Sources)
		if c.Confidence > existing.Confidence {
			existing.Confidence = c.Confidence
		}
		if recommendation.PriorityRank(c.Priority) > recommendation.PriorityRank(existing.Priority) {
			existing.Priority = c.Priority
		}
	}

	out := make([]recommendation.Recommendation, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

// boostConcurring raises confidence when independent analyzers agree on
// the same (resource, category): each additional concurring source kind
// adds 0.1, clamped to [0,1].
func (e *Engine) boostConcurring(recs []recommendation.Recommendation) {
	kinds := map[string]map[string]bool{}
	for _, r := range recs {
		for _, res := range r.Resources {
			key := r.Category + "|" + res
			if kinds[key] == nil {
				kinds[key] = map[string]bool{}
			}
			for _, src := range r.Sources {
				kind := src
				if i := strings.IndexByte(src, ':'); i > 0 {
					kind = src[:i]
				}
				kinds[key][kind] = true
			}
		}
	}

	for i := range recs {
		maxKinds := 0
		for _, res := range recs[i].Resources {
			if n := len(kinds[recs[i].Category+"|"+res]); n > maxKinds {
				maxKinds = n
			}
		}
		if maxKinds > 1 {
			recs[i].Confidence = clamp01(recs[i].Confidence + 0.1*float64(maxKinds-1))
		}
	}
}

// applyCaps drops the lowest-ranked entries beyond the per-category and
// overall caps. Callers receive the suppressed count so the truncation
// stays observable.
func (e *Engine) applyCaps(sorted []recommendation.Recommendation) ([]recommendation.Recommendation, int) {
	perCategory := map[string]int{}
	kept := make([]recommendation.Recommendation, 0, len(sorted))
	suppressed := 0
	for _, r := range sorted {
		if len(kept) >= e.cfg.MaxRecommendations || perCategory[r.Category] >= e.cfg.MaxPerCategory {
			suppressed++
			continue
		}
		perCategory[r.Category]++
		kept = append(kept, r)
	}
	return kept, suppressed
}

func unionSorted(a, b []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range append(append([]string(nil), a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// humanBytes renders a byte count for recommendation text
func humanBytes(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	units := []string{"B", "KB", "MB", "GB", "TB", "PB"}
	i := 0
	for v >= 1000 && i < len(units)-1 {
		v /= 1000
		i++
	}
	s := fmt.Sprintf("%.1f %s", v, units[i])
	if neg {
		s = "-" + s
	}
	return s
}
