package handlers

import (
	"net/http"

	"github.com/egresswatch/egresswatch/internal/api/dto"
	"github.com/egresswatch/egresswatch/internal/domain/anomaly"
	"github.com/egresswatch/egresswatch/internal/domain/cost"
	"github.com/egresswatch/egresswatch/internal/domain/recommendation"
	"github.com/egresswatch/egresswatch/internal/domain/run"
	"github.com/egresswatch/egresswatch/internal/domain/trend"
	"github.com/egresswatch/egresswatch/internal/pkg/errors"
	"github.com/egresswatch/egresswatch/internal/pkg/utils"
)

// writeServiceError maps a service error to an HTTP response, preserving
// the status of typed application errors.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if appErr, ok := err.(*errors.AppError); ok {
		utils.WriteError(w, appErr)
		return
	}
	utils.WriteError(w, errors.Internal(fallback, err))
}

func toRunDTO(rn *run.Run) dto.RunDTO {
	return dto.RunDTO{
		ID: rn.ID, Trigger: rn.Trigger, Status: rn.Status,
		WindowStart: rn.WindowStart, WindowEnd: rn.WindowEnd,
		StartedAt: rn.StartedAt, CompletedAt: rn.CompletedAt,
		SeriesTotal: rn.SeriesTotal, SeriesFailed: rn.SeriesFailed,
		AnomalyCount: rn.AnomalyCount, RecommendationCount: rn.RecommendationCount,
		Suppressed: rn.Suppressed, TotalProjectedCost: rn.TotalProjectedCost,
		Error: rn.Error,
	}
}

func toTrendDTO(t *trend.Result) dto.TrendDTO {
	return dto.TrendDTO{
		ID: t.ID, RunID: t.RunID, ResourceID: t.ResourceID, MetricKey: t.MetricKey,
		Slope: t.Slope, Intercept: t.Intercept, RSquared: t.RSquared, Direction: t.Direction,
		Patterns: t.Patterns, PeakDays: t.PeakDays, LowDays: t.LowDays, PeakHours: t.PeakHours,
		Mean: t.Mean, SampleCount: t.SampleCount,
		WindowStart: t.WindowStart, WindowEnd: t.WindowEnd,
	}
}

func toCostDTO(e *cost.Estimate) dto.CostEstimateDTO {
	breakdown := make([]dto.TierCostDTO, len(e.Breakdown))
	for i, tier := range e.Breakdown {
		breakdown[i] = dto.TierCostDTO{
			UpperBytes: tier.UpperBytes, BytesInTier: tier.BytesInTier,
			RatePerByte: tier.RatePerByte, Cost: tier.Cost,
		}
	}
	return dto.CostEstimateDTO{
		ID: e.ID, RunID: e.RunID, ResourceID: e.ResourceID, Region: e.Region,
		Approximate: e.Approximate, PeriodStart: e.PeriodStart, PeriodEnd: e.PeriodEnd,
		TotalBytes: e.TotalBytes, Breakdown: breakdown, TotalCost: e.TotalCost,
		Currency: e.Currency, ProjectedMonthly: e.ProjectedMonthly,
		NearTierBoundary: e.NearTierBoundary, ThresholdStatus: e.ThresholdStatus,
	}
}

func toAnomalyDTO(a *anomaly.Anomaly) dto.AnomalyDTO {
	return dto.AnomalyDTO{
		ID: a.ID, RunID: a.RunID, ResourceID: a.ResourceID, MetricKey: a.MetricKey,
		Timestamp: a.Timestamp, Observed: a.Observed, Baseline: a.Baseline,
		Score: a.Score, Method: a.Method, Methods: a.Methods, Severity: a.Severity,
	}
}

func toRecommendationDTO(rec *recommendation.Recommendation) dto.RecommendationDTO {
	return dto.RecommendationDTO{
		ID: rec.ID, RunID: rec.RunID, Category: rec.Category, Priority: rec.Priority,
		Confidence: rec.Confidence, Title: rec.Title, Description: rec.Description,
		Resources: rec.Resources, Sources: rec.Sources, CreatedAt: rec.CreatedAt,
	}
}
