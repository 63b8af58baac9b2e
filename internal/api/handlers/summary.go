package handlers

import (
	"net/http"

	"github.com/egresswatch/egresswatch/internal/api/dto"
	"github.com/egresswatch/egresswatch/internal/domain/anomaly"
	"github.com/egresswatch/egresswatch/internal/domain/cost"
	"github.com/egresswatch/egresswatch/internal/domain/recommendation"
	"github.com/egresswatch/egresswatch/internal/domain/run"
	"github.com/egresswatch/egresswatch/internal/domain/trend"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/pkg/utils"
)

// SummaryHandler aggregates the outcome of the most recent run into a
// single dashboard-friendly payload.
type SummaryHandler struct {
	runs   run.Service
	trends trend.Service
	costs  cost.Service
	anoms  anomaly.Service
	recs   recommendation.Service
	logger *logger.Logger
}

func NewSummaryHandler(
	runs run.Service,
	trends trend.Service,
	costs cost.Service,
	anoms anomaly.Service,
	recs recommendation.Service,
	log *logger.Logger,
) *SummaryHandler {
	return &SummaryHandler{runs: runs, trends: trends, costs: costs, anoms: anoms, recs: recs, logger: log}
}

// Get returns the latest run with its per-category breakdowns
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	latest, err := h.runs.Latest(ctx)
	if err != nil {
		writeServiceError(w, err, "Failed to get latest run")
		return
	}
	if latest == nil {
		utils.WriteSuccess(w, http.StatusOK, dto.SummaryDTO{
			TrendsByDirection:   map[string]int{},
			AnomaliesBySeverity: map[string]int{},
			RecsByCategory:      map[string]int{},
		})
		return
	}

	trendCounts, err := h.trends.GetSummary(ctx, latest.ID)
	if err != nil {
		writeServiceError(w, err, "Failed to get trend summary")
		return
	}
	anomalyCounts, err := h.anoms.GetSummary(ctx, latest.ID)
	if err != nil {
		writeServiceError(w, err, "Failed to get anomaly summary")
		return
	}
	recCounts, err := h.recs.GetSummary(ctx, latest.ID)
	if err != nil {
		writeServiceError(w, err, "Failed to get recommendation summary")
		return
	}
	projected, err := h.costs.GetTotalProjected(ctx, latest.ID)
	if err != nil {
		writeServiceError(w, err, "Failed to get projected cost")
		return
	}

	runDTO := toRunDTO(latest)
	utils.WriteSuccess(w, http.StatusOK, dto.SummaryDTO{
		Run:                 &runDTO,
		TrendsByDirection:   trendCounts,
		AnomaliesBySeverity: anomalyCounts,
		RecsByCategory:      recCounts,
		TotalProjectedCost:  projected,
	})
}
