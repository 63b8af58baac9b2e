package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/egresswatch/egresswatch/internal/api/dto"
	"github.com/egresswatch/egresswatch/internal/domain/recommendation"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/pkg/utils"
)

type RecommendationHandler struct {
	service recommendation.Service
	logger  *logger.Logger
}

func NewRecommendationHandler(service recommendation.Service, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{service: service, logger: log}
}

// List returns recommendations with pagination and filtering
func (h *RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	params := utils.ParsePaginationParams(r)
	filter := recommendation.Filter{
		RunID:    r.URL.Query().Get("run_id"),
		Category: r.URL.Query().Get("category"),
		Priority: r.URL.Query().Get("priority"),
	}

	recs, total, err := h.service.List(r.Context(), filter, params.PageSize, params.Offset)
	if err != nil {
		writeServiceError(w, err, "Failed to list recommendations")
		return
	}

	dtos := make([]dto.RecommendationDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toRecommendationDTO(rec)
	}
	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, params.Page, params.PageSize, total))
}

// Get returns a single recommendation by run and ID
func (h *RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runId")
	id := chi.URLParam(r, "id")

	rec, err := h.service.GetByID(r.Context(), runID, id)
	if err != nil {
		writeServiceError(w, err, "Failed to get recommendation")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, toRecommendationDTO(rec))
}

// GetSummary returns recommendation counts by category for a run
func (h *RecommendationHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context(), r.URL.Query().Get("run_id"))
	if err != nil {
		writeServiceError(w, err, "Failed to get recommendation summary")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, summary)
}
