package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/egresswatch/egresswatch/internal/api/dto"
	"github.com/egresswatch/egresswatch/internal/domain/trend"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/pkg/utils"
)

type TrendHandler struct {
	service trend.Service
	logger  *logger.Logger
}

func NewTrendHandler(service trend.Service, log *logger.Logger) *TrendHandler {
	return &TrendHandler{service: service, logger: log}
}

// List returns trend results with pagination and filtering
func (h *TrendHandler) List(w http.ResponseWriter, r *http.Request) {
	params := utils.ParsePaginationParams(r)
	filter := trend.Filter{
		RunID:      r.URL.Query().Get("run_id"),
		ResourceID: r.URL.Query().Get("resource_id"),
		Direction:  r.URL.Query().Get("direction"),
	}

	results, total, err := h.service.List(r.Context(), filter, params.PageSize, params.Offset)
	if err != nil {
		writeServiceError(w, err, "Failed to list trends")
		return
	}

	dtos := make([]dto.TrendDTO, len(results))
	for i, t := range results {
		dtos[i] = toTrendDTO(t)
	}
	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, params.Page, params.PageSize, total))
}

// Get returns a single trend result by ID
func (h *TrendHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	t, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to get trend")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, toTrendDTO(t))
}

// GetSummary returns trend counts by direction for a run
func (h *TrendHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context(), r.URL.Query().Get("run_id"))
	if err != nil {
		writeServiceError(w, err, "Failed to get trend summary")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, summary)
}
