package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/egresswatch/egresswatch/internal/api/dto"
	"github.com/egresswatch/egresswatch/internal/domain/anomaly"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/pkg/utils"
)

type AnomalyHandler struct {
	service anomaly.Service
	logger  *logger.Logger
}

func NewAnomalyHandler(service anomaly.Service, log *logger.Logger) *AnomalyHandler {
	return &AnomalyHandler{service: service, logger: log}
}

// List returns anomalies with pagination and filtering
func (h *AnomalyHandler) List(w http.ResponseWriter, r *http.Request) {
	params := utils.ParsePaginationParams(r)
	filter := anomaly.Filter{
		RunID:      r.URL.Query().Get("run_id"),
		ResourceID: r.URL.Query().Get("resource_id"),
		Severity:   r.URL.Query().Get("severity"),
		Method:     r.URL.Query().Get("method"),
	}

	anomalies, total, err := h.service.List(r.Context(), filter, params.PageSize, params.Offset)
	if err != nil {
		writeServiceError(w, err, "Failed to list anomalies")
		return
	}

	dtos := make([]dto.AnomalyDTO, len(anomalies))
	for i, a := range anomalies {
		dtos[i] = toAnomalyDTO(a)
	}
	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, params.Page, params.PageSize, total))
}

// Get returns a single anomaly by ID
func (h *AnomalyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	a, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to get anomaly")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, toAnomalyDTO(a))
}

// GetSummary returns anomaly counts by severity for a run
func (h *AnomalyHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context(), r.URL.Query().Get("run_id"))
	if err != nil {
		writeServiceError(w, err, "Failed to get anomaly summary")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, summary)
}
