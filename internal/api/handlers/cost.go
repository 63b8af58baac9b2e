package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/egresswatch/egresswatch/internal/api/dto"
	"github.com/egresswatch/egresswatch/internal/domain/cost"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/pkg/utils"
)

type CostHandler struct {
	service cost.Service
	logger  *logger.Logger
}

func NewCostHandler(service cost.Service, log *logger.Logger) *CostHandler {
	return &CostHandler{service: service, logger: log}
}

// List returns cost estimates with pagination and filtering
func (h *CostHandler) List(w http.ResponseWriter, r *http.Request) {
	params := utils.ParsePaginationParams(r)
	filter := cost.Filter{
		RunID:      r.URL.Query().Get("run_id"),
		ResourceID: r.URL.Query().Get("resource_id"),
		Status:     r.URL.Query().Get("status"),
	}

	estimates, total, err := h.service.List(r.Context(), filter, params.PageSize, params.Offset)
	if err != nil {
		writeServiceError(w, err, "Failed to list cost estimates")
		return
	}

	dtos := make([]dto.CostEstimateDTO, len(estimates))
	for i, e := range estimates {
		dtos[i] = toCostDTO(e)
	}
	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, params.Page, params.PageSize, total))
}

// Get returns a single cost estimate by ID
func (h *CostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	e, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to get cost estimate")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, toCostDTO(e))
}

// GetTotalProjected returns the summed projected monthly cost for a run
func (h *CostHandler) GetTotalProjected(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.GetTotalProjected(r.Context(), r.URL.Query().Get("run_id"))
	if err != nil {
		writeServiceError(w, err, "Failed to get projected cost")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]float64{"totalProjectedMonthly": total})
}
