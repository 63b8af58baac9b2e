package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/egresswatch/egresswatch/internal/api/dto"
	"github.com/egresswatch/egresswatch/internal/domain/run"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/pkg/utils"
)

type RunHandler struct {
	service run.Service
	logger  *logger.Logger
}

func NewRunHandler(service run.Service, log *logger.Logger) *RunHandler {
	return &RunHandler{service: service, logger: log}
}

// List returns runs newest first with pagination
func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	params := utils.ParsePaginationParams(r)

	runs, total, err := h.service.List(r.Context(), params.PageSize, params.Offset)
	if err != nil {
		writeServiceError(w, err, "Failed to list runs")
		return
	}

	dtos := make([]dto.RunDTO, len(runs))
	for i, rn := range runs {
		dtos[i] = toRunDTO(rn)
	}
	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, params.Page, params.PageSize, total))
}

// Get returns a single run by ID
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rn, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to get run")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, toRunDTO(rn))
}

// Latest returns the most recently started run
func (h *RunHandler) Latest(w http.ResponseWriter, r *http.Request) {
	rn, err := h.service.Latest(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to get latest run")
		return
	}
	if rn == nil {
		utils.WriteSuccess(w, http.StatusOK, nil)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, toRunDTO(rn))
}

// Trigger starts a new collect+analyze run synchronously
func (h *RunHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	rn, err := h.service.Trigger(r.Context(), run.TriggerAPI)
	if err != nil {
		if rn != nil {
			// run record exists but the pass failed; surface both
			utils.WriteSuccess(w, http.StatusInternalServerError, toRunDTO(rn))
			return
		}
		writeServiceError(w, err, "Failed to trigger run")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, toRunDTO(rn))
}
