package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/edaplatform/eda-api/application/port/inbound"
	"github.com/edaplatform/eda-api/application/serializer"
	"github.com/edaplatform/eda-api/infrastructure/http/response"
	"github.com/edaplatform/eda-api/infrastructure/service/logger"
)

type RulebookHandler struct {
	rulebookUseCase inbound.RulebookUseCase
	logger          logger.Logger
}

func NewRulebookHandler(rulebookUseCase inbound.RulebookUseCase, logger logger.Logger) *RulebookHandler {
	return &RulebookHandler{rulebookUseCase: rulebookUseCase, logger: logger}
}

// RegisterRoutes registers rulebook routes
func (h *RulebookHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/rulebooks", h.ListRulebooks).Methods(http.MethodGet)
	router.HandleFunc("/rulebooks", h.CreateRulebook).Methods(http.MethodPost)
	router.HandleFunc("/rulebooks/{id}", h.GetRulebook).Methods(http.MethodGet)
	router.HandleFunc("/rulebooks/{id}", h.UpdateRulebook).Methods(http.MethodPut)
	router.HandleFunc("/projects/{id}/rulebooks", h.ListProjectRulebooks).Methods(http.MethodGet)
}

func (h *RulebookHandler) ListRulebooks(w http.ResponseWriter, r *http.Request) {
	projectID, ok := queryID(r, "project_id")
	if !ok {
		response.BadRequest(w, "Invalid project_id")
		return
	}

	page, pageSize := pagination(r)
	resp, err := h.rulebookUseCase.ListRulebooks(r.Context(), inbound.ListRulebooksRequest{
		Name:      r.URL.Query().Get("name"),
		ProjectID: projectID,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Rulebooks retrieved successfully", resp)
}

func (h *RulebookHandler) GetRulebook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid rulebook ID")
		return
	}

	rulebook, err := h.rulebookUseCase.GetRulebook(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Rulebook retrieved successfully", rulebook)
}

func (h *RulebookHandler) CreateRulebook(w http.ResponseWriter, r *http.Request) {
	var in serializer.RulebookInput
	if !decodeBody(r, &in) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	rulebook, err := h.rulebookUseCase.CreateRulebook(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusCreated, "Rulebook created successfully", rulebook)
}

func (h *RulebookHandler) UpdateRulebook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid rulebook ID")
		return
	}

	var in serializer.RulebookInput
	if !decodeBody(r, &in) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	rulebook, err := h.rulebookUseCase.UpdateRulebook(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Rulebook updated successfully", rulebook)
}

func (h *RulebookHandler) ListProjectRulebooks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	page, pageSize := pagination(r)
	resp, err := h.rulebookUseCase.ListProjectRulebooks(r.Context(), id, page, pageSize)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Rulebooks retrieved successfully", resp)
}
