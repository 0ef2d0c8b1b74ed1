package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/edaplatform/eda-api/application/port/inbound"
	"github.com/edaplatform/eda-api/application/serializer"
	"github.com/edaplatform/eda-api/infrastructure/http/response"
	"github.com/edaplatform/eda-api/infrastructure/service/logger"
)

type AuditHandler struct {
	auditUseCase          inbound.AuditUseCase
	defaultOrganizationID int64
	logger                logger.Logger
}

func NewAuditHandler(auditUseCase inbound.AuditUseCase, defaultOrganizationID int64, logger logger.Logger) *AuditHandler {
	return &AuditHandler{
		auditUseCase:          auditUseCase,
		defaultOrganizationID: defaultOrganizationID,
		logger:                logger,
	}
}

// RegisterRoutes registers audit routes
func (h *AuditHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/audit-rules", h.ListAuditRules).Methods(http.MethodGet)
	router.HandleFunc("/audit-rules", h.CreateAuditRule).Methods(http.MethodPost)
	router.HandleFunc("/audit-rules/{id}", h.GetAuditRule).Methods(http.MethodGet)
	router.HandleFunc("/audit-rules/{id}/actions", h.ListAuditActions).Methods(http.MethodGet)
	router.HandleFunc("/audit-rules/{id}/actions", h.CreateAuditAction).Methods(http.MethodPost)
	router.HandleFunc("/audit-rules/{id}/events", h.ListAuditEvents).Methods(http.MethodGet)
	router.HandleFunc("/audit-events", h.CreateAuditEvent).Methods(http.MethodPost)
}

func (h *AuditHandler) ListAuditRules(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	resp, err := h.auditUseCase.ListAuditRules(r.Context(), inbound.ListAuditRulesRequest{
		Name:     r.URL.Query().Get("name"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Audit rules retrieved successfully", resp)
}

func (h *AuditHandler) GetAuditRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid audit rule ID")
		return
	}

	rule, err := h.auditUseCase.GetAuditRule(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Audit rule retrieved successfully", rule)
}

func (h *AuditHandler) ListAuditActions(w http.ResponseWriter, r *http.Request) {
	h.listChildren(w, r, "Audit actions retrieved successfully", "name", func(req inbound.ListRuleChildrenRequest) (interface{}, error) {
		return h.auditUseCase.ListAuditActions(r.Context(), req)
	})
}

func (h *AuditHandler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	h.listChildren(w, r, "Audit events retrieved successfully", "source_name", func(req inbound.ListRuleChildrenRequest) (interface{}, error) {
		return h.auditUseCase.ListAuditEvents(r.Context(), req)
	})
}

func (h *AuditHandler) listChildren(
	w http.ResponseWriter,
	r *http.Request,
	message, filterKey string,
	list func(inbound.ListRuleChildrenRequest) (interface{}, error),
) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid audit rule ID")
		return
	}

	page, pageSize := pagination(r)
	resp, err := list(inbound.ListRuleChildrenRequest{
		AuditRuleID: id,
		Name:        r.URL.Query().Get(filterKey),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, message, resp)
}

// CreateAuditRule records a fired rule. The owning organization and the
// activation or job instance arrive as query parameters.
func (h *AuditHandler) CreateAuditRule(w http.ResponseWriter, r *http.Request) {
	orgID, ok := queryID(r, "organization_id")
	if !ok {
		response.BadRequest(w, "Invalid organization_id")
		return
	}
	instanceID, ok := queryID(r, "activation_instance_id")
	if !ok {
		response.BadRequest(w, "Invalid activation_instance_id")
		return
	}
	jobID, ok := queryID(r, "job_instance_id")
	if !ok {
		response.BadRequest(w, "Invalid job_instance_id")
		return
	}

	var in serializer.AuditRuleInput
	if !decodeBody(r, &in) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	req := inbound.CreateAuditRuleRequest{
		Input:                in,
		OrganizationID:       h.defaultOrganizationID,
		ActivationInstanceID: instanceID,
		JobInstanceID:        jobID,
	}
	if orgID != nil {
		req.OrganizationID = *orgID
	}

	rule, err := h.auditUseCase.CreateAuditRule(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusCreated, "Audit rule recorded successfully", rule)
}

func (h *AuditHandler) CreateAuditAction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.BadRequest(w, "Invalid audit rule ID")
		return
	}

	var in serializer.AuditActionInput
	if !decodeBody(r, &in) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	action, err := h.auditUseCase.CreateAuditAction(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusCreated, "Audit action recorded successfully", action)
}

func (h *AuditHandler) CreateAuditEvent(w http.ResponseWriter, r *http.Request) {
	var in serializer.AuditEventInput
	if !decodeBody(r, &in) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	event, err := h.auditUseCase.CreateAuditEvent(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusCreated, "Audit event recorded successfully", event)
}
