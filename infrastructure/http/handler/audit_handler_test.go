package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/edaplatform/eda-api/application/port/inbound"
	"github.com/edaplatform/eda-api/application/serializer"
	"github.com/edaplatform/eda-api/domain"
	"github.com/edaplatform/eda-api/infrastructure/service/logger"
)

func newAuditRouter(uc *MockAuditUseCase) *mux.Router {
	router := mux.NewRouter()
	NewAuditHandler(uc, 1, logger.NewNopLogger()).RegisterRoutes(router)
	return router
}

func TestAuditHandler_GetAuditRule(t *testing.T) {
	firedAt := serializer.DateTime(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	uc := &MockAuditUseCase{}
	uc.On("GetAuditRule", mock.Anything, int64(10)).Return(&serializer.AuditRuleDetail{
		ID:                 10,
		Name:               "restart web",
		Status:             "successful",
		ActivationInstance: serializer.NewActivationInstanceRef(nil),
		Organization:       serializer.OrganizationRef{ID: 1, Name: "Default"},
		RulesetName:        "webs",
		CreatedAt:          firedAt,
		FiredAt:            firedAt,
	}, nil)
	uc.On("GetAuditRule", mock.Anything, int64(11)).Return(nil, domain.ErrAuditRuleNotFound)

	rr := httptest.NewRecorder()
	newAuditRouter(uc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/audit-rules/10", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":true,"message":"Audit rule retrieved successfully","data":{
		"id": 10,
		"name": "restart web",
		"status": "successful",
		"activation_instance": {"id": null, "name": "DELETED"},
		"organization": {"id": 1, "name": "Default", "description": ""},
		"ruleset_name": "webs",
		"created_at": "2024-05-01T10:00:00Z",
		"fired_at": "2024-05-01T10:00:00Z"
	}}`, rr.Body.String())

	rr = httptest.NewRecorder()
	newAuditRouter(uc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/audit-rules/11", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAuditHandler_ListAuditRules(t *testing.T) {
	uc := &MockAuditUseCase{}
	uc.On("ListAuditRules", mock.Anything, inbound.ListAuditRulesRequest{Name: "web", Page: 1, PageSize: 10}).
		Return(&inbound.ListResponse[serializer.AuditRuleListItem]{
			Results: []serializer.AuditRuleListItem{}, Page: 1, PageSize: 10,
		}, nil)

	rr := httptest.NewRecorder()
	newAuditRouter(uc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/audit-rules?name=web&page=1&page_size=10", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":true,"message":"Audit rules retrieved successfully","data":{"results":[],"total":0,"page":1,"page_size":10}}`, rr.Body.String())
	uc.AssertExpectations(t)
}

func TestAuditHandler_ListChildren(t *testing.T) {
	uc := &MockAuditUseCase{}
	uc.On("ListAuditActions", mock.Anything, inbound.ListRuleChildrenRequest{AuditRuleID: 10, Name: "run"}).
		Return(&inbound.ListResponse[serializer.AuditAction]{Results: []serializer.AuditAction{}, Page: 1, PageSize: 20}, nil)
	uc.On("ListAuditEvents", mock.Anything, inbound.ListRuleChildrenRequest{AuditRuleID: 10, Name: "alerts"}).
		Return(&inbound.ListResponse[serializer.AuditEvent]{Results: []serializer.AuditEvent{}, Page: 1, PageSize: 20}, nil)
	uc.On("ListAuditEvents", mock.Anything, inbound.ListRuleChildrenRequest{AuditRuleID: 12}).
		Return(nil, domain.ErrAuditRuleNotFound)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"actions by name", "/audit-rules/10/actions?name=run", http.StatusOK},
		{"events by source", "/audit-rules/10/events?source_name=alerts", http.StatusOK},
		{"unknown rule", "/audit-rules/12/events", http.StatusNotFound},
		{"invalid rule id", "/audit-rules/0/actions", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			newAuditRouter(uc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestAuditHandler_CreateAuditRule(t *testing.T) {
	instanceID := int64(5)

	tests := []struct {
		name           string
		query          string
		expectedOrg    int64
		expectedInst   *int64
		expectedStatus int
	}{
		{"default organization", "", 1, nil, http.StatusCreated},
		{"explicit relations", "?organization_id=4&activation_instance_id=5", 4, &instanceID, http.StatusCreated},
		{"invalid organization", "?organization_id=x", 0, nil, http.StatusBadRequest},
		{"invalid instance", "?activation_instance_id=x", 0, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &MockAuditUseCase{}
			if tt.expectedStatus == http.StatusCreated {
				uc.On("CreateAuditRule", mock.Anything, mock.MatchedBy(func(req inbound.CreateAuditRuleRequest) bool {
					if req.OrganizationID != tt.expectedOrg {
						return false
					}
					if tt.expectedInst == nil {
						return req.ActivationInstanceID == nil
					}
					return req.ActivationInstanceID != nil && *req.ActivationInstanceID == *tt.expectedInst
				})).Return(&serializer.AuditRule{ID: 10, Definition: map[string]interface{}{}}, nil)
			}

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/audit-rules"+tt.query, bytes.NewBufferString(`{"id": 10}`))
			newAuditRouter(uc).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			uc.AssertExpectations(t)
		})
	}
}

func TestAuditHandler_CreateAuditActionAndEvent(t *testing.T) {
	uc := &MockAuditUseCase{}
	uc.On("CreateAuditAction", mock.Anything, int64(10), mock.AnythingOfType("serializer.AuditActionInput")).
		Return(&serializer.AuditAction{ID: "3f1c0f4e-7c61-4d7e-9a54-6ad6a3b3a1f0", AuditRuleID: 10}, nil)
	uc.On("CreateAuditEvent", mock.Anything, mock.AnythingOfType("serializer.AuditEventInput")).
		Return(nil, serializer.ValidationErrors{"audit_actions": {`Invalid pk "x" - object does not exist.`}})

	rr := httptest.NewRecorder()
	newAuditRouter(uc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/audit-rules/10/actions", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	newAuditRouter(uc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/audit-events", bytes.NewBufferString(`{"audit_actions": ["x"]}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"status":false,"message":"Invalid input","data":{"audit_actions":["Invalid pk \"x\" - object does not exist."]}}`, rr.Body.String())

	rr = httptest.NewRecorder()
	newAuditRouter(uc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/audit-events", bytes.NewBufferString(`not json`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
