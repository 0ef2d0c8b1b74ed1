package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edaplatform/eda-api/application/serializer"
	"github.com/edaplatform/eda-api/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app error passes through", NewBadRequest("invalid id"), http.StatusBadRequest, "BAD_REQUEST"},
		{"validation errors", serializer.ValidationErrors{"name": {"This field is required."}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", domain.ErrRulebookNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("load: %w", domain.ErrAuditRuleNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", fmt.Errorf("insert: %w", domain.ErrAlreadyExists), http.StatusConflict, "CONFLICT"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestMapError_KeepsFieldMessages(t *testing.T) {
	got := MapError(fmt.Errorf("decode: %w", serializer.ValidationErrors{"id": {"Must be a valid UUID."}}))
	assert.Equal(t, map[string][]string{"id": {"Must be a valid UUID."}}, got.Fields)
	assert.Equal(t, "audit rule not found", MapError(domain.ErrAuditRuleNotFound).Message)
	assert.NotContains(t, MapError(errors.New("pq: password authentication failed")).Message, "pq")
}
