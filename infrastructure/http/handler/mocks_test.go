package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/edaplatform/eda-api/application/port/inbound"
	"github.com/edaplatform/eda-api/application/serializer"
)

type MockRulebookUseCase struct {
	mock.Mock
}

func (m *MockRulebookUseCase) ListRulebooks(ctx context.Context, req inbound.ListRulebooksRequest) (*inbound.ListResponse[serializer.Rulebook], error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*inbound.ListResponse[serializer.Rulebook])
	return resp, args.Error(1)
}

func (m *MockRulebookUseCase) GetRulebook(ctx context.Context, id int64) (*serializer.Rulebook, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*serializer.Rulebook)
	return resp, args.Error(1)
}

func (m *MockRulebookUseCase) CreateRulebook(ctx context.Context, in serializer.RulebookInput) (*serializer.Rulebook, error) {
	args := m.Called(ctx, in)
	resp, _ := args.Get(0).(*serializer.Rulebook)
	return resp, args.Error(1)
}

func (m *MockRulebookUseCase) UpdateRulebook(ctx context.Context, id int64, in serializer.RulebookInput) (*serializer.Rulebook, error) {
	args := m.Called(ctx, id, in)
	resp, _ := args.Get(0).(*serializer.Rulebook)
	return resp, args.Error(1)
}

func (m *MockRulebookUseCase) ListProjectRulebooks(ctx context.Context, projectID int64, page, pageSize int) (*inbound.ListResponse[serializer.RulebookRef], error) {
	args := m.Called(ctx, projectID, page, pageSize)
	resp, _ := args.Get(0).(*inbound.ListResponse[serializer.RulebookRef])
	return resp, args.Error(1)
}

type MockAuditUseCase struct {
	mock.Mock
}

func (m *MockAuditUseCase) ListAuditRules(ctx context.Context, req inbound.ListAuditRulesRequest) (*inbound.ListResponse[serializer.AuditRuleListItem], error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*inbound.ListResponse[serializer.AuditRuleListItem])
	return resp, args.Error(1)
}

func (m *MockAuditUseCase) GetAuditRule(ctx context.Context, id int64) (*serializer.AuditRuleDetail, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*serializer.AuditRuleDetail)
	return resp, args.Error(1)
}

func (m *MockAuditUseCase) ListAuditActions(ctx context.Context, req inbound.ListRuleChildrenRequest) (*inbound.ListResponse[serializer.AuditAction], error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*inbound.ListResponse[serializer.AuditAction])
	return resp, args.Error(1)
}

func (m *MockAuditUseCase) ListAuditEvents(ctx context.Context, req inbound.ListRuleChildrenRequest) (*inbound.ListResponse[serializer.AuditEvent], error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*inbound.ListResponse[serializer.AuditEvent])
	return resp, args.Error(1)
}

func (m *MockAuditUseCase) CreateAuditRule(ctx context.Context, req inbound.CreateAuditRuleRequest) (*serializer.AuditRule, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*serializer.AuditRule)
	return resp, args.Error(1)
}

func (m *MockAuditUseCase) CreateAuditAction(ctx context.Context, auditRuleID int64, in serializer.AuditActionInput) (*serializer.AuditAction, error) {
	args := m.Called(ctx, auditRuleID, in)
	resp, _ := args.Get(0).(*serializer.AuditAction)
	return resp, args.Error(1)
}

func (m *MockAuditUseCase) CreateAuditEvent(ctx context.Context, in serializer.AuditEventInput) (*serializer.AuditEvent, error) {
	args := m.Called(ctx, in)
	resp, _ := args.Get(0).(*serializer.AuditEvent)
	return resp, args.Error(1)
}
