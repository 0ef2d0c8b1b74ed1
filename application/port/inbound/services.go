package inbound

import (
	"context"

	"github.com/edaplatform/eda-api/application/serializer"
)

// ListResponse is one page of representations
type ListResponse[T any] struct {
	Results  []T `json:"results"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ListRulebooksRequest represents the query of a rulebook listing
type ListRulebooksRequest struct {
	Name      string
	ProjectID *int64
	Page      int
	PageSize  int
}

// RulebookUseCase exposes rulebooks over the API
type RulebookUseCase interface {
	ListRulebooks(ctx context.Context, req ListRulebooksRequest) (*ListResponse[serializer.Rulebook], error)
	GetRulebook(ctx context.Context, id int64) (*serializer.Rulebook, error)
	CreateRulebook(ctx context.Context, in serializer.RulebookInput) (*serializer.Rulebook, error)
	UpdateRulebook(ctx context.Context, id int64, in serializer.RulebookInput) (*serializer.Rulebook, error)
	ListProjectRulebooks(ctx context.Context, projectID int64, page, pageSize int) (*ListResponse[serializer.RulebookRef], error)
}

// ListAuditRulesRequest represents the query of an audit rule listing
type ListAuditRulesRequest struct {
	Name     string
	Page     int
	PageSize int
}

// ListRuleChildrenRequest represents the query of a rule's actions or events
type ListRuleChildrenRequest struct {
	AuditRuleID int64
	// Name filters actions by name and events by source name
	Name     string
	Page     int
	PageSize int
}

// CreateAuditRuleRequest carries the relations that are read-only in the body
type CreateAuditRuleRequest struct {
	Input                serializer.AuditRuleInput
	OrganizationID       int64
	ActivationInstanceID *int64
	JobInstanceID        *int64
}

// AuditUseCase exposes fired rules, their actions and events
type AuditUseCase interface {
	ListAuditRules(ctx context.Context, req ListAuditRulesRequest) (*ListResponse[serializer.AuditRuleListItem], error)
	GetAuditRule(ctx context.Context, id int64) (*serializer.AuditRuleDetail, error)
	ListAuditActions(ctx context.Context, req ListRuleChildrenRequest) (*ListResponse[serializer.AuditAction], error)
	ListAuditEvents(ctx context.Context, req ListRuleChildrenRequest) (*ListResponse[serializer.AuditEvent], error)

	CreateAuditRule(ctx context.Context, req CreateAuditRuleRequest) (*serializer.AuditRule, error)
	CreateAuditAction(ctx context.Context, auditRuleID int64, in serializer.AuditActionInput) (*serializer.AuditAction, error)
	CreateAuditEvent(ctx context.Context, in serializer.AuditEventInput) (*serializer.AuditEvent, error)
}
