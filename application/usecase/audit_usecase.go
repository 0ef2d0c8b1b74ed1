package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/edaplatform/eda-api/application/port/inbound"
	"github.com/edaplatform/eda-api/application/port/outbound"
	"github.com/edaplatform/eda-api/application/serializer"
	"github.com/edaplatform/eda-api/domain"
	"github.com/edaplatform/eda-api/infrastructure/service/logger"
)

// AuditRepositories groups the stores the audit use case reads
type AuditRepositories struct {
	Rules               outbound.AuditRuleRepository
	Actions             outbound.AuditActionRepository
	Events              outbound.AuditEventRepository
	Organizations       outbound.OrganizationRepository
	ActivationInstances outbound.ActivationInstanceRepository
}

type AuditUseCase struct {
	repos    AuditRepositories
	lookup   relationLookup
	cache    outbound.RepresentationCache
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewAuditUseCase(
	repos AuditRepositories,
	cache outbound.RepresentationCache,
	cacheTTL time.Duration,
	logger logger.Logger,
) inbound.AuditUseCase {
	return &AuditUseCase{
		repos:    repos,
		lookup:   relationLookup{organizations: repos.Organizations, actions: repos.Actions},
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func auditRuleCacheKey(id int64) string {
	return "audit_rule:" + strconv.FormatInt(id, 10)
}

func (uc *AuditUseCase) ListAuditRules(ctx context.Context, req inbound.ListAuditRulesRequest) (*inbound.ListResponse[serializer.AuditRuleListItem], error) {
	page := domain.NewPage(req.Page, req.PageSize)
	rules, total, err := uc.repos.Rules.List(ctx, domain.AuditRuleFilter{Name: req.Name, Page: page})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit rules: %w", err)
	}

	return &inbound.ListResponse[serializer.AuditRuleListItem]{
		Results:  serializer.NewAuditRuleList(rules),
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}, nil
}

// GetAuditRule serves the detail form, from cache when possible. Cache
// failures only cost a database read.
func (uc *AuditUseCase) GetAuditRule(ctx context.Context, id int64) (*serializer.AuditRuleDetail, error) {
	key := auditRuleCacheKey(id)

	var cached serializer.AuditRuleDetail
	found, err := uc.cache.Get(ctx, key, &cached)
	if err != nil {
		uc.logger.Warn(ctx, "Audit rule cache read failed", map[string]interface{}{
			"audit_rule_id": id,
			"error":         err.Error(),
		})
	}
	if found {
		return &cached, nil
	}

	rule, err := uc.repos.Rules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := serializer.NewAuditRuleDetail(rule)

	if err := uc.cache.Set(ctx, key, detail, uc.cacheTTL); err != nil {
		uc.logger.Warn(ctx, "Audit rule cache write failed", map[string]interface{}{
			"audit_rule_id": id,
			"error":         err.Error(),
		})
	}
	return &detail, nil
}

func (uc *AuditUseCase) ensureRule(ctx context.Context, id int64) error {
	exists, err := uc.repos.Rules.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find audit rule: %w", err)
	}
	if !exists {
		return domain.ErrAuditRuleNotFound
	}
	return nil
}

func (uc *AuditUseCase) ListAuditActions(ctx context.Context, req inbound.ListRuleChildrenRequest) (*inbound.ListResponse[serializer.AuditAction], error) {
	if err := uc.ensureRule(ctx, req.AuditRuleID); err != nil {
		return nil, err
	}

	page := domain.NewPage(req.Page, req.PageSize)
	actions, total, err := uc.repos.Actions.ListByRule(ctx, domain.AuditActionFilter{
		AuditRuleID: req.AuditRuleID,
		Name:        req.Name,
		Page:        page,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit actions: %w", err)
	}

	return &inbound.ListResponse[serializer.AuditAction]{
		Results:  serializer.NewAuditActions(actions),
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}, nil
}

func (uc *AuditUseCase) ListAuditEvents(ctx context.Context, req inbound.ListRuleChildrenRequest) (*inbound.ListResponse[serializer.AuditEvent], error) {
	if err := uc.ensureRule(ctx, req.AuditRuleID); err != nil {
		return nil, err
	}

	page := domain.NewPage(req.Page, req.PageSize)
	events, total, err := uc.repos.Events.ListByRule(ctx, domain.AuditEventFilter{
		AuditRuleID: req.AuditRuleID,
		SourceName:  req.Name,
		Page:        page,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}

	return &inbound.ListResponse[serializer.AuditEvent]{
		Results:  serializer.NewAuditEvents(events),
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}, nil
}

func (uc *AuditUseCase) CreateAuditRule(ctx context.Context, req inbound.CreateAuditRuleRequest) (*serializer.AuditRule, error) {
	rule, err := req.Input.Decode()
	if err != nil {
		return nil, err
	}

	exists, err := uc.repos.Organizations.Exists(ctx, req.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	if !exists {
		return nil, domain.ErrOrganizationNotFound
	}
	rule.OrganizationID = req.OrganizationID

	if req.ActivationInstanceID != nil {
		exists, err := uc.repos.ActivationInstances.Exists(ctx, *req.ActivationInstanceID)
		if err != nil {
			return nil, fmt.Errorf("failed to find activation instance: %w", err)
		}
		if exists {
			rule.ActivationInstanceID = req.ActivationInstanceID
		}
	}
	rule.JobInstanceID = req.JobInstanceID

	if err := uc.repos.Rules.Create(ctx, rule); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create audit rule: %w", err)
	}
	if err := uc.cache.Delete(ctx, auditRuleCacheKey(rule.ID)); err != nil {
		uc.logger.Warn(ctx, "Audit rule cache invalidation failed", map[string]interface{}{
			"audit_rule_id": rule.ID,
			"error":         err.Error(),
		})
	}

	logger.LogAuditIngest(ctx, uc.logger, "rule", strconv.FormatInt(rule.ID, 10), map[string]interface{}{
		"name":            rule.Name,
		"organization_id": rule.OrganizationID,
	})

	out := serializer.NewAuditRule(rule)
	return &out, nil
}

func (uc *AuditUseCase) CreateAuditAction(ctx context.Context, auditRuleID int64, in serializer.AuditActionInput) (*serializer.AuditAction, error) {
	if err := uc.ensureRule(ctx, auditRuleID); err != nil {
		return nil, err
	}

	action, err := in.Decode(auditRuleID)
	if err != nil {
		return nil, err
	}

	if err := uc.repos.Actions.Create(ctx, action); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create audit action: %w", err)
	}

	logger.LogAuditIngest(ctx, uc.logger, "action", action.ID, map[string]interface{}{
		"audit_rule_id": auditRuleID,
		"status":        action.Status,
	})

	out := serializer.NewAuditAction(action)
	return &out, nil
}

func (uc *AuditUseCase) CreateAuditEvent(ctx context.Context, in serializer.AuditEventInput) (*serializer.AuditEvent, error) {
	event, err := in.Decode(ctx, uc.lookup)
	if err != nil {
		return nil, err
	}

	if err := uc.repos.Events.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create audit event: %w", err)
	}

	logger.LogAuditIngest(ctx, uc.logger, "event", event.ID, map[string]interface{}{
		"source_name":   event.SourceName,
		"audit_actions": len(event.AuditActions),
	})

	out := serializer.NewAuditEvent(event)
	return &out, nil
}
