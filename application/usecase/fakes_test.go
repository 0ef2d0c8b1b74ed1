package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/edaplatform/eda-api/domain"
)

// In-memory repositories shared by the use case tests

type fakeRulebookRepository struct {
	rulebooks map[int64]*domain.Rulebook
	nextID    int64
	err       error
}

func newFakeRulebookRepository() *fakeRulebookRepository {
	return &fakeRulebookRepository{rulebooks: make(map[int64]*domain.Rulebook), nextID: 1}
}

func (m *fakeRulebookRepository) Create(ctx context.Context, rulebook *domain.Rulebook) error {
	if m.err != nil {
		return m.err
	}
	rulebook.ID = m.nextID
	m.nextID++
	copied := *rulebook
	m.rulebooks[rulebook.ID] = &copied
	return nil
}

func (m *fakeRulebookRepository) Update(ctx context.Context, rulebook *domain.Rulebook) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rulebooks[rulebook.ID]; !ok {
		return domain.ErrRulebookNotFound
	}
	copied := *rulebook
	m.rulebooks[rulebook.ID] = &copied
	return nil
}

func (m *fakeRulebookRepository) FindByID(ctx context.Context, id int64) (*domain.Rulebook, error) {
	rulebook, ok := m.rulebooks[id]
	if !ok {
		return nil, domain.ErrRulebookNotFound
	}
	copied := *rulebook
	return &copied, nil
}

func (m *fakeRulebookRepository) List(ctx context.Context, filter domain.RulebookFilter) ([]*domain.Rulebook, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	var out []*domain.Rulebook
	for _, rb := range m.rulebooks {
		if filter.Name != "" && !strings.Contains(strings.ToLower(rb.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.ProjectID != nil && (rb.ProjectID == nil || *rb.ProjectID != *filter.ProjectID) {
			continue
		}
		out = append(out, rb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

type fakeExistsRepository map[int64]bool

func (m fakeExistsRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return m[id], nil
}

type fakeAuditRuleRepository struct {
	rules map[int64]*domain.AuditRule
	finds int
}

func newFakeAuditRuleRepository() *fakeAuditRuleRepository {
	return &fakeAuditRuleRepository{rules: make(map[int64]*domain.AuditRule)}
}

func (m *fakeAuditRuleRepository) Create(ctx context.Context, rule *domain.AuditRule) error {
	if _, ok := m.rules[rule.ID]; ok {
		return domain.ErrAlreadyExists
	}
	copied := *rule
	m.rules[rule.ID] = &copied
	return nil
}

func (m *fakeAuditRuleRepository) FindByID(ctx context.Context, id int64) (*domain.AuditRule, error) {
	m.finds++
	rule, ok := m.rules[id]
	if !ok {
		return nil, domain.ErrAuditRuleNotFound
	}
	copied := *rule
	return &copied, nil
}

func (m *fakeAuditRuleRepository) List(ctx context.Context, filter domain.AuditRuleFilter) ([]*domain.AuditRule, int, error) {
	var out []*domain.AuditRule
	for _, rule := range m.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiredAt.After(out[j].FiredAt) })
	return out, len(out), nil
}

func (m *fakeAuditRuleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := m.rules[id]
	return ok, nil
}

type fakeAuditActionRepository struct {
	actions map[string]*domain.AuditAction
}

func newFakeAuditActionRepository() *fakeAuditActionRepository {
	return &fakeAuditActionRepository{actions: make(map[string]*domain.AuditAction)}
}

func (m *fakeAuditActionRepository) Create(ctx context.Context, action *domain.AuditAction) error {
	if _, ok := m.actions[action.ID]; ok {
		return domain.ErrAlreadyExists
	}
	m.actions[action.ID] = action
	return nil
}

func (m *fakeAuditActionRepository) ListByRule(ctx context.Context, filter domain.AuditActionFilter) ([]*domain.AuditAction, int, error) {
	var out []*domain.AuditAction
	for _, action := range m.actions {
		if action.AuditRuleID == filter.AuditRuleID {
			out = append(out, action)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiredAt.After(out[j].FiredAt) })
	return out, len(out), nil
}

func (m *fakeAuditActionRepository) Missing(ctx context.Context, ids []string) ([]string, error) {
	var missing []string
	for _, id := range ids {
		if _, ok := m.actions[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type fakeAuditEventRepository struct {
	events []*domain.AuditEvent
}

func (m *fakeAuditEventRepository) Create(ctx context.Context, event *domain.AuditEvent) error {
	for _, existing := range m.events {
		if existing.ID == event.ID {
			return domain.ErrAlreadyExists
		}
	}
	m.events = append(m.events, event)
	return nil
}

func (m *fakeAuditEventRepository) ListByRule(ctx context.Context, filter domain.AuditEventFilter) ([]*domain.AuditEvent, int, error) {
	return m.events, len(m.events), nil
}
