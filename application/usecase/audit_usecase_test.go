package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edaplatform/eda-api/application/port/inbound"
	"github.com/edaplatform/eda-api/application/serializer"
	"github.com/edaplatform/eda-api/domain"
	"github.com/edaplatform/eda-api/infrastructure/service/cache"
	"github.com/edaplatform/eda-api/infrastructure/service/logger"
)

const (
	actionID = "3f1c0f4e-7c61-4d7e-9a54-6ad6a3b3a1f0"
	eventID  = "0b8a2e39-51e4-4f0e-8c60-2a0d1b7e9f11"
)

type auditFixture struct {
	uc      inbound.AuditUseCase
	rules   *fakeAuditRuleRepository
	actions *fakeAuditActionRepository
	events  *fakeAuditEventRepository
}

func newAuditFixture() auditFixture {
	f := auditFixture{
		rules:   newFakeAuditRuleRepository(),
		actions: newFakeAuditActionRepository(),
		events:  &fakeAuditEventRepository{},
	}
	f.uc = NewAuditUseCase(AuditRepositories{
		Rules:               f.rules,
		Actions:             f.actions,
		Events:              f.events,
		Organizations:       fakeExistsRepository{1: true},
		ActivationInstances: fakeExistsRepository{5: true},
	}, cache.NewMemoryCache(), time.Minute, logger.NewNopLogger())
	return f
}

func decodeInto[T any](t *testing.T, body string) T {
	t.Helper()
	var in T
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

const ruleBody = `{
	"id": 10,
	"name": "restart web",
	"status": "successful",
	"fired_at": "2024-05-01T10:00:00Z",
	"created_at": "2024-05-01T10:00:01Z",
	"ruleset_name": "webs",
	"definition": {"condition": "event.status == 'down'"}
}`

func TestAuditUseCase_CreateAuditRule(t *testing.T) {
	f := newAuditFixture()
	instanceID := int64(5)
	jobID := int64(8)

	rule, err := f.uc.CreateAuditRule(context.Background(), inbound.CreateAuditRuleRequest{
		Input:                decodeInto[serializer.AuditRuleInput](t, ruleBody),
		OrganizationID:       1,
		ActivationInstanceID: &instanceID,
		JobInstanceID:        &jobID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), rule.ID)
	assert.Equal(t, int64(1), rule.OrganizationID)
	require.NotNil(t, rule.ActivationInstanceID)
	assert.Equal(t, instanceID, *rule.ActivationInstanceID)
	assert.Equal(t, &jobID, rule.JobInstanceID)

	_, err = f.uc.CreateAuditRule(context.Background(), inbound.CreateAuditRuleRequest{
		Input:          decodeInto[serializer.AuditRuleInput](t, ruleBody),
		OrganizationID: 1,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestAuditUseCase_CreateAuditRuleRelations(t *testing.T) {
	f := newAuditFixture()
	unknownInstance := int64(77)

	_, err := f.uc.CreateAuditRule(context.Background(), inbound.CreateAuditRuleRequest{
		Input:          decodeInto[serializer.AuditRuleInput](t, ruleBody),
		OrganizationID: 9,
	})
	assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)

	rule, err := f.uc.CreateAuditRule(context.Background(), inbound.CreateAuditRuleRequest{
		Input:                decodeInto[serializer.AuditRuleInput](t, ruleBody),
		OrganizationID:       1,
		ActivationInstanceID: &unknownInstance,
	})
	require.NoError(t, err)
	assert.Nil(t, rule.ActivationInstanceID)
}

func TestAuditUseCase_GetAuditRuleCachesDetail(t *testing.T) {
	f := newAuditFixture()
	f.rules.rules[10] = &domain.AuditRule{
		ID:             10,
		Name:           "restart web",
		Status:         "successful",
		FiredAt:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		CreatedAt:      time.Date(2024, 5, 1, 10, 0, 1, 0, time.UTC),
		OrganizationID: 1,
		Organization:   &domain.Organization{ID: 1, Name: "Default"},
	}

	first, err := f.uc.GetAuditRule(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, serializer.DeletedInstanceName, first.ActivationInstance.Name)
	assert.Nil(t, first.ActivationInstance.ID)
	assert.Equal(t, "Default", first.Organization.Name)

	second, err := f.uc.GetAuditRule(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, f.rules.finds)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.JSONEq(t, string(a), string(b))

	_, err = f.uc.GetAuditRule(context.Background(), 11)
	assert.ErrorIs(t, err, domain.ErrAuditRuleNotFound)
}

func TestAuditUseCase_ActionsAndEvents(t *testing.T) {
	f := newAuditFixture()
	ctx := context.Background()
	f.rules.rules[10] = &domain.AuditRule{ID: 10, OrganizationID: 1}

	_, err := f.uc.CreateAuditAction(ctx, 11, decodeInto[serializer.AuditActionInput](t, `{}`))
	assert.ErrorIs(t, err, domain.ErrAuditRuleNotFound)

	action, err := f.uc.CreateAuditAction(ctx, 10, decodeInto[serializer.AuditActionInput](t, `{
		"id": "`+actionID+`",
		"name": "run_job_template",
		"status": "successful",
		"url": "https://controller.example.com/jobs/1",
		"fired_at": "2024-05-01T10:00:02Z",
		"audit_rule_id": 99
	}`))
	require.NoError(t, err)
	assert.Equal(t, int64(10), action.AuditRuleID)

	_, err = f.uc.CreateAuditEvent(ctx, decodeInto[serializer.AuditEventInput](t, `{
		"id": "`+eventID+`",
		"source_name": "alerts",
		"source_type": "ansible.eda.webhook",
		"payload": "host: web01",
		"received_at": "2024-05-01T09:59:59Z",
		"audit_actions": ["00000000-0000-0000-0000-000000000001"]
	}`))
	var verrs serializer.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "audit_actions")

	event, err := f.uc.CreateAuditEvent(ctx, decodeInto[serializer.AuditEventInput](t, `{
		"id": "`+eventID+`",
		"source_name": "alerts",
		"source_type": "ansible.eda.webhook",
		"payload": "host: web01",
		"received_at": "2024-05-01T09:59:59Z",
		"audit_actions": ["`+actionID+`"]
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{actionID}, event.AuditActions)

	actions, err := f.uc.ListAuditActions(ctx, inbound.ListRuleChildrenRequest{AuditRuleID: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, actions.Total)

	events, err := f.uc.ListAuditEvents(ctx, inbound.ListRuleChildrenRequest{AuditRuleID: 10})
	require.NoError(t, err)
	require.Len(t, events.Results, 1)
	assert.Equal(t, "alerts", events.Results[0].SourceName)

	_, err = f.uc.ListAuditEvents(ctx, inbound.ListRuleChildrenRequest{AuditRuleID: 12})
	assert.ErrorIs(t, err, domain.ErrAuditRuleNotFound)
}

func TestAuditUseCase_ListAuditRules(t *testing.T) {
	f := newAuditFixture()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	f.rules.rules[1] = &domain.AuditRule{ID: 1, Name: "old", FiredAt: base}
	f.rules.rules[2] = &domain.AuditRule{ID: 2, Name: "new", FiredAt: base.Add(time.Hour)}

	resp, err := f.uc.ListAuditRules(context.Background(), inbound.ListAuditRulesRequest{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPageSize, resp.PageSize)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "new", resp.Results[0].Name)
}

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	return false, errors.New("cache down")
}

func (failingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("cache down")
}

func (failingCache) Delete(ctx context.Context, key string) error {
	return errors.New("cache down")
}

type warnRecorder struct {
	logger.Logger
	warnings []string
}

func (r *warnRecorder) Warn(ctx context.Context, message string, fields map[string]interface{}) {
	r.warnings = append(r.warnings, message)
}

func TestAuditUseCase_CacheFailuresAreLogged(t *testing.T) {
	rec := &warnRecorder{Logger: logger.NewNopLogger()}
	uc := NewAuditUseCase(AuditRepositories{
		Rules:               newFakeAuditRuleRepository(),
		Actions:             newFakeAuditActionRepository(),
		Events:              &fakeAuditEventRepository{},
		Organizations:       fakeExistsRepository{1: true},
		ActivationInstances: fakeExistsRepository{},
	}, failingCache{}, time.Minute, rec)

	_, err := uc.CreateAuditRule(context.Background(), inbound.CreateAuditRuleRequest{
		Input:          decodeInto[serializer.AuditRuleInput](t, ruleBody),
		OrganizationID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Audit rule cache invalidation failed"}, rec.warnings)

	detail, err := uc.GetAuditRule(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), detail.ID)
	assert.Equal(t, []string{
		"Audit rule cache invalidation failed",
		"Audit rule cache read failed",
		"Audit rule cache write failed",
	}, rec.warnings)
}
