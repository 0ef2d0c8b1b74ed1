package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/edaplatform/eda-api/application/port/outbound"
	"github.com/edaplatform/eda-api/domain"
)

type AuditRuleRepositoryAdapter struct {
	db *sql.DB
}

func NewAuditRuleRepositoryAdapter(db *sql.DB) outbound.AuditRuleRepository {
	return &AuditRuleRepositoryAdapter{db: db}
}

// auditRuleSelect joins the relations the detail and list forms render
const auditRuleSelect = `
	SELECT r.id, r.name, r.description, r.status, r.created_at, r.fired_at,
		r.rule_uuid, r.ruleset_uuid, r.ruleset_name,
		r.activation_instance_id, r.job_instance_id, r.organization_id, r.definition,
		ai.id, ai.name, o.id, o.name, o.description
	FROM audit_rules r
	LEFT JOIN activation_instances ai ON ai.id = r.activation_instance_id
	LEFT JOIN organizations o ON o.id = r.organization_id
`

func scanAuditRule(row interface{ Scan(...interface{}) error }) (*domain.AuditRule, error) {
	var (
		rule                            domain.AuditRule
		ruleUUID, rulesetUUID           sql.NullString
		activationInstanceID, jobID     sql.NullInt64
		definition                      string
		instanceID, orgID               sql.NullInt64
		instanceName, orgName, orgDescr sql.NullString
	)
	err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.Description,
		&rule.Status,
		&rule.CreatedAt,
		&rule.FiredAt,
		&ruleUUID,
		&rulesetUUID,
		&rule.RulesetName,
		&activationInstanceID,
		&jobID,
		&rule.OrganizationID,
		&definition,
		&instanceID,
		&instanceName,
		&orgID,
		&orgName,
		&orgDescr,
	)
	if err != nil {
		return nil, err
	}

	rule.CreatedAt = rule.CreatedAt.UTC()
	rule.FiredAt = rule.FiredAt.UTC()
	rule.RuleUUID = stringPtr(ruleUUID)
	rule.RulesetUUID = stringPtr(rulesetUUID)
	rule.ActivationInstanceID = int64Ptr(activationInstanceID)
	rule.JobInstanceID = int64Ptr(jobID)

	if definition != "" {
		if err := json.Unmarshal([]byte(definition), &rule.Definition); err != nil {
			return nil, fmt.Errorf("failed to decode definition: %w", err)
		}
	}
	if instanceID.Valid {
		rule.ActivationInstance = &domain.ActivationInstance{ID: instanceID.Int64, Name: instanceName.String}
	}
	if orgID.Valid {
		rule.Organization = &domain.Organization{ID: orgID.Int64, Name: orgName.String, Description: orgDescr.String}
	}
	return &rule, nil
}

func (r *AuditRuleRepositoryAdapter) Create(ctx context.Context, rule *domain.AuditRule) error {
	definition := rule.Definition
	if definition == nil {
		definition = map[string]interface{}{}
	}
	encoded, err := json.Marshal(definition)
	if err != nil {
		return fmt.Errorf("failed to encode definition: %w", err)
	}

	query := `
		INSERT INTO audit_rules (
			id, name, description, status, created_at, fired_at,
			rule_uuid, ruleset_uuid, ruleset_name,
			activation_instance_id, job_instance_id, organization_id, definition
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.ExecContext(ctx, query,
		rule.ID,
		rule.Name,
		rule.Description,
		rule.Status,
		rule.CreatedAt.UTC(),
		rule.FiredAt.UTC(),
		nullString(rule.RuleUUID),
		nullString(rule.RulesetUUID),
		rule.RulesetName,
		nullInt64(rule.ActivationInstanceID),
		nullInt64(rule.JobInstanceID),
		rule.OrganizationID,
		string(encoded),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create audit rule: %w", err)
	}
	return nil
}

func (r *AuditRuleRepositoryAdapter) FindByID(ctx context.Context, id int64) (*domain.AuditRule, error) {
	rule, err := scanAuditRule(r.db.QueryRowContext(ctx, auditRuleSelect+" WHERE r.id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAuditRuleNotFound
		}
		return nil, fmt.Errorf("failed to find audit rule: %w", err)
	}
	return rule, nil
}

func (r *AuditRuleRepositoryAdapter) List(ctx context.Context, filter domain.AuditRuleFilter) ([]*domain.AuditRule, int, error) {
	var w where
	if filter.Name != "" {
		w.add(`LOWER(r.name) LIKE LOWER(?) ESCAPE '\'`, containsPattern(filter.Name))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_rules r"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit rules: %w", err)
	}

	limit, args := w.page(filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.db.QueryContext(ctx, auditRuleSelect+w.String()+" ORDER BY r.fired_at DESC, r.id DESC"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit rules: %w", err)
	}
	defer rows.Close()

	var rules []*domain.AuditRule
	for rows.Next() {
		rule, err := scanAuditRule(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating audit rules: %w", err)
	}
	return rules, total, nil
}

func (r *AuditRuleRepositoryAdapter) Exists(ctx context.Context, id int64) (bool, error) {
	found, err := exists(ctx, r.db, "SELECT 1 FROM audit_rules WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to find audit rule: %w", err)
	}
	return found, nil
}
