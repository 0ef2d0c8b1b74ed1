package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/edaplatform/eda-api/application/port/outbound"
	"github.com/edaplatform/eda-api/domain"
)

type AuditActionRepositoryAdapter struct {
	db *sql.DB
}

func NewAuditActionRepositoryAdapter(db *sql.DB) outbound.AuditActionRepository {
	return &AuditActionRepositoryAdapter{db: db}
}

func (r *AuditActionRepositoryAdapter) Create(ctx context.Context, action *domain.AuditAction) error {
	query := `
		INSERT INTO audit_actions (id, name, status, url, fired_at, rule_fired_at, status_message, audit_rule_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		action.ID,
		action.Name,
		action.Status,
		action.URL,
		action.FiredAt.UTC(),
		nullTime(action.RuleFiredAt),
		nullString(action.StatusMessage),
		action.AuditRuleID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create audit action: %w", err)
	}
	return nil
}

func (r *AuditActionRepositoryAdapter) ListByRule(ctx context.Context, filter domain.AuditActionFilter) ([]*domain.AuditAction, int, error) {
	var w where
	w.add("audit_rule_id = ?", filter.AuditRuleID)
	if filter.Name != "" {
		w.add(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, containsPattern(filter.Name))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_actions"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit actions: %w", err)
	}

	limit, args := w.page(filter.Page.Limit(), filter.Page.Offset())
	query := `
		SELECT id, name, status, url, fired_at, rule_fired_at, status_message, audit_rule_id
		FROM audit_actions` + w.String() + `
		ORDER BY fired_at DESC, rule_fired_at DESC, id` + limit

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit actions: %w", err)
	}
	defer rows.Close()

	var actions []*domain.AuditAction
	for rows.Next() {
		var (
			a             domain.AuditAction
			ruleFiredAt   sql.NullTime
			statusMessage sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Status, &a.URL, &a.FiredAt, &ruleFiredAt, &statusMessage, &a.AuditRuleID); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit action: %w", err)
		}
		a.FiredAt = a.FiredAt.UTC()
		a.RuleFiredAt = timePtr(ruleFiredAt)
		a.StatusMessage = stringPtr(statusMessage)
		actions = append(actions, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating audit actions: %w", err)
	}
	return actions, total, nil
}

func (r *AuditActionRepositoryAdapter) Missing(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM audit_actions WHERE id IN ("+strings.Join(placeholders, ", ")+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit actions: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan audit action id: %w", err)
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit action ids: %w", err)
	}

	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
