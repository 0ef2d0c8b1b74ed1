package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edaplatform/eda-api/application/port/outbound"
	"github.com/edaplatform/eda-api/domain"
)

type AuditEventRepositoryAdapter struct {
	db *sql.DB
}

func NewAuditEventRepositoryAdapter(db *sql.DB) outbound.AuditEventRepository {
	return &AuditEventRepositoryAdapter{db: db}
}

func (r *AuditEventRepositoryAdapter) Create(ctx context.Context, event *domain.AuditEvent) error {
	var payload sql.NullString
	if event.Payload != nil {
		encoded, err := json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		payload = sql.NullString{String: string(encoded), Valid: true}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_events (id, source_name, source_type, payload, received_at, rule_fired_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, event.ID, event.SourceName, event.SourceType, payload, event.ReceivedAt.UTC(), nullTime(event.RuleFiredAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create audit event: %w", err)
	}

	for _, actionID := range event.AuditActions {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO audit_event_actions (audit_event_id, audit_action_id) VALUES ($1, $2)",
			event.ID, actionID,
		); err != nil {
			return fmt.Errorf("failed to link audit event to action %s: %w", actionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit event: %w", err)
	}
	return nil
}

// ListByRule pages through the events linked to any action of the rule.
// An event linked to several of the rule's actions is listed once.
func (r *AuditEventRepositoryAdapter) ListByRule(ctx context.Context, filter domain.AuditEventFilter) ([]*domain.AuditEvent, int, error) {
	var w where
	w.add(`e.id IN (
		SELECT l.audit_event_id FROM audit_event_actions l
		JOIN audit_actions a ON a.id = l.audit_action_id
		WHERE a.audit_rule_id = ?
	)`, filter.AuditRuleID)
	if filter.SourceName != "" {
		w.add(`LOWER(e.source_name) LIKE LOWER(?) ESCAPE '\'`, containsPattern(filter.SourceName))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_events e"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit events: %w", err)
	}

	limit, args := w.page(filter.Page.Limit(), filter.Page.Offset())
	query := `
		SELECT e.id, e.source_name, e.source_type, e.payload, e.received_at, e.rule_fired_at
		FROM audit_events e` + w.String() + `
		ORDER BY e.received_at DESC, e.rule_fired_at DESC, e.id` + limit

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []*domain.AuditEvent
	byID := make(map[string]*domain.AuditEvent)
	for rows.Next() {
		var (
			e           domain.AuditEvent
			payload     sql.NullString
			ruleFiredAt sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.SourceName, &e.SourceType, &payload, &e.ReceivedAt, &ruleFiredAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit event: %w", err)
		}
		if payload.Valid {
			if err := json.Unmarshal([]byte(payload.String), &e.Payload); err != nil {
				return nil, 0, fmt.Errorf("failed to decode payload: %w", err)
			}
		}
		e.ReceivedAt = e.ReceivedAt.UTC()
		e.RuleFiredAt = timePtr(ruleFiredAt)
		e.AuditActions = []string{}
		events = append(events, &e)
		byID[e.ID] = &e
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating audit events: %w", err)
	}
	rows.Close()

	if err := r.loadActionLinks(ctx, byID); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// loadActionLinks fills AuditActions for the given events in one query
func (r *AuditEventRepositoryAdapter) loadActionLinks(ctx context.Context, byID map[string]*domain.AuditEvent) error {
	if len(byID) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(byID))
	args := make([]interface{}, 0, len(byID))
	for id := range byID {
		args = append(args, id)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT audit_event_id, audit_action_id FROM audit_event_actions
		WHERE audit_event_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY audit_event_id, audit_action_id
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to query audit event links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, actionID string
		if err := rows.Scan(&eventID, &actionID); err != nil {
			return fmt.Errorf("failed to scan audit event link: %w", err)
		}
		if e, ok := byID[eventID]; ok {
			e.AuditActions = append(e.AuditActions, actionID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating audit event links: %w", err)
	}
	return nil
}
