package serializer

import (
	"context"

	"github.com/edaplatform/eda-api/domain"
)

// AuditEvent is the representation of an event that fired a rule
type AuditEvent struct {
	ID           string    `json:"id"`
	SourceName   string    `json:"source_name"`
	SourceType   string    `json:"source_type"`
	Payload      YAML      `json:"payload"`
	AuditActions []string  `json:"audit_actions"`
	ReceivedAt   DateTime  `json:"received_at"`
	RuleFiredAt  *DateTime `json:"rule_fired_at"`
}

func NewAuditEvent(e *domain.AuditEvent) AuditEvent {
	actions := e.AuditActions
	if actions == nil {
		actions = []string{}
	}
	return AuditEvent{
		ID:           e.ID,
		SourceName:   e.SourceName,
		SourceType:   e.SourceType,
		Payload:      YAML{Value: e.Payload},
		AuditActions: actions,
		ReceivedAt:   DateTime(e.ReceivedAt),
		RuleFiredAt:  NewDateTime(e.RuleFiredAt),
	}
}

func NewAuditEvents(es []*domain.AuditEvent) []AuditEvent {
	out := make([]AuditEvent, 0, len(es))
	for _, e := range es {
		out = append(out, NewAuditEvent(e))
	}
	return out
}

// AuditEventLookup resolves the actions an event body links to
type AuditEventLookup interface {
	MissingAuditActions(ctx context.Context, ids []string) ([]string, error)
}

// AuditEventInput is an inbound event body
type AuditEventInput struct {
	ID           Value `json:"id"`
	SourceName   Value `json:"source_name"`
	SourceType   Value `json:"source_type"`
	Payload      Value `json:"payload"`
	AuditActions Value `json:"audit_actions"`
	ReceivedAt   Value `json:"received_at"`
	RuleFiredAt  Value `json:"rule_fired_at"`
}

func (in AuditEventInput) Decode(ctx context.Context, lookup AuditEventLookup) (*domain.AuditEvent, error) {
	errs := ValidationErrors{}

	id, _ := field{name: "id", required: true}.uuid(in.ID, errs)
	sourceName, _ := field{name: "source_name", required: true}.str(in.SourceName, errs)
	sourceType, _ := field{name: "source_type", required: true}.str(in.SourceType, errs)
	payload, _ := field{name: "payload", allowNull: true}.yaml(in.Payload, errs)
	receivedAt, _ := field{name: "received_at", required: true}.datetime(in.ReceivedAt, errs)
	ruleFiredAt := field{name: "rule_fired_at", allowNull: true}.nullableDatetime(in.RuleFiredAt, errs)

	actions, err := field{name: "audit_actions"}.relatedUUIDs(ctx, in.AuditActions, errs, lookup.MissingAuditActions)
	if err != nil {
		return nil, err
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &domain.AuditEvent{
		ID:           id,
		SourceName:   sourceName,
		SourceType:   sourceType,
		Payload:      payload,
		AuditActions: actions,
		ReceivedAt:   receivedAt,
		RuleFiredAt:  ruleFiredAt,
	}, nil
}
