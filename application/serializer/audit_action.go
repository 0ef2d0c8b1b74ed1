package serializer

import (
	"github.com/edaplatform/eda-api/domain"
)

// AuditAction is the representation of a triggered action
type AuditAction struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	URL           string    `json:"url"`
	FiredAt       DateTime  `json:"fired_at"`
	RuleFiredAt   *DateTime `json:"rule_fired_at"`
	AuditRuleID   int64     `json:"audit_rule_id"`
	StatusMessage *string   `json:"status_message"`
}

func NewAuditAction(a *domain.AuditAction) AuditAction {
	return AuditAction{
		ID:            a.ID,
		Name:          a.Name,
		Status:        a.Status,
		URL:           a.URL,
		FiredAt:       DateTime(a.FiredAt),
		RuleFiredAt:   NewDateTime(a.RuleFiredAt),
		AuditRuleID:   a.AuditRuleID,
		StatusMessage: a.StatusMessage,
	}
}

func NewAuditActions(as []*domain.AuditAction) []AuditAction {
	out := make([]AuditAction, 0, len(as))
	for _, a := range as {
		out = append(out, NewAuditAction(a))
	}
	return out
}

// AuditActionInput is an inbound action body. audit_rule_id is read-only
// and comes from the route.
type AuditActionInput struct {
	ID            Value `json:"id"`
	Name          Value `json:"name"`
	Status        Value `json:"status"`
	URL           Value `json:"url"`
	FiredAt       Value `json:"fired_at"`
	RuleFiredAt   Value `json:"rule_fired_at"`
	StatusMessage Value `json:"status_message"`
}

// Decode validates the body and attaches the action to auditRuleID
func (in AuditActionInput) Decode(auditRuleID int64) (*domain.AuditAction, error) {
	errs := ValidationErrors{}

	id, _ := field{name: "id", required: true}.uuid(in.ID, errs)
	name, _ := field{name: "name", required: true}.str(in.Name, errs)
	status, _ := field{name: "status"}.str(in.Status, errs)
	url, _ := field{name: "url"}.url(in.URL, errs)
	firedAt, _ := field{name: "fired_at", required: true}.datetime(in.FiredAt, errs)
	ruleFiredAt := field{name: "rule_fired_at", allowNull: true}.nullableDatetime(in.RuleFiredAt, errs)

	var statusMessage *string
	if msg, ok := (field{name: "status_message", allowNull: true}).str(in.StatusMessage, errs); ok {
		statusMessage = &msg
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &domain.AuditAction{
		ID:            id,
		Name:          name,
		Status:        status,
		URL:           url,
		FiredAt:       firedAt,
		RuleFiredAt:   ruleFiredAt,
		AuditRuleID:   auditRuleID,
		StatusMessage: statusMessage,
	}, nil
}
