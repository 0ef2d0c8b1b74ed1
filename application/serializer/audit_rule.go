package serializer

import (
	"time"

	"github.com/edaplatform/eda-api/domain"
)

// DeletedInstanceName stands in for an activation instance that no longer exists
const DeletedInstanceName = "DELETED"

// ActivationInstanceRef names the instance that fired a rule. ID is null
// when the instance has been deleted.
type ActivationInstanceRef struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

// NewActivationInstanceRef falls back to the DELETED placeholder for nil
func NewActivationInstanceRef(instance *domain.ActivationInstance) ActivationInstanceRef {
	if instance == nil {
		return ActivationInstanceRef{ID: nil, Name: DeletedInstanceName}
	}
	id := instance.ID
	return ActivationInstanceRef{ID: &id, Name: instance.Name}
}

// OrganizationRef is the nested organization of an audit rule
type OrganizationRef struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewOrganizationRef(org *domain.Organization) OrganizationRef {
	if org == nil {
		return OrganizationRef{}
	}
	return OrganizationRef{ID: org.ID, Name: org.Name, Description: org.Description}
}

// AuditRule is the model representation of a fired rule
type AuditRule struct {
	ID                   int64                  `json:"id"`
	Name                 string                 `json:"name"`
	Description          string                 `json:"description"`
	Status               string                 `json:"status"`
	CreatedAt            DateTime               `json:"created_at"`
	FiredAt              DateTime               `json:"fired_at"`
	RuleUUID             *string                `json:"rule_uuid"`
	RulesetUUID          *string                `json:"ruleset_uuid"`
	RulesetName          string                 `json:"ruleset_name"`
	ActivationInstanceID *int64                 `json:"activation_instance_id"`
	JobInstanceID        *int64                 `json:"job_instance_id"`
	OrganizationID       int64                  `json:"organization_id"`
	Definition           map[string]interface{} `json:"definition"`
}

func NewAuditRule(r *domain.AuditRule) AuditRule {
	definition := r.Definition
	if definition == nil {
		definition = map[string]interface{}{}
	}
	return AuditRule{
		ID:                   r.ID,
		Name:                 r.Name,
		Description:          r.Description,
		Status:               r.Status,
		CreatedAt:            DateTime(r.CreatedAt),
		FiredAt:              DateTime(r.FiredAt),
		RuleUUID:             r.RuleUUID,
		RulesetUUID:          r.RulesetUUID,
		RulesetName:          r.RulesetName,
		ActivationInstanceID: r.ActivationInstanceID,
		JobInstanceID:        r.JobInstanceID,
		OrganizationID:       r.OrganizationID,
		Definition:           definition,
	}
}

// AuditRuleDetail is the single-rule view with resolved relations
type AuditRuleDetail struct {
	ID                 int64                 `json:"id"`
	Name               string                `json:"name"`
	Status             string                `json:"status"`
	ActivationInstance ActivationInstanceRef `json:"activation_instance"`
	Organization       OrganizationRef       `json:"organization"`
	RulesetName        string                `json:"ruleset_name"`
	CreatedAt          DateTime              `json:"created_at"`
	FiredAt            DateTime              `json:"fired_at"`
}

func NewAuditRuleDetail(r *domain.AuditRule) AuditRuleDetail {
	return AuditRuleDetail{
		ID:                 r.ID,
		Name:               r.Name,
		Status:             r.Status,
		ActivationInstance: NewActivationInstanceRef(r.ActivationInstance),
		Organization:       NewOrganizationRef(r.Organization),
		RulesetName:        r.RulesetName,
		CreatedAt:          DateTime(r.CreatedAt),
		FiredAt:            DateTime(r.FiredAt),
	}
}

// AuditRuleListItem is one row of the audit rule listing
type AuditRuleListItem struct {
	ID                 int64                 `json:"id"`
	Name               string                `json:"name"`
	Status             string                `json:"status"`
	ActivationInstance ActivationInstanceRef `json:"activation_instance"`
	Organization       OrganizationRef       `json:"organization"`
	FiredAt            DateTime              `json:"fired_at"`
}

func NewAuditRuleListItem(r *domain.AuditRule) AuditRuleListItem {
	return AuditRuleListItem{
		ID:                 r.ID,
		Name:               r.Name,
		Status:             r.Status,
		ActivationInstance: NewActivationInstanceRef(r.ActivationInstance),
		Organization:       NewOrganizationRef(r.Organization),
		FiredAt:            DateTime(r.FiredAt),
	}
}

func NewAuditRuleList(rs []*domain.AuditRule) []AuditRuleListItem {
	out := make([]AuditRuleListItem, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewAuditRuleListItem(r))
	}
	return out
}

// AuditRuleInput is an inbound audit rule body. The *_id relations and
// created_at are read-only.
type AuditRuleInput struct {
	ID          Value `json:"id"`
	Name        Value `json:"name"`
	Description Value `json:"description"`
	Status      Value `json:"status"`
	FiredAt     Value `json:"fired_at"`
	RuleUUID    Value `json:"rule_uuid"`
	RulesetUUID Value `json:"ruleset_uuid"`
	RulesetName Value `json:"ruleset_name"`
	Definition  Value `json:"definition"`
}

// Decode validates the body. The returned rule has no organization set;
// the caller owns that relation.
func (in AuditRuleInput) Decode() (*domain.AuditRule, error) {
	errs := ValidationErrors{}

	id, _ := field{name: "id", required: true}.integer(in.ID, errs)
	name, _ := field{name: "name", required: true}.str(in.Name, errs)
	description, _ := field{name: "description", allowBlank: true}.str(in.Description, errs)
	status, _ := field{name: "status"}.str(in.Status, errs)
	firedAt, _ := field{name: "fired_at", required: true}.datetime(in.FiredAt, errs)
	ruleUUID := field{name: "rule_uuid", allowNull: true}.nullableUUID(in.RuleUUID, errs)
	rulesetUUID := field{name: "ruleset_uuid", allowNull: true}.nullableUUID(in.RulesetUUID, errs)
	rulesetName, _ := field{name: "ruleset_name"}.str(in.RulesetName, errs)
	definition, ok := field{name: "definition"}.dict(in.Definition, errs)
	if !ok {
		definition = map[string]interface{}{}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &domain.AuditRule{
		ID:          id,
		Name:        name,
		Description: description,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		FiredAt:     firedAt,
		RuleUUID:    ruleUUID,
		RulesetUUID: rulesetUUID,
		RulesetName: rulesetName,
		Definition:  definition,
	}, nil
}
