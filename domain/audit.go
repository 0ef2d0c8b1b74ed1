package domain

import "time"

// AuditRule is the record of one fired rule
type AuditRule struct {
	ID                   int64
	Name                 string
	Description          string
	Status               string
	CreatedAt            time.Time
	FiredAt              time.Time
	RuleUUID             *string
	RulesetUUID          *string
	RulesetName          string
	ActivationInstanceID *int64
	JobInstanceID        *int64
	OrganizationID       int64
	Definition           map[string]interface{}

	// Loaded relations. ActivationInstance is nil once the instance is gone.
	ActivationInstance *ActivationInstance
	Organization       *Organization
}

// AuditAction is an action triggered by a fired rule
type AuditAction struct {
	ID            string
	Name          string
	Status        string
	URL           string
	FiredAt       time.Time
	RuleFiredAt   *time.Time
	AuditRuleID   int64
	StatusMessage *string
}

// AuditEvent is an event that matched a rule and led to actions
type AuditEvent struct {
	ID           string
	SourceName   string
	SourceType   string
	Payload      interface{}
	AuditActions []string
	ReceivedAt   time.Time
	RuleFiredAt  *time.Time
}

// AuditRuleFilter represents filters for listing audit rules
type AuditRuleFilter struct {
	Name string
	Page Page
}

// AuditActionFilter represents filters for listing the actions of a rule
type AuditActionFilter struct {
	AuditRuleID int64
	Name        string
	Page        Page
}

// AuditEventFilter represents filters for listing the events of a rule
type AuditEventFilter struct {
	AuditRuleID int64
	SourceName  string
	Page        Page
}
