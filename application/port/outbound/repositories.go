package outbound

import (
	"context"

	"github.com/edaplatform/eda-api/domain"
)

// RulebookRepository defines the interface for rulebook persistence
type RulebookRepository interface {
	// Create saves a new rulebook and assigns its ID
	Create(ctx context.Context, rulebook *domain.Rulebook) error

	// Update overwrites the writable fields of an existing rulebook
	Update(ctx context.Context, rulebook *domain.Rulebook) error

	// FindByID returns domain.ErrRulebookNotFound when absent
	FindByID(ctx context.Context, id int64) (*domain.Rulebook, error)

	// List returns one page of rulebooks ordered by id and the total count
	List(ctx context.Context, filter domain.RulebookFilter) ([]*domain.Rulebook, int, error)
}

// OrganizationRepository answers lookups on organizations
type OrganizationRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ProjectRepository answers lookups on projects
type ProjectRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ActivationInstanceRepository answers lookups on activation instances
type ActivationInstanceRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// AuditRuleRepository defines the interface for fired rule persistence
type AuditRuleRepository interface {
	// Create saves a fired rule under its given ID
	Create(ctx context.Context, rule *domain.AuditRule) error

	// FindByID loads the rule with its organization and activation instance
	FindByID(ctx context.Context, id int64) (*domain.AuditRule, error)

	// List returns one page of rules, newest fired first, with relations loaded
	List(ctx context.Context, filter domain.AuditRuleFilter) ([]*domain.AuditRule, int, error)

	Exists(ctx context.Context, id int64) (bool, error)
}

// AuditActionRepository defines the interface for action persistence
type AuditActionRepository interface {
	Create(ctx context.Context, action *domain.AuditAction) error

	// ListByRule returns one page of a rule's actions, newest fired first
	ListByRule(ctx context.Context, filter domain.AuditActionFilter) ([]*domain.AuditAction, int, error)

	// Missing returns the ids that do not exist, in input order
	Missing(ctx context.Context, ids []string) ([]string, error)
}

// AuditEventRepository defines the interface for event persistence
type AuditEventRepository interface {
	// Create saves the event together with its action links
	Create(ctx context.Context, event *domain.AuditEvent) error

	// ListByRule returns the distinct events linked to any action of the rule
	ListByRule(ctx context.Context, filter domain.AuditEventFilter) ([]*domain.AuditEvent, int, error)
}
