package domain

import (
	"time"
)

// Rulebook represents a stored rulebook and its raw rulesets source
type Rulebook struct {
	ID             int64
	Name           string
	Description    string
	Rulesets       string
	ProjectID      *int64
	OrganizationID int64
	CreatedAt      time.Time
	ModifiedAt     time.Time
}

// NewRulebook creates a rulebook stamped with the current time
func NewRulebook(name, description, rulesets string, projectID *int64, organizationID int64) *Rulebook {
	now := time.Now().UTC()
	return &Rulebook{
		Name:           name,
		Description:    description,
		Rulesets:       rulesets,
		ProjectID:      projectID,
		OrganizationID: organizationID,
		CreatedAt:      now,
		ModifiedAt:     now,
	}
}

// Apply copies the writable fields of other onto r and bumps ModifiedAt
func (r *Rulebook) Apply(other *Rulebook) {
	r.Name = other.Name
	r.Description = other.Description
	r.Rulesets = other.Rulesets
	r.ProjectID = other.ProjectID
	r.OrganizationID = other.OrganizationID
	r.ModifiedAt = time.Now().UTC()
}

// RulebookFilter represents filters for listing rulebooks
type RulebookFilter struct {
	Name      string
	ProjectID *int64
	Page      Page
}
