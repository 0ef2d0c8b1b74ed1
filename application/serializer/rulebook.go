package serializer

import (
	"context"

	"github.com/edaplatform/eda-api/domain"
)

// Rulebook is the full rulebook representation
type Rulebook struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Rulesets       string   `json:"rulesets"`
	ProjectID      *int64   `json:"project_id"`
	OrganizationID int64    `json:"organization_id"`
	CreatedAt      DateTime `json:"created_at"`
	ModifiedAt     DateTime `json:"modified_at"`
}

// NewRulebook maps a stored rulebook to its representation
func NewRulebook(r *domain.Rulebook) Rulebook {
	return Rulebook{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Rulesets:       r.Rulesets,
		ProjectID:      r.ProjectID,
		OrganizationID: r.OrganizationID,
		CreatedAt:      DateTime(r.CreatedAt),
		ModifiedAt:     DateTime(r.ModifiedAt),
	}
}

// NewRulebooks maps a slice, never returning nil
func NewRulebooks(rs []*domain.Rulebook) []Rulebook {
	out := make([]Rulebook, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewRulebook(r))
	}
	return out
}

// RulebookRef is the compact reference to a rulebook
type RulebookRef struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	OrganizationID int64  `json:"organization_id"`
}

func NewRulebookRef(r *domain.Rulebook) RulebookRef {
	return RulebookRef{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		OrganizationID: r.OrganizationID,
	}
}

func NewRulebookRefs(rs []*domain.Rulebook) []RulebookRef {
	out := make([]RulebookRef, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewRulebookRef(r))
	}
	return out
}

// RulebookLookup resolves the relations a rulebook body may reference
type RulebookLookup interface {
	ProjectExists(ctx context.Context, id int64) (bool, error)
	OrganizationExists(ctx context.Context, id int64) (bool, error)
}

// RulebookInput is an inbound rulebook body. id, created_at and modified_at
// are read-only and never decoded.
type RulebookInput struct {
	Name           Value `json:"name"`
	Description    Value `json:"description"`
	Rulesets       Value `json:"rulesets"`
	ProjectID      Value `json:"project_id"`
	OrganizationID Value `json:"organization_id"`
}

// Decode validates the body and returns the rulebook it describes. A
// ValidationErrors is returned when any field is invalid.
func (in RulebookInput) Decode(ctx context.Context, lookup RulebookLookup) (*domain.Rulebook, error) {
	errs := ValidationErrors{}

	name, _ := field{name: "name", required: true}.str(in.Name, errs)
	description, _ := field{name: "description", allowNull: true, allowBlank: true}.str(in.Description, errs)
	rulesets, _ := field{name: "rulesets", allowBlank: true}.str(in.Rulesets, errs)

	projectID, err := field{name: "project_id", allowNull: true}.relatedPK(ctx, in.ProjectID, errs, lookup.ProjectExists)
	if err != nil {
		return nil, err
	}
	organizationID, err := field{name: "organization_id", required: true}.relatedPK(ctx, in.OrganizationID, errs, lookup.OrganizationExists)
	if err != nil {
		return nil, err
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return domain.NewRulebook(name, description, rulesets, projectID, *organizationID), nil
}
