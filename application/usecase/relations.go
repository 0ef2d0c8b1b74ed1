package usecase

import (
	"context"

	"github.com/edaplatform/eda-api/application/port/outbound"
)

// relationLookup adapts repositories to the serializer lookups
type relationLookup struct {
	projects      outbound.ProjectRepository
	organizations outbound.OrganizationRepository
	actions       outbound.AuditActionRepository
}

func (l relationLookup) ProjectExists(ctx context.Context, id int64) (bool, error) {
	return l.projects.Exists(ctx, id)
}

func (l relationLookup) OrganizationExists(ctx context.Context, id int64) (bool, error) {
	return l.organizations.Exists(ctx, id)
}

func (l relationLookup) MissingAuditActions(ctx context.Context, ids []string) ([]string, error) {
	return l.actions.Missing(ctx, ids)
}
