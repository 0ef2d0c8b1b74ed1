package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/edaplatform/eda-api/application/port/outbound"
)

// OrganizationRepositoryAdapter answers organization lookups
type OrganizationRepositoryAdapter struct {
	db *sql.DB
}

func NewOrganizationRepositoryAdapter(db *sql.DB) outbound.OrganizationRepository {
	return &OrganizationRepositoryAdapter{db: db}
}

func (r *OrganizationRepositoryAdapter) Exists(ctx context.Context, id int64) (bool, error) {
	found, err := exists(ctx, r.db, "SELECT 1 FROM organizations WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to find organization: %w", err)
	}
	return found, nil
}

// ProjectRepositoryAdapter answers project lookups
type ProjectRepositoryAdapter struct {
	db *sql.DB
}

func NewProjectRepositoryAdapter(db *sql.DB) outbound.ProjectRepository {
	return &ProjectRepositoryAdapter{db: db}
}

func (r *ProjectRepositoryAdapter) Exists(ctx context.Context, id int64) (bool, error) {
	found, err := exists(ctx, r.db, "SELECT 1 FROM projects WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to find project: %w", err)
	}
	return found, nil
}

// ActivationInstanceRepositoryAdapter answers activation instance lookups
type ActivationInstanceRepositoryAdapter struct {
	db *sql.DB
}

func NewActivationInstanceRepositoryAdapter(db *sql.DB) outbound.ActivationInstanceRepository {
	return &ActivationInstanceRepositoryAdapter{db: db}
}

func (r *ActivationInstanceRepositoryAdapter) Exists(ctx context.Context, id int64) (bool, error) {
	found, err := exists(ctx, r.db, "SELECT 1 FROM activation_instances WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to find activation instance: %w", err)
	}
	return found, nil
}
