package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edaplatform/eda-api/application/port/outbound"
	"github.com/edaplatform/eda-api/domain"
)

type RulebookRepositoryAdapter struct {
	db *sql.DB
}

func NewRulebookRepositoryAdapter(db *sql.DB) outbound.RulebookRepository {
	return &RulebookRepositoryAdapter{db: db}
}

const rulebookColumns = `id, name, description, rulesets, project_id, organization_id, created_at, modified_at`

func scanRulebook(row interface{ Scan(...interface{}) error }) (*domain.Rulebook, error) {
	var rb domain.Rulebook
	var projectID sql.NullInt64
	err := row.Scan(
		&rb.ID,
		&rb.Name,
		&rb.Description,
		&rb.Rulesets,
		&projectID,
		&rb.OrganizationID,
		&rb.CreatedAt,
		&rb.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	rb.ProjectID = int64Ptr(projectID)
	rb.CreatedAt = rb.CreatedAt.UTC()
	rb.ModifiedAt = rb.ModifiedAt.UTC()
	return &rb, nil
}

func (r *RulebookRepositoryAdapter) Create(ctx context.Context, rulebook *domain.Rulebook) error {
	query := `
		INSERT INTO rulebooks (name, description, rulesets, project_id, organization_id, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		rulebook.Name,
		rulebook.Description,
		rulebook.Rulesets,
		nullInt64(rulebook.ProjectID),
		rulebook.OrganizationID,
		rulebook.CreatedAt.UTC(),
		rulebook.ModifiedAt.UTC(),
	).Scan(&rulebook.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create rulebook: %w", err)
	}
	return nil
}

func (r *RulebookRepositoryAdapter) Update(ctx context.Context, rulebook *domain.Rulebook) error {
	query := `
		UPDATE rulebooks
		SET name = $2, description = $3, rulesets = $4, project_id = $5, organization_id = $6, modified_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		rulebook.ID,
		rulebook.Name,
		rulebook.Description,
		rulebook.Rulesets,
		nullInt64(rulebook.ProjectID),
		rulebook.OrganizationID,
		rulebook.ModifiedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to update rulebook: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrRulebookNotFound
	}
	return nil
}

func (r *RulebookRepositoryAdapter) FindByID(ctx context.Context, id int64) (*domain.Rulebook, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+rulebookColumns+" FROM rulebooks WHERE id = $1", id)
	rb, err := scanRulebook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRulebookNotFound
		}
		return nil, fmt.Errorf("failed to find rulebook: %w", err)
	}
	return rb, nil
}

func (r *RulebookRepositoryAdapter) List(ctx context.Context, filter domain.RulebookFilter) ([]*domain.Rulebook, int, error) {
	var w where
	if filter.Name != "" {
		w.add(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, containsPattern(filter.Name))
	}
	if filter.ProjectID != nil {
		w.add("project_id = ?", *filter.ProjectID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rulebooks"+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rulebooks: %w", err)
	}

	limit, args := w.page(filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.db.QueryContext(ctx, "SELECT "+rulebookColumns+" FROM rulebooks"+w.String()+" ORDER BY id"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query rulebooks: %w", err)
	}
	defer rows.Close()

	var rulebooks []*domain.Rulebook
	for rows.Next() {
		rb, err := scanRulebook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan rulebook: %w", err)
		}
		rulebooks = append(rulebooks, rb)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rulebooks: %w", err)
	}
	return rulebooks, total, nil
}
