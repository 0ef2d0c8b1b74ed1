package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/edaplatform/eda-api/application/port/inbound"
	"github.com/edaplatform/eda-api/application/port/outbound"
	"github.com/edaplatform/eda-api/application/serializer"
	"github.com/edaplatform/eda-api/domain"
	"github.com/edaplatform/eda-api/infrastructure/service/logger"
)

type RulebookUseCase struct {
	rulebookRepository outbound.RulebookRepository
	projectRepository  outbound.ProjectRepository
	lookup             relationLookup
	logger             logger.Logger
}

func NewRulebookUseCase(
	rulebookRepo outbound.RulebookRepository,
	projectRepo outbound.ProjectRepository,
	organizationRepo outbound.OrganizationRepository,
	logger logger.Logger,
) inbound.RulebookUseCase {
	return &RulebookUseCase{
		rulebookRepository: rulebookRepo,
		projectRepository:  projectRepo,
		lookup:             relationLookup{projects: projectRepo, organizations: organizationRepo},
		logger:             logger,
	}
}

func (uc *RulebookUseCase) ListRulebooks(ctx context.Context, req inbound.ListRulebooksRequest) (*inbound.ListResponse[serializer.Rulebook], error) {
	page := domain.NewPage(req.Page, req.PageSize)
	rulebooks, total, err := uc.rulebookRepository.List(ctx, domain.RulebookFilter{
		Name:      req.Name,
		ProjectID: req.ProjectID,
		Page:      page,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list rulebooks: %w", err)
	}

	return &inbound.ListResponse[serializer.Rulebook]{
		Results:  serializer.NewRulebooks(rulebooks),
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}, nil
}

func (uc *RulebookUseCase) GetRulebook(ctx context.Context, id int64) (*serializer.Rulebook, error) {
	rulebook, err := uc.rulebookRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := serializer.NewRulebook(rulebook)
	return &out, nil
}

func (uc *RulebookUseCase) CreateRulebook(ctx context.Context, in serializer.RulebookInput) (*serializer.Rulebook, error) {
	rulebook, err := in.Decode(ctx, uc.lookup)
	if err != nil {
		return nil, err
	}

	if err := uc.rulebookRepository.Create(ctx, rulebook); err != nil {
		uc.logger.Error(ctx, "Failed to create rulebook", err, map[string]interface{}{
			"name": rulebook.Name,
		})
		return nil, fmt.Errorf("failed to create rulebook: %w", err)
	}

	uc.logger.Info(ctx, "Rulebook created", map[string]interface{}{
		"rulebook_id":     rulebook.ID,
		"organization_id": rulebook.OrganizationID,
	})

	out := serializer.NewRulebook(rulebook)
	return &out, nil
}

func (uc *RulebookUseCase) UpdateRulebook(ctx context.Context, id int64, in serializer.RulebookInput) (*serializer.Rulebook, error) {
	existing, err := uc.rulebookRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes, err := in.Decode(ctx, uc.lookup)
	if err != nil {
		return nil, err
	}
	existing.Apply(changes)

	if err := uc.rulebookRepository.Update(ctx, existing); err != nil {
		if errors.Is(err, domain.ErrRulebookNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update rulebook: %w", err)
	}

	uc.logger.Info(ctx, "Rulebook updated", map[string]interface{}{
		"rulebook_id": existing.ID,
	})

	out := serializer.NewRulebook(existing)
	return &out, nil
}

func (uc *RulebookUseCase) ListProjectRulebooks(ctx context.Context, projectID int64, pageNumber, pageSize int) (*inbound.ListResponse[serializer.RulebookRef], error) {
	exists, err := uc.projectRepository.Exists(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if !exists {
		return nil, domain.ErrProjectNotFound
	}

	page := domain.NewPage(pageNumber, pageSize)
	rulebooks, total, err := uc.rulebookRepository.List(ctx, domain.RulebookFilter{
		ProjectID: &projectID,
		Page:      page,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list rulebooks: %w", err)
	}

	return &inbound.ListResponse[serializer.RulebookRef]{
		Results:  serializer.NewRulebookRefs(rulebooks),
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}, nil
}
