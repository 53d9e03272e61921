package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ukuvago/themeboard/internal/apperrors"
	"github.com/ukuvago/themeboard/internal/models"
	"github.com/ukuvago/themeboard/internal/repository"
	"gorm.io/gorm"
)

const maxNameLength = 200

var (
	ErrProjectNotFound = apperrors.NotFound("Project not found")
	ErrInvalidStatus   = apperrors.Validation("Status must be one of: ongoing, completed")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projects repository.ProjectRepository
	themes   repository.ThemeRepository
	hooks    Hooks
}

func NewProjectService(projects repository.ProjectRepository, themes repository.ThemeRepository, hooks Hooks) *ProjectService {
	return &ProjectService{projects: projects, themes: themes, hooks: hooks}
}

type CreateProjectInput struct {
	Name        string
	Description string
	Status      models.ProjectStatus
	ImagePath   *string
}

// UpdateProjectInput is a partial update: nil fields are left unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
	ImagePath   *string
}

func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name, err := requireLine("Name", input.Name, maxNameLength)
	if err != nil {
		return nil, err
	}
	description, err := requireText("Description", input.Description, 0)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusOngoing
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	project := &models.Project{
		Name:        name,
		Description: description,
		Status:      status,
		ImagePath:   optionalText(input.ImagePath),
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.hooks.notify(ctx, Event{EntityType: EntityProject, EntityName: project.Name, Action: ActionAdded})
	return project, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id uuid.UUID, input UpdateProjectInput) (*models.Project, error) {
	existing, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if input.Name != nil {
		name, err := requireLine("Name", *input.Name, maxNameLength)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if input.Description != nil {
		description, err := requireText("Description", *input.Description, 0)
		if err != nil {
			return nil, err
		}
		fields["description"] = description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		fields["status"] = *input.Status
	}
	if image := optionalText(input.ImagePath); image != nil {
		fields["image_path"] = *image
	}

	if len(fields) > 0 {
		if err := s.projects.Update(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("failed to update project: %w", err)
		}
	}

	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	s.hooks.replaceImage(existing.ImagePath, project.ImagePath)
	s.hooks.notify(ctx, Event{EntityType: EntityProject, EntityName: project.Name, Action: ActionUpdated})
	return project, nil
}

// DeleteProject removes the project together with its themes and their
// membership rows. Team members themselves are kept.
func (s *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}

	themes, err := s.themes.List(ctx, repository.ThemeFilter{ProjectID: &id})
	if err != nil {
		return fmt.Errorf("failed to list project themes: %w", err)
	}

	res, err := s.projects.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	s.hooks.cascaded("project", res)

	if project.ImagePath != nil {
		s.hooks.removeImage(*project.ImagePath)
	}
	for _, theme := range themes {
		if theme.ImagePath != nil {
			s.hooks.removeImage(*theme.ImagePath)
		}
	}
	return nil
}

// ListProjects lists projects newest first. A status filter other than
// ongoing or completed is ignored.
func (s *ProjectService) ListProjects(ctx context.Context, filter repository.ProjectFilter) ([]models.Project, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		filter.Status = nil
	}

	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// GetProjectWithThemes returns the project and its expanded themes.
func (s *ProjectService) GetProjectWithThemes(ctx context.Context, id uuid.UUID) (*models.Project, []models.Theme, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	themes, err := s.themes.List(ctx, repository.ThemeFilter{ProjectID: &id})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list project themes: %w", err)
	}
	return project, themes, nil
}
