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

var (
	ErrThemeNotFound   = apperrors.NotFound("Theme not found")
	ErrNotThemeMember  = apperrors.NotFound("Team member is not a member of this theme")
	ErrHeadNotMember   = apperrors.Validation("Theme head must be one of the theme members")
	ErrNoMembersGiven  = apperrors.Validation("At least one team member is required")
	ErrCreatorRequired = apperrors.Validation("Theme creator is required")
)

// ThemeService owns the theme relationships: the member set, the head drawn
// from it and the optional parent project.
type ThemeService struct {
	themes   repository.ThemeRepository
	projects repository.ProjectRepository
	members  repository.TeamMemberRepository
	hooks    Hooks
}

func NewThemeService(
	themes repository.ThemeRepository,
	projects repository.ProjectRepository,
	members repository.TeamMemberRepository,
	hooks Hooks,
) *ThemeService {
	return &ThemeService{themes: themes, projects: projects, members: members, hooks: hooks}
}

type CreateThemeInput struct {
	Name           string
	Description    string
	ProjectID      *uuid.UUID
	CreatorID      uuid.UUID
	ImagePath      *string
	PrimaryColor   *string
	SecondaryColor *string
}

// UpdateThemeInput covers the descriptive fields only. Members, head and
// project have their own operations.
type UpdateThemeInput struct {
	Name           *string
	Description    *string
	PrimaryColor   *string
	SecondaryColor *string
	ImagePath      *string
}

func (s *ThemeService) CreateTheme(ctx context.Context, input CreateThemeInput) (*models.Theme, error) {
	name, err := requireLine("Name", input.Name, maxNameLength)
	if err != nil {
		return nil, err
	}
	description, err := requireText("Description", input.Description, 0)
	if err != nil {
		return nil, err
	}
	if input.CreatorID == uuid.Nil {
		return nil, ErrCreatorRequired
	}

	var projectName string
	if input.ProjectID != nil {
		project, err := s.findProject(ctx, *input.ProjectID)
		if err != nil {
			return nil, err
		}
		projectName = project.Name
	}

	theme := &models.Theme{
		Name:           name,
		Description:    description,
		ProjectID:      input.ProjectID,
		CreatedByID:    input.CreatorID,
		ImagePath:      optionalText(input.ImagePath),
		PrimaryColor:   optionalText(input.PrimaryColor),
		SecondaryColor: optionalText(input.SecondaryColor),
	}
	if err := s.themes.Create(ctx, theme); err != nil {
		return nil, fmt.Errorf("failed to create theme: %w", err)
	}

	created, err := s.GetTheme(ctx, theme.ID)
	if err != nil {
		return nil, err
	}

	s.hooks.notify(ctx, Event{
		EntityType:  EntityTheme,
		EntityName:  created.Name,
		Action:      ActionAdded,
		ProjectName: projectName,
	})
	return created, nil
}

func (s *ThemeService) UpdateTheme(ctx context.Context, id uuid.UUID, input UpdateThemeInput) (*models.Theme, error) {
	existing, err := s.findTheme(ctx, id)
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
	// A provided blank color clears it.
	if input.PrimaryColor != nil {
		fields["primary_color"] = optionalText(input.PrimaryColor)
	}
	if input.SecondaryColor != nil {
		fields["secondary_color"] = optionalText(input.SecondaryColor)
	}
	if image := optionalText(input.ImagePath); image != nil {
		fields["image_path"] = *image
	}

	if len(fields) > 0 {
		if err := s.themes.Update(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrThemeNotFound
			}
			return nil, fmt.Errorf("failed to update theme: %w", err)
		}
	}

	theme, err := s.GetTheme(ctx, id)
	if err != nil {
		return nil, err
	}

	s.hooks.replaceImage(existing.ImagePath, theme.ImagePath)
	s.hooks.notify(ctx, Event{
		EntityType:  EntityTheme,
		EntityName:  theme.Name,
		Action:      ActionUpdated,
		ProjectName: projectNameOf(theme),
	})
	return theme, nil
}

// AddMembers unions memberIDs into the theme's member set. Members already
// present are left as they are.
func (s *ThemeService) AddMembers(ctx context.Context, themeID uuid.UUID, memberIDs []uuid.UUID) (*models.Theme, error) {
	ids := uniqueIDs(memberIDs)
	if len(ids) == 0 {
		return nil, ErrNoMembersGiven
	}

	if _, err := s.findTheme(ctx, themeID); err != nil {
		return nil, err
	}

	found, err := s.members.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find team members: %w", err)
	}
	if len(found) != len(ids) {
		known := make(map[uuid.UUID]bool, len(found))
		for _, m := range found {
			known[m.ID] = true
		}
		for _, id := range ids {
			if !known[id] {
				return nil, apperrors.NotFound(fmt.Sprintf("Team member not found: %s", id))
			}
		}
	}

	if err := s.themes.AddMembers(ctx, themeID, ids); err != nil {
		return nil, fmt.Errorf("failed to add theme members: %w", err)
	}

	return s.GetTheme(ctx, themeID)
}

// RemoveMember takes a member out of the set, clearing the head if it was
// that member.
func (s *ThemeService) RemoveMember(ctx context.Context, themeID, memberID uuid.UUID) (*models.Theme, error) {
	if _, err := s.findTheme(ctx, themeID); err != nil {
		return nil, err
	}

	removed, err := s.themes.RemoveMember(ctx, themeID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove theme member: %w", err)
	}
	if !removed {
		return nil, ErrNotThemeMember
	}

	return s.GetTheme(ctx, themeID)
}

// AssignThemeHead sets the head to memberID, or clears it when memberID is
// nil. The head is left untouched on any error.
func (s *ThemeService) AssignThemeHead(ctx context.Context, themeID uuid.UUID, memberID *uuid.UUID) (*models.Theme, error) {
	if _, err := s.findTheme(ctx, themeID); err != nil {
		return nil, err
	}

	if memberID == nil {
		if err := s.themes.ClearHead(ctx, themeID); err != nil {
			return nil, fmt.Errorf("failed to clear theme head: %w", err)
		}
		return s.GetTheme(ctx, themeID)
	}

	if _, err := s.members.FindByID(ctx, *memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}

	ok, err := s.themes.SetHead(ctx, themeID, *memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to set theme head: %w", err)
	}
	if !ok {
		return nil, ErrHeadNotMember
	}

	return s.GetTheme(ctx, themeID)
}

// AssignProject moves the theme under projectID, or detaches it when
// projectID is nil.
func (s *ThemeService) AssignProject(ctx context.Context, themeID uuid.UUID, projectID *uuid.UUID) (*models.Theme, error) {
	if _, err := s.findTheme(ctx, themeID); err != nil {
		return nil, err
	}
	if projectID != nil {
		if _, err := s.findProject(ctx, *projectID); err != nil {
			return nil, err
		}
	}

	if err := s.themes.SetProject(ctx, themeID, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThemeNotFound
		}
		return nil, fmt.Errorf("failed to set theme project: %w", err)
	}

	return s.GetTheme(ctx, themeID)
}

// DeleteTheme removes the theme and its membership rows. Team members are
// kept.
func (s *ThemeService) DeleteTheme(ctx context.Context, id uuid.UUID) error {
	theme, err := s.findTheme(ctx, id)
	if err != nil {
		return err
	}

	res, err := s.themes.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrThemeNotFound
		}
		return fmt.Errorf("failed to delete theme: %w", err)
	}
	s.hooks.cascaded("theme", res)

	if theme.ImagePath != nil {
		s.hooks.removeImage(*theme.ImagePath)
	}
	return nil
}

func (s *ThemeService) ListThemes(ctx context.Context, filter repository.ThemeFilter) ([]models.Theme, error) {
	themes, err := s.themes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	return themes, nil
}

// GetTheme returns the theme with its project, head, creator and members.
func (s *ThemeService) GetTheme(ctx context.Context, id uuid.UUID) (*models.Theme, error) {
	theme, err := s.themes.FindExpanded(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThemeNotFound
		}
		return nil, fmt.Errorf("failed to find theme: %w", err)
	}
	return theme, nil
}

// GetThemeTeam returns the theme's members in the order they joined.
func (s *ThemeService) GetThemeTeam(ctx context.Context, id uuid.UUID) ([]models.TeamMember, error) {
	if _, err := s.findTheme(ctx, id); err != nil {
		return nil, err
	}

	members, err := s.themes.ListMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list theme members: %w", err)
	}
	return members, nil
}

func (s *ThemeService) findTheme(ctx context.Context, id uuid.UUID) (*models.Theme, error) {
	theme, err := s.themes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThemeNotFound
		}
		return nil, fmt.Errorf("failed to find theme: %w", err)
	}
	return theme, nil
}

func (s *ThemeService) findProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func projectNameOf(theme *models.Theme) string {
	if theme.Project == nil {
		return ""
	}
	return theme.Project.Name
}
