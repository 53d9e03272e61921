package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ukuvago/themeboard/internal/models"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)

	List(ctx context.Context, filter ProjectFilter) ([]models.Project, error)

	// Update writes only the given columns.
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	// DeleteCascade deletes the project, its themes and their membership rows
	// in one transaction.
	DeleteCascade(ctx context.Context, id uuid.UUID) (CascadeResult, error)

	Count(ctx context.Context) (int64, error)
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Status *models.ProjectStatus
}

// ThemeRepository defines the interface for theme data access
type ThemeRepository interface {
	Create(ctx context.Context, theme *models.Theme) error

	// FindByID loads the bare theme row.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Theme, error)

	// FindExpanded loads the theme with project, head, creator and members.
	FindExpanded(ctx context.Context, id uuid.UUID) (*models.Theme, error)

	// List returns expanded themes, newest first.
	List(ctx context.Context, filter ThemeFilter) ([]models.Theme, error)

	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	// AddMembers inserts membership rows, skipping ones that already exist.
	AddMembers(ctx context.Context, themeID uuid.UUID, memberIDs []uuid.UUID) error

	// RemoveMember deletes one membership row and clears the head if it
	// pointed at that member. It reports whether a row was removed.
	RemoveMember(ctx context.Context, themeID, memberID uuid.UUID) (bool, error)

	// SetHead sets the head only if memberID is currently a member. It
	// reports whether the row was updated.
	SetHead(ctx context.Context, themeID, memberID uuid.UUID) (bool, error)

	ClearHead(ctx context.Context, themeID uuid.UUID) error

	SetProject(ctx context.Context, themeID uuid.UUID, projectID *uuid.UUID) error

	ListMembers(ctx context.Context, themeID uuid.UUID) ([]models.TeamMember, error)

	DeleteCascade(ctx context.Context, id uuid.UUID) (CascadeResult, error)

	Count(ctx context.Context) (int64, error)
}

// ThemeFilter holds filtering options for listing themes
type ThemeFilter struct {
	ProjectID *uuid.UUID
}

// TeamMemberRepository defines the interface for team member data access
type TeamMemberRepository interface {
	Create(ctx context.Context, member *models.TeamMember) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.TeamMember, error)

	// FindByIDs returns the members that exist among ids.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.TeamMember, error)

	List(ctx context.Context) ([]models.TeamMember, error)

	Update(ctx context.Context, member *models.TeamMember) error

	// DeleteCascade clears heads pointing at the member, removes its
	// memberships and deletes it, in one transaction.
	DeleteCascade(ctx context.Context, id uuid.UUID) (CascadeResult, error)

	Count(ctx context.Context) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	FindByEmail(ctx context.Context, email string) (*models.User, error)

	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
}

// CascadeResult counts the dependent rows a cascading delete removed or
// detached.
type CascadeResult struct {
	Themes       int64
	Memberships  int64
	HeadsCleared int64
}
