package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukuvago/themeboard/internal/apperrors"
	"github.com/ukuvago/themeboard/internal/models"
	"github.com/ukuvago/themeboard/internal/repository"
	"github.com/ukuvago/themeboard/internal/testutil"
)

func TestProjectService_CreateProject(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	project, err := env.projects.CreateProject(ctx, CreateProjectInput{
		Name:        "  Apollo  ",
		Description: "Moonshot",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, project.ID)
	assert.Equal(t, "Apollo", project.Name)
	assert.Equal(t, models.ProjectStatusOngoing, project.Status)
	assert.Nil(t, project.ImagePath)

	events := env.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, Event{EntityType: EntityProject, EntityName: "Apollo", Action: ActionAdded}, events[0])
}

func TestProjectService_CreateProject_Validation(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	cases := []CreateProjectInput{
		{Name: "", Description: "d"},
		{Name: "   ", Description: "d"},
		{Name: "n", Description: ""},
		{Name: "n", Description: "d", Status: "archived"},
		{Name: string(make([]rune, 201)), Description: "d"},
	}
	for _, input := range cases {
		_, err := env.projects.CreateProject(ctx, input)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}

	assert.Zero(t, testutil.CountRows(t, env.db, &models.Project{}, ""))
	assert.Empty(t, env.notifier.Events())
}

func TestProjectService_UpdateProject_Partial(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	project, err := env.projects.CreateProject(ctx, CreateProjectInput{
		Name:        "Apollo",
		Description: "Moonshot",
		ImagePath:   strPtr("/uploads/projects/apollo.png"),
	})
	require.NoError(t, err)

	completed := models.ProjectStatusCompleted
	updated, err := env.projects.UpdateProject(ctx, project.ID, UpdateProjectInput{Status: &completed})
	require.NoError(t, err)

	assert.Equal(t, "Apollo", updated.Name)
	assert.Equal(t, "Moonshot", updated.Description)
	assert.Equal(t, models.ProjectStatusCompleted, updated.Status)
	require.NotNil(t, updated.ImagePath)
	assert.Equal(t, "/uploads/projects/apollo.png", *updated.ImagePath, "image kept without a new upload")
	assert.Empty(t, env.images.deleted)

	events := env.notifier.Events()
	require.Len(t, events, 2)
	assert.Equal(t, ActionUpdated, events[1].Action)
}

func TestProjectService_UpdateProject_ReplacesImage(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	project, err := env.projects.CreateProject(ctx, CreateProjectInput{
		Name:        "Apollo",
		Description: "Moonshot",
		ImagePath:   strPtr("/uploads/projects/old.png"),
	})
	require.NoError(t, err)

	updated, err := env.projects.UpdateProject(ctx, project.ID, UpdateProjectInput{
		ImagePath: strPtr("/uploads/projects/new.png"),
	})
	require.NoError(t, err)

	assert.Equal(t, "/uploads/projects/new.png", *updated.ImagePath)
	assert.Equal(t, []string{"/uploads/projects/old.png"}, env.images.deleted)
}

func TestProjectService_UpdateProject_Errors(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	_, err := env.projects.UpdateProject(ctx, uuid.New(), UpdateProjectInput{Name: strPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	project := testutil.CreateProject(t, env.db, "Apollo")

	_, err = env.projects.UpdateProject(ctx, project.ID, UpdateProjectInput{Name: strPtr("  ")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	bogus := models.ProjectStatus("paused")
	_, err = env.projects.UpdateProject(ctx, project.ID, UpdateProjectInput{Status: &bogus})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	stored, err := env.projects.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", stored.Name)
}

// Project Apollo has themes T1 {Alice, Bob; head Alice} and T2 {Bob}.
// Deleting Apollo removes both themes and all their memberships while the
// team members survive.
func TestProjectService_DeleteProject_Cascades(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	apollo := testutil.CreateProject(t, env.db, "Apollo")
	other := testutil.CreateProject(t, env.db, "Gemini")
	alice := testutil.CreateMember(t, env.db, "Alice")
	bob := testutil.CreateMember(t, env.db, "Bob")

	t1, err := env.themes.CreateTheme(ctx, CreateThemeInput{Name: "T1", Description: "d", ProjectID: &apollo.ID, CreatorID: env.admin.ID})
	require.NoError(t, err)
	t2, err := env.themes.CreateTheme(ctx, CreateThemeInput{Name: "T2", Description: "d", ProjectID: &apollo.ID, CreatorID: env.admin.ID, ImagePath: strPtr("/uploads/themes/t2.png")})
	require.NoError(t, err)
	survivor, err := env.themes.CreateTheme(ctx, CreateThemeInput{Name: "T3", Description: "d", ProjectID: &other.ID, CreatorID: env.admin.ID})
	require.NoError(t, err)

	_, err = env.themes.AddMembers(ctx, t1.ID, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)
	_, err = env.themes.AssignThemeHead(ctx, t1.ID, &alice.ID)
	require.NoError(t, err)
	_, err = env.themes.AddMembers(ctx, t2.ID, []uuid.UUID{bob.ID})
	require.NoError(t, err)
	_, err = env.themes.AddMembers(ctx, survivor.ID, []uuid.UUID{bob.ID})
	require.NoError(t, err)

	require.NoError(t, env.projects.DeleteProject(ctx, apollo.ID))

	_, err = env.projects.GetProject(ctx, apollo.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = env.themes.GetTheme(ctx, t1.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = env.themes.GetTheme(ctx, t2.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Zero(t, testutil.CountRows(t, env.db, &models.ThemeMember{}, "theme_id IN ?", []uuid.UUID{t1.ID, t2.ID}))
	assert.Equal(t, int64(1), testutil.CountRows(t, env.db, &models.ThemeMember{}, ""))
	assert.Equal(t, int64(2), testutil.CountRows(t, env.db, &models.TeamMember{}, ""))

	remaining, err := env.themes.GetTheme(ctx, survivor.ID)
	require.NoError(t, err)
	assert.True(t, remaining.HasMember(bob.ID))

	require.Len(t, env.cascades.calls, 1)
	assert.Equal(t, cascadeCall{entity: "project", themes: 2, memberships: 3}, env.cascades.calls[0])
	assert.Contains(t, env.images.deleted, "/uploads/themes/t2.png")
}

func TestProjectService_DeleteProject_NotFound(t *testing.T) {
	env := setupServiceTestEnv(t)

	err := env.projects.DeleteProject(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, env.cascades.calls)
}

func TestProjectService_ListProjects(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	testutil.CreateProject(t, env.db, "Apollo")
	done, err := env.projects.CreateProject(ctx, CreateProjectInput{Name: "Gemini", Description: "d", Status: models.ProjectStatusCompleted})
	require.NoError(t, err)

	all, err := env.projects.ListProjects(ctx, repository.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed := models.ProjectStatusCompleted
	filtered, err := env.projects.ListProjects(ctx, repository.ProjectFilter{Status: &completed})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, done.ID, filtered[0].ID)

	bogus := models.ProjectStatus("nope")
	unfiltered, err := env.projects.ListProjects(ctx, repository.ProjectFilter{Status: &bogus})
	require.NoError(t, err)
	assert.Len(t, unfiltered, 2)
}

func TestProjectService_GetProjectWithThemes(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	project := testutil.CreateProject(t, env.db, "Apollo")
	alice := testutil.CreateMember(t, env.db, "Alice")
	theme, err := env.themes.CreateTheme(ctx, CreateThemeInput{Name: "Core", Description: "d", ProjectID: &project.ID, CreatorID: env.admin.ID})
	require.NoError(t, err)
	_, err = env.themes.AddMembers(ctx, theme.ID, []uuid.UUID{alice.ID})
	require.NoError(t, err)
	_, err = env.themes.AssignThemeHead(ctx, theme.ID, &alice.ID)
	require.NoError(t, err)

	got, themes, err := env.projects.GetProjectWithThemes(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
	require.Len(t, themes, 1)
	require.NotNil(t, themes[0].ThemeHead)
	assert.Equal(t, "Alice", themes[0].ThemeHead.Name)
	assert.Len(t, themes[0].Members, 1)
}

// A failing notifier must not fail or undo the mutation.
func TestProjectService_NotifierFailureIsSwallowed(t *testing.T) {
	env := setupServiceTestEnv(t)
	env.notifier.err = errSMTPDown

	project, err := env.projects.CreateProject(context.Background(), CreateProjectInput{Name: "Apollo", Description: "d"})
	require.NoError(t, err)

	_, err = env.projects.GetProject(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Len(t, env.notifier.Events(), 1)
}

type panickingNotifier struct{}

func (panickingNotifier) Notify(context.Context, Event) error { panic("template exploded") }

func TestProjectService_NotifierPanicIsSwallowed(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewProjectService(repository.NewProjectRepository(db), repository.NewThemeRepository(db), Hooks{Notifier: panickingNotifier{}})

	_, err := svc.CreateProject(context.Background(), CreateProjectInput{Name: "Apollo", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &models.Project{}, ""))
}

func TestProjectService_ErrorsAreClassified(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, err := env.projects.GetProject(context.Background(), uuid.New())
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Project not found", appErr.Message)
}
