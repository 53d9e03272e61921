package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukuvago/themeboard/internal/apperrors"
	"github.com/ukuvago/themeboard/internal/models"
)

type apolloFixture struct {
	project           *models.Project
	core              *models.Theme
	alice, bob, carol *models.TeamMember
}

func buildApollo(t *testing.T, env serviceTestEnv) apolloFixture {
	t.Helper()
	ctx := context.Background()

	var f apolloFixture
	var err error

	f.project, err = env.projects.CreateProject(ctx, CreateProjectInput{Name: "Apollo", Description: "Moonshot", Status: models.ProjectStatusOngoing})
	require.NoError(t, err)

	f.core, err = env.themes.CreateTheme(ctx, CreateThemeInput{Name: "Core", Description: "Backend", ProjectID: &f.project.ID, CreatorID: env.admin.ID})
	require.NoError(t, err)

	f.alice, err = env.team.CreateMember(ctx, MemberInput{Name: "Alice", Role: "Lead", WorkDetail: "API"})
	require.NoError(t, err)
	f.bob, err = env.team.CreateMember(ctx, MemberInput{Name: "Bob", Role: "Developer", WorkDetail: "Admin panel"})
	require.NoError(t, err)
	f.carol, err = env.team.CreateMember(ctx, MemberInput{Name: "Carol", Role: "Designer", WorkDetail: "Theming"})
	require.NoError(t, err)

	_, err = env.themes.AddMembers(ctx, f.core.ID, []uuid.UUID{f.alice.ID, f.bob.ID})
	require.NoError(t, err)
	_, err = env.themes.AssignThemeHead(ctx, f.core.ID, &f.alice.ID)
	require.NoError(t, err)
	return f
}

func TestScenario_DeletingApolloRemovesCore(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	f := buildApollo(t, env)

	require.NoError(t, env.projects.DeleteProject(ctx, f.project.ID))

	_, err := env.themes.GetTheme(ctx, f.core.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	for _, m := range []*models.TeamMember{f.alice, f.bob, f.carol} {
		_, err := env.team.GetMember(ctx, m.ID)
		assert.NoError(t, err, m.Name)
	}
}

func TestScenario_CarolCannotHeadCore(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	f := buildApollo(t, env)

	_, err := env.themes.AssignThemeHead(ctx, f.core.ID, &f.carol.ID)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "Theme head must be one of the theme members", apperrors.Message(err))

	core, err := env.themes.GetTheme(ctx, f.core.ID)
	require.NoError(t, err)
	require.NotNil(t, core.ThemeHead)
	assert.Equal(t, "Alice", core.ThemeHead.Name)
}
