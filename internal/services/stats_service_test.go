package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukuvago/themeboard/internal/models"
	"github.com/ukuvago/themeboard/internal/repository"
	"github.com/ukuvago/themeboard/internal/testutil"
)

func TestStatsService_GetStats(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()

	testutil.CreateUser(t, env.db, "user@example.com", models.RoleUser)
	project := testutil.CreateProject(t, env.db, "Apollo")
	testutil.CreateMember(t, env.db, "Alice")
	_, err := env.themes.CreateTheme(ctx, CreateThemeInput{Name: "Core", Description: "d", ProjectID: &project.ID, CreatorID: env.admin.ID})
	require.NoError(t, err)

	svc := NewStatsService(
		repository.NewProjectRepository(env.db),
		repository.NewThemeRepository(env.db),
		repository.NewTeamMemberRepository(env.db),
		repository.NewUserRepository(env.db),
	)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Projects: 1, Themes: 1, TeamMembers: 1, Admins: 1}, *stats)
}
