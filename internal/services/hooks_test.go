package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukuvago/themeboard/internal/apperrors"
	"github.com/ukuvago/themeboard/internal/models"
	"github.com/ukuvago/themeboard/internal/testutil"
)

func TestRequireLine(t *testing.T) {
	got, err := requireLine("Name", "  Apollo  ", 200)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", got)

	for _, value := range []string{"Apollo\r\nBcc: attacker@evil.test", "Apollo\nTwo", "tab\there", "nul\x00"} {
		_, err := requireLine("Name", value, 200)
		assert.ErrorIs(t, err, apperrors.ErrValidation, value)
	}

	// Descriptions may span lines.
	_, err = requireText("Description", "line one\nline two", 0)
	assert.NoError(t, err)
}

func TestNamesWithLineBreaksAreRejected(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	injected := "Apollo\r\nBcc: attacker@evil.test"

	_, err := env.projects.CreateProject(ctx, CreateProjectInput{Name: injected, Description: "d"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = env.themes.CreateTheme(ctx, CreateThemeInput{Name: injected, Description: "d", CreatorID: env.admin.ID})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	project := testutil.CreateProject(t, env.db, "Gemini")
	_, err = env.projects.UpdateProject(ctx, project.ID, UpdateProjectInput{Name: &injected})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Equal(t, int64(1), testutil.CountRows(t, env.db, &models.Project{}, ""))
	assert.Empty(t, env.notifier.Events())
}
