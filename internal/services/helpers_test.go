package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ukuvago/themeboard/internal/models"
	"github.com/ukuvago/themeboard/internal/repository"
	"github.com/ukuvago/themeboard/internal/testutil"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, e Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return n.err
}

func (n *recordingNotifier) Events() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events...)
}

type recordingImages struct {
	mu      sync.Mutex
	deleted []string
}

func (r *recordingImages) DeleteImage(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, path)
	return nil
}

type cascadeCall struct {
	entity                            string
	themes, memberships, headsCleared int64
}

type recordingCascades struct {
	calls []cascadeCall
}

func (r *recordingCascades) CascadeDeleted(entity string, themes, memberships, headsCleared int64) {
	r.calls = append(r.calls, cascadeCall{entity, themes, memberships, headsCleared})
}

type serviceTestEnv struct {
	db       *gorm.DB
	admin    *models.User
	notifier *recordingNotifier
	images   *recordingImages
	cascades *recordingCascades

	projects *ProjectService
	themes   *ThemeService
	team     *TeamService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db := testutil.NewDB(t)

	env := serviceTestEnv{
		db:       db,
		admin:    testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin),
		notifier: &recordingNotifier{},
		images:   &recordingImages{},
		cascades: &recordingCascades{},
	}

	hooks := Hooks{Notifier: env.notifier, Images: env.images, Cascades: env.cascades}
	projectRepo := repository.NewProjectRepository(db)
	themeRepo := repository.NewThemeRepository(db)
	memberRepo := repository.NewTeamMemberRepository(db)

	env.projects = NewProjectService(projectRepo, themeRepo, hooks)
	env.themes = NewThemeService(themeRepo, projectRepo, memberRepo, hooks)
	env.team = NewTeamService(memberRepo, hooks)
	return env
}

func strPtr(s string) *string { return &s }

var errSMTPDown = errors.New("smtp: connection refused")
