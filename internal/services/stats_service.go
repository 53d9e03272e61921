package services

import (
	"context"
	"fmt"

	"github.com/ukuvago/themeboard/internal/models"
	"github.com/ukuvago/themeboard/internal/repository"
)

// Stats are the dashboard counters shown in the admin panel.
type Stats struct {
	Projects    int64 `json:"projects"`
	Themes      int64 `json:"themes"`
	TeamMembers int64 `json:"team_members"`
	Admins      int64 `json:"admins"`
}

type StatsService struct {
	projects repository.ProjectRepository
	themes   repository.ThemeRepository
	members  repository.TeamMemberRepository
	users    repository.UserRepository
}

func NewStatsService(
	projects repository.ProjectRepository,
	themes repository.ThemeRepository,
	members repository.TeamMemberRepository,
	users repository.UserRepository,
) *StatsService {
	return &StatsService{projects: projects, themes: themes, members: members, users: users}
}

func (s *StatsService) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var err error

	if stats.Projects, err = s.projects.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if stats.Themes, err = s.themes.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count themes: %w", err)
	}
	if stats.TeamMembers, err = s.members.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count team members: %w", err)
	}
	if stats.Admins, err = s.users.CountByRole(ctx, models.RoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	return &stats, nil
}
