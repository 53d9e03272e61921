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

const maxMemberFieldLength = 100

var ErrTeamMemberNotFound = apperrors.NotFound("Team member not found")

type TeamService struct {
	members repository.TeamMemberRepository
	hooks   Hooks
}

func NewTeamService(members repository.TeamMemberRepository, hooks Hooks) *TeamService {
	return &TeamService{members: members, hooks: hooks}
}

// MemberInput carries every text field of a member. On update they all
// replace the stored values; a nil ImagePath keeps the current image.
type MemberInput struct {
	Name       string
	Role       string
	WorkDetail string
	ImagePath  *string
}

func (in MemberInput) validate() (name, role, workDetail string, err error) {
	if name, err = requireLine("Name", in.Name, maxMemberFieldLength); err != nil {
		return
	}
	if role, err = requireLine("Role", in.Role, maxMemberFieldLength); err != nil {
		return
	}
	workDetail, err = requireText("Work detail", in.WorkDetail, 0)
	return
}

func (s *TeamService) CreateMember(ctx context.Context, input MemberInput) (*models.TeamMember, error) {
	name, role, workDetail, err := input.validate()
	if err != nil {
		return nil, err
	}

	member := &models.TeamMember{
		Name:       name,
		Role:       role,
		WorkDetail: workDetail,
		ImagePath:  optionalText(input.ImagePath),
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create team member: %w", err)
	}
	return member, nil
}

func (s *TeamService) UpdateMember(ctx context.Context, id uuid.UUID, input MemberInput) (*models.TeamMember, error) {
	name, role, workDetail, err := input.validate()
	if err != nil {
		return nil, err
	}

	member, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	previousImage := member.ImagePath

	member.Name = name
	member.Role = role
	member.WorkDetail = workDetail
	if image := optionalText(input.ImagePath); image != nil {
		member.ImagePath = image
	}

	if err := s.members.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update team member: %w", err)
	}

	s.hooks.replaceImage(previousImage, member.ImagePath)
	return member, nil
}

// DeleteMember removes the member from every theme, clearing any head that
// pointed at it, then deletes the member.
func (s *TeamService) DeleteMember(ctx context.Context, id uuid.UUID) error {
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return err
	}

	res, err := s.members.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamMemberNotFound
		}
		return fmt.Errorf("failed to delete team member: %w", err)
	}
	s.hooks.cascaded("team_member", res)

	if member.ImagePath != nil {
		s.hooks.removeImage(*member.ImagePath)
	}
	return nil
}

func (s *TeamService) ListMembers(ctx context.Context) ([]models.TeamMember, error) {
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

func (s *TeamService) GetMember(ctx context.Context, id uuid.UUID) (*models.TeamMember, error) {
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}
	return member, nil
}
