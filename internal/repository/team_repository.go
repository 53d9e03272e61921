package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ukuvago/themeboard/internal/models"
	"gorm.io/gorm"
)

// GormTeamMemberRepository is a GORM implementation of TeamMemberRepository
type GormTeamMemberRepository struct {
	db *gorm.DB
}

func NewTeamMemberRepository(db *gorm.DB) TeamMemberRepository {
	return &GormTeamMemberRepository{db: db}
}

func (r *GormTeamMemberRepository) Create(ctx context.Context, member *models.TeamMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *GormTeamMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *GormTeamMemberRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if len(ids) == 0 {
		return members, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *GormTeamMemberRepository) List(ctx context.Context) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *GormTeamMemberRepository) Update(ctx context.Context, member *models.TeamMember) error {
	return r.db.WithContext(ctx).
		Model(member).
		Select("name", "role", "work_detail", "image_path").
		Updates(member).Error
}

func (r *GormTeamMemberRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (CascadeResult, error) {
	var res CascadeResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockThemes(tx, "theme_head_id = ? OR id IN (SELECT theme_id FROM theme_members WHERE team_member_id = ?)", id, id); err != nil {
			return err
		}

		heads := tx.Model(&models.Theme{}).Where("theme_head_id = ?", id).Update("theme_head_id", nil)
		if heads.Error != nil {
			return heads.Error
		}
		res.HeadsCleared = heads.RowsAffected

		memberships := tx.Where("team_member_id = ?", id).Delete(&models.ThemeMember{})
		if memberships.Error != nil {
			return memberships.Error
		}
		res.Memberships = memberships.RowsAffected

		member := tx.Delete(&models.TeamMember{}, "id = ?", id)
		if member.Error != nil {
			return member.Error
		}
		if member.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return CascadeResult{}, err
	}
	return res, nil
}

func (r *GormTeamMemberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TeamMember{}).Count(&count).Error
	return count, err
}
