package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ukuvago/themeboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormThemeRepository is a GORM implementation of ThemeRepository
type GormThemeRepository struct {
	db *gorm.DB
}

func NewThemeRepository(db *gorm.DB) ThemeRepository {
	return &GormThemeRepository{db: db}
}

func (r *GormThemeRepository) Create(ctx context.Context, theme *models.Theme) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(theme).Error
}

func (r *GormThemeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Theme, error) {
	var theme models.Theme
	if err := r.db.WithContext(ctx).First(&theme, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &theme, nil
}

func (r *GormThemeRepository) FindExpanded(ctx context.Context, id uuid.UUID) (*models.Theme, error) {
	var theme models.Theme
	if err := expand(r.db.WithContext(ctx)).First(&theme, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &theme, nil
}

func (r *GormThemeRepository) List(ctx context.Context, filter ThemeFilter) ([]models.Theme, error) {
	query := expand(r.db.WithContext(ctx))
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}

	var themes []models.Theme
	if err := query.Order("created_at DESC").Find(&themes).Error; err != nil {
		return nil, err
	}
	return themes, nil
}

func (r *GormThemeRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Theme{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddMembers is a set union: existing rows are left alone, so two requests
// adding overlapping sets cannot lose each other's members.
func (r *GormThemeRepository) AddMembers(ctx context.Context, themeID uuid.UUID, memberIDs []uuid.UUID) error {
	if len(memberIDs) == 0 {
		return nil
	}

	rows := make([]models.ThemeMember, 0, len(memberIDs))
	for _, id := range memberIDs {
		rows = append(rows, models.ThemeMember{ThemeID: themeID, TeamMemberID: id})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *GormThemeRepository) RemoveMember(ctx context.Context, themeID, memberID uuid.UUID) (bool, error) {
	removed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockThemes(tx, "id = ?", themeID); err != nil {
			return err
		}

		result := tx.Where("theme_id = ? AND team_member_id = ?", themeID, memberID).Delete(&models.ThemeMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true

		return tx.Model(&models.Theme{}).
			Where("id = ? AND theme_head_id = ?", themeID, memberID).
			Update("theme_head_id", nil).Error
	})
	return removed, err
}

// SetHead points the theme head at memberID only if memberID is in the
// theme's member set. It holds the theme row lock that RemoveMember and the
// team member cascade take, so the membership it checks cannot be removed
// underneath it.
func (r *GormThemeRepository) SetHead(ctx context.Context, themeID, memberID uuid.UUID) (bool, error) {
	set := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockThemes(tx, "id = ?", themeID); err != nil {
			return err
		}

		result := tx.Model(&models.Theme{}).
			Where("id = ?", themeID).
			Where("EXISTS (SELECT 1 FROM theme_members WHERE theme_members.theme_id = themes.id AND theme_members.team_member_id = ?)", memberID).
			Update("theme_head_id", memberID)
		if result.Error != nil {
			return result.Error
		}
		set = result.RowsAffected > 0
		return nil
	})
	return set, err
}

func (r *GormThemeRepository) ClearHead(ctx context.Context, themeID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Theme{}).
		Where("id = ?", themeID).
		Update("theme_head_id", nil).Error
}

func (r *GormThemeRepository) SetProject(ctx context.Context, themeID uuid.UUID, projectID *uuid.UUID) error {
	var value interface{}
	if projectID != nil {
		value = *projectID
	}

	result := r.db.WithContext(ctx).Model(&models.Theme{}).
		Where("id = ?", themeID).
		Update("project_id", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormThemeRepository) ListMembers(ctx context.Context, themeID uuid.UUID) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := r.db.WithContext(ctx).
		Joins("JOIN theme_members ON theme_members.team_member_id = team_members.id").
		Where("theme_members.theme_id = ?", themeID).
		Order("theme_members.created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *GormThemeRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (CascadeResult, error) {
	var res CascadeResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberships := tx.Where("theme_id = ?", id).Delete(&models.ThemeMember{})
		if memberships.Error != nil {
			return memberships.Error
		}
		res.Memberships = memberships.RowsAffected

		theme := tx.Delete(&models.Theme{}, "id = ?", id)
		if theme.Error != nil {
			return theme.Error
		}
		if theme.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		res.Themes = theme.RowsAffected
		return nil
	})
	if err != nil {
		return CascadeResult{}, err
	}
	return res, nil
}

func (r *GormThemeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Theme{}).Count(&count).Error
	return count, err
}

// lockThemes takes row locks on the matching themes for the rest of tx.
// Membership removals and head changes on a theme are serialised by it.
func lockThemes(tx *gorm.DB, query interface{}, args ...interface{}) error {
	var ids []uuid.UUID
	return tx.Model(&models.Theme{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(query, args...).
		Pluck("id", &ids).Error
}

// expand preloads every reference a reader sees on a theme.
func expand(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Project").
		Preload("ThemeHead").
		Preload("CreatedBy").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("team_members.name ASC")
		})
}
