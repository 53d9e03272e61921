package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ukuvago/themeboard/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormProjectRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCascade removes children before the parent so a failure at any step
// rolls back with nothing orphaned.
func (r *GormProjectRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (CascadeResult, error) {
	var res CascadeResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var themeIDs []uuid.UUID
		if err := tx.Model(&models.Theme{}).Where("project_id = ?", id).Pluck("id", &themeIDs).Error; err != nil {
			return err
		}

		if len(themeIDs) > 0 {
			memberships := tx.Where("theme_id IN ?", themeIDs).Delete(&models.ThemeMember{})
			if memberships.Error != nil {
				return memberships.Error
			}
			res.Memberships = memberships.RowsAffected

			themes := tx.Where("project_id = ?", id).Delete(&models.Theme{})
			if themes.Error != nil {
				return themes.Error
			}
			res.Themes = themes.RowsAffected
		}

		project := tx.Delete(&models.Project{}, "id = ?", id)
		if project.Error != nil {
			return project.Error
		}
		if project.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return CascadeResult{}, err
	}
	return res, nil
}

func (r *GormProjectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&count).Error
	return count, err
}
