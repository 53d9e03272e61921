package database

import (
	"github.com/ukuvago/themeboard/internal/logger"
	"github.com/ukuvago/themeboard/internal/models"
	"gorm.io/gorm"
)

// SeedDemo creates a small sample project with one theme and a few team
// members so the public site has something to render.
func SeedDemo(db *gorm.DB) error {
	var count int64
	db.Model(&models.Project{}).Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	var admin models.User
	if err := db.Where("role = ?", models.RoleAdmin).First(&admin).Error; err != nil {
		logger.Info().Msg("No admin user found, skipping demo seeding")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		project := &models.Project{
			Name:        "Apollo",
			Description: "Flagship platform rebuild covering the public site and admin tooling.",
			Status:      models.ProjectStatusOngoing,
		}
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		members := []models.TeamMember{
			{Name: "Alice", Role: "Lead", WorkDetail: "Owns the API and data model."},
			{Name: "Bob", Role: "Senior Developer", WorkDetail: "Builds the admin panel."},
			{Name: "Carol", Role: "Designer", WorkDetail: "Visual identity and theming."},
		}
		if err := tx.Create(&members).Error; err != nil {
			return err
		}

		theme := &models.Theme{
			Name:        "Core",
			Description: "Backend services and shared infrastructure.",
			ProjectID:   &project.ID,
			CreatedByID: admin.ID,
		}
		if err := tx.Create(theme).Error; err != nil {
			return err
		}

		rows := []models.ThemeMember{
			{ThemeID: theme.ID, TeamMemberID: members[0].ID},
			{ThemeID: theme.ID, TeamMemberID: members[1].ID},
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		if err := tx.Model(theme).Update("theme_head_id", members[0].ID).Error; err != nil {
			return err
		}

		logger.Info().Msg("Seeded demo project")
		return nil
	})
}
