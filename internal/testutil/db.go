// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/ukuvago/themeboard/internal/database"
	"github.com/ukuvago/themeboard/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database that is closed when the
// test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser inserts a user whose password is "password123".
func CreateUser(t testing.TB, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:         "Test " + string(role),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateMember(t testing.TB, db *gorm.DB, name string) *models.TeamMember {
	t.Helper()

	member := &models.TeamMember{Name: name, Role: "Developer", WorkDetail: name + " builds things."}
	require.NoError(t, db.Create(member).Error)
	return member
}

func CreateProject(t testing.TB, db *gorm.DB, name string) *models.Project {
	t.Helper()

	project := &models.Project{Name: name, Description: name + " description", Status: models.ProjectStatusOngoing}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CountRows counts the rows of model matching the optional condition.
func CountRows(t testing.TB, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&count).Error)
	return count
}
