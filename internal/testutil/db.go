// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/waste3d/coursehub/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every table migrated
// and foreign keys enforced.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(domain.Models()...))
	return db
}

// SeedUser inserts a user with the given email.
func SeedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Username: email, Password: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// SeedCourse inserts a course owned by userID.
func SeedCourse(t *testing.T, db *gorm.DB, userID, title string) *domain.Course {
	t.Helper()
	c := &domain.Course{UserID: userID, Title: title}
	require.NoError(t, db.Create(c).Error)
	return c
}

// SeedChapter inserts a chapter at position.
func SeedChapter(t *testing.T, db *gorm.DB, courseID, title string, position int) *domain.Chapter {
	t.Helper()
	ch := &domain.Chapter{CourseID: courseID, Title: title, Position: position}
	require.NoError(t, db.Create(ch).Error)
	return ch
}
