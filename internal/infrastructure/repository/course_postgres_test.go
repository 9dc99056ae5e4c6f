package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/testutil"
)

func TestCourseRepository_GetOwned(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	other := testutil.SeedUser(t, db, "other@example.com")
	course := testutil.SeedCourse(t, db, owner.ID, "Go")

	got, err := repo.GetOwned(ctx, course.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Title)

	_, err = repo.GetOwned(ctx, course.ID, other.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCourseRepository_SearchPublished(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	cats := NewCategoryRepository(db)
	_, err := cats.Seed(ctx, []string{"Music", "Fitness"})
	require.NoError(t, err)
	list, err := cats.List(ctx)
	require.NoError(t, err)
	fitness := list[0].ID

	guitar := testutil.SeedCourse(t, db, owner.ID, "Guitar Basics")
	yoga := testutil.SeedCourse(t, db, owner.ID, "Morning Yoga")
	testutil.SeedCourse(t, db, owner.ID, "Guitar Drafts")

	require.NoError(t, repo.SetPublished(ctx, guitar.ID, true))
	require.NoError(t, repo.Update(ctx, yoga.ID, map[string]any{"category_id": fitness, "is_published": true}))

	found, err := repo.SearchPublished(ctx, "guitar", "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, guitar.ID, found[0].ID)

	found, err = repo.SearchPublished(ctx, "", fitness)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, yoga.ID, found[0].ID)
	require.NotNil(t, found[0].Category)
	assert.Equal(t, "Fitness", found[0].Category.Name)
}

func TestCourseRepository_GetWithContentOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	course := testutil.SeedCourse(t, db, owner.ID, "Go")
	testutil.SeedChapter(t, db, course.ID, "second", 2)
	testutil.SeedChapter(t, db, course.ID, "first", 1)

	now := time.Now()
	require.NoError(t, db.Create(&domain.Attachment{CourseID: course.ID, Name: "old", URL: "u/old", CreatedAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&domain.Attachment{CourseID: course.ID, Name: "new", URL: "u/new", CreatedAt: now}).Error)

	got, err := repo.GetWithContent(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got.Chapters, 2)
	assert.Equal(t, "first", got.Chapters[0].Title)
	assert.Equal(t, "second", got.Chapters[1].Title)
	require.Len(t, got.Attachments, 2)
	assert.Equal(t, "new", got.Attachments[0].Name)
}

func TestCourseRepository_DeleteCascade(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	course := testutil.SeedCourse(t, db, owner.ID, "Go")
	keep := testutil.SeedCourse(t, db, owner.ID, "Keep")
	ch := testutil.SeedChapter(t, db, course.ID, "one", 1)
	kept := testutil.SeedChapter(t, db, keep.ID, "kept", 1)

	require.NoError(t, db.Create(&domain.MuxData{ChapterID: ch.ID, AssetID: "asset-1"}).Error)
	require.NoError(t, db.Create(&domain.UserProgress{UserID: owner.ID, ChapterID: ch.ID, IsCompleted: true}).Error)
	require.NoError(t, db.Create(&domain.UserProgress{UserID: owner.ID, ChapterID: kept.ID, IsCompleted: true}).Error)
	require.NoError(t, db.Create(&domain.Attachment{CourseID: course.ID, URL: "u/a"}).Error)
	require.NoError(t, db.Create(&domain.Purchase{UserID: owner.ID, CourseID: course.ID}).Error)

	require.NoError(t, repo.DeleteCascade(ctx, course.ID))

	for _, model := range []any{&domain.Chapter{}, &domain.MuxData{}, &domain.Attachment{}, &domain.Purchase{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		if _, ok := model.(*domain.Chapter); ok {
			assert.Equal(t, int64(1), n, "other course's chapter survives")
			continue
		}
		assert.Zero(t, n, "%T left behind", model)
	}

	var progress int64
	require.NoError(t, db.Model(&domain.UserProgress{}).Count(&progress).Error)
	assert.Equal(t, int64(1), progress)

	_, err := repo.GetByID(ctx, course.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteCascade(ctx, course.ID), domain.ErrNotFound)
}
