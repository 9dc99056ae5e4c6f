package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/testutil"
)

func TestChapterRepository_CreateAtEnd(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewChapterRepository(db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	course := testutil.SeedCourse(t, db, owner.ID, "Go")

	first := &domain.Chapter{CourseID: course.ID, Title: "one"}
	require.NoError(t, repo.CreateAtEnd(ctx, first))
	assert.Equal(t, 1, first.Position)

	second := &domain.Chapter{CourseID: course.ID, Title: "two"}
	require.NoError(t, repo.CreateAtEnd(ctx, second))
	assert.Equal(t, 2, second.Position)
}

func TestChapterRepository_Reorder(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewChapterRepository(db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	course := testutil.SeedCourse(t, db, owner.ID, "Go")
	a := testutil.SeedChapter(t, db, course.ID, "a", 1)
	b := testutil.SeedChapter(t, db, course.ID, "b", 2)

	require.NoError(t, repo.Reorder(ctx, []domain.ChapterPosition{{ID: a.ID, Position: 2}, {ID: b.ID, Position: 1}}))

	chapters, err := repo.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "b", chapters[0].Title)
	assert.Equal(t, "a", chapters[1].Title)
}

func TestChapterRepository_ReorderIsAtomic(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewChapterRepository(db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	course := testutil.SeedCourse(t, db, owner.ID, "Go")
	a := testutil.SeedChapter(t, db, course.ID, "a", 1)

	err := repo.Reorder(ctx, []domain.ChapterPosition{{ID: a.ID, Position: 5}, {ID: "missing", Position: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := repo.GetInCourse(ctx, course.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Position)
}

func TestChapterRepository_PublishedQueries(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewChapterRepository(db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	course := testutil.SeedCourse(t, db, owner.ID, "Go")
	one := testutil.SeedChapter(t, db, course.ID, "one", 1)
	testutil.SeedChapter(t, db, course.ID, "two", 2)
	three := testutil.SeedChapter(t, db, course.ID, "three", 3)

	require.NoError(t, repo.SetPublished(ctx, one.ID, true))
	require.NoError(t, repo.SetPublished(ctx, three.ID, true))

	n, err := repo.CountPublished(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	total, err := repo.CountByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	next, err := repo.NextPublished(ctx, course.ID, one.Position)
	require.NoError(t, err)
	assert.Equal(t, three.ID, next.ID)

	_, err = repo.NextPublished(ctx, course.ID, three.Position)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChapterRepository_ReplaceAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewChapterRepository(db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@example.com")
	course := testutil.SeedCourse(t, db, owner.ID, "Go")
	ch := testutil.SeedChapter(t, db, course.ID, "one", 1)

	require.NoError(t, repo.ReplaceAsset(ctx, ch.ID, "https://v/1.mp4", &domain.MuxData{AssetID: "asset-1"}))
	require.NoError(t, repo.ReplaceAsset(ctx, ch.ID, "https://v/2.mp4", &domain.MuxData{AssetID: "asset-2"}))

	got, err := repo.GetInCourse(ctx, course.ID, ch.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MuxData)
	assert.Equal(t, "asset-2", got.MuxData.AssetID)
	assert.Equal(t, "https://v/2.mp4", *got.VideoURL)

	_, err = repo.GetInCourse(ctx, "other-course", ch.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, db.Create(&domain.UserProgress{UserID: owner.ID, ChapterID: ch.ID}).Error)
	require.NoError(t, repo.Delete(ctx, ch.ID))

	var assets, progress int64
	require.NoError(t, db.Model(&domain.MuxData{}).Count(&assets).Error)
	require.NoError(t, db.Model(&domain.UserProgress{}).Count(&progress).Error)
	assert.Zero(t, assets)
	assert.Zero(t, progress)
	assert.ErrorIs(t, repo.Delete(ctx, ch.ID), domain.ErrNotFound)
}
