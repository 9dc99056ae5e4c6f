package repository

import (
	"context"
	"time"

	"github.com/waste3d/coursehub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Upsert writes isCompleted for (userID, chapterID), creating the row on
// first use, and returns the stored row.
func (r *ProgressRepository) Upsert(ctx context.Context, userID, chapterID string, isCompleted bool) (*domain.UserProgress, error) {
	row := domain.UserProgress{
		UserID:      userID,
		ChapterID:   chapterID,
		IsCompleted: isCompleted,
		UpdatedAt:   time.Now(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_completed", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.Get(ctx, userID, chapterID)
}

func (r *ProgressRepository) Get(ctx context.Context, userID, chapterID string) (*domain.UserProgress, error) {
	var row domain.UserProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND chapter_id = ?", userID, chapterID).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

// CountCompleted counts the user's completed rows among the course's chapters.
func (r *ProgressRepository) CountCompleted(ctx context.Context, userID, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.UserProgress{}).
		Joins("JOIN chapters ON chapters.id = user_progresses.chapter_id").
		Where("user_progresses.user_id = ? AND user_progresses.is_completed = ? AND chapters.course_id = ?", userID, true, courseID).
		Count(&count).Error
	return count, err
}

// CompletedChapterIDs is the set of chapters of courseID the user completed.
func (r *ProgressRepository) CompletedChapterIDs(ctx context.Context, userID, courseID string) (map[string]bool, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.UserProgress{}).
		Joins("JOIN chapters ON chapters.id = user_progresses.chapter_id").
		Where("user_progresses.user_id = ? AND user_progresses.is_completed = ? AND chapters.course_id = ?", userID, true, courseID).
		Pluck("user_progresses.chapter_id", &ids).Error
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}
