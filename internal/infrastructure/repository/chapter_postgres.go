package repository

import (
	"context"

	"github.com/waste3d/coursehub/internal/domain"

	"gorm.io/gorm"
)

type ChapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) *ChapterRepository {
	return &ChapterRepository{db: db}
}

// CreateAtEnd appends the chapter after the course's last position.
func (r *ChapterRepository) CreateAtEnd(ctx context.Context, ch *domain.Chapter) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last domain.Chapter
		err := tx.Where("course_id = ?", ch.CourseID).Order("position desc").First(&last).Error
		switch {
		case err == nil:
			ch.Position = last.Position + 1
		case translate(err) == domain.ErrNotFound:
			ch.Position = 1
		default:
			return err
		}
		return tx.Create(ch).Error
	})
}

// GetInCourse loads a chapter with its video asset, scoped to the course.
func (r *ChapterRepository) GetInCourse(ctx context.Context, courseID, chapterID string) (*domain.Chapter, error) {
	var ch domain.Chapter
	err := r.db.WithContext(ctx).
		Preload("MuxData").
		Where("id = ? AND course_id = ?", chapterID, courseID).
		First(&ch).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ch, nil
}

func (r *ChapterRepository) Get(ctx context.Context, chapterID string) (*domain.Chapter, error) {
	var ch domain.Chapter
	if err := r.db.WithContext(ctx).Where("id = ?", chapterID).First(&ch).Error; err != nil {
		return nil, translate(err)
	}
	return &ch, nil
}

func (r *ChapterRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.Chapter, error) {
	var chapters []domain.Chapter
	err := r.db.WithContext(ctx).
		Preload("MuxData").
		Where("course_id = ?", courseID).
		Order("position asc").
		Find(&chapters).Error
	return chapters, err
}

func (r *ChapterRepository) ListPublishedByCourse(ctx context.Context, courseID string) ([]domain.Chapter, error) {
	var chapters []domain.Chapter
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Order("position asc").
		Find(&chapters).Error
	return chapters, err
}

// NextPublished is the first published chapter after position, if any.
func (r *ChapterRepository) NextPublished(ctx context.Context, courseID string, position int) (*domain.Chapter, error) {
	var ch domain.Chapter
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND is_published = ? AND position > ?", courseID, true, position).
		Order("position asc").
		First(&ch).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ch, nil
}

func (r *ChapterRepository) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Chapter{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *ChapterRepository) CountPublished(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Chapter{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Count(&count).Error
	return count, err
}

func (r *ChapterRepository) Update(ctx context.Context, chapterID string, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.Chapter{}).
		Where("id = ?", chapterID).
		Updates(updates).Error
}

func (r *ChapterRepository) SetPublished(ctx context.Context, chapterID string, published bool) error {
	return r.db.WithContext(ctx).Model(&domain.Chapter{}).
		Where("id = ?", chapterID).
		Update("is_published", published).Error
}

// Reorder writes every position inside one transaction; either all entries
// land or none do. Entries are keyed by chapter id alone.
func (r *ChapterRepository) Reorder(ctx context.Context, positions []domain.ChapterPosition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range positions {
			result := tx.Model(&domain.Chapter{}).
				Where("id = ?", p.ID).
				Update("position", p.Position)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domain.ErrNotFound
			}
		}
		return nil
	})
}

// ReplaceAsset swaps the chapter's video record and url in one transaction.
func (r *ChapterRepository) ReplaceAsset(ctx context.Context, chapterID, videoURL string, asset *domain.MuxData) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", chapterID).Delete(&domain.MuxData{}).Error; err != nil {
			return err
		}
		asset.ChapterID = chapterID
		if err := tx.Create(asset).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Chapter{}).
			Where("id = ?", chapterID).
			Update("video_url", videoURL).Error
	})
}

func (r *ChapterRepository) DeleteAsset(ctx context.Context, chapterID string) error {
	return r.db.WithContext(ctx).Where("chapter_id = ?", chapterID).Delete(&domain.MuxData{}).Error
}

// Delete removes the chapter with its progress rows and video record.
func (r *ChapterRepository) Delete(ctx context.Context, chapterID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", chapterID).Delete(&domain.UserProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chapter_id = ?", chapterID).Delete(&domain.MuxData{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", chapterID).Delete(&domain.Chapter{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
