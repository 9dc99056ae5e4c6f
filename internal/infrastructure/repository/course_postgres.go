package repository

import (
	"context"

	"github.com/waste3d/coursehub/internal/domain"

	"gorm.io/gorm"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	var course domain.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

// GetOwned finds the course only when userID owns it.
func (r *CourseRepository) GetOwned(ctx context.Context, id, userID string) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&course).Error
	if err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *CourseRepository) GetPublished(ctx context.Context, id string) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND is_published = ?", id, true).
		First(&course).Error
	if err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

// GetWithContent loads chapters by position and attachments newest first.
func (r *CourseRepository) GetWithContent(ctx context.Context, id string) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Preload("Chapters.MuxData").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc")
		}).
		First(&course, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *CourseRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&courses).Error
	return courses, err
}

// SearchPublished filters published courses by title fragment and category.
func (r *CourseRepository) SearchPublished(ctx context.Context, title, categoryID string) ([]domain.Course, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Chapters", "is_published = ?", true).
		Where("is_published = ?", true)
	if title != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+title+"%")
	}
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var courses []domain.Course
	err := query.Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *CourseRepository) SetPublished(ctx context.Context, id string, published bool) error {
	return r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("id = ?", id).
		Update("is_published", published).Error
}

// DeleteCascade removes the course and everything hanging off it in one
// transaction. Remote video assets must already be gone.
func (r *CourseRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chapterIDs := func() *gorm.DB {
			return tx.Model(&domain.Chapter{}).Select("id").Where("course_id = ?", id)
		}

		if err := tx.Where("chapter_id IN (?)", chapterIDs()).Delete(&domain.UserProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chapter_id IN (?)", chapterIDs()).Delete(&domain.MuxData{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&domain.Chapter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&domain.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&domain.Purchase{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Course{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
