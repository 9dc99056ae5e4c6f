package repository

import (
	"context"
	"errors"

	"github.com/waste3d/coursehub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Get(ctx context.Context, userID, courseID string) (*domain.Purchase, error) {
	var purchase domain.Purchase
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&purchase).Error
	if err != nil {
		return nil, translate(err)
	}
	return &purchase, nil
}

// Exists reports whether userID owns courseID. An empty userID never does.
func (r *PurchaseRepository) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	_, err := r.Get(ctx, userID, courseID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// CreateIfAbsent inserts the entitlement; a repeat for the same pair is a no-op.
// An unknown user or course is ErrNotFound.
func (r *PurchaseRepository) CreateIfAbsent(ctx context.Context, userID, courseID string) (bool, error) {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &domain.User{}, userID); err != nil {
			return err
		}
		if err := exists(tx, &domain.Course{}, courseID); err != nil {
			return err
		}

		purchase := domain.Purchase{UserID: userID, CourseID: courseID}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).Create(&purchase)
		if result.Error != nil {
			return translate(result.Error)
		}
		created = result.RowsAffected > 0
		return nil
	})
	return created, err
}

// ListCourses returns the user's purchased courses with category and
// published chapters loaded.
func (r *PurchaseRepository) ListCourses(ctx context.Context, userID string) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("position asc")
		}).
		Joins("JOIN purchases ON purchases.course_id = courses.id").
		Where("purchases.user_id = ?", userID).
		Order("purchases.created_at desc").
		Find(&courses).Error
	return courses, err
}

func exists(tx *gorm.DB, model any, id string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrNotFound
	}
	return nil
}
