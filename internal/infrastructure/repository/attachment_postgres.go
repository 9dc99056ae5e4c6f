package repository

import (
	"context"

	"github.com/waste3d/coursehub/internal/domain"

	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *domain.Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AttachmentRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.Attachment, error) {
	var attachments []domain.Attachment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at desc").
		Find(&attachments).Error
	return attachments, err
}

// DeleteInCourse removes the attachment only if it belongs to courseID.
func (r *AttachmentRepository) DeleteInCourse(ctx context.Context, courseID, attachmentID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND course_id = ?", attachmentID, courseID).
		Delete(&domain.Attachment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
