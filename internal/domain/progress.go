package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserProgress struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;not null;uniqueIndex:idx_progress_user_chapter" json:"userId"`
	ChapterID   string    `gorm:"size:36;not null;uniqueIndex:idx_progress_user_chapter;index" json:"chapterId"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *UserProgress) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Percent is completed/total expressed in percent; 0 when total is 0.
func Percent(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
