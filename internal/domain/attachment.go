package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Attachment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CourseID  string    `gorm:"size:36;index;not null" json:"courseId"`
	Name      string    `json:"name"`
	URL       string    `gorm:"not null" json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Attachment) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AttachmentName is the last path segment of the uploaded file url.
func AttachmentName(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

