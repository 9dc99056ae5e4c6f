package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Chapter struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	CourseID    string  `gorm:"size:36;index;not null" json:"courseId"`
	Title       string  `gorm:"not null" json:"title"`
	Description *string `json:"description"`
	VideoURL    *string `json:"videoUrl"`
	Position    int     `gorm:"index" json:"position"`
	IsPublished bool    `json:"isPublished"`
	IsFree      bool    `json:"isFree"`

	MuxData      *MuxData       `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE;" json:"muxData,omitempty"`
	UserProgress []UserProgress `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE;" json:"userProgress,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Chapter) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Readiness requires title, description, a video url and a processed asset.
func (c *Chapter) Readiness(asset *MuxData) Readiness {
	return newReadiness([]readinessCheck{
		{"title", isSet(&c.Title)},
		{"description", isSet(c.Description)},
		{"videoUrl", isSet(c.VideoURL)},
		{"muxData", asset != nil},
	})
}

// MuxData is the video-processing record attached to a chapter.
type MuxData struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	ChapterID  string  `gorm:"size:36;uniqueIndex;not null" json:"chapterId"`
	AssetID    string  `gorm:"not null" json:"assetId"`
	PlaybackID *string `json:"playbackId"`
}

func (m *MuxData) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ChapterPosition is one entry of a reorder request.
type ChapterPosition struct {
	ID       string `json:"id" validate:"required"`
	Position int    `json:"position" validate:"gte=0"`
}
