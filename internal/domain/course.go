package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID          string   `gorm:"primaryKey;size:36" json:"id"`
	UserID      string   `gorm:"size:36;index;not null" json:"userId"`
	Title       string   `gorm:"not null" json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	Price       *float64 `json:"price"`
	IsPublished bool     `json:"isPublished"`

	CategoryID *string   `gorm:"size:36;index" json:"categoryId"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Chapters    []Chapter    `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"chapters,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"attachments,omitempty"`
	Purchases   []Purchase   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Readiness reports which publish preconditions are met.
type Readiness struct {
	Completed int      `json:"completed"`
	Total     int      `json:"total"`
	Missing   []string `json:"missing,omitempty"`
}

func (r Readiness) Ready() bool {
	return len(r.Missing) == 0
}

type readinessCheck struct {
	name string
	ok   bool
}

func newReadiness(checks []readinessCheck) Readiness {
	r := Readiness{Total: len(checks)}
	for _, c := range checks {
		if c.ok {
			r.Completed++
		} else {
			r.Missing = append(r.Missing, c.name)
		}
	}
	return r
}

// Readiness evaluates the course against its chapters: title, description,
// image, price and category must be set and at least one chapter published.
func (c *Course) Readiness(chapters []Chapter) Readiness {
	published := false
	for _, ch := range chapters {
		if ch.IsPublished {
			published = true
			break
		}
	}
	return newReadiness([]readinessCheck{
		{"title", isSet(&c.Title)},
		{"description", isSet(c.Description)},
		{"imageUrl", isSet(c.ImageURL)},
		{"price", c.Price != nil},
		{"categoryId", isSet(c.CategoryID)},
		{"publishedChapter", published},
	})
}

func isSet(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
