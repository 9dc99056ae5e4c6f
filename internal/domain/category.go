package domain

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// DefaultCategories are inserted on first boot.
var DefaultCategories = []string{
	"Computer Science",
	"Music",
	"Fitness",
	"Photography",
	"Accounting",
	"Engineering",
	"Filming",
}
