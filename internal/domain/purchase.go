package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase is a permanent entitlement to a course.
type Purchase struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_purchase_user_course" json:"userId"`
	CourseID  string    `gorm:"size:36;not null;uniqueIndex:idx_purchase_user_course;index" json:"courseId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Purchase) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// StripeCustomer maps a user to the billing provider's customer id.
type StripeCustomer struct {
	ID               string `gorm:"primaryKey;size:36"`
	UserID           string `gorm:"size:36;uniqueIndex;not null"`
	StripeCustomerID string `gorm:"uniqueIndex;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (s *StripeCustomer) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
