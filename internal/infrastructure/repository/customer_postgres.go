package repository

import (
	"context"

	"github.com/waste3d/coursehub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) GetByUser(ctx context.Context, userID string) (*domain.StripeCustomer, error) {
	var customer domain.StripeCustomer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&customer).Error
	if err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

// CreateIfAbsent stores the mapping unless the user already has one, and
// returns whichever row won.
func (r *CustomerRepository) CreateIfAbsent(ctx context.Context, userID, stripeCustomerID string) (*domain.StripeCustomer, error) {
	customer := domain.StripeCustomer{UserID: userID, StripeCustomerID: stripeCustomerID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&customer).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUser(ctx, userID)
}
