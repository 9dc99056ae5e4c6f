package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/billing"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"

	"golang.org/x/sync/singleflight"
)

// CheckoutResult holds either a payment url or the already-purchased flag.
type CheckoutResult struct {
	URL              string
	AlreadyPurchased bool
}

type CheckoutUseCase struct {
	guard     *Guard
	courses   *repository.CourseRepository
	purchases *repository.PurchaseRepository
	customers *repository.CustomerRepository
	billing   BillingProvider
	appURL    string
	logger    *slog.Logger

	customerFlight singleflight.Group
}

func NewCheckoutUseCase(
	g *Guard,
	cr *repository.CourseRepository,
	pr *repository.PurchaseRepository,
	custr *repository.CustomerRepository,
	b BillingProvider,
	appURL string,
	logger *slog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		guard:     g,
		courses:   cr,
		purchases: pr,
		customers: custr,
		billing:   b,
		appURL:    appURL,
		logger:    logger,
	}
}

// Checkout opens a payment session for a published course. It never
// records a purchase; that happens when the provider confirms payment.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, identity *domain.Identity, courseID string) (*CheckoutResult, error) {
	user, err := uc.guard.RequireUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	course, err := uc.courses.GetPublished(ctx, courseID)
	if err != nil {
		return nil, err
	}

	owned, err := uc.purchases.Exists(ctx, user.ID, course.ID)
	if err != nil {
		return nil, err
	}
	if owned {
		return &CheckoutResult{AlreadyPurchased: true}, nil
	}

	customerID, err := uc.ensureCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	var price float64
	if course.Price != nil {
		price = *course.Price
	}
	var description string
	if course.Description != nil {
		description = *course.Description
	}

	courseURL := fmt.Sprintf("%s/courses/%s", uc.appURL, course.ID)
	url, err := uc.billing.CreateCheckoutSession(ctx, billing.CheckoutSessionParams{
		CustomerID: customerID,
		LineItems: []billing.LineItem{{
			Name:        course.Title,
			Description: description,
			Currency:    "usd",
			UnitAmount:  int64(math.Round(price * 100)),
			Quantity:    1,
		}},
		SuccessURL: courseURL + "?success=1",
		CancelURL:  courseURL + "?canceled=1",
		Metadata: map[string]string{
			"courseId": course.ID,
			"userId":   user.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutResult{URL: url}, nil
}

// ensureCustomer returns the user's billing customer, creating it on first
// use. Concurrent first checkouts by one user share a single creation, and
// the unique user_id index settles races across processes.
func (uc *CheckoutUseCase) ensureCustomer(ctx context.Context, user *domain.User) (string, error) {
	v, err, _ := uc.customerFlight.Do(user.ID, func() (any, error) {
		existing, err := uc.customers.GetByUser(ctx, user.ID)
		if err == nil {
			return existing.StripeCustomerID, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return "", err
		}

		remoteID, err := uc.billing.CreateCustomer(ctx, user.Email)
		if err != nil {
			return "", fmt.Errorf("create billing customer: %w", err)
		}
		stored, err := uc.customers.CreateIfAbsent(ctx, user.ID, remoteID)
		if err != nil {
			return "", fmt.Errorf("store billing customer: %w", err)
		}
		if stored.StripeCustomerID != remoteID {
			uc.logger.Warn("billing customer created concurrently, keeping stored one",
				"user_id", user.ID, "stored", stored.StripeCustomerID, "discarded", remoteID)
		}
		return stored.StripeCustomerID, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
