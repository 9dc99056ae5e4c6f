package usecase

import (
	"context"

	"github.com/waste3d/coursehub/internal/infrastructure/billing"
	"github.com/waste3d/coursehub/internal/infrastructure/video"
)

// BillingProvider creates payment customers and hosted checkout sessions.
type BillingProvider interface {
	CreateCustomer(ctx context.Context, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, params billing.CheckoutSessionParams) (string, error)
}

// VideoProvider ingests and removes hosted video assets.
type VideoProvider interface {
	CreateAsset(ctx context.Context, sourceURL string) (video.Asset, error)
	DeleteAsset(ctx context.Context, assetID string) error
}

// CourseCache holds the public view of published courses.
type CourseCache interface {
	Get(ctx context.Context, courseID string, dst any) error
	Set(ctx context.Context, courseID string, v any) error
	Evict(ctx context.Context, courseID string) error
}
