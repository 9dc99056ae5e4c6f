package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/infrastructure/billing"
	"github.com/waste3d/coursehub/internal/infrastructure/repository"
)

var (
	ErrWebhookSignature = errors.New("webhook signature")
	ErrWebhookMetadata  = errors.New("missing metadata")
)

type WebhookVerifier interface {
	Verify(body []byte, header string) (*billing.Event, error)
}

type WebhookUseCase struct {
	verifier  WebhookVerifier
	purchases *repository.PurchaseRepository
	logger    *slog.Logger
}

func NewWebhookUseCase(v WebhookVerifier, pr *repository.PurchaseRepository, logger *slog.Logger) *WebhookUseCase {
	return &WebhookUseCase{verifier: v, purchases: pr, logger: logger}
}

// HandleEvent verifies a payment provider event and records the purchase on
// a completed checkout. Replays of the same event are no-ops.
func (uc *WebhookUseCase) HandleEvent(ctx context.Context, body []byte, signature string) error {
	event, err := uc.verifier.Verify(body, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}

	if event.Type != billing.EventCheckoutCompleted {
		uc.logger.Debug("webhook event ignored", "event_id", event.ID, "type", event.Type)
		return nil
	}

	meta := event.Object.Metadata
	userID, courseID := meta["userId"], meta["courseId"]
	if userID == "" || courseID == "" {
		return ErrWebhookMetadata
	}

	created, err := uc.purchases.CreateIfAbsent(ctx, userID, courseID)
	if errors.Is(err, domain.ErrNotFound) {
		// Retrying cannot succeed once the course or user is gone.
		uc.logger.Warn("purchase for missing course or user dropped", "event_id", event.ID, "user_id", userID, "course_id", courseID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("record purchase: %w", err)
	}
	uc.logger.Info("purchase recorded", "event_id", event.ID, "user_id", userID, "course_id", courseID, "created", created)
	return nil
}
