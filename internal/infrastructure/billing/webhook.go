package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const EventCheckoutCompleted = string(stripe.EventTypeCheckoutSessionCompleted)

var ErrMissingSignature = errors.New("missing signature")

// Event is the part of a webhook payload the service reads.
type Event struct {
	ID     string
	Type   string
	Object EventObject
}

// EventObject is the checkout session carried by the event.
type EventObject struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

// WebhookVerifier checks the Stripe-Signature header and decodes the event.
type WebhookVerifier struct {
	secret    string
	tolerance time.Duration
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret, tolerance: 5 * time.Minute}
}

// Verify authenticates body against header. Events from any API version are
// accepted; only the session id and metadata are read.
func (v *WebhookVerifier) Verify(body []byte, header string) (*Event, error) {
	if header == "" {
		return nil, ErrMissingSignature
	}

	raw, err := webhook.ConstructEventWithOptions(body, header, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, err
	}

	event := &Event{ID: raw.ID, Type: string(raw.Type)}
	if raw.Data != nil && len(raw.Data.Raw) > 0 {
		if err := json.Unmarshal(raw.Data.Raw, &event.Object); err != nil {
			return nil, fmt.Errorf("decode event object: %w", err)
		}
	}
	return event, nil
}
