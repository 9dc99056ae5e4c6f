package billing

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStripeClient_CreateCustomer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/customers", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "sk_test", user)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "a@example.com", r.PostForm.Get("email"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cus_123","object":"customer"}`))
	}))
	defer srv.Close()

	id, err := NewStripeClient(srv.URL, "sk_test", discard()).CreateCustomer(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cus_123", id)
}

func TestStripeClient_CreateCheckoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		f := r.PostForm
		assert.Equal(t, "payment", f.Get("mode"))
		assert.Equal(t, "cus_1", f.Get("customer"))
		assert.Equal(t, "1", f.Get("line_items[0][quantity]"))
		assert.Equal(t, "usd", f.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "1999", f.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "Go", f.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "c1", f.Get("metadata[courseId]"))
		assert.Equal(t, "u1", f.Get("metadata[userId]"))
		assert.Equal(t, "http://app/courses/c1?success=1", f.Get("success_url"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_1","url":"https://checkout.stripe.com/pay/cs_1"}`))
	}))
	defer srv.Close()

	url, err := NewStripeClient(srv.URL, "sk_test", discard()).CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		CustomerID: "cus_1",
		LineItems:  []LineItem{{Name: "Go", Currency: "usd", UnitAmount: 1999, Quantity: 1}},
		SuccessURL: "http://app/courses/c1?success=1",
		CancelURL:  "http://app/courses/c1?canceled=1",
		Metadata:   map[string]string{"courseId": "c1", "userId": "u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_1", url)
}

func TestStripeClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","message":"declined"}}`))
	}))
	defer srv.Close()

	_, err := NewStripeClient(srv.URL, "sk_test", discard()).CreateCustomer(context.Background(), "a@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declined")
}

func signed(secret string, body []byte, at time.Time) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   body,
		Secret:    secret,
		Timestamp: at,
	}).Header
}

func TestWebhookVerifier(t *testing.T) {
	const secret = "whsec_test"
	body := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_1","metadata":{"courseId":"c1","userId":"u1"}}}}`)
	v := NewWebhookVerifier(secret)
	now := time.Now()

	event, err := v.Verify(body, signed(secret, body, now))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_1", event.Object.ID)
	assert.Equal(t, "c1", event.Object.Metadata["courseId"])

	_, err = v.Verify(body, "")
	assert.ErrorIs(t, err, ErrMissingSignature)

	_, err = v.Verify(body, signed("other", body, now))
	assert.ErrorIs(t, err, webhook.ErrNoValidSignature)

	_, err = v.Verify([]byte(`{"tampered":true}`), signed(secret, body, now))
	assert.ErrorIs(t, err, webhook.ErrNoValidSignature)

	_, err = v.Verify(body, signed(secret, body, now.Add(-time.Hour)))
	assert.ErrorIs(t, err, webhook.ErrTooOld)

	_, err = v.Verify(body, "garbage")
	assert.Error(t, err)
}

func TestWebhookVerifier_EventWithoutObject(t *testing.T) {
	const secret = "whsec_test"
	body := []byte(`{"id":"evt_2","object":"event","type":"customer.created"}`)

	event, err := NewWebhookVerifier(secret).Verify(body, signed(secret, body, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "customer.created", event.Type)
	assert.Empty(t, event.Object.Metadata)
}
