package usecase

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/waste3d/coursehub/internal/domain"
)

func completedEvent(userID, courseID string) []byte {
	return []byte(fmt.Sprintf(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","metadata":{"courseId":%q,"userId":%q}}}}`, courseID, userID))
}

func sign(body []byte) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   body,
		Secret:    webhookSecret,
		Timestamp: time.Now(),
	}).Header
}

func TestCheckout_SessionThenAlreadyPurchased(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner@example.com")
	buyer := e.user(t, "buyer@example.com")
	courseID, _ := e.publishedCourse(t, owner, "one")

	res, err := e.checkout.Checkout(e.ctx, buyer, courseID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyPurchased)
	assert.Equal(t, "https://checkout.test/s/1", res.URL)

	session := e.billing.sessions[0]
	assert.Equal(t, "cus_1", session.CustomerID)
	require.Len(t, session.LineItems, 1)
	assert.Equal(t, int64(1999), session.LineItems[0].UnitAmount)
	assert.Equal(t, int64(1), session.LineItems[0].Quantity)
	assert.Equal(t, "usd", session.LineItems[0].Currency)
	assert.Equal(t, map[string]string{"courseId": courseID, "userId": buyer.ID}, session.Metadata)
	assert.Equal(t, "http://app.test/courses/"+courseID+"?success=1", session.SuccessURL)
	assert.Equal(t, "http://app.test/courses/"+courseID+"?canceled=1", session.CancelURL)

	assert.Zero(t, e.count(t, &domain.Purchase{}), "checkout alone never grants access")

	body := completedEvent(buyer.ID, courseID)
	require.NoError(t, e.webhook.HandleEvent(e.ctx, body, sign(body)))

	res, err = e.checkout.Checkout(e.ctx, buyer, courseID)
	require.NoError(t, err)
	assert.True(t, res.AlreadyPurchased)

	customers, sessions := e.billing.counts()
	assert.Equal(t, 1, customers)
	assert.Equal(t, 1, sessions)
}

func TestCheckout_ReusesCustomer(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner@example.com")
	buyer := e.user(t, "buyer@example.com")
	first, _ := e.publishedCourse(t, owner, "one")
	second, _ := e.publishedCourse(t, owner, "two")

	_, err := e.checkout.Checkout(e.ctx, buyer, first)
	require.NoError(t, err)
	_, err = e.checkout.Checkout(e.ctx, buyer, second)
	require.NoError(t, err)

	customers, sessions := e.billing.counts()
	assert.Equal(t, 1, customers)
	assert.Equal(t, 2, sessions)
	assert.Equal(t, int64(1), e.count(t, &domain.StripeCustomer{}))
}

func TestCheckout_ConcurrentFirstPurchase(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner@example.com")
	buyer := e.user(t, "buyer@example.com")
	courseID, _ := e.publishedCourse(t, owner, "one")

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.checkout.Checkout(e.ctx, buyer, courseID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int64(1), e.count(t, &domain.StripeCustomer{}))
	customers, _ := e.billing.counts()
	assert.Equal(t, 1, customers)
}

func TestCheckout_Errors(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner@example.com")
	buyer := e.user(t, "buyer@example.com")
	draft, err := e.courses.CreateCourse(e.ctx, owner, CreateCourseInput{Title: "Draft"})
	require.NoError(t, err)

	_, err = e.checkout.Checkout(e.ctx, nil, draft)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = e.checkout.Checkout(e.ctx, &domain.Identity{ID: "ghost"}, draft)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = e.checkout.Checkout(e.ctx, buyer, draft)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.checkout.Checkout(e.ctx, buyer, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	customers, sessions := e.billing.counts()
	assert.Zero(t, customers)
	assert.Zero(t, sessions)
}

func TestWebhook(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner@example.com")
	buyer := e.user(t, "buyer@example.com")
	courseID, _ := e.publishedCourse(t, owner, "one")

	body := completedEvent(buyer.ID, courseID)

	err := e.webhook.HandleEvent(e.ctx, body, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrWebhookSignature)

	noMeta := []byte(`{"id":"evt_2","type":"checkout.session.completed","data":{"object":{"id":"cs_2"}}}`)
	assert.ErrorIs(t, e.webhook.HandleEvent(e.ctx, noMeta, sign(noMeta)), ErrWebhookMetadata)

	other := []byte(`{"id":"evt_3","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)
	assert.NoError(t, e.webhook.HandleEvent(e.ctx, other, sign(other)))

	require.NoError(t, e.webhook.HandleEvent(e.ctx, body, sign(body)))
	require.NoError(t, e.webhook.HandleEvent(e.ctx, body, sign(body)))
	assert.Equal(t, int64(1), e.count(t, &domain.Purchase{}))
}

func TestWebhook_DeletedCourseAcknowledged(t *testing.T) {
	e := newEnv(t)
	buyer := e.user(t, "buyer@example.com")

	body := completedEvent(buyer.ID, "deleted-course")
	assert.NoError(t, e.webhook.HandleEvent(e.ctx, body, sign(body)))
	assert.Zero(t, e.count(t, &domain.Purchase{}))
}
