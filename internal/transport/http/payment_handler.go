package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/waste3d/coursehub/internal/application/usecase"
	"github.com/waste3d/coursehub/internal/middleware"
)

const maxWebhookBody = 1 << 16

type PaymentHandler struct {
	responder
	checkout *usecase.CheckoutUseCase
	webhook  *usecase.WebhookUseCase
}

func NewPaymentHandler(checkout *usecase.CheckoutUseCase, webhook *usecase.WebhookUseCase, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{responder: responder{logger: logger}, checkout: checkout, webhook: webhook}
}

// POST /api/v1/courses/:courseId/checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	res, err := h.checkout.Checkout(c, middleware.Identity(c), c.Param("courseId"))
	if err != nil {
		h.fail(c, "COURSE_ID_CHECKOUT", err)
		return
	}
	if res.AlreadyPurchased {
		h.success(c, http.StatusOK, "Already purchased", "")
		return
	}
	c.JSON(http.StatusOK, Result{URL: res.URL})
}

// POST /api/webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	err = h.webhook.HandleEvent(c, body, c.GetHeader("Stripe-Signature"))
	switch {
	case err == nil:
		c.Status(http.StatusOK)
	case errors.Is(err, usecase.ErrWebhookMetadata):
		c.String(http.StatusBadRequest, "Webhook Error: Missing metadata")
	case errors.Is(err, usecase.ErrWebhookSignature):
		h.logger.Warn("webhook rejected", "error", err)
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
	default:
		h.logger.Error("WEBHOOK", "error", err)
		c.String(http.StatusInternalServerError, msgInternal)
	}
}
