package billing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// LineItem is one priced product in a checkout session. UnitAmount is in
// the currency's minor unit.
type LineItem struct {
	Name        string
	Description string
	Currency    string
	UnitAmount  int64
	Quantity    int64
}

type CheckoutSessionParams struct {
	CustomerID string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// StripeClient talks to the Stripe REST API with form-encoded requests.
type StripeClient struct {
	client *resty.Client
	logger *slog.Logger
}

func NewStripeClient(baseURL, secretKey string, logger *slog.Logger) *StripeClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(secretKey, "").
		SetTimeout(15 * time.Second).
		SetHeader("Accept", "application/json")
	return &StripeClient{client: client, logger: logger}
}

func (s *StripeClient) CreateCustomer(ctx context.Context, email string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	var apiErr apiError
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"email": email}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/customers")
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	if resp.IsError() {
		s.logger.Error("stripe create customer failed", "status", resp.StatusCode(), "type", apiErr.Error.Type)
		return "", fmt.Errorf("stripe create customer: status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}
	if out.ID == "" {
		return "", fmt.Errorf("stripe create customer: empty id")
	}
	return out.ID, nil
}

// CreateCheckoutSession opens a one-off payment session and returns its url.
func (s *StripeClient) CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (string, error) {
	form := map[string]string{
		"mode":        "payment",
		"customer":    p.CustomerID,
		"success_url": p.SuccessURL,
		"cancel_url":  p.CancelURL,
	}
	for i, item := range p.LineItems {
		prefix := "line_items[" + strconv.Itoa(i) + "]"
		form[prefix+"[quantity]"] = strconv.FormatInt(item.Quantity, 10)
		form[prefix+"[price_data][currency]"] = item.Currency
		form[prefix+"[price_data][unit_amount]"] = strconv.FormatInt(item.UnitAmount, 10)
		form[prefix+"[price_data][product_data][name]"] = item.Name
		if item.Description != "" {
			form[prefix+"[price_data][product_data][description]"] = item.Description
		}
	}
	for k, v := range p.Metadata {
		form["metadata["+k+"]"] = v
	}

	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	var apiErr apiError
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/checkout/sessions")
	if err != nil {
		return "", fmt.Errorf("stripe create session: %w", err)
	}
	if resp.IsError() {
		s.logger.Error("stripe create session failed", "status", resp.StatusCode(), "type", apiErr.Error.Type)
		return "", fmt.Errorf("stripe create session: status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}
	if out.URL == "" {
		return "", fmt.Errorf("stripe create session %s: empty url", out.ID)
	}
	return out.URL, nil
}
