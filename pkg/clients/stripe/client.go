package stripe

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cocopets/boarding/internal/config"
)

// Client exposes the Stripe operations used by the application.
type Client interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	successURL string
	cancelURL  string
}

// NewClient builds a Stripe API client using the provided configuration values.
func NewClient(cfg config.StripeConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.SecretKey)).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

// CheckoutSessionRequest describes one payment to collect.
type CheckoutSessionRequest struct {
	BookingReference string
	Description      string
	AmountCents      int64
	CustomerEmail    string
}

// CheckoutSession mirrors the fields of Stripe's session object we consume.
type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
}

// apiError represents a Stripe API error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// CreateCheckoutSession opens a hosted checkout page for the amount due.
func (c *APIClient) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
	form := map[string]string{
		"mode":           "payment",
		"success_url":    c.successURL,
		"cancel_url":     c.cancelURL,
		"customer_email": req.CustomerEmail,
	}
	form["line_items[0][price_data][currency]"] = "usd"
	form["line_items[0][price_data][unit_amount]"] = strconv.FormatInt(req.AmountCents, 10)
	form["line_items[0][price_data][product_data][name]"] = req.Description
	form["line_items[0][quantity]"] = "1"
	form["metadata[booking_reference]"] = req.BookingReference

	result := new(CheckoutSession)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(result).
		SetError(apiErr).
		Post("/v1/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := ""
		if apiErr != nil {
			message = apiErr.Error.Message
		}
		return nil, fmt.Errorf("stripe api error: status=%d, message=%s", resp.StatusCode(), message)
	}

	return result, nil
}
