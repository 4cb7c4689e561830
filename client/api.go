package client

import (
	"context"
	"net/http"
	"net/url"
)

// ProcessPayment submits a payment for processing.
func (c *Client) ProcessPayment(ctx context.Context, payload map[string]any) (Response, error) {
	return c.do(ctx, http.MethodPost, "/payments", payload)
}

// GetPayment fetches a payment by transaction id.
func (c *Client) GetPayment(ctx context.Context, transactionID string) (Response, error) {
	return c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(transactionID), nil)
}

// RefundPayment refunds a payment, fully when payload carries no amount.
func (c *Client) RefundPayment(ctx context.Context, transactionID string, payload map[string]any) (Response, error) {
	return c.do(ctx, http.MethodPost, "/payments/"+url.PathEscape(transactionID)+"/refund", payload)
}

func (c *Client) CreateCustomer(ctx context.Context, payload map[string]any) (Response, error) {
	return c.do(ctx, http.MethodPost, "/customers", payload)
}

func (c *Client) GetCustomer(ctx context.Context, customerID string) (Response, error) {
	return c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(customerID), nil)
}

func (c *Client) UpdateCustomer(ctx context.Context, customerID string, payload map[string]any) (Response, error) {
	return c.do(ctx, http.MethodPut, "/customers/"+url.PathEscape(customerID), payload)
}

func (c *Client) CreateSubscription(ctx context.Context, payload map[string]any) (Response, error) {
	return c.do(ctx, http.MethodPost, "/subscriptions", payload)
}

func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (Response, error) {
	return c.do(ctx, http.MethodGet, "/subscriptions/"+url.PathEscape(subscriptionID), nil)
}

func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) (Response, error) {
	return c.do(ctx, http.MethodDelete, "/subscriptions/"+url.PathEscape(subscriptionID), nil)
}

// GetAnalytics fetches aggregate payment analytics. Params map directly to
// query parameters (start_date, end_date, currency, ...).
func (c *Client) GetAnalytics(ctx context.Context, params map[string]string) (Response, error) {
	query := url.Values{}
	for key, value := range params {
		query.Set(key, value)
	}
	path := "/analytics"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil)
}

// GetPaymentMethods lists the methods available in a country.
func (c *Client) GetPaymentMethods(ctx context.Context, countryCode string) (Response, error) {
	query := url.Values{"country": {countryCode}}
	return c.do(ctx, http.MethodGet, "/payment-methods?"+query.Encode(), nil)
}

// VerifyWebhookSignature checks an incoming webhook body against its
// signature header using the configured API secret.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	return c.signer.VerifySignature(body, signature)
}
