package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sunnypayments/core/client"
	"github.com/sunnypayments/core/payment"
	"github.com/sunnypayments/core/security"
)

type recordingServer struct {
	mu         sync.Mutex
	statuses   []int
	requestIDs []string
	paths      []string
	bodies     []map[string]any
	server     *httptest.Server
}

// newServer answers with the given statuses in order, repeating the last
// one when exhausted.
func newServer(t *testing.T, statuses ...int) *recordingServer {
	t.Helper()

	rs := &recordingServer{statuses: statuses}
	rs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.requestIDs = append(rs.requestIDs, r.Header.Get("X-Request-ID"))
		rs.paths = append(rs.paths, r.URL.RequestURI())

		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		rs.bodies = append(rs.bodies, body)

		index := len(rs.requestIDs) - 1
		if index >= len(rs.statuses) {
			index = len(rs.statuses) - 1
		}
		status := rs.statuses[index]
		rs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status < 300 {
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "pay_123", "status": "completed"})
		} else {
			_ = json.NewEncoder(w).Encode(map[string]any{"message": http.StatusText(status)})
		}
	}))
	t.Cleanup(rs.server.Close)
	return rs
}

func (rs *recordingServer) attempts() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.requestIDs)
}

func newClient(t *testing.T, baseURL string) *client.Client {
	t.Helper()

	c, err := client.New(client.Config{
		MerchantID:    "merchant-1",
		APIKey:        "sk_test_123",
		APISecret:     "webhook-secret",
		BaseURL:       baseURL,
		RetryAttempts: 3,
		BaseDelay:     time.Millisecond,
	})
	assert.Nil(t, err, "failed to build client")
	return c
}

func Test_RetryUntilSuccess(t *testing.T) {
	assertions := assert.New(t)

	server := newServer(t, 500, 500, 200)
	c := newClient(t, server.server.URL)

	response, err := c.ProcessPayment(context.Background(), map[string]any{
		"amount":   "100.00",
		"currency": "USD",
	})

	assertions.Nil(err)
	assertions.True(response.Success)
	assertions.Equal(3, server.attempts(), "two retries then success")
	assertions.Equal("pay_123", response.Data["id"])

	// all attempts of one call share the request id
	assertions.Equal(server.requestIDs[0], server.requestIDs[1])
	assertions.Equal(server.requestIDs[0], server.requestIDs[2])
	assertions.Equal(server.requestIDs[0], response.RequestID)
}

func Test_ClientErrorsAreNotRetried(t *testing.T) {
	assertions := assert.New(t)

	server := newServer(t, 400)
	c := newClient(t, server.server.URL)

	response, err := c.ProcessPayment(context.Background(), map[string]any{"amount": "x"})

	assertions.Nil(err)
	assertions.False(response.Success)
	assertions.Equal(payment.ErrAPI, response.Err)
	assertions.Equal(1, server.attempts(), "4xx responses are final")
}

func Test_RateLimitIsRetried(t *testing.T) {
	assertions := assert.New(t)

	server := newServer(t, 429, 200)
	c := newClient(t, server.server.URL)

	response, err := c.GetPayment(context.Background(), "pay_123")

	assertions.Nil(err)
	assertions.True(response.Success)
	assertions.Equal(2, server.attempts())
}

func Test_NetworkErrorsAreNormalized(t *testing.T) {
	assertions := assert.New(t)

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := newClient(t, url)
	response, err := c.GetPayment(context.Background(), "pay_123")

	assertions.Nil(err, "transport failures never surface as errors")
	assertions.False(response.Success)
	assertions.Equal(payment.ErrNetwork, response.Err)
	assertions.NotEmpty(response.RequestID)
}

func Test_RetryBudgetExhausted(t *testing.T) {
	assertions := assert.New(t)

	server := newServer(t, 500)
	c := newClient(t, server.server.URL)

	response, err := c.ProcessPayment(context.Background(), map[string]any{"amount": "1"})

	assertions.Nil(err)
	assertions.False(response.Success)
	assertions.Equal(payment.ErrAPI, response.Err)
	assertions.Equal(3, server.attempts(), "attempts are bounded by the retry budget")
}

func Test_RequestHeaders(t *testing.T) {
	assertions := assert.New(t)

	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	c := newClient(t, server.URL)
	_, err := c.GetPaymentMethods(context.Background(), "KE")

	assertions.Nil(err)
	assertions.Equal("Bearer sk_test_123", headers.Get("Authorization"))
	assertions.Equal("merchant-1", headers.Get("X-Merchant-ID"))
	assertions.Equal("application/json", headers.Get("Content-Type"))
	assertions.NotEmpty(headers.Get("X-Request-Timestamp"))
	assertions.Contains(headers.Get("X-Request-ID"), "req_")
}

func Test_Paths(t *testing.T) {
	assertions := assert.New(t)

	server := newServer(t, 200)
	c := newClient(t, server.server.URL)
	ctx := context.Background()

	_, _ = c.GetPayment(ctx, "pay_1")
	_, _ = c.RefundPayment(ctx, "pay_1", map[string]any{"amount": "5.00"})
	_, _ = c.UpdateCustomer(ctx, "cus_1", map[string]any{"name": "Jo"})
	_, _ = c.CancelSubscription(ctx, "sub_1")
	_, _ = c.GetPaymentMethods(ctx, "IN")
	_, _ = c.GetAnalytics(ctx, map[string]string{"currency": "USD"})

	assertions.Equal([]string{
		"/payments/pay_1",
		"/payments/pay_1/refund",
		"/customers/cus_1",
		"/subscriptions/sub_1",
		"/payment-methods?country=IN",
		"/analytics?currency=USD",
	}, server.paths)
}

func Test_SensitiveFieldsMaskedInTransit(t *testing.T) {
	assertions := assert.New(t)

	server := newServer(t, 200)
	c := newClient(t, server.server.URL)

	_, err := c.ProcessPayment(context.Background(), map[string]any{
		"amount":     "100.00",
		"cardNumber": "4242424242424242",
		"cvv":        "123",
		"customer": map[string]any{
			"accountNumber": "GB0012345678",
			"email":         "jo@example.com",
		},
	})
	assertions.Nil(err)

	// the wire body carries masked values only
	body := server.bodies[0]
	assertions.Equal("100.00", body["amount"])
	assertions.Equal("**** **** **** 4242", body["cardNumber"])
	assertions.Equal("[REDACTED]", body["cvv"])

	nested := body["customer"].(map[string]any)
	assertions.Equal("jo@example.com", nested["email"])
	assertions.NotEqual("GB0012345678", nested["accountNumber"])
	assertions.NotContains(nested["accountNumber"], "12345678")
}

func Test_VerifyWebhookSignature(t *testing.T) {
	assertions := assert.New(t)

	c := newClient(t, "http://unused")

	signer, err := security.New("webhook-secret")
	assertions.Nil(err)

	body := []byte(`{"event":"payment.completed","id":"pay_123"}`)
	assertions.True(c.VerifyWebhookSignature(body, signer.Hash(body)))
	assertions.False(c.VerifyWebhookSignature(body, "deadbeef"))
}
