package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sunnypayments/core/metrics"
	"github.com/sunnypayments/core/payment"
	"github.com/sunnypayments/core/random"
	"github.com/sunnypayments/core/security"
	"github.com/sunnypayments/core/utils"
)

const (
	DefaultBaseURL       = "https://api.sunnypayments.com/v2"
	DefaultTimeout       = 30 * time.Second
	DefaultRetryAttempts = 3
	DefaultBaseDelay     = time.Second
	DefaultMaxDelay      = 30 * time.Second

	userAgent = "sunnypayments-go/1.0"
)

type Config struct {
	// Merchant the client authenticates as
	MerchantID string
	// Bearer token for the API
	APIKey string
	// Shared secret used for webhook signature verification
	APISecret string
	// API endpoint, DefaultBaseURL when empty
	BaseURL string
	// Per-request timeout when no HTTPClient is supplied
	Timeout time.Duration
	// Total attempts per call, including the first one
	RetryAttempts int
	// Base for the exponential backoff between attempts
	BaseDelay time.Duration
	// Upper bound on a single backoff delay
	MaxDelay time.Duration
	// Optional underlying HTTP client
	HTTPClient *http.Client
	// Optional structured logger
	Logger *zap.Logger
	// Optional metrics
	Metrics *metrics.Metrics
}

// Client talks to the remote payment API. Transient failures (network
// errors, 5xx, 429) are retried with exponential backoff; every attempt of
// one call carries the same request id so the server can deduplicate.
type Client struct {
	merchantID string
	apiKey     string
	baseURL    string
	attempts   int
	baseDelay  time.Duration
	maxDelay   time.Duration

	http    *http.Client
	signer  *security.Service
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func New(config Config) (c *Client, err error) {
	if config.MerchantID == "" || config.APIKey == "" {
		return nil, errors.New("merchant id and api key are required")
	}
	signer, err := security.New(config.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to build signer: %w", err)
	}

	c = &Client{
		merchantID: config.MerchantID,
		apiKey:     config.APIKey,
		baseURL:    config.BaseURL,
		attempts:   config.RetryAttempts,
		baseDelay:  config.BaseDelay,
		maxDelay:   config.MaxDelay,
		http:       config.HTTPClient,
		signer:     signer,
		logger:     config.Logger,
		metrics:    config.Metrics,
	}

	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.attempts <= 0 {
		c.attempts = DefaultRetryAttempts
	}
	if c.baseDelay <= 0 {
		c.baseDelay = DefaultBaseDelay
	}
	if c.maxDelay <= 0 {
		c.maxDelay = DefaultMaxDelay
	}
	if c.http == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

// Response is the normalized outcome of one API call, whatever happened on
// the wire. Transport failures surface as NETWORK_ERROR, API rejections as
// the server's error code.
type Response struct {
	Success    bool              `json:"success"`
	StatusCode int               `json:"status_code,omitzero"`
	Data       map[string]any    `json:"data,omitempty"`
	Err        payment.ErrorCode `json:"error_code,omitzero"`
	Message    string            `json:"message,omitzero"`
	RequestID  string            `json:"request_id"`
}

// attemptState is immutable; each retry derives a new value instead of
// mutating shared state, so concurrent calls never interfere.
type attemptState struct {
	count     int
	requestID string
}

func (s attemptState) next() attemptState {
	return attemptState{count: s.count + 1, requestID: s.requestID}
}

func (c *Client) do(ctx context.Context, httpMethod, path string, payload map[string]any) (response Response, err error) {
	// Sensitive fields never leave the process in plaintext: the body is
	// masked before it is encoded, not just in the logs.
	if payload != nil && security.ContainsSensitive(payload) {
		payload = security.MaskSensitive(payload)
	}

	var body []byte
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			return response, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	state := attemptState{
		count:     1,
		requestID: random.Reference(random.CryptoRand(), "req_", 16),
	}
	c.logRequest(httpMethod, path, payload, state)

	for {
		var retry bool
		response, retry, err = c.attempt(ctx, httpMethod, path, body, state)
		if err != nil {
			return response, err
		}
		if !retry || state.count >= c.attempts {
			return response, nil
		}

		if c.metrics != nil {
			c.metrics.ClientRetries.Inc()
		}
		delay := utils.Clamp(c.baseDelay<<state.count, c.baseDelay, c.maxDelay)
		c.logger.Debug("retrying request",
			zap.String("request_id", state.requestID),
			zap.Int("attempt", state.count),
			zap.Duration("delay", delay),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			response = Response{
				Err:       payment.ErrNetwork,
				Message:   ctx.Err().Error(),
				RequestID: state.requestID,
			}
			return response, nil
		}
		state = state.next()
	}
}

func (c *Client) attempt(ctx context.Context, httpMethod, path string, body []byte, state attemptState) (response Response, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, httpMethod, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return response, false, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Merchant-ID", c.merchantID)
	req.Header.Set("X-Request-ID", state.requestID)
	req.Header.Set("X-Request-Timestamp", strconv.FormatInt(time.Now().Unix(), 10))

	resp, err := c.http.Do(req)
	if err != nil {
		response = Response{
			Err:       payment.ErrNetwork,
			Message:   err.Error(),
			RequestID: state.requestID,
		}
		return response, true, nil
	}
	defer resp.Body.Close()

	var data map[string]any
	if decodeErr := json.NewDecoder(resp.Body).Decode(&data); decodeErr != nil {
		data = nil
	}

	response = Response{
		StatusCode: resp.StatusCode,
		RequestID:  state.requestID,
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		response.Success = true
		response.Data = data
		return response, false, nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		response.Err = payment.ErrAPI
		response.Message = apiMessage(data, resp.StatusCode)
		return response, true, nil
	default:
		response.Err = apiErrorCode(data)
		response.Message = apiMessage(data, resp.StatusCode)
		return response, false, nil
	}
}

func (c *Client) logRequest(httpMethod, path string, payload map[string]any, state attemptState) {
	c.logger.Debug("api request",
		zap.String("request_id", state.requestID),
		zap.String("method", httpMethod),
		zap.String("path", path),
		zap.Any("payload", payload),
	)
}

func apiErrorCode(data map[string]any) payment.ErrorCode {
	if code, ok := data["code"].(string); ok && code != "" {
		return payment.ErrorCode(code)
	}
	return payment.ErrAPI
}

func apiMessage(data map[string]any, statusCode int) (message string) {
	for _, key := range []string{"message", "error"} {
		if m, ok := data[key].(string); ok && m != "" {
			return m
		}
	}
	return http.StatusText(statusCode)
}
