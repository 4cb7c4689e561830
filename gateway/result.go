package gateway

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sunnypayments/core/fees"
	"github.com/sunnypayments/core/payment"
	"github.com/sunnypayments/core/settlement"
)

// PaymentResult is the uniform outcome of one payment attempt. Every
// pipeline exit produces one; failures are carried in Err and Message,
// never as a returned error.
type PaymentResult struct {
	Success       bool            `json:"success"`
	TransactionID string          `json:"transaction_id,omitzero"`
	Status        payment.Status  `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitzero"`
	Method        payment.Method  `json:"payment_method,omitzero"`
	// Fee breakdown, present once the pipeline reached fee computation
	Fees *fees.Details `json:"fees,omitempty"`
	// Instant settlement outcome, present when settlement was attempted.
	// A failed settlement leaves the charge completed.
	Settlement *settlement.Result `json:"settlement,omitempty"`
	// Marketplace split transfer outcomes
	Splits []payment.SplitOutcome `json:"splits,omitempty"`

	Err               payment.ErrorCode `json:"error_code,omitzero"`
	Message           string            `json:"message,omitzero"`
	ProcessorResponse map[string]any    `json:"processor_response,omitempty"`
}

type SubscriptionRequest struct {
	CustomerID string          `json:"customer_id"`
	PlanID     string          `json:"plan_id"`
	Method     payment.Method  `json:"payment_method"`
	Amount     decimal.Decimal `json:"amount,omitzero"`
	Currency   string          `json:"currency,omitzero"`
	StartDate  time.Time       `json:"start_date,omitzero"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
}

type SubscriptionResult struct {
	Success         bool              `json:"success"`
	SubscriptionID  string            `json:"subscription_id,omitzero"`
	CustomerID      string            `json:"customer_id,omitzero"`
	PlanID          string            `json:"plan_id,omitzero"`
	Status          string            `json:"status,omitzero"`
	StartDate       time.Time         `json:"start_date,omitzero"`
	NextBillingDate time.Time         `json:"next_billing_date,omitzero"`
	Err             payment.ErrorCode `json:"error_code,omitzero"`
	Message         string            `json:"message,omitzero"`
}
