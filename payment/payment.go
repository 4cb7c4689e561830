package payment

import (
	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodMobileMoney  Method = "mobile_money"
	MethodWallet       Method = "wallet"
	MethodCrypto       Method = "crypto"
	MethodUPI          Method = "upi"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRejected   Status = "rejected"
	StatusError      Status = "error"
)

type ErrorCode string

const (
	ErrValidation        ErrorCode = "VALIDATION_ERROR"
	ErrFraudDetected     ErrorCode = "FRAUD_DETECTED"
	ErrUnsupportedMethod ErrorCode = "UNSUPPORTED_PAYMENT_METHOD"
	ErrSubscription      ErrorCode = "SUBSCRIPTION_ERROR"
	ErrMarketplace       ErrorCode = "MARKETPLACE_ERROR"
	ErrSystem            ErrorCode = "SYSTEM_ERROR"
	ErrNetwork           ErrorCode = "NETWORK_ERROR"
	ErrAPI               ErrorCode = "API_ERROR"
	ErrUnknown           ErrorCode = "UNKNOWN_ERROR"
)

// MetadataDestinationAccount is the metadata key carrying the settlement
// destination for a single request. Merchants without a per-request
// destination fall back to the configured default account.
const MetadataDestinationAccount = "destination_account"

type (
	Customer struct {
		Name    string `json:"name,omitzero"`
		Email   string `json:"email,omitzero"`
		Country string `json:"country,omitzero"`
		Phone   string `json:"phone,omitzero"`
	}
	Card struct {
		Number      string `json:"number"`
		CVV         string `json:"cvv"`
		ExpiryMonth int    `json:"expiry_month"`
		ExpiryYear  int    `json:"expiry_year"`
		Holder      string `json:"holder,omitzero"`
	}
	SplitTarget struct {
		// Destination account receiving this share of the proceeds
		Destination string `json:"destination"`
		// Amount to transfer to the destination
		Amount decimal.Decimal `json:"amount"`
		// Currency of the transfer
		Currency string `json:"currency"`
	}
	Request struct {
		// Amount to charge, in major currency units
		Amount decimal.Decimal `json:"amount"`
		// ISO 4217 currency code
		Currency string `json:"currency"`
		// Payment rail to charge through
		Method Method `json:"payment_method"`
		// Customer behind the charge
		Customer *Customer `json:"customer,omitempty"`
		// Card details, required for card payments only
		Card *Card `json:"card,omitempty"`
		// Free-form transaction metadata
		Metadata map[string]any `json:"metadata,omitempty"`
		// Marketplace splits, fanned out after the primary charge
		Splits []SplitTarget `json:"splits,omitempty"`
		// Request instant settlement for this charge
		InstantSettlement bool `json:"instant_settlement,omitzero"`
	}
)

type SplitOutcome struct {
	Destination string          `json:"destination"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Status      Status          `json:"status"`
	TransferID  string          `json:"transfer_id,omitzero"`
	Error       string          `json:"error,omitzero"`
}

// DestinationAccount resolves the settlement destination for this request.
func (r *Request) DestinationAccount(fallback string) (account string) {
	if v, ok := r.Metadata[MetadataDestinationAccount].(string); ok && v != "" {
		return v
	}
	return fallback
}
