package router

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sunnypayments/core/fees"
	"github.com/sunnypayments/core/gateway"
	"github.com/sunnypayments/core/ledger"
	"github.com/sunnypayments/core/payment"
)

type (
	HistoryEntry struct {
		// Status recorded by this entry
		Status payment.Status `json:"status"`
		// Error code, empty on success
		ErrorCode payment.ErrorCode `json:"error_code,omitzero"`
		// Fee breakdown, present once fees were computed
		Fees *fees.Details `json:"fees,omitempty"`
		// Structured entry metadata
		Metadata map[string]any `json:"metadata,omitempty"`
		// Position within the transaction history
		Sequence uint64 `json:"sequence"`
		// When the entry was recorded
		RecordedAt time.Time `json:"recorded_at"`
	}
	History struct {
		// Identifier of the transaction
		TransactionID string `json:"transaction_id"`
		// Amount of the underlying payment
		Amount decimal.Decimal `json:"amount"`
		// Currency of the underlying payment
		Currency string `json:"currency"`
		// Payment rail used
		Method payment.Method `json:"payment_method"`
		// Latest recorded status
		Status payment.Status `json:"status"`
		// Full lifecycle in append order
		Entries []HistoryEntry `json:"entries"`
	}
)

// Convert ledger entries into the transaction history response, lifting
// the per-payment constants out of the individual entries.
func HistoryFromEntries(entries []ledger.Entry) (history History) {
	head := entries[0]
	history = History{
		TransactionID: head.TransactionID,
		Amount:        head.Amount,
		Currency:      head.Currency,
		Method:        head.Method,
		Status:        entries[len(entries)-1].Status,
	}
	for _, entry := range entries {
		history.Entries = append(history.Entries, HistoryEntry{
			Status:     entry.Status,
			ErrorCode:  entry.ErrorCode,
			Fees:       entry.Fees,
			Metadata:   entry.Metadata,
			Sequence:   entry.Sequence,
			RecordedAt: entry.RecordedAt,
		})
	}
	return history
}

func statusForResult(result *gateway.PaymentResult) (status int) {
	if result.Success {
		return http.StatusCreated
	}
	switch result.Err {
	case payment.ErrValidation, payment.ErrUnsupportedMethod:
		return http.StatusBadRequest
	case payment.ErrFraudDetected:
		return http.StatusForbidden
	case payment.ErrSystem:
		return http.StatusInternalServerError
	default:
		return http.StatusPaymentRequired
	}
}

func statusForSubscription(result *gateway.SubscriptionResult) (status int) {
	if result.Success {
		return http.StatusCreated
	}
	switch result.Err {
	case payment.ErrValidation, payment.ErrUnsupportedMethod:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
