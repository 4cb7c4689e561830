package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sunnypayments/core/fees"
	"github.com/sunnypayments/core/payment"
)

// Entry is one append-only lifecycle record for a transaction. Entries are
// write-once: a new state means a new entry, consumers reconstruct the
// history by transaction id.
type Entry struct {
	// Transaction this entry belongs to
	TransactionID string `json:"transaction_id"`
	// Merchant that initiated the attempt
	MerchantID string `json:"merchant_id"`
	// Amount of the underlying payment
	Amount decimal.Decimal `json:"amount"`
	// Currency of the underlying payment
	Currency string `json:"currency"`
	// Payment rail used
	Method payment.Method `json:"payment_method"`
	// Status recorded by this entry
	Status payment.Status `json:"status"`
	// Error code, empty on success
	ErrorCode payment.ErrorCode `json:"error_code,omitzero"`
	// Fee breakdown, present once fees were computed
	Fees *fees.Details `json:"fees,omitempty"`
	// Structured metadata including the processor echo
	Metadata map[string]any `json:"metadata,omitempty"`
	// Position of this entry within the transaction history
	Sequence uint64 `json:"sequence"`
	// When the entry was recorded
	RecordedAt time.Time `json:"recorded_at"`
}

func (e *Entry) Bytes() (bytes []byte) {
	bytes, _ = json.Marshal(e)
	return bytes
}

func (e *Entry) FromBytes(b []byte) (err error) {
	return json.Unmarshal(b, e)
}

// Logger persists transaction lifecycle entries.
type Logger interface {
	Append(ctx context.Context, entry Entry) (err error)
}

// Tee fans every entry out to all loggers. The first failure is returned
// but later loggers still receive the entry.
func Tee(loggers ...Logger) Logger {
	return tee(loggers)
}

type tee []Logger

func (t tee) Append(ctx context.Context, entry Entry) (err error) {
	for _, l := range t {
		appendErr := l.Append(ctx, entry)
		if appendErr != nil && err == nil {
			err = appendErr
		}
	}
	return err
}
