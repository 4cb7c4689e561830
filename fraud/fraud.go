package fraud

import (
	"context"

	"github.com/sunnypayments/core/payment"
)

// Context carries everything the detector may inspect for one screening.
type Context struct {
	Request       *payment.Request
	TransactionID string
	MerchantID    string
}

// Verdict is the outcome of a fraud screening. Produced once per request;
// recording it is the caller's responsibility, the detector itself keeps
// no transaction state.
type Verdict struct {
	IsFraudulent bool `json:"is_fraudulent"`
	// Normalized risk in [0, 1]
	RiskScore float64 `json:"risk_score"`
	// Leading factor, empty when clean
	Reason string `json:"reason,omitzero"`
	// Every factor that contributed to the score
	Factors []string `json:"factors,omitempty"`
}

// Detector screens payment requests for risk.
type Detector interface {
	Detect(ctx context.Context, fc Context) (Verdict, error)
}

type disabled struct{}

func (disabled) Detect(context.Context, Context) (Verdict, error) {
	return Verdict{}, nil
}

// Disabled returns a detector that approves everything. Used when fraud
// screening is switched off so the pipeline keeps a single control flow.
func Disabled() Detector {
	return disabled{}
}
