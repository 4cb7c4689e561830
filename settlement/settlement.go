package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sunnypayments/core/payment"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

var ErrMissingDestination = errors.New("destination account is required")

type Request struct {
	// Transaction the settlement correlates to
	TransactionID string `json:"transaction_id"`
	// Amount to move before settlement fees
	Amount decimal.Decimal `json:"amount"`
	// Currency of the settlement
	Currency string `json:"currency"`
	// Merchant receiving the funds
	MerchantID string `json:"merchant_id"`
	// Rail the original charge went through
	Method payment.Method `json:"payment_method"`
	// Account receiving the funds
	DestinationAccount string `json:"destination_account"`
}

// Result tracks a settlement independently of the charge that triggered
// it: a failed settlement never invalidates a completed charge.
type Result struct {
	SettlementID       string          `json:"settlement_id"`
	TransactionID      string          `json:"transaction_id"`
	DestinationAccount string          `json:"destination_account"`
	SettledAmount      decimal.Decimal `json:"settled_amount"`
	Fee                decimal.Decimal `json:"fee"`
	Currency           string          `json:"currency"`
	Status             Status          `json:"status"`
	SettledAt          time.Time       `json:"settled_at"`
}

// Service moves funds to a destination account after a successful charge.
type Service interface {
	Settle(ctx context.Context, req Request) (Result, error)
}

// Seconds until funds arrive, per rail.
var settlementSpeeds = map[payment.Method]time.Duration{
	payment.MethodCard:         60 * time.Second,
	payment.MethodBankTransfer: 30 * time.Second,
	payment.MethodMobileMoney:  15 * time.Second,
	payment.MethodCrypto:       5 * time.Second,
	payment.MethodUPI:          10 * time.Second,
	payment.MethodWallet:       30 * time.Second,
}

const defaultSpeed = 60 * time.Second

// Instant settlement fee percentage per rail.
var feePercentages = map[payment.Method]decimal.Decimal{
	payment.MethodBankTransfer: decimal.RequireFromString("0.5"),
	payment.MethodCrypto:       decimal.RequireFromString("0.25"),
	payment.MethodMobileMoney:  decimal.RequireFromString("0.75"),
}

var defaultFeePercentage = decimal.RequireFromString("1.0")

var hundred = decimal.NewFromInt(100)

type Config struct {
	// Scales the per-rail settlement speed into an artificial processing
	// delay. Zero disables the delay entirely.
	LatencyScale time.Duration
	// Optional logger. Nil means no logging.
	Logger *zap.Logger
}

// Instant settles funds immediately after a charge, discounting the
// instant settlement fee.
type Instant struct {
	latencyScale time.Duration
	logger       *zap.Logger
}

func NewInstant(config Config) (s *Instant) {
	s = &Instant{latencyScale: config.LatencyScale, logger: config.Logger}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *Instant) Settle(ctx context.Context, req Request) (result Result, err error) {
	if req.TransactionID == "" || req.MerchantID == "" {
		return result, errors.New("transaction id and merchant id are required")
	}
	if !req.Amount.IsPositive() {
		return result, fmt.Errorf("settlement amount must be positive, got %s", req.Amount)
	}
	if req.DestinationAccount == "" {
		return result, ErrMissingDestination
	}

	if s.latencyScale > 0 {
		speed := settlementSpeeds[req.Method]
		if speed == 0 {
			speed = defaultSpeed
		}
		delay := time.Duration(float64(s.latencyScale) * float64(speed) / float64(defaultSpeed))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return result, ctx.Err()
		}
	}

	percentage, ok := feePercentages[req.Method]
	if !ok {
		percentage = defaultFeePercentage
	}
	fee := req.Amount.Mul(percentage).Div(hundred).Round(2)

	result = Result{
		SettlementID:       uuid.NewString(),
		TransactionID:      req.TransactionID,
		DestinationAccount: req.DestinationAccount,
		SettledAmount:      req.Amount.Sub(fee),
		Fee:                fee,
		Currency:           req.Currency,
		Status:             StatusCompleted,
		SettledAt:          time.Now().UTC(),
	}

	s.logger.Info("instant settlement complete",
		zap.String("transaction_id", req.TransactionID),
		zap.String("settlement_id", result.SettlementID),
		zap.String("settled_amount", result.SettledAmount.String()),
	)
	return result, nil
}
