package gateway

import (
	"errors"

	"go.uber.org/zap"

	"github.com/sunnypayments/core/fees"
	"github.com/sunnypayments/core/fraud"
	"github.com/sunnypayments/core/ledger"
	"github.com/sunnypayments/core/metrics"
	"github.com/sunnypayments/core/processors"
	"github.com/sunnypayments/core/settlement"
)

const (
	DefaultCountry          = "US"
	DefaultSplitConcurrency = 16
)

// Gateway sequences the payment pipeline end to end: validation, fraud
// screening, fee computation, rail dispatch, instant settlement and the
// terminal ledger entry. One instance serves concurrent requests; all
// per-request state lives on the stack.
type Gateway struct {
	merchantID        string
	tier              fees.Tier
	defaultCountry    string
	instantSettlement bool
	settlementAccount string
	splitConcurrency  int

	registry *processors.Registry
	detector fraud.Detector
	settle   settlement.Service
	ledger   ledger.Logger
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

type Config struct {
	// Merchant the gateway processes for
	MerchantID string
	// Pricing tier used for fee computation
	MerchantTier fees.Tier
	// Country assumed when the customer profile carries none
	DefaultCountry string
	// Settle every successful charge instantly, even when the request
	// does not ask for it
	InstantSettlement bool
	// Default destination account for settlements
	SettlementAccount string
	// Upper bound on concurrent split transfers
	SplitConcurrency int

	// Processor registry to dispatch charges through
	Registry *processors.Registry
	// Fraud detector. Nil disables screening.
	Fraud fraud.Detector
	// Settlement service for instant settlement and split transfers.
	// Nil means the built-in instant service.
	Settlement settlement.Service
	// Transaction log. Required.
	Ledger ledger.Logger
	// Optional structured logger
	Logger *zap.Logger
	// Optional metrics
	Metrics *metrics.Metrics
}

func New(config Config) (g *Gateway, err error) {
	if config.MerchantID == "" {
		return nil, errors.New("merchant id is required")
	}
	if config.Registry == nil {
		return nil, errors.New("processor registry is required")
	}
	if config.Ledger == nil {
		return nil, errors.New("transaction ledger is required")
	}

	g = &Gateway{
		merchantID:        config.MerchantID,
		tier:              config.MerchantTier,
		defaultCountry:    config.DefaultCountry,
		instantSettlement: config.InstantSettlement,
		settlementAccount: config.SettlementAccount,
		splitConcurrency:  config.SplitConcurrency,
		registry:          config.Registry,
		detector:          config.Fraud,
		settle:            config.Settlement,
		ledger:            config.Ledger,
		logger:            config.Logger,
		metrics:           config.Metrics,
	}

	if g.tier == "" {
		g.tier = fees.TierStandard
	}
	if g.defaultCountry == "" {
		g.defaultCountry = DefaultCountry
	}
	if g.splitConcurrency <= 0 {
		g.splitConcurrency = DefaultSplitConcurrency
	}
	if g.detector == nil {
		g.detector = fraud.Disabled()
	}
	if g.settle == nil {
		g.settle = settlement.NewInstant(settlement.Config{Logger: config.Logger})
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	return g, nil
}
