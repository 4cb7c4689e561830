package fraud

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultThreshold     = 0.75
	DefaultVelocityLimit = 10
)

var defaultHighAmount = decimal.NewFromInt(10000)

// Countries with elevated chargeback/fraud pressure in the processing
// history. Membership raises the score, it never blocks on its own.
var highRiskCountries = map[string]struct{}{
	"XX": {},
	"T1": {},
}

var disposableEmailDomains = map[string]struct{}{
	"mailinator.com":    {},
	"guerrillamail.com": {},
	"10minutemail.com":  {},
}

type EngineConfig struct {
	// Score at or above which a request is fraudulent. Zero means
	// DefaultThreshold.
	Threshold float64
	// Amount that starts contributing risk. Zero value means the default.
	HighAmount decimal.Decimal
	// Requests per velocity window before the velocity rule trips. Zero
	// means DefaultVelocityLimit.
	VelocityLimit int64
	// Optional request velocity tracking. Nil disables the rule.
	Velocity VelocityStore
	// Optional logger for rule evaluation. Nil means no logging.
	Logger *zap.Logger
}

// Engine is a weighted heuristic rule detector. Stateless across requests
// except for the injected velocity store.
type Engine struct {
	threshold     float64
	highAmount    decimal.Decimal
	velocityLimit int64
	velocity      VelocityStore
	logger        *zap.Logger
}

func NewEngine(config EngineConfig) (e *Engine) {
	e = &Engine{
		threshold:     config.Threshold,
		highAmount:    config.HighAmount,
		velocityLimit: config.VelocityLimit,
		velocity:      config.Velocity,
		logger:        config.Logger,
	}
	if e.threshold <= 0 {
		e.threshold = DefaultThreshold
	}
	if e.highAmount.IsZero() {
		e.highAmount = defaultHighAmount
	}
	if e.velocityLimit <= 0 {
		e.velocityLimit = DefaultVelocityLimit
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

type factor struct {
	name   string
	weight float64
}

func (e *Engine) Detect(ctx context.Context, fc Context) (v Verdict, err error) {
	if fc.Request == nil {
		return v, fmt.Errorf("fraud context is missing the request")
	}

	var factors []factor
	factors = append(factors, e.amountFactors(fc)...)
	factors = append(factors, e.customerFactors(fc)...)
	factors = append(factors, e.velocityFactors(ctx, fc)...)

	for _, f := range factors {
		v.RiskScore += f.weight
		v.Factors = append(v.Factors, f.name)
	}
	if v.RiskScore > 1 {
		v.RiskScore = 1
	}

	v.IsFraudulent = v.RiskScore >= e.threshold
	if v.IsFraudulent && len(factors) > 0 {
		v.Reason = factors[0].name
	}

	e.logger.Debug("fraud screening complete",
		zap.String("transaction_id", fc.TransactionID),
		zap.Float64("risk_score", v.RiskScore),
		zap.Bool("is_fraudulent", v.IsFraudulent),
	)
	return v, nil
}

func (e *Engine) amountFactors(fc Context) (factors []factor) {
	amount := fc.Request.Amount
	if amount.GreaterThanOrEqual(e.highAmount) {
		factors = append(factors, factor{name: "amount_above_threshold", weight: 0.35})
	}
	if amount.GreaterThanOrEqual(e.highAmount.Mul(decimal.NewFromInt(10))) {
		factors = append(factors, factor{name: "amount_extreme", weight: 0.30})
	}
	return factors
}

func (e *Engine) customerFactors(fc Context) (factors []factor) {
	customer := fc.Request.Customer
	if customer == nil {
		return append(factors, factor{name: "missing_customer_profile", weight: 0.10})
	}

	if _, ok := highRiskCountries[customer.Country]; ok {
		factors = append(factors, factor{name: "high_risk_country", weight: 0.20})
	}

	if customer.Email != "" {
		_, domain, found := strings.Cut(customer.Email, "@")
		if !found {
			factors = append(factors, factor{name: "malformed_email", weight: 0.15})
		} else if _, ok := disposableEmailDomains[strings.ToLower(domain)]; ok {
			factors = append(factors, factor{name: "disposable_email_domain", weight: 0.25})
		}
	}
	return factors
}

func (e *Engine) velocityFactors(ctx context.Context, fc Context) (factors []factor) {
	if e.velocity == nil {
		return nil
	}

	key := fc.MerchantID
	if fc.Request.Customer != nil && fc.Request.Customer.Email != "" {
		key = fc.Request.Customer.Email
	}

	count, err := e.velocity.Incr(ctx, key)
	if err != nil {
		// Velocity is advisory: a store outage must not fail the screening.
		e.logger.Warn("velocity store unavailable", zap.Error(err))
		return nil
	}

	if count > e.velocityLimit {
		factors = append(factors, factor{name: "velocity_exceeded", weight: 0.40})
	}
	return factors
}
