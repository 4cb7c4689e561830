package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunnypayments/core/fees"
	"github.com/sunnypayments/core/fraud"
	"github.com/sunnypayments/core/ledger"
	"github.com/sunnypayments/core/payment"
	"github.com/sunnypayments/core/settlement"
)

// ProcessPayment runs one payment attempt through the full pipeline and
// always returns a result, never a panic across the boundary. Exactly one
// terminal ledger entry is recorded per attempt, whatever the exit path.
func (g *Gateway) ProcessPayment(ctx context.Context, req *payment.Request) (result PaymentResult) {
	transactionID := uuid.NewString()
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("payment pipeline panicked",
				zap.String("transaction_id", transactionID),
				zap.Any("panic", r),
			)
			result = PaymentResult{
				TransactionID: transactionID,
				Status:        payment.StatusError,
				Err:           payment.ErrSystem,
				Message:       "unexpected error while processing payment",
			}
			g.record(ctx, req, &result, nil)
		}
		g.observe(&result, started)
	}()

	result = PaymentResult{
		TransactionID: transactionID,
		Status:        payment.StatusPending,
	}
	if req != nil {
		result.Amount = req.Amount
		result.Currency = req.Currency
		result.Method = req.Method
	}

	if validation := payment.Validate(req); !validation.Valid() {
		result.Status = payment.StatusFailed
		result.Err = payment.ErrValidation
		result.Message = validation.Message()
		g.record(ctx, req, &result, nil)
		return result
	}

	verdict, err := g.detector.Detect(ctx, fraud.Context{
		Request:       req,
		TransactionID: transactionID,
		MerchantID:    g.merchantID,
	})
	if err != nil {
		g.logger.Error("fraud screening failed",
			zap.String("transaction_id", transactionID),
			zap.Error(err),
		)
		result.Status = payment.StatusError
		result.Err = payment.ErrSystem
		result.Message = "fraud screening unavailable"
		g.record(ctx, req, &result, nil)
		return result
	}
	if verdict.IsFraudulent {
		if g.metrics != nil {
			g.metrics.FraudRejections.Inc()
		}
		g.logger.Warn("payment rejected by fraud screening",
			zap.String("transaction_id", transactionID),
			zap.Float64("risk_score", verdict.RiskScore),
			zap.String("reason", verdict.Reason),
		)
		result.Status = payment.StatusRejected
		result.Err = payment.ErrFraudDetected
		result.Message = "transaction rejected by fraud screening"
		g.record(ctx, req, &result, map[string]any{
			"risk_score":   verdict.RiskScore,
			"fraud_reason": verdict.Reason,
			"risk_factors": verdict.Factors,
		})
		return result
	}

	details := fees.Calculate(req.Amount, req.Currency, req.Method, g.country(req), g.tier)
	result.Fees = &details

	processor, ok := g.registry.Get(req.Method)
	if !ok {
		result.Status = payment.StatusFailed
		result.Err = payment.ErrUnsupportedMethod
		result.Message = "unsupported payment method: " + string(req.Method)
		g.record(ctx, req, &result, nil)
		return result
	}

	processed, err := processor.Process(ctx, req, transactionID)
	if err != nil {
		g.logger.Error("processor failed",
			zap.String("transaction_id", transactionID),
			zap.String("payment_method", string(req.Method)),
			zap.Error(err),
		)
		result.Status = payment.StatusError
		result.Err = payment.ErrSystem
		result.Message = "unexpected error while processing payment"
		g.record(ctx, req, &result, nil)
		return result
	}

	result.Success = processed.Success
	result.Status = processed.Status
	result.Err = processed.Err
	result.Message = processed.Message
	result.ProcessorResponse = processed.ProcessorResponse

	if processed.Success && (req.InstantSettlement || g.instantSettlement) {
		result.Settlement = g.settleCharge(ctx, req, transactionID)
	}

	g.record(ctx, req, &result, nil)

	g.logger.Info("payment processed",
		zap.String("transaction_id", transactionID),
		zap.String("payment_method", string(req.Method)),
		zap.String("status", string(result.Status)),
		zap.Bool("success", result.Success),
	)
	return result
}

// settleCharge runs instant settlement for a completed charge. Settlement
// failure never unwinds the charge; it is flagged on the result and gets
// its own ledger entry.
func (g *Gateway) settleCharge(ctx context.Context, req *payment.Request, transactionID string) (outcome *settlement.Result) {
	destination := req.DestinationAccount(g.settlementAccount)
	settled, err := g.settle.Settle(ctx, settlement.Request{
		TransactionID:      transactionID,
		Amount:             req.Amount,
		Currency:           req.Currency,
		MerchantID:         g.merchantID,
		Method:             req.Method,
		DestinationAccount: destination,
	})
	if err != nil {
		if g.metrics != nil {
			g.metrics.SettlementFailures.Inc()
		}
		g.logger.Error("instant settlement failed",
			zap.String("transaction_id", transactionID),
			zap.Error(err),
		)
		if appendErr := g.ledger.Append(ctx, ledger.Entry{
			TransactionID: transactionID,
			MerchantID:    g.merchantID,
			Amount:        req.Amount,
			Currency:      req.Currency,
			Method:        req.Method,
			Status:        payment.StatusCompleted,
			Metadata:      map[string]any{"settlement_failed": err.Error()},
			RecordedAt:    time.Now().UTC(),
		}); appendErr != nil {
			g.logger.Error("failed to record settlement failure",
				zap.String("transaction_id", transactionID),
				zap.Error(appendErr),
			)
		}
		return &settlement.Result{
			TransactionID:      transactionID,
			DestinationAccount: destination,
			Currency:           req.Currency,
			Status:             settlement.StatusFailed,
		}
	}
	return &settled
}

// record writes the terminal ledger entry for one attempt. Ledger outages
// must not turn a settled outcome into an error, so failures are logged
// and swallowed.
func (g *Gateway) record(ctx context.Context, req *payment.Request, result *PaymentResult, extra map[string]any) {
	entry := ledger.Entry{
		TransactionID: result.TransactionID,
		MerchantID:    g.merchantID,
		Status:        result.Status,
		ErrorCode:     result.Err,
		Fees:          result.Fees,
		RecordedAt:    time.Now().UTC(),
	}
	if req != nil {
		entry.Amount = req.Amount
		entry.Currency = req.Currency
		entry.Method = req.Method
	}

	metadata := make(map[string]any, len(extra)+2)
	for k, v := range extra {
		metadata[k] = v
	}
	if len(result.ProcessorResponse) > 0 {
		metadata["processor_response"] = result.ProcessorResponse
	}
	if result.Settlement != nil {
		metadata["settlement_status"] = string(result.Settlement.Status)
	}
	if len(metadata) > 0 {
		entry.Metadata = metadata
	}

	if err := g.ledger.Append(ctx, entry); err != nil {
		g.logger.Error("failed to record transaction",
			zap.String("transaction_id", result.TransactionID),
			zap.Error(err),
		)
	}
}

func (g *Gateway) observe(result *PaymentResult, started time.Time) {
	if g.metrics == nil {
		return
	}
	g.metrics.PaymentsProcessed.WithLabelValues(string(result.Method), string(result.Status)).Inc()
	g.metrics.ProcessDuration.WithLabelValues(string(result.Method)).Observe(time.Since(started).Seconds())
}

func (g *Gateway) country(req *payment.Request) (country string) {
	if req.Customer != nil && req.Customer.Country != "" {
		return req.Customer.Country
	}
	return g.defaultCountry
}
