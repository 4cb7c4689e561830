package gateway

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sunnypayments/core/ledger"
	"github.com/sunnypayments/core/payment"
	"github.com/sunnypayments/core/settlement"
	"github.com/sunnypayments/core/utils"
)

// ProcessMarketplacePayment charges the full amount through the regular
// pipeline, then fans the split transfers out concurrently. Split failures
// never unwind the primary charge; every outcome is reported.
func (g *Gateway) ProcessMarketplacePayment(ctx context.Context, req *payment.Request) (result PaymentResult) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("marketplace pipeline panicked", zap.Any("panic", r))
			result = PaymentResult{
				Status:  payment.StatusError,
				Err:     payment.ErrMarketplace,
				Message: "unexpected error while processing marketplace payment",
			}
		}
	}()

	if req == nil || len(req.Splits) == 0 {
		result = PaymentResult{
			Status:  payment.StatusFailed,
			Err:     payment.ErrValidation,
			Message: "at least one split is required for marketplace payments",
		}
		return result
	}

	result = g.ProcessPayment(ctx, req)
	if !result.Success {
		return result
	}

	result.Splits = g.transferSplits(ctx, req, result.TransactionID)
	g.recordSplits(ctx, req, &result)

	failed := 0
	for _, outcome := range result.Splits {
		if outcome.Status != payment.StatusCompleted {
			failed++
		}
	}
	if failed > 0 {
		result.Message = "one or more split transfers failed"
		g.logger.Warn("marketplace splits partially failed",
			zap.String("transaction_id", result.TransactionID),
			zap.Int("failed", failed),
			zap.Int("total", len(result.Splits)),
		)
	}
	return result
}

// recordSplits appends a follow-up entry carrying every split outcome, so
// reconciliation can see partial transfer failures next to the charge.
func (g *Gateway) recordSplits(ctx context.Context, req *payment.Request, result *PaymentResult) {
	if err := g.ledger.Append(ctx, ledger.Entry{
		TransactionID: result.TransactionID,
		MerchantID:    g.merchantID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Method:        req.Method,
		Status:        result.Status,
		Metadata:      map[string]any{"splits": result.Splits},
		RecordedAt:    time.Now().UTC(),
	}); err != nil {
		g.logger.Error("failed to record split outcomes",
			zap.String("transaction_id", result.TransactionID),
			zap.Error(err),
		)
	}
}

func (g *Gateway) transferSplits(ctx context.Context, req *payment.Request, transactionID string) (outcomes []payment.SplitOutcome) {
	outcomes = make([]payment.SplitOutcome, len(req.Splits))

	jobs := utils.NewJobPool(g.splitConcurrency)
	var wg sync.WaitGroup
	for i, split := range req.Splits {
		jobs.Acquire()
		wg.Add(1)
		go func(i int, split payment.SplitTarget) {
			defer wg.Done()
			defer jobs.Release()
			outcomes[i] = g.transferSplit(ctx, req, transactionID, split)
		}(i, split)
	}
	wg.Wait()
	return outcomes
}

func (g *Gateway) transferSplit(ctx context.Context, req *payment.Request, transactionID string, split payment.SplitTarget) (outcome payment.SplitOutcome) {
	currency := split.Currency
	if currency == "" {
		currency = req.Currency
	}
	outcome = payment.SplitOutcome{
		Destination: split.Destination,
		Amount:      split.Amount,
		Currency:    currency,
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("split transfer panicked",
				zap.String("transaction_id", transactionID),
				zap.Any("panic", r),
			)
			outcome.Status = payment.StatusFailed
			outcome.Error = "unexpected error during split transfer"
		}
		if g.metrics != nil {
			g.metrics.SplitTransfers.WithLabelValues(string(outcome.Status)).Inc()
		}
	}()

	settled, err := g.settle.Settle(ctx, settlement.Request{
		TransactionID:      transactionID,
		Amount:             split.Amount,
		Currency:           currency,
		MerchantID:         g.merchantID,
		Method:             req.Method,
		DestinationAccount: split.Destination,
	})
	if err != nil {
		g.logger.Error("split transfer failed",
			zap.String("transaction_id", transactionID),
			zap.String("destination", split.Destination),
			zap.Error(err),
		)
		outcome.Status = payment.StatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Status = payment.StatusCompleted
	outcome.TransferID = settled.SettlementID
	return outcome
}
