package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunnypayments/core/payment"
)

const billingCycle = 30 * 24 * time.Hour

// CreateSubscription registers a recurring billing agreement. No charge is
// taken here; the first charge happens on the next billing date.
func (g *Gateway) CreateSubscription(ctx context.Context, req SubscriptionRequest) (result SubscriptionResult) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("subscription creation panicked", zap.Any("panic", r))
			result = SubscriptionResult{
				Err:     payment.ErrSubscription,
				Message: "unexpected error while creating subscription",
			}
		}
	}()

	if req.CustomerID == "" || req.PlanID == "" || req.Method == "" {
		result = SubscriptionResult{
			Err:     payment.ErrValidation,
			Message: "customer id, plan id and payment method are required",
		}
		return result
	}
	if !payment.KnownMethod(req.Method) {
		result = SubscriptionResult{
			Err:     payment.ErrUnsupportedMethod,
			Message: "unsupported payment method: " + string(req.Method),
		}
		return result
	}

	start := req.StartDate
	if start.IsZero() {
		start = time.Now().UTC()
	}

	result = SubscriptionResult{
		Success:         true,
		SubscriptionID:  uuid.NewString(),
		CustomerID:      req.CustomerID,
		PlanID:          req.PlanID,
		Status:          "active",
		StartDate:       start,
		NextBillingDate: start.Add(billingCycle),
	}

	g.logger.Info("subscription created",
		zap.String("subscription_id", result.SubscriptionID),
		zap.String("customer_id", req.CustomerID),
		zap.String("plan_id", req.PlanID),
	)
	return result
}
