package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sunnypayments/core/gateway"
	"github.com/sunnypayments/core/ledger"
	"github.com/sunnypayments/core/payment"
)

// Manages the entire setup of the gateway service
type Router struct {
	// Gateway orchestrator
	Gateway *gateway.Gateway
	// Ledger store serving transaction history lookups
	History *ledger.Store
	// Prometheus registry backing /metrics
	Registry *prometheus.Registry
	// Optional idempotency middleware for the charge endpoints
	Idempotency gin.HandlerFunc
	// Base Gin engine to register routes on
	Base *gin.Engine
	// Optional logger
	Logger *zap.Logger
}

const (
	IdParam            = "id"
	PaymentsPath       = "/payments"
	MarketplacePath    = PaymentsPath + "/marketplace"
	PaymentsPathWithId = PaymentsPath + "/:" + IdParam
	SubscriptionsPath  = "/subscriptions"
	HealthPath         = "/health"
	MetricsPath        = "/metrics"
)

func (r *Router) createPayment(ctx *gin.Context) {
	var req payment.Request
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "malformed payment request"})
		return
	}

	result := r.Gateway.ProcessPayment(ctx, &req)
	ctx.JSON(statusForResult(&result), &result)
}

func (r *Router) createMarketplacePayment(ctx *gin.Context) {
	var req payment.Request
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "malformed payment request"})
		return
	}

	result := r.Gateway.ProcessMarketplacePayment(ctx, &req)
	ctx.JSON(statusForResult(&result), &result)
}

func (r *Router) createSubscription(ctx *gin.Context) {
	var req gateway.SubscriptionRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "malformed subscription request"})
		return
	}

	result := r.Gateway.CreateSubscription(ctx, req)
	ctx.JSON(statusForSubscription(&result), &result)
}

func (r *Router) paymentHistory(ctx *gin.Context) {
	entries, err := r.History.History(ctx, ctx.Param(IdParam))
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, HistoryFromEntries(entries))
	case errors.Is(err, ledger.ErrTransactionNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
	default:
		if r.Logger != nil {
			r.Logger.Error("failed to load transaction history", zap.Error(err))
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transaction history"})
	}
}

func (r *Router) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Register routes in the Gin engine
func (r *Router) Register() {
	charges := r.Base.Group("")
	if r.Idempotency != nil {
		charges.Use(r.Idempotency)
	}
	charges.POST(PaymentsPath, r.createPayment)
	charges.POST(MarketplacePath, r.createMarketplacePayment)
	charges.POST(SubscriptionsPath, r.createSubscription)

	r.Base.GET(PaymentsPathWithId, r.paymentHistory)
	r.Base.GET(HealthPath, r.health)
	if r.Registry != nil {
		r.Base.GET(MetricsPath, gin.WrapH(promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})))
	}
}
