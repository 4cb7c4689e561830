package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes orchestration counters. All fields are always non-nil;
// collaborators may treat a nil *Metrics as "metrics disabled".
type Metrics struct {
	PaymentsProcessed  *prometheus.CounterVec
	FraudRejections    prometheus.Counter
	SettlementFailures prometheus.Counter
	SplitTransfers     *prometheus.CounterVec
	ClientRetries      prometheus.Counter
	ProcessDuration    *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) (m *Metrics) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		PaymentsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sunny_payments_processed_total",
			Help: "Payments processed by method and terminal status.",
		}, []string{"method", "status"}),
		FraudRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "sunny_fraud_rejections_total",
			Help: "Payments rejected by the fraud gate.",
		}),
		SettlementFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "sunny_settlement_failures_total",
			Help: "Instant settlements that failed after a completed charge.",
		}),
		SplitTransfers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sunny_split_transfers_total",
			Help: "Marketplace split transfers by status.",
		}, []string{"status"}),
		ClientRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "sunny_client_retries_total",
			Help: "Retried attempts of the outbound gateway client.",
		}),
		ProcessDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sunny_process_duration_seconds",
			Help:    "End to end payment pipeline duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}
