package main

import (
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sunnypayments/core/fees"
	"github.com/sunnypayments/core/fraud"
	"github.com/sunnypayments/core/gateway"
	"github.com/sunnypayments/core/ledger"
	"github.com/sunnypayments/core/metrics"
	"github.com/sunnypayments/core/processors"
	"github.com/sunnypayments/core/security"
)

// Yaml configuration reference
type (
	FraudConfig struct {
		Enabled        bool            `yaml:"enabled"`
		Threshold      float64         `yaml:"threshold"`
		HighAmount     decimal.Decimal `yaml:"high-amount"`
		VelocityLimit  int64           `yaml:"velocity-limit"`
		VelocityWindow time.Duration   `yaml:"velocity-window"`
	}
	RedisConfig struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	}
	KafkaConfig struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	}
	Config struct {
		ListenAddress     string        `yaml:"listen-address"`
		DatabasePath      string        `yaml:"database-path"`
		MerchantID        string        `yaml:"merchant-id"`
		MerchantTier      fees.Tier     `yaml:"merchant-tier"`
		DefaultCountry    string        `yaml:"default-country"`
		SettlementAccount string        `yaml:"settlement-account"`
		InstantSettlement bool          `yaml:"instant-settlement"`
		SplitConcurrency  int           `yaml:"split-concurrency"`
		EncryptionSecret  string        `yaml:"encryption-secret"`
		IdempotencyTTL    time.Duration `yaml:"idempotency-ttl"`
		Fraud             FraudConfig   `yaml:"fraud"`
		Redis             RedisConfig   `yaml:"redis"`
		Kafka             KafkaConfig   `yaml:"kafka"`
	}
)

// Resources are the long-lived handles built during Compile. The caller
// owns them and closes them on shutdown.
type Resources struct {
	DB       *badger.DB
	Kafka    *ledger.KafkaSink
	Redis    *redis.Client
	Store    *ledger.Store
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

func (r *Resources) Close() {
	if r.Kafka != nil {
		_ = r.Kafka.Close()
	}
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
	if r.DB != nil {
		_ = r.DB.Close()
	}
}

func (c *Config) Compile(logger *zap.Logger) (g *gateway.Gateway, resources Resources, err error) {
	resources.DB, err = badger.Open(badger.DefaultOptions(c.DatabasePath))
	if err != nil {
		return nil, resources, fmt.Errorf("failed to open database: %w", err)
	}

	resources.Store = ledger.NewStore(resources.DB)
	var log ledger.Logger = resources.Store
	if len(c.Kafka.Brokers) > 0 {
		resources.Kafka = ledger.NewKafkaSink(c.Kafka.Brokers, c.Kafka.Topic, logger)
		log = ledger.Tee(resources.Store, resources.Kafka)
	}

	if c.Redis.Address != "" {
		resources.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Redis.Address,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
	}

	detector := fraud.Disabled()
	if c.Fraud.Enabled {
		var velocity fraud.VelocityStore
		if resources.Redis != nil {
			velocity = fraud.NewRedisVelocity(resources.Redis, c.Fraud.VelocityWindow)
		} else {
			velocity = fraud.NewMemoryVelocity(c.Fraud.VelocityWindow)
		}
		detector = fraud.NewEngine(fraud.EngineConfig{
			Threshold:     c.Fraud.Threshold,
			HighAmount:    c.Fraud.HighAmount,
			VelocityLimit: c.Fraud.VelocityLimit,
			Velocity:      velocity,
			Logger:        logger,
		})
	}

	enc, err := security.New(c.EncryptionSecret)
	if err != nil {
		resources.Close()
		return nil, resources, fmt.Errorf("failed to build encryption service: %w", err)
	}

	resources.Registry = prometheus.NewRegistry()
	resources.Metrics = metrics.New(resources.Registry)

	g, err = gateway.New(gateway.Config{
		MerchantID:        c.MerchantID,
		MerchantTier:      c.MerchantTier,
		DefaultCountry:    c.DefaultCountry,
		InstantSettlement: c.InstantSettlement,
		SettlementAccount: c.SettlementAccount,
		SplitConcurrency:  c.SplitConcurrency,
		Registry:          processors.Default(enc),
		Fraud:             detector,
		Ledger:            log,
		Logger:            logger,
		Metrics:           resources.Metrics,
	})
	if err != nil {
		resources.Close()
		return nil, resources, fmt.Errorf("failed to build gateway: %w", err)
	}
	return g, resources, nil
}
