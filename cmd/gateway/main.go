package main

import (
	"flag"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sunnypayments/core/cmd/gateway/internal/middleware"
	"github.com/sunnypayments/core/cmd/gateway/internal/router"
)

var app struct {
	debug  bool
	config string
}

func init() {
	flagset := flag.NewFlagSet("gateway", flag.ExitOnError)
	flagset.BoolVar(&app.debug, "debug", false, "set debug mode")
	flagset.StringVar(&app.config, "config", "config.yaml", "YAML configuration")
	err := flagset.Parse(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	var logger *zap.Logger
	var err error
	if app.debug {
		gin.SetMode(gin.DebugMode)
		logger, err = zap.NewDevelopment()
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	configContents, err := os.ReadFile(app.config)
	if err != nil {
		logger.Fatal("failed to read configuration", zap.Error(err))
	}

	var cfg Config
	err = yaml.Unmarshal(configContents, &cfg)
	if err != nil {
		logger.Fatal("failed to parse configuration", zap.Error(err))
	}

	g, resources, err := cfg.Compile(logger)
	if err != nil {
		logger.Fatal("failed to compile configuration", zap.Error(err))
	}
	defer resources.Close()

	e := gin.Default()
	r := router.Router{
		Gateway:     g,
		History:     resources.Store,
		Registry:    resources.Registry,
		Idempotency: middleware.Idempotency(resources.Redis, cfg.IdempotencyTTL, logger),
		Base:        e,
		Logger:      logger,
	}
	r.Register()

	err = e.Run(cfg.ListenAddress)
	if err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
