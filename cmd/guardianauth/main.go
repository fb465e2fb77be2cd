package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/you/guardianauth/internal/app"
	"github.com/you/guardianauth/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var logger *zap.Logger
	if cfg.GinMode == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := app.Run(cfg, logger); err != nil {
		logger.Fatal("app", zap.Error(err))
	}
}
