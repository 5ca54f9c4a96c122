package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prperemyshlev/token-authorizer/internal/app"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, infra, err := app.Bootstrap(ctx, nil)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	infra.Logger().Info("Serving tokens",
		zap.String("params_backend", cfg.Params.Backend),
		zap.String("secret_name", cfg.Params.SecretName),
		zap.Duration("refresh_interval", cfg.Params.RefreshInterval.Duration),
		zap.Bool("rate_limit", cfg.Security.RateLimitEnabled),
	)

	if err := app.NewApp(infra, cfg).Run(ctx); err != nil {
		infra.Logger().Fatal("Application failed", zap.Error(err))
	}
}
