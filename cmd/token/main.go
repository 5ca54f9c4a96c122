package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/prperemyshlev/token-authorizer/internal/app"
	functions "github.com/prperemyshlev/token-authorizer/internal/lambda"
	"github.com/prperemyshlev/token-authorizer/internal/service"
	"github.com/prperemyshlev/token-authorizer/internal/utils"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, infra, err := app.Bootstrap(ctx, app.LambdaDefaults)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	settings := app.NewSettingsProvider(infra.ParameterSource(), cfg, infra.Logger())
	fn := functions.NewTokenFunction(service.NewTokenService(settings, utils.NewJWTManager()), infra.Logger())

	lambda.StartWithOptions(fn.Handle, lambda.WithEnableSIGTERM(func() {
		if err := infra.Shutdown(context.Background()); err != nil {
			infra.Logger().Error("Shutdown failed", zap.Error(err))
		}
	}))
}
