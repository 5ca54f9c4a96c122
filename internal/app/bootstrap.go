package app

import (
	"context"
	"fmt"

	"github.com/prperemyshlev/token-authorizer/internal/config"
)

// LambdaDefaults apply to Lambda entrypoints when the variables are unset
var LambdaDefaults = map[string]string{
	"ENV":            "lambda",
	"PARAMS_BACKEND": config.BackendSSM,
}

// Bootstrap loads configuration and builds the infrastructure shared by every entrypoint
func Bootstrap(ctx context.Context, defaults map[string]string) (*config.Config, Infrastructure, error) {
	cfg, err := config.LoadWithDefaults(ctx, defaults)
	if err != nil {
		return nil, nil, err
	}

	infra, err := NewInfrastructure(ctx, *cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	return cfg, infra, nil
}
