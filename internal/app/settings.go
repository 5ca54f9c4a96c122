package app

import (
	"context"
	"fmt"

	"github.com/prperemyshlev/token-authorizer/internal/config"
	"github.com/prperemyshlev/token-authorizer/internal/params"
	"github.com/prperemyshlev/token-authorizer/pkg/database"
	"go.uber.org/zap"
)

// NewParameterSource builds the parameter source selected by PARAMS_BACKEND
func NewParameterSource(ctx context.Context, cfg *config.Config, postgres *database.Postgres, redis *database.Redis) (params.Source, error) {
	switch cfg.Params.Backend {
	case config.BackendEnv:
		return params.NewStaticSource(map[string]string{
			cfg.Params.SecretName:   cfg.Params.SecretValue,
			cfg.Params.LifetimeName: cfg.Params.LifetimeValue,
		}), nil
	case config.BackendRedis:
		if redis == nil {
			return nil, fmt.Errorf("redis backend requires a Redis connection")
		}
		return params.NewRedisSource(redis, cfg.Params.RedisKeyPrefix), nil
	case config.BackendPostgres:
		if postgres == nil {
			return nil, fmt.Errorf("postgres backend requires a PostgreSQL connection")
		}
		return params.NewPostgresSource(postgres), nil
	case config.BackendSSM:
		return params.NewSSMSource(ctx, cfg.Params.AWSRegion, cfg.Params.WithDecryption)
	default:
		return nil, fmt.Errorf("unknown parameter backend %q", cfg.Params.Backend)
	}
}

// NewSettingsProvider wraps source in the cached, single-flight provider
func NewSettingsProvider(source params.Source, cfg *config.Config, logger *zap.Logger) *params.CachedProvider {
	return params.NewCachedProvider(source, params.ProviderOptions{
		SecretName:           cfg.Params.SecretName,
		LifetimeName:         cfg.Params.LifetimeName,
		RefreshTokenLifetime: cfg.JWT.RefreshTokenExpiry.Duration,
		RefreshInterval:      cfg.Params.RefreshInterval.Duration,
		MaxStaleness:         cfg.Params.MaxStaleness.Duration,
		RetryInterval:        cfg.Params.RetryInterval.Duration,
		FetchTimeout:         cfg.Params.FetchTimeout.Duration,
	}, logger)
}
