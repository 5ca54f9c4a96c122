package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prperemyshlev/token-authorizer/internal/config"
	"github.com/prperemyshlev/token-authorizer/internal/params"
	"github.com/prperemyshlev/token-authorizer/pkg/database"
	"github.com/prperemyshlev/token-authorizer/pkg/observability"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const serviceName = "token-authorizer"

// Infrastructure exposes the process-wide connections. Postgres and Redis are
// nil when no configured component needs them.
type Infrastructure interface {
	Postgres() *database.Postgres
	Redis() *database.Redis
	ParameterSource() params.Source
	Logger() *zap.Logger
	MetricsHandler() http.Handler

	Shutdown(ctx context.Context) error
}

type infrastructure struct {
	postgres       *database.Postgres
	redis          *database.Redis
	source         params.Source
	logger         *zap.Logger
	metricsHandler http.Handler
	meterProvider  *metric.MeterProvider
}

var _ Infrastructure = &infrastructure{}

func NewInfrastructure(ctx context.Context, cfg config.Config) (*infrastructure, error) {
	i := &infrastructure{}

	logger, err := observability.InitLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	i.logger = logger

	if cfg.NeedsPostgres() {
		postgres, err := database.NewPostgres(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		i.postgres = postgres

		if err := params.Migrate(postgres); err != nil {
			i.closeConnections()
			return nil, fmt.Errorf("failed to migrate parameters table: %w", err)
		}
	}

	if cfg.NeedsRedis() {
		redis, err := database.NewRedis(ctx, cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			i.closeConnections()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		i.redis = redis
	}

	source, err := NewParameterSource(ctx, &cfg, i.postgres, i.redis)
	if err != nil {
		i.closeConnections()
		return nil, fmt.Errorf("failed to create parameter source: %w", err)
	}
	i.source = source

	meterProvider, metricsHandler, err := observability.InitTelemetry(serviceName)
	if err != nil {
		i.closeConnections()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	i.meterProvider = meterProvider
	i.metricsHandler = metricsHandler

	logger.Info("Infrastructure initialized",
		zap.String("params_backend", cfg.Params.Backend),
		zap.Bool("postgres", i.postgres != nil),
		zap.Bool("redis", i.redis != nil),
	)

	return i, nil
}

func (i *infrastructure) Postgres() *database.Postgres {
	return i.postgres
}

func (i *infrastructure) Redis() *database.Redis {
	return i.redis
}

func (i *infrastructure) ParameterSource() params.Source {
	return i.source
}

func (i *infrastructure) Logger() *zap.Logger {
	return i.logger
}

func (i *infrastructure) MetricsHandler() http.Handler {
	return i.metricsHandler
}

func (i *infrastructure) Shutdown(ctx context.Context) error {
	return errors.Join(
		i.closeConnections(),
		observability.Shutdown(ctx, i.meterProvider, i.logger),
	)
}

func (i *infrastructure) closeConnections() error {
	var errs []error
	if i.postgres != nil {
		errs = append(errs, i.postgres.Close())
	}
	if i.redis != nil {
		errs = append(errs, i.redis.Close())
	}
	return errors.Join(errs...)
}
