package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/token-authorizer/internal/config"
	"github.com/prperemyshlev/token-authorizer/internal/handler"
	"github.com/prperemyshlev/token-authorizer/internal/params"
	"github.com/prperemyshlev/token-authorizer/internal/service"
	"github.com/prperemyshlev/token-authorizer/internal/utils"
	"github.com/prperemyshlev/token-authorizer/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra    Infrastructure
	config   *config.Config
	settings params.Provider
	router   *gin.Engine
	server   *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	settings := NewSettingsProvider(infra.ParameterSource(), cfg, infra.Logger())
	jwtManager := utils.NewJWTManager()

	tokenService := service.NewTokenService(settings, jwtManager)
	authorizer := service.NewAuthorizer(settings, jwtManager)
	healthChecker := NewHealthChecker(infra, settings)

	tokenHandler := handler.NewTokenHandler(tokenService, infra.Logger())
	helloHandler := handler.NewHelloHandler()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(handler.RequestIDMiddleware())
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	tokenHandlers := []gin.HandlerFunc{tokenHandler.Token}
	if cfg.Security.RateLimitEnabled && infra.Redis() != nil {
		rateLimiter := service.NewRateLimiter(infra.Redis())
		tokenHandlers = append([]gin.HandlerFunc{
			handler.RateLimitMiddleware(
				rateLimiter,
				cfg.Security.RateLimitRequests,
				cfg.Security.RateLimitWindow.Duration,
				handler.IPBasedKey,
				infra.Logger(),
			),
		}, tokenHandlers...)
	}

	setupRoutes(router, tokenHandlers, helloHandler, authorizer, healthChecker, infra)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:    infra,
		config:   cfg,
		settings: settings,
		router:   router,
		server:   srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	tokenHandlers []gin.HandlerFunc,
	helloHandler *handler.HelloHandler,
	authorizer service.Authorizer,
	healthChecker *HealthChecker,
	infra Infrastructure,
) {
	router.GET("/metrics", observability.PrometheusHandler(infra.MetricsHandler()))
	router.GET("/health", healthChecker.Handler)

	router.POST("/token", tokenHandlers...)
	router.GET("/hello", handler.AuthMiddleware(authorizer, infra.Logger()), helloHandler.Hello)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/token", tokenHandlers...)
		}
	}
}

// warmUp loads settings once so the first request does not pay for the fetch.
// A failure is not fatal, requests fail closed until the store recovers.
func (a *App) warmUp(ctx context.Context) {
	if _, err := a.settings.Settings(ctx); err != nil {
		a.infra.Logger().Warn("Settings not available at startup", zap.Error(err))
	}
}

func (a *App) Run(ctx context.Context) error {
	a.warmUp(ctx)

	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
