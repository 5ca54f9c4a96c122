package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/token-authorizer/internal/params"
)

const healthCheckTimeout = 2 * time.Second

type HealthChecker struct {
	infra    Infrastructure
	settings params.Provider
}

func NewHealthChecker(infra Infrastructure, settings params.Provider) *HealthChecker {
	return &HealthChecker{
		infra:    infra,
		settings: settings,
	}
}

func (h *HealthChecker) check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	checks := []func(context.Context) error{
		func(ctx context.Context) error {
			if _, err := h.settings.Settings(ctx); err != nil {
				return fmt.Errorf("settings: %w", err)
			}
			return nil
		},
	}
	if pg := h.infra.Postgres(); pg != nil {
		checks = append(checks, pg.Ping)
	}
	if redis := h.infra.Redis(); redis != nil {
		checks = append(checks, redis.Ping)
	}

	errs := make(chan error, len(checks))
	for _, check := range checks {
		go func() {
			errs <- check(ctx)
		}()
	}

	results := make([]error, 0, len(checks))
	for range checks {
		results = append(results, <-errs)
	}

	return errors.Join(results...)
}

func (h *HealthChecker) Handler(c *gin.Context) {
	if err := h.check(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "fail",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "pass",
	})
}
