package service

import (
	"context"
	"errors"

	"github.com/prperemyshlev/token-authorizer/internal/domain"
	"github.com/prperemyshlev/token-authorizer/pkg/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/prperemyshlev/token-authorizer/internal/service"

type serviceMetrics struct {
	tokensIssued metric.Int64Counter
	decisions    metric.Int64Counter
}

func newServiceMetrics() *serviceMetrics {
	return &serviceMetrics{
		tokensIssued: observability.Int64Counter(meterName, "tokens_issued", "Number of signed tokens by type"),
		decisions:    observability.Int64Counter(meterName, "authorization_decisions", "Number of authorization decisions by effect and reason"),
	}
}

func (m *serviceMetrics) tokenIssued(ctx context.Context, tokenType domain.TokenType) {
	m.tokensIssued.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(tokenType))))
}

func (m *serviceMetrics) decision(ctx context.Context, d domain.Decision) {
	effect := "deny"
	if d.Allowed {
		effect = "allow"
	}
	m.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("effect", effect),
		attribute.String("reason", ReasonCode(d.Reason)),
	))
}

// ReasonCode maps a domain error onto a short, stable label
func ReasonCode(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrConfigUnavailable):
		return "config_unavailable"
	default:
		return "internal"
	}
}
