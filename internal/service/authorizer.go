package service

import (
	"context"
	"fmt"

	"github.com/prperemyshlev/token-authorizer/internal/domain"
	"github.com/prperemyshlev/token-authorizer/internal/params"
	"github.com/prperemyshlev/token-authorizer/internal/utils"
)

// authorizer implements Authorizer interface
type authorizer struct {
	settings   params.Provider
	jwtManager *utils.JWTManager
	metrics    *serviceMetrics
}

// NewAuthorizer creates a new bearer token authorizer
func NewAuthorizer(settings params.Provider, jwtManager *utils.JWTManager) Authorizer {
	return &authorizer{
		settings:   settings,
		jwtManager: jwtManager,
		metrics:    newServiceMetrics(),
	}
}

// Authorize validates an Authorization header value. It never returns an
// allowing decision when settings cannot be loaded.
func (a *authorizer) Authorize(ctx context.Context, authorizationHeader string) domain.Decision {
	decision := a.decide(ctx, authorizationHeader)
	a.metrics.decision(ctx, decision)
	return decision
}

func (a *authorizer) decide(ctx context.Context, authorizationHeader string) domain.Decision {
	token, ok := utils.ExtractBearerToken(authorizationHeader)
	if !ok {
		return domain.Deny(fmt.Errorf("%w: authorization header must be 'Bearer <token>'", domain.ErrInvalidToken))
	}

	settings, err := a.settings.Settings(ctx)
	if err != nil {
		return domain.Deny(err)
	}

	claims, err := a.jwtManager.Parse(settings.Secret, token)
	if err != nil {
		return domain.Deny(err)
	}

	if claims.Type != domain.TokenTypeAccess {
		return domain.Deny(fmt.Errorf("%w: expected %s token, got %q", domain.ErrInvalidToken, domain.TokenTypeAccess, claims.Type))
	}

	return domain.Allow(claims.Subject)
}
