package service

import (
	"context"
	"fmt"

	"github.com/prperemyshlev/token-authorizer/internal/domain"
	"github.com/prperemyshlev/token-authorizer/internal/params"
	"github.com/prperemyshlev/token-authorizer/internal/utils"
)

// tokenService implements TokenService interface
type tokenService struct {
	settings   params.Provider
	jwtManager *utils.JWTManager
	metrics    *serviceMetrics
}

// NewTokenService creates a new token service
func NewTokenService(settings params.Provider, jwtManager *utils.JWTManager) TokenService {
	return &tokenService{
		settings:   settings,
		jwtManager: jwtManager,
		metrics:    newServiceMetrics(),
	}
}

// IssueFromPassword issues an access and a refresh token for userID
func (s *tokenService) IssueFromPassword(ctx context.Context, userID string) (*domain.TokenGrant, error) {
	if !utils.ValidateUserID(userID) {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidRequest)
	}

	settings, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}

	accessToken, _, err := s.jwtManager.Generate(settings.Secret, userID, domain.TokenTypeAccess, settings.AccessTokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := s.jwtManager.Generate(settings.Secret, userID, domain.TokenTypeRefresh, settings.RefreshTokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	s.metrics.tokenIssued(ctx, domain.TokenTypeAccess)
	s.metrics.tokenIssued(ctx, domain.TokenTypeRefresh)

	return &domain.TokenGrant{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(settings.AccessTokenLifetime.Seconds()),
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token bound to the same subject
func (s *tokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenGrant, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh_token is required", domain.ErrInvalidRequest)
	}

	settings, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}

	claims, err := s.jwtManager.Parse(settings.Secret, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	if claims.Type != domain.TokenTypeRefresh {
		return nil, fmt.Errorf("%w: expected %s token, got %q", domain.ErrInvalidToken, domain.TokenTypeRefresh, claims.Type)
	}

	accessToken, _, err := s.jwtManager.Generate(settings.Secret, claims.Subject, domain.TokenTypeAccess, settings.AccessTokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.metrics.tokenIssued(ctx, domain.TokenTypeAccess)

	return &domain.TokenGrant{
		AccessToken: accessToken,
		ExpiresIn:   int(settings.AccessTokenLifetime.Seconds()),
	}, nil
}
