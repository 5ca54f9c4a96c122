package service

import (
	"context"

	"github.com/prperemyshlev/token-authorizer/internal/domain"
	"github.com/prperemyshlev/token-authorizer/internal/dto"
)

// TokenService issues access and refresh tokens
type TokenService interface {
	IssueFromPassword(ctx context.Context, userID string) (*domain.TokenGrant, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenGrant, error)
	Exchange(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error)
}

// Authorizer decides whether a bearer header grants API access
type Authorizer interface {
	Authorize(ctx context.Context, authorizationHeader string) domain.Decision
}
