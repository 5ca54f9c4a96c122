package service

import (
	"context"
	"fmt"

	"github.com/prperemyshlev/token-authorizer/internal/domain"
	"github.com/prperemyshlev/token-authorizer/internal/dto"
)

// Exchange dispatches a token endpoint request on its grant type
func (s *tokenService) Exchange(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error) {
	var (
		grant *domain.TokenGrant
		err   error
	)

	switch req.GrantType {
	case dto.GrantTypePassword:
		grant, err = s.IssueFromPassword(ctx, req.UserID)
	case dto.GrantTypeRefreshToken:
		grant, err = s.Refresh(ctx, req.RefreshToken)
	case "":
		return nil, fmt.Errorf("%w: grant_type is required", domain.ErrInvalidRequest)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedGrantType, req.GrantType)
	}
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresIn:    grant.ExpiresIn,
		TokenType:    dto.TokenTypeBearer,
	}, nil
}
