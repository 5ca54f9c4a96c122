package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prperemyshlev/token-authorizer/internal/domain"
)

// jwtClaims is the wire layout of a token payload
type jwtClaims struct {
	jwt.RegisteredClaims
	Type domain.TokenType `json:"type"`
}

// JWTManager encodes, signs and verifies tokens. The secret is passed per call
// because it is refreshed from the parameter store at runtime.
type JWTManager struct {
	issuer string
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager using the wall clock
func NewJWTManager() *JWTManager {
	return NewJWTManagerWithClock(time.Now)
}

// NewJWTManagerWithClock creates a new JWT manager with an injected clock
func NewJWTManagerWithClock(now func() time.Time) *JWTManager {
	return &JWTManager{
		issuer: domain.TokenIssuer,
		now:    now,
	}
}

// Generate signs a new token of the given type for subject
func (j *JWTManager) Generate(secret []byte, subject string, tokenType domain.TokenType, lifetime time.Duration) (string, *domain.TokenClaims, error) {
	iat := j.now().Truncate(time.Second)
	exp := iat.Add(lifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Type: tokenType,
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return tokenString, &domain.TokenClaims{
		Subject:   subject,
		Issuer:    j.issuer,
		Type:      tokenType,
		IssuedAt:  iat.Unix(),
		ExpiresAt: exp.Unix(),
	}, nil
}

// Parse verifies the signature and registered claims of tokenString and
// returns its claims. The token type is not checked here.
func (j *JWTManager) Parse(secret []byte, tokenString string) (*domain.TokenClaims, error) {
	var claims jwtClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(j.issuer),
	)
	if err != nil {
		// signature is verified before claims, so an expired error implies a valid MAC
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", domain.ErrInvalidToken)
	}

	tokenClaims := &domain.TokenClaims{
		Subject:   claims.Subject,
		Issuer:    claims.Issuer,
		Type:      claims.Type,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}
	if claims.IssuedAt != nil {
		tokenClaims.IssuedAt = claims.IssuedAt.Unix()
	}

	return tokenClaims, nil
}
