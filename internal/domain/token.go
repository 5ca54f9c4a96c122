package domain

// TokenIssuer is the fixed "iss" claim of every token this service signs
const TokenIssuer = "lambda-api"

// TokenType distinguishes access tokens from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenClaims represents JWT token claims
type TokenClaims struct {
	Subject   string    `json:"sub"`
	Issuer    string    `json:"iss"`
	Type      TokenType `json:"type"`
	IssuedAt  int64     `json:"iat"`
	ExpiresAt int64     `json:"exp"`
}

// TokenGrant is the result of a successful grant.
// RefreshToken is empty for refresh_token grants.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}
