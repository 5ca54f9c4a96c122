package dto

// Grant types accepted by the token endpoint
const (
	GrantTypePassword     = "password"
	GrantTypeRefreshToken = "refresh_token"

	TokenTypeBearer = "Bearer"
)

// TokenRequest represents a token endpoint request
type TokenRequest struct {
	GrantType    string `json:"grant_type" binding:"required"`
	UserID       string `json:"user_id,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// TokenResponse represents a successful token endpoint response.
// RefreshToken is omitted for refresh_token grants.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// HelloResponse represents the protected hello endpoint response
type HelloResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	UserID    string `json:"user_id"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
