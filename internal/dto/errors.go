package dto

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/prperemyshlev/token-authorizer/internal/domain"
)

// Error codes returned by the token endpoint
const (
	ErrorInvalidRequest       = "invalid_request"
	ErrorUnsupportedGrantType = "unsupported_grant_type"
	ErrorInvalidGrant         = "invalid_grant"
	ErrorUnauthorized         = "unauthorized"
	ErrorServerError          = "server_error"
	ErrorTooManyRequests      = "too_many_requests"
)

// NewErrorResponse maps a token endpoint error onto an HTTP status and body.
// Unexpected errors are not described to the caller.
func NewErrorResponse(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedGrantType):
		return http.StatusBadRequest, ErrorResponse{Error: ErrorUnsupportedGrantType, ErrorDescription: err.Error()}
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, ErrorResponse{Error: ErrorInvalidRequest, ErrorDescription: err.Error()}
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, ErrorResponse{Error: ErrorInvalidGrant, ErrorDescription: "refresh token expired"}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, ErrorResponse{Error: ErrorInvalidGrant, ErrorDescription: "refresh token is invalid"}
	case errors.Is(err, domain.ErrConfigUnavailable):
		return http.StatusInternalServerError, ErrorResponse{Error: ErrorServerError, ErrorDescription: "token signing configuration unavailable"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: ErrorServerError, ErrorDescription: "internal server error"}
	}
}

// requestFields maps TokenRequest field names onto their JSON keys
var requestFields = map[string]string{
	"GrantType":    "grant_type",
	"UserID":       "user_id",
	"RefreshToken": "refresh_token",
}

// NewBindingErrorResponse describes a request body that failed to decode or
// validate without echoing decoder or validator internals.
func NewBindingErrorResponse(err error) ErrorResponse {
	description := "request body must be a JSON object"

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		field, ok := requestFields[validationErrs[0].Field()]
		if !ok {
			field = "a required field"
		}
		description = field + " is required"
	}

	return ErrorResponse{Error: ErrorInvalidRequest, ErrorDescription: description}
}
