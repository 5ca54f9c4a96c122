package utils

import (
	"strings"
	"unicode"
)

const bearerPrefix = "Bearer "

// ExtractBearerToken returns the token from an "Authorization: Bearer <token>"
// header value. Exactly one space separates the scheme from the token and the
// token itself may not contain whitespace.
func ExtractBearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || token == "" {
		return "", false
	}

	if strings.IndexFunc(token, unicode.IsSpace) >= 0 {
		return "", false
	}

	return token, true
}

// ValidateUserID validates a caller supplied subject
func ValidateUserID(userID string) bool {
	return strings.TrimSpace(userID) != ""
}
