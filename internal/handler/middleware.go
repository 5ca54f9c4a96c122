package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/token-authorizer/internal/domain"
	"github.com/prperemyshlev/token-authorizer/internal/dto"
	"github.com/prperemyshlev/token-authorizer/internal/service"
	"go.uber.org/zap"
)

const contextUserID = "user_id"

// AuthMiddleware authorizes the bearer token and adds the subject to context
func AuthMiddleware(authorizer service.Authorizer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := authorizer.Authorize(c.Request.Context(), c.GetHeader("Authorization"))
		if !decision.Allowed {
			if errors.Is(decision.Reason, domain.ErrConfigUnavailable) {
				logger.Error("Denying request, settings unavailable",
					zap.String("path", c.Request.URL.Path),
					zap.Error(decision.Reason),
				)
			}

			c.Header("WWW-Authenticate", `Bearer realm="api"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:            dto.ErrorUnauthorized,
				ErrorDescription: "invalid or expired token",
			})
			return
		}

		c.Set(contextUserID, decision.Subject)
		c.Next()
	}
}

// UserID returns the authenticated subject set by AuthMiddleware
func UserID(c *gin.Context) string {
	return c.GetString(contextUserID)
}
