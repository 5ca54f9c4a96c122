package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/token-authorizer/internal/dto"
	"github.com/prperemyshlev/token-authorizer/internal/service"
	"go.uber.org/zap"
)

// TokenHandler handles token endpoint requests
type TokenHandler struct {
	tokenService service.TokenService
	logger       *zap.Logger
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(tokenService service.TokenService, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		tokenService: tokenService,
		logger:       logger,
	}
}

// Token issues or refreshes tokens
// @Summary Issue or refresh tokens
// @Description password grant issues an access/refresh pair, refresh_token grant issues a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.TokenRequest true "Token request"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/token [post]
func (h *TokenHandler) Token(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBindingErrorResponse(err))
		return
	}

	response, err := h.tokenService.Exchange(c.Request.Context(), &req)
	if err != nil {
		status, body := dto.NewErrorResponse(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Token request failed",
				zap.String("grant_type", req.GrantType),
				zap.String("request_id", RequestID(c)),
				zap.Error(err),
			)
		} else {
			h.logger.Info("Token request rejected",
				zap.String("grant_type", req.GrantType),
				zap.String("reason", service.ReasonCode(err)),
			)
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, response)
}
