package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/token-authorizer/internal/dto"
)

const helloTimestampLayout = "2006-01-02 15:04:05 MST"

// HelloHandler serves the protected greeting endpoint
type HelloHandler struct {
	now func() time.Time
}

// NewHelloHandler creates a new hello handler
func NewHelloHandler() *HelloHandler {
	return &HelloHandler{now: time.Now}
}

// Hello greets the authenticated caller
// @Summary Hello world
// @Tags demo
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.HelloResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /hello [get]
func (h *HelloHandler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HelloResponse{
		Message:   "Hello World!",
		Timestamp: h.now().UTC().Format(helloTimestampLayout),
		UserID:    UserID(c),
	})
}
