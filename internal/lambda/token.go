package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin/binding"
	"github.com/prperemyshlev/token-authorizer/internal/dto"
	"github.com/prperemyshlev/token-authorizer/internal/service"
	"go.uber.org/zap"
)

var responseHeaders = map[string]string{
	"Content-Type":                "application/json",
	"Access-Control-Allow-Origin": "*",
	"Cache-Control":               "no-store",
}

// TokenFunction serves the token endpoint behind an API Gateway proxy integration
type TokenFunction struct {
	tokenService service.TokenService
	logger       *zap.Logger
}

func NewTokenFunction(tokenService service.TokenService, logger *zap.Logger) *TokenFunction {
	return &TokenFunction{
		tokenService: tokenService,
		logger:       logger,
	}
}

// Handle never returns an error, every outcome is an HTTP response
func (f *TokenFunction) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return f.respond(http.StatusBadRequest, dto.ErrorResponse{
				Error:            dto.ErrorInvalidRequest,
				ErrorDescription: "request body is not valid base64",
			}), nil
		}
		body = decoded
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	var tokenReq dto.TokenRequest
	if err := binding.JSON.BindBody(body, &tokenReq); err != nil {
		return f.respond(http.StatusBadRequest, dto.NewBindingErrorResponse(err)), nil
	}

	response, err := f.tokenService.Exchange(ctx, &tokenReq)
	if err != nil {
		status, errBody := dto.NewErrorResponse(err)
		if status >= http.StatusInternalServerError {
			f.logger.Error("Token request failed",
				zap.String("grant_type", tokenReq.GrantType),
				zap.String("request_id", req.RequestContext.RequestID),
				zap.Error(err),
			)
		}
		return f.respond(status, errBody), nil
	}

	return f.respond(http.StatusOK, response), nil
}

func (f *TokenFunction) respond(status int, v any) events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(responseHeaders))
	for k, val := range responseHeaders {
		headers[k] = val
	}

	body, err := json.Marshal(v)
	if err != nil {
		f.logger.Error("Failed to encode response", zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    headers,
			Body:       `{"error":"server_error","error_description":"internal server error"}`,
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(body),
	}
}
