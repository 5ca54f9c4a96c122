package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/token-authorizer/internal/domain"
	"github.com/prperemyshlev/token-authorizer/internal/dto"
	"github.com/prperemyshlev/token-authorizer/internal/params"
	"github.com/prperemyshlev/token-authorizer/internal/service"
	"github.com/prperemyshlev/token-authorizer/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-value"

type unavailableProvider struct{}

func (unavailableProvider) Settings(context.Context) (*domain.Settings, error) {
	return nil, fmt.Errorf("%w: store down", domain.ErrConfigUnavailable)
}

func newTestProvider() params.Provider {
	return params.NewCachedProvider(
		params.NewStaticSource(map[string]string{"secret": testSecret, "lifetime": "3600"}),
		params.ProviderOptions{
			SecretName:           "secret",
			LifetimeName:         "lifetime",
			RefreshTokenLifetime: 7 * 24 * time.Hour,
			RefreshInterval:      5 * time.Minute,
			FetchTimeout:         time.Second,
		},
		zap.NewNop(),
	)
}

func newTestRouter(provider params.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)

	jwtManager := utils.NewJWTManager()
	tokenHandler := NewTokenHandler(service.NewTokenService(provider, jwtManager), zap.NewNop())
	helloHandler := NewHelloHandler()
	authorizer := service.NewAuthorizer(provider, jwtManager)

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(zap.NewNop()))
	router.Use(CORSMiddleware([]string{"*"}, []string{"GET", "POST", "OPTIONS"}, []string{"Content-Type", "Authorization"}))
	router.POST("/token", tokenHandler.Token)
	router.GET("/hello", AuthMiddleware(authorizer, zap.NewNop()), helloHandler.Hello)

	return router
}

func postToken(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/token", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func getHello(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestToken_PasswordGrant(t *testing.T) {
	router := newTestRouter(newTestProvider())

	rec := postToken(t, router, `{"grant_type":"password","user_id":"u1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var resp dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "Bearer", resp.TokenType)
}

func TestToken_RefreshGrantOmitsRefreshToken(t *testing.T) {
	router := newTestRouter(newTestProvider())

	rec := postToken(t, router, `{"grant_type":"password","user_id":"u1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var issued dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))

	rec = postToken(t, router, fmt.Sprintf(`{"grant_type":"refresh_token","refresh_token":%q}`, issued.RefreshToken))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["access_token"])
	assert.NotContains(t, body, "refresh_token")
	assert.Equal(t, "Bearer", body["token_type"])
}

func TestToken_Errors(t *testing.T) {
	router := newTestRouter(newTestProvider())

	tests := []struct {
		name        string
		body        string
		status      int
		code        string
		description string
	}{
		{name: "malformed json", body: `{`, status: http.StatusBadRequest, code: dto.ErrorInvalidRequest, description: "request body must be a JSON object"},
		{name: "missing grant type", body: `{"user_id":"u1"}`, status: http.StatusBadRequest, code: dto.ErrorInvalidRequest, description: "grant_type is required"},
		{name: "unknown grant type", body: `{"grant_type":"client_credentials"}`, status: http.StatusBadRequest, code: dto.ErrorUnsupportedGrantType},
		{name: "missing user id", body: `{"grant_type":"password"}`, status: http.StatusBadRequest, code: dto.ErrorInvalidRequest},
		{name: "missing refresh token", body: `{"grant_type":"refresh_token"}`, status: http.StatusBadRequest, code: dto.ErrorInvalidRequest},
		{name: "invalid refresh token", body: `{"grant_type":"refresh_token","refresh_token":"a.b.c"}`, status: http.StatusUnauthorized, code: dto.ErrorInvalidGrant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postToken(t, router, tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error)
			assert.NotEmpty(t, resp.ErrorDescription)
			if tt.description != "" {
				assert.Equal(t, tt.description, resp.ErrorDescription)
			}
		})
	}
}

func TestToken_ConfigUnavailable(t *testing.T) {
	router := newTestRouter(unavailableProvider{})

	rec := postToken(t, router, `{"grant_type":"password","user_id":"u1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorServerError, resp.Error)
}

func TestHello_RequiresValidToken(t *testing.T) {
	router := newTestRouter(newTestProvider())

	rec := postToken(t, router, `{"grant_type":"password","user_id":"u1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var issued dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))

	rec = getHello(router, "Bearer "+issued.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var hello dto.HelloResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hello))
	assert.Equal(t, "Hello World!", hello.Message)
	assert.Equal(t, "u1", hello.UserID)
	assert.NotEmpty(t, hello.Timestamp)

	for _, header := range []string{"", "Bearer", "Bearer " + issued.RefreshToken, issued.AccessToken} {
		rec = getHello(router, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
	}
}

func TestHello_FailsClosed(t *testing.T) {
	issuing := newTestRouter(newTestProvider())
	rec := postToken(t, issuing, `{"grant_type":"password","user_id":"u1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var issued dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))

	router := newTestRouter(unavailableProvider{})
	rec = getHello(router, "Bearer "+issued.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newTestRouter(newTestProvider())

	rec := getHello(router, "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://app.example.com"}, []string{"GET"}, []string{"Authorization"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
