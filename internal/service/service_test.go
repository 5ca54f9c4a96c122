package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prperemyshlev/token-authorizer/internal/domain"
	"github.com/prperemyshlev/token-authorizer/internal/params"
	"github.com/prperemyshlev/token-authorizer/internal/service"
	"github.com/prperemyshlev/token-authorizer/internal/utils"
	"go.uber.org/zap"
)

const testSecret = "test-secret-value"

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(unix int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = time.Unix(unix, 0)
}

type failingProvider struct{}

func (failingProvider) Settings(context.Context) (*domain.Settings, error) {
	return nil, fmt.Errorf("%w: store down", domain.ErrConfigUnavailable)
}

type fixture struct {
	clock      *testClock
	tokens     service.TokenService
	authorizer service.Authorizer
}

func newFixture(secret, lifetime string) *fixture {
	clock := &testClock{t: time.Unix(1000, 0)}

	// refresh interval is long enough that the fake clock never triggers a refetch
	provider := params.NewCachedProvider(
		params.NewStaticSource(map[string]string{
			"secret":   secret,
			"lifetime": lifetime,
		}),
		params.ProviderOptions{
			SecretName:           "secret",
			LifetimeName:         "lifetime",
			RefreshTokenLifetime: 604800 * time.Second,
			RefreshInterval:      100 * 365 * 24 * time.Hour,
			FetchTimeout:         time.Second,
			Clock:                clock.Now,
		},
		zap.NewNop(),
	)
	jwtManager := utils.NewJWTManagerWithClock(clock.Now)

	return &fixture{
		clock:      clock,
		tokens:     service.NewTokenService(provider, jwtManager),
		authorizer: service.NewAuthorizer(provider, jwtManager),
	}
}
