package params

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prperemyshlev/token-authorizer/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultAccessTokenLifetime applies when the lifetime parameter is absent
	DefaultAccessTokenLifetime = 3600 * time.Second

	minSecretLength = 6
	maxSecretLength = 512

	flightKey = "settings"
)

// Provider returns the current signing settings
type Provider interface {
	Settings(ctx context.Context) (*domain.Settings, error)
}

// ProviderOptions configures a CachedProvider
type ProviderOptions struct {
	SecretName           string
	LifetimeName         string
	RefreshTokenLifetime time.Duration

	// RefreshInterval is how long a fetched value is served without I/O.
	RefreshInterval time.Duration
	// MaxStaleness bounds how long a value may be served while a background
	// refresh is failing. Past it callers fetch synchronously.
	MaxStaleness time.Duration
	// RetryInterval spaces background refreshes after a failed one. Defaults
	// to RefreshInterval.
	RetryInterval time.Duration
	FetchTimeout  time.Duration

	Clock func() time.Time
}

// CachedProvider caches settings read from a Source. Concurrent misses share
// one fetch; a stale value is served while it refreshes in the background.
type CachedProvider struct {
	source Source
	opts   ProviderOptions
	logger *zap.Logger

	group singleflight.Group

	mu          sync.RWMutex
	cached      *domain.Settings
	fetchedAt   time.Time
	lastFailure time.Time
}

var _ Provider = (*CachedProvider)(nil)

// NewCachedProvider creates a new cached settings provider
func NewCachedProvider(source Source, opts ProviderOptions, logger *zap.Logger) *CachedProvider {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.MaxStaleness < opts.RefreshInterval {
		opts.MaxStaleness = opts.RefreshInterval
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = opts.RefreshInterval
	}

	return &CachedProvider{
		source: source,
		opts:   opts,
		logger: logger,
	}
}

// Settings returns cached settings, fetching them if the cache is cold or too stale.
// Errors wrap domain.ErrConfigUnavailable.
func (p *CachedProvider) Settings(ctx context.Context) (*domain.Settings, error) {
	p.mu.RLock()
	cached, fetchedAt, lastFailure := p.cached, p.fetchedAt, p.lastFailure
	p.mu.RUnlock()

	if cached != nil {
		now := p.opts.Clock()
		age := now.Sub(fetchedAt)
		if age < p.opts.RefreshInterval {
			return cached, nil
		}
		if age < p.opts.MaxStaleness {
			if lastFailure.IsZero() || now.Sub(lastFailure) >= p.opts.RetryInterval {
				// result channel is buffered, nobody needs to wait on it
				p.group.DoChan(flightKey, p.fetch)
			}
			return cached, nil
		}
	}

	return p.wait(ctx)
}

// Invalidate drops the cached value so the next call fetches
func (p *CachedProvider) Invalidate() {
	p.mu.Lock()
	p.cached = nil
	p.fetchedAt = time.Time{}
	p.lastFailure = time.Time{}
	p.mu.Unlock()
}

func (p *CachedProvider) wait(ctx context.Context) (*domain.Settings, error) {
	ch := p.group.DoChan(flightKey, p.fetch)

	timer := time.NewTimer(p.opts.FetchTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Settings), nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: fetch timed out after %s", domain.ErrConfigUnavailable, p.opts.FetchTimeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigUnavailable, ctx.Err())
	}
}

// fetch runs detached from any single caller's context, bounded by FetchTimeout
func (p *CachedProvider) fetch() (interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.opts.FetchTimeout)
	defer cancel()

	settings, err := p.load(ctx)
	if err != nil {
		p.mu.Lock()
		p.lastFailure = p.opts.Clock()
		p.mu.Unlock()

		p.logger.Warn("Failed to fetch settings",
			zap.String("secret_name", p.opts.SecretName),
			zap.String("lifetime_name", p.opts.LifetimeName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigUnavailable, err)
	}

	p.mu.Lock()
	p.cached = settings
	p.fetchedAt = p.opts.Clock()
	p.lastFailure = time.Time{}
	p.mu.Unlock()

	p.logger.Debug("Settings refreshed",
		zap.Duration("access_token_lifetime", settings.AccessTokenLifetime),
	)

	return settings, nil
}

func (p *CachedProvider) load(ctx context.Context) (*domain.Settings, error) {
	var secret, lifetime string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		secret, err = p.source.GetParameter(gctx, p.opts.SecretName)
		return err
	})
	g.Go(func() error {
		var err error
		lifetime, err = p.source.GetParameter(gctx, p.opts.LifetimeName)
		if errors.Is(err, ErrParameterNotFound) {
			lifetime = ""
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if n := len(secret); n < minSecretLength || n > maxSecretLength {
		return nil, fmt.Errorf("secret must be between %d and %d characters long, got %d", minSecretLength, maxSecretLength, n)
	}

	accessLifetime, err := parseLifetime(lifetime)
	if err != nil {
		return nil, err
	}

	return &domain.Settings{
		Secret:               []byte(secret),
		AccessTokenLifetime:  accessLifetime,
		RefreshTokenLifetime: p.opts.RefreshTokenLifetime,
	}, nil
}

// parseLifetime reads a string-encoded count of seconds
func parseLifetime(v string) (time.Duration, error) {
	if v == "" {
		return DefaultAccessTokenLifetime, nil
	}

	seconds, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid token lifetime %q: %w", v, err)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("token lifetime must be positive, got %d", seconds)
	}

	return time.Duration(seconds) * time.Second, nil
}
