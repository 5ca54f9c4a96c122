package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/prperemyshlev/token-authorizer/internal/domain"
	"github.com/prperemyshlev/token-authorizer/internal/service"
	"github.com/prperemyshlev/token-authorizer/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize_AllowsFreshAccessToken(t *testing.T) {
	f := newFixture(testSecret, "3600")

	for _, userID := range []string{"u1", "user-42", "6f1c1e4e-5c4e-4d0a-9e55-1f2b3c4d5e6f"} {
		grant, err := f.tokens.IssueFromPassword(context.Background(), userID)
		require.NoError(t, err)

		decision := f.authorizer.Authorize(context.Background(), "Bearer "+grant.AccessToken)
		assert.True(t, decision.Allowed)
		assert.Equal(t, userID, decision.Subject)
		assert.NoError(t, decision.Reason)
	}
}

func TestAuthorize_ExpiryBoundary(t *testing.T) {
	f := newFixture(testSecret, "3600")

	grant, err := f.tokens.IssueFromPassword(context.Background(), "u1")
	require.NoError(t, err)
	header := "Bearer " + grant.AccessToken

	f.clock.Set(4599)
	assert.True(t, f.authorizer.Authorize(context.Background(), header).Allowed)

	f.clock.Set(4600)
	decision := f.authorizer.Authorize(context.Background(), header)
	assert.False(t, decision.Allowed)
	assert.ErrorIs(t, decision.Reason, domain.ErrTokenExpired)

	f.clock.Set(4601)
	decision = f.authorizer.Authorize(context.Background(), header)
	assert.False(t, decision.Allowed)
	assert.ErrorIs(t, decision.Reason, domain.ErrTokenExpired)
	assert.Empty(t, decision.Subject)
}

func TestAuthorize_RejectsForeignSecret(t *testing.T) {
	f := newFixture(testSecret, "3600")
	other := newFixture("another-secret", "3600")

	grant, err := other.tokens.IssueFromPassword(context.Background(), "u1")
	require.NoError(t, err)

	decision := f.authorizer.Authorize(context.Background(), "Bearer "+grant.AccessToken)
	assert.False(t, decision.Allowed)
	assert.ErrorIs(t, decision.Reason, domain.ErrInvalidToken)
}

func TestAuthorize_RejectsRefreshToken(t *testing.T) {
	f := newFixture(testSecret, "3600")

	grant, err := f.tokens.IssueFromPassword(context.Background(), "u1")
	require.NoError(t, err)

	decision := f.authorizer.Authorize(context.Background(), "Bearer "+grant.RefreshToken)
	assert.False(t, decision.Allowed)
	assert.ErrorIs(t, decision.Reason, domain.ErrInvalidToken)
}

func TestAuthorize_RejectsBadHeaders(t *testing.T) {
	f := newFixture(testSecret, "3600")

	grant, err := f.tokens.IssueFromPassword(context.Background(), "u1")
	require.NoError(t, err)

	headers := []string{
		"",
		"Bearer",
		"Bearer ",
		grant.AccessToken,
		"bearer " + grant.AccessToken,
		"Bearer  " + grant.AccessToken,
		"Token " + grant.AccessToken,
		"Bearer not.a.jwt",
		"Bearer garbage",
	}

	for _, header := range headers {
		decision := f.authorizer.Authorize(context.Background(), header)
		assert.False(t, decision.Allowed, "header %q", header)
		assert.ErrorIs(t, decision.Reason, domain.ErrInvalidToken, "header %q", header)
	}
}

func TestAuthorize_FailsClosedWithoutSettings(t *testing.T) {
	f := newFixture(testSecret, "3600")

	grant, err := f.tokens.IssueFromPassword(context.Background(), "u1")
	require.NoError(t, err)

	authorizer := service.NewAuthorizer(failingProvider{}, utils.NewJWTManagerWithClock(f.clock.Now))

	decision := authorizer.Authorize(context.Background(), "Bearer "+grant.AccessToken)
	assert.False(t, decision.Allowed)
	assert.ErrorIs(t, decision.Reason, domain.ErrConfigUnavailable)
}

func TestAuthorize_ConcurrentCallers(t *testing.T) {
	f := newFixture(testSecret, "3600")

	grant, err := f.tokens.IssueFromPassword(context.Background(), "u1")
	require.NoError(t, err)

	const callers = 50
	results := make(chan domain.Decision, callers)
	for i := 0; i < callers; i++ {
		go func() {
			results <- f.authorizer.Authorize(context.Background(), "Bearer "+grant.AccessToken)
		}()
	}

	timeout := time.After(5 * time.Second)
	for i := 0; i < callers; i++ {
		select {
		case d := <-results:
			assert.True(t, d.Allowed)
		case <-timeout:
			t.Fatal("authorization calls did not complete")
		}
	}
}
