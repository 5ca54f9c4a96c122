package params

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prperemyshlev/token-authorizer/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSource_GetParameter(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("params:/auth/token/time", "1800"))

	redis, err := database.NewRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer redis.Close()

	source := NewRedisSource(redis, "params:")

	v, err := source.GetParameter(context.Background(), "/auth/token/time")
	require.NoError(t, err)
	assert.Equal(t, "1800", v)

	_, err = source.GetParameter(context.Background(), "/auth/token/secret")
	assert.ErrorIs(t, err, ErrParameterNotFound)
}

func TestRedisSource_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)

	redis, err := database.NewRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer redis.Close()

	mr.Close()

	_, err = NewRedisSource(redis, "params:").GetParameter(context.Background(), "/auth/token/secret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrParameterNotFound)
}
