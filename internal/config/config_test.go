package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/squad-tactics/internal/config"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("SKIRMISH_MAX_CHAINED_ACTIONS", "")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Engine.MaxChainedActions)
	assert.Equal(t, 32, cfg.Persistence.QueueSize)
	assert.Equal(t, "skirmish", cfg.Redis.KeyPrefix)
	assert.False(t, cfg.UseRedis())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SKIRMISH_MAX_CHAINED_ACTIONS", "1")
	t.Setenv("SKIRMISH_SEED", "42")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 1, cfg.Engine.MaxChainedActions)
	assert.Equal(t, int64(42), cfg.Engine.Seed)
	assert.True(t, cfg.UseRedis())
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Run("not a number", func(t *testing.T) {
		t.Setenv("SKIRMISH_MAX_CHAINED_ACTIONS", "lots")

		_, err := config.FromEnv()
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidArgument(err))
	})

	t.Run("negative cap", func(t *testing.T) {
		t.Setenv("SKIRMISH_MAX_CHAINED_ACTIONS", "-1")

		_, err := config.FromEnv()
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidArgument(err))
	})
}
