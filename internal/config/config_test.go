package config

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SCHOLARPREP_JWT_SECRET", "secret")
	cmd := &cobra.Command{Use: "serve"}
	AddServeFlags(cmd)

	cfg, err := Load(ForCommand(cmd))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.ExamListTTL)
	assert.Equal(t, 2*time.Hour, cfg.ChatTTL)
	assert.False(t, cfg.AI.IsEnabled())
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout())
}

func TestLoadFlagOverridesAndRequiredSecret(t *testing.T) {
	cmd := &cobra.Command{Use: "serve"}
	AddServeFlags(cmd)

	_, err := Load(ForCommand(cmd))
	require.Error(t, err)

	require.NoError(t, cmd.Flags().Set("jwt-secret", "s"))
	require.NoError(t, cmd.Flags().Set("openai-key", "k"))
	require.NoError(t, cmd.Flags().Set("redis-url", "redis://cache:6379"))

	cfg, err := Load(ForCommand(cmd))
	require.NoError(t, err)
	assert.True(t, cfg.AI.IsEnabled())
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
}
