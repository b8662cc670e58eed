// internal/workers/session/reset-session/handler_test.go
package resetsession

import (
	"context"
	"testing"
	"time"

	"steadyone-workers/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func setupMiniRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func TestHandler_Execute_ClearsSeenSetAndCriteria(t *testing.T) {
	rdb, mr := setupMiniRedis(t)
	mr.SAdd("steady:seen:sess-1", "lst-a", "lst-b")
	mr.Set("steady:criteria:sess-1", `{"budgetMax":3000}`)

	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{SessionID: "sess-1"})

	require.NoError(t, err)
	assert.True(t, output.Reset)
	assert.Equal(t, 2, output.ClearedKeys)
	assert.False(t, mr.Exists("steady:seen:sess-1"))
	assert.False(t, mr.Exists("steady:criteria:sess-1"))
}

func TestHandler_Execute_KeepCriteria(t *testing.T) {
	rdb, mr := setupMiniRedis(t)
	mr.SAdd("steady:seen:sess-2", "lst-a")
	mr.Set("steady:criteria:sess-2", `{"budgetMax":3000}`)

	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		SessionID:    "sess-2",
		KeepCriteria: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.ClearedKeys)
	assert.False(t, mr.Exists("steady:seen:sess-2"))
	assert.True(t, mr.Exists("steady:criteria:sess-2"))
}

func TestHandler_Execute_IdempotentOnIdleSession(t *testing.T) {
	rdb, _ := setupMiniRedis(t)

	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{SessionID: "sess-idle"})

	require.NoError(t, err)
	assert.True(t, output.Reset)
	assert.Equal(t, 0, output.ClearedKeys)
}

func TestHandler_Execute_RequiresSessionID(t *testing.T) {
	rdb, _ := setupMiniRedis(t)

	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{})

	assert.ErrorIs(t, err, ErrSessionMissing)
}
