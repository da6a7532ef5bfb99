package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "high_scores.json", cfg.Game.ScoresFile)
	assert.Equal(t, 30, cfg.Game.FrameRate)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "https://ark.cn-beijing.volces.com/api/v3", cfg.AI.BaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("PLAYER_NAME", "Alice")
	t.Setenv("HOTLINE_SCORES_FILE", "/tmp/scores.json")
	t.Setenv("ARK_MODEL", "doubao-pro")
	t.Setenv("ARK_API_KEY", "secret")
	t.Setenv("ARK_MAX_TOKENS", "256")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "Alice", cfg.Game.PlayerName)
	assert.Equal(t, "/tmp/scores.json", cfg.Game.ScoresFile)
	assert.Equal(t, 256, cfg.AI.MaxTokens)
	assert.True(t, cfg.AI.Enabled())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		"PORT":               "80 80",
		"HOTLINE_FRAME_RATE": "0",
		"LOG_LEVEL":          "loud",
		"ARK_MAX_TOKENS":     "many",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestAIConfigEnabled(t *testing.T) {
	assert.False(t, AIConfig{}.Enabled())
	assert.False(t, AIConfig{APIKey: "k"}.Enabled())
	assert.True(t, AIConfig{Model: "m", APIKey: "k"}.Enabled())
	assert.True(t, AIConfig{Model: "m", AccessKey: "a", SecretKey: "s"}.Enabled())
	assert.False(t, AIConfig{Model: "m", AccessKey: "a"}.Enabled())
}

func TestNewChatModelRequiresCredentials(t *testing.T) {
	_, err := AIConfig{}.NewChatModel(context.Background())
	assert.Error(t, err)
}
