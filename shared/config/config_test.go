package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"YOUTUBE_API_KEY", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GEMINI_API_KEY", "EMAIL_USERNAME", "EMAIL_PASSWORD"} {
		t.Setenv(key, "")
	}
}

func TestLoadFile_Defaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "youtube:\n  api_key: key-123\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "key-123", cfg.YouTube.APIKey)
	assert.Equal(t, "youtube_token.json", cfg.YouTube.TokenFile)
	assert.Equal(t, 10, cfg.YouTube.RecentVideos)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "data", cfg.Storage.Path)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 8080, cfg.Monitoring.HealthPort)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "0 0 9 * * 1", cfg.Schedule)
	assert.False(t, cfg.Email.Enabled())
	assert.False(t, cfg.YouTube.OwnerEnabled())
}

func TestLoadFile_EnvBackfill(t *testing.T) {
	clearEnv(t)
	t.Setenv("YOUTUBE_API_KEY", "env-key")
	t.Setenv("GOOGLE_CLIENT_ID", "client")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GEMINI_API_KEY", "gemini")

	path := writeConfig(t, "youtube:\n  channel_id: \"@mychannel\"\n")
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.YouTube.APIKey)
	assert.Equal(t, "gemini", cfg.AI.GeminiAPIKey)
	assert.True(t, cfg.YouTube.OwnerEnabled())
}

func TestLoadFile_FileWinsOverEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("YOUTUBE_API_KEY", "env-key")

	cfg, err := LoadFile(writeConfig(t, "youtube:\n  api_key: file-key\n"))
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.YouTube.APIKey)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing api key", "logging:\n  level: info\n"},
		{"unknown storage driver", "youtube:\n  api_key: k\nstorage:\n  driver: postgres\n"},
		{"unknown log level", "youtube:\n  api_key: k\nlogging:\n  level: verbose\n"},
		{"port out of range", "youtube:\n  api_key: k\nserver:\n  port: 70000\n"},
		{"too many recent videos", "youtube:\n  api_key: k\n  recent_videos: 80\n"},
		{"half of the oauth client", "youtube:\n  api_key: k\n  client_id: only-id\n"},
		{"bad recipient", "youtube:\n  api_key: k\nemail:\n  username: u\n  password: p\n  to_email: nobody\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_UsesConfigFileEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeConfig(t, "youtube:\n  api_key: via-env-file\n"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "via-env-file", cfg.YouTube.APIKey)
}
