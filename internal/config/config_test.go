package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
database:
  driver: mysql
  dsn: "user:pass@tcp(127.0.0.1:3306)/verses?parseTime=true"
auth:
  mode: hmac
  secret: file-secret
  admin_user_ids: [root-user]
ai:
  provider: openai
  openai_api_key: sk-file
  timeout: 12s
scripture:
  max_words: 80
credits:
  starting: 3
`)
	t.Setenv("AUTH_SECRET", "env-secret")
	t.Setenv("SCRIPTURE_TIMEOUT", "4s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "env-secret", cfg.Auth.Secret)
	assert.True(t, cfg.Auth.IsAdmin("root-user"))
	assert.False(t, cfg.Auth.IsAdmin("someone-else"))
	assert.Equal(t, "gpt-3.5-turbo", cfg.AI.Model)
	assert.Equal(t, 12*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 4*time.Second, cfg.Scripture.Timeout)
	assert.Equal(t, 80, cfg.Scripture.MaxWords)
	assert.Equal(t, 3, cfg.Credits.Starting)
	assert.Equal(t, "https://bible-api.com", cfg.Scripture.BaseURL)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("AUTH_MODE", "firebase")
	t.Setenv("FIREBASE_PROJECT_ID", "verse-finder")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("ADMIN_USER_IDS", " a, b ,,c ")
	t.Setenv("STARTING_CREDITS", "5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-flash", cfg.AI.Model)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Auth.AdminUserIDs)
	assert.Equal(t, 5, cfg.Credits.Starting)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoad_BadNumber(t *testing.T) {
	t.Setenv("AUTH_MODE", "hmac")
	t.Setenv("AUTH_SECRET", "s")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("SCRIPTURE_MAX_WORDS", "lots")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCRIPTURE_MAX_WORDS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown gin mode",
			mutate:  func(c *Config) { c.Server.GinMode = "production" },
			wantErr: `unknown gin mode "production"`,
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "postgres" },
			wantErr: `unknown database driver "postgres"`,
		},
		{
			name:    "firebase without project",
			mutate:  func(c *Config) { c.Auth.Mode = "firebase"; c.Auth.FirebaseProjectID = "" },
			wantErr: "FIREBASE_PROJECT_ID",
		},
		{
			name:    "openai without key",
			mutate:  func(c *Config) { c.AI.Provider = "openai" },
			wantErr: "OPENAI_API_KEY",
		},
		{
			name:    "zero max words",
			mutate:  func(c *Config) { c.Scripture.MaxWords = 0 },
			wantErr: "max words",
		},
		{
			name:    "negative starting credits",
			mutate:  func(c *Config) { c.Credits.Starting = -1 },
			wantErr: "starting credits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.Mode = "hmac"
			cfg.Auth.Secret = "secret"
			cfg.AI.GeminiAPIKey = "key"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDatabase_IgnoresServerSettings(t *testing.T) {
	t.Setenv("AUTH_MODE", "firebase")
	t.Setenv("FIREBASE_PROJECT_ID", "")
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN_PRIMARY", "file:maint.db")

	_, err := Load("")
	require.Error(t, err, "the server needs identity and AI settings")

	cfg, err := LoadDatabase("")
	require.NoError(t, err)
	assert.Equal(t, "file:maint.db", cfg.Database.DSN)

	t.Setenv("DB_DRIVER", "postgres")
	_, err = LoadDatabase("")
	assert.ErrorContains(t, err, `unknown database driver "postgres"`)
}

func TestLoadEnvFile(t *testing.T) {
	const key = "VERSEFINDER_DOTENV_CHECK"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	t.Chdir(dir)

	assert.Error(t, LoadEnvFile(), "a missing .env is reported to the caller")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=from-dotenv\n"), 0o644))
	require.NoError(t, LoadEnvFile())
	assert.Equal(t, "from-dotenv", os.Getenv(key))
}
