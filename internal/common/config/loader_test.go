// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_FullConfig(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: loan-intake
  environment: production
server:
  host: 0.0.0.0
  port: 9090
  max_upload_bytes: 5242880
database:
  path: /data/apps.db
  busy_timeout: 2000
uploads:
  dir: /data/uploads
  allowed_extensions: [pdf]
email:
  provider: smtp
  from: sender@example.com
  recipient: admin@example.com
  smtp:
    host: smtp.example.com
    port: 465
    password: secret
    timeout: 5s
logging:
  level: debug
  format: console
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, int64(5242880), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "/data/apps.db", cfg.Database.Path)
	assert.Equal(t, "smtp.example.com", cfg.Email.SMTP.Host)
	assert.Equal(t, 465, cfg.Email.SMTP.Port)
	assert.Equal(t, 5*time.Second, cfg.Email.SMTP.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, "app:\n  name: loan-intake\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "loan_applications.db", cfg.Database.Path)
	assert.Equal(t, "uploads", cfg.Uploads.Dir)
	assert.Equal(t, []string{"pdf"}, cfg.Uploads.AllowedExtensions)
	assert.Equal(t, "smtp", cfg.Email.Provider)
	assert.Equal(t, "smtp.gmail.com", cfg.Email.SMTP.Host)
	assert.Equal(t, 587, cfg.Email.SMTP.Port)
	assert.True(t, cfg.Email.SMTP.UseTLS)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_InvalidProvider(t *testing.T) {
	path := writeConfigFile(t, "email:\n  provider: pigeon\n")

	_, err := LoadFromFile(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "provider")
}

func TestLoadFromFile_InvalidPort(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 70000\n")

	_, err := LoadFromFile(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestLoadFromFile_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_SENDER_ADDRESS", "env@example.com")

	path := writeConfigFile(t, "email:\n  from: ${TEST_SENDER_ADDRESS}\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "env@example.com", cfg.Email.From)
}

func TestLoadFromFile_LegacyEnvOverrides(t *testing.T) {
	t.Setenv("EMAIL_ADDRESS", "legacy@example.com")
	t.Setenv("ADMIN_EMAIL", "reviewer@example.com")

	path := writeConfigFile(t, "app:\n  name: loan-intake\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "legacy@example.com", cfg.Email.From)
	assert.Equal(t, "reviewer@example.com", cfg.Email.Recipient)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dsn := DatabaseConfig{Path: "apps.db", BusyTimeout: 5000}.DSN()
	assert.Equal(t, "file:apps.db?_busy_timeout=5000&_foreign_keys=on", dsn)
}

func TestSMTPUsernameDefaultsToFrom(t *testing.T) {
	path := writeConfigFile(t, "email:\n  from: sender@example.com\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "sender@example.com", cfg.Email.SMTP.Username)
}
