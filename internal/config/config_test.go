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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")
	path := writeConfig(t, `
server:
  mode: production
database:
  host: db
  user: cms
  password: ${TEST_DB_PASSWORD}
  dbname: cms
jwt:
  secret: abc
permissions:
  editor: ["article:*"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 8082, cfg.Server.Port)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 1024, cfg.Invalidation.QueueSize)
	assert.Equal(t, 5*time.Second, cfg.Invalidation.RetryIntervalDuration())
	assert.Equal(t, []string{"article:*"}, cfg.Permissions["editor"])
	assert.False(t, cfg.IsDevelopment())
	assert.Contains(t, cfg.Database.GetDSN(), "cms:s3cret@tcp(db:3306)/cms?")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Validation(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  mode: production\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "rabbitmq:\n  enabled: true\n"))
	assert.Error(t, err)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "(empty)", mask(""))
	assert.Equal(t, "****", mask("abcd"))
	assert.Equal(t, "ab****", mask("abcdef"))
}
