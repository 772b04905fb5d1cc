package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MYSQL_HOST", "MYSQL_PORT", "MYSQL_USER", "MYSQL_PASSWORD", "MYSQL_DB",
		"MYSQL_SSL", "MONGO_URI", "HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT",
		"CACHE_TTL_SECONDS", "CACHE_REDIS_ADDR",
	} {
		t.Setenv(key, "")
	}
	// 避免读到工作目录下的真实 secrets.yaml
	t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
}

func TestLoad_MissingFieldsAllListed(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("MYSQL_USER", "reader")

	_, err := Load()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	// every missing field, not just the first
	assert.Equal(t, []string{"mysql.password", "mysql.db"}, cfgErr.Missing)
	assert.Contains(t, cfgErr.Error(), "mysql.password")
	assert.Contains(t, cfgErr.Error(), "mysql.db")
}

func TestLoad_AllMissing(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Missing, 4)
}

func TestLoad_EnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("MYSQL_USER", "reader")
	t.Setenv("MYSQL_PASSWORD", "s3cret")
	t.Setenv("MYSQL_DB", "technolab")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.MySQL.Host)
	assert.Equal(t, 3306, cfg.MySQL.Port) // default port
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_SecretsFileTakesPrecedence(t *testing.T) {
	clearEnv(t)

	secrets := `
mysql:
  host: file-host
  port: 3307
  user: file-user
  password: file-pass
  db: file-db
  ssl: true
mongo:
  uri: mongodb://file:27017
`
	path := filepath.Join(t.TempDir(), "secrets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(secrets), 0o600))
	t.Setenv("SECRETS_FILE", path)
	t.Setenv("MYSQL_HOST", "env-host")
	t.Setenv("MYSQL_PASSWORD", "env-pass")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file-host", cfg.MySQL.Host)
	assert.Equal(t, "file-pass", cfg.MySQL.Password)
	assert.Equal(t, 3307, cfg.MySQL.Port)
	assert.True(t, cfg.MySQL.SSL)
	assert.Equal(t, "mongodb://file:27017", cfg.Mongo.URI)
}

func TestLoad_EnvFillsFileGaps(t *testing.T) {
	clearEnv(t)

	secrets := `
mysql:
  host: file-host
  password: file-pass
  db: file-db
`
	path := filepath.Join(t.TempDir(), "secrets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(secrets), 0o600))
	t.Setenv("SECRETS_FILE", path)
	t.Setenv("MYSQL_USER", "env-user")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file-host", cfg.MySQL.Host)
	assert.Equal(t, "env-user", cfg.MySQL.User)
}

func TestSecretPresence(t *testing.T) {
	cfg := &Config{}
	cfg.MySQL.Host = "h"
	cfg.MySQL.User = "u"

	presence := cfg.SecretPresence()
	assert.True(t, presence["mysql.host"])
	assert.True(t, presence["mysql.user"])
	assert.False(t, presence["mysql.password"])
	assert.False(t, presence["mysql.db"])
	assert.False(t, presence["mongo.uri"])
}
