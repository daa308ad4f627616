package config

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  name: BookIt API
  http:
    port: 9090
jwt:
  secret: from-file
  access_ttl_min: 15
db:
  driver: postgres
  dsn: postgres://bookit@localhost/bookit
redis:
  enabled: true
  catalog_ttl_sec: 120
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_FileAndDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "0.0.0.0", c.App.HTTP.Host)
	assert.Equal(t, 15*time.Minute, c.JWT.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, c.JWT.RefreshTTL())
	assert.Equal(t, time.Duration(0), c.JWT.Leeway())
	assert.Equal(t, sql.LevelSerializable, c.DB.IsolationLevel())
	assert.Equal(t, 3, c.DB.RetryAttempts)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, 2*time.Minute, c.Redis.CatalogTTL())
	assert.Equal(t, int64(1<<20), c.Limits.MaxBodyBytes)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_DB_ISOLATION", "read_committed")

	c, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, sql.LevelReadCommitted, c.DB.IsolationLevel())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "db:\n  driver: postgres\n"))
	assert.ErrorContains(t, err, "jwt.secret")

	_, err = Load(writeConfig(t, "jwt:\n  secret: x\ndb:\n  driver: oracle\n"))
	assert.ErrorContains(t, err, "unsupported db.driver")
}

func TestLoad_LocalConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "..", "configs", "config.local.yaml"))
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), c.JWT.Leeway(), "expired tokens are rejected without grace")
	assert.Equal(t, 0.0, c.Limits.GlobalRPS)
	assert.Equal(t, "postgres", c.DB.Driver)
}
