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

func TestLoadFileAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  user: catalog
  password: secret
  dbname: catalog
  loc: Asia/Shanghai
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, 12, cfg.Pagination.DefaultSize)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, "catalog.events", cfg.MQ.Exchange)
	assert.Equal(t, uint32(5), cfg.MQ.BreakerFailures)
	assert.Equal(t,
		"catalog:secret@tcp(127.0.0.1:3306)/catalog?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai",
		cfg.Database.DSN())
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr())
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("CATALOG_DATABASE_PASSWORD", "from-env")
	t.Setenv("CATALOG_PAGINATION_MAX_SIZE", "50")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 50, cfg.Pagination.MaxSize)
}

func TestValidate(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "server:\n  port: 70000\n"))
	assert.ErrorContains(t, err, "invalid server port")

	_, err = LoadFile(writeConfig(t, "server:\n  mode: release\n"))
	assert.ErrorContains(t, err, "jwt.secret")

	_, err = LoadFile(writeConfig(t, "mq:\n  enabled: true\n"))
	assert.ErrorContains(t, err, "mq.url")

	_, err = LoadFile(writeConfig(t, "pagination:\n  default_size: 20\n  max_size: 10\n"))
	assert.ErrorContains(t, err, "pagination")
}
