package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[development]
host = "localhost"
port = 8080
environment = "development"
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "anagolic"
redis_host = "localhost"
redis_port = "6379"
personas_path = "./assets/personas.json"
login_rate_limit_allowed_per_min = 15

[production]
host = ""
port = 9000
environment = "production"
log_level = "debug"
logs_path = "/var/log/anagolic/service.log"
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "anagolic"
redis_host = "localhost"
redis_port = "6379"
personas_path = "/opt/anagolic/assets/personas.json"
login_rate_limit_allowed_per_min = 5
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigToml), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestConfig(t)

	devCfg, err := Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, 8080, devCfg.Port)
	assert.Equal(t, "trace", devCfg.LogLevel)
	assert.True(t, devCfg.LogToStdout)
	assert.Equal(t, "./assets/personas.json", devCfg.PersonasPath)
	assert.Equal(t, 15, devCfg.LoginRateLimitAllowedPerMin)

	// short env aliases work too
	devCfg2, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, devCfg.Port, devCfg2.Port)

	prodCfg, err := Load("production", path)
	require.NoError(t, err)
	assert.Equal(t, 9000, prodCfg.Port)
	assert.Equal(t, "/var/log/anagolic/service.log", prodCfg.LogsPath)
}

func TestLoad_unknownEnv(t *testing.T) {
	path := writeTestConfig(t)

	_, err := Load("staging", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown env")
}

func TestLoad_missingFile(t *testing.T) {
	_, err := Load("development", "/nonexistent/config.toml")
	require.Error(t, err)
}
