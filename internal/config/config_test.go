package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aezell/codescore/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into a temp dir so a stray .env in the repo is not picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	dir := chdir(t)
	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(filepath.Join(dir, "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, client.DefaultEndpoint, cfg.ResolvedEndpoint())
	assert.Equal(t, "info", cfg.ResolvedLogLevel())
	assert.Equal(t, "127.0.0.1:3000", cfg.ResolvedAddr())
	assert.Equal(t, DefaultTheme(), cfg.ResolvedTheme())
}

func TestLoadFile(t *testing.T) {
	dir := chdir(t)
	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvLogLevel, "")

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
endpoint = "http://analyzer:9000/analyze-code"

[log]
level = "DEBUG"

[serve]
addr = "0.0.0.0"
port = 8080

[theme]
good = "#00ff00"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://analyzer:9000/analyze-code", cfg.ResolvedEndpoint())
	assert.Equal(t, "debug", cfg.ResolvedLogLevel())
	assert.Equal(t, "0.0.0.0:8080", cfg.ResolvedAddr())

	theme := cfg.ResolvedTheme()
	assert.Equal(t, "#00ff00", theme.Good)
	assert.Equal(t, DefaultTheme().Poor, theme.Poor)
}

func TestLoadInvalidTOML(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint = ["), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestEnvOverridesFile(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`endpoint = "http://file/analyze-code"`), 0o644))
	t.Setenv(EnvEndpoint, "http://env/analyze-code")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env/analyze-code", cfg.ResolvedEndpoint())
}

func TestDotEnvFillsUnsetVariables(t *testing.T) {
	dir := chdir(t)
	t.Setenv(EnvLogLevel, "")
	os.Unsetenv(EnvLogLevel)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CODESCORE_LOG_LEVEL=warn\n"), 0o644))

	cfg, err := Load(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.ResolvedLogLevel())
}

func TestResolvedLogFileExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := Config{Log: LogConfig{File: "~/logs/cs.log"}}
	assert.Equal(t, filepath.Join(home, "logs", "cs.log"), cfg.ResolvedLogFile())
}
