package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", settings.Analyzer.Region)
	assert.Equal(t, "./waf_charts", settings.Analyzer.ChartDir)
	assert.Equal(t, 80, settings.Server.Port)
	assert.Equal(t, "info", settings.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WAFCLI_ANALYZER__BUCKET", "waf-logs")
	t.Setenv("WAFCLI_ANALYZER__REGION", "eu-west-1")
	t.Setenv("WAFCLI_ANALYZER__MAX_FILES", "25")
	t.Setenv("WAFCLI_SERVER__PORT", "8080")
	t.Setenv("WAFCLI_LOG_LEVEL", "DEBUG")

	settings, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "waf-logs", settings.Analyzer.Bucket)
	assert.Equal(t, "eu-west-1", settings.Analyzer.Region)
	assert.Equal(t, 25, settings.Analyzer.MaxFiles)
	assert.Equal(t, 8080, settings.Server.Port)
	assert.Equal(t, "debug", settings.LogLevel)
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WAFCLI_ANALYZER__LOCAL_DIR=/var/log/waf\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("WAFCLI_ANALYZER__LOCAL_DIR") })

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/log/waf", settings.Analyzer.LocalDir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("WAFCLI_SERVER__PORT", "70000")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "invalid settings")
}

func TestValidateEndpoint(t *testing.T) {
	s := DefaultSettings()
	s.Analyzer.Endpoint = "not a url"
	assert.Error(t, s.Validate())

	s.Analyzer.Endpoint = "http://localhost:9000"
	assert.NoError(t, s.Validate())
}
