package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and XDG_CONFIG_HOME at a temp dir and clears the
// variables Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, v := range []string{EnvConfig, EnvAPIKey, EnvBaseURL, EnvMaxRetries, EnvTimeout, EnvLogLevel} {
		t.Setenv(v, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadMergesGlobalAndProject(t *testing.T) {
	home := isolate(t)
	project := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "orb", "config.jsonc"), `{
		// global defaults
		"api_key": "global-key",
		"base_url": "https://api.withorb.com/v1/",
		"max_retries": 4,
		"headers": {"X-Team": "billing"}
	}`)
	writeFile(t, filepath.Join(project, ".orb.yaml"), "base_url: http://localhost:4010\ntimeout: 5s\nheaders:\n  X-Env: dev\n")

	cfg, err := Load(project)
	require.NoError(t, err)

	assert.Equal(t, "global-key", cfg.APIKey)
	assert.Equal(t, "http://localhost:4010", cfg.BaseURL)
	require.NotNil(t, cfg.MaxRetries)
	assert.Equal(t, 4, *cfg.MaxRetries)
	assert.Equal(t, map[string]string{"X-Team": "billing", "X-Env": "dev"}, cfg.Headers)

	timeout, err := cfg.RequestTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)
}

func TestLoadInterpolatesEnv(t *testing.T) {
	isolate(t)
	project := t.TempDir()
	t.Setenv("MY_ORB_KEY", "secret")

	writeFile(t, filepath.Join(project, ".orb.json"), `{"api_key": "{env:MY_ORB_KEY}"}`)

	cfg, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.APIKey)
}

func TestLoadEnvironmentWins(t *testing.T) {
	isolate(t)
	project := t.TempDir()

	writeFile(t, filepath.Join(project, ".orb.json"), `{"api_key": "file-key", "log_level": "info"}`)
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvMaxRetries, "0")

	cfg, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NotNil(t, cfg.MaxRetries)
	assert.Equal(t, 0, *cfg.MaxRetries)
}

func TestLoadConfigFileOverride(t *testing.T) {
	isolate(t)
	override := filepath.Join(t.TempDir(), "ci.yml")
	writeFile(t, override, "api_key: ci-key\n")
	t.Setenv(EnvConfig, override)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ci-key", cfg.APIKey)

	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "missing.json"))
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	isolate(t)
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ".orb.json"), `{"api_key": `)

	_, err := Load(project)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".orb.json")
}

func TestRequestOptions(t *testing.T) {
	retries := 1
	cfg := &Config{APIKey: "k", BaseURL: "http://localhost", MaxRetries: &retries, Timeout: "2s", Headers: map[string]string{"X": "y"}}
	opts, err := cfg.RequestOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 5)

	cfg.Timeout = "soon"
	_, err = cfg.RequestOptions()
	assert.Error(t, err)

	retries = -1
	cfg.Timeout = ""
	_, err = cfg.RequestOptions()
	assert.Error(t, err)
}

func TestGetPathsHonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	p := GetPaths()
	assert.Equal(t, filepath.Join("/xdg/config", "orb"), p.Config)
	assert.Equal(t, filepath.Join("/xdg/state", "orb", "log"), p.LogDir())
}

func TestLoadWithFileIgnoresEnvOverride(t *testing.T) {
	isolate(t)
	env := filepath.Join(t.TempDir(), "env.yml")
	writeFile(t, env, "api_key: env-key\n")
	t.Setenv(EnvConfig, env)
	explicit := filepath.Join(t.TempDir(), "explicit.jsonc")
	writeFile(t, explicit, `{"api_key": "flag-key"}`)

	cfg, err := LoadWithFile("", explicit)
	require.NoError(t, err)
	assert.Equal(t, "flag-key", cfg.APIKey)

	_, err = LoadWithFile("", filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
