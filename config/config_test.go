package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "semrdf-retriever/1.0", cfg.Fetch.UserAgent)
	assert.Equal(t, 10, cfg.Fetch.MaxIdleConns)
	assert.Empty(t, cfg.NATS.URL, "service config names the servers unless overridden")
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid default config",
			modify: func(c *Config) {},
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Fetch.Timeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "password without username",
			modify:  func(c *Config) { c.Fetch.Auth.Password = "secret" },
			wantErr: true,
		},
		{
			name: "basic and bearer together",
			modify: func(c *Config) {
				c.Fetch.Auth.Username = "alice"
				c.Fetch.Auth.BearerToken = "token"
			},
			wantErr: true,
		},
		{
			name:   "basic auth",
			modify: func(c *Config) { c.Fetch.Auth = AuthConfig{Username: "alice", Password: "secret"} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	content := `
fetch:
  timeout: 10s
  user_agent: "test-agent/2.0"
  auth:
    bearer_token: "abc123"
nats:
  url: "nats://test:4222"
log:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "test-agent/2.0", cfg.Fetch.UserAgent)
	assert.Equal(t, 10, cfg.Fetch.MaxIdleConns, "unset fields keep defaults")
	assert.Equal(t, "abc123", cfg.Fetch.Auth.BearerToken)
	assert.Equal(t, "nats://test:4222", cfg.NATS.URL)
	assert.Equal(t, "debug", cfg.Log.Level)

	tc := cfg.Transport()
	assert.Equal(t, 10*time.Second, tc.Timeout)
	assert.True(t, tc.Auth.Enabled())
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("fetch: [unclosed"), 0644))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Fetch: FetchConfig{
			UserAgent: "override/1.0",
			Auth:      AuthConfig{Username: "bob", Password: "pw"},
		},
	}

	base.Merge(override)

	assert.Equal(t, "override/1.0", base.Fetch.UserAgent)
	assert.Equal(t, 30*time.Second, base.Fetch.Timeout, "timeout should remain default")
	assert.Equal(t, "bob", base.Fetch.Auth.Username)
	assert.Equal(t, "info", base.Log.Level)

	base.Merge(nil)
	assert.Equal(t, "override/1.0", base.Fetch.UserAgent)
}

func TestConfigSaveToFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Fetch.UserAgent = "saved/1.0"
	require.NoError(t, cfg.SaveToFile(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "saved/1.0", loaded.Fetch.UserAgent)
	assert.Equal(t, cfg.Fetch.Timeout, loaded.Fetch.Timeout)
}

func TestLoader_Load(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("fetch:\n  user_agent: explicit/1.0\n"), 0644))

	env := map[string]string{
		EnvNATSURL:  "nats://env:4222",
		EnvUsername: "carol",
		EnvPassword: "pw",
	}
	l := NewLoader(nil)
	l.getenv = func(k string) string { return env[k] }

	cfg, err := l.Load(explicit)
	require.NoError(t, err)

	assert.Equal(t, "explicit/1.0", cfg.Fetch.UserAgent)
	assert.Equal(t, "nats://env:4222", cfg.NATS.URL)
	assert.Equal(t, AuthConfig{Username: "carol", Password: "pw"}, cfg.Fetch.Auth)
}

func TestLoader_EnvCredentials(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		env      map[string]string
		wantAuth AuthConfig
		wantErr  string
	}{
		{
			name:     "bearer replaces file basic",
			file:     "fetch:\n  auth:\n    username: alice\n    password: pw\n",
			env:      map[string]string{EnvBearerToken: "tok"},
			wantAuth: AuthConfig{BearerToken: "tok"},
		},
		{
			name:     "basic replaces file bearer",
			file:     "fetch:\n  auth:\n    bearer_token: tok\n",
			env:      map[string]string{EnvUsername: "carol", EnvPassword: "pw"},
			wantAuth: AuthConfig{Username: "carol", Password: "pw"},
		},
		{
			name:     "file credentials kept without env",
			file:     "fetch:\n  auth:\n    bearer_token: tok\n",
			wantAuth: AuthConfig{BearerToken: "tok"},
		},
		{
			name:    "bearer and basic together rejected",
			env:     map[string]string{EnvBearerToken: "tok", EnvUsername: "carol", EnvPassword: "pw"},
			wantErr: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Chdir(t.TempDir())

			var path string
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), "explicit.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0600))
			}
			l := NewLoader(nil)
			l.getenv = func(k string) string { return tt.env[k] }

			cfg, err := l.Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAuth, cfg.Fetch.Auth)
		})
	}
}

func TestLoader_LoadProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte("log:\n  level: warn\n"), 0644))
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))
	t.Chdir(sub)

	l := NewLoader(nil)
	l.getenv = func(string) string { return "" }

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoader_LoadMissingExplicit(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	_, err := NewLoader(nil).Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
