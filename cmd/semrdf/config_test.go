package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	cliconfig "github.com/c360studio/semrdf/config"
	rdfretriever "github.com/c360studio/semrdf/processor/rdf-retriever"
	"github.com/c360studio/semstreams/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExpandEnvWithDefaults verifies that environment variable expansion
// properly handles ${VAR:-default} syntax.
func TestExpandEnvWithDefaults(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		env      map[string]string
		expected string
	}{
		{
			name:     "default used when var unset",
			input:    `nats://${NATS_HOST:-localhost}:4222`,
			expected: `nats://localhost:4222`,
		},
		{
			name:     "env value used when set",
			input:    `nats://${NATS_HOST:-localhost}:4222`,
			env:      map[string]string{"NATS_HOST": "nats.prod"},
			expected: `nats://nats.prod:4222`,
		},
		{
			name:     "credentials from environment",
			input:    `{"bearer_token":"${REPO_TOKEN:-}"}`,
			env:      map[string]string{"REPO_TOKEN": "abc"},
			expected: `{"bearer_token":"abc"}`,
		},
		{
			name:     "empty default",
			input:    `prefix${OPTIONAL:-}suffix`,
			expected: `prefixsuffix`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range []string{"NATS_HOST", "REPO_TOKEN", "OPTIONAL"} {
				t.Setenv(v, "")
				require.NoError(t, os.Unsetenv(v))
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			assert.Equal(t, tt.expected, config.ExpandEnvWithDefaults(tt.input))
		})
	}
}

func TestBuildDefaultConfig(t *testing.T) {
	cfg, err := buildDefaultConfig("nats://example:4222")
	require.NoError(t, err)

	assert.Equal(t, []string{"nats://example:4222"}, cfg.NATS.URLs)
	assert.Contains(t, cfg.Streams, "RESOURCES")
	assert.Contains(t, cfg.Streams, "GRAPH")

	comp, ok := cfg.Components["rdf-retriever"]
	require.True(t, ok)
	assert.True(t, comp.Enabled)

	var rc rdfretriever.Config
	require.NoError(t, json.Unmarshal(comp.Config, &rc))
	assert.NoError(t, rc.Validate())
	assert.Equal(t, "RESOURCES", rc.StreamName)

	platform := extractPlatformMeta(cfg)
	assert.Equal(t, "c360", platform.Org)
	assert.Equal(t, "semrdf", platform.Platform)
}

func TestResolveNATSURL(t *testing.T) {
	cfg, err := buildDefaultConfig("nats://from-config:4222")
	require.NoError(t, err)

	tests := []struct {
		name    string
		flagURL string
		envURL  string
		local   *cliconfig.Config
		want    string
	}{
		{
			name:  "service config",
			local: cliconfig.DefaultConfig(),
			want:  "nats://from-config:4222",
		},
		{
			name:  "semrdf config overrides service config",
			local: &cliconfig.Config{NATS: cliconfig.NATSConfig{URL: "nats://semrdf:4222"}},
			want:  "nats://semrdf:4222",
		},
		{
			name:   "NATS_URL overrides semrdf config",
			envURL: "nats://global:4222",
			local:  &cliconfig.Config{NATS: cliconfig.NATSConfig{URL: "nats://semrdf:4222"}},
			want:   "nats://global:4222",
		},
		{
			name:    "flag overrides everything",
			flagURL: "nats://flag:4222",
			envURL:  "nats://global:4222",
			local:   &cliconfig.Config{NATS: cliconfig.NATSConfig{URL: "nats://semrdf:4222"}},
			want:    "nats://flag:4222",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NATS_URL", tt.envURL)
			assert.Equal(t, tt.want, resolveNATSURL(tt.flagURL, tt.local, cfg))
		})
	}
}

func TestResolveNATSURL_SemrdfEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("NATS_URL", "")
	t.Setenv(cliconfig.EnvNATSURL, "nats://semrdf-env:4222")

	local, err := cliconfig.NewLoader(nil).Load("")
	require.NoError(t, err)
	cfg, err := buildDefaultConfig("")
	require.NoError(t, err)

	assert.Equal(t, "nats://semrdf-env:4222", resolveNATSURL("", local, cfg))
	assert.Equal(t, []string{defaultNATSURL}, cfg.NATS.URLs)
}

func TestLogLevelFor(t *testing.T) {
	tests := []struct {
		name  string
		flag  string
		local *cliconfig.Config
		want  string
	}{
		{name: "flag wins", flag: "error", local: &cliconfig.Config{Log: cliconfig.LogConfig{Level: "debug"}}, want: "error"},
		{name: "config level", local: &cliconfig.Config{Log: cliconfig.LogConfig{Level: "debug"}}, want: "debug"},
		{name: "no config", flag: "", local: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logLevelFor(tt.flag, tt.local))
		})
	}
}

func TestEnsureServiceManagerConfig(t *testing.T) {
	cfg, err := buildDefaultConfig("nats://localhost:4222")
	require.NoError(t, err)

	ensureServiceManagerConfig(cfg)
	svc, ok := cfg.Services["service-manager"]
	require.True(t, ok)
	assert.True(t, svc.Enabled)
}

func TestLoadConfigWithEnvSubstitution_MissingFile(t *testing.T) {
	_, err := loadConfigWithEnvSubstitution(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
