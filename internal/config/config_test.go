package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, defaultHost, cfg.HTTP.Host)
	assert.Equal(t, defaultPort, cfg.HTTP.Port)
	assert.Equal(t, defaultReadTimeout, cfg.HTTP.ReadTimeout)
	assert.Equal(t, defaultLoggingFormat, cfg.Logging.Format)
	assert.Equal(t, defaultGraphMaxSessions, cfg.Graph.MaxConnections)
	assert.Equal(t, defaultDataDir, cfg.Data.Dir)
	assert.Equal(t, defaultFetchRetries, cfg.Data.FetchRetries)
	assert.Equal(t, SourceFile, cfg.Data.TransactionsSource)
	assert.Empty(t, cfg.HTTP.AllowedOrigins())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_WRITE_TIMEOUT", "3s")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_COLOR", "true")
	t.Setenv("DATA_BASE_URL", "http://localhost:8080/data")
	t.Setenv("AID_TRANSACTIONS_SOURCE", "graph")
	t.Setenv("GRAPH_URI", "neo4j://localhost:7687")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Colored)
	assert.Equal(t, SourceGraph, cfg.Data.TransactionsSource)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"port not a number":   {"SERVER_PORT": "http"},
		"port out of range":   {"SERVER_PORT": "70000"},
		"bad duration":        {"SERVER_IDLE_TIMEOUT": "soon"},
		"unknown log level":   {"LOG_LEVEL": "verbose"},
		"negative retries":    {"DATA_FETCH_RETRIES": "-1"},
		"unknown source":      {"AID_TRANSACTIONS_SOURCE": "s3"},
		"graph without uri":   {"AID_TRANSACTIONS_SOURCE": "graph"},
		"base url not an url": {"DATA_BASE_URL": "::"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vizdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_port: 8081\ndata_dir: /srv/data\nlog_format: json\n"), 0o600))
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, "/srv/data", cfg.Data.Dir)
	assert.Equal(t, "console", cfg.Logging.Format)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
